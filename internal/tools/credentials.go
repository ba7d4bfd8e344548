package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"c8ymcp/pkg/auth"
	"c8ymcp/pkg/metrics"
)

// CredentialLister enumerates stored credentials. *credstore.Store
// satisfies it.
type CredentialLister interface {
	List() ([]auth.Basic, error)
}

// ListCredentials reports the tenants with stored credentials. Passwords and
// user names are never included.
func ListCredentials(store CredentialLister) Tool {
	def := mcp.NewTool("list-credentials", mcp.WithDescription("List stored Cumulocity credentials"))
	handler := func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		creds, err := store.List()
		if err != nil {
			metrics.ToolCalls.WithLabelValues("list-credentials", "error").Inc()
			return mcp.NewToolResultError(errorText("listing credentials", err)), nil
		}
		metrics.ToolCalls.WithLabelValues("list-credentials", "ok").Inc()
		if len(creds) == 0 {
			return mcp.NewToolResultError("No stored credentials found."), nil
		}
		lines := make([]string, len(creds))
		for i, c := range creds {
			lines[i] = "TenantUrl: " + c.TenantURL
		}
		return mcp.NewToolResultText("Found credentials for the following tenants:\n" + strings.Join(lines, "\n")), nil
	}
	return Tool{Def: def, Handler: handler}
}
