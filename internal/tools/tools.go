// Package tools defines the MCP tools that read from the platform.
package tools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"c8ymcp/internal/c8y"
	"c8ymcp/pkg/metrics"
)

const tenantURLArg = "tenantUrl"

// ClientResolver opens a platform client for the current call.
// *resolver.Resolver satisfies it.
type ClientResolver interface {
	Resolve(ctx context.Context, explicitTenantURL string) (*c8y.Client, error)
}

type Deps struct {
	Resolver ClientResolver
	// SingleUser adds a required tenantUrl argument to every tool.
	SingleUser bool
	Log        *zap.SugaredLogger
}

// Tool pairs a definition with its handler.
type Tool struct {
	Def     mcp.Tool
	Handler server.ToolHandlerFunc
}

// Register adds tools to s.
func Register(s *server.MCPServer, tools []Tool) {
	for _, t := range tools {
		s.AddTool(t.Def, t.Handler)
	}
}

// All returns the platform tools in a stable order.
func All(d Deps) []Tool {
	var out []Tool
	out = append(out, inventoryTools(d)...)
	out = append(out, measurementTools(d)...)
	out = append(out, eventTools(d)...)
	out = append(out, alarmTools(d)...)
	out = append(out, metadataTools(d)...)
	return out
}

type runFunc func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error)

// toolSpec is the declarative part of a tool. context names the operation
// in error messages, e.g. "getting object 42".
type toolSpec struct {
	name    string
	desc    string
	opts    []mcp.ToolOption
	context func(req mcp.CallToolRequest) string
	run     runFunc
}

func static(s string) func(mcp.CallToolRequest) string {
	return func(mcp.CallToolRequest) string { return s }
}

func (d Deps) build(ts toolSpec) Tool {
	opts := append([]mcp.ToolOption{mcp.WithDescription(ts.desc)}, ts.opts...)
	if d.SingleUser {
		opts = append(opts, mcp.WithString(tenantURLArg,
			mcp.Required(),
			mcp.Description("The Cumulocity tenant URL against which the operation is executed, e.g. https://my-tenant.cumulocity.com"),
		))
	}
	def := mcp.NewTool(ts.name, opts...)
	log := d.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		what := ts.context(req)
		fail := func(err error) (*mcp.CallToolResult, error) {
			metrics.ToolCalls.WithLabelValues(ts.name, "error").Inc()
			log.Infow("tool failed", "tool", ts.name, "err", err)
			return mcp.NewToolResultError(errorText(what, err)), nil
		}
		if err := checkRequired(def, req); err != nil {
			return fail(err)
		}
		client, err := d.Resolver.Resolve(ctx, req.GetString(tenantURLArg, ""))
		if err != nil {
			return fail(err)
		}
		text, err := ts.run(ctx, client, req)
		if err != nil {
			return fail(err)
		}
		metrics.ToolCalls.WithLabelValues(ts.name, "ok").Inc()
		return mcp.NewToolResultText(text), nil
	}
	return Tool{Def: def, Handler: handler}
}

// checkRequired rejects calls missing a required argument. tenantUrl is left
// to the resolver, which reports its own error for it.
func checkRequired(def mcp.Tool, req mcp.CallToolRequest) error {
	args := req.GetArguments()
	for _, name := range def.InputSchema.Required {
		if name == tenantURLArg {
			continue
		}
		v, ok := args[name]
		if !ok || v == nil || v == "" {
			return fmt.Errorf("missing required argument %q", name)
		}
	}
	return nil
}

func pagingArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("pageSize", mcp.Description("Results per page (default 50, max 2000)")),
		mcp.WithNumber("page", mcp.Description("Page number (avoid pagination if possible)")),
	}
}

func selectArg() mcp.ToolOption {
	return mcp.WithString("select", mcp.Description("Optional JMESPath expression applied to the result list, e.g. [].{id: id, name: name}"))
}

func pageQuery(req mcp.CallToolRequest, defaultSize int) url.Values {
	return c8y.PageQuery(req.GetInt("pageSize", defaultSize), req.GetInt("page", 1))
}

// setString copies a non-empty string argument into q.
func setString(q url.Values, req mcp.CallToolRequest, arg, param string) {
	if v := req.GetString(arg, ""); v != "" {
		q.Set(param, v)
	}
}

// setBool copies a boolean argument into q only when the caller supplied it.
func setBool(q url.Values, req mcp.CallToolRequest, arg string) {
	if _, ok := req.GetArguments()[arg]; ok {
		q.Set(arg, strconv.FormatBool(req.GetBool(arg, false)))
	}
}

func objectPath(id string) string {
	return "/inventory/managedObjects/" + url.PathEscape(id)
}
