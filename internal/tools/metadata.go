package tools

import (
	"context"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"c8ymcp/internal/c8y"
)

func metadataTools(d Deps) []Tool {
	return []Tool{
		d.build(toolSpec{
			name: "get-dashboards",
			desc: "Get dashboards for device or group",
			opts: []mcp.ToolOption{
				mcp.WithString("deviceId", mcp.Required(), mcp.Description("Device or group ID")),
				selectArg(),
			},
			context: func(req mcp.CallToolRequest) string {
				return "getting dashboards for " + req.GetString("deviceId", "")
			},
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("deviceId", "")
				q := c8y.PageQuery(50, 0)
				q.Set("query", "$filter=has(c8y_Dashboard)")
				page, err := c.List(ctx, objectPath(id)+"/childAdditions", "references", q)
				if err != nil {
					return "", err
				}
				return paginated("Dashboards for "+id, page, "", req.GetString("select", ""))
			},
		}),
		d.build(toolSpec{
			name: "get-audit",
			desc: "Get audit logs with filters",
			opts: append([]mcp.ToolOption{
				mcp.WithString("dateFrom", mcp.Required(), mcp.Description("ISO date from (required)")),
				mcp.WithString("dateTo", mcp.Required(), mcp.Description("ISO date to (required)")),
				mcp.WithString("user", mcp.Description("Filter by username")),
				mcp.WithString("type", mcp.Description("Audit type (e.g. Operation, Alarm, User)")),
				mcp.WithString("application", mcp.Description("Application name (e.g. cockpit)")),
				mcp.WithString("source", mcp.Description("Source device/object ID")),
				selectArg(),
			}, pagingArgs()...),
			context: static("getting audit logs"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				q := pageQuery(req, 50)
				q.Set("dateFrom", req.GetString("dateFrom", ""))
				q.Set("dateTo", req.GetString("dateTo", ""))
				q.Set("revert", "true")
				// the audit API expects the user parameter even when empty
				q.Set("user", req.GetString("user", ""))
				for _, k := range []string{"type", "application", "source"} {
					setString(q, req, k, k)
				}
				page, err := c.List(ctx, "/audit/auditRecords", "auditRecords", q)
				if err != nil {
					return "", err
				}
				return paginated("Audit records", page, "", req.GetString("select", ""))
			},
		}),
		d.build(toolSpec{
			name: "get-current-tenant",
			desc: "Get current tenant info",
			opts: []mcp.ToolOption{
				mcp.WithBoolean("withParent", mcp.Description("Include parent tenant")),
			},
			context: static("getting current tenant"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				q := url.Values{}
				setBool(q, req, "withParent")
				var tenant map[string]any
				if err := c.Get(ctx, "/tenant/currentTenant", q, &tenant); err != nil {
					return "", err
				}
				delete(tenant, "applications")
				delete(tenant, "ownedApplications")
				return object("Current tenant", tenant)
			},
		}),
		d.build(toolSpec{
			name: "get-tenant-stats",
			desc: "Get tenant usage statistics",
			opts: []mcp.ToolOption{
				mcp.WithString("dateFrom", mcp.Description("ISO date from")),
				mcp.WithString("dateTo", mcp.Description("ISO date to")),
				mcp.WithNumber("pageSize", mcp.Description("Results per page (default 50)")),
			},
			context: static("getting tenant statistics"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				q := c8y.PageQuery(req.GetInt("pageSize", 50), 0)
				setString(q, req, "dateFrom", "dateFrom")
				setString(q, req, "dateTo", "dateTo")
				var stats map[string]any
				if err := c.Get(ctx, "/tenant/statistics", q, &stats); err != nil {
					return "", err
				}
				return object("Tenant statistics", stats)
			},
		}),
		d.build(toolSpec{
			name: "get-tenant-summary",
			desc: "Get tenant usage summary",
			opts: []mcp.ToolOption{
				mcp.WithString("dateFrom", mcp.Description("ISO date from")),
				mcp.WithString("dateTo", mcp.Description("ISO date to")),
			},
			context: static("getting tenant summary"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				q := url.Values{}
				setString(q, req, "dateFrom", "dateFrom")
				setString(q, req, "dateTo", "dateTo")
				var summary map[string]any
				if err := c.Get(ctx, "/tenant/statistics/summary", q, &summary); err != nil {
					return "", err
				}
				return object("Tenant summary", summary)
			},
		}),
		d.build(toolSpec{
			name:    "get-current-user",
			desc:    "Get current user info",
			context: static("getting current user"),
			run: func(ctx context.Context, c *c8y.Client, _ mcp.CallToolRequest) (string, error) {
				var user map[string]any
				if err := c.Get(ctx, "/user/currentUser", nil, &user); err != nil {
					return "", err
				}
				return object("Current user", user)
			},
		}),
		d.build(toolSpec{
			name: "get-users",
			desc: "Get users for tenant",
			opts: append([]mcp.ToolOption{
				mcp.WithString("username", mcp.Description("Filter by username prefix")),
				mcp.WithString("groups", mcp.Description("Filter by group IDs (comma-separated)")),
				mcp.WithBoolean("onlyDevices", mcp.Description("Only device users")),
				selectArg(),
			}, pagingArgs()...),
			context: static("getting users"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				var tenant struct {
					Name string `json:"name"`
				}
				if err := c.Get(ctx, "/tenant/currentTenant", nil, &tenant); err != nil {
					return "", err
				}
				q := pageQuery(req, 50)
				setString(q, req, "username", "username")
				setString(q, req, "groups", "groups")
				setBool(q, req, "onlyDevices")
				page, err := c.List(ctx, "/user/"+url.PathEscape(tenant.Name)+"/users", "users", q)
				if err != nil {
					return "", err
				}
				return paginated("Users for current tenant", page, "", req.GetString("select", ""))
			},
		}),
		d.build(toolSpec{
			name: "get-application",
			desc: "Get a specific application by ID",
			opts: []mcp.ToolOption{
				mcp.WithString("id", mcp.Required(), mcp.Description("Application ID")),
			},
			context: func(req mcp.CallToolRequest) string { return "getting application " + req.GetString("id", "") },
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("id", "")
				var app map[string]any
				if err := c.Get(ctx, "/application/applications/"+url.PathEscape(id), nil, &app); err != nil {
					return "", err
				}
				return object("Application "+id, app)
			},
		}),
		d.build(toolSpec{
			name: "get-applications",
			desc: "Get all applications on tenant",
			opts: []mcp.ToolOption{
				mcp.WithString("type", mcp.Enum("EXTERNAL", "HOSTED", "MICROSERVICE"), mcp.Description("HOSTED=extensions/plugins, MICROSERVICE=backend services")),
				mcp.WithString("availability", mcp.Enum("MARKET", "PRIVATE", "SHARED"), mcp.Description("MARKET=official, PRIVATE=custom uploaded, SHARED=shared")),
				mcp.WithNumber("page", mcp.Description("Page number")),
				selectArg(),
			},
			context: static("getting applications"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				q := c8y.PageQuery(2000, req.GetInt("page", 0))
				setString(q, req, "type", "type")
				setString(q, req, "availability", "availability")
				page, err := c.List(ctx, "/application/applications", "applications", q)
				if err != nil {
					return "", err
				}
				return paginated("Applications", page, "", req.GetString("select", ""))
			},
		}),
		d.build(toolSpec{
			name: "get-application-versions",
			desc: "Get all versions of application",
			opts: []mcp.ToolOption{
				mcp.WithString("id", mcp.Required(), mcp.Description("Application ID")),
			},
			context: func(req mcp.CallToolRequest) string {
				return "getting versions for application " + req.GetString("id", "")
			},
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("id", "")
				var versions map[string]any
				if err := c.Get(ctx, "/application/applications/"+url.PathEscape(id)+"/versions", nil, &versions); err != nil {
					return "", err
				}
				return object("Versions for application "+id, versions)
			},
		}),
	}
}
