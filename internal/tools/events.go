package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"c8ymcp/internal/c8y"
)

func eventTools(d Deps) []Tool {
	return []Tool{
		d.build(toolSpec{
			name: "get-events",
			desc: "Get events from device",
			opts: append([]mcp.ToolOption{
				mcp.WithString("deviceId", mcp.Required(), mcp.Description("Device ID (required)")),
				mcp.WithString("type", mcp.Description("Event type filter")),
				mcp.WithString("fragmentType", mcp.Description("Fragment type filter")),
				mcp.WithString("dateFrom", mcp.Description("ISO date from")),
				mcp.WithString("dateTo", mcp.Description("ISO date to")),
				mcp.WithBoolean("withSourceAssets", mcp.Description("Include parent assets")),
				mcp.WithBoolean("withSourceDevices", mcp.Description("Include parent devices")),
				selectArg(),
			}, pagingArgs()...),
			context: func(req mcp.CallToolRequest) string {
				return "getting events for " + req.GetString("deviceId", "")
			},
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("deviceId", "")
				q := pageQuery(req, 50)
				q.Set("source", id)
				for _, k := range []string{"type", "fragmentType", "dateFrom", "dateTo"} {
					setString(q, req, k, k)
				}
				setBool(q, req, "withSourceAssets")
				setBool(q, req, "withSourceDevices")
				page, err := c.List(ctx, "/event/events", "events", q)
				if err != nil {
					return "", err
				}
				return paginated("Events for "+id, page, "", req.GetString("select", ""))
			},
		}),
		d.build(toolSpec{
			name: "get-event-types",
			desc: "Discover event types for device",
			opts: []mcp.ToolOption{
				mcp.WithString("deviceId", mcp.Required(), mcp.Description("Device ID")),
			},
			context: func(req mcp.CallToolRequest) string {
				return "getting event types for " + req.GetString("deviceId", "")
			},
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("deviceId", "")
				q := c8y.PageQuery(100, 0)
				q.Del("withTotalPages")
				q.Set("source", id)
				page, err := c.List(ctx, "/event/events", "events", q)
				if err != nil {
					return "", err
				}
				seen := map[string]bool{}
				types := []string{}
				for _, e := range page.Items {
					if t, _ := e["type"].(string); t != "" && !seen[t] {
						seen[t] = true
						types = append(types, t)
					}
				}
				return object("Event types for "+id, map[string]any{
					"deviceId":    id,
					"eventTypes":  types,
					"sampleCount": len(page.Items),
				})
			},
		}),
	}
}
