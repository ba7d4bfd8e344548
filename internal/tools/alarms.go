package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"c8ymcp/internal/c8y"
)

func alarmTools(d Deps) []Tool {
	return []Tool{
		d.build(toolSpec{
			name: "get-alarms",
			desc: "Get alarms with optional filters",
			opts: append([]mcp.ToolOption{
				mcp.WithString("deviceId", mcp.Description("Device ID filter")),
				mcp.WithString("status", mcp.Enum("ACTIVE", "ACKNOWLEDGED", "CLEARED"), mcp.Description("Status filter (default: ACTIVE)")),
				mcp.WithString("severity", mcp.Enum("CRITICAL", "MAJOR", "MINOR", "WARNING"), mcp.Description("Severity filter")),
				mcp.WithString("type", mcp.Description("Alarm type filter")),
				mcp.WithString("dateFrom", mcp.Description("ISO date from")),
				mcp.WithString("dateTo", mcp.Description("ISO date to")),
				mcp.WithBoolean("resolved", mcp.Description("Filter by resolved state")),
				mcp.WithBoolean("withSourceAssets", mcp.Description("Include parent assets")),
				mcp.WithBoolean("withSourceDevices", mcp.Description("Include parent devices")),
				selectArg(),
			}, pagingArgs()...),
			context: static("getting alarms"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				q := pageQuery(req, 50)
				setString(q, req, "deviceId", "source")
				q.Set("status", req.GetString("status", "ACTIVE"))
				for _, k := range []string{"severity", "type", "dateFrom", "dateTo"} {
					setString(q, req, k, k)
				}
				setBool(q, req, "resolved")
				setBool(q, req, "withSourceAssets")
				setBool(q, req, "withSourceDevices")
				page, err := c.List(ctx, "/alarm/alarms", "alarms", q)
				if err != nil {
					return "", err
				}
				scope := "tenant"
				if id := req.GetString("deviceId", ""); id != "" {
					scope = "device " + id
				}
				return paginated("Alarms for "+scope, page, "", req.GetString("select", ""))
			},
		}),
		d.build(toolSpec{
			name: "get-alarm-counts",
			desc: "Count active alarms by severity from managed object inventory",
			opts: []mcp.ToolOption{
				mcp.WithString("deviceId", mcp.Required(), mcp.Description("Managed object ID (device, asset, or group)")),
			},
			context: static("getting alarm counts"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("deviceId", "")
				var mo map[string]any
				if err := c.Get(ctx, objectPath(id), nil, &mo); err != nil {
					return "", err
				}
				counts := map[string]any{"deviceId": id}
				status, found := mo["c8y_ActiveAlarmsStatus"].(map[string]any)
				total := 0
				for _, sev := range []string{"critical", "major", "minor", "warning"} {
					n := 0
					if f, ok := status[sev].(float64); ok {
						n = int(f)
					}
					counts[strings.ToUpper(sev)] = n
					total += n
				}
				counts["total"] = total
				if !found {
					counts["note"] = "No c8y_ActiveAlarmsStatus fragment found on this managed object"
				}
				return object("Alarm counts", counts)
			},
		}),
	}
}
