package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"c8ymcp/internal/c8y"
)

func inventoryTools(d Deps) []Tool {
	return []Tool{
		d.build(toolSpec{
			name: "query-inventory",
			desc: "Query devices, groups, assets with OData filter",
			opts: append([]mcp.ToolOption{
				mcp.WithString("query", mcp.Required(), mcp.Description("OData query (use inventory-query prompt for syntax)")),
				selectArg(),
			}, pagingArgs()...),
			context: static("querying inventory"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				q := pageQuery(req, 50)
				q.Set("query", req.GetString("query", ""))
				page, err := c.List(ctx, "/inventory/managedObjects", "managedObjects", q)
				if err != nil {
					return "", err
				}
				return paginated("Inventory", page, "Refine query if too many results", req.GetString("select", ""))
			},
		}),
		d.build(toolSpec{
			name: "get-object",
			desc: "Get device/group/asset or other by ID",
			opts: []mcp.ToolOption{
				mcp.WithString("id", mcp.Required(), mcp.Description("Managed object ID")),
			},
			context: func(req mcp.CallToolRequest) string { return "getting object " + req.GetString("id", "") },
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("id", "")
				var mo map[string]any
				if err := c.Get(ctx, objectPath(id), nil, &mo); err != nil {
					return "", err
				}
				return object("Object "+id, mo)
			},
		}),
		d.build(toolSpec{
			name: "list-children",
			desc: "List children of group or device",
			opts: []mcp.ToolOption{
				mcp.WithString("id", mcp.Required(), mcp.Description("Parent object ID")),
				mcp.WithString("type", mcp.Enum("asset", "device", "addition"), mcp.Description("Child type filter (default asset)")),
				mcp.WithNumber("pageSize", mcp.Description("Results per page (default 50)")),
				selectArg(),
			},
			context: func(req mcp.CallToolRequest) string { return "listing children of " + req.GetString("id", "") },
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("id", "")
				q := c8y.PageQuery(req.GetInt("pageSize", 50), 0)
				path := objectPath(id)
				switch req.GetString("type", "asset") {
				case "device":
					path += "/childDevices"
				case "addition":
					path += "/childAdditions"
				default:
					path += "/childAssets"
				}
				page, err := c.List(ctx, path, "references", q)
				if err != nil {
					return "", err
				}
				return paginated("Children of "+id, page, "", req.GetString("select", ""))
			},
		}),
		d.build(toolSpec{
			name: "get-supported-series",
			desc: "Get measurement types device supports",
			opts: []mcp.ToolOption{
				mcp.WithString("deviceId", mcp.Required(), mcp.Description("Device ID")),
			},
			context: func(req mcp.CallToolRequest) string {
				return "getting supported series for " + req.GetString("deviceId", "")
			},
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("deviceId", "")
				var device map[string]any
				if err := c.Get(ctx, objectPath(id), nil, &device); err != nil {
					return "", err
				}
				raw, _ := device["c8y_SupportedSeries"].([]any)
				name, _ := device["name"].(string)
				label := name
				if label == "" {
					label = id
				}
				return object("Supported series for "+label, map[string]any{
					"deviceId":        id,
					"deviceName":      name,
					"supportedSeries": parseSupportedSeries(raw),
					"raw":             raw,
				})
			},
		}),
	}
}

type series struct {
	Fragment string `yaml:"fragment"`
	Series   string `yaml:"series"`
}

// parseSupportedSeries splits "c8y_Temperature.T" entries into fragment and
// series.
func parseSupportedSeries(raw []any) []series {
	out := []series{}
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			continue
		}
		frag, ser, _ := strings.Cut(s, ".")
		out = append(out, series{Fragment: frag, Series: ser})
	}
	return out
}
