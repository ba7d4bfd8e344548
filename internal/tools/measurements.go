package tools

import (
	"context"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"c8ymcp/internal/c8y"
)

func measurementTools(d Deps) []Tool {
	return []Tool{
		d.build(toolSpec{
			name: "get-measurements",
			desc: "Get measurements from device",
			opts: append([]mcp.ToolOption{
				mcp.WithString("deviceId", mcp.Required(), mcp.Description("Device ID (required)")),
				mcp.WithString("type", mcp.Description("Measurement type filter")),
				mcp.WithString("valueFragmentType", mcp.Description("Fragment type (e.g. c8y_Temperature)")),
				mcp.WithString("valueFragmentSeries", mcp.Description("Series (e.g. T)")),
				mcp.WithString("dateFrom", mcp.Description("ISO date from")),
				mcp.WithString("dateTo", mcp.Description("ISO date to")),
				mcp.WithBoolean("revert", mcp.Description("Oldest first if true")),
				selectArg(),
			}, pagingArgs()...),
			context: func(req mcp.CallToolRequest) string {
				return "getting measurements for " + req.GetString("deviceId", "")
			},
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				id := req.GetString("deviceId", "")
				q := pageQuery(req, 50)
				q.Set("source", id)
				for _, k := range []string{"type", "valueFragmentType", "valueFragmentSeries", "dateFrom", "dateTo"} {
					setString(q, req, k, k)
				}
				setBool(q, req, "revert")
				page, err := c.List(ctx, "/measurement/measurements", "measurements", q)
				if err != nil {
					return "", err
				}
				return paginated("Measurements for "+id, page, "", req.GetString("select", ""))
			},
		}),
		d.build(toolSpec{
			name: "get-measurement-stats",
			desc: "Get min/max/avg statistics",
			opts: []mcp.ToolOption{
				mcp.WithString("deviceId", mcp.Required(), mcp.Description("Device ID")),
				mcp.WithString("fragment", mcp.Required(), mcp.Description("Fragment (e.g. c8y_Temperature)")),
				mcp.WithString("series", mcp.Required(), mcp.Description("Series (e.g. T)")),
				mcp.WithString("dateFrom", mcp.Required(), mcp.Description("ISO date from")),
				mcp.WithString("dateTo", mcp.Required(), mcp.Description("ISO date to")),
			},
			context: static("getting measurement stats"),
			run: func(ctx context.Context, c *c8y.Client, req mcp.CallToolRequest) (string, error) {
				fragment, ser := req.GetString("fragment", ""), req.GetString("series", "")
				q := c8y.PageQuery(2000, 0)
				q.Del("withTotalPages")
				q.Set("source", req.GetString("deviceId", ""))
				q.Set("valueFragmentType", fragment)
				q.Set("valueFragmentSeries", ser)
				q.Set("dateFrom", req.GetString("dateFrom", ""))
				q.Set("dateTo", req.GetString("dateTo", ""))
				page, err := c.List(ctx, "/measurement/measurements", "measurements", q)
				if err != nil {
					return "", err
				}

				values := seriesValues(page.Items, fragment, ser)
				if len(values) == 0 {
					return object("Stats", map[string]any{"message": "No measurements found in range"})
				}
				lo, hi, sum := values[0], values[0], 0.0
				for _, v := range values {
					lo = math.Min(lo, v)
					hi = math.Max(hi, v)
					sum += v
				}
				return object("Stats for "+fragment+"."+ser, map[string]any{
					"count":    len(values),
					"min":      lo,
					"max":      hi,
					"avg":      sum / float64(len(values)),
					"fragment": fragment,
					"series":   ser,
					"dateFrom": req.GetString("dateFrom", ""),
					"dateTo":   req.GetString("dateTo", ""),
				})
			},
		}),
	}
}

// seriesValues collects m[fragment][series].value from each measurement,
// skipping entries without a numeric value.
func seriesValues(items []map[string]any, fragment, series string) []float64 {
	var out []float64
	for _, m := range items {
		frag, ok := m[fragment].(map[string]any)
		if !ok {
			continue
		}
		s, ok := frag[series].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := s["value"].(float64); ok {
			out = append(out, v)
		}
	}
	return out
}
