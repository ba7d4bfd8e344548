// pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthExtract = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "c8y_mcp_auth_extract_total",
		Help: "Inbound Authorization headers processed, by scheme and result.",
	}, []string{"scheme", "result"})

	ClientResolve = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "c8y_mcp_client_resolve_total",
		Help: "Remote client resolutions, by execution mode, scheme and result.",
	}, []string{"mode", "scheme", "result"})

	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "c8y_mcp_tool_calls_total",
		Help: "MCP tool invocations, by tool and result.",
	}, []string{"tool", "result"})
)

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
