// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ToolCallsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_completed_total",
			Help: "Total number of tool calls completed, by outcome kind",
		},
		[]string{"tool", "kind"},
	)

	ToolCallsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_failed_total",
			Help: "Total number of tool calls that ended in a terminal error",
		},
		[]string{"tool", "error_code"},
	)

	ToolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "tool_call_duration_seconds",
			Help: "Duration of tool call processing in seconds",
		},
		[]string{"tool"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeapi_requests_total",
			Help: "Total number of requests sent to the PokéAPI provider",
		},
		[]string{"endpoint", "status"},
	)
)
