// Package metrics provides Prometheus metrics for the MCP tool surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tool call outcomes.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the collectors of one server instance.
type Metrics struct {
	registry *prometheus.Registry

	ToolCalls        *prometheus.CounterVec
	ToolDuration     *prometheus.HistogramVec
	RecordsExtracted *prometheus.CounterVec
	Warnings         *prometheus.CounterVec
}

// New creates a registry with the tool metrics and the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ToolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "implkit_tool_calls_total",
				Help: "Total number of MCP tool calls",
			},
			[]string{"tool", "status"},
		),
		ToolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "implkit_tool_duration_seconds",
				Help:    "Duration of MCP tool calls",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"tool"},
		),
		RecordsExtracted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "implkit_records_extracted_total",
				Help: "Total number of records produced by extraction",
			},
			[]string{"source"},
		),
		Warnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "implkit_extraction_warnings_total",
				Help: "Total number of non-fatal extraction warnings",
			},
			[]string{"source"},
		),
	}
}

// ObserveToolCall records one finished tool call.
func (m *Metrics) ObserveToolCall(tool string, failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := StatusOK
	if failed {
		status = StatusError
	}
	m.ToolCalls.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveExtraction records the size of one extraction result.
func (m *Metrics) ObserveExtraction(source string, records, warnings int) {
	if m == nil {
		return
	}
	m.RecordsExtracted.WithLabelValues(source).Add(float64(records))
	if warnings > 0 {
		m.Warnings.WithLabelValues(source).Add(float64(warnings))
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
