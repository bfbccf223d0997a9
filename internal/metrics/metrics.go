// Package metrics holds the Prometheus collectors exposed by the daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registers on its own registry so several instances can coexist.
type Metrics struct {
	Messages      *prometheus.CounterVec
	ModelDuration *prometheus.HistogramVec
	CacheLookups  *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec

	reg *prometheus.Registry
}

// Outcome labels for Messages.
const (
	OutcomeOK    = "ok"
	OutcomeInfo  = "info"
	OutcomeError = "error"
)

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Messages: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hinglish_messages_total",
				Help: "Handled messages by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		ModelDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hinglish_model_request_duration_seconds",
				Help:    "Language model call duration in seconds, retries included",
				Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"outcome"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hinglish_cache_lookups_total",
				Help: "Translation cache lookups by result",
			},
			[]string{"result"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hinglish_http_requests_total",
				Help: "Daemon HTTP requests by path and status",
			},
			[]string{"path", "status"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }
