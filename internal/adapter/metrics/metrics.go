package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smaas"

// Metrics bundles every collector the server exports on one registry.
type Metrics struct {
	Registry *prometheus.Registry
	HTTP     *HTTPMetrics
	Notifier *NotifierMetrics
}

// New creates a registry with Go runtime and process collectors plus the
// server's own metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Metrics{
		Registry: reg,
		HTTP:     NewHTTPMetrics(reg),
		Notifier: NewNotifierMetrics(reg),
	}
}

// Handler returns an http.Handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
