package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotifierMetrics tracks change-stream subscriptions. It satisfies
// notify.Recorder.
type NotifierMetrics struct {
	ActiveSubscriptions prometheus.Gauge
	WatchedDirs         prometheus.Gauge
	DeliveriesTotal     prometheus.Counter
	SuppressedTotal     prometheus.Counter
	KeepAlivesTotal     prometheus.Counter
}

func NewNotifierMetrics(reg prometheus.Registerer) *NotifierMetrics {
	m := &NotifierMetrics{
		ActiveSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "active_subscriptions",
			Help:      "Number of open change-stream subscriptions.",
		}),
		WatchedDirs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "watched_directories",
			Help:      "Number of directories with an active filesystem watch.",
		}),
		DeliveriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Total number of file contents pushed to subscribers.",
		}),
		SuppressedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "suppressed_total",
			Help:      "Total number of changes dropped by the debounce window.",
		}),
		KeepAlivesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "keepalives_total",
			Help:      "Total number of keep-alive frames written.",
		}),
	}

	reg.MustRegister(m.ActiveSubscriptions, m.WatchedDirs, m.DeliveriesTotal, m.SuppressedTotal, m.KeepAlivesTotal)
	return m
}

func (m *NotifierMetrics) SubscriptionOpened()      { m.ActiveSubscriptions.Inc() }
func (m *NotifierMetrics) SubscriptionClosed()      { m.ActiveSubscriptions.Dec() }
func (m *NotifierMetrics) WatchedDirectories(n int) { m.WatchedDirs.Set(float64(n)) }
func (m *NotifierMetrics) Delivered()               { m.DeliveriesTotal.Inc() }
func (m *NotifierMetrics) Suppressed()              { m.SuppressedTotal.Inc() }
func (m *NotifierMetrics) KeepAliveSent()           { m.KeepAlivesTotal.Inc() }
