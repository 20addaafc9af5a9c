package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the collectors exposed on /metrics. Each App builds its own
// registry so tests can create several without duplicate registration panics.
type Metrics struct {
	Registry         *prometheus.Registry
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	AttendanceUpsert *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "school",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		AttendanceUpsert: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "school",
			Name:      "attendance_upserts_total",
			Help:      "Attendance upserts by subject kind and action (created/updated).",
		}, []string{"kind", "action"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.AttendanceUpsert,
	)
	return m
}

// RecordUpsert is nil-safe so handlers built without metrics still work.
func (m *Metrics) RecordUpsert(kind, action string) {
	if m == nil {
		return
	}
	m.AttendanceUpsert.WithLabelValues(kind, action).Inc()
}
