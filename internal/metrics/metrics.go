// Package metrics holds the Prometheus metrics of the register.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Record kinds used as the "kind" label.
const (
	KindPerson = "person"
	KindPolicy = "policy"
	KindLink   = "link"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	RecordsCreated  *prometheus.CounterVec
	RecordsUpdated  *prometheus.CounterVec
	RecordsDeleted  *prometheus.CounterVec
	FormRejections  *prometheus.CounterVec
	MirrorSize      *prometheus.GaugeVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the metrics on a private registry, so several instances can
// coexist (e.g. in tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RecordsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "policydesk_records_created_total",
			Help: "Total number of records created, by kind",
		}, []string{"kind"}),
		RecordsUpdated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "policydesk_records_updated_total",
			Help: "Total number of records updated, by kind",
		}, []string{"kind"}),
		RecordsDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "policydesk_records_deleted_total",
			Help: "Total number of records deleted, by kind",
		}, []string{"kind"}),
		FormRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "policydesk_form_rejections_total",
			Help: "Total number of submitted forms rejected, by kind and reason",
		}, []string{"kind", "reason"}),
		MirrorSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "policydesk_mirror_entries",
			Help: "Number of entries held in the in-memory mirror, by kind",
		}, []string{"kind"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "policydesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// Created increments the created counter for kind.
func (m *Metrics) Created(kind string) { m.RecordsCreated.WithLabelValues(kind).Inc() }

// Updated increments the updated counter for kind.
func (m *Metrics) Updated(kind string) { m.RecordsUpdated.WithLabelValues(kind).Inc() }

// Deleted increments the deleted counter for kind.
func (m *Metrics) Deleted(kind string) { m.RecordsDeleted.WithLabelValues(kind).Inc() }

// Rejected increments the form rejection counter.
func (m *Metrics) Rejected(kind, reason string) {
	m.FormRejections.WithLabelValues(kind, reason).Inc()
}

// SetMirrorSize records the current number of mirrored entries for kind.
func (m *Metrics) SetMirrorSize(kind string, n int) {
	m.MirrorSize.WithLabelValues(kind).Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
