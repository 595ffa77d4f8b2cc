package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/productform"
)

const metricsNamespace = "catalog_admin"

// Metrics holds the editor's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	actions     *prometheus.CounterVec
	submissions *prometheus.CounterVec
	editors     prometheus.Gauge
	uploads     prometheus.Counter
}

// NewMetrics registers the collectors together with the Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "productform",
			Name:      "actions_total",
			Help:      "Actions dispatched to product form stores by type.",
		}, []string{"type"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "productform",
			Name:      "submissions_total",
			Help:      "Sub-form submissions by collection and outcome.",
		}, []string{"form_type", "outcome"}),
		editors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "editors",
			Name:      "open",
			Help:      "Editors currently held in memory.",
		}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "uploads",
			Name:      "stored_total",
			Help:      "Image files stored.",
		}),
	}
	reg.MustRegister(
		m.actions,
		m.submissions,
		m.editors,
		m.uploads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// DispatchMiddleware counts every action passing through a store.
func (m *Metrics) DispatchMiddleware() productform.Middleware {
	return func(next productform.DispatchFunc) productform.DispatchFunc {
		return func(action productform.Action) {
			if m != nil {
				m.actions.WithLabelValues(string(action.Type)).Inc()
			}
			next(action)
		}
	}
}

// ObserveSubmission counts a finished submission.
func (m *Metrics) ObserveSubmission(sub catalog.Submission, outcome catalog.Outcome) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(sub.FormType), string(outcome)).Inc()
}

// EditorOpened increments the open editors gauge.
func (m *Metrics) EditorOpened() {
	if m != nil {
		m.editors.Inc()
	}
}

// EditorClosed decrements the open editors gauge.
func (m *Metrics) EditorClosed() {
	if m != nil {
		m.editors.Dec()
	}
}

// UploadStored counts a stored image file.
func (m *Metrics) UploadStored() {
	if m != nil {
		m.uploads.Inc()
	}
}
