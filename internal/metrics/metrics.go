package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// Metrics holds the exporter's Prometheus collectors on a private registry,
// so several instances can coexist in tests.
type Metrics struct {
	Registry *prometheus.Registry

	exportsTotal     *prometheus.CounterVec
	exportDuration   *prometheus.HistogramVec
	reconcileWarning *prometheus.CounterVec
	batchSize        prometheus.Histogram
	verifications    *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

// New creates a registry and registers all collectors in it
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fatturapa_exports_total",
				Help: "Invoices exported by format and outcome.",
			},
			[]string{"format", "status"},
		),
		exportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fatturapa_export_duration_seconds",
				Help:    "Time spent rendering one invoice.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"format"},
		),
		reconcileWarning: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fatturapa_reconcile_warnings_total",
				Help: "Soft consistency warnings raised by field.",
			},
			[]string{"field"},
		),
		batchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fatturapa_batch_size",
				Help:    "Invoices per batch request.",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
			},
		),
		verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fatturapa_signature_verifications_total",
				Help: "Signature verifications by outcome.",
			},
			[]string{"valid"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fatturapa_http_requests_total",
				Help: "HTTP requests by route and status code.",
			},
			[]string{"route", "code"},
		),
	}
}

// RecordExport counts one export and observes its duration
func (m *Metrics) RecordExport(format, status string, d time.Duration) {
	m.exportsTotal.WithLabelValues(format, status).Inc()
	m.exportDuration.WithLabelValues(format).Observe(d.Seconds())
}

// RecordWarning counts a reconciliation warning. Indexed field names are
// collapsed so line_items[3].total_price and line_items[0].total_price share a series.
func (m *Metrics) RecordWarning(field string) {
	m.reconcileWarning.WithLabelValues(collapseIndex(field)).Inc()
}

// ObserveBatch records the size of a batch
func (m *Metrics) ObserveBatch(n int) {
	m.batchSize.Observe(float64(n))
}

// RecordVerification counts a signature verification
func (m *Metrics) RecordVerification(valid bool) {
	label := "false"
	if valid {
		label = "true"
	}
	m.verifications.WithLabelValues(label).Inc()
}

// RecordHTTP counts a served request
func (m *Metrics) RecordHTTP(route, code string) {
	m.httpRequests.WithLabelValues(route, code).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func collapseIndex(field string) string {
	out := make([]byte, 0, len(field))
	skip := false
	for i := 0; i < len(field); i++ {
		c := field[i]
		switch {
		case c == '[':
			skip = true
			out = append(out, "[]"...)
		case c == ']':
			skip = false
		case !skip:
			out = append(out, c)
		}
	}
	return string(out)
}
