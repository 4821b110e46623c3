// Package metrics holds the Prometheus collectors docgraph exports.
// Each Metrics owns a private registry so tests and multiple servers in one
// process never collide on registration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docgraph"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
// It satisfies driven.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	getOrCreate  *prometheus.CounterVec
	batchRows    *prometheus.HistogramVec
	storeRetries *prometheus.CounterVec
	opErrors     *prometheus.CounterVec
}

// New creates collectors on a fresh registry, including the Go runtime collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		getOrCreate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "get_or_create_total",
			Help:      "Get-or-create resolutions by entity and outcome.",
		}, []string{"entity", "outcome"}),
		batchRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_rows",
			Help:      "Rows written per atomic batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"op"}),
		storeRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_retries_total",
			Help:      "Store operations retried after a transient failure.",
		}, []string{"op"}),
		opErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed operations by name and error kind.",
		}, []string{"op", "kind"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.getOrCreate,
		m.batchRows,
		m.storeRetries,
		m.opErrors,
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(m.registry, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// GetOrCreate records one get-or-create resolution.
func (m *Metrics) GetOrCreate(entity, outcome string) {
	if m == nil {
		return
	}
	m.getOrCreate.WithLabelValues(entity, outcome).Inc()
}

// BatchRows records the size of a committed batch.
func (m *Metrics) BatchRows(op string, rows int) {
	if m == nil {
		return
	}
	m.batchRows.WithLabelValues(op).Observe(float64(rows))
}

// StoreRetry records one retry of op.
func (m *Metrics) StoreRetry(op string) {
	if m == nil {
		return
	}
	m.storeRetries.WithLabelValues(op).Inc()
}

// OperationError records a failed dispatcher operation.
func (m *Metrics) OperationError(op, kind string) {
	if m == nil {
		return
	}
	m.opErrors.WithLabelValues(op, kind).Inc()
}
