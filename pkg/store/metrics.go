package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels
const (
	opLoadConfig = "load_config"
	opSaveConfig = "save_config"
	opLoadStats  = "load_stats"
	opSaveStats  = "save_stats"
	opTestMount  = "test_mount"
)

// Metrics holds the Prometheus metrics for store operations
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewMetrics creates the store metrics and registers them with reg. A nil
// registerer creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clockstore_store_operations_total",
				Help: "Total number of store operations by outcome",
			},
			[]string{"operation", "status"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clockstore_store_operation_duration_seconds",
				Help:    "Store operation duration in seconds, mount to unmount",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordOperation records one store operation. Safe on a nil receiver.
func (m *Metrics) RecordOperation(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
