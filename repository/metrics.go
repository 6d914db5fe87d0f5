package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "call_log_store_operations_total",
			Help: "Call log store operations by type and result",
		},
		[]string{"operation", "result"},
	)

	storeRemoteActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "call_log_remote_active",
			Help: "Whether the shared workbook backend is active (1) or the local fallback is (0)",
		},
	)

	storeEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "call_log_entries",
			Help: "Number of entries currently held in the call log",
		},
	)

	storeWriteThroughFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "call_log_write_through_failures_total",
			Help: "Writes that updated memory but failed to reach the backend",
		},
	)
)

func observeStoreOp(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	storeOperations.WithLabelValues(operation, result).Inc()
}
