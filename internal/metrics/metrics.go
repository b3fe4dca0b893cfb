// Package metrics exposes the indexer-specific Prometheus instrumentation,
// grounded on the Observe(operation, ..., err, started) shape used by
// blockinsight7000-backend's repository metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "engine",
		Name:      "submit_block_total",
		Help:      "Count of block submissions by outcome.",
	}, []string{"status", "code"})

	submitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Subsystem: "engine",
		Name:      "submit_block_duration_seconds",
		Help:      "Duration of block submission, validation through apply.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	rollbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "engine",
		Name:      "rollback_total",
		Help:      "Count of rollback operations by outcome.",
	}, []string{"status"})

	rollbackDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ledger",
		Subsystem: "engine",
		Name:      "rollback_depth_blocks",
		Help:      "Number of blocks removed by a rollback operation.",
		Buckets:   []float64{1, 2, 5, 10, 50, 100, 500, 1000},
	})

	rollbackDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ledger",
		Subsystem: "engine",
		Name:      "rollback_duration_seconds",
		Help:      "Duration of rollback operations.",
		Buckets:   prometheus.DefBuckets,
	})

	balanceQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Subsystem: "engine",
		Name:      "balance_query_duration_seconds",
		Help:      "Duration of balance lookups by path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})
)

// ObserveSubmitBlock records the outcome and latency of a block submission.
func ObserveSubmitBlock(code string, err error, started time.Time) {
	status := "accepted"
	if err != nil {
		status = "rejected"
	}
	blocksTotal.WithLabelValues(status, code).Inc()
	submitDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveRollback records the outcome and depth of a rollback operation.
func ObserveRollback(blocksRemoved int64, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	rollbacksTotal.WithLabelValues(status).Inc()
	rollbackDuration.Observe(time.Since(started).Seconds())
	if err == nil && blocksRemoved > 0 {
		rollbackDepth.Observe(float64(blocksRemoved))
	}
}

// ObserveBalanceQuery records the latency of a balance lookup by path
// ("cached" or "computed").
func ObserveBalanceQuery(path string, started time.Time) {
	balanceQueryDuration.WithLabelValues(path).Observe(time.Since(started).Seconds())
}
