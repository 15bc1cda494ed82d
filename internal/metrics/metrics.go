// Package metrics exposes Prometheus collectors for transaction outcomes.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation label values.
const (
	OperationDeploy = "deploy"
	OperationMint   = "mint"
)

// Outcome label values. They mirror the terminal transaction phases.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeReverted  = "reverted"
	OutcomeDropped   = "dropped"
	OutcomeFailed    = "failed"
)

// Outcome metrics
var (
	Transactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musicnft_transactions_total",
			Help: "Total number of submitted transactions by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	PreconditionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musicnft_precondition_failures_total",
			Help: "Operations rejected before submission, by reason",
		},
		[]string{"operation", "reason"},
	)
)

// Latency metrics
var (
	ConfirmationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "musicnft_confirmation_duration_seconds",
			Help:    "Time from submission until a receipt was observed",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"operation"},
	)
)

// RecordOutcome counts one transaction that reached a terminal state.
func RecordOutcome(operation, outcome string) {
	Transactions.WithLabelValues(operation, outcome).Inc()
}

// RecordPreconditionFailure counts an operation rejected before submission.
func RecordPreconditionFailure(operation, reason string) {
	PreconditionFailures.WithLabelValues(operation, reason).Inc()
}

// WriteTextfile writes every registered collector to path in the text
// exposition format read by the node_exporter textfile collector. The file
// is replaced atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// ObserveConfirmation records how long a receipt took to arrive.
func ObserveConfirmation(operation string, d time.Duration) {
	ConfirmationDuration.WithLabelValues(operation).Observe(d.Seconds())
}
