package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "report_sync"

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"

	TxCommitted  = "committed"
	TxRolledBack = "rolled_back"
	TxFailed     = "failed"
)

// Metrics holds Prometheus metrics for the sync core.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	GatewayCalls    *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec
	Transactions    *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	SnapshotChanges *prometheus.CounterVec
}

// NewMetrics creates the metric set and registers it on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GatewayCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "calls_total",
				Help:      "Total number of remote gateway calls",
			},
			[]string{"op", "outcome"},
		),
		GatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "call_duration_seconds",
				Help:      "Remote gateway call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		Transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "transactions_total",
				Help:      "Outermost cache transactions by outcome",
			},
			[]string{"outcome"},
		),
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "notifications_total",
				Help:      "Change notifications dispatched per table key",
			},
			[]string{"table"},
		),
		SnapshotChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconcile",
				Name:      "snapshot_changes_total",
				Help:      "Rows changed by snapshot replaces",
			},
			[]string{"change"},
		),
	}
}

// ObserveGatewayCall records one gateway call started at start.
// cancelled reports whether err is a cancellation.
func (m *Metrics) ObserveGatewayCall(op string, start time.Time, err error, cancelled func(error) bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		if cancelled != nil && cancelled(err) {
			outcome = OutcomeCancelled
		}
	}
	m.GatewayCalls.WithLabelValues(op, outcome).Inc()
	m.GatewayDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// TransactionFinished records the outcome of an outermost transaction.
func (m *Metrics) TransactionFinished(outcome string) {
	if m == nil {
		return
	}
	m.Transactions.WithLabelValues(outcome).Inc()
}

// Notified records a dispatched change notification.
func (m *Metrics) Notified(table string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(table).Inc()
}

// SnapshotReplaced records how many rows a snapshot replace touched.
func (m *Metrics) SnapshotReplaced(added, updated, removed int) {
	if m == nil {
		return
	}
	m.SnapshotChanges.WithLabelValues("added").Add(float64(added))
	m.SnapshotChanges.WithLabelValues("updated").Add(float64(updated))
	m.SnapshotChanges.WithLabelValues("removed").Add(float64(removed))
}
