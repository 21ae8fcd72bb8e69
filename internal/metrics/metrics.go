// Package metrics holds the Prometheus metrics of the sign-up service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the wizard and its RPC surface.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Transitions        *prometheus.CounterVec
	ValidationFailures prometheus.Counter
	InvalidFields      prometheus.Histogram
	ContractsSigned    *prometheus.CounterVec
	SnapshotErrors     *prometheus.CounterVec
	SnapshotsPurged    prometheus.Counter
	RPCDuration        *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_transitions_total",
			Help: "Wizard events dispatched, by event and outcome",
		}, []string{"event", "outcome"}),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_validation_failures_total",
			Help: "Form submissions rejected by validation",
		}),
		InvalidFields: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "signup_invalid_fields",
			Help:    "Number of invalid fields per rejected submission",
			Buckets: []float64{1, 2, 5, 10, 15, 25},
		}),
		ContractsSigned: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_contracts_signed_total",
			Help: "Contracts signed and handed off to checkout, by plan",
		}, []string{"plan"}),
		SnapshotErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_snapshot_errors_total",
			Help: "Snapshot storage failures absorbed by the wizard, by operation",
		}, []string{"op"}),
		SnapshotsPurged: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_snapshots_purged_total",
			Help: "Abandoned snapshots deleted by the retention sweep",
		}),
		RPCDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signup_rpc_duration_seconds",
			Help:    "Duration of wizard RPCs",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"procedure", "code"}),
	}
}

// Transition records one dispatched wizard event.
func (m *Metrics) Transition(event, outcome string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(event, outcome).Inc()
}

// ValidationFailed records a rejected submission with n invalid fields.
func (m *Metrics) ValidationFailed(n int) {
	if m == nil {
		return
	}
	m.ValidationFailures.Inc()
	m.InvalidFields.Observe(float64(n))
}

// ContractSigned records a signed contract.
func (m *Metrics) ContractSigned(planID string) {
	if m == nil {
		return
	}
	m.ContractsSigned.WithLabelValues(planID).Inc()
}

// SnapshotError records an absorbed storage failure.
func (m *Metrics) SnapshotError(op string) {
	if m == nil {
		return
	}
	m.SnapshotErrors.WithLabelValues(op).Inc()
}

// AddPurged records snapshots removed by the retention sweep.
func (m *Metrics) AddPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.SnapshotsPurged.Add(float64(n))
}

// ObserveRPC records the duration of an RPC that ended with code.
// Call with time.Now() at the start of the call.
func (m *Metrics) ObserveRPC(procedure, code string, start time.Time) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(procedure, code).Observe(time.Since(start).Seconds())
}
