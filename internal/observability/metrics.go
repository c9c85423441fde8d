package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	entryPersistGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fitcoach",
		Subsystem: "storage",
		Name:      "last_entry_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent entry persisted, by entry kind.",
	}, []string{"kind"})
	flowsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Subsystem: "dialog",
		Name:      "flows_completed_total",
		Help:      "Dialogue flows that reached a successful commit, by flow.",
	}, []string{"flow"})
	flowsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Subsystem: "dialog",
		Name:      "flows_cancelled_total",
		Help:      "Dialogue flows abandoned by a cancel command.",
	})
	validationErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Subsystem: "dialog",
		Name:      "validation_errors_total",
		Help:      "Rejected inputs that kept the session in its current state, by state.",
	}, []string{"state"})
	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitcoach",
		Subsystem: "dialog",
		Name:      "active_sessions",
		Help:      "Number of user sessions currently held in memory.",
	})
)

func init() {
	prometheus.MustRegister(entryPersistGauge, flowsCompleted, flowsCancelled, validationErrors, activeSessions)
}

// RecordEntryPersisted updates the persistence watermark gauge for a kind.
func RecordEntryPersisted(kind string, ts time.Time) {
	if ts.IsZero() {
		return
	}
	entryPersistGauge.WithLabelValues(kind).Set(float64(ts.Unix()))
}

// RecordFlowCompleted counts a finished flow.
func RecordFlowCompleted(flow string) {
	flowsCompleted.WithLabelValues(flow).Inc()
}

// RecordFlowCancelled counts a user-issued cancel.
func RecordFlowCancelled() {
	flowsCancelled.Inc()
}

// RecordValidationError counts a rejected input for a dialogue state.
func RecordValidationError(state string) {
	validationErrors.WithLabelValues(state).Inc()
}

// SetActiveSessions reports the current session count.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
