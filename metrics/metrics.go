// Package metrics holds the Prometheus collectors for the intake workflow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "helpbot"

// Intake counts sessions and notification outcomes. A nil *Intake is valid
// and records nothing.
type Intake struct {
	Started        prometheus.Counter
	Completed      prometheus.Counter
	Canceled       prometheus.Counter
	Transitions    *prometheus.CounterVec
	NotifyFailures prometheus.Counter
	NotifyDuration prometheus.Histogram
}

// NewIntake creates the collectors and registers them with reg.
func NewIntake(reg prometheus.Registerer) *Intake {
	m := &Intake{
		Started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Conversations started with /start.",
		}),
		Completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Conversations that reached the end and were handed to the notifier.",
		}),
		Canceled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_canceled_total",
			Help:      "Conversations ended with /cancel.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "State transitions by target state.",
		}, []string{"state"}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures_total",
			Help:      "Completed records whose notification failed.",
		}),
		NotifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notify_duration_seconds",
			Help:      "Time spent delivering a completed record.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.Started, m.Completed, m.Canceled, m.Transitions, m.NotifyFailures, m.NotifyDuration)
	return m
}

func (m *Intake) SessionStarted() {
	if m == nil {
		return
	}
	m.Started.Inc()
}

func (m *Intake) SessionCompleted() {
	if m == nil {
		return
	}
	m.Completed.Inc()
}

func (m *Intake) SessionCanceled() {
	if m == nil {
		return
	}
	m.Canceled.Inc()
}

func (m *Intake) Transition(state string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(state).Inc()
}

// Notified records one delivery attempt.
func (m *Intake) Notified(took time.Duration, err error) {
	if m == nil {
		return
	}
	m.NotifyDuration.Observe(took.Seconds())
	if err != nil {
		m.NotifyFailures.Inc()
	}
}
