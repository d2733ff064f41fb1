package server

import "github.com/spacemeshos/profilesync/metrics"

const subsystem = "partner_server"

const (
	outcomeAccepted     = "accepted"
	outcomeDropped      = "dropped"
	outcomeUnauthorized = "unauthorized"
	outcomeCompleted    = "completed"
	outcomeFailed       = "failed"
)

var (
	queueCapacity = metrics.NewGauge(
		"queue_capacity",
		subsystem,
		"number of inbound sessions that may wait for a worker",
		nil,
	)
	queueLength = metrics.NewGauge(
		"queue_length",
		subsystem,
		"inbound sessions waiting for a worker",
		nil,
	)
	sessionRate = metrics.NewGauge(
		"session_rate",
		subsystem,
		"inbound sessions started per second at most",
		nil,
	)
	sessions = metrics.NewCounter(
		"sessions",
		subsystem,
		"partner sessions by role and outcome",
		[]string{"role", "outcome"},
	)
	sessionSeconds = metrics.NewHistogramWithBuckets(
		"session_seconds",
		subsystem,
		"time from accepting or dialing a stream until the session ends",
		[]string{"role", "outcome"},
		metrics.SessionBuckets,
	)
)

type tracker struct {
	role string
}

func newTracker(role string) tracker {
	return tracker{role: role}
}

func (t tracker) session(outcome string) {
	sessions.WithLabelValues(t.role, outcome).Inc()
}

func (t tracker) finished(outcome string, seconds float64) {
	t.session(outcome)
	sessionSeconds.WithLabelValues(t.role, outcome).Observe(seconds)
}
