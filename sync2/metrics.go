package sync2

import "github.com/spacemeshos/profilesync/metrics"

const subsystem = "sync"

var (
	reconcileFailures = metrics.NewCounter(
		"reconcile_failures",
		subsystem,
		"Number of failed reconciliations by role",
		[]string{"role"},
	)
	sessionOutcomes = metrics.NewCounter(
		"sessions",
		subsystem,
		"Number of synchronization sessions by role and outcome",
		[]string{"role", "outcome"},
	)
	sessionDuration = metrics.NewHistogramWithBuckets(
		"session_duration_seconds",
		subsystem,
		"Duration of synchronization sessions",
		[]string{"role"},
		metrics.SessionBuckets,
	)
	claimsCount = metrics.NewCounter(
		"claims",
		subsystem,
		"Number of claims produced by synchronization sessions by kind",
		[]string{"kind"},
	)
	stateClaims    = claimsCount.WithLabelValues("state")
	deletionClaims = claimsCount.WithLabelValues("deletion")
)
