package syncer

import "github.com/spacemeshos/profilesync/metrics"

const subsystem = "syncer"

var (
	sessionsRejected = metrics.NewCounter(
		"sessions_rejected",
		subsystem,
		"sessions refused before they started",
		[]string{"reason"},
	)
	claimsSubmitted = metrics.NewCounter(
		"claims_submitted",
		subsystem,
		"claims handed to the pipeline",
		[]string{},
	).WithLabelValues()
)
