package statestore

import "github.com/spacemeshos/profilesync/metrics"

const subsystem = "statestore"

var (
	saveOutcomes = metrics.NewCounter(
		"saves",
		subsystem,
		"Number of saved states by outcome",
		[]string{"outcome"},
	)
	savedStates    = saveOutcomes.WithLabelValues("accepted")
	rejectedStates = saveOutcomes.WithLabelValues("rejected")

	expiredStates = metrics.NewCounter(
		"expired",
		subsystem,
		"Number of states removed after their lifetime",
		[]string{},
	).WithLabelValues()
)
