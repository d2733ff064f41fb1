package fetch

import "github.com/spacemeshos/profilesync/metrics"

const subsystem = "fetch"

var (
	fetchResults = metrics.NewCounter(
		"results",
		subsystem,
		"Number of profile fetches by result",
		[]string{"result"},
	)
	fetchedProfiles = fetchResults.WithLabelValues("profile")
	fetchedAbsent   = fetchResults.WithLabelValues("absent")
	fetchFailures   = fetchResults.WithLabelValues("failed")
)
