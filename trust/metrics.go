package trust

import "github.com/spacemeshos/profilesync/metrics"

const subsystem = "trust"

var (
	samplesCount = metrics.NewCounter(
		"control_samples",
		subsystem,
		"Number of control samples by outcome",
		[]string{"outcome"},
	)
	violationsCount = metrics.NewCounter(
		"violations",
		subsystem,
		"Number of recorded violations",
		[]string{},
	).WithLabelValues()
	kicksCount = metrics.NewCounter(
		"kicks",
		subsystem,
		"Number of kicked partners",
		[]string{},
	).WithLabelValues()
)
