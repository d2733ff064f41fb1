package pipeline

import "github.com/spacemeshos/profilesync/metrics"

const subsystem = "pipeline"

var (
	droppedCount = metrics.NewCounter(
		"dropped",
		subsystem,
		"Number of items dropped because the queue was full or closed",
		[]string{"queue"},
	)
	validatedCount = metrics.NewCounter(
		"validated",
		subsystem,
		"Number of validated claims by result",
		[]string{"result"},
	)
	assimilatedCount = metrics.NewCounter(
		"assimilated",
		subsystem,
		"Number of saved states by result",
		[]string{"result"},
	)
)
