package sql

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/profilesync/metrics"
)

var connWaitLatency = metrics.NewHistogramWithBuckets(
	"conn_wait_seconds",
	"database",
	"time spent waiting for a pooled connection",
	nil,
	prometheus.ExponentialBuckets(0.0001, 2, 16),
).WithLabelValues()
