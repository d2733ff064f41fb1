package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
)

var testCounter = NewCounter("test_total", "metrics", "counter used in tests", []string{"kind"})

func TestServerExposesMetrics(t *testing.T) {
	srv, err := NewServer(zaptest.NewLogger(t), "127.0.0.1:0")
	require.NoError(t, err)
	testCounter.WithLabelValues("a").Inc()

	ctx, cancel := context.WithCancel(context.Background())
	var eg errgroup.Group
	eg.Go(func() error { return srv.Run(ctx) })

	resp, err := http.Get("http://" + srv.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Contains(t, string(body), "profilesync_metrics_test_total")

	cancel()
	require.NoError(t, eg.Wait())
}
