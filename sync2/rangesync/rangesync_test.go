package rangesync_test

import (
	"context"
	"io"
	"math/rand/v2"
	"net"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sync2/rangesync"
)

func randomHashes(r *rand.Rand, n int) []types.Hash32 {
	hs := make([]types.Hash32, n)
	for i := range hs {
		for j := range hs[i] {
			hs[i][j] = byte(r.UintN(256))
		}
	}
	return hs
}

func difference(a, b []types.Hash32) []types.Hash32 {
	var r []types.Hash32
	for _, k := range a {
		if !slices.Contains(b, k) {
			r = append(r, k)
		}
	}
	slices.SortFunc(r, func(a, b types.Hash32) int { return a.Compare(b) })
	return r
}

type syncResult struct {
	serverMissing, clientMissing []types.Hash32
}

func runSync(
	t *testing.T,
	server, client *rangesync.Engine,
	afterSync func(serverConn, clientConn net.Conn) error,
) syncResult {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() {
		serverConn.Close()
		clientConn.Close()
	})
	deadline := time.Now().Add(10 * time.Second)
	require.NoError(t, serverConn.SetDeadline(deadline))
	require.NoError(t, clientConn.SetDeadline(deadline))

	ctx := context.Background()
	var (
		res syncResult
		eg  errgroup.Group
	)
	eg.Go(func() error {
		var err error
		res.serverMissing, err = server.ReconcileAsServer(ctx, serverConn)
		return err
	})
	eg.Go(func() error {
		var err error
		res.clientMissing, err = client.ReconcileAsClient(ctx, clientConn)
		return err
	})
	require.NoError(t, eg.Wait())
	if afterSync != nil {
		require.NoError(t, afterSync(serverConn, clientConn))
	}
	return res
}

func TestSync(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, tc := range []struct {
		name                   string
		common, server, client int
		maxSendRange           int
	}{
		{name: "both empty"},
		{name: "identical", common: 100},
		{name: "empty server", client: 50},
		{name: "empty client", server: 50},
		{name: "small diff", common: 1000, server: 3, client: 5},
		{name: "large diff", common: 500, server: 700, client: 300},
		{name: "one missing", common: 2000, server: 1},
		{name: "send range 1", common: 300, server: 10, client: 10, maxSendRange: 1},
		{name: "server only", server: 400},
		{name: "many on both sides", common: 100, server: 300, client: 300},
		{name: "large rounds", common: 1000, server: 400, client: 400},
		{name: "large common set", common: 3000, server: 50, client: 50},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var opts []rangesync.RangeSetReconcilerOption
			if tc.maxSendRange > 0 {
				opts = append(opts, rangesync.WithMaxSendRange(tc.maxSendRange))
			}
			opts = append(opts, rangesync.WithLogger(zaptest.NewLogger(t)))
			common := randomHashes(r, tc.common)
			serverOnly := randomHashes(r, tc.server)
			clientOnly := randomHashes(r, tc.client)

			server := rangesync.NewEngine(opts...)
			require.NoError(t, server.Add(context.Background(), append(slices.Clone(common), serverOnly...)))
			client := rangesync.NewEngine(opts...)
			require.NoError(t, client.Add(context.Background(), append(slices.Clone(common), clientOnly...)))

			res := runSync(t, server, client, nil)
			require.Equal(t, difference(clientOnly, common), res.serverMissing)
			require.Equal(t, difference(serverOnly, common), res.clientMissing)
		})
	}
}

func TestSyncLeavesStreamUsable(t *testing.T) {
	server := rangesync.NewEngine()
	client := rangesync.NewEngine()
	require.NoError(t, server.Add(context.Background(), []types.Hash32{{1}, {2}}))
	require.NoError(t, client.Add(context.Background(), []types.Hash32{{2}, {3}}))

	trailer := []byte("after sync")
	res := runSync(t, server, client, func(serverConn, clientConn net.Conn) error {
		var eg errgroup.Group
		eg.Go(func() error {
			_, err := clientConn.Write(trailer)
			return err
		})
		buf := make([]byte, len(trailer))
		if _, err := io.ReadFull(serverConn, buf); err != nil {
			return err
		}
		require.Equal(t, trailer, buf)
		return eg.Wait()
	})
	require.Equal(t, []types.Hash32{{3}}, res.serverMissing)
	require.Equal(t, []types.Hash32{{1}}, res.clientMissing)
}

func TestSyncBrokenStream(t *testing.T) {
	server := rangesync.NewEngine()
	require.NoError(t, server.Add(context.Background(), []types.Hash32{{1}}))
	serverConn, clientConn := net.Pipe()
	go func() {
		clientConn.Write([]byte{byte(rangesync.MessageTypeFingerprint), 1, 2})
		clientConn.Close()
	}()
	_, err := server.ReconcileAsServer(context.Background(), serverConn)
	require.Error(t, err)
}

func TestSyncCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	serverConn, _ := net.Pipe()
	defer serverConn.Close()
	_, err := rangesync.NewEngine().ReconcileAsServer(ctx, serverConn)
	require.ErrorIs(t, err, context.Canceled)
}
