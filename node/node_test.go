package node

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/config"
	"github.com/spacemeshos/profilesync/fetch"
	"github.com/spacemeshos/profilesync/log/logtest"
	"github.com/spacemeshos/profilesync/signing"
	"github.com/spacemeshos/profilesync/sql"
)

func testConfig(t *testing.T, dir string) *config.Config {
	conf := config.DefaultConfig()
	conf.DataDir = dir
	conf.Server.Listen = "127.0.0.1:0"
	conf.Server.IdleTimeout = 5 * time.Second
	conf.Server.HardTimeout = 30 * time.Second
	conf.Metrics.Enabled = false
	return &conf
}

func startApp(t *testing.T, conf *config.Config, clock clockwork.Clock) *App {
	t.Helper()
	app := New(WithConfig(conf), WithLog(logtest.New(t)), WithClock(clock))
	require.NoError(t, app.Lock())
	ctx, cancel := context.WithCancel(context.Background())
	var eg errgroup.Group
	eg.Go(func() error { return app.Start(ctx) })
	select {
	case <-app.Started():
	case <-time.After(10 * time.Second):
		require.FailNow(t, "node didn't start")
	}
	t.Cleanup(func() {
		cancel()
		require.NoError(t, eg.Wait())
		require.NoError(t, app.Cleanup(context.Background()))
		app.Unlock()
	})
	return app
}

func TestDataFolderLock(t *testing.T) {
	conf := testConfig(t, t.TempDir())
	first := New(WithConfig(conf))
	require.NoError(t, first.Lock())
	second := New(WithConfig(conf))
	require.ErrorContains(t, second.Lock(), "used by another process")
	first.Unlock()
	require.NoError(t, second.Lock())
	second.Unlock()
}

func TestReadinessAfterUncleanShutdown(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, cleanShutdownFile)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	t.Run("unclean", func(t *testing.T) {
		conf := testConfig(t, dir)
		app := startApp(t, conf, clock)
		require.False(t, app.Syncer().Ready())
		require.Eventually(t, func() bool {
			clock.Advance(conf.Store.MaxAge)
			return app.Syncer().Ready()
		}, 10*time.Second, 10*time.Millisecond)
	})
	require.FileExists(t, marker)

	t.Run("clean", func(t *testing.T) {
		app := startApp(t, testConfig(t, dir), clock)
		require.NoFileExists(t, marker)
		require.Eventually(t, app.Syncer().Ready, 10*time.Second, 10*time.Millisecond)
	})
	require.FileExists(t, marker)
}

func TestAdministrativeRunKeepsShutdownState(t *testing.T) {
	conf := testConfig(t, t.TempDir())
	app := New(WithConfig(conf), WithLog(logtest.New(t)))
	require.NoError(t, app.Lock())
	defer app.Unlock()
	require.NoError(t, app.Open())
	require.NoError(t, app.Trust().AddPartner(types.Partner{Name: "a"}))
	require.NoError(t, app.Cleanup(context.Background()))
	_, err := os.Stat(filepath.Join(conf.DataDir, cleanShutdownFile))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPartnersSynchronize(t *testing.T) {
	clock := clockwork.NewRealClock()
	confA := testConfig(t, t.TempDir())
	// a was stopped cleanly before
	require.NoError(t, os.WriteFile(filepath.Join(confA.DataDir, cleanShutdownFile), nil, 0o600))
	a := startApp(t, confA, clock)
	b := startApp(t, testConfig(t, t.TempDir()), clock)

	require.NoError(t, a.Trust().AddPartner(types.Partner{
		Name:           "b",
		AcceptPassword: "b-secret",
	}))
	require.NoError(t, b.Trust().AddPartner(types.Partner{
		Name:            "a",
		BaseURL:         "quic://" + a.Addr().String(),
		ProvideUsername: "b",
		ProvidePassword: "b-secret",
	}))

	signer, err := signing.NewEdSigner()
	require.NoError(t, err)
	now := clock.Now()
	state := types.State{
		Address:            "alice@example.org",
		RetrievalTimestamp: now.Add(-time.Minute),
		Profile: &types.Profile{
			FullName:            "Alice",
			Hometown:            "Bern",
			CountryCode:         "CH",
			Services:            []string{"mail", "chat"},
			SubmissionTimestamp: now.Add(-time.Hour),
		},
	}
	state.Profile.Signature = signer.SignProfile(&state)
	accepted, err := a.store.Save(context.Background(), state)
	require.NoError(t, err)
	require.True(t, accepted)

	require.Eventually(t, a.Syncer().Ready, 10*time.Second, 10*time.Millisecond)
	require.NoError(t, b.Syncer().SynchronizeAsClient(context.Background(), "a"))
	require.Eventually(t, func() bool {
		got, err := b.store.Get(state.Address)
		return err == nil && got.Hash() == state.Hash()
	}, 10*time.Second, 10*time.Millisecond)

	p, err := b.Trust().Partner("a")
	require.NoError(t, err)
	require.False(t, p.LastConnection.IsZero())
	require.False(t, p.Kicked)
}

func TestSubmit(t *testing.T) {
	signer, err := signing.NewEdSigner()
	require.NoError(t, err)
	var address string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != fetch.ProfilePath+"alice" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		state := types.State{
			Address: address,
			Profile: &types.Profile{
				FullName:            "Alice",
				Hometown:            "Bern",
				CountryCode:         "CH",
				Services:            []string{"mail"},
				SubmissionTimestamp: time.Now().Add(-time.Hour).Truncate(time.Second),
			},
		}
		state.Profile.Signature = signer.SignProfile(&state)
		body, err := fetch.Encode(state.Profile)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()
	host := strings.TrimPrefix(srv.URL, "http://")
	address = "alice@" + host

	conf := testConfig(t, t.TempDir())
	conf.Fetch.Scheme = "http"
	app := New(WithConfig(conf), WithLog(logtest.New(t)))
	require.NoError(t, app.Lock())
	defer app.Unlock()

	dropped, err := app.Submit(context.Background(), []string{address, "bob@" + host, "carol@127.0.0.1:1"})
	require.NoError(t, err)
	require.Zero(t, dropped)

	state, err := app.store.Get(address)
	require.NoError(t, err)
	require.True(t, state.HasProfile())
	require.Equal(t, "Alice", state.Profile.FullName)

	// bob has no profile and carol's server is unreachable
	for _, missing := range []string{"bob@" + host, "carol@127.0.0.1:1"} {
		_, err = app.store.Get(missing)
		require.ErrorIs(t, err, sql.ErrNotFound)
	}
	require.NoError(t, app.Cleanup(context.Background()))
}
