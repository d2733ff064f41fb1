package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/log/logtest"
)

func newTestFetcher(t *testing.T, handler http.Handler, opts ...Opt) (*Fetcher, string, clockwork.FakeClock) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	cfg := DefaultConfig()
	cfg.Scheme = "http"
	cfg.Timeout = time.Second
	cfg.RetryWait = time.Millisecond
	f, err := New(append([]Opt{
		WithConfig(cfg),
		WithClock(clock),
		WithLogger(logtest.New(t)),
		withHttpClient(srv.Client()),
	}, opts...)...)
	require.NoError(t, err)
	return f, strings.TrimPrefix(srv.URL, "http://"), clock
}

func TestFetchProfile(t *testing.T) {
	profile := &types.Profile{
		FullName:            "Alice",
		Hometown:            "Zurich",
		CountryCode:         "CH",
		Services:            []string{"mail", "chat"},
		Signature:           []byte{1, 2, 3},
		SubmissionTimestamp: time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC),
	}
	doc, err := Encode(profile)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc(ProfilePath+"alice", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(doc)
	})
	f, host, clock := newTestFetcher(t, mux)

	state, err := f.Fetch(context.Background(), "alice@"+host)
	require.NoError(t, err)
	require.Equal(t, "alice@"+host, state.Address)
	require.Equal(t, clock.Now(), state.RetrievalTimestamp)
	require.True(t, state.HasProfile())
	require.Equal(t, profile.FullName, state.Profile.FullName)
	require.Equal(t, profile.Services, state.Profile.Services)
	require.Equal(t, profile.Signature, state.Profile.Signature)
	require.True(t, profile.SubmissionTimestamp.Equal(state.Profile.SubmissionTimestamp))

	expected := types.State{Address: state.Address, Profile: profile}
	require.Equal(t, expected.Hash(), state.Hash())
}

func TestFetchAbsent(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			f, host, clock := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			state, err := f.Fetch(context.Background(), "bob@"+host)
			require.NoError(t, err)
			require.False(t, state.HasProfile())
			require.Equal(t, "bob@"+host, state.Address)
			require.Equal(t, clock.Now(), state.RetrievalTimestamp)
		})
	}
}

func TestFetchFailures(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		handler http.HandlerFunc
	}{
		{
			desc: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			desc: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html></html>"))
			},
		},
		{
			desc: "missing field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"fullName":"Alice"}`))
			},
		},
		{
			desc: "unknown field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"fullName":"A","hometown":"B","countryCode":"CH","services":[],` +
					`"signature":"AQID","submissionTimestamp":"2024-04-30T10:00:00Z","extra":1}`))
			},
		},
		{
			desc: "too large",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(strings.Repeat(" ", maxDocumentSize+1)))
			},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			f, host, _ := newTestFetcher(t, tc.handler)
			_, err := f.Fetch(context.Background(), "alice@"+host)
			require.ErrorIs(t, err, ErrFetchFailed)
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	f, host, _ := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)
	f.cfg.Timeout = 50 * time.Millisecond
	_, err := f.Fetch(context.Background(), "alice@"+host)
	require.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetchRetries(t *testing.T) {
	var attempts atomic.Int32
	doc, err := Encode(&types.Profile{FullName: "Alice", Services: []string{}, Signature: []byte{1}})
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Scheme = "http"
	cfg.RetryMax = 2
	cfg.RetryWait = time.Millisecond
	f, host, _ := newTestFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(doc)
	}), WithConfig(cfg))
	state, err := f.Fetch(context.Background(), "alice@"+host)
	require.NoError(t, err)
	require.True(t, state.HasProfile())
	require.EqualValues(t, 3, attempts.Load())
}

func TestProfileURL(t *testing.T) {
	f, err := New()
	require.NoError(t, err)
	u, err := f.ProfileURL("alice@example.org")
	require.NoError(t, err)
	require.Equal(t, "https://example.org/.well-known/profile/alice", u.String())

	for _, address := range []string{"", "alice", "@example.org", "alice@", "alice@example.org/x", "a@b@c"} {
		_, err := f.ProfileURL(address)
		require.ErrorIs(t, err, ErrInvalidAddress, address)
	}
}
