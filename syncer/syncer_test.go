package syncer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/log/logtest"
	"github.com/spacemeshos/profilesync/sql"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testSyncer struct {
	*Syncer
	sessions *MocksessionRunner
	partners *MockpartnerStore
	claims   *MockclaimSink
	dialer   *Mockdialer
}

func newTestSyncer(t *testing.T) *testSyncer {
	ctrl := gomock.NewController(t)
	ts := &testSyncer{
		sessions: NewMocksessionRunner(ctrl),
		partners: NewMockpartnerStore(ctrl),
		claims:   NewMockclaimSink(ctrl),
		dialer:   NewMockdialer(ctrl),
	}
	ts.Syncer = New(ts.sessions, ts.partners, ts.claims, ts.dialer,
		WithLogger(logtest.New(t)),
		WithClock(clockwork.NewFakeClockAt(now)),
	)
	return ts
}

func partner(name string) types.Partner {
	return types.Partner{
		Name:            name,
		AcceptPassword:  "accept",
		BaseURL:         "quic://" + name + ".example.org:7513",
		ProvideUsername: "me",
		ProvidePassword: "provide",
	}
}

func claimsOf(name string, addresses ...string) []types.Claim {
	var claims []types.Claim
	for _, address := range addresses {
		claims = append(claims, types.Claim{
			State:     types.State{Address: address, RetrievalTimestamp: now},
			Origin:    types.PartnerOrigin(name),
			Timestamp: now,
		})
	}
	return claims
}

func TestSynchronizeAsServer(t *testing.T) {
	ts := newTestSyncer(t)
	stream := &bytes.Buffer{}
	require.ErrorIs(t, ts.SynchronizeAsServer(context.Background(), "bob", stream), ErrNotReady)

	ts.MarkReady()
	ts.MarkReady()
	require.True(t, ts.Ready())

	claims := claimsOf("bob", "a@example.org", "b@example.org")
	ts.partners.EXPECT().Partner("bob").Return(partner("bob"), nil)
	ts.partners.EXPECT().UpdateLastConnection("bob", now).Return(nil)
	ts.sessions.EXPECT().SyncAsServer(gomock.Any(), "bob", stream).Return(claims, nil)
	ts.claims.EXPECT().SubmitClaims(claims).Return(1)
	require.NoError(t, ts.SynchronizeAsServer(context.Background(), "bob", stream))
}

func TestSynchronizeRejectsPartners(t *testing.T) {
	ts := newTestSyncer(t)
	ts.MarkReady()

	kicked := partner("bob")
	kicked.Kicked = true
	ts.partners.EXPECT().Partner("bob").Return(kicked, nil).Times(3)
	require.ErrorIs(t, ts.SynchronizeAsServer(context.Background(), "bob", &bytes.Buffer{}), ErrPartnerKicked)
	require.ErrorIs(t, ts.SynchronizeAsClient(context.Background(), "bob"), ErrPartnerKicked)
	_, err := ts.Password("bob")
	require.ErrorIs(t, err, ErrPartnerKicked)

	ts.partners.EXPECT().Partner("eve").Return(types.Partner{}, sql.ErrNotFound).Times(2)
	require.ErrorIs(t, ts.SynchronizeAsServer(context.Background(), "eve", &bytes.Buffer{}), ErrUnknownPartner)
	_, err = ts.Password("eve")
	require.ErrorIs(t, err, ErrUnknownPartner)

	ts.partners.EXPECT().Partner("alice").Return(partner("alice"), nil)
	password, err := ts.Password("alice")
	require.NoError(t, err)
	require.Equal(t, "accept", password)
}

func TestSynchronizeAsClient(t *testing.T) {
	ts := newTestSyncer(t)
	claims := claimsOf("bob", "a@example.org")
	ts.partners.EXPECT().Partner("bob").Return(partner("bob"), nil)
	ts.partners.EXPECT().UpdateLastConnection("bob", now).Return(nil)
	ts.dialer.EXPECT().
		Session(gomock.Any(), "bob.example.org:7513", "me", "provide", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _ string, fn func(io.ReadWriter) error) error {
			return fn(&bytes.Buffer{})
		})
	ts.sessions.EXPECT().SyncAsClient(gomock.Any(), "bob", gomock.Any()).Return(claims, nil)
	ts.claims.EXPECT().SubmitClaims(claims).Return(len(claims))
	require.NoError(t, ts.SynchronizeAsClient(context.Background(), "bob"))
}

func TestSynchronizeAsClientUnreachable(t *testing.T) {
	ts := newTestSyncer(t)
	ts.partners.EXPECT().Partner("bob").Return(partner("bob"), nil)
	// the attempt is recorded, nothing else happens to the partner
	ts.partners.EXPECT().UpdateLastConnection("bob", now).Return(nil)
	ts.dialer.EXPECT().
		Session(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("no route to host"))
	require.Error(t, ts.SynchronizeAsClient(context.Background(), "bob"))
}

func TestOneSessionPerPartner(t *testing.T) {
	ts := newTestSyncer(t)
	ts.MarkReady()
	ts.partners.EXPECT().Partner(gomock.Any()).DoAndReturn(func(name string) (types.Partner, error) {
		return partner(name), nil
	}).AnyTimes()
	ts.partners.EXPECT().UpdateLastConnection(gomock.Any(), now).Return(nil).AnyTimes()
	ts.claims.EXPECT().SubmitClaims(gomock.Any()).Return(0).AnyTimes()

	started := make(chan struct{})
	release := make(chan struct{})
	ts.sessions.EXPECT().SyncAsServer(gomock.Any(), "bob", gomock.Any()).
		DoAndReturn(func(context.Context, string, io.ReadWriter) ([]types.Claim, error) {
			close(started)
			<-release
			return nil, nil
		})
	done := make(chan error, 1)
	go func() {
		done <- ts.SynchronizeAsServer(context.Background(), "bob", &bytes.Buffer{})
	}()
	<-started

	require.ErrorIs(t, ts.SynchronizeAsServer(context.Background(), "bob", &bytes.Buffer{}), ErrSessionInProgress)
	require.ErrorIs(t, ts.SynchronizeAsClient(context.Background(), "bob"), ErrSessionInProgress)

	// other partners are not affected
	ts.sessions.EXPECT().SyncAsServer(gomock.Any(), "carol", gomock.Any()).Return(nil, nil)
	require.NoError(t, ts.SynchronizeAsServer(context.Background(), "carol", &bytes.Buffer{}))

	close(release)
	require.NoError(t, <-done)

	ts.sessions.EXPECT().SyncAsServer(gomock.Any(), "bob", gomock.Any()).Return(nil, fmt.Errorf("eof"))
	require.Error(t, ts.SynchronizeAsServer(context.Background(), "bob", &bytes.Buffer{}))
}

func TestSubmitAddress(t *testing.T) {
	ts := newTestSyncer(t)
	ts.claims.EXPECT().SubmitAddress("a@example.org").Return(nil)
	require.NoError(t, ts.SubmitAddress("a@example.org"))
}

func TestPartnerAddress(t *testing.T) {
	for _, tc := range []struct {
		url, address string
		err          bool
	}{
		{url: "partner.example.org:7513", address: "partner.example.org:7513"},
		{url: "quic://partner.example.org:7513", address: "partner.example.org:7513"},
		{url: "https://10.0.0.1:443/sync", address: "10.0.0.1:443"},
		{url: "", err: true},
		{url: "quic:///nohost", err: true},
	} {
		t.Run(tc.url, func(t *testing.T) {
			address, err := partnerAddress(tc.url)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.address, address)
		})
	}
}
