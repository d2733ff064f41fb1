package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/log/logtest"
	"github.com/spacemeshos/profilesync/priorityq"
	"github.com/spacemeshos/profilesync/signing"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testPipeline struct {
	*Pipeline
	clock   clockwork.FakeClock
	signer  *signing.EdSigner
	fetcher *MockFetcher
	trust   *MockTrustEngine
	store   *MockStateStore
}

func newTestPipeline(t *testing.T, opts ...Opt) *testPipeline {
	t.Helper()
	ctrl := gomock.NewController(t)
	signer, err := signing.NewEdSigner()
	require.NoError(t, err)
	verifier, err := signing.NewEdVerifier()
	require.NoError(t, err)
	tp := &testPipeline{
		clock:   clockwork.NewFakeClockAt(epoch),
		signer:  signer,
		fetcher: NewMockFetcher(ctrl),
		trust:   NewMockTrustEngine(ctrl),
		store:   NewMockStateStore(ctrl),
	}
	cfg := DefaultConfig()
	cfg.Seed = 42
	tp.Pipeline = New(tp.fetcher, tp.trust, tp.store, verifier, append([]Opt{
		WithConfig(cfg),
		WithClock(tp.clock),
		WithLogger(logtest.New(t)),
	}, opts...)...)
	return tp
}

func (tp *testPipeline) state(address string, submitted time.Time, mutate ...func(*types.Profile)) types.State {
	state := types.State{
		Address:            address,
		RetrievalTimestamp: tp.clock.Now(),
		Profile: &types.Profile{
			FullName:            "Name of " + address,
			Hometown:            "Bern",
			CountryCode:         "CH",
			Services:            []string{"mail", "chat"},
			SubmissionTimestamp: submitted,
		},
	}
	for _, m := range mutate {
		m(state.Profile)
	}
	state.Profile.Signature = tp.signer.SignProfile(&state)
	return state
}

func TestValidate(t *testing.T) {
	tp := newTestPipeline(t)
	lifetime := tp.cfg.Lifetime
	grace := tp.cfg.GracePeriod
	for _, tc := range []struct {
		desc  string
		state func() types.State
		err   error
	}{
		{
			desc:  "valid",
			state: func() types.State { return tp.state("alice@example.org", epoch.Add(-time.Hour)) },
		},
		{
			desc: "no profile",
			state: func() types.State {
				return types.State{Address: "alice@example.org", RetrievalTimestamp: epoch}
			},
		},
		{
			desc:  "empty address",
			state: func() types.State { return tp.state("", epoch.Add(-time.Hour)) },
			err:   ErrInvalidState,
		},
		{
			desc:  "long address",
			state: func() types.State { return tp.state(strings.Repeat("a", 250)+"@example.org", epoch) },
			err:   ErrInvalidState,
		},
		{
			desc: "retrieved in the future",
			state: func() types.State {
				return types.State{Address: "alice@example.org", RetrievalTimestamp: epoch.Add(time.Hour)}
			},
			err: ErrInvalidState,
		},
		{
			desc: "bad signature",
			state: func() types.State {
				state := tp.state("alice@example.org", epoch.Add(-time.Hour))
				state.Profile.Signature[len(state.Profile.Signature)-1] ^= 1
				return state
			},
			err: ErrInvalidState,
		},
		{
			desc: "unsigned",
			state: func() types.State {
				state := tp.state("alice@example.org", epoch.Add(-time.Hour))
				state.Profile.Signature = nil
				return state
			},
			err: ErrInvalidState,
		},
		{
			desc: "submitted in the future",
			state: func() types.State {
				state := tp.state("alice@example.org", epoch.Add(time.Hour))
				state.RetrievalTimestamp = epoch.Add(time.Hour)
				return state
			},
			err: ErrInvalidState,
		},
		{
			desc: "retrieved before submission",
			state: func() types.State {
				state := tp.state("alice@example.org", epoch.Add(-time.Hour))
				state.RetrievalTimestamp = epoch.Add(-2 * time.Hour)
				return state
			},
			err: ErrInvalidState,
		},
		{
			desc: "long name",
			state: func() types.State {
				return tp.state("alice@example.org", epoch, func(p *types.Profile) {
					p.FullName = strings.Repeat("x", 129)
				})
			},
			err: ErrInvalidState,
		},
		{
			desc: "long country code",
			state: func() types.State {
				return tp.state("alice@example.org", epoch, func(p *types.Profile) { p.CountryCode = "CHE" })
			},
			err: ErrInvalidState,
		},
		{
			desc: "service with comma",
			state: func() types.State {
				return tp.state("alice@example.org", epoch, func(p *types.Profile) { p.Services = []string{"a,b"} })
			},
			err: ErrInvalidState,
		},
		{
			desc: "long service",
			state: func() types.State {
				return tp.state("alice@example.org", epoch, func(p *types.Profile) {
					p.Services = []string{strings.Repeat("s", 33)}
				})
			},
			err: ErrInvalidState,
		},
		{
			desc: "too many services",
			state: func() types.State {
				return tp.state("alice@example.org", epoch, func(p *types.Profile) {
					p.Services = nil
					for range 20 {
						p.Services = append(p.Services, strings.Repeat("s", 30))
					}
				})
			},
			err: ErrInvalidState,
		},
		{
			desc: "at lifetime",
			state: func() types.State {
				return tp.state("alice@example.org", epoch.Add(-lifetime))
			},
		},
		{
			desc: "recently expired",
			state: func() types.State {
				return tp.state("alice@example.org", epoch.Add(-lifetime-time.Second))
			},
			err: ErrRecentlyExpired,
		},
		{
			desc: "expired",
			state: func() types.State {
				return tp.state("alice@example.org", epoch.Add(-lifetime-grace-time.Second))
			},
			err: ErrExpired,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			state := tc.state()
			err := tp.Validate(&state)
			if tc.err == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestValidateClaims(t *testing.T) {
	ctx := context.Background()
	const address = "alice@example.org"
	partner := func(prob float64, kicked bool) types.Partner {
		return types.Partner{Name: "p", ControlProbability: prob, Kicked: kicked}
	}

	t.Run("self is trusted", func(t *testing.T) {
		tp := newTestPipeline(t)
		claim := types.Claim{State: tp.state(address, epoch.Add(-time.Hour)), Origin: types.SelfOrigin()}
		state, ok := tp.validate(ctx, claim)
		require.True(t, ok)
		require.Equal(t, claim.State, state)
	})
	t.Run("unknown partner", func(t *testing.T) {
		tp := newTestPipeline(t)
		tp.trust.EXPECT().Partner("p").Return(types.Partner{}, errors.New("not found"))
		claim := types.Claim{State: tp.state(address, epoch.Add(-time.Hour)), Origin: types.PartnerOrigin("p")}
		_, ok := tp.validate(ctx, claim)
		require.False(t, ok)
	})
	t.Run("kicked partner", func(t *testing.T) {
		tp := newTestPipeline(t)
		tp.trust.EXPECT().Partner("p").Return(partner(1, true), nil)
		claim := types.Claim{State: tp.state(address, epoch.Add(-time.Hour)), Origin: types.PartnerOrigin("p")}
		_, ok := tp.validate(ctx, claim)
		require.False(t, ok)
	})
	t.Run("not sampled", func(t *testing.T) {
		tp := newTestPipeline(t)
		tp.trust.EXPECT().Partner("p").Return(partner(0, false), nil)
		claim := types.Claim{State: tp.state(address, epoch.Add(-time.Hour)), Origin: types.PartnerOrigin("p")}
		state, ok := tp.validate(ctx, claim)
		require.True(t, ok)
		require.Equal(t, claim.State, state)
	})
	t.Run("sample matches", func(t *testing.T) {
		tp := newTestPipeline(t)
		claimed := tp.state(address, epoch.Add(-time.Hour))
		fetched := claimed
		fetched.RetrievalTimestamp = epoch.Add(time.Second)
		tp.trust.EXPECT().Partner("p").Return(partner(1, false), nil)
		tp.fetcher.EXPECT().Fetch(gomock.Any(), address).Return(fetched, nil)
		tp.trust.EXPECT().RecordSuccess("p")
		state, ok := tp.validate(ctx, types.Claim{State: claimed, Origin: types.PartnerOrigin("p")})
		require.True(t, ok)
		require.Equal(t, claimed, state)
	})
	t.Run("sample differs", func(t *testing.T) {
		tp := newTestPipeline(t)
		claimed := tp.state(address, epoch.Add(-time.Hour))
		fetched := tp.state(address, epoch.Add(-30*time.Minute))
		tp.trust.EXPECT().Partner("p").Return(partner(1, false), nil)
		tp.fetcher.EXPECT().Fetch(gomock.Any(), address).Return(fetched, nil)
		tp.trust.EXPECT().RecordFailure(gomock.Any(), "p", address).Return(false, nil)
		state, ok := tp.validate(ctx, types.Claim{State: claimed, Origin: types.PartnerOrigin("p")})
		require.True(t, ok)
		require.Equal(t, fetched, state)
	})
	t.Run("invalid fetched state is not blamed on partner", func(t *testing.T) {
		tp := newTestPipeline(t)
		claimed := tp.state(address, epoch.Add(-time.Hour))
		fetched := tp.state(address, epoch.Add(-30*time.Minute))
		fetched.Profile.Signature = nil
		tp.trust.EXPECT().Partner("p").Return(partner(1, false), nil)
		tp.fetcher.EXPECT().Fetch(gomock.Any(), address).Return(fetched, nil)
		tp.trust.EXPECT().RecordFailure(gomock.Any(), "p", address).Return(false, nil)
		_, ok := tp.validate(ctx, types.Claim{State: claimed, Origin: types.PartnerOrigin("p")})
		require.False(t, ok)
	})
	t.Run("sample fetch fails", func(t *testing.T) {
		tp := newTestPipeline(t)
		tp.trust.EXPECT().Partner("p").Return(partner(1, false), nil)
		tp.fetcher.EXPECT().Fetch(gomock.Any(), address).Return(types.State{}, errors.New("unreachable"))
		_, ok := tp.validate(ctx, types.Claim{
			State:  tp.state(address, epoch.Add(-time.Hour)),
			Origin: types.PartnerOrigin("p"),
		})
		require.False(t, ok)
	})
	t.Run("invalid claim is a violation", func(t *testing.T) {
		tp := newTestPipeline(t)
		claimed := tp.state(address, epoch.Add(-time.Hour))
		claimed.Profile.Signature = nil
		tp.trust.EXPECT().Partner("p").Return(partner(0, false), nil)
		tp.trust.EXPECT().RecordViolation(gomock.Any(), "p", gomock.Any())
		_, ok := tp.validate(ctx, types.Claim{State: claimed, Origin: types.PartnerOrigin("p")})
		require.False(t, ok)
	})
	t.Run("expired claim is a violation", func(t *testing.T) {
		tp := newTestPipeline(t)
		claimed := tp.state(address, epoch.Add(-tp.cfg.Lifetime-tp.cfg.GracePeriod-time.Hour))
		tp.trust.EXPECT().Partner("p").Return(partner(0, false), nil)
		tp.trust.EXPECT().RecordViolation(gomock.Any(), "p", gomock.Any())
		_, ok := tp.validate(ctx, types.Claim{State: claimed, Origin: types.PartnerOrigin("p")})
		require.False(t, ok)
	})
	t.Run("recently expired claim is dropped silently", func(t *testing.T) {
		tp := newTestPipeline(t)
		claimed := tp.state(address, epoch.Add(-tp.cfg.Lifetime-time.Hour))
		tp.trust.EXPECT().Partner("p").Return(partner(0, false), nil)
		_, ok := tp.validate(ctx, types.Claim{State: claimed, Origin: types.PartnerOrigin("p")})
		require.False(t, ok)
	})
}

func TestControlProbability(t *testing.T) {
	tp := newTestPipeline(t)
	sampled := 0
	for range 10000 {
		if tp.roll(0.3) {
			sampled++
		}
	}
	require.InDelta(t, 3000, sampled, 300)
	for range 100 {
		require.False(t, tp.roll(0))
		require.True(t, tp.roll(1))
	}
}

func TestValidationOrder(t *testing.T) {
	tp := newTestPipeline(t)
	b := types.Claim{State: types.State{Address: "b"}, Origin: types.PartnerOrigin("p"), Timestamp: time.Unix(100, 0)}
	c := types.Claim{State: types.State{Address: "c"}, Origin: types.PartnerOrigin("q"), Timestamp: time.Unix(50, 0)}
	a := types.Claim{State: types.State{Address: "a"}, Origin: types.SelfOrigin(), Timestamp: time.Unix(200, 0)}
	require.Equal(t, 3, tp.SubmitClaims([]types.Claim{b, c, a}))

	var order []string
	for range 3 {
		claim, err := tp.validations.Pop(context.Background())
		require.NoError(t, err)
		order = append(order, claim.State.Address)
	}
	require.Equal(t, []string{"a", "c", "b"}, order)
}

func TestFullQueuesDrop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubmissionQueueSize = 1
	cfg.ValidationQueueSize = 2
	tp := newTestPipeline(t, WithConfig(cfg))
	require.NoError(t, tp.SubmitAddress("a@example.org"))
	require.Error(t, tp.SubmitAddress("b@example.org"))
	claims := make([]types.Claim, 3)
	require.Equal(t, 2, tp.SubmitClaims(claims))
}

func TestSubmissionsAreSavedBeforeClose(t *testing.T) {
	tp := newTestPipeline(t)
	addresses := []string{"a@example.org", "b@example.org", "c@example.org", "gone@example.org"}
	for _, address := range addresses[:3] {
		tp.fetcher.EXPECT().Fetch(gomock.Any(), address).Return(tp.state(address, epoch.Add(-time.Hour)), nil)
	}
	tp.fetcher.EXPECT().Fetch(gomock.Any(), "gone@example.org").Return(types.State{}, errors.New("unreachable"))
	saved := make(chan string, len(addresses))
	tp.store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, state types.State) (bool, error) {
			saved <- state.Address
			return true, nil
		}).Times(3)

	tp.Start(context.Background())
	for _, address := range addresses {
		require.NoError(t, tp.SubmitAddress(address))
	}
	tp.Close()
	close(saved)
	var got []string
	for address := range saved {
		got = append(got, address)
	}
	require.ElementsMatch(t, addresses[:3], got)
	require.ErrorIs(t, tp.SubmitAddress("late@example.org"), priorityq.ErrClosed)
}

func TestQueuedClaimsOutliveCanceledStart(t *testing.T) {
	tp := newTestPipeline(t)
	claim := types.Claim{
		State:     tp.state("alice@example.org", epoch.Add(-time.Hour)),
		Origin:    types.SelfOrigin(),
		Timestamp: epoch,
	}
	saveErrs := make(chan error, 1)
	tp.store.EXPECT().Save(gomock.Any(), claim.State).DoAndReturn(
		func(ctx context.Context, _ types.State) (bool, error) {
			saveErrs <- ctx.Err()
			return true, nil
		})
	require.Equal(t, 1, tp.SubmitClaims([]types.Claim{claim}))

	ctx, cancel := context.WithCancel(context.Background())
	tp.Start(ctx)
	cancel()
	tp.Close()
	require.Len(t, saveErrs, 1)
	require.NoError(t, <-saveErrs)
}

func TestCloseContextAbandonsStuckWork(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.FetchTimeout = 0
	tp := newTestPipeline(t, WithConfig(cfg))
	fetching := make(chan struct{})
	tp.fetcher.EXPECT().Fetch(gomock.Any(), "slow@example.org").DoAndReturn(
		func(ctx context.Context, _ string) (types.State, error) {
			close(fetching)
			<-ctx.Done()
			return types.State{}, ctx.Err()
		})
	tp.Start(context.Background())
	require.NoError(t, tp.SubmitAddress("slow@example.org"))
	<-fetching

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, tp.CloseContext(ctx), context.DeadlineExceeded)
	require.NoError(t, tp.CloseContext(context.Background()))
}
