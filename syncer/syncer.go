// Package syncer coordinates synchronization sessions with partners and feeds what they
// claim into the claim pipeline.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
)

var (
	// ErrNotReady is returned for inbound sessions while the store may still hold
	// states that weren't validated since a restart.
	ErrNotReady = errors.New("syncer: not ready")
	// ErrSessionInProgress is returned when a session with the partner is already running.
	ErrSessionInProgress = errors.New("syncer: session in progress")
	// ErrPartnerKicked is returned for sessions with kicked partners.
	ErrPartnerKicked = errors.New("syncer: partner kicked")
	// ErrUnknownPartner is returned for names that aren't registered as partners.
	ErrUnknownPartner = errors.New("syncer: unknown partner")
)

// Opt configures Syncer.
type Opt func(*Syncer)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithClock sets the clock used for connection timestamps.
func WithClock(clock clockwork.Clock) Opt {
	return func(s *Syncer) {
		s.clock = clock
	}
}

// Syncer runs at most one session per partner at a time. Claims produced by a session
// are submitted to the pipeline once the session completes.
type Syncer struct {
	logger   *zap.Logger
	clock    clockwork.Clock
	sessions sessionRunner
	partners partnerStore
	claims   claimSink
	dialer   dialer

	mu     sync.Mutex
	active map[string]struct{}

	readyOnce sync.Once
	ready     chan struct{}
}

// New creates a Syncer. It refuses inbound sessions until MarkReady is called.
func New(sessions sessionRunner, partners partnerStore, claims claimSink, dialer dialer, opts ...Opt) *Syncer {
	s := &Syncer{
		logger:   zap.NewNop(),
		clock:    clockwork.NewRealClock(),
		sessions: sessions,
		partners: partners,
		claims:   claims,
		dialer:   dialer,
		active:   make(map[string]struct{}),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkReady allows inbound sessions.
func (s *Syncer) MarkReady() {
	s.readyOnce.Do(func() {
		s.logger.Info("accepting partner sessions")
		close(s.ready)
	})
}

// Ready returns true once inbound sessions are accepted.
func (s *Syncer) Ready() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Password returns the password the partner must authenticate with. Kicked partners
// can't authenticate.
func (s *Syncer) Password(name string) (string, error) {
	partner, err := s.partner(name)
	if err != nil {
		return "", err
	}
	return partner.AcceptPassword, nil
}

// SubmitAddress schedules a fetch of the profile published at address.
func (s *Syncer) SubmitAddress(address string) error {
	return s.claims.SubmitAddress(address)
}

// SynchronizeAsServer serves a session initiated by the authenticated partner.
func (s *Syncer) SynchronizeAsServer(ctx context.Context, name string, stream io.ReadWriter) error {
	if !s.Ready() {
		sessionsRejected.WithLabelValues("not_ready").Inc()
		return ErrNotReady
	}
	if _, err := s.partner(name); err != nil {
		sessionsRejected.WithLabelValues("partner").Inc()
		return err
	}
	return s.exclusive(name, func() error {
		s.touch(name)
		claims, err := s.sessions.SyncAsServer(ctx, name, stream)
		if err != nil {
			return err
		}
		s.submit(name, claims)
		return nil
	})
}

// SynchronizeAsClient connects to the partner and runs a session with it. An unreachable
// partner is reported as an error but is never penalized.
func (s *Syncer) SynchronizeAsClient(ctx context.Context, name string) error {
	partner, err := s.partner(name)
	if err != nil {
		sessionsRejected.WithLabelValues("partner").Inc()
		return err
	}
	address, err := partnerAddress(partner.BaseURL)
	if err != nil {
		return err
	}
	return s.exclusive(name, func() error {
		s.touch(name)
		var claims []types.Claim
		err := s.dialer.Session(ctx, address, partner.ProvideUsername, partner.ProvidePassword,
			func(stream io.ReadWriter) error {
				var err error
				claims, err = s.sessions.SyncAsClient(ctx, name, stream)
				return err
			})
		if err != nil {
			s.logger.Warn("synchronization with partner failed",
				zap.String("partner", name),
				zap.String("address", address),
				zap.Error(err),
			)
			return err
		}
		s.submit(name, claims)
		return nil
	})
}

func (s *Syncer) partner(name string) (types.Partner, error) {
	partner, err := s.partners.Partner(name)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return types.Partner{}, fmt.Errorf("%w: %s", ErrUnknownPartner, name)
	case err != nil:
		return types.Partner{}, fmt.Errorf("load partner %s: %w", name, err)
	case partner.Kicked:
		return types.Partner{}, fmt.Errorf("%w: %s", ErrPartnerKicked, name)
	}
	return partner, nil
}

func (s *Syncer) exclusive(name string, fn func() error) error {
	s.mu.Lock()
	if _, found := s.active[name]; found {
		s.mu.Unlock()
		sessionsRejected.WithLabelValues("in_progress").Inc()
		return fmt.Errorf("%w: %s", ErrSessionInProgress, name)
	}
	s.active[name] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.active, name)
		s.mu.Unlock()
	}()
	return fn()
}

// touch records the connection attempt, whatever its outcome.
func (s *Syncer) touch(name string) {
	if err := s.partners.UpdateLastConnection(name, s.clock.Now()); err != nil {
		s.logger.Error("failed to update last connection", zap.String("partner", name), zap.Error(err))
	}
}

func (s *Syncer) submit(name string, claims []types.Claim) {
	accepted := s.claims.SubmitClaims(claims)
	claimsSubmitted.Add(float64(accepted))
	if accepted < len(claims) {
		s.logger.Warn("validation queue is full, dropped claims",
			zap.String("partner", name),
			zap.Int("dropped", len(claims)-accepted),
		)
	}
}

// partnerAddress accepts either host:port or a URL with the host:port as its host.
func partnerAddress(baseURL string) (string, error) {
	if !strings.Contains(baseURL, "://") {
		if baseURL == "" {
			return "", errors.New("partner has no address")
		}
		return baseURL, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse partner url %q: %w", baseURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("partner url %q has no host", baseURL)
	}
	return u.Host, nil
}
