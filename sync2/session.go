// Package sync2 implements synchronization sessions between partners.
package sync2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
	"github.com/spacemeshos/profilesync/sync2/rangesync"
	"github.com/spacemeshos/profilesync/sync2/wire"
)

// Config of synchronization sessions.
type Config struct {
	// Timeout of the reconciliation phase.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxAge is how long a ghost's retrieval timestamp is vouched for in deletion requests.
	MaxAge time.Duration `mapstructure:"max-age"`
	// MaxSendRange is the range size below which the reconciliation engine sends items
	// instead of fingerprints.
	MaxSendRange int `mapstructure:"max-send-range"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxAge:       2 * time.Hour,
		MaxSendRange: rangesync.DefaultMaxSendRange,
	}
}

// Opt configures PairwiseSyncer.
type Opt func(*PairwiseSyncer)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(s *PairwiseSyncer) {
		s.logger = logger
	}
}

// WithClock sets the clock used for claim and deletion timestamps.
func WithClock(clock clockwork.Clock) Opt {
	return func(s *PairwiseSyncer) {
		s.clock = clock
	}
}

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Opt {
	return func(s *PairwiseSyncer) {
		s.cfg = cfg
	}
}

// PairwiseSyncer runs synchronization sessions with a single partner over a stream.
// A session reconciles the indexes, exchanges deletion requests, then exchanges states,
// and finally turns what was received into claims.
type PairwiseSyncer struct {
	logger  *zap.Logger
	clock   clockwork.Clock
	cfg     Config
	gateway *Gateway
	source  StateSource
}

// NewPairwiseSyncer creates a PairwiseSyncer.
func NewPairwiseSyncer(gateway *Gateway, source StateSource, opts ...Opt) *PairwiseSyncer {
	s := &PairwiseSyncer{
		logger:  zap.NewNop(),
		clock:   clockwork.NewRealClock(),
		cfg:     DefaultConfig(),
		gateway: gateway,
		source:  source,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncAsServer serves a session initiated by the partner and returns the claims made by it.
func (s *PairwiseSyncer) SyncAsServer(ctx context.Context, partner string, stream io.ReadWriter) ([]types.Claim, error) {
	return s.run(ctx, "server", partner, stream, s.gateway.ReconcileAsServer, (*session).serve)
}

// SyncAsClient initiates a session with the partner and returns the claims made by it.
func (s *PairwiseSyncer) SyncAsClient(ctx context.Context, partner string, stream io.ReadWriter) ([]types.Claim, error) {
	return s.run(ctx, "client", partner, stream, s.gateway.ReconcileAsClient, (*session).initiate)
}

func (s *PairwiseSyncer) run(
	ctx context.Context,
	role, partner string,
	stream io.ReadWriter,
	reconcile func(context.Context, io.ReadWriter) []types.Hash32,
	exchange func(*session) error,
) ([]types.Claim, error) {
	start := s.clock.Now()
	logger := s.logger.With(
		zap.Stringer("session", uuid.New()),
		zap.String("role", role),
		zap.String("partner", partner),
	)
	missing := reconcile(ctx, stream)
	logger.Debug("reconciled", zap.Int("missing", len(missing)))

	sess := &session{
		syncer:      s,
		logger:      logger,
		partner:     partner,
		conduit:     wire.NewConduit(stream),
		missing:     missing,
		preliminary: make(map[string]types.State),
		requested:   make(map[types.Hash32]struct{}),
	}
	err := exchange(sess)
	sessionDuration.WithLabelValues(role).Observe(s.clock.Since(start).Seconds())
	switch {
	case err == nil:
		sessionOutcomes.WithLabelValues(role, "ok").Inc()
	case isTimeout(err):
		sessionOutcomes.WithLabelValues(role, "timeout").Inc()
		logger.Warn("partner went silent, using what was received", zap.Error(err))
	default:
		sessionOutcomes.WithLabelValues(role, "failed").Inc()
		return nil, fmt.Errorf("session with %s: %w", partner, err)
	}
	claims := sess.claims()
	logger.Info("session done",
		zap.Int("missing", len(missing)),
		zap.Int("claims", len(claims)),
		zap.Duration("duration", s.clock.Since(start)),
	)
	return claims, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type session struct {
	syncer  *PairwiseSyncer
	logger  *zap.Logger
	partner string
	conduit *wire.Conduit

	missing []types.Hash32
	// deleted are the missing hashes for which we have ghosts.
	deleted map[types.Hash32]struct{}
	// preliminary holds deletion claims by address until superseded by a received state.
	preliminary map[string]types.State
	requested   map[types.Hash32]struct{}
	received    []types.State
	// referenceTimestamp is shared by all claims of the session.
	referenceTimestamp time.Time
}

func (s *session) serve() error {
	if err := s.receiveDeletionRequests(); err != nil {
		return err
	}
	if err := s.sendDeletionRequests(); err != nil {
		return err
	}
	s.referenceTimestamp = s.syncer.clock.Now()
	if err := s.answerStateRequests(); err != nil {
		return err
	}
	if err := s.sendStateRequests(); err != nil {
		return err
	}
	return s.receiveStates()
}

func (s *session) initiate() error {
	if err := s.sendDeletionRequests(); err != nil {
		return err
	}
	if err := s.receiveDeletionRequests(); err != nil {
		return err
	}
	s.referenceTimestamp = s.syncer.clock.Now()
	if err := s.sendStateRequests(); err != nil {
		return err
	}
	if err := s.receiveStates(); err != nil {
		return err
	}
	return s.answerStateRequests()
}

func (s *session) receiveDeletionRequests() error {
	reqs, err := s.conduit.ReceiveDeletionRequests()
	for _, req := range reqs {
		if req.RetrievalTimestamp.IsZero() {
			continue
		}
		state, err := s.syncer.source.ByHash(req.Hash)
		switch {
		case errors.Is(err, sql.ErrNotFound):
			continue
		case err != nil:
			return fmt.Errorf("lookup deleted state: %w", err)
		}
		prev, found := s.preliminary[state.Address]
		if found && !prev.RetrievalTimestamp.Before(req.RetrievalTimestamp) {
			continue
		}
		s.preliminary[state.Address] = types.State{
			Address:            state.Address,
			RetrievalTimestamp: req.RetrievalTimestamp,
		}
	}
	if err != nil {
		return fmt.Errorf("receive deletion requests: %w", err)
	}
	return nil
}

func (s *session) sendDeletionRequests() error {
	now := s.syncer.clock.Now()
	s.deleted = make(map[types.Hash32]struct{})
	var reqs []wire.DeletionRequest
	for _, hash := range s.missing {
		ghost, err := s.syncer.source.Ghost(hash)
		switch {
		case errors.Is(err, sql.ErrNotFound):
			continue
		case err != nil:
			return fmt.Errorf("lookup ghost: %w", err)
		}
		req := wire.DeletionRequest{Hash: hash}
		if now.Sub(ghost.RetrievalTimestamp) < s.syncer.cfg.MaxAge {
			req.RetrievalTimestamp = ghost.RetrievalTimestamp
		}
		reqs = append(reqs, req)
		s.deleted[hash] = struct{}{}
	}
	if err := s.conduit.SendDeletionRequests(reqs); err != nil {
		return fmt.Errorf("send deletion requests: %w", err)
	}
	return nil
}

func (s *session) answerStateRequests() error {
	hashes, err := s.conduit.ReceiveStateRequests()
	if err != nil {
		return fmt.Errorf("receive state requests: %w", err)
	}
	states := make([]types.State, 0, len(hashes))
	for _, hash := range hashes {
		state, err := s.syncer.source.ValidState(hash)
		switch {
		case errors.Is(err, sql.ErrNotFound):
			s.logger.Debug("requested state not found", zap.Stringer("hash", hash))
			continue
		case err != nil:
			return fmt.Errorf("lookup requested state: %w", err)
		}
		states = append(states, state)
	}
	if err := s.conduit.SendStates(states); err != nil {
		return fmt.Errorf("send states: %w", err)
	}
	return nil
}

func (s *session) sendStateRequests() error {
	hashes := make([]types.Hash32, 0, len(s.missing))
	for _, hash := range s.missing {
		if _, found := s.deleted[hash]; found {
			continue
		}
		hashes = append(hashes, hash)
		s.requested[hash] = struct{}{}
	}
	if err := s.conduit.SendStateRequests(hashes); err != nil {
		return fmt.Errorf("send state requests: %w", err)
	}
	return nil
}

func (s *session) receiveStates() error {
	states, err := s.conduit.ReceiveStates()
	for _, state := range states {
		if !state.HasProfile() {
			s.logger.Debug("partner no longer vouches for state", zap.String("address", state.Address))
			continue
		}
		if _, found := s.requested[state.Hash()]; !found {
			s.logger.Debug("dropping unrequested state", zap.String("address", state.Address))
			continue
		}
		s.received = append(s.received, state)
	}
	if err != nil {
		return fmt.Errorf("receive states: %w", err)
	}
	return nil
}

// claims turns received states into claims. A received state supersedes the deletion
// claim of the same address.
func (s *session) claims() []types.Claim {
	ts := s.referenceTimestamp
	if ts.IsZero() {
		ts = s.syncer.clock.Now()
	}
	origin := types.PartnerOrigin(s.partner)
	claims := make([]types.Claim, 0, len(s.received)+len(s.preliminary))
	for _, state := range s.received {
		delete(s.preliminary, state.Address)
		claims = append(claims, types.Claim{State: state, Origin: origin, Timestamp: ts})
	}
	stateClaims.Add(float64(len(claims)))
	for _, state := range s.preliminary {
		claims = append(claims, types.Claim{State: state, Origin: origin, Timestamp: ts})
	}
	deletionClaims.Add(float64(len(s.preliminary)))
	return claims
}
