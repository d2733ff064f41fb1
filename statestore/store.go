package statestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
	"github.com/spacemeshos/profilesync/sql/ghosts"
	"github.com/spacemeshos/profilesync/sql/states"
)

// Config of the state store.
type Config struct {
	// MaxAge is how long a fetched state is vouched for in answers to partners.
	MaxAge time.Duration `mapstructure:"max-age"`
	// MinResubmissionInterval is the minimal distance between submission timestamps
	// of two consecutive profiles of the same address.
	MinResubmissionInterval time.Duration `mapstructure:"min-resubmission-interval"`
	// Lifetime after submission after which a profile is removed.
	Lifetime time.Duration `mapstructure:"lifetime"`
}

// DefaultConfig returns the default state store configuration.
func DefaultConfig() Config {
	return Config{
		MaxAge:                  2 * time.Hour,
		MinResubmissionInterval: time.Hour,
		Lifetime:                30 * 24 * time.Hour,
	}
}

// Opt for configuring Store.
type Opt func(*Store)

// WithLogger sets logger for the store.
func WithLogger(logger *zap.Logger) Opt {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock sets the clock used for freshness and cleanup.
func WithClock(clock clockwork.Clock) Opt {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Opt {
	return func(s *Store) {
		s.cfg = cfg
	}
}

// Store keeps the current state of every known address and ghosts of replaced states.
type Store struct {
	logger *zap.Logger
	clock  clockwork.Clock
	cfg    Config
	db     *sql.Database
	index  Index

	// mu serializes mutations so that the index follows the database.
	mu sync.Mutex
}

// New creates a state store.
func New(db *sql.Database, index Index, opts ...Opt) *Store {
	s := &Store{
		logger: zap.NewNop(),
		clock:  clockwork.NewRealClock(),
		cfg:    DefaultConfig(),
		db:     db,
		index:  index,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the store configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// Save commits a trusted state and reports whether it replaced what was stored.
//
// A state is rejected if the stored one was retrieved later, or if both carry profiles submitted
// less than MinResubmissionInterval apart. A replaced state leaves a ghost behind.
// Re-fetching the stored content only refreshes its retrieval timestamp.
func (s *Store) Save(ctx context.Context, state types.State) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		accepted bool
		removed  []types.Hash32
		added    []types.Hash32
	)
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		existing, err := states.Get(tx, state.Address)
		switch {
		case errors.Is(err, sql.ErrNotFound):
			if state.Profile == nil {
				return nil
			}
			if err := s.insert(tx, &state); err != nil {
				return err
			}
			accepted = true
			added = append(added, state.Hash())
			return nil
		case err != nil:
			return err
		}
		if state.RetrievalTimestamp.Before(existing.RetrievalTimestamp) {
			s.logger.Debug("stored state is fresher",
				zap.Object("state", &state),
				zap.Object("existing", &existing),
			)
			return nil
		}
		if state.Profile != nil {
			if state.Hash() == existing.Hash() {
				return states.SetRetrieved(tx, state.Address, state.RetrievalTimestamp)
			}
			delta := state.Profile.SubmissionTimestamp.Sub(existing.Profile.SubmissionTimestamp)
			if delta < s.cfg.MinResubmissionInterval {
				s.logger.Debug("resubmitted too soon",
					zap.Object("state", &state),
					zap.Duration("delta", delta),
				)
				return nil
			}
		}
		oldHash := existing.Hash()
		if err := states.Delete(tx, existing.Address); err != nil {
			return err
		}
		if err := ghosts.Add(tx, types.Ghost{
			Hash:               oldHash,
			RetrievalTimestamp: existing.RetrievalTimestamp,
		}); err != nil {
			return err
		}
		removed = append(removed, oldHash)
		accepted = true
		if state.Profile != nil {
			if err := s.insert(tx, &state); err != nil {
				return err
			}
			added = append(added, state.Hash())
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("save state %s: %w", state.Address, err)
	}
	if err := s.updateIndex(ctx, added, removed); err != nil {
		return accepted, err
	}
	if accepted {
		savedStates.Inc()
	} else {
		rejectedStates.Inc()
	}
	return accepted, nil
}

func (s *Store) insert(tx *sql.Tx, state *types.State) error {
	if err := states.Add(tx, state); err != nil {
		return err
	}
	// the content is live again, it must not be announced as deleted
	return ghosts.Delete(tx, state.Hash())
}

func (s *Store) updateIndex(ctx context.Context, added, removed []types.Hash32) error {
	if len(removed) > 0 {
		if err := s.index.Delete(ctx, removed); err != nil {
			return fmt.Errorf("delete from index: %w", err)
		}
	}
	if len(added) > 0 {
		if err := s.index.Add(ctx, added); err != nil {
			return fmt.Errorf("add to index: %w", err)
		}
	}
	return nil
}

// Get returns the stored state of an address.
func (s *Store) Get(address string) (types.State, error) {
	return states.Get(s.db, address)
}

// ByHash returns the stored state with the hash.
func (s *Store) ByHash(hash types.Hash32) (types.State, error) {
	return states.GetByHash(s.db, hash)
}

// ValidState returns the stored state with the hash. A state retrieved more than MaxAge ago
// is returned with its address only.
func (s *Store) ValidState(hash types.Hash32) (types.State, error) {
	state, err := states.GetByHash(s.db, hash)
	if err != nil {
		return types.State{}, err
	}
	if s.clock.Since(state.RetrievalTimestamp) > s.cfg.MaxAge {
		return state.Stripped(), nil
	}
	return state, nil
}

// Ghost returns the ghost recorded for the hash.
func (s *Store) Ghost(hash types.Hash32) (types.Ghost, error) {
	return ghosts.Get(s.db, hash)
}

// Cleanup removes states submitted more than Lifetime ago together with their index entries,
// and ghosts older than Lifetime.
func (s *Store) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-s.cfg.Lifetime)
	var removed []types.Hash32
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		expired, err := states.SubmittedBefore(tx, cutoff)
		if err != nil {
			return err
		}
		for _, hash := range expired {
			removed = append(removed, hash)
		}
		if err := states.DeleteSubmittedBefore(tx, cutoff); err != nil {
			return err
		}
		return ghosts.DeleteRetrievedBefore(tx, cutoff)
	})
	if err != nil {
		return fmt.Errorf("cleanup states: %w", err)
	}
	if err := s.updateIndex(ctx, nil, removed); err != nil {
		return err
	}
	expiredStates.Add(float64(len(removed)))
	s.logger.Debug("cleaned up expired states",
		zap.Int("removed", len(removed)),
		zap.Time("cutoff", cutoff),
	)
	return nil
}

// LoadIndex adds hashes of all stored states to the index.
func (s *Store) LoadIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	const batch = 1024
	hashes := make([]types.Hash32, 0, batch)
	total := 0
	var indexErr error
	err := states.IterateHashes(s.db, func(hash types.Hash32) bool {
		hashes = append(hashes, hash)
		if len(hashes) < batch {
			return true
		}
		total += len(hashes)
		indexErr = s.index.Add(ctx, hashes)
		hashes = make([]types.Hash32, 0, batch)
		return indexErr == nil
	})
	if err != nil {
		return err
	}
	if indexErr != nil {
		return fmt.Errorf("load index: %w", indexErr)
	}
	if len(hashes) > 0 {
		total += len(hashes)
		if err := s.index.Add(ctx, hashes); err != nil {
			return fmt.Errorf("load index: %w", err)
		}
	}
	s.logger.Info("loaded reconciliation index", zap.Int("states", total))
	return nil
}
