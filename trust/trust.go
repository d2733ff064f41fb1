package trust

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
	"github.com/spacemeshos/profilesync/sql/partners"
	"github.com/spacemeshos/profilesync/sql/samples"
	"github.com/spacemeshos/profilesync/sql/violations"
)

// ErrClosed is returned by sample recording after Close.
var ErrClosed = errors.New("trust: engine closed")

// Config of the trust engine.
type Config struct {
	// SignificanceThreshold is the minimal number of samples in the window before a partner
	// can be kicked for its failure rate.
	SignificanceThreshold int `mapstructure:"significance-threshold"`
	// MaxFailedPercentage of samples in the window that a partner may fail.
	MaxFailedPercentage int `mapstructure:"max-failed-percentage"`
	// BucketInterval is the width of a sample bucket.
	BucketInterval time.Duration `mapstructure:"bucket-interval"`
	// Window is the number of buckets samples are counted over.
	Window int `mapstructure:"window"`
	// CacheSize is the number of partner records kept in memory.
	CacheSize int `mapstructure:"cache-size"`
}

// DefaultConfig returns the default trust configuration.
func DefaultConfig() Config {
	return Config{
		SignificanceThreshold: 30,
		MaxFailedPercentage:   20,
		BucketInterval:        time.Hour,
		Window:                168,
		CacheSize:             256,
	}
}

// Opt for configuring Engine.
type Opt func(*Engine)

// WithLogger sets logger for the engine.
func WithLogger(logger *zap.Logger) Opt {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the clock used to pick sample buckets.
func WithClock(clock clockwork.Clock) Opt {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Opt {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

type bucketKey struct {
	partner string
	bucket  types.Bucket
}

// Engine tracks control samples and violations of partners and kicks partners
// that misbehave.
//
// Successful samples are counted in memory and written to the database on Flush, when
// their bucket leaves the window, and on Close.
type Engine struct {
	logger *zap.Logger
	clock  clockwork.Clock
	cfg    Config
	db     *sql.Database

	// cacheMu orders cache fills in Partner with updates of partner records.
	cacheMu  sync.Mutex
	partners *lru.Cache[string, types.Partner]

	mu         sync.Mutex
	successful map[bucketKey]int
	closed     bool

	closeOnce sync.Once
	closeErr  error
}

// New creates a trust engine.
func New(db *sql.Database, opts ...Opt) (*Engine, error) {
	e := &Engine{
		logger:     zap.NewNop(),
		clock:      clockwork.NewRealClock(),
		cfg:        DefaultConfig(),
		db:         db,
		successful: map[bucketKey]int{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.BucketInterval <= 0 {
		return nil, fmt.Errorf("invalid bucket interval %v", e.cfg.BucketInterval)
	}
	cache, err := lru.New[string, types.Partner](max(e.cfg.CacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("create partner cache: %w", err)
	}
	e.partners = cache
	return e, nil
}

// CurrentBucket returns the bucket of the current time.
func (e *Engine) CurrentBucket() types.Bucket {
	return types.BucketOf(e.clock.Now(), e.cfg.BucketInterval)
}

// windowStart is the oldest bucket counted by the kick rule.
func (e *Engine) windowStart() types.Bucket {
	current := e.CurrentBucket()
	if current < types.Bucket(e.cfg.Window) {
		return 0
	}
	return current - types.Bucket(e.cfg.Window)
}

// RecordSuccess registers a successful control sample in the current bucket.
func (e *Engine) RecordSuccess(partner string) error {
	return e.AddSuccessfulSample(partner, e.CurrentBucket())
}

// RecordFailure registers a failed control sample for the address in the current bucket
// and reports whether the partner got kicked.
func (e *Engine) RecordFailure(ctx context.Context, partner, address string) (bool, error) {
	return e.AddFailedSample(ctx, partner, e.CurrentBucket(), address)
}

// AddSuccessfulSample counts a successful sample in memory. Buckets that fell out of the
// window are written to the database before they are evicted.
func (e *Engine) AddSuccessfulSample(partner string, bucket types.Bucket) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.successful[bucketKey{partner: partner, bucket: bucket}]++
	samplesCount.WithLabelValues("successful").Inc()
	return e.evictLocked(e.windowStart())
}

func (e *Engine) evictLocked(since types.Bucket) error {
	for key, count := range e.successful {
		if key.bucket >= since {
			continue
		}
		if err := samples.AddSuccessful(e.db, key.partner, key.bucket, count); err != nil {
			return err
		}
		delete(e.successful, key)
	}
	return nil
}

// AddFailedSample records a failed sample and evaluates the kick rule for the partner.
// Only the latest failure per partner and address is kept.
func (e *Engine) AddFailedSample(ctx context.Context, partner string, bucket types.Bucket, address string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false, ErrClosed
	}
	if err := samples.AddFailed(e.db, types.FailedSample{
		Partner: partner,
		Address: address,
		Bucket:  bucket,
	}); err != nil {
		return false, err
	}
	samplesCount.WithLabelValues("failed").Inc()

	since := e.windowStart()
	failed, err := samples.CountFailed(e.db, partner, since)
	if err != nil {
		return false, err
	}
	successful, err := e.countSuccessfulLocked(partner, since)
	if err != nil {
		return false, err
	}
	if !e.exceeds(successful, failed) {
		return false, nil
	}
	e.logger.Warn("partner failed too many control samples",
		zap.String("partner", partner),
		zap.Int("successful", successful),
		zap.Int("failed", failed),
	)
	if err := e.kick(ctx, partner, "failure rate"); err != nil {
		return false, err
	}
	return true, nil
}

// exceeds evaluates the statistical kick rule.
func (e *Engine) exceeds(successful, failed int) bool {
	total := successful + failed
	return total >= e.cfg.SignificanceThreshold &&
		100*failed > e.cfg.MaxFailedPercentage*total
}

// CountSuccessful returns successful samples of a partner since the bucket, cached and persisted.
func (e *Engine) CountSuccessful(partner string, since types.Bucket) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.countSuccessfulLocked(partner, since)
}

func (e *Engine) countSuccessfulLocked(partner string, since types.Bucket) (int, error) {
	count, err := samples.CountSuccessful(e.db, partner, since)
	if err != nil {
		return 0, err
	}
	for key, cached := range e.successful {
		if key.partner == partner && key.bucket >= since {
			count += cached
		}
	}
	return count, nil
}

// CountFailed returns failed samples of a partner since the bucket.
func (e *Engine) CountFailed(partner string, since types.Bucket) (int, error) {
	return samples.CountFailed(e.db, partner, since)
}

// RecordViolation stores a violation and kicks the partner.
func (e *Engine) RecordViolation(ctx context.Context, partner, description string) error {
	violation := types.Violation{
		Partner:     partner,
		Description: description,
		Timestamp:   e.clock.Now(),
	}
	if err := violations.Add(e.db, &violation); err != nil {
		return err
	}
	violationsCount.Inc()
	e.logger.Warn("partner violation", zap.Object("violation", &violation))
	return e.kick(ctx, partner, description)
}

// Violations returns the violations recorded for a partner.
func (e *Engine) Violations(partner string) ([]types.Violation, error) {
	return violations.List(e.db, partner)
}

// Kick marks the partner as untrusted.
func (e *Engine) Kick(ctx context.Context, partner string) error {
	return e.kick(ctx, partner, "administrative")
}

func (e *Engine) kick(ctx context.Context, partner, reason string) error {
	if err := e.updatePartner(partner, func() error {
		return e.db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := partners.Get(tx, partner); err != nil {
				return err
			}
			return partners.SetKicked(tx, partner, true)
		})
	}); err != nil {
		return fmt.Errorf("kick %s: %w", partner, err)
	}
	kicksCount.Inc()
	e.logger.Info("partner kicked", zap.String("partner", partner), zap.String("reason", reason))
	return nil
}

// Unkick trusts the partner again. With reset all its samples are forgotten, otherwise
// a few more failures are enough to kick it again.
func (e *Engine) Unkick(ctx context.Context, partner string, reset bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.updatePartner(partner, func() error {
		return e.db.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := partners.Get(tx, partner); err != nil {
				return err
			}
			if reset {
				if err := samples.DeletePartner(tx, partner); err != nil {
					return err
				}
			}
			return partners.SetKicked(tx, partner, false)
		})
	}); err != nil {
		return fmt.Errorf("unkick %s: %w", partner, err)
	}
	if reset {
		for key := range e.successful {
			if key.partner == partner {
				delete(e.successful, key)
			}
		}
	}
	e.logger.Info("partner unkicked", zap.String("partner", partner), zap.Bool("reset", reset))
	return nil
}

// Cleanup removes samples older than the window from memory and from the database.
func (e *Engine) Cleanup(ctx context.Context) error {
	return e.CleanupBefore(ctx, e.windowStart())
}

// CleanupBefore removes samples in buckets older than since.
func (e *Engine) CleanupBefore(ctx context.Context, since types.Bucket) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key := range e.successful {
		if key.bucket < since {
			delete(e.successful, key)
		}
	}
	return e.db.WithTx(ctx, func(tx *sql.Tx) error {
		return samples.DeleteBefore(tx, since)
	})
}

// Flush writes all cached successful samples to the database.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flushLocked(ctx)
}

func (e *Engine) flushLocked(ctx context.Context) error {
	if len(e.successful) == 0 {
		return nil
	}
	if err := e.db.WithTx(ctx, func(tx *sql.Tx) error {
		for key, count := range e.successful {
			if err := samples.AddSuccessful(tx, key.partner, key.bucket, count); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("flush samples: %w", err)
	}
	e.logger.Debug("flushed successful samples", zap.Int("buckets", len(e.successful)))
	clear(e.successful)
	return nil
}

// Close flushes cached samples. Samples recorded after Close are rejected.
// Only the first call flushes, later calls return its result.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.closed = true
		e.closeErr = e.flushLocked(context.Background())
	})
	return e.closeErr
}
