// Package pipeline turns submitted addresses and claims of partners into committed states.
//
// Addresses are fetched by the submission stage, claims are audited and validated by the
// validation stage in priority order, and trusted states are saved by the assimilation stage.
// Each stage runs its own workers and hands work to the next stage through a bounded queue.
package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/seehuhn/mt19937"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/priorityq"
)

type Config struct {
	SubmissionWorkers   int `mapstructure:"submission-workers"`
	ValidationWorkers   int `mapstructure:"validation-workers"`
	AssimilationWorkers int `mapstructure:"assimilation-workers"`

	SubmissionQueueSize   int `mapstructure:"submission-queue-size"`
	ValidationQueueSize   int `mapstructure:"validation-queue-size"`
	AssimilationQueueSize int `mapstructure:"assimilation-queue-size"`

	// Lifetime of a profile after its submission.
	Lifetime time.Duration `mapstructure:"lifetime"`
	// GracePeriod after Lifetime during which expired profiles are dropped without penalty.
	GracePeriod time.Duration `mapstructure:"grace-period"`
	// MaxClockDrift is how far in the future timestamps may be.
	MaxClockDrift time.Duration `mapstructure:"max-clock-drift"`
	// FetchTimeout bounds fetches of submitted and audited addresses.
	FetchTimeout time.Duration `mapstructure:"fetch-timeout"`
	// Seed of the control sample rolls. Zero seeds from the clock.
	Seed int64 `mapstructure:"seed"`

	Limits Limits `mapstructure:"limits"`
}

func DefaultConfig() Config {
	return Config{
		SubmissionWorkers:     4,
		ValidationWorkers:     4,
		AssimilationWorkers:   1,
		SubmissionQueueSize:   1024,
		ValidationQueueSize:   4096,
		AssimilationQueueSize: 1024,
		Lifetime:              30 * 24 * time.Hour,
		GracePeriod:           24 * time.Hour,
		MaxClockDrift:         time.Minute,
		FetchTimeout:          10 * time.Second,
		Limits:                DefaultLimits(),
	}
}

type Opt func(*Pipeline)

func WithLogger(logger *zap.Logger) Opt {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithClock(clock clockwork.Clock) Opt {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

func WithConfig(cfg Config) Opt {
	return func(p *Pipeline) {
		p.cfg = cfg
	}
}

// Pipeline runs the submission, validation and assimilation stages.
type Pipeline struct {
	logger   *zap.Logger
	clock    clockwork.Clock
	cfg      Config
	fetcher  Fetcher
	trust    TrustEngine
	store    StateStore
	verifier Verifier

	submissions   *priorityq.Queue[string]
	validations   *priorityq.Queue[types.Claim]
	assimilations *priorityq.Queue[types.State]

	rngMu sync.Mutex
	rng   *rand.Rand

	startOnce    sync.Once
	closeOnce    sync.Once
	stopMu       sync.Mutex
	stop         context.CancelFunc
	submission   errgroup.Group
	validation   errgroup.Group
	assimilation errgroup.Group
}

func New(fetcher Fetcher, trust TrustEngine, store StateStore, verifier Verifier, opts ...Opt) *Pipeline {
	p := &Pipeline{
		logger:   zap.NewNop(),
		clock:    clockwork.NewRealClock(),
		cfg:      DefaultConfig(),
		fetcher:  fetcher,
		trust:    trust,
		store:    store,
		verifier: verifier,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.submissions = priorityq.New(max(p.cfg.SubmissionQueueSize, 1), priorityq.FIFO[string])
	p.validations = priorityq.New(max(p.cfg.ValidationQueueSize, 1), func(a, b types.Claim) bool {
		return a.Less(&b)
	})
	p.assimilations = priorityq.New(max(p.cfg.AssimilationQueueSize, 1), priorityq.FIFO[types.State])

	seed := p.cfg.Seed
	if seed == 0 {
		seed = p.clock.Now().UnixNano()
	}
	mt := mt19937.New()
	mt.Seed(seed)
	p.rng = rand.New(mt)
	return p
}

// Start launches the workers of all stages. Workers keep the values of ctx but not its
// cancellation: they run until Close, so that queued work is drained on shutdown.
func (p *Pipeline) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		p.stopMu.Lock()
		p.stop = cancel
		p.stopMu.Unlock()
		for range max(p.cfg.SubmissionWorkers, 1) {
			p.submission.Go(func() error {
				p.runSubmission(ctx)
				return nil
			})
		}
		for range max(p.cfg.ValidationWorkers, 1) {
			p.validation.Go(func() error {
				p.runValidation(ctx)
				return nil
			})
		}
		for range max(p.cfg.AssimilationWorkers, 1) {
			p.assimilation.Go(func() error {
				p.runAssimilation(ctx)
				return nil
			})
		}
	})
}

// Close drains the stages in order. Each stage stops accepting work and its workers finish
// what is queued before the next stage is closed.
func (p *Pipeline) Close() {
	p.CloseContext(context.Background())
}

// CloseContext drains like Close. If ctx is done first, the workers are canceled, the work
// still queued is abandoned and the error of ctx is returned.
func (p *Pipeline) CloseContext(ctx context.Context) error {
	var err error
	p.closeOnce.Do(func() {
		drained := make(chan struct{})
		go func() {
			p.submissions.Close()
			p.submission.Wait()
			p.validations.Close()
			p.validation.Wait()
			p.assimilations.Close()
			p.assimilation.Wait()
			close(drained)
		}()
		select {
		case <-drained:
			p.logger.Debug("pipeline drained")
		case <-ctx.Done():
			err = ctx.Err()
			p.logger.Warn("abandoning pipeline drain",
				zap.Int("validations", p.validations.Len()),
				zap.Int("assimilations", p.assimilations.Len()),
				zap.Error(err),
			)
		}
		p.stopMu.Lock()
		if p.stop != nil {
			p.stop()
		}
		p.stopMu.Unlock()
		<-drained
	})
	return err
}

// SubmitAddress queues an address to be fetched. The address is dropped if the queue is full.
func (p *Pipeline) SubmitAddress(address string) error {
	if err := p.submissions.TryPush(address); err != nil {
		droppedCount.WithLabelValues("submission").Inc()
		p.logger.Warn("dropping submitted address", zap.String("address", address), zap.Error(err))
		return err
	}
	return nil
}

// SubmitClaims queues claims for validation and returns how many were queued.
// Claims that don't fit into the queue are dropped.
func (p *Pipeline) SubmitClaims(claims []types.Claim) int {
	queued := 0
	for i := range claims {
		if err := p.submitClaim(claims[i]); err != nil {
			continue
		}
		queued++
	}
	return queued
}

func (p *Pipeline) submitClaim(claim types.Claim) error {
	if err := p.validations.TryPush(claim); err != nil {
		droppedCount.WithLabelValues("validation").Inc()
		p.logger.Warn("dropping claim", zap.Object("claim", &claim), zap.Error(err))
		return err
	}
	return nil
}

func (p *Pipeline) fetch(ctx context.Context, address string) (types.State, error) {
	if p.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.FetchTimeout)
		defer cancel()
	}
	return p.fetcher.Fetch(ctx, address)
}

func (p *Pipeline) runSubmission(ctx context.Context) {
	for {
		address, err := p.submissions.Pop(ctx)
		if err != nil {
			return
		}
		state, err := p.fetch(ctx, address)
		if err != nil {
			p.logger.Info("failed to fetch submitted address",
				zap.String("address", address),
				zap.Error(err),
			)
			continue
		}
		p.submitClaim(types.Claim{
			State:     state,
			Origin:    types.SelfOrigin(),
			Timestamp: p.clock.Now(),
		})
	}
}

func (p *Pipeline) runValidation(ctx context.Context) {
	for {
		claim, err := p.validations.Pop(ctx)
		if err != nil {
			return
		}
		state, ok := p.validate(ctx, claim)
		if !ok {
			continue
		}
		if err := p.assimilations.Push(ctx, state); err != nil {
			p.logger.Warn("dropping trusted state", zap.Object("state", &state), zap.Error(err))
			return
		}
	}
}

func (p *Pipeline) runAssimilation(ctx context.Context) {
	for {
		state, err := p.assimilations.Pop(ctx)
		if err != nil {
			return
		}
		accepted, err := p.store.Save(ctx, state)
		switch {
		case err != nil:
			assimilatedCount.WithLabelValues("error").Inc()
			p.logger.Error("failed to save state", zap.Object("state", &state), zap.Error(err))
		case accepted:
			assimilatedCount.WithLabelValues("accepted").Inc()
			p.logger.Debug("saved state", zap.Object("state", &state))
		default:
			assimilatedCount.WithLabelValues("rejected").Inc()
		}
	}
}

func (p *Pipeline) roll(probability float64) bool {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return p.rng.Float64() < probability
}

// validate decides whether a claim is trusted and returns the state to commit.
func (p *Pipeline) validate(ctx context.Context, claim types.Claim) (types.State, bool) {
	state, origin := claim.State, claim.Origin
	name, fromPartner := origin.Partner()
	logger := p.logger.With(zap.Object("claim", &claim))
	if fromPartner {
		partner, err := p.trust.Partner(name)
		if err != nil {
			validatedCount.WithLabelValues("unknown_partner").Inc()
			logger.Warn("dropping claim of unknown partner", zap.Error(err))
			return types.State{}, false
		}
		if partner.Kicked {
			validatedCount.WithLabelValues("kicked").Inc()
			logger.Debug("dropping claim of kicked partner")
			return types.State{}, false
		}
		if p.roll(partner.ControlProbability) {
			truth, err := p.fetch(ctx, state.Address)
			if err != nil {
				validatedCount.WithLabelValues("audit_failed").Inc()
				logger.Info("failed to fetch control sample", zap.Error(err))
				return types.State{}, false
			}
			if truth.Equal(&state) {
				if err := p.trust.RecordSuccess(name); err != nil {
					logger.Error("failed to record control sample", zap.Error(err))
				}
			} else {
				logger.Warn("control sample differs from claim", zap.Object("fetched", &truth))
				if _, err := p.trust.RecordFailure(ctx, name, state.Address); err != nil {
					logger.Error("failed to record control sample", zap.Error(err))
				}
				state, origin = truth, types.SelfOrigin()
			}
		}
	}

	err := p.Validate(&state)
	switch {
	case err == nil:
		validatedCount.WithLabelValues("trusted").Inc()
		return state, true
	case errors.Is(err, ErrRecentlyExpired):
		validatedCount.WithLabelValues("recently_expired").Inc()
		logger.Debug("dropping recently expired state", zap.Error(err))
		return types.State{}, false
	}
	validatedCount.WithLabelValues("invalid").Inc()
	if name, ok := origin.Partner(); ok {
		if err := p.trust.RecordViolation(ctx, name, err.Error()); err != nil {
			logger.Error("failed to record violation", zap.Error(err))
		}
		return types.State{}, false
	}
	logger.Info("dropping invalid state", zap.Error(err))
	return types.State{}, false
}
