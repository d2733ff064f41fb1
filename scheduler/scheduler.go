// Package scheduler runs partner sessions and maintenance on cron schedules.
//
// Schedules use the standard 5 field format. When both day of month and day of week are
// restricted, a day matching either of them fires. Patterns that can never match are
// accepted and never fire.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Config of the scheduler.
type Config struct {
	// Refresh is the schedule on which the partner list is reloaded.
	Refresh string `mapstructure:"refresh"`
	// Cleanup is the schedule of store and sample cleanups.
	Cleanup string `mapstructure:"cleanup"`
	// Flush is the schedule on which cached samples are persisted.
	Flush string `mapstructure:"flush"`
}

func DefaultConfig() Config {
	return Config{
		Refresh: "* * * * *",
		Cleanup: "*/10 * * * *",
		Flush:   "*/5 * * * *",
	}
}

// Task is a maintenance job.
type Task func(ctx context.Context) error

// Opt configures Scheduler.
type Opt func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Opt {
	return func(s *Scheduler) {
		s.cfg = cfg
	}
}

type partnerJob struct {
	schedule string
	id       cron.EntryID
}

// Scheduler connects to every partner that isn't kicked on the partner's connection schedule.
type Scheduler struct {
	logger   *zap.Logger
	cfg      Config
	partners partnerLister
	syncer   clientSyncer
	cron     *cron.Cron

	mu   sync.Mutex
	ctx  context.Context
	jobs map[string]partnerJob
}

// New creates a Scheduler.
func New(partners partnerLister, syncer clientSyncer, opts ...Opt) *Scheduler {
	s := &Scheduler{
		logger:   zap.NewNop(),
		cfg:      DefaultConfig(),
		partners: partners,
		syncer:   syncer,
		ctx:      context.Background(),
		jobs:     make(map[string]partnerJob),
	}
	for _, opt := range opts {
		opt(s)
	}
	logger := cronLogger{s.logger.Named("cron")}
	s.cron = cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	return s
}

// AddCleanup registers a task that runs on the cleanup schedule.
func (s *Scheduler) AddCleanup(name string, task Task) error {
	return s.addTask(name, s.cfg.Cleanup, task)
}

// AddFlush registers a task that runs on the flush schedule.
func (s *Scheduler) AddFlush(name string, task Task) error {
	return s.addTask(name, s.cfg.Flush, task)
}

func (s *Scheduler) addTask(name, schedule string, task Task) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := task(s.context()); err != nil {
			s.logger.Error("scheduled task failed", zap.String("task", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Refresh reconciles the scheduled sessions with the partner list.
func (s *Scheduler) Refresh() error {
	partners, err := s.partners.Partners()
	if err != nil {
		return fmt.Errorf("list partners: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(partners))
	for _, p := range partners {
		if p.Kicked || p.ConnectionSchedule == "" {
			continue
		}
		seen[p.Name] = struct{}{}
		job, found := s.jobs[p.Name]
		if found && job.schedule == p.ConnectionSchedule {
			continue
		}
		if found {
			s.cron.Remove(job.id)
			delete(s.jobs, p.Name)
		}
		name := p.Name
		id, err := s.cron.AddFunc(p.ConnectionSchedule, func() { s.synchronize(name) })
		if err != nil {
			s.logger.Warn("invalid connection schedule",
				zap.String("partner", name),
				zap.String("schedule", p.ConnectionSchedule),
				zap.Error(err),
			)
			continue
		}
		s.jobs[name] = partnerJob{schedule: p.ConnectionSchedule, id: id}
		s.logger.Debug("scheduled partner",
			zap.String("partner", name),
			zap.String("schedule", p.ConnectionSchedule),
		)
	}
	for name, job := range s.jobs {
		if _, found := seen[name]; !found {
			s.cron.Remove(job.id)
			delete(s.jobs, name)
			s.logger.Debug("unscheduled partner", zap.String("partner", name))
		}
	}
	return nil
}

func (s *Scheduler) synchronize(name string) {
	if err := s.syncer.SynchronizeAsClient(s.context(), name); err != nil {
		s.logger.Debug("scheduled session failed", zap.String("partner", name), zap.Error(err))
	}
}

// Scheduled returns the partners with a scheduled session.
func (s *Scheduler) Scheduled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Run starts the jobs and blocks until ctx is canceled and running jobs have finished.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	if err := s.Refresh(); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.Refresh, func() {
		if err := s.Refresh(); err != nil {
			s.logger.Error("failed to refresh partners", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

// cronLogger adapts zap to the cron logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
