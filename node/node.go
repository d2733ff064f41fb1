// Package node wires the profilesync components into a runnable application.
package node

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/jonboulle/clockwork"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/profilesync/config"
	"github.com/spacemeshos/profilesync/fetch"
	"github.com/spacemeshos/profilesync/log"
	"github.com/spacemeshos/profilesync/metrics"
	"github.com/spacemeshos/profilesync/p2p/server"
	"github.com/spacemeshos/profilesync/pipeline"
	"github.com/spacemeshos/profilesync/scheduler"
	"github.com/spacemeshos/profilesync/signing"
	"github.com/spacemeshos/profilesync/sql"
	"github.com/spacemeshos/profilesync/statestore"
	"github.com/spacemeshos/profilesync/sync2"
	"github.com/spacemeshos/profilesync/sync2/procsync"
	"github.com/spacemeshos/profilesync/sync2/rangesync"
	"github.com/spacemeshos/profilesync/syncer"
	"github.com/spacemeshos/profilesync/trust"
)

const (
	lockFile          = "LOCK"
	cleanShutdownFile = "CLEAN_SHUTDOWN"
)

// Option to modify an App instance.
type Option func(app *App)

// WithLog sets the root logger. Module loggers are derived from it.
func WithLog(logger *zap.Logger) Option {
	return func(app *App) {
		app.log = logger
	}
}

// WithConfig overwrites default App config.
func WithConfig(conf *config.Config) Option {
	return func(app *App) {
		app.Config = conf
	}
}

// WithClock sets the clock of all components.
func WithClock(clock clockwork.Clock) Option {
	return func(app *App) {
		app.clock = clock
	}
}

// App is a profilesync node.
type App struct {
	Config *config.Config
	log    *zap.Logger
	clock  clockwork.Clock

	fileLock *flock.Flock
	db       *sql.Database
	engine   sync2.Engine
	store    *statestore.Store
	trust    *trust.Engine
	pipeline *pipeline.Pipeline
	syncer   *syncer.Syncer
	server   *server.Server
	cron     *scheduler.Scheduler

	started chan struct{}
}

// New creates an instance of the node.
func New(opts ...Option) *App {
	defaultConfig := config.DefaultConfig()
	app := &App{
		Config:  &defaultConfig,
		log:     zap.NewNop(),
		clock:   clockwork.NewRealClock(),
		started: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Lock takes the exclusive lock of the data directory.
func (app *App) Lock() error {
	if err := os.MkdirAll(app.Config.DataDir, 0o700); err != nil {
		return fmt.Errorf("ensure data folder exists: %w", err)
	}
	fl := flock.New(filepath.Join(app.Config.DataDir, lockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("flock %s: %w", app.Config.DataDir, err)
	}
	if !locked {
		return fmt.Errorf("data folder %s is used by another process", app.Config.DataDir)
	}
	app.fileLock = fl
	return nil
}

// Unlock releases the lock of the data directory.
func (app *App) Unlock() {
	if app.fileLock == nil {
		return
	}
	if err := app.fileLock.Unlock(); err != nil {
		app.log.Error("failed to unlock data folder", zap.Error(err))
	}
	app.fileLock = nil
}

func (app *App) addLogger(name, level string) *zap.Logger {
	logger, err := log.Module(app.log, name, level)
	if err != nil {
		app.log.Warn("invalid log level, using the app level",
			zap.String("module", name),
			zap.String("level", level),
		)
		return app.log.Named(name)
	}
	return logger
}

// Open opens the database and creates the storage components. It is enough for
// administrative commands.
func (app *App) Open() error {
	db, err := sql.Open("file:"+app.Config.DBPath(),
		sql.WithLogger(app.addLogger("db", app.Config.LOGGING.StoreLoggerLevel)),
	)
	if err != nil {
		return err
	}
	app.db = db
	app.trust, err = trust.New(db,
		trust.WithLogger(app.addLogger("trust", app.Config.LOGGING.TrustLoggerLevel)),
		trust.WithClock(app.clock),
		trust.WithConfig(app.Config.Trust),
	)
	if err != nil {
		return errors.Join(err, db.Close())
	}
	return nil
}

// Trust returns the partner trust engine. Open must be called first.
func (app *App) Trust() *trust.Engine {
	return app.trust
}

func (app *App) newEngine() (sync2.Engine, error) {
	logger := app.addLogger("reconcile", app.Config.LOGGING.SyncLoggerLevel)
	if app.Config.ReconcileEngine != "" {
		return procsync.Start(app.Config.ReconcileEngine, app.Config.ReconcileEngineArgs,
			procsync.WithLogger(logger))
	}
	return rangesync.NewEngine(
		rangesync.WithMaxSendRange(app.Config.Sync.MaxSendRange),
		rangesync.WithLogger(logger),
	), nil
}

// setupPipeline creates everything that is needed to turn addresses and claims into states.
func (app *App) setupPipeline(ctx context.Context) (*sync2.Gateway, error) {
	engine, err := app.newEngine()
	if err != nil {
		return nil, fmt.Errorf("reconciliation engine: %w", err)
	}
	app.engine = engine
	syncLogger := app.addLogger("sync", app.Config.LOGGING.SyncLoggerLevel)
	gateway := sync2.NewGateway(engine,
		sync2.WithGatewayLogger(syncLogger),
		sync2.WithReconcileTimeout(app.Config.Sync.Timeout),
	)
	app.store = statestore.New(app.db, gateway,
		statestore.WithLogger(app.addLogger("store", app.Config.LOGGING.StoreLoggerLevel)),
		statestore.WithClock(app.clock),
		statestore.WithConfig(app.Config.Store),
	)
	if err := app.store.LoadIndex(ctx); err != nil {
		return nil, err
	}
	fetcher, err := fetch.New(
		fetch.WithLogger(app.addLogger("fetch", app.Config.LOGGING.FetchLoggerLevel)),
		fetch.WithConfig(app.Config.Fetch),
		fetch.WithClock(app.clock),
	)
	if err != nil {
		return nil, err
	}
	verifier, err := signing.NewEdVerifier()
	if err != nil {
		return nil, err
	}
	app.pipeline = pipeline.New(fetcher, app.trust, app.store, verifier,
		pipeline.WithLogger(app.addLogger("pipeline", app.Config.LOGGING.PipelineLoggerLevel)),
		pipeline.WithClock(app.clock),
		pipeline.WithConfig(app.Config.Pipeline),
	)
	app.pipeline.Start(ctx)
	return gateway, nil
}

func (app *App) setupServices(gateway *sync2.Gateway) error {
	syncLogger := app.addLogger("sync", app.Config.LOGGING.SyncLoggerLevel)
	sessions := sync2.NewPairwiseSyncer(gateway, app.store,
		sync2.WithLogger(syncLogger),
		sync2.WithClock(app.clock),
		sync2.WithConfig(app.Config.Sync),
	)
	serverLogger := app.addLogger("server", app.Config.LOGGING.ServerLoggerLevel)
	dialer := server.NewDialer(
		server.WithLog(serverLogger),
		server.WithConfig(app.Config.Server),
		server.WithClock(app.clock),
	)
	app.syncer = syncer.New(sessions, app.trust, app.pipeline, dialer,
		syncer.WithLogger(syncLogger),
		syncer.WithClock(app.clock),
	)
	app.server = server.New(app.syncer.SynchronizeAsServer, app.syncer.Password,
		server.WithLog(serverLogger),
		server.WithConfig(app.Config.Server),
		server.WithClock(app.clock),
	)
	if err := app.server.Listen(); err != nil {
		return err
	}

	app.cron = scheduler.New(app.trust, app.syncer,
		scheduler.WithLogger(app.addLogger("scheduler", app.Config.LOGGING.SchedulerLoggerLevel)),
		scheduler.WithConfig(app.Config.Scheduler),
	)
	for _, task := range []struct {
		name string
		add  func(string, scheduler.Task) error
		fn   scheduler.Task
	}{
		{"store", app.cron.AddCleanup, app.store.Cleanup},
		{"trust", app.cron.AddCleanup, app.trust.Cleanup},
		{"trust", app.cron.AddFlush, app.trust.Flush},
	} {
		if err := task.add(task.name, task.fn); err != nil {
			return err
		}
	}
	return nil
}

// consumeShutdownMarker reports whether the previous run stopped cleanly. The marker is
// removed so that a crash of this run is detected by the next one.
func (app *App) consumeShutdownMarker() (bool, error) {
	path := filepath.Join(app.Config.DataDir, cleanShutdownFile)
	err := os.Remove(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("remove shutdown marker: %w", err)
	}
	return true, nil
}

func (app *App) writeShutdownMarker() error {
	path := filepath.Join(app.Config.DataDir, cleanShutdownFile)
	marker := strings.NewReader(app.clock.Now().UTC().String())
	if err := atomic.WriteFile(path, marker); err != nil {
		return fmt.Errorf("write shutdown marker: %w", err)
	}
	return nil
}

// becomeReady allows inbound sessions once states that may not have been validated
// before an unclean shutdown are gone.
func (app *App) becomeReady(ctx context.Context, clean bool) error {
	start := app.clock.Now()
	if err := app.store.Cleanup(ctx); err != nil {
		return fmt.Errorf("initial cleanup: %w", err)
	}
	if !clean {
		wait := app.Config.Store.MaxAge - app.clock.Since(start)
		app.log.Info("previous shutdown was not clean, delaying inbound sessions",
			zap.Duration("wait", wait),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-app.clock.After(wait):
		}
		if err := app.store.Cleanup(ctx); err != nil {
			return fmt.Errorf("cleanup after restart: %w", err)
		}
	}
	app.syncer.MarkReady()
	return nil
}

// Start runs the node until ctx is canceled. Cleanup must be called afterwards.
func (app *App) Start(ctx context.Context) error {
	clean, err := app.consumeShutdownMarker()
	if err != nil {
		return err
	}
	if app.db == nil {
		if err := app.Open(); err != nil {
			return err
		}
	}
	gateway, err := app.setupPipeline(ctx)
	if err != nil {
		return err
	}
	if err := app.setupServices(gateway); err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	if app.Config.Metrics.Enabled {
		srv, err := metrics.NewServer(app.addLogger("metrics", app.Config.LOGGING.AppLoggerLevel),
			app.Config.Metrics.Listen)
		if err != nil {
			return err
		}
		eg.Go(func() error { return srv.Run(ctx) })
	}
	eg.Go(func() error { return app.server.Run(ctx) })
	eg.Go(func() error { return app.cron.Run(ctx) })
	eg.Go(func() error { return app.becomeReady(ctx, clean) })

	app.log.Info("node started",
		zap.String("data", app.Config.DataDir),
		zap.Stringer("listen", app.server.Addr()),
		zap.Bool("clean", clean),
	)
	close(app.started)
	return eg.Wait()
}

// Started is closed once all services are running.
func (app *App) Started() <-chan struct{} {
	return app.started
}

// Addr is the address partners connect to.
func (app *App) Addr() net.Addr {
	return app.server.Addr()
}

// Syncer returns the session coordinator.
func (app *App) Syncer() *syncer.Syncer {
	return app.syncer
}

// Cleanup drains the pipeline and persists cached samples. The clean shutdown marker
// is written only if everything was persisted.
func (app *App) Cleanup(ctx context.Context) error {
	if app.pipeline != nil {
		if err := app.pipeline.CloseContext(ctx); err != nil {
			return fmt.Errorf("drain pipeline: %w", err)
		}
	}
	var errs []error
	if app.trust != nil {
		errs = append(errs, app.trust.Close())
	}
	if closer, ok := app.engine.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	if app.server == nil {
		// administrative runs don't touch the shutdown state
		return nil
	}
	return app.writeShutdownMarker()
}

// Submit fetches the addresses through the pipeline and waits until the results are stored.
// It returns the number of addresses that didn't fit into the submission queue.
func (app *App) Submit(ctx context.Context, addresses []string) (int, error) {
	if app.db == nil {
		if err := app.Open(); err != nil {
			return 0, err
		}
	}
	if _, err := app.setupPipeline(ctx); err != nil {
		return 0, err
	}
	dropped := 0
	for _, address := range addresses {
		if err := app.pipeline.SubmitAddress(address); err != nil {
			dropped++
		}
	}
	app.pipeline.Close()
	return dropped, nil
}
