// Package sql is a thin layer over a pool of sqlite connections. Tables live in
// subpackages that expose free functions over an Executor, so the same helpers run
// inside and outside of transactions.
package sql

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	sqlite "github.com/go-llsqlite/crawshaw"
	"github.com/go-llsqlite/crawshaw/sqlitex"
	"go.uber.org/zap"
)

var (
	// ErrNoConnection is returned when the pool is closed or the context expired
	// while waiting for a connection.
	ErrNoConnection = errors.New("database: no free connection")
	// ErrNotFound is returned by table helpers when the row doesn't exist.
	ErrNotFound = errors.New("database: not found")
	// ErrObjectExists is returned on primary key or unique constraint violations.
	ErrObjectExists = errors.New("database: object exists")
	// ErrTooNew is returned when the schema is newer than the embedded migrations.
	ErrTooNew = errors.New("database version is too new")
)

// Executor runs a single statement. Both *Database and *Tx implement it.
type Executor interface {
	Exec(query string, enc Encoder, dec Decoder) (int, error)
}

// Statement is a prepared sqlite statement.
type Statement = sqlite.Stmt

// Encoder binds parameters, positional (?1) or named (@address).
type Encoder func(*Statement)

// Decoder is called for every row. Returning false stops the iteration.
type Decoder func(*Statement) bool

// Opt for configuring database.
type Opt func(c *conf)

type conf struct {
	connections int
	inMemory    bool
	logger      *zap.Logger
	migrations  Migrations
}

// WithLogger specifies logger for the database.
func WithLogger(logger *zap.Logger) Opt {
	return func(c *conf) {
		c.logger = logger
	}
}

// WithMigrations replaces the embedded schema. A nil value leaves the schema untouched.
func WithMigrations(migrations Migrations) Opt {
	return func(c *conf) {
		c.migrations = migrations
	}
}

// InMemory opens a single connection in-memory database and panics on failure.
// Intended for tests.
func InMemory(opts ...Opt) *Database {
	opts = append(opts, func(c *conf) {
		c.connections = 1
		c.inMemory = true
	})
	db, err := Open("file::memory:?mode=memory", opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// Open opens the database at uri in WAL mode and brings the schema up to date.
func Open(uri string, opts ...Opt) (*Database, error) {
	cfg := conf{
		connections: 8,
		logger:      zap.NewNop(),
		migrations:  embeddedMigrations,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	var flags sqlite.OpenFlags
	if !cfg.inMemory {
		flags = sqlite.SQLITE_OPEN_READWRITE |
			sqlite.SQLITE_OPEN_CREATE |
			sqlite.SQLITE_OPEN_WAL |
			sqlite.SQLITE_OPEN_URI |
			sqlite.SQLITE_OPEN_NOMUTEX
	}
	pool, err := sqlitex.Open(uri, flags, cfg.connections)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", uri, err)
	}
	db := &Database{pool: pool}
	if cfg.migrations == nil {
		return db, nil
	}
	if err := db.migrate(cfg.logger.With(zap.String("uri", uri)), cfg.migrations); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate %s: %w", uri, err), db.Close())
	}
	return db, nil
}

// Database is a pool of connections to one sqlite file.
type Database struct {
	pool *sqlitex.Pool

	closeMu sync.Mutex
	closed  bool
}

func (db *Database) migrate(logger *zap.Logger, migrations Migrations) error {
	before, err := version(db)
	if err != nil {
		return err
	}
	if err := migrations(db); err != nil {
		return err
	}
	after, err := version(db)
	if err != nil {
		return err
	}
	if before != after {
		logger.Info("database migrated", zap.Int("from", before), zap.Int("to", after))
	}
	return nil
}

func (db *Database) conn(ctx context.Context) (*sqlite.Conn, error) {
	start := time.Now()
	conn := db.pool.Get(ctx)
	if conn == nil {
		return nil, ErrNoConnection
	}
	connWaitLatency.Observe(time.Since(start).Seconds())
	return conn, nil
}

// Exec runs query on a pooled connection. It blocks until a connection is free.
// Use WithTx when several statements must apply atomically.
func (db *Database) Exec(query string, enc Encoder, dec Decoder) (int, error) {
	conn, err := db.conn(context.Background())
	if err != nil {
		return 0, err
	}
	defer db.pool.Put(conn)
	return exec(conn, query, enc, dec)
}

// Close closes all pooled connections. Closing twice is a no-op.
func (db *Database) Close() error {
	db.closeMu.Lock()
	defer db.closeMu.Unlock()
	if db.closed {
		return nil
	}
	if err := db.pool.Close(); err != nil {
		return fmt.Errorf("close pool: %w", err)
	}
	db.closed = true
	return nil
}

func exec(conn *sqlite.Conn, query string, enc Encoder, dec Decoder) (int, error) {
	stmt, err := conn.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("prepare %s: %w", query, err)
	}
	if enc != nil {
		enc(stmt)
	}
	defer stmt.ClearBindings()

	for rows := 0; ; rows++ {
		row, err := stmt.Step()
		switch {
		case err != nil:
			switch sqlite.ErrCode(err) {
			case sqlite.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite.SQLITE_CONSTRAINT_UNIQUE:
				return 0, ErrObjectExists
			}
			return 0, fmt.Errorf("step %d: %w", rows, err)
		case !row:
			return rows, nil
		case dec != nil && !dec(stmt):
			if err := stmt.Reset(); err != nil {
				return rows + 1, fmt.Errorf("statement reset: %w", err)
			}
			return rows + 1, nil
		}
	}
}
