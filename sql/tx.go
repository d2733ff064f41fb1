package sql

import (
	"context"
	"fmt"

	sqlite "github.com/go-llsqlite/crawshaw"
)

// Tx holds a pooled connection for the duration of a transaction.
// Every Tx must be released.
type Tx struct {
	db        *Database
	conn      *sqlite.Conn
	committed bool
}

func (db *Database) begin(ctx context.Context, stmt string) (*Tx, error) {
	conn, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Prep(stmt).Step(); err != nil {
		db.pool.Put(conn)
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &Tx{db: db, conn: conn}, nil
}

// Tx starts a deferred transaction. It takes the write lock only on the first write.
func (db *Database) Tx(ctx context.Context) (*Tx, error) {
	return db.begin(ctx, "BEGIN;")
}

// WithTx runs exec in an immediate transaction and commits if exec returns nil.
func (db *Database) WithTx(ctx context.Context, exec func(*Tx) error) error {
	tx, err := db.begin(ctx, "BEGIN IMMEDIATE;")
	if err != nil {
		return err
	}
	defer tx.Release()
	if err := exec(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Exec runs query within the transaction.
func (tx *Tx) Exec(query string, enc Encoder, dec Decoder) (int, error) {
	return exec(tx.conn, query, enc, dec)
}

func (tx *Tx) Commit() error {
	if _, err := tx.conn.Prep("COMMIT;").Step(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	tx.committed = true
	return nil
}

// Release rolls back an uncommitted transaction and returns the connection to the pool.
func (tx *Tx) Release() error {
	defer tx.db.pool.Put(tx.conn)
	if tx.committed {
		return nil
	}
	if _, err := tx.conn.Prep("ROLLBACK;").Step(); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
