package sql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testTables(db Executor) error {
	if _, err := db.Exec(`create table testing1 (
		id varchar primary key,
		field int
	)`, nil, nil); err != nil {
		return err
	}
	return nil
}

func testURI(tb testing.TB) string {
	tb.Helper()
	return "file:" + filepath.Join(tb.TempDir(), "state.sql")
}

func TestTransactionIsolation(t *testing.T) {
	db := InMemory(WithMigrations(testTables))

	tx, err := db.Tx(context.TODO())
	require.NoError(t, err)

	key := "dsada"
	_, err = tx.Exec("insert into testing1(id, field) values (?1, ?2)", func(stmt *Statement) {
		stmt.BindText(1, key)
		stmt.BindInt64(2, 20)
	}, nil)
	require.NoError(t, err)

	rows, err := tx.Exec("select 1 from testing1 where id = ?1", func(stmt *Statement) {
		stmt.BindText(1, key)
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, rows)

	require.NoError(t, tx.Release())

	rows, err = db.Exec("select 1 from testing1 where id = ?1", func(stmt *Statement) {
		stmt.BindText(1, key)
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 0, rows)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db := InMemory(WithMigrations(testTables))
	fail := errors.New("fail")
	err := db.WithTx(context.Background(), func(tx *Tx) error {
		_, err := tx.Exec("insert into testing1(id, field) values ('a', 1)", nil, nil)
		require.NoError(t, err)
		return fail
	})
	require.ErrorIs(t, err, fail)

	rows, err := db.Exec("select 1 from testing1", nil, nil)
	require.NoError(t, err)
	require.Zero(t, rows)

	require.NoError(t, db.WithTx(context.Background(), func(tx *Tx) error {
		_, err := tx.Exec("insert into testing1(id, field) values ('a', 1)", nil, nil)
		return err
	}))
	rows, err = db.Exec("select 1 from testing1", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, rows)
}

func TestObjectExists(t *testing.T) {
	db := InMemory(WithMigrations(testTables))
	insert := func() error {
		_, err := db.Exec("insert into testing1(id, field) values ('a', 1)", nil, nil)
		return err
	}
	require.NoError(t, insert())
	require.ErrorIs(t, insert(), ErrObjectExists)
}

func TestPersistentDatabase(t *testing.T) {
	uri := testURI(t)
	db, err := Open(uri)
	require.NoError(t, err)
	_, err = db.Exec("insert into ghosts(hash, retrieved) values (?1, ?2)", func(stmt *Statement) {
		stmt.BindBytes(1, make([]byte, 32))
		BindTime(stmt, 2, time.Unix(10, 5))
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	db, err = Open(uri)
	require.NoError(t, err)
	defer db.Close()
	var retrieved time.Time
	rows, err := db.Exec("select retrieved from ghosts", nil, func(stmt *Statement) bool {
		retrieved = ColumnTime(stmt, 0)
		return true
	})
	require.NoError(t, err)
	require.Equal(t, 1, rows)
	require.True(t, retrieved.Equal(time.Unix(10, 5)))
}

func TestDecoderStopsIteration(t *testing.T) {
	db := InMemory(WithMigrations(testTables))
	for i, id := range []string{"a", "b", "c"} {
		_, err := db.Exec("insert into testing1(id, field) values (?1, ?2)", func(stmt *Statement) {
			stmt.BindText(1, id)
			stmt.BindInt64(2, int64(i))
		}, nil)
		require.NoError(t, err)
	}

	var ids []string
	rows, err := db.Exec("select id from testing1 order by field", nil, func(stmt *Statement) bool {
		ids = append(ids, stmt.ColumnText(0))
		return len(ids) < 2
	})
	require.NoError(t, err)
	require.Equal(t, 2, rows)
	require.Equal(t, []string{"a", "b"}, ids)
}
