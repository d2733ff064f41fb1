package ghosts

import (
	"fmt"
	"time"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
)

// Add records a ghost. A ghost for the same hash is replaced.
func Add(db sql.Executor, ghost types.Ghost) error {
	if _, err := db.Exec(`insert into ghosts (hash, retrieved) values (?1, ?2)
		on conflict(hash) do update set retrieved = max(retrieved, ?2);`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, ghost.Hash[:])
			sql.BindTime(stmt, 2, ghost.RetrievalTimestamp)
		}, nil); err != nil {
		return fmt.Errorf("insert ghost %s: %w", ghost.Hash.ShortString(), err)
	}
	return nil
}

// Get returns the ghost recorded for the hash.
func Get(db sql.Executor, hash types.Hash32) (types.Ghost, error) {
	ghost := types.Ghost{Hash: hash}
	rows, err := db.Exec("select retrieved from ghosts where hash = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, hash[:])
		}, func(stmt *sql.Statement) bool {
			ghost.RetrievalTimestamp = sql.ColumnTime(stmt, 0)
			return false
		})
	if err != nil {
		return types.Ghost{}, fmt.Errorf("get ghost %s: %w", hash.ShortString(), err)
	}
	if rows == 0 {
		return types.Ghost{}, fmt.Errorf("%w: ghost %s", sql.ErrNotFound, hash.ShortString())
	}
	return ghost, nil
}

// Delete removes the ghost for the hash, if any.
func Delete(db sql.Executor, hash types.Hash32) error {
	if _, err := db.Exec("delete from ghosts where hash = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, hash[:])
		}, nil); err != nil {
		return fmt.Errorf("delete ghost %s: %w", hash.ShortString(), err)
	}
	return nil
}

// DeleteRetrievedBefore removes ghosts whose retrieval timestamp is older than t.
func DeleteRetrievedBefore(db sql.Executor, t time.Time) error {
	if _, err := db.Exec("delete from ghosts where retrieved < ?1;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, t.UnixNano())
		}, nil); err != nil {
		return fmt.Errorf("delete ghosts retrieved before %v: %w", t, err)
	}
	return nil
}

// Count returns the number of ghosts.
func Count(db sql.Executor) (int, error) {
	var count int
	if _, err := db.Exec("select count(*) from ghosts;", nil, func(stmt *sql.Statement) bool {
		count = stmt.ColumnInt(0)
		return false
	}); err != nil {
		return 0, fmt.Errorf("count ghosts: %w", err)
	}
	return count, nil
}
