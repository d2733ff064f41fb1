package states

import (
	"fmt"
	"strings"
	"time"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
)

const fullQuery = `select address, retrieved, full_name, hometown, country, services, signature, submitted
	from states`

func decodeState(stmt *sql.Statement) types.State {
	profile := &types.Profile{
		FullName:            stmt.ColumnText(2),
		Hometown:            stmt.ColumnText(3),
		CountryCode:         stmt.ColumnText(4),
		SubmissionTimestamp: sql.ColumnTime(stmt, 7),
	}
	if services := stmt.ColumnText(5); services != "" {
		profile.Services = strings.Split(services, ",")
	}
	if n := stmt.ColumnLen(6); n > 0 {
		profile.Signature = make([]byte, n)
		stmt.ColumnBytes(6, profile.Signature)
	}
	return types.State{
		Address:            stmt.ColumnText(0),
		RetrievalTimestamp: sql.ColumnTime(stmt, 1),
		Profile:            profile,
	}
}

// Add inserts a state with a profile. States without a profile are never stored.
func Add(db sql.Executor, state *types.State) error {
	if state.Profile == nil {
		return fmt.Errorf("add state %s: no profile", state.Address)
	}
	hash := state.Hash()
	if _, err := db.Exec(`insert into states
		(address, hash, retrieved, full_name, hometown, country, services, signature, submitted)
		values (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9);`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, state.Address)
			stmt.BindBytes(2, hash[:])
			sql.BindTime(stmt, 3, state.RetrievalTimestamp)
			stmt.BindText(4, state.Profile.FullName)
			stmt.BindText(5, state.Profile.Hometown)
			stmt.BindText(6, state.Profile.CountryCode)
			stmt.BindText(7, state.Profile.ServicesString())
			stmt.BindBytes(8, state.Profile.Signature)
			stmt.BindInt64(9, state.Profile.SubmissionTimestamp.UnixNano())
		}, nil); err != nil {
		return fmt.Errorf("insert state %s: %w", state.Address, err)
	}
	return nil
}

// Get returns the state stored for the address.
func Get(db sql.Executor, address string) (types.State, error) {
	var state types.State
	rows, err := db.Exec(fullQuery+" where address = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindText(1, address)
		}, func(stmt *sql.Statement) bool {
			state = decodeState(stmt)
			return false
		})
	if err != nil {
		return types.State{}, fmt.Errorf("get state %s: %w", address, err)
	}
	if rows == 0 {
		return types.State{}, fmt.Errorf("%w: state %s", sql.ErrNotFound, address)
	}
	return state, nil
}

// GetByHash returns the state with the given content hash.
func GetByHash(db sql.Executor, hash types.Hash32) (types.State, error) {
	var state types.State
	rows, err := db.Exec(fullQuery+" where hash = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, hash[:])
		}, func(stmt *sql.Statement) bool {
			state = decodeState(stmt)
			return false
		})
	if err != nil {
		return types.State{}, fmt.Errorf("get state by hash %s: %w", hash.ShortString(), err)
	}
	if rows == 0 {
		return types.State{}, fmt.Errorf("%w: state with hash %s", sql.ErrNotFound, hash.ShortString())
	}
	return state, nil
}

// Delete removes the state stored for the address.
func Delete(db sql.Executor, address string) error {
	if _, err := db.Exec("delete from states where address = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindText(1, address)
		}, nil); err != nil {
		return fmt.Errorf("delete state %s: %w", address, err)
	}
	return nil
}

// IterateHashes calls fn for the hash of every stored state until fn returns false.
func IterateHashes(db sql.Executor, fn func(types.Hash32) bool) error {
	_, err := db.Exec("select hash from states;", nil, func(stmt *sql.Statement) bool {
		var hash types.Hash32
		stmt.ColumnBytes(0, hash[:])
		return fn(hash)
	})
	if err != nil {
		return fmt.Errorf("iterate state hashes: %w", err)
	}
	return nil
}

// SubmittedBefore returns addresses and hashes of states whose profile was submitted before t.
func SubmittedBefore(db sql.Executor, t time.Time) (map[string]types.Hash32, error) {
	rst := map[string]types.Hash32{}
	_, err := db.Exec("select address, hash from states where submitted < ?1;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, t.UnixNano())
		}, func(stmt *sql.Statement) bool {
			var hash types.Hash32
			stmt.ColumnBytes(1, hash[:])
			rst[stmt.ColumnText(0)] = hash
			return true
		})
	if err != nil {
		return nil, fmt.Errorf("select states submitted before %v: %w", t, err)
	}
	return rst, nil
}

// DeleteSubmittedBefore removes states whose profile was submitted before t.
func DeleteSubmittedBefore(db sql.Executor, t time.Time) error {
	if _, err := db.Exec("delete from states where submitted < ?1;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, t.UnixNano())
		}, nil); err != nil {
		return fmt.Errorf("delete states submitted before %v: %w", t, err)
	}
	return nil
}

// Count returns the number of stored states.
func Count(db sql.Executor) (int, error) {
	var count int
	if _, err := db.Exec("select count(*) from states;", nil, func(stmt *sql.Statement) bool {
		count = stmt.ColumnInt(0)
		return false
	}); err != nil {
		return 0, fmt.Errorf("count states: %w", err)
	}
	return count, nil
}

// SetRetrieved updates the retrieval timestamp of the state stored for the address.
func SetRetrieved(db sql.Executor, address string, t time.Time) error {
	if _, err := db.Exec("update states set retrieved = ?2 where address = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindText(1, address)
			sql.BindTime(stmt, 2, t)
		}, nil); err != nil {
		return fmt.Errorf("set retrieved %s: %w", address, err)
	}
	return nil
}
