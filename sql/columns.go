package sql

import (
	"time"

	sqlite "github.com/go-llsqlite/crawshaw"
)

// IsNull returns true if the result column is null.
func IsNull(stmt *Statement, col int) bool {
	return stmt.ColumnType(col) == sqlite.SQLITE_NULL
}

// BindTime binds t as unix nanoseconds, or NULL for the zero time.
func BindTime(stmt *Statement, param int, t time.Time) {
	if t.IsZero() {
		stmt.BindNull(param)
		return
	}
	stmt.BindInt64(param, t.UnixNano())
}

// ColumnTime reads a time written by BindTime.
func ColumnTime(stmt *Statement, col int) time.Time {
	if IsNull(stmt, col) {
		return time.Time{}
	}
	return time.Unix(0, stmt.ColumnInt64(col))
}
