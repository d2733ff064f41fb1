package partners

import (
	"fmt"
	"time"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
)

const fullQuery = `select name, accept_password, base_url, control_probability, schedule,
	provide_username, provide_password, last_connection, kicked from partners`

func decodePartner(stmt *sql.Statement) types.Partner {
	return types.Partner{
		Name:               stmt.ColumnText(0),
		AcceptPassword:     stmt.ColumnText(1),
		BaseURL:            stmt.ColumnText(2),
		ControlProbability: stmt.ColumnFloat(3),
		ConnectionSchedule: stmt.ColumnText(4),
		ProvideUsername:    stmt.ColumnText(5),
		ProvidePassword:    stmt.ColumnText(6),
		LastConnection:     sql.ColumnTime(stmt, 7),
		Kicked:             stmt.ColumnInt(8) != 0,
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Add inserts a new partner. sql.ErrObjectExists is returned if the name is taken.
func Add(db sql.Executor, partner *types.Partner) error {
	if _, err := db.Exec(`insert into partners
		(name, accept_password, base_url, control_probability, schedule,
		 provide_username, provide_password, last_connection, kicked)
		values (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9);`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, partner.Name)
			stmt.BindText(2, partner.AcceptPassword)
			stmt.BindText(3, partner.BaseURL)
			stmt.BindFloat(4, partner.ControlProbability)
			stmt.BindText(5, partner.ConnectionSchedule)
			stmt.BindText(6, partner.ProvideUsername)
			stmt.BindText(7, partner.ProvidePassword)
			sql.BindTime(stmt, 8, partner.LastConnection)
			stmt.BindInt64(9, boolToInt(partner.Kicked))
		}, nil); err != nil {
		return fmt.Errorf("insert partner %s: %w", partner.Name, err)
	}
	return nil
}

// Update overwrites the editable fields of a partner. Kicked and last connection are left as is.
func Update(db sql.Executor, partner *types.Partner) error {
	if _, err := db.Exec(`update partners set
		accept_password = ?2, base_url = ?3, control_probability = ?4, schedule = ?5,
		provide_username = ?6, provide_password = ?7
		where name = ?1;`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, partner.Name)
			stmt.BindText(2, partner.AcceptPassword)
			stmt.BindText(3, partner.BaseURL)
			stmt.BindFloat(4, partner.ControlProbability)
			stmt.BindText(5, partner.ConnectionSchedule)
			stmt.BindText(6, partner.ProvideUsername)
			stmt.BindText(7, partner.ProvidePassword)
		}, nil); err != nil {
		return fmt.Errorf("update partner %s: %w", partner.Name, err)
	}
	return nil
}

// Get returns the partner with the given name.
func Get(db sql.Executor, name string) (types.Partner, error) {
	var partner types.Partner
	rows, err := db.Exec(fullQuery+" where name = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindText(1, name)
		}, func(stmt *sql.Statement) bool {
			partner = decodePartner(stmt)
			return false
		})
	if err != nil {
		return types.Partner{}, fmt.Errorf("get partner %s: %w", name, err)
	}
	if rows == 0 {
		return types.Partner{}, fmt.Errorf("%w: partner %s", sql.ErrNotFound, name)
	}
	return partner, nil
}

// All returns every partner ordered by name.
func All(db sql.Executor) ([]types.Partner, error) {
	var rst []types.Partner
	if _, err := db.Exec(fullQuery+" order by name;", nil, func(stmt *sql.Statement) bool {
		rst = append(rst, decodePartner(stmt))
		return true
	}); err != nil {
		return nil, fmt.Errorf("select partners: %w", err)
	}
	return rst, nil
}

// SetKicked updates the kicked flag of a partner.
func SetKicked(db sql.Executor, name string, kicked bool) error {
	if _, err := db.Exec("update partners set kicked = ?2 where name = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindText(1, name)
			stmt.BindInt64(2, boolToInt(kicked))
		}, nil); err != nil {
		return fmt.Errorf("set kicked %s: %w", name, err)
	}
	return nil
}

// SetLastConnection records the time of the last connection attempt with a partner.
func SetLastConnection(db sql.Executor, name string, t time.Time) error {
	if _, err := db.Exec("update partners set last_connection = ?2 where name = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindText(1, name)
			sql.BindTime(stmt, 2, t)
		}, nil); err != nil {
		return fmt.Errorf("set last connection %s: %w", name, err)
	}
	return nil
}

// Delete removes a partner.
func Delete(db sql.Executor, name string) error {
	if _, err := db.Exec("delete from partners where name = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindText(1, name)
		}, nil); err != nil {
		return fmt.Errorf("delete partner %s: %w", name, err)
	}
	return nil
}
