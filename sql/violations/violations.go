package violations

import (
	"fmt"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
)

// Add records a violation.
func Add(db sql.Executor, violation *types.Violation) error {
	if _, err := db.Exec(`insert into violations (partner, description, timestamp) values (?1, ?2, ?3);`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, violation.Partner)
			stmt.BindText(2, violation.Description)
			stmt.BindInt64(3, violation.Timestamp.UnixNano())
		}, nil); err != nil {
		return fmt.Errorf("insert violation %s: %w", violation.Partner, err)
	}
	return nil
}

// List returns violations of a partner, oldest first.
func List(db sql.Executor, partner string) ([]types.Violation, error) {
	var rst []types.Violation
	if _, err := db.Exec(`select description, timestamp from violations
		where partner = ?1 order by timestamp, id;`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, partner)
		}, func(stmt *sql.Statement) bool {
			rst = append(rst, types.Violation{
				Partner:     partner,
				Description: stmt.ColumnText(0),
				Timestamp:   sql.ColumnTime(stmt, 1),
			})
			return true
		}); err != nil {
		return nil, fmt.Errorf("select violations %s: %w", partner, err)
	}
	return rst, nil
}
