package sql

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations brings the schema of a freshly opened database up to date.
type Migrations func(Executor) error

type migration struct {
	version    int
	name       string
	statements []string
}

// loadMigrations reads migrations/NNNN_name.sql ordered by NNNN.
func loadMigrations() ([]migration, error) {
	entries, err := fs.ReadDir(embedded, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	migrations := make([]migration, 0, len(entries))
	for _, entry := range entries {
		prefix, _, _ := strings.Cut(entry.Name(), "_")
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("invalid migration name %s: %w", entry.Name(), err)
		}
		data, err := embedded.ReadFile(path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		m := migration{version: version, name: entry.Name()}
		for _, stmt := range strings.Split(string(data), ";") {
			if stmt = strings.TrimSpace(stmt); stmt != "" {
				m.statements = append(m.statements, stmt+";")
			}
		}
		migrations = append(migrations, m)
	}
	slices.SortFunc(migrations, func(a, b migration) int { return a.version - b.version })
	return migrations, nil
}

func version(db Executor) (int, error) {
	var current int
	if _, err := db.Exec("PRAGMA user_version;", nil, func(stmt *Statement) bool {
		current = stmt.ColumnInt(0)
		return true
	}); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return current, nil
}

// LatestVersion is the version of the last embedded migration.
func LatestVersion() (int, error) {
	migrations, err := loadMigrations()
	if err != nil || len(migrations) == 0 {
		return 0, err
	}
	return migrations[len(migrations)-1].version, nil
}

func embeddedMigrations(db Executor) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := version(db)
	if err != nil {
		return err
	}
	if n := len(migrations); n > 0 && current > migrations[n-1].version {
		return fmt.Errorf("%w: %d", ErrTooNew, current)
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		for _, stmt := range m.statements {
			if _, err := db.Exec(stmt, nil, nil); err != nil {
				return fmt.Errorf("exec %s: %w", m.name, err)
			}
		}
		// pragmas don't accept bound parameters
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d;", m.version), nil, nil); err != nil {
			return fmt.Errorf("set user_version %d: %w", m.version, err)
		}
	}
	return nil
}
