package db

import (
	"database/sql"
	"fmt"
)

// ColumnMigration is one additive schema change: add a column with a default
// to an existing table. Applications are idempotent - a column that already
// exists is skipped by a "column exists?" guard rather than by swallowing the
// ALTER error.
type ColumnMigration struct {
	Table      string
	Column     string
	Definition string
}

// columnMigrations lists every additive change applied to databases created
// by older releases. The authoritative SchemaSQL already contains all of
// these; the list only matters for pre-existing files.
var columnMigrations = []ColumnMigration{
	{"projects", "is_deleted", "INTEGER DEFAULT 0"},
	{"scenarios", "is_deleted", "INTEGER DEFAULT 0"},
	{"scenario_layers", "table_name", "TEXT DEFAULT ''"},
	{"task_details", "engine_type", "TEXT DEFAULT 'spatialite'"},
	{"task_details", "is_scenario", "INTEGER DEFAULT 0"},
}

// RunMigrations applies all pending additive migrations to the given
// database. Safe to call on both fresh and previously-existing databases.
func RunMigrations(database *sql.DB) error {
	for _, m := range columnMigrations {
		if err := ensureColumn(database, m); err != nil {
			return fmt.Errorf("migration %s.%s failed: %w", m.Table, m.Column, err)
		}
	}
	return nil
}

// ensureColumn adds the column unless it already exists.
func ensureColumn(database *sql.DB, m ColumnMigration) error {
	exists, err := columnExists(database, m.Table, m.Column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = database.Exec(
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Definition),
	)
	return err
}

// columnExists checks table_info for the column name.
func columnExists(database *sql.DB, table, column string) (bool, error) {
	rows, err := database.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
