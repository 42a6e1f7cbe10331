package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/example/strata/internal/adapters/sqlite"
	"github.com/example/strata/internal/fault"
)

// writeLegacyDB builds an on-disk database in the shape of an old
// installation: no soft-delete columns, bare table names in task lists.
func writeLegacyDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "legacy.db")
	legacy, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open legacy db: %v", err)
	}
	defer legacy.Close()

	schema := `
	CREATE TABLE projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		db_path TEXT NOT NULL
	);
	CREATE TABLE scenarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT UNIQUE NOT NULL,
		project_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT
	);
	CREATE TABLE task_details (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT UNIQUE NOT NULL,
		provenance_id INTEGER NOT NULL,
		parent_task_id INTEGER,
		step_order INTEGER NOT NULL,
		operation TEXT NOT NULL,
		category TEXT,
		input_tables TEXT,
		output_tables TEXT,
		duration_ms INTEGER,
		parameters TEXT,
		comments TEXT
	);
	INSERT INTO projects (uuid, name, description, db_path) VALUES ('p-1', 'old-coastal', NULL, 'projects/old.sqlite');
	INSERT INTO scenarios (uuid, project_id, name, description) VALUES ('s-1', 1, 'old-scenario', 'from v1');
	INSERT INTO task_details (uuid, provenance_id, step_order, operation, input_tables, output_tables)
		VALUES ('t-1', 1, 1, 'overlay', 'parcels', '["result__v1"]');
	`
	if _, err := legacy.Exec(schema); err != nil {
		t.Fatalf("failed to seed legacy db: %v", err)
	}
	return path
}

func TestReadLegacy(t *testing.T) {
	path := writeLegacyDB(t)

	snap, err := sqlite.NewLegacyReader().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadLegacy failed: %v", err)
	}

	if len(snap.Projects) != 1 || snap.Projects[0].Name != "old-coastal" {
		t.Errorf("projects = %+v", snap.Projects)
	}
	if snap.Projects[0].Description != "" {
		t.Errorf("NULL description should read as empty, got %q", snap.Projects[0].Description)
	}
	if len(snap.Scenarios) != 1 || snap.Scenarios[0].TargetLayer != "" {
		t.Errorf("scenarios = %+v", snap.Scenarios)
	}
	if len(snap.Tasks) != 1 {
		t.Fatalf("tasks = %+v", snap.Tasks)
	}

	// Bare table name is wrapped, JSON array is decoded.
	task := snap.Tasks[0]
	if len(task.InputTables) != 1 || task.InputTables[0] != "parcels" {
		t.Errorf("input tables = %v", task.InputTables)
	}
	if len(task.OutputTables) != 1 || task.OutputTables[0] != "result__v1" {
		t.Errorf("output tables = %v", task.OutputTables)
	}
}

func TestReadLegacy_MissingFile(t *testing.T) {
	_, err := sqlite.NewLegacyReader().Read(context.Background(), filepath.Join(t.TempDir(), "nope.db"))
	var notFound *fault.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
