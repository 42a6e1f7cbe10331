// Package sqlite_test contains integration tests for the SQLite metadata
// repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema instead of drifting copies.
//
// DO NOT hardcode CREATE TABLE statements in test files; use setupTestDB()
// and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/strata/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedProject inserts a test project and returns its ID.
func seedProject(t *testing.T, database *sql.DB, uuid, name string) int64 {
	t.Helper()
	if uuid == "" {
		uuid = "proj-uuid-1"
	}
	if name == "" {
		name = "coastal"
	}
	res, err := database.Exec(
		"INSERT INTO projects (uuid, name, db_path) VALUES (?, ?, ?)",
		uuid, name, "projects/"+name+".sqlite",
	)
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded project id: %v", err)
	}
	return id
}

// seedScenario inserts a test scenario and returns its ID.
func seedScenario(t *testing.T, database *sql.DB, projectID int64, uuid, name string) int64 {
	t.Helper()
	if uuid == "" {
		uuid = "scen-uuid-1"
	}
	if name == "" {
		name = "flood-assessment"
	}
	res, err := database.Exec(
		"INSERT INTO scenarios (uuid, project_id, name) VALUES (?, ?, ?)",
		uuid, projectID, name,
	)
	if err != nil {
		t.Fatalf("failed to seed scenario: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded scenario id: %v", err)
	}
	return id
}

// seedProvenance inserts a test provenance record and returns its ID.
func seedProvenance(t *testing.T, database *sql.DB, scenarioID int64, uuid, name string) int64 {
	t.Helper()
	if uuid == "" {
		uuid = "prov-uuid-1"
	}
	if name == "" {
		name = "run-1"
	}
	res, err := database.Exec(
		"INSERT INTO provenance (uuid, scenario_id, name) VALUES (?, ?, ?)",
		uuid, scenarioID, name,
	)
	if err != nil {
		t.Fatalf("failed to seed provenance: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded provenance id: %v", err)
	}
	return id
}
