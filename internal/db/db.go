package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

var dbInitialized bool

// GetDB returns the metadata database connection, initializing if needed.
// The database lives at ~/.strata/strata.db and holds the process-wide
// registry: projects, scenarios, layer refs, provenance, tasks, settings.
func GetDB() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	strataDir := filepath.Join(home, ".strata")
	dbPath := filepath.Join(strataDir, "strata.db")

	// Ensure .strata directory exists
	if err := os.MkdirAll(strataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .strata directory: %w", err)
	}

	// Open database connection
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations on first connection (but avoid recursion)
	if !dbInitialized {
		dbInitialized = true
		if err := InitSchema(); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return db, nil
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// GetDBPath returns the path to the metadata database file
func GetDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".strata", "strata.db"), nil
}

// ProjectsDir returns the directory holding per-project spatial store files.
func ProjectsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".strata", "projects"), nil
}

// InitSchema applies the authoritative schema and all pending migrations.
func InitSchema() error {
	database, err := GetDB()
	if err != nil {
		return err
	}
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := RunMigrations(database); err != nil {
		return err
	}
	return nil
}
