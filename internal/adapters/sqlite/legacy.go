package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// LegacyReader implements secondary.LegacySource over legacy SQLite files.
type LegacyReader struct{}

// NewLegacyReader creates a reader for legacy metadata databases.
func NewLegacyReader() *LegacyReader {
	return &LegacyReader{}
}

// Read opens a legacy metadata database read-only and extracts its projects,
// scenarios, provenance, and tasks. Legacy files predate the soft-delete
// columns, so the reader probes for them instead of assuming the modern
// schema.
func (l *LegacyReader) Read(ctx context.Context, path string) (*secondary.LegacySnapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &fault.NotFoundError{Kind: "legacy database", Ref: path}
	}

	legacy, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy database: %w", err)
	}
	defer legacy.Close()

	snap := &secondary.LegacySnapshot{}

	snap.Projects, err = readLegacyProjects(ctx, legacy)
	if err != nil {
		return nil, err
	}
	snap.Scenarios, err = readLegacyScenarios(ctx, legacy)
	if err != nil {
		return nil, err
	}
	snap.Provenance, err = readLegacyProvenance(ctx, legacy)
	if err != nil {
		return nil, err
	}
	snap.Tasks, err = readLegacyTasks(ctx, legacy)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func readLegacyProjects(ctx context.Context, legacy *sql.DB) ([]*secondary.ProjectRecord, error) {
	hasDeleted, err := columnExistsIn(legacy, "projects", "is_deleted")
	if err != nil {
		return nil, err
	}

	query := "SELECT id, uuid, name, COALESCE(description, ''), db_path FROM projects"
	if hasDeleted {
		query += " WHERE is_deleted = 0"
	}

	rows, err := legacy.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy projects: %w", err)
	}
	defer rows.Close()

	var projects []*secondary.ProjectRecord
	for rows.Next() {
		record := &secondary.ProjectRecord{}
		if err := rows.Scan(&record.ID, &record.UUID, &record.Name, &record.Description, &record.DBPath); err != nil {
			return nil, fmt.Errorf("failed to scan legacy project: %w", err)
		}
		projects = append(projects, record)
	}
	return projects, rows.Err()
}

func readLegacyScenarios(ctx context.Context, legacy *sql.DB) ([]*secondary.ScenarioRecord, error) {
	hasDeleted, err := columnExistsIn(legacy, "scenarios", "is_deleted")
	if err != nil {
		return nil, err
	}
	hasTarget, err := columnExistsIn(legacy, "scenarios", "target_layer")
	if err != nil {
		return nil, err
	}

	target := "''"
	if hasTarget {
		target = "COALESCE(target_layer, '')"
	}
	query := fmt.Sprintf("SELECT id, uuid, project_id, name, COALESCE(description, ''), %s FROM scenarios", target)
	if hasDeleted {
		query += " WHERE is_deleted = 0"
	}

	rows, err := legacy.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []*secondary.ScenarioRecord
	for rows.Next() {
		record := &secondary.ScenarioRecord{}
		if err := rows.Scan(&record.ID, &record.UUID, &record.ProjectID, &record.Name, &record.Description, &record.TargetLayer); err != nil {
			return nil, fmt.Errorf("failed to scan legacy scenario: %w", err)
		}
		scenarios = append(scenarios, record)
	}
	return scenarios, rows.Err()
}

func readLegacyProvenance(ctx context.Context, legacy *sql.DB) ([]*secondary.ProvenanceRecord, error) {
	exists, err := tableExistsIn(legacy, "provenance")
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := legacy.QueryContext(ctx,
		"SELECT id, uuid, scenario_id, name, COALESCE(description, '') FROM provenance ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy provenance: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ProvenanceRecord
	for rows.Next() {
		record := &secondary.ProvenanceRecord{}
		if err := rows.Scan(&record.ID, &record.UUID, &record.ScenarioID, &record.Name, &record.Description); err != nil {
			return nil, fmt.Errorf("failed to scan legacy provenance: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func readLegacyTasks(ctx context.Context, legacy *sql.DB) ([]*secondary.TaskRecord, error) {
	exists, err := tableExistsIn(legacy, "task_details")
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := legacy.QueryContext(ctx, `
		SELECT id, uuid, provenance_id, parent_task_id, step_order, operation,
			COALESCE(category, ''), COALESCE(input_tables, ''), COALESCE(output_tables, ''),
			COALESCE(duration_ms, 0), COALESCE(parameters, ''), COALESCE(comments, '')
		FROM task_details ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		var (
			record     secondary.TaskRecord
			parent     sql.NullInt64
			inputJSON  string
			outputJSON string
		)
		err := rows.Scan(&record.ID, &record.UUID, &record.ProvenanceID, &parent,
			&record.StepOrder, &record.Operation, &record.Category,
			&inputJSON, &outputJSON, &record.DurationMS, &record.Parameters, &record.Comments)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legacy task: %w", err)
		}
		record.ParentTaskID = parent.Int64
		record.InputTables, err = tableListFromJSON(inputJSON)
		if err != nil {
			// Legacy rows sometimes hold a bare table name instead of JSON.
			record.InputTables = []string{inputJSON}
		}
		record.OutputTables, err = tableListFromJSON(outputJSON)
		if err != nil {
			record.OutputTables = []string{outputJSON}
		}
		tasks = append(tasks, &record)
	}
	return tasks, rows.Err()
}

func columnExistsIn(database *sql.DB, table, column string) (bool, error) {
	rows, err := database.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
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

func tableExistsIn(database *sql.DB, table string) (bool, error) {
	var count int
	err := database.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}
