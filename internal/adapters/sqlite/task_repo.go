package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite. Input and
// output table lists are stored as JSON arrays in TEXT columns.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = "id, uuid, provenance_id, parent_task_id, step_order, operation, category, input_tables, output_tables, added_to_map, duration_ms, parameters, comments, engine_type, is_scenario, created_at"

// Create persists a new task. StepOrder 0 means "append": the next order
// within the parent scope is assigned.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	if task.StepOrder == 0 {
		next, err := r.nextStepOrder(ctx, task.ProvenanceID, task.ParentTaskID)
		if err != nil {
			return err
		}
		task.StepOrder = next
	}

	inputJSON, err := tableListJSON(task.InputTables)
	if err != nil {
		return fmt.Errorf("failed to encode input tables: %w", err)
	}
	outputJSON, err := tableListJSON(task.OutputTables)
	if err != nil {
		return fmt.Errorf("failed to encode output tables: %w", err)
	}

	var parent any
	if task.ParentTaskID != 0 {
		parent = task.ParentTaskID
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO task_details (uuid, provenance_id, parent_task_id, step_order, operation, category,
			input_tables, output_tables, added_to_map, duration_ms, parameters, comments, engine_type, is_scenario)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.UUID, task.ProvenanceID, parent, task.StepOrder, task.Operation, task.Category,
		inputJSON, outputJSON, boolInt(task.AddedToMap), task.DurationMS,
		task.Parameters, task.Comments, task.EngineType, boolInt(task.IsScenario),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read task id: %w", err)
	}
	task.ID = id
	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*secondary.TaskRecord, error) {
	record, err := scanTask(r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM task_details WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, &fault.NotFoundError{Kind: "task", Ref: fmt.Sprintf("%d", id)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return record, nil
}

// ListForProvenance retrieves all tasks of a provenance ordered by step_order.
func (r *TaskRepository) ListForProvenance(ctx context.Context, provenanceID int64) ([]*secondary.TaskRecord, error) {
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM task_details WHERE provenance_id = ? ORDER BY step_order, id",
		provenanceID,
	)
}

// ListChildren retrieves direct children of a task ordered by step_order.
func (r *TaskRepository) ListChildren(ctx context.Context, parentTaskID int64) ([]*secondary.TaskRecord, error) {
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM task_details WHERE parent_task_id = ? ORDER BY step_order, id",
		parentTaskID,
	)
}

// UpdateDuration backfills the duration of a task.
func (r *TaskRepository) UpdateDuration(ctx context.Context, id int64, durationMS int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE task_details SET duration_ms = ? WHERE id = ?", durationMS, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update duration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check duration update: %w", err)
	}
	if affected == 0 {
		return &fault.NotFoundError{Kind: "task", Ref: fmt.Sprintf("%d", id)}
	}
	return nil
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...any) ([]*secondary.TaskRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}
	return tasks, rows.Err()
}

// nextStepOrder computes the next step within one parent scope. Root tasks
// (parent NULL) and each parent's children are numbered independently.
func (r *TaskRepository) nextStepOrder(ctx context.Context, provenanceID, parentTaskID int64) (int, error) {
	query := "SELECT COALESCE(MAX(step_order), 0) FROM task_details WHERE provenance_id = ? AND parent_task_id IS NULL"
	args := []any{provenanceID}
	if parentTaskID != 0 {
		query = "SELECT COALESCE(MAX(step_order), 0) FROM task_details WHERE provenance_id = ? AND parent_task_id = ?"
		args = append(args, parentTaskID)
	}

	var max int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to compute step order: %w", err)
	}
	return max + 1, nil
}

func scanTask(row rowScanner) (*secondary.TaskRecord, error) {
	var (
		record     secondary.TaskRecord
		parent     sql.NullInt64
		inputJSON  string
		outputJSON string
		addedToMap int
		isScenario int
		createdAt  time.Time
	)
	err := row.Scan(&record.ID, &record.UUID, &record.ProvenanceID, &parent,
		&record.StepOrder, &record.Operation, &record.Category,
		&inputJSON, &outputJSON, &addedToMap, &record.DurationMS,
		&record.Parameters, &record.Comments, &record.EngineType, &isScenario, &createdAt)
	if err != nil {
		return nil, err
	}

	record.ParentTaskID = parent.Int64
	record.AddedToMap = addedToMap != 0
	record.IsScenario = isScenario != 0
	record.CreatedAt = createdAt.Format(time.RFC3339)

	record.InputTables, err = tableListFromJSON(inputJSON)
	if err != nil {
		return nil, fmt.Errorf("bad input_tables for task %d: %w", record.ID, err)
	}
	record.OutputTables, err = tableListFromJSON(outputJSON)
	if err != nil {
		return nil, fmt.Errorf("bad output_tables for task %d: %w", record.ID, err)
	}
	return &record, nil
}

func tableListJSON(tables []string) (string, error) {
	if len(tables) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(tables)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func tableListFromJSON(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var tables []string
	if err := json.Unmarshal([]byte(raw), &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
