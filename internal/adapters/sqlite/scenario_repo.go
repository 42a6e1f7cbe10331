package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// ScenarioRepository implements secondary.ScenarioRepository with SQLite.
type ScenarioRepository struct {
	db *sql.DB
}

// NewScenarioRepository creates a new SQLite scenario repository.
func NewScenarioRepository(db *sql.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Create persists a new scenario.
func (r *ScenarioRepository) Create(ctx context.Context, scenario *secondary.ScenarioRecord) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO scenarios (uuid, project_id, name, description, target_layer, is_deleted) VALUES (?, ?, ?, ?, ?, 0)",
		scenario.UUID, scenario.ProjectID, scenario.Name, scenario.Description, scenario.TargetLayer,
	)
	if err != nil {
		return fmt.Errorf("failed to create scenario: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read scenario id: %w", err)
	}
	scenario.ID = id
	return nil
}

// GetByID retrieves a scenario by its ID.
func (r *ScenarioRepository) GetByID(ctx context.Context, id int64) (*secondary.ScenarioRecord, error) {
	record, err := scanScenario(r.db.QueryRowContext(ctx,
		"SELECT id, uuid, project_id, name, description, target_layer, is_deleted, created_at FROM scenarios WHERE id = ?",
		id,
	))
	if err == sql.ErrNoRows {
		return nil, &fault.NotFoundError{Kind: "scenario", Ref: fmt.Sprintf("%d", id)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	return record, nil
}

// ListForProject retrieves non-deleted scenarios of a project by name.
func (r *ScenarioRepository) ListForProject(ctx context.Context, projectID int64) ([]*secondary.ScenarioRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, uuid, project_id, name, description, target_layer, is_deleted, created_at FROM scenarios WHERE project_id = ? AND is_deleted = 0 ORDER BY name",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []*secondary.ScenarioRecord
	for rows.Next() {
		record, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, record)
	}
	return scenarios, rows.Err()
}

// NameExists checks whether a non-deleted scenario with this name exists in
// the project.
func (r *ScenarioRepository) NameExists(ctx context.Context, projectID int64, name string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM scenarios WHERE project_id = ? AND name = ? AND is_deleted = 0",
		projectID, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check scenario name: %w", err)
	}
	return count > 0, nil
}

// SoftDelete flags a scenario as deleted.
func (r *ScenarioRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE scenarios SET is_deleted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to soft delete scenario: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check soft delete: %w", err)
	}
	if affected == 0 {
		return &fault.NotFoundError{Kind: "scenario", Ref: fmt.Sprintf("%d", id)}
	}
	return nil
}

// Purge permanently removes the scenario row (children cascade).
func (r *ScenarioRepository) Purge(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to purge scenario: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check purge: %w", err)
	}
	if affected == 0 {
		return &fault.NotFoundError{Kind: "scenario", Ref: fmt.Sprintf("%d", id)}
	}
	return nil
}

// AddLayer records a layer ref for a scenario.
func (r *ScenarioRepository) AddLayer(ctx context.Context, layer *secondary.LayerRecord) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO scenario_layers (scenario_id, layer_name, layer_type, geometry_type, table_name) VALUES (?, ?, ?, ?, ?)",
		layer.ScenarioID, layer.LayerName, layer.LayerType, layer.GeometryType, layer.TableName,
	)
	if err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read layer id: %w", err)
	}
	layer.ID = id
	return nil
}

// GetLayers retrieves layer refs, optionally filtered by type.
func (r *ScenarioRepository) GetLayers(ctx context.Context, scenarioID int64, layerType string) ([]*secondary.LayerRecord, error) {
	query := "SELECT id, scenario_id, layer_name, layer_type, geometry_type, table_name FROM scenario_layers WHERE scenario_id = ?"
	args := []any{scenarioID}
	if layerType != "" {
		query += " AND layer_type = ?"
		args = append(args, layerType)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list layers: %w", err)
	}
	defer rows.Close()

	var layers []*secondary.LayerRecord
	for rows.Next() {
		record := &secondary.LayerRecord{}
		err := rows.Scan(&record.ID, &record.ScenarioID, &record.LayerName,
			&record.LayerType, &record.GeometryType, &record.TableName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan layer: %w", err)
		}
		layers = append(layers, record)
	}
	return layers, rows.Err()
}

// SetLayerTable records the materialized table name for a layer ref.
func (r *ScenarioRepository) SetLayerTable(ctx context.Context, scenarioID int64, layerName, tableName string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE scenario_layers SET table_name = ? WHERE scenario_id = ? AND layer_name = ?",
		tableName, scenarioID, layerName,
	)
	if err != nil {
		return fmt.Errorf("failed to set layer table: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check layer update: %w", err)
	}
	if affected == 0 {
		return &fault.NotFoundError{Kind: "layer", Ref: layerName}
	}
	return nil
}

func scanScenario(row rowScanner) (*secondary.ScenarioRecord, error) {
	var (
		record    secondary.ScenarioRecord
		isDeleted int
		createdAt time.Time
	)
	err := row.Scan(&record.ID, &record.UUID, &record.ProjectID, &record.Name,
		&record.Description, &record.TargetLayer, &isDeleted, &createdAt)
	if err != nil {
		return nil, err
	}
	record.IsDeleted = isDeleted != 0
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return &record, nil
}
