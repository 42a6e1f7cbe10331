package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// VisibilityRepository implements secondary.VisibilityRepository with SQLite.
type VisibilityRepository struct {
	db *sql.DB
}

// NewVisibilityRepository creates a new SQLite visibility repository.
func NewVisibilityRepository(db *sql.DB) *VisibilityRepository {
	return &VisibilityRepository{db: db}
}

// Set upserts the visibility flag for one (scenario, layer) pair.
func (r *VisibilityRepository) Set(ctx context.Context, scenarioID int64, layerName string, visible bool) error {
	v := 0
	if visible {
		v = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO layer_visibility_state (scenario_id, layer_name, visible)
		VALUES (?, ?, ?)
		ON CONFLICT(scenario_id, layer_name) DO UPDATE SET visible = excluded.visible`,
		scenarioID, layerName, v,
	)
	if err != nil {
		return fmt.Errorf("failed to set visibility: %w", err)
	}
	return nil
}

// Get returns the visibility map for a scenario.
func (r *VisibilityRepository) Get(ctx context.Context, scenarioID int64) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT layer_name, visible FROM layer_visibility_state WHERE scenario_id = ?",
		scenarioID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get visibility: %w", err)
	}
	defer rows.Close()

	state := make(map[string]bool)
	for rows.Next() {
		var (
			name    string
			visible int
		)
		if err := rows.Scan(&name, &visible); err != nil {
			return nil, fmt.Errorf("failed to scan visibility: %w", err)
		}
		state[name] = visible != 0
	}
	return state, rows.Err()
}

// Visible returns the names of visible layers for a scenario.
func (r *VisibilityRepository) Visible(ctx context.Context, scenarioID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT layer_name FROM layer_visibility_state WHERE scenario_id = ? AND visible = 1 ORDER BY layer_name",
		scenarioID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list visible layers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan layer name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
