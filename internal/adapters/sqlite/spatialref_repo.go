package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/strata/internal/ports/secondary"
)

// SpatialRefRepository implements secondary.SpatialRefRepository with SQLite.
type SpatialRefRepository struct {
	db *sql.DB
}

// NewSpatialRefRepository creates a new SQLite spatial reference repository.
func NewSpatialRefRepository(db *sql.DB) *SpatialRefRepository {
	return &SpatialRefRepository{db: db}
}

// Create persists a spatial reference record.
func (r *SpatialRefRepository) Create(ctx context.Context, ref *secondary.SpatialRefRecord) error {
	sourceJSON, err := tableListJSON(ref.SourceTables)
	if err != nil {
		return fmt.Errorf("failed to encode source tables: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO spatial_references (uuid, scenario_id, name, overlay_layer_name, source_tables, srid) VALUES (?, ?, ?, ?, ?, ?)",
		ref.UUID, ref.ScenarioID, ref.Name, ref.OverlayLayerName, sourceJSON, ref.SRID,
	)
	if err != nil {
		return fmt.Errorf("failed to create spatial reference: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read spatial reference id: %w", err)
	}
	ref.ID = id
	return nil
}

// ListForScenario retrieves spatial references for a scenario.
func (r *SpatialRefRepository) ListForScenario(ctx context.Context, scenarioID int64) ([]*secondary.SpatialRefRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, uuid, scenario_id, name, overlay_layer_name, source_tables, srid, created_at FROM spatial_references WHERE scenario_id = ? ORDER BY id",
		scenarioID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list spatial references: %w", err)
	}
	defer rows.Close()

	var refs []*secondary.SpatialRefRecord
	for rows.Next() {
		var (
			record     secondary.SpatialRefRecord
			sourceJSON string
			createdAt  time.Time
		)
		err := rows.Scan(&record.ID, &record.UUID, &record.ScenarioID, &record.Name,
			&record.OverlayLayerName, &sourceJSON, &record.SRID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spatial reference: %w", err)
		}
		record.SourceTables, err = tableListFromJSON(sourceJSON)
		if err != nil {
			return nil, fmt.Errorf("bad source_tables for reference %d: %w", record.ID, err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		refs = append(refs, &record)
	}
	return refs, rows.Err()
}
