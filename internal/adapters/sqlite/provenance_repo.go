package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// ProvenanceRepository implements secondary.ProvenanceRepository with SQLite.
type ProvenanceRepository struct {
	db *sql.DB
}

// NewProvenanceRepository creates a new SQLite provenance repository.
func NewProvenanceRepository(db *sql.DB) *ProvenanceRepository {
	return &ProvenanceRepository{db: db}
}

// Create persists a new provenance record.
func (r *ProvenanceRepository) Create(ctx context.Context, prov *secondary.ProvenanceRecord) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO provenance (uuid, scenario_id, name, description) VALUES (?, ?, ?, ?)",
		prov.UUID, prov.ScenarioID, prov.Name, prov.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create provenance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read provenance id: %w", err)
	}
	prov.ID = id
	return nil
}

// GetByID retrieves a provenance record by its ID.
func (r *ProvenanceRepository) GetByID(ctx context.Context, id int64) (*secondary.ProvenanceRecord, error) {
	record, err := scanProvenance(r.db.QueryRowContext(ctx,
		"SELECT id, uuid, scenario_id, name, description, created_at FROM provenance WHERE id = ?",
		id,
	))
	if err == sql.ErrNoRows {
		return nil, &fault.NotFoundError{Kind: "provenance", Ref: fmt.Sprintf("%d", id)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provenance: %w", err)
	}
	return record, nil
}

// ListForScenario retrieves provenance records for a scenario by creation.
func (r *ProvenanceRepository) ListForScenario(ctx context.Context, scenarioID int64) ([]*secondary.ProvenanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, uuid, scenario_id, name, description, created_at FROM provenance WHERE scenario_id = ? ORDER BY id",
		scenarioID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list provenance: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ProvenanceRecord
	for rows.Next() {
		record, err := scanProvenance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provenance: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Delete removes a provenance record (tasks cascade).
func (r *ProvenanceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM provenance WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete provenance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return &fault.NotFoundError{Kind: "provenance", Ref: fmt.Sprintf("%d", id)}
	}
	return nil
}

func scanProvenance(row rowScanner) (*secondary.ProvenanceRecord, error) {
	var (
		record    secondary.ProvenanceRecord
		createdAt time.Time
	)
	err := row.Scan(&record.ID, &record.UUID, &record.ScenarioID, &record.Name,
		&record.Description, &createdAt)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return &record, nil
}
