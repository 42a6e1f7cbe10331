// Package sqlite contains SQLite implementations of the metadata repository
// ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// ProjectRepository implements secondary.ProjectRepository with SQLite.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new SQLite project repository.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create persists a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *secondary.ProjectRecord) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO projects (uuid, name, description, db_path, is_deleted) VALUES (?, ?, ?, ?, 0)",
		project.UUID, project.Name, project.Description, project.DBPath,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read project id: %w", err)
	}
	project.ID = id
	return nil
}

// GetByID retrieves a project by its ID, deleted or not.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*secondary.ProjectRecord, error) {
	record, err := scanProject(r.db.QueryRowContext(ctx,
		"SELECT id, uuid, name, description, db_path, is_deleted, created_at FROM projects WHERE id = ?",
		id,
	))
	if err == sql.ErrNoRows {
		return nil, &fault.NotFoundError{Kind: "project", Ref: fmt.Sprintf("%d", id)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return record, nil
}

// GetByName retrieves a non-deleted project by name.
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*secondary.ProjectRecord, error) {
	record, err := scanProject(r.db.QueryRowContext(ctx,
		"SELECT id, uuid, name, description, db_path, is_deleted, created_at FROM projects WHERE name = ? AND is_deleted = 0",
		name,
	))
	if err == sql.ErrNoRows {
		return nil, &fault.NotFoundError{Kind: "project", Ref: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project by name: %w", err)
	}
	return record, nil
}

// List retrieves all non-deleted projects ordered by name.
func (r *ProjectRepository) List(ctx context.Context) ([]*secondary.ProjectRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, uuid, name, description, db_path, is_deleted, created_at FROM projects WHERE is_deleted = 0 ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*secondary.ProjectRecord
	for rows.Next() {
		record, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, record)
	}
	return projects, rows.Err()
}

// SoftDelete flags a project and its scenarios as deleted.
func (r *ProjectRepository) SoftDelete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin soft delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE projects SET is_deleted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to soft delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check soft delete: %w", err)
	}
	if affected == 0 {
		return &fault.NotFoundError{Kind: "project", Ref: fmt.Sprintf("%d", id)}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE scenarios SET is_deleted = 1 WHERE project_id = ?", id); err != nil {
		return fmt.Errorf("failed to soft delete scenarios: %w", err)
	}

	return tx.Commit()
}

// Purge permanently removes the project row. Scenario rows and their children
// cascade at the database level.
func (r *ProjectRepository) Purge(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to purge project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check purge: %w", err)
	}
	if affected == 0 {
		return &fault.NotFoundError{Kind: "project", Ref: fmt.Sprintf("%d", id)}
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*secondary.ProjectRecord, error) {
	var (
		record    secondary.ProjectRecord
		isDeleted int
		createdAt time.Time
	)
	err := row.Scan(&record.ID, &record.UUID, &record.Name, &record.Description,
		&record.DBPath, &isDeleted, &createdAt)
	if err != nil {
		return nil, err
	}
	record.IsDeleted = isDeleted != 0
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return &record, nil
}
