package spatial

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// versionStore implements secondary.VersionStore over the spatial_versions
// table of one project store.
type versionStore struct {
	db *sql.DB
}

const versionColumns = "id, output_name, table_name, description, parent_version_id, is_current, created_at"

// List returns all versions of a named output, newest first.
func (v *versionStore) List(ctx context.Context, outputName string) ([]*secondary.VersionRecord, error) {
	rows, err := v.db.QueryContext(ctx,
		"SELECT "+versionColumns+" FROM spatial_versions WHERE output_name = ? ORDER BY id DESC",
		outputName,
	)
	if err != nil {
		return nil, &fault.StoreError{Op: "list versions", Err: err}
	}
	defer rows.Close()

	var versions []*secondary.VersionRecord
	for rows.Next() {
		record, err := scanVersion(rows)
		if err != nil {
			return nil, &fault.StoreError{Op: "scan version", Err: err}
		}
		versions = append(versions, record)
	}
	return versions, rows.Err()
}

// GetByID returns one version row.
func (v *versionStore) GetByID(ctx context.Context, id int64) (*secondary.VersionRecord, error) {
	record, err := scanVersion(v.db.QueryRowContext(ctx,
		"SELECT "+versionColumns+" FROM spatial_versions WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, &fault.NotFoundError{Kind: "version", Ref: fmt.Sprintf("%d", id)}
	}
	if err != nil {
		return nil, &fault.StoreError{Op: "get version", Err: err}
	}
	return record, nil
}

// GetCurrent returns the current version of a named output, or nil when the
// chain is empty.
func (v *versionStore) GetCurrent(ctx context.Context, outputName string) (*secondary.VersionRecord, error) {
	record, err := scanVersion(v.db.QueryRowContext(ctx,
		"SELECT "+versionColumns+" FROM spatial_versions WHERE output_name = ? AND is_current = 1",
		outputName,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &fault.StoreError{Op: "get current version", Err: err}
	}
	return record, nil
}

// Create inserts a new version as the current one, clearing the previous head
// in the same transaction. At most one version per chain is ever current.
func (v *versionStore) Create(ctx context.Context, rec *secondary.VersionRecord) (int64, error) {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &fault.StoreError{Op: "begin version create", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE spatial_versions SET is_current = 0 WHERE output_name = ?", rec.OutputName,
	); err != nil {
		return 0, &fault.StoreError{Op: "clear current version", Err: err}
	}

	var parent any
	if rec.ParentVersionID != 0 {
		parent = rec.ParentVersionID
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO spatial_versions (output_name, table_name, description, parent_version_id, is_current) VALUES (?, ?, ?, ?, 1)",
		rec.OutputName, rec.TableName, rec.Description, parent,
	)
	if err != nil {
		return 0, &fault.StoreError{Op: "insert version", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &fault.StoreError{Op: "read version id", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &fault.StoreError{Op: "commit version create", Err: err}
	}

	rec.ID = id
	rec.IsCurrent = true
	return id, nil
}

// SetCurrent moves the current pointer of the version's chain. Table data is
// not touched.
func (v *versionStore) SetCurrent(ctx context.Context, id int64) error {
	target, err := v.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return &fault.StoreError{Op: "begin rollback", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE spatial_versions SET is_current = 0 WHERE output_name = ?", target.OutputName,
	); err != nil {
		return &fault.StoreError{Op: "clear current version", Err: err}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE spatial_versions SET is_current = 1 WHERE id = ?", id,
	); err != nil {
		return &fault.StoreError{Op: "set current version", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &fault.StoreError{Op: "commit rollback", Err: err}
	}
	return nil
}

func scanVersion(row interface{ Scan(...any) error }) (*secondary.VersionRecord, error) {
	var (
		record    secondary.VersionRecord
		parent    sql.NullInt64
		isCurrent int
		createdAt time.Time
	)
	err := row.Scan(&record.ID, &record.OutputName, &record.TableName, &record.Description,
		&parent, &isCurrent, &createdAt)
	if err != nil {
		return nil, err
	}
	record.ParentVersionID = parent.Int64
	record.IsCurrent = isCurrent != 0
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return &record, nil
}
