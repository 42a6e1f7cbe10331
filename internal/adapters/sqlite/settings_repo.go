package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/strata/internal/fault"
)

// settingsColumns whitelists the app_settings columns addressable by key.
// Keys are interpolated into SQL, so only listed names are accepted.
var settingsColumns = map[string]bool{
	"plugin_version":            true,
	"default_project_dir":       true,
	"default_base_layers_group": true,
	"output_group_name":         true,
	"symbology_defaults":        true,
	"misc":                      true,
}

// SettingsRepository implements secondary.SettingsRepository over the
// single-row app_settings table.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SQLite settings repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value of one settings column.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	if !settingsColumns[key] {
		return "", &fault.ValidationError{Reason: fmt.Sprintf("unknown setting %q", key)}
	}

	var value string
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM app_settings WHERE id = 1", key),
	).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// Set updates one settings column.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	if !settingsColumns[key] {
		return &fault.ValidationError{Reason: fmt.Sprintf("unknown setting %q", key)}
	}

	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE app_settings SET %s = ? WHERE id = 1", key), value,
	)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
