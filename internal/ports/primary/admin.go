package primary

import "context"

// AdminService defines the primary port for settings and maintenance
// operations.
type AdminService interface {
	// GetSetting returns the value of one application setting.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting updates one application setting.
	SetSetting(ctx context.Context, key, value string) error

	// ImportLegacy copies projects, scenarios, provenance, and tasks from a
	// metadata database produced by an older installation.
	ImportLegacy(ctx context.Context, req ImportLegacyRequest) (*ImportLegacyResponse, error)
}

// ImportLegacyRequest contains parameters for a legacy metadata import.
type ImportLegacyRequest struct {
	SourcePath string

	// DryRun reports what would be imported without writing.
	DryRun bool
}

// ImportLegacyResponse summarizes a legacy metadata import.
type ImportLegacyResponse struct {
	ProjectsImported  int
	ScenariosImported int
	TasksImported     int
	Skipped           []string
}
