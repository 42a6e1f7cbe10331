// Package primary defines the primary ports (driving interfaces) for the
// application. CLI commands talk to the app layer exclusively through these.
package primary

import (
	"context"

	"github.com/example/strata/internal/models"
)

// ProjectService defines the primary port for project operations.
type ProjectService interface {
	// CreateProject creates a project and its backing spatial store file.
	CreateProject(ctx context.Context, req CreateProjectRequest) (*CreateProjectResponse, error)

	// GetProject retrieves a non-deleted project by name.
	GetProject(ctx context.Context, name string) (*models.Project, error)

	// ListProjects lists non-deleted projects.
	ListProjects(ctx context.Context) ([]*models.Project, error)

	// DeleteProject soft-deletes a project. The spatial store file is kept.
	DeleteProject(ctx context.Context, name string) error

	// PurgeProject permanently removes a project, its metadata rows, and its
	// spatial store file.
	PurgeProject(ctx context.Context, name string) error

	// ProjectStatus summarizes one project: scenario count, spatial tables,
	// store file size.
	ProjectStatus(ctx context.Context, name string) (*ProjectStatus, error)
}

// CreateProjectRequest contains parameters for creating a project.
type CreateProjectRequest struct {
	Name        string
	Description string
}

// CreateProjectResponse contains the result of creating a project.
type CreateProjectResponse struct {
	Project *models.Project
	DBPath  string
}

// ProjectStatus summarizes the state of one project.
type ProjectStatus struct {
	Project       *models.Project
	ScenarioCount int
	SpatialTables []string
	DBSizeBytes   int64
}
