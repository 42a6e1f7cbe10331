// Package app contains the application services. Services orchestrate the
// repositories and the spatial store behind the primary ports; they hold no
// SQL and no SpatiaLite specifics themselves.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/strata/internal/core/naming"
	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/models"
	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/ports/secondary"
)

// ProjectServiceImpl implements the ProjectService interface.
type ProjectServiceImpl struct {
	projectRepo  secondary.ProjectRepository
	scenarioRepo secondary.ScenarioRepository
	opener       secondary.SpatialOpener
	projectsDir  string
}

// NewProjectService creates a new ProjectService with injected dependencies.
func NewProjectService(
	projectRepo secondary.ProjectRepository,
	scenarioRepo secondary.ScenarioRepository,
	opener secondary.SpatialOpener,
	projectsDir string,
) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		projectRepo:  projectRepo,
		scenarioRepo: scenarioRepo,
		opener:       opener,
		projectsDir:  projectsDir,
	}
}

// CreateProject creates a project row and initializes its spatial store file.
func (s *ProjectServiceImpl) CreateProject(ctx context.Context, req primary.CreateProjectRequest) (*primary.CreateProjectResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &fault.ValidationError{Reason: "project name is required"}
	}

	dbPath := filepath.Join(s.projectsDir, naming.Sanitize(name)+".sqlite")

	record := &secondary.ProjectRecord{
		UUID:        uuid.NewString(),
		Name:        name,
		Description: req.Description,
		DBPath:      dbPath,
	}
	if err := s.projectRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	// Initialize the store file up front so the first overlay does not pay
	// the metadata bootstrap.
	session, err := s.opener.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize spatial store: %w", err)
	}
	session.Close()

	return &primary.CreateProjectResponse{
		Project: recordToProject(record),
		DBPath:  dbPath,
	}, nil
}

// GetProject retrieves a non-deleted project by name.
func (s *ProjectServiceImpl) GetProject(ctx context.Context, name string) (*models.Project, error) {
	record, err := s.projectRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return recordToProject(record), nil
}

// ListProjects lists non-deleted projects.
func (s *ProjectServiceImpl) ListProjects(ctx context.Context) ([]*models.Project, error) {
	records, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	projects := make([]*models.Project, 0, len(records))
	for _, record := range records {
		projects = append(projects, recordToProject(record))
	}
	return projects, nil
}

// DeleteProject soft-deletes a project. The spatial store file stays on disk
// so a purge (or a manual recovery) can still reach it.
func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, name string) error {
	record, err := s.projectRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.projectRepo.SoftDelete(ctx, record.ID)
}

// PurgeProject permanently removes a project's metadata rows and its spatial
// store file.
func (s *ProjectServiceImpl) PurgeProject(ctx context.Context, name string) error {
	record, err := s.projectRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if err := s.projectRepo.Purge(ctx, record.ID); err != nil {
		return err
	}
	if err := os.Remove(record.DBPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove store file: %w", err)
	}
	return nil
}

// ProjectStatus summarizes one project.
func (s *ProjectServiceImpl) ProjectStatus(ctx context.Context, name string) (*primary.ProjectStatus, error) {
	record, err := s.projectRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	scenarios, err := s.scenarioRepo.ListForProject(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	status := &primary.ProjectStatus{
		Project:       recordToProject(record),
		ScenarioCount: len(scenarios),
	}

	if info, err := os.Stat(record.DBPath); err == nil {
		status.DBSizeBytes = info.Size()
	}

	session, err := s.opener.Open(ctx, record.DBPath)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	status.SpatialTables, err = session.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	return status, nil
}

func recordToProject(record *secondary.ProjectRecord) *models.Project {
	created, _ := time.Parse(time.RFC3339, record.CreatedAt)
	return &models.Project{
		ID:          record.ID,
		UUID:        record.UUID,
		Name:        record.Name,
		Description: record.Description,
		DBPath:      record.DBPath,
		IsDeleted:   record.IsDeleted,
		CreatedAt:   created,
	}
}
