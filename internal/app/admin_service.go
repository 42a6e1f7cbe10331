package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/ports/secondary"
)

// AdminServiceImpl implements the AdminService interface.
type AdminServiceImpl struct {
	settingsRepo secondary.SettingsRepository
	projectRepo  secondary.ProjectRepository
	scenarioRepo secondary.ScenarioRepository
	provRepo     secondary.ProvenanceRepository
	taskRepo     secondary.TaskRepository
	legacy       secondary.LegacySource
}

// NewAdminService creates a new AdminService with injected dependencies.
func NewAdminService(
	settingsRepo secondary.SettingsRepository,
	projectRepo secondary.ProjectRepository,
	scenarioRepo secondary.ScenarioRepository,
	provRepo secondary.ProvenanceRepository,
	taskRepo secondary.TaskRepository,
	legacy secondary.LegacySource,
) *AdminServiceImpl {
	return &AdminServiceImpl{
		settingsRepo: settingsRepo,
		projectRepo:  projectRepo,
		scenarioRepo: scenarioRepo,
		provRepo:     provRepo,
		taskRepo:     taskRepo,
		legacy:       legacy,
	}
}

// GetSetting returns the value of one application setting.
func (s *AdminServiceImpl) GetSetting(ctx context.Context, key string) (string, error) {
	return s.settingsRepo.Get(ctx, key)
}

// SetSetting updates one application setting.
func (s *AdminServiceImpl) SetSetting(ctx context.Context, key, value string) error {
	return s.settingsRepo.Set(ctx, key, value)
}

// ImportLegacy copies projects, scenarios, provenance, and tasks from a
// legacy metadata database. Projects whose name is already taken are skipped
// together with everything under them; within imported projects the legacy
// ids are remapped onto the fresh rows.
func (s *AdminServiceImpl) ImportLegacy(ctx context.Context, req primary.ImportLegacyRequest) (*primary.ImportLegacyResponse, error) {
	snapshot, err := s.legacy.Read(ctx, req.SourcePath)
	if err != nil {
		return nil, err
	}

	resp := &primary.ImportLegacyResponse{}

	projectIDs := make(map[int64]int64)
	for _, project := range snapshot.Projects {
		if _, err := s.projectRepo.GetByName(ctx, project.Name); err == nil {
			resp.Skipped = append(resp.Skipped, fmt.Sprintf("project %q: name already in use", project.Name))
			continue
		} else if !isNotFound(err) {
			return nil, err
		}

		if req.DryRun {
			resp.ProjectsImported++
			projectIDs[project.ID] = -1
			continue
		}

		record := &secondary.ProjectRecord{
			UUID:        uuid.NewString(),
			Name:        project.Name,
			Description: project.Description,
			DBPath:      project.DBPath,
		}
		if err := s.projectRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to import project %q: %w", project.Name, err)
		}
		projectIDs[project.ID] = record.ID
		resp.ProjectsImported++
	}

	scenarioIDs := make(map[int64]int64)
	for _, scenario := range snapshot.Scenarios {
		newProjectID, ok := projectIDs[scenario.ProjectID]
		if !ok {
			resp.Skipped = append(resp.Skipped, fmt.Sprintf("scenario %q: project skipped", scenario.Name))
			continue
		}

		if req.DryRun {
			resp.ScenariosImported++
			scenarioIDs[scenario.ID] = -1
			continue
		}

		record := &secondary.ScenarioRecord{
			UUID:        uuid.NewString(),
			ProjectID:   newProjectID,
			Name:        scenario.Name,
			Description: scenario.Description,
			TargetLayer: scenario.TargetLayer,
		}
		if err := s.scenarioRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to import scenario %q: %w", scenario.Name, err)
		}
		scenarioIDs[scenario.ID] = record.ID
		resp.ScenariosImported++
	}

	provenanceIDs := make(map[int64]int64)
	for _, prov := range snapshot.Provenance {
		newScenarioID, ok := scenarioIDs[prov.ScenarioID]
		if !ok {
			resp.Skipped = append(resp.Skipped, fmt.Sprintf("provenance %q: scenario skipped", prov.Name))
			continue
		}
		if req.DryRun {
			provenanceIDs[prov.ID] = -1
			continue
		}

		record := &secondary.ProvenanceRecord{
			UUID:        uuid.NewString(),
			ScenarioID:  newScenarioID,
			Name:        prov.Name,
			Description: prov.Description,
		}
		if err := s.provRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to import provenance %q: %w", prov.Name, err)
		}
		provenanceIDs[prov.ID] = record.ID
	}

	// Legacy ids ascend, so a parent is always remapped before its children.
	taskIDs := make(map[int64]int64)
	for _, task := range snapshot.Tasks {
		newProvenanceID, ok := provenanceIDs[task.ProvenanceID]
		if !ok {
			resp.Skipped = append(resp.Skipped, fmt.Sprintf("task %d: provenance skipped", task.ID))
			continue
		}
		if req.DryRun {
			resp.TasksImported++
			continue
		}

		record := &secondary.TaskRecord{
			UUID:         uuid.NewString(),
			ProvenanceID: newProvenanceID,
			ParentTaskID: taskIDs[task.ParentTaskID], // 0 when the parent was not imported
			StepOrder:    task.StepOrder,
			Operation:    task.Operation,
			Category:     task.Category,
			InputTables:  task.InputTables,
			OutputTables: task.OutputTables,
			DurationMS:   task.DurationMS,
			Parameters:   task.Parameters,
			Comments:     task.Comments,
			EngineType:   "spatialite",
		}
		if err := s.taskRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to import task %d: %w", task.ID, err)
		}
		taskIDs[task.ID] = record.ID
		resp.TasksImported++
	}

	return resp, nil
}

func isNotFound(err error) bool {
	var notFound *fault.NotFoundError
	return errors.As(err, &notFound)
}
