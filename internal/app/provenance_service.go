package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/strata/internal/core/tasktree"
	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/models"
	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/ports/secondary"
)

// ProvenanceServiceImpl implements the ProvenanceService interface.
type ProvenanceServiceImpl struct {
	projectRepo  secondary.ProjectRepository
	scenarioRepo secondary.ScenarioRepository
	provRepo     secondary.ProvenanceRepository
	taskRepo     secondary.TaskRepository
}

// NewProvenanceService creates a new ProvenanceService with injected
// dependencies.
func NewProvenanceService(
	projectRepo secondary.ProjectRepository,
	scenarioRepo secondary.ScenarioRepository,
	provRepo secondary.ProvenanceRepository,
	taskRepo secondary.TaskRepository,
) *ProvenanceServiceImpl {
	return &ProvenanceServiceImpl{
		projectRepo:  projectRepo,
		scenarioRepo: scenarioRepo,
		provRepo:     provRepo,
		taskRepo:     taskRepo,
	}
}

// CreateProvenance creates a named task group under a scenario.
func (s *ProvenanceServiceImpl) CreateProvenance(ctx context.Context, req primary.CreateProvenanceRequest) (*primary.CreateProvenanceResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &fault.ValidationError{Reason: "provenance name is required"}
	}

	scenario, err := s.findScenario(ctx, req.ProjectName, req.ScenarioName)
	if err != nil {
		return nil, err
	}

	record := &secondary.ProvenanceRecord{
		UUID:        uuid.NewString(),
		ScenarioID:  scenario.ID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.provRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create provenance: %w", err)
	}

	return &primary.CreateProvenanceResponse{
		Provenance: recordToProvenance(record),
	}, nil
}

// ListProvenance lists the provenance records of a scenario.
func (s *ProvenanceServiceImpl) ListProvenance(ctx context.Context, projectName, scenarioName string) ([]*models.Provenance, error) {
	scenario, err := s.findScenario(ctx, projectName, scenarioName)
	if err != nil {
		return nil, err
	}

	records, err := s.provRepo.ListForScenario(ctx, scenario.ID)
	if err != nil {
		return nil, err
	}

	provenance := make([]*models.Provenance, 0, len(records))
	for _, record := range records {
		provenance = append(provenance, recordToProvenance(record))
	}
	return provenance, nil
}

// AddTask records one operation step under a provenance record. The parent,
// when given, must belong to the same provenance.
func (s *ProvenanceServiceImpl) AddTask(ctx context.Context, req primary.AddTaskRequest) (*primary.AddTaskResponse, error) {
	if strings.TrimSpace(req.Operation) == "" {
		return nil, &fault.ValidationError{Reason: "task operation is required"}
	}

	if _, err := s.provRepo.GetByID(ctx, req.ProvenanceID); err != nil {
		return nil, err
	}

	if req.ParentTaskID != 0 {
		parent, err := s.taskRepo.GetByID(ctx, req.ParentTaskID)
		if err != nil {
			return nil, err
		}
		if parent.ProvenanceID != req.ProvenanceID {
			return nil, &fault.ValidationError{
				Reason: fmt.Sprintf("parent task %d belongs to another provenance", req.ParentTaskID),
			}
		}
	}

	engineType := req.EngineType
	if engineType == "" {
		engineType = "spatialite"
	}

	record := &secondary.TaskRecord{
		UUID:         uuid.NewString(),
		ProvenanceID: req.ProvenanceID,
		ParentTaskID: req.ParentTaskID,
		Operation:    req.Operation,
		Category:     req.Category,
		InputTables:  req.InputTables,
		OutputTables: req.OutputTables,
		EngineType:   engineType,
		Parameters:   req.Parameters,
		Comments:     req.Comments,
		AddedToMap:   req.AddedToMap,
		IsScenario:   req.IsScenario,
	}
	if err := s.taskRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record task: %w", err)
	}

	return &primary.AddTaskResponse{Task: recordToTask(record)}, nil
}

// TaskTree reconstructs the task forest of a provenance record.
func (s *ProvenanceServiceImpl) TaskTree(ctx context.Context, provenanceID int64) ([]*tasktree.Node, error) {
	if _, err := s.provRepo.GetByID(ctx, provenanceID); err != nil {
		return nil, err
	}

	records, err := s.taskRepo.ListForProvenance(ctx, provenanceID)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, *recordToTask(record))
	}
	return tasktree.Build(tasks), nil
}

// FinishTask backfills the duration of a recorded task.
func (s *ProvenanceServiceImpl) FinishTask(ctx context.Context, taskID int64, durationMS int64) error {
	if durationMS < 0 {
		return &fault.ValidationError{Reason: "duration must not be negative"}
	}
	return s.taskRepo.UpdateDuration(ctx, taskID, durationMS)
}

func (s *ProvenanceServiceImpl) findScenario(ctx context.Context, projectName, scenarioName string) (*secondary.ScenarioRecord, error) {
	project, err := s.projectRepo.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}
	records, err := s.scenarioRepo.ListForProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.Name == scenarioName {
			return record, nil
		}
	}
	return nil, &fault.NotFoundError{Kind: "scenario", Ref: projectName + "/" + scenarioName}
}

func recordToProvenance(record *secondary.ProvenanceRecord) *models.Provenance {
	created, _ := time.Parse(time.RFC3339, record.CreatedAt)
	return &models.Provenance{
		ID:          record.ID,
		UUID:        record.UUID,
		ScenarioID:  record.ScenarioID,
		Name:        record.Name,
		Description: record.Description,
		CreatedAt:   created,
	}
}

func recordToTask(record *secondary.TaskRecord) *models.Task {
	return &models.Task{
		ID:           record.ID,
		UUID:         record.UUID,
		ProvenanceID: record.ProvenanceID,
		ParentTaskID: record.ParentTaskID,
		StepOrder:    record.StepOrder,
		Operation:    record.Operation,
		Category:     record.Category,
		InputTables:  record.InputTables,
		OutputTables: record.OutputTables,
		EngineType:   record.EngineType,
		AddedToMap:   record.AddedToMap,
		DurationMS:   record.DurationMS,
		Parameters:   record.Parameters,
		Comments:     record.Comments,
		IsScenario:   record.IsScenario,
		CreatedAt:    record.CreatedAt,
	}
}
