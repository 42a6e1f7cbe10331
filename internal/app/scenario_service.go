package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/models"
	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/ports/secondary"
)

// Storage layer_type values for the scenario_layers table. The domain roles
// (target, assessment, marker) map onto these; target and assessment are both
// computation inputs.
const (
	layerTypeInput     = "input"
	layerTypeOutput    = "output"
	layerTypeReference = "reference"
)

// ScenarioServiceImpl implements the ScenarioService interface.
type ScenarioServiceImpl struct {
	projectRepo    secondary.ProjectRepository
	scenarioRepo   secondary.ScenarioRepository
	visibilityRepo secondary.VisibilityRepository
	spatialRefRepo secondary.SpatialRefRepository
	opener         secondary.SpatialOpener
}

// NewScenarioService creates a new ScenarioService with injected dependencies.
func NewScenarioService(
	projectRepo secondary.ProjectRepository,
	scenarioRepo secondary.ScenarioRepository,
	visibilityRepo secondary.VisibilityRepository,
	spatialRefRepo secondary.SpatialRefRepository,
	opener secondary.SpatialOpener,
) *ScenarioServiceImpl {
	return &ScenarioServiceImpl{
		projectRepo:    projectRepo,
		scenarioRepo:   scenarioRepo,
		visibilityRepo: visibilityRepo,
		spatialRefRepo: spatialRefRepo,
		opener:         opener,
	}
}

// CreateScenario creates a scenario with its layer refs. The duplicate-name
// gate runs here, before any row is written; the store never deduplicates
// silently.
func (s *ScenarioServiceImpl) CreateScenario(ctx context.Context, req primary.CreateScenarioRequest) (*primary.CreateScenarioResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &fault.ValidationError{Reason: "scenario name is required"}
	}
	if req.TargetLayer == "" {
		return nil, &fault.ValidationError{Reason: "scenario needs a target layer"}
	}

	project, err := s.projectRepo.GetByName(ctx, req.ProjectName)
	if err != nil {
		return nil, err
	}

	exists, err := s.scenarioRepo.NameExists(ctx, project.ID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check scenario name: %w", err)
	}
	if exists {
		return nil, &fault.ValidationError{
			Reason: fmt.Sprintf("scenario %q already exists in project %q", name, req.ProjectName),
		}
	}

	record := &secondary.ScenarioRecord{
		UUID:        uuid.NewString(),
		ProjectID:   project.ID,
		Name:        name,
		Description: req.Description,
		TargetLayer: req.TargetLayer,
	}
	if err := s.scenarioRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create scenario: %w", err)
	}

	layers := []*secondary.LayerRecord{
		{ScenarioID: record.ID, LayerName: req.TargetLayer, LayerType: layerTypeInput},
	}
	for _, layer := range req.AssessmentLayers {
		layers = append(layers, &secondary.LayerRecord{
			ScenarioID: record.ID, LayerName: layer, LayerType: layerTypeInput,
		})
	}
	for _, layer := range req.MarkerLayers {
		layers = append(layers, &secondary.LayerRecord{
			ScenarioID: record.ID, LayerName: layer, LayerType: layerTypeReference,
		})
	}
	for _, layer := range layers {
		if err := s.scenarioRepo.AddLayer(ctx, layer); err != nil {
			return nil, fmt.Errorf("failed to record layer %s: %w", layer.LayerName, err)
		}
	}

	scenario, err := s.buildScenario(ctx, record)
	if err != nil {
		return nil, err
	}
	return &primary.CreateScenarioResponse{Scenario: scenario}, nil
}

// GetScenario retrieves a scenario with its layer refs.
func (s *ScenarioServiceImpl) GetScenario(ctx context.Context, projectName, scenarioName string) (*models.Scenario, error) {
	record, err := s.findScenario(ctx, projectName, scenarioName)
	if err != nil {
		return nil, err
	}
	return s.buildScenario(ctx, record)
}

// ListScenarios lists non-deleted scenarios of a project.
func (s *ScenarioServiceImpl) ListScenarios(ctx context.Context, projectName string) ([]*models.Scenario, error) {
	project, err := s.projectRepo.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}
	records, err := s.scenarioRepo.ListForProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	scenarios := make([]*models.Scenario, 0, len(records))
	for _, record := range records {
		scenario, err := s.buildScenario(ctx, record)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// DeleteScenario soft-deletes a scenario. Its tables stay in the store.
func (s *ScenarioServiceImpl) DeleteScenario(ctx context.Context, projectName, scenarioName string) error {
	record, err := s.findScenario(ctx, projectName, scenarioName)
	if err != nil {
		return err
	}
	return s.scenarioRepo.SoftDelete(ctx, record.ID)
}

// PurgeScenario permanently removes a scenario's metadata rows and drops its
// output tables from the spatial store.
func (s *ScenarioServiceImpl) PurgeScenario(ctx context.Context, projectName, scenarioName string) error {
	project, err := s.projectRepo.GetByName(ctx, projectName)
	if err != nil {
		return err
	}
	record, err := s.findScenarioIn(ctx, project.ID, projectName, scenarioName)
	if err != nil {
		return err
	}

	outputs, err := s.scenarioRepo.GetLayers(ctx, record.ID, layerTypeOutput)
	if err != nil {
		return err
	}

	if len(outputs) > 0 {
		session, err := s.opener.Open(ctx, project.DBPath)
		if err != nil {
			return err
		}
		defer session.Close()

		for _, output := range outputs {
			if output.TableName == "" {
				continue
			}
			if err := session.DropTable(ctx, output.TableName); err != nil {
				return fmt.Errorf("failed to drop %s: %w", output.TableName, err)
			}
		}
	}

	return s.scenarioRepo.Purge(ctx, record.ID)
}

// RecordOutputTable binds a materialized output table to a scenario layer
// ref, creating the ref when the layer is new. Source tables, when given, go
// into the overlay lineage.
func (s *ScenarioServiceImpl) RecordOutputTable(ctx context.Context, req primary.RecordOutputTableRequest) error {
	record, err := s.findScenario(ctx, req.ProjectName, req.ScenarioName)
	if err != nil {
		return err
	}

	err = s.scenarioRepo.SetLayerTable(ctx, record.ID, req.LayerName, req.TableName)
	var notFound *fault.NotFoundError
	if errors.As(err, &notFound) {
		err = s.scenarioRepo.AddLayer(ctx, &secondary.LayerRecord{
			ScenarioID: record.ID,
			LayerName:  req.LayerName,
			LayerType:  layerTypeOutput,
			TableName:  req.TableName,
		})
	}
	if err != nil {
		return err
	}

	if len(req.SourceTables) == 0 {
		return nil
	}
	ref := &secondary.SpatialRefRecord{
		UUID:             uuid.NewString(),
		ScenarioID:       record.ID,
		Name:             req.LayerName,
		OverlayLayerName: req.TableName,
		SourceTables:     req.SourceTables,
		SRID:             req.SRID,
	}
	if err := s.spatialRefRepo.Create(ctx, ref); err != nil {
		return fmt.Errorf("failed to record overlay lineage: %w", err)
	}
	return nil
}

// ListSpatialRefs returns the overlay lineage records of a scenario.
func (s *ScenarioServiceImpl) ListSpatialRefs(ctx context.Context, projectName, scenarioName string) ([]*secondary.SpatialRefRecord, error) {
	record, err := s.findScenario(ctx, projectName, scenarioName)
	if err != nil {
		return nil, err
	}
	return s.spatialRefRepo.ListForScenario(ctx, record.ID)
}

// SetLayerVisibility sets the display flag of one layer in a scenario.
func (s *ScenarioServiceImpl) SetLayerVisibility(ctx context.Context, req primary.SetLayerVisibilityRequest) error {
	record, err := s.findScenario(ctx, req.ProjectName, req.ScenarioName)
	if err != nil {
		return err
	}
	return s.visibilityRepo.Set(ctx, record.ID, req.LayerName, req.Visible)
}

// GetLayerVisibility returns the per-layer display flags of a scenario.
func (s *ScenarioServiceImpl) GetLayerVisibility(ctx context.Context, projectName, scenarioName string) (map[string]bool, error) {
	record, err := s.findScenario(ctx, projectName, scenarioName)
	if err != nil {
		return nil, err
	}
	return s.visibilityRepo.Get(ctx, record.ID)
}

// findScenario resolves project then scenario by name.
func (s *ScenarioServiceImpl) findScenario(ctx context.Context, projectName, scenarioName string) (*secondary.ScenarioRecord, error) {
	project, err := s.projectRepo.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}
	return s.findScenarioIn(ctx, project.ID, projectName, scenarioName)
}

func (s *ScenarioServiceImpl) findScenarioIn(ctx context.Context, projectID int64, projectName, scenarioName string) (*secondary.ScenarioRecord, error) {
	records, err := s.scenarioRepo.ListForProject(ctx, projectID)
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

// buildScenario assembles the domain model from the scenario row and its
// layer refs.
func (s *ScenarioServiceImpl) buildScenario(ctx context.Context, record *secondary.ScenarioRecord) (*models.Scenario, error) {
	layers, err := s.scenarioRepo.GetLayers(ctx, record.ID, "")
	if err != nil {
		return nil, err
	}

	created, _ := time.Parse(time.RFC3339, record.CreatedAt)
	scenario := &models.Scenario{
		ID:          record.ID,
		UUID:        record.UUID,
		ProjectID:   record.ProjectID,
		Name:        record.Name,
		Description: record.Description,
		IsDeleted:   record.IsDeleted,
		CreatedAt:   created,
	}

	for _, layer := range layers {
		switch layer.LayerType {
		case layerTypeInput:
			ref := models.LayerRef{Name: layer.LayerName, Role: models.RoleAssessment, TableName: layer.TableName}
			if layer.LayerName == record.TargetLayer {
				ref.Role = models.RoleTarget
				scenario.TargetLayer = &ref
				continue
			}
			scenario.AssessmentLayers = append(scenario.AssessmentLayers, ref)
		case layerTypeReference:
			scenario.MarkerLayers = append(scenario.MarkerLayers,
				models.LayerRef{Name: layer.LayerName, Role: models.RoleMarker, TableName: layer.TableName})
		case layerTypeOutput:
			if layer.TableName != "" {
				scenario.OutputTables = append(scenario.OutputTables, layer.TableName)
			}
		}
	}
	return scenario, nil
}
