package primary

import (
	"context"

	"github.com/example/strata/internal/models"
	"github.com/example/strata/internal/ports/secondary"
)

// ScenarioService defines the primary port for scenario operations.
type ScenarioService interface {
	// CreateScenario creates a scenario with its layer refs. Fails when a
	// non-deleted scenario with the same name exists in the project.
	CreateScenario(ctx context.Context, req CreateScenarioRequest) (*CreateScenarioResponse, error)

	// GetScenario retrieves a scenario with its layer refs.
	GetScenario(ctx context.Context, projectName, scenarioName string) (*models.Scenario, error)

	// ListScenarios lists non-deleted scenarios of a project.
	ListScenarios(ctx context.Context, projectName string) ([]*models.Scenario, error)

	// DeleteScenario soft-deletes a scenario. Its tables stay in the store.
	DeleteScenario(ctx context.Context, projectName, scenarioName string) error

	// PurgeScenario permanently removes a scenario's metadata rows and drops
	// its output tables from the spatial store.
	PurgeScenario(ctx context.Context, projectName, scenarioName string) error

	// RecordOutputTable binds a materialized output table to a scenario
	// layer ref. When the request names source tables, the binding is also
	// recorded as overlay lineage.
	RecordOutputTable(ctx context.Context, req RecordOutputTableRequest) error

	// ListSpatialRefs returns the overlay lineage records of a scenario.
	ListSpatialRefs(ctx context.Context, projectName, scenarioName string) ([]*secondary.SpatialRefRecord, error)

	// SetLayerVisibility sets the display flag of one layer in a scenario.
	SetLayerVisibility(ctx context.Context, req SetLayerVisibilityRequest) error

	// GetLayerVisibility returns the per-layer display flags of a scenario.
	GetLayerVisibility(ctx context.Context, projectName, scenarioName string) (map[string]bool, error)
}

// CreateScenarioRequest contains parameters for creating a scenario.
type CreateScenarioRequest struct {
	ProjectName      string
	Name             string
	Description      string
	TargetLayer      string
	AssessmentLayers []string
	MarkerLayers     []string
}

// CreateScenarioResponse contains the result of creating a scenario.
type CreateScenarioResponse struct {
	Scenario *models.Scenario
}

// RecordOutputTableRequest binds an output table name to a scenario layer.
type RecordOutputTableRequest struct {
	ProjectName  string
	ScenarioName string
	LayerName    string
	TableName    string

	// SourceTables, when set, records the tables the output was derived
	// from as overlay lineage.
	SourceTables []string
	SRID         int
}

// SetLayerVisibilityRequest contains parameters for a visibility change.
type SetLayerVisibilityRequest struct {
	ProjectName  string
	ScenarioName string
	LayerName    string
	Visible      bool
}
