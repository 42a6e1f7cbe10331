// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// external systems.
package secondary

import "context"

// ProjectRepository defines the secondary port for project persistence.
type ProjectRepository interface {
	// Create persists a new project.
	Create(ctx context.Context, project *ProjectRecord) error

	// GetByID retrieves a project by its ID, deleted or not.
	GetByID(ctx context.Context, id int64) (*ProjectRecord, error)

	// GetByName retrieves a non-deleted project by name.
	GetByName(ctx context.Context, name string) (*ProjectRecord, error)

	// List retrieves all non-deleted projects ordered by name.
	List(ctx context.Context) ([]*ProjectRecord, error)

	// SoftDelete flags a project and its scenarios as deleted.
	SoftDelete(ctx context.Context, id int64) error

	// Purge permanently removes the project row (children cascade).
	Purge(ctx context.Context, id int64) error
}

// ProjectRecord represents a project as stored in persistence.
type ProjectRecord struct {
	ID          int64
	UUID        string
	Name        string
	Description string
	DBPath      string
	IsDeleted   bool
	CreatedAt   string
}

// ScenarioRepository defines the secondary port for scenario persistence,
// including the layer refs recorded with each scenario.
type ScenarioRepository interface {
	// Create persists a new scenario.
	Create(ctx context.Context, scenario *ScenarioRecord) error

	// GetByID retrieves a scenario by its ID.
	GetByID(ctx context.Context, id int64) (*ScenarioRecord, error)

	// ListForProject retrieves non-deleted scenarios of a project by name.
	ListForProject(ctx context.Context, projectID int64) ([]*ScenarioRecord, error)

	// NameExists checks whether a non-deleted scenario with this name exists
	// in the project. Callers use it as a precondition gate - the store never
	// deduplicates silently.
	NameExists(ctx context.Context, projectID int64, name string) (bool, error)

	// SoftDelete flags a scenario as deleted.
	SoftDelete(ctx context.Context, id int64) error

	// Purge permanently removes the scenario row (children cascade).
	Purge(ctx context.Context, id int64) error

	// AddLayer records a layer ref for a scenario.
	AddLayer(ctx context.Context, layer *LayerRecord) error

	// GetLayers retrieves layer refs, optionally filtered by type.
	GetLayers(ctx context.Context, scenarioID int64, layerType string) ([]*LayerRecord, error)

	// SetLayerTable records the materialized table name for a layer ref.
	SetLayerTable(ctx context.Context, scenarioID int64, layerName, tableName string) error
}

// ScenarioRecord represents a scenario as stored in persistence.
type ScenarioRecord struct {
	ID          int64
	UUID        string
	ProjectID   int64
	Name        string
	Description string
	TargetLayer string
	IsDeleted   bool
	CreatedAt   string
}

// LayerRecord represents a layer ref row.
type LayerRecord struct {
	ID           int64
	ScenarioID   int64
	LayerName    string
	LayerType    string // 'input', 'output', 'reference'
	GeometryType string
	TableName    string
}

// VisibilityRepository defines the secondary port for per-scenario layer
// visibility state.
type VisibilityRepository interface {
	// Set upserts the visibility flag for one (scenario, layer) pair.
	Set(ctx context.Context, scenarioID int64, layerName string, visible bool) error

	// Get returns the visibility map for a scenario.
	Get(ctx context.Context, scenarioID int64) (map[string]bool, error)

	// Visible returns the names of visible layers for a scenario.
	Visible(ctx context.Context, scenarioID int64) ([]string, error)
}

// ProvenanceRepository defines the secondary port for provenance persistence.
type ProvenanceRepository interface {
	// Create persists a new provenance record.
	Create(ctx context.Context, prov *ProvenanceRecord) error

	// GetByID retrieves a provenance record by its ID.
	GetByID(ctx context.Context, id int64) (*ProvenanceRecord, error)

	// ListForScenario retrieves provenance records for a scenario by creation.
	ListForScenario(ctx context.Context, scenarioID int64) ([]*ProvenanceRecord, error)

	// Delete removes a provenance record (tasks cascade).
	Delete(ctx context.Context, id int64) error
}

// ProvenanceRecord represents a provenance row.
type ProvenanceRecord struct {
	ID          int64
	UUID        string
	ScenarioID  int64
	Name        string
	Description string
	CreatedAt   string
}

// TaskRepository defines the secondary port for task persistence.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *TaskRecord) error

	// GetByID retrieves a task by its ID.
	GetByID(ctx context.Context, id int64) (*TaskRecord, error)

	// ListForProvenance retrieves all tasks of a provenance ordered by
	// step_order ascending.
	ListForProvenance(ctx context.Context, provenanceID int64) ([]*TaskRecord, error)

	// ListChildren retrieves direct children of a task ordered by step_order.
	ListChildren(ctx context.Context, parentTaskID int64) ([]*TaskRecord, error)

	// UpdateDuration backfills the duration of a task.
	UpdateDuration(ctx context.Context, id int64, durationMS int64) error
}

// TaskRecord represents a task row. Input/output table lists are stored as
// JSON text in the database; the repository translates.
type TaskRecord struct {
	ID           int64
	UUID         string
	ProvenanceID int64
	ParentTaskID int64 // 0 = root
	StepOrder    int
	Operation    string
	Category     string
	InputTables  []string
	OutputTables []string
	AddedToMap   bool
	DurationMS   int64
	Parameters   string
	Comments     string
	EngineType   string
	IsScenario   bool
	CreatedAt    string
}

// SpatialRefRepository defines the secondary port for per-scenario overlay
// layer registration.
type SpatialRefRepository interface {
	// Create persists a spatial reference record.
	Create(ctx context.Context, ref *SpatialRefRecord) error

	// ListForScenario retrieves spatial references for a scenario.
	ListForScenario(ctx context.Context, scenarioID int64) ([]*SpatialRefRecord, error)
}

// SpatialRefRecord represents a spatial_references row.
type SpatialRefRecord struct {
	ID               int64
	UUID             string
	ScenarioID       int64
	Name             string
	OverlayLayerName string
	SourceTables     []string
	SRID             int
	CreatedAt        string
}

// SettingsRepository defines the secondary port for the single-row
// application settings record.
type SettingsRepository interface {
	// Get returns the value of one settings column.
	Get(ctx context.Context, key string) (string, error)

	// Set updates one settings column.
	Set(ctx context.Context, key, value string) error
}
