package primary

import (
	"context"

	"github.com/example/strata/internal/core/tasktree"
	"github.com/example/strata/internal/models"
)

// ProvenanceService defines the primary port for provenance and task
// recording.
type ProvenanceService interface {
	// CreateProvenance creates a named task group under a scenario.
	CreateProvenance(ctx context.Context, req CreateProvenanceRequest) (*CreateProvenanceResponse, error)

	// ListProvenance lists the provenance records of a scenario.
	ListProvenance(ctx context.Context, projectName, scenarioName string) ([]*models.Provenance, error)

	// AddTask records one operation step under a provenance record.
	AddTask(ctx context.Context, req AddTaskRequest) (*AddTaskResponse, error)

	// TaskTree reconstructs the task forest of a provenance record.
	TaskTree(ctx context.Context, provenanceID int64) ([]*tasktree.Node, error)

	// FinishTask backfills the duration of a recorded task.
	FinishTask(ctx context.Context, taskID int64, durationMS int64) error
}

// CreateProvenanceRequest contains parameters for creating a provenance
// record.
type CreateProvenanceRequest struct {
	ProjectName  string
	ScenarioName string
	Name         string
	Description  string
}

// CreateProvenanceResponse contains the result of creating a provenance
// record.
type CreateProvenanceResponse struct {
	Provenance *models.Provenance
}

// AddTaskRequest contains parameters for recording a task.
type AddTaskRequest struct {
	ProvenanceID int64
	ParentTaskID int64 // 0 = root of the forest
	Operation    string
	Category     string
	InputTables  []string
	OutputTables []string
	EngineType   string
	Parameters   string
	Comments     string
	AddedToMap   bool
	IsScenario   bool
}

// AddTaskResponse contains the result of recording a task.
type AddTaskResponse struct {
	Task *models.Task
}
