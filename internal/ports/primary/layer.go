package primary

import (
	"context"

	"github.com/example/strata/internal/ports/secondary"
)

// LayerService defines the primary port for base layer import and listing.
type LayerService interface {
	// ImportLayer loads a GeoJSON file into a project's spatial store and
	// registers it as a base layer. Re-importing into an existing table
	// reconciles by feature identity instead of replacing it.
	ImportLayer(ctx context.Context, req ImportLayerRequest) (*ImportLayerResponse, error)

	// ListLayers returns the registered base layers of a project.
	ListLayers(ctx context.Context, projectName string) ([]*secondary.BaseLayerRecord, error)

	// ListTables returns the spatial tables of a project's store, registered
	// or not.
	ListTables(ctx context.Context, projectName string) ([]string, error)

	// DropTable removes a table from a project's store.
	DropTable(ctx context.Context, projectName, tableName string) error
}

// ImportLayerRequest contains parameters for a base layer import.
type ImportLayerRequest struct {
	ProjectName string
	SourcePath  string

	// TableName overrides the name derived from the source file when set.
	TableName string
}

// ImportLayerResponse contains the result of a base layer import.
type ImportLayerResponse struct {
	Layer     *secondary.BaseLayerRecord
	Inserted  int64
	Updated   int64
	Unchanged int64
}
