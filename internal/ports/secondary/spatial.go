package secondary

import "context"

// CombineMode selects the spatial combination an operation produces.
type CombineMode string

const (
	// CombineIntersect keeps the pairwise overlap of the two inputs.
	CombineIntersect CombineMode = "intersect"

	// CombineUnion merges both inputs into a single coverage.
	CombineUnion CombineMode = "union"
)

// SpatialOpener opens a scoped session against one project's spatial store.
// Sessions are owned by the caller and must be closed; nothing here is a
// process-wide singleton.
type SpatialOpener interface {
	// Open connects to the spatial store at dbPath, creating and initializing
	// it when the file does not exist yet.
	Open(ctx context.Context, dbPath string) (SpatialSession, error)
}

// SpatialSession is a scoped connection to one project's spatial store. All
// table arguments are physical table names, already sanitized.
type SpatialSession interface {
	// Close releases the underlying connection.
	Close() error

	// TableExists reports whether a table is present in the store.
	TableExists(ctx context.Context, name string) (bool, error)

	// ListTables returns the user-facing spatial tables in the store.
	ListTables(ctx context.Context) ([]string, error)

	// DropTable removes a table and its geometry registration. Dropping a
	// missing table is a no-op.
	DropTable(ctx context.Context, name string) error

	// RenameTable renames a table and re-registers its geometry column.
	// Fails when the source table does not exist.
	RenameTable(ctx context.Context, oldName, newName string) error

	// RowCount returns the number of rows in a table.
	RowCount(ctx context.Context, name string) (int64, error)

	// ValidateCompatibility checks that two tables can be combined: same
	// SRID, both polygonal. Returns a GeometryError describing the first
	// mismatch found.
	ValidateCompatibility(ctx context.Context, target, comparison string) error

	// Combine runs one spatial combination of target and comparison into
	// the output table, registering its geometry column and spatial index.
	// Returns the number of result rows.
	Combine(ctx context.Context, target, comparison, output string, mode CombineMode) (int64, error)

	// Summary computes area/perimeter statistics over a result table.
	Summary(ctx context.Context, table string) (*TableSummary, error)

	// Versions gives access to the version bookkeeping of this store.
	Versions() VersionStore

	// RegisterBaseLayer records an imported base layer in the store's
	// registry.
	RegisterBaseLayer(ctx context.Context, layer *BaseLayerRecord) error

	// ListBaseLayers returns the registered base layers.
	ListBaseLayers(ctx context.Context) ([]*BaseLayerRecord, error)
}

// TableSummary holds aggregate statistics for a result table.
type TableSummary struct {
	Table          string
	RowCount       int64
	IntersectCount int64
	UnionCount     int64
	TotalArea      float64
	TotalPerimeter float64
	MinArea        float64
	MaxArea        float64
}

// VersionStore is the version bookkeeping of one spatial store. Each named
// output carries a chain of versioned tables; exactly one version per chain
// is current.
type VersionStore interface {
	// List returns all versions of a named output, newest first.
	List(ctx context.Context, outputName string) ([]*VersionRecord, error)

	// GetByID returns one version row.
	GetByID(ctx context.Context, id int64) (*VersionRecord, error)

	// GetCurrent returns the current version of a named output, or nil when
	// the chain is empty.
	GetCurrent(ctx context.Context, outputName string) (*VersionRecord, error)

	// Create inserts a new version as the current one, clearing the previous
	// head in the same transaction.
	Create(ctx context.Context, rec *VersionRecord) (int64, error)

	// SetCurrent moves the current pointer of the record's chain to the
	// given version. Transactional; table data is not touched.
	SetCurrent(ctx context.Context, id int64) error
}

// VersionRecord is one versioned output table in a store.
type VersionRecord struct {
	ID              int64
	OutputName      string
	TableName       string
	Description     string
	ParentVersionID int64 // 0 = root
	IsCurrent       bool
	CreatedAt       string
}

// BaseLayerRecord is one imported base layer in a store's registry.
type BaseLayerRecord struct {
	ID           int64
	Name         string
	TableName    string
	GeometryType string
	SRID         int
	SourcePath   string
	FeatureCount int64
	CreatedAt    string
}

// LayerHandle identifies a layer made available to a display surface.
type LayerHandle struct {
	Table       string
	DisplayName string
	Group       string
}

// LayerPresenter materializes result tables onto whatever display surface
// the application is attached to. Materializing the same table twice must
// replace, not duplicate.
type LayerPresenter interface {
	Present(ctx context.Context, dbPath string, handle LayerHandle) error
	Remove(ctx context.Context, handle LayerHandle) error
}

// ImportResult reports what one feature import did.
type ImportResult struct {
	Layer     *BaseLayerRecord
	Inserted  int64
	Updated   int64
	Unchanged int64
}

// FeatureSource loads external feature data into a spatial store.
type FeatureSource interface {
	// Import reads features from sourcePath into the named table of the
	// store at dbPath and returns the resulting base layer registration.
	// Importing into an existing table reconciles by stable feature
	// identity: new features are inserted, changed ones updated, identical
	// ones left alone.
	Import(ctx context.Context, dbPath, sourcePath, tableName string) (*ImportResult, error)
}
