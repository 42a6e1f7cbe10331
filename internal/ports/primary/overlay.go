package primary

import (
	"context"

	"github.com/example/strata/internal/ports/secondary"
)

// OverlayService defines the primary port for versioned overlay operations.
type OverlayService interface {
	// Overlay combines a target table with a comparison table and publishes
	// the result as the next version of the named output.
	Overlay(ctx context.Context, req OverlayRequest) (*OverlayResponse, error)

	// Rollback makes an earlier version of an output current. Pointer move
	// only; no table data is rewritten.
	Rollback(ctx context.Context, req RollbackRequest) (*RollbackResponse, error)

	// Compare materializes two versions of an output for side-by-side
	// review. Read-only: no table is written and the current pointer does
	// not move.
	Compare(ctx context.Context, req CompareRequest) (*CompareResponse, error)

	// ListVersions returns the version chain of an output, newest first.
	ListVersions(ctx context.Context, projectName, outputName string) ([]*secondary.VersionRecord, error)

	// Summary computes aggregate statistics over a result table.
	Summary(ctx context.Context, projectName, tableName string) (*secondary.TableSummary, error)
}

// OverlayRequest contains parameters for one overlay run.
type OverlayRequest struct {
	ProjectName     string
	TargetTable     string
	ComparisonTable string
	OutputName      string
	Description     string

	// DisplayGroup overrides the configured output group when set.
	DisplayGroup string

	// SkipPresent suppresses materialization onto the display surface.
	SkipPresent bool
}

// OverlayResponse contains the result of one overlay run.
type OverlayResponse struct {
	Version   *secondary.VersionRecord
	TableName string
	RowCount  int64
}

// RollbackRequest selects the version to make current.
type RollbackRequest struct {
	ProjectName string
	OutputName  string
	VersionID   int64
}

// RollbackResponse contains the result of a rollback.
type RollbackResponse struct {
	Version *secondary.VersionRecord
}

// CompareRequest selects the two versions to put side by side. Both must
// belong to the named output's chain.
type CompareRequest struct {
	ProjectName string
	OutputName  string
	VersionA    int64
	VersionB    int64

	// DisplayGroup overrides the configured output group when set.
	DisplayGroup string
}

// CompareResponse carries the two materialized versions.
type CompareResponse struct {
	VersionA *secondary.VersionRecord
	VersionB *secondary.VersionRecord
}
