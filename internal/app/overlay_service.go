package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/strata/internal/core/naming"
	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/ports/secondary"
)

// fallbackOutputGroup is used when the settings row is unreadable.
const fallbackOutputGroup = "Output Layers"

// OverlayServiceImpl implements the OverlayService interface: versioned
// overlay runs, pointer-move rollback, read-only comparison.
type OverlayServiceImpl struct {
	projectRepo  secondary.ProjectRepository
	opener       secondary.SpatialOpener
	presenter    secondary.LayerPresenter
	settingsRepo secondary.SettingsRepository
}

// NewOverlayService creates a new OverlayService with injected dependencies.
func NewOverlayService(
	projectRepo secondary.ProjectRepository,
	opener secondary.SpatialOpener,
	presenter secondary.LayerPresenter,
	settingsRepo secondary.SettingsRepository,
) *OverlayServiceImpl {
	return &OverlayServiceImpl{
		projectRepo:  projectRepo,
		opener:       opener,
		presenter:    presenter,
		settingsRepo: settingsRepo,
	}
}

// Overlay combines a target table with a comparison table and publishes the
// result as the next version of the named output.
//
// The run is staged through temp tables so a failure never corrupts the
// published chain: intersect and union land in *_tmp_* tables, the union
// becomes the versioned table by rename, and only then is the version row
// written. The intersect intermediate is dropped once the union succeeds.
func (s *OverlayServiceImpl) Overlay(ctx context.Context, req primary.OverlayRequest) (*primary.OverlayResponse, error) {
	if strings.TrimSpace(req.OutputName) == "" {
		return nil, &fault.ValidationError{Reason: "output name is required"}
	}
	if req.TargetTable == req.ComparisonTable {
		return nil, &fault.ValidationError{Reason: "target and comparison must be different tables"}
	}

	project, err := s.projectRepo.GetByName(ctx, req.ProjectName)
	if err != nil {
		return nil, err
	}

	session, err := s.opener.Open(ctx, project.DBPath)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if err := session.ValidateCompatibility(ctx, req.TargetTable, req.ComparisonTable); err != nil {
		return nil, err
	}

	base := naming.Sanitize(req.OutputName)
	versions := session.Versions()

	chain, err := versions.List(ctx, base)
	if err != nil {
		return nil, err
	}
	versioned := naming.VersionedTable(base, len(chain)+1)
	tmpIntersect := versioned + "_tmp_intersect"
	tmpUnion := versioned + "_tmp_union"

	cleanup := func() {
		session.DropTable(ctx, tmpIntersect)
		session.DropTable(ctx, tmpUnion)
	}

	if _, err := session.Combine(ctx, req.TargetTable, req.ComparisonTable, tmpIntersect, secondary.CombineIntersect); err != nil {
		cleanup()
		return nil, fmt.Errorf("intersect stage failed: %w", err)
	}
	if _, err := session.Combine(ctx, req.TargetTable, req.ComparisonTable, tmpUnion, secondary.CombineUnion); err != nil {
		cleanup()
		return nil, fmt.Errorf("union stage failed: %w", err)
	}

	if err := session.RenameTable(ctx, tmpUnion, versioned); err != nil {
		cleanup()
		return nil, err
	}
	if err := session.DropTable(ctx, tmpIntersect); err != nil {
		// The promoted table has no version row yet; leaving it would
		// collide with the next run's rename.
		session.DropTable(ctx, versioned)
		return nil, err
	}

	head, err := versions.GetCurrent(ctx, base)
	if err != nil {
		return nil, err
	}
	record := &secondary.VersionRecord{
		OutputName:  base,
		TableName:   versioned,
		Description: req.Description,
	}
	if head != nil {
		record.ParentVersionID = head.ID
	}
	if _, err := versions.Create(ctx, record); err != nil {
		return nil, err
	}

	rows, err := session.RowCount(ctx, versioned)
	if err != nil {
		return nil, err
	}

	if !req.SkipPresent {
		handle := secondary.LayerHandle{
			Table:       versioned,
			DisplayName: fmt.Sprintf("%s v%d", base, len(chain)+1),
			Group:       s.outputGroup(ctx, req.DisplayGroup),
		}
		if err := s.presenter.Present(ctx, project.DBPath, handle); err != nil {
			return nil, fmt.Errorf("failed to present %s: %w", versioned, err)
		}
	}

	return &primary.OverlayResponse{
		Version:   record,
		TableName: versioned,
		RowCount:  rows,
	}, nil
}

// Rollback makes an earlier version of an output current and puts its table
// back on the display surface. The pointer moves; no table data is rewritten.
func (s *OverlayServiceImpl) Rollback(ctx context.Context, req primary.RollbackRequest) (*primary.RollbackResponse, error) {
	project, err := s.projectRepo.GetByName(ctx, req.ProjectName)
	if err != nil {
		return nil, err
	}

	session, err := s.opener.Open(ctx, project.DBPath)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	versions := session.Versions()
	base := naming.Sanitize(req.OutputName)

	target, err := versions.GetByID(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}
	// A version id from another chain is treated as absent, not as a
	// cross-chain move.
	if target.OutputName != base {
		return nil, &fault.NotFoundError{Kind: "version", Ref: fmt.Sprintf("%d in %s", req.VersionID, base)}
	}

	if err := versions.SetCurrent(ctx, req.VersionID); err != nil {
		return nil, err
	}

	current, err := versions.GetByID(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}

	handle := secondary.LayerHandle{
		Table:       current.TableName,
		DisplayName: naming.DisplayLabel(current.TableName),
		Group:       s.outputGroup(ctx, ""),
	}
	if err := s.presenter.Present(ctx, project.DBPath, handle); err != nil {
		return nil, fmt.Errorf("failed to present %s: %w", current.TableName, err)
	}

	return &primary.RollbackResponse{Version: current}, nil
}

// Compare materializes two versions of an output for side-by-side review.
// Read-only: both tables already exist, nothing is written to the store, and
// the current pointer does not move.
func (s *OverlayServiceImpl) Compare(ctx context.Context, req primary.CompareRequest) (*primary.CompareResponse, error) {
	project, err := s.projectRepo.GetByName(ctx, req.ProjectName)
	if err != nil {
		return nil, err
	}

	session, err := s.opener.Open(ctx, project.DBPath)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	versions := session.Versions()
	base := naming.Sanitize(req.OutputName)

	var pair [2]*secondary.VersionRecord
	for i, id := range []int64{req.VersionA, req.VersionB} {
		version, err := versions.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if version.OutputName != base {
			return nil, &fault.NotFoundError{Kind: "version", Ref: fmt.Sprintf("%d in %s", id, base)}
		}
		pair[i] = version
	}

	group := s.outputGroup(ctx, req.DisplayGroup)
	for _, version := range pair {
		handle := secondary.LayerHandle{
			Table:       version.TableName,
			DisplayName: naming.DisplayLabel(version.TableName),
			Group:       group,
		}
		if err := s.presenter.Present(ctx, project.DBPath, handle); err != nil {
			return nil, fmt.Errorf("failed to present %s: %w", version.TableName, err)
		}
	}

	return &primary.CompareResponse{VersionA: pair[0], VersionB: pair[1]}, nil
}

// ListVersions returns the version chain of an output, newest first.
func (s *OverlayServiceImpl) ListVersions(ctx context.Context, projectName, outputName string) ([]*secondary.VersionRecord, error) {
	project, err := s.projectRepo.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}

	session, err := s.opener.Open(ctx, project.DBPath)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return session.Versions().List(ctx, naming.Sanitize(outputName))
}

// Summary computes aggregate statistics over a result table.
func (s *OverlayServiceImpl) Summary(ctx context.Context, projectName, tableName string) (*secondary.TableSummary, error) {
	project, err := s.projectRepo.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}

	session, err := s.opener.Open(ctx, project.DBPath)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return session.Summary(ctx, tableName)
}

// outputGroup resolves the display group: request override first, then the
// configured setting, then the baked-in default.
func (s *OverlayServiceImpl) outputGroup(ctx context.Context, override string) string {
	if override != "" {
		return override
	}
	group, err := s.settingsRepo.Get(ctx, "output_group_name")
	if err != nil || group == "" {
		return fallbackOutputGroup
	}
	return group
}
