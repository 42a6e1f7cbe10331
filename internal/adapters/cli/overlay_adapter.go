// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/ports/secondary"
)

// OverlayAdapter is a thin adapter that translates CLI operations to
// OverlayService calls. It depends only on the OverlayService interface,
// enabling easy testing with mocks.
type OverlayAdapter struct {
	service primary.OverlayService
	out     io.Writer
}

// NewOverlayAdapter creates a new OverlayAdapter with the given service.
func NewOverlayAdapter(service primary.OverlayService, out io.Writer) *OverlayAdapter {
	return &OverlayAdapter{
		service: service,
		out:     out,
	}
}

// Run executes an overlay and prints the published version.
func (a *OverlayAdapter) Run(ctx context.Context, req primary.OverlayRequest) error {
	resp, err := a.service.Overlay(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Published %s (version %d, %d rows)\n",
		resp.TableName, resp.Version.ID, resp.RowCount)
	if resp.Version.ParentVersionID != 0 {
		fmt.Fprintf(a.out, "  parent version: %d\n", resp.Version.ParentVersionID)
	}
	return nil
}

// Rollback makes an earlier version current and prints the new head.
func (a *OverlayAdapter) Rollback(ctx context.Context, req primary.RollbackRequest) error {
	resp, err := a.service.Rollback(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ %s now points at version %d (%s)\n",
		resp.Version.OutputName, resp.Version.ID, resp.Version.TableName)
	return nil
}

// Compare materializes two versions side by side and prints both handles.
func (a *OverlayAdapter) Compare(ctx context.Context, req primary.CompareRequest) error {
	resp, err := a.service.Compare(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Comparing %s (version %d) with %s (version %d)\n",
		resp.VersionA.TableName, resp.VersionA.ID,
		resp.VersionB.TableName, resp.VersionB.ID)
	return nil
}

// ListVersions prints the version chain of an output, newest first.
func (a *OverlayAdapter) ListVersions(ctx context.Context, projectName, outputName string) error {
	versions, err := a.service.ListVersions(ctx, projectName, outputName)
	if err != nil {
		return fmt.Errorf("failed to list versions: %w", err)
	}

	if len(versions) == 0 {
		fmt.Fprintf(a.out, "No versions recorded for %s\n", outputName)
		return nil
	}

	fmt.Fprintf(a.out, "\n%-5s %-8s %-25s %-8s %s\n", "ID", "PARENT", "TABLE", "CURRENT", "CREATED")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, v := range versions {
		current := ""
		if v.IsCurrent {
			current = "*"
		}
		parent := "-"
		if v.ParentVersionID != 0 {
			parent = fmt.Sprintf("%d", v.ParentVersionID)
		}
		fmt.Fprintf(a.out, "%-5d %-8s %-25s %-8s %s\n", v.ID, parent, v.TableName, current, v.CreatedAt)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Summary prints aggregate statistics of a result table.
func (a *OverlayAdapter) Summary(ctx context.Context, projectName, tableName string) (*secondary.TableSummary, error) {
	summary, err := a.service.Summary(ctx, projectName, tableName)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nTable:     %s\n", summary.Table)
	fmt.Fprintf(a.out, "Rows:      %d", summary.RowCount)
	if summary.IntersectCount > 0 || summary.UnionCount > 0 {
		fmt.Fprintf(a.out, " (%d intersect, %d union)", summary.IntersectCount, summary.UnionCount)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Area:      %.2f total, %.2f min, %.2f max\n",
		summary.TotalArea, summary.MinArea, summary.MaxArea)
	fmt.Fprintf(a.out, "Perimeter: %.2f total\n", summary.TotalPerimeter)
	fmt.Fprintln(a.out)

	return summary, nil
}
