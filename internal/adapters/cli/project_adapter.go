package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/strata/internal/ports/primary"
)

// ProjectAdapter is a thin adapter that translates CLI operations to
// ProjectService calls.
type ProjectAdapter struct {
	service primary.ProjectService
	out     io.Writer
}

// NewProjectAdapter creates a new ProjectAdapter with the given service.
func NewProjectAdapter(service primary.ProjectService, out io.Writer) *ProjectAdapter {
	return &ProjectAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new project with its spatial store file.
func (a *ProjectAdapter) Create(ctx context.Context, name, description string) error {
	resp, err := a.service.CreateProject(ctx, primary.CreateProjectRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created project %q\n", resp.Project.Name)
	fmt.Fprintf(a.out, "  store: %s\n", resp.DBPath)
	return nil
}

// List lists non-deleted projects.
func (a *ProjectAdapter) List(ctx context.Context) error {
	projects, err := a.service.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Fprintln(a.out, "No projects found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %s\n", "NAME", "DESCRIPTION")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, p := range projects {
		fmt.Fprintf(a.out, "%-20s %s\n", p.Name, p.Description)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show prints one project's status.
func (a *ProjectAdapter) Show(ctx context.Context, name string) error {
	status, err := a.service.ProjectStatus(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nProject: %s\n", status.Project.Name)
	if status.Project.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", status.Project.Description)
	}
	fmt.Fprintf(a.out, "Store:   %s (%d bytes)\n", status.Project.DBPath, status.DBSizeBytes)
	fmt.Fprintf(a.out, "Scenarios: %d\n", status.ScenarioCount)
	fmt.Fprintf(a.out, "Created: %s\n", status.Project.CreatedAt.Format("2006-01-02 15:04"))

	if len(status.SpatialTables) > 0 {
		fmt.Fprintln(a.out, "Tables:")
		for _, table := range status.SpatialTables {
			fmt.Fprintf(a.out, "  - %s\n", table)
		}
	}
	fmt.Fprintln(a.out)

	return nil
}

// Delete soft-deletes a project.
func (a *ProjectAdapter) Delete(ctx context.Context, name string) error {
	if err := a.service.DeleteProject(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Deleted project %q (metadata kept, use purge to remove)\n", name)
	return nil
}

// Purge permanently removes a project and its store file.
func (a *ProjectAdapter) Purge(ctx context.Context, name string) error {
	if err := a.service.PurgeProject(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Purged project %q and its spatial store\n", name)
	return nil
}
