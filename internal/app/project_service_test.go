package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/primary"
)

func TestCreateProject(t *testing.T) {
	projects := newMockProjectRepo()
	session := newMockSession()
	opener := newMockOpener(session)
	service := NewProjectService(projects, newMockScenarioRepo(), opener, t.TempDir())

	resp, err := service.CreateProject(context.Background(), primary.CreateProjectRequest{
		Name:        "Coastal Survey",
		Description: "2026 season",
	})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	if resp.Project.Name != "Coastal Survey" {
		t.Errorf("Name = %q", resp.Project.Name)
	}
	if filepath.Base(resp.DBPath) != "coastal_survey.sqlite" {
		t.Errorf("DBPath = %q, want sanitized file name", resp.DBPath)
	}
	if resp.Project.UUID == "" {
		t.Error("project should get a uuid")
	}
	// The store file is initialized eagerly.
	if len(opener.opened) != 1 || opener.opened[0] != resp.DBPath {
		t.Errorf("opened = %v, want the new store path", opener.opened)
	}
	if session.closed != 1 {
		t.Errorf("session closed %d times, want 1", session.closed)
	}
}

func TestCreateProject_BlankName(t *testing.T) {
	service := NewProjectService(newMockProjectRepo(), newMockScenarioRepo(), newMockOpener(newMockSession()), t.TempDir())

	_, err := service.CreateProject(context.Background(), primary.CreateProjectRequest{Name: "   "})

	var valErr *fault.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestCreateProject_StoreInitFailure(t *testing.T) {
	opener := newMockOpener(nil)
	opener.openErr = &fault.StoreError{Op: "open", Err: errors.New("read-only filesystem")}
	service := NewProjectService(newMockProjectRepo(), newMockScenarioRepo(), opener, t.TempDir())

	_, err := service.CreateProject(context.Background(), primary.CreateProjectRequest{Name: "coastal"})
	if err == nil {
		t.Fatal("expected error when store init fails")
	}
	var storeErr *fault.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("error = %v, want wrapped StoreError", err)
	}
}

func TestDeleteProject_SoftDeleteHidesFromList(t *testing.T) {
	service := NewProjectService(newMockProjectRepo(), newMockScenarioRepo(), newMockOpener(newMockSession()), t.TempDir())
	ctx := context.Background()

	if _, err := service.CreateProject(ctx, primary.CreateProjectRequest{Name: "coastal"}); err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if err := service.DeleteProject(ctx, "coastal"); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}

	if _, err := service.GetProject(ctx, "coastal"); err == nil {
		t.Error("deleted project should not resolve by name")
	}
	listed, err := service.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("ListProjects() = %d entries, want 0", len(listed))
	}
}

func TestPurgeProject_RemovesStoreFile(t *testing.T) {
	dir := t.TempDir()
	service := NewProjectService(newMockProjectRepo(), newMockScenarioRepo(), newMockOpener(newMockSession()), dir)
	ctx := context.Background()

	resp, err := service.CreateProject(ctx, primary.CreateProjectRequest{Name: "coastal"})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if err := os.WriteFile(resp.DBPath, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write store file: %v", err)
	}

	if err := service.PurgeProject(ctx, "coastal"); err != nil {
		t.Fatalf("PurgeProject() error = %v", err)
	}
	if _, err := os.Stat(resp.DBPath); !os.IsNotExist(err) {
		t.Error("store file should be removed on purge")
	}
}

func TestPurgeProject_MissingStoreFileTolerated(t *testing.T) {
	service := NewProjectService(newMockProjectRepo(), newMockScenarioRepo(), newMockOpener(newMockSession()), t.TempDir())
	ctx := context.Background()

	if _, err := service.CreateProject(ctx, primary.CreateProjectRequest{Name: "coastal"}); err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if err := service.PurgeProject(ctx, "coastal"); err != nil {
		t.Fatalf("PurgeProject() error = %v", err)
	}
}

func TestProjectStatus(t *testing.T) {
	projects := newMockProjectRepo()
	scenarios := newMockScenarioRepo()
	session := newMockSession()
	session.tables["parcels"] = 10
	session.tables["risk__v1"] = 7
	service := NewProjectService(projects, scenarios, newMockOpener(session), t.TempDir())
	ctx := context.Background()

	resp, err := service.CreateProject(ctx, primary.CreateProjectRequest{Name: "coastal"})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	scenarioService := NewScenarioService(projects, scenarios, newMockVisibilityRepo(), newMockSpatialRefRepo(), newMockOpener(session))
	if _, err := scenarioService.CreateScenario(ctx, primary.CreateScenarioRequest{
		ProjectName: "coastal", Name: "flood", TargetLayer: "parcels",
	}); err != nil {
		t.Fatalf("CreateScenario() error = %v", err)
	}
	if err := os.WriteFile(resp.DBPath, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("write store file: %v", err)
	}

	status, err := service.ProjectStatus(ctx, "coastal")
	if err != nil {
		t.Fatalf("ProjectStatus() error = %v", err)
	}
	if status.ScenarioCount != 1 {
		t.Errorf("ScenarioCount = %d, want 1", status.ScenarioCount)
	}
	if status.DBSizeBytes != 10 {
		t.Errorf("DBSizeBytes = %d, want 10", status.DBSizeBytes)
	}
	if len(status.SpatialTables) != 2 {
		t.Errorf("SpatialTables = %v", status.SpatialTables)
	}
}

func TestGetProject_NotFound(t *testing.T) {
	service := NewProjectService(newMockProjectRepo(), newMockScenarioRepo(), newMockOpener(newMockSession()), t.TempDir())

	_, err := service.GetProject(context.Background(), "missing")

	var notFound *fault.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}
