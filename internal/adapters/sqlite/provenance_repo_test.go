package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/strata/internal/adapters/sqlite"
	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

func TestProvenanceRepository_CreateAndGet(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewProvenanceRepository(database)
	ctx := context.Background()

	projectID := seedProject(t, database, "", "")
	scenarioID := seedScenario(t, database, projectID, "", "")

	prov := &secondary.ProvenanceRecord{
		UUID:        "prov-1",
		ScenarioID:  scenarioID,
		Name:        "flood run 1",
		Description: "first overlay pass",
	}
	if err := repo.Create(ctx, prov); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if prov.ID == 0 {
		t.Error("Create() should backfill the id")
	}

	got, err := repo.GetByID(ctx, prov.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "flood run 1" || got.Description != "first overlay pass" {
		t.Errorf("record = %+v", got)
	}
	if got.CreatedAt == "" {
		t.Error("CreatedAt should be set")
	}
}

func TestProvenanceRepository_GetByID_NotFound(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewProvenanceRepository(database)

	_, err := repo.GetByID(context.Background(), 999)

	var notFound *fault.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestProvenanceRepository_ListForScenario_Ordered(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewProvenanceRepository(database)
	ctx := context.Background()

	projectID := seedProject(t, database, "", "")
	scenarioID := seedScenario(t, database, projectID, "", "")
	other := seedScenario(t, database, projectID, "scen-other", "other")
	seedProvenance(t, database, other, "prov-other", "elsewhere")

	for _, name := range []string{"run 1", "run 2", "run 3"} {
		prov := &secondary.ProvenanceRecord{UUID: "prov-" + name, ScenarioID: scenarioID, Name: name}
		if err := repo.Create(ctx, prov); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	records, err := repo.ListForScenario(ctx, scenarioID)
	if err != nil {
		t.Fatalf("ListForScenario() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, want := range []string{"run 1", "run 2", "run 3"} {
		if records[i].Name != want {
			t.Errorf("records[%d] = %q, want %q", i, records[i].Name, want)
		}
	}
}

func TestProvenanceRepository_Delete(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewProvenanceRepository(database)
	ctx := context.Background()

	projectID := seedProject(t, database, "", "")
	scenarioID := seedScenario(t, database, projectID, "", "")
	provID := seedProvenance(t, database, scenarioID, "", "")

	if err := repo.Delete(ctx, provID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var notFound *fault.NotFoundError
	if err := repo.Delete(ctx, provID); !errors.As(err, &notFound) {
		t.Fatalf("second Delete() error = %v, want NotFoundError", err)
	}
}
