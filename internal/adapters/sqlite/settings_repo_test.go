package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/strata/internal/adapters/sqlite"
	"github.com/example/strata/internal/fault"
)

func TestSettingsRepository_Defaults(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewSettingsRepository(database)
	ctx := context.Background()

	// The schema seeds the single settings row with defaults.
	got, err := repo.Get(ctx, "output_group_name")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "Output Layers" {
		t.Errorf("output_group_name = %q, want %q", got, "Output Layers")
	}
}

func TestSettingsRepository_SetAndGet(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewSettingsRepository(database)
	ctx := context.Background()

	if err := repo.Set(ctx, "output_group_name", "Results"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := repo.Get(ctx, "output_group_name")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Results" {
		t.Errorf("output_group_name = %q, want Results", got)
	}
}

func TestSettingsRepository_UnknownKey(t *testing.T) {
	database := setupTestDB(t)
	repo := sqlite.NewSettingsRepository(database)
	ctx := context.Background()

	var invalid *fault.ValidationError

	if _, err := repo.Get(ctx, "nope"); !errors.As(err, &invalid) {
		t.Errorf("Get(nope) = %v, want ValidationError", err)
	}
	if err := repo.Set(ctx, "nope; DROP TABLE projects", "x"); !errors.As(err, &invalid) {
		t.Errorf("Set with hostile key = %v, want ValidationError", err)
	}
}
