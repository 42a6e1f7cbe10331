package config

import (
	"path/filepath"
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Version:         "1",
		ProjectsDir:     filepath.Join(dir, "projects"),
		OutputGroupName: "Output Layers",
		CurrentProject:  "watershed",
	}

	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.CurrentProject != "watershed" {
		t.Errorf("CurrentProject = %q, want watershed", loaded.CurrentProject)
	}
	if loaded.OutputGroupName != "Output Layers" {
		t.Errorf("OutputGroupName = %q, want Output Layers", loaded.OutputGroupName)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	if err == nil {
		t.Error("expected error for missing config")
	}
}

func TestSaveConfig_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "strata")
	if err := SaveConfig(dir, Default()); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if _, err := LoadConfig(dir); err != nil {
		t.Fatalf("LoadConfig after save failed: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.OutputGroupName != "Output Layers" {
		t.Errorf("default OutputGroupName = %q", cfg.OutputGroupName)
	}
}
