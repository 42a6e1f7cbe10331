package models

import "time"

// Provenance is a named grouping of recorded operation steps (tasks) under a
// scenario - one row per significant analysis episode.
type Provenance struct {
	ID          int64
	UUID        string
	ScenarioID  int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// Task is one recorded operation step. Tasks form a forest within a
// provenance via ParentTaskID; rows are never mutated after insert except for
// the duration backfill.
type Task struct {
	ID           int64
	UUID         string
	ProvenanceID int64
	ParentTaskID int64 // 0 = root
	StepOrder    int
	Operation    string
	Category     string
	InputTables  []string
	OutputTables []string
	EngineType   string
	AddedToMap   bool
	DurationMS   int64
	Parameters   string
	Comments     string
	IsScenario   bool
	CreatedAt    string
}

// LayerVisibility is the persisted per-scenario display flag for one output
// layer. One row per (scenario, layer), upserted on every toggle.
type LayerVisibility struct {
	ScenarioID int64
	LayerName  string
	Visible    bool
}

// BaseLayer is a row in a project's base_layers_registry: a materialized
// source dataset with its geometry metadata and origin descriptor.
type BaseLayer struct {
	ID           int64
	LayerName    string
	GeometryType string
	SRID         int
	Source       string
	FeatureCount int
	CreatedAt    string
}

// AppSettings is the single-row application settings record in the metadata
// store.
type AppSettings struct {
	PluginVersion     string
	DefaultProjectDir string
	BaseLayersGroup   string
	OutputGroupName   string
	SymbologyDefaults string
	Misc              string
}
