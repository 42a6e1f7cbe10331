package db

// SchemaSQL is the complete modern schema for fresh strata installs.
//
// This is the SINGLE SOURCE OF TRUTH for the metadata database schema. All
// tests use it via GetSchemaSQL(): if repository code references a column
// that does not exist here, tests fail immediately with "no such column"
// instead of drifting until production.
//
// Uniqueness of project and scenario names is scoped to non-deleted rows via
// partial indexes, so a name can be reused after a soft-delete.
const SchemaSQL = `
-- Projects (isolated spatial workspaces, one SpatiaLite file each)
CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	description TEXT DEFAULT '',
	db_path TEXT NOT NULL,
	is_deleted INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_active_name
	ON projects(name) WHERE is_deleted = 0;

-- Scenarios (named analysis units, "assessments")
CREATE TABLE IF NOT EXISTS scenarios (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT UNIQUE NOT NULL,
	project_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	description TEXT DEFAULT '',
	target_layer TEXT DEFAULT '',
	is_deleted INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_scenarios_active_name
	ON scenarios(project_id, name) WHERE is_deleted = 0;

-- Layer refs (inputs/outputs bound to a scenario)
CREATE TABLE IF NOT EXISTS scenario_layers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario_id INTEGER NOT NULL,
	layer_name TEXT NOT NULL,
	layer_type TEXT NOT NULL CHECK(layer_type IN ('input', 'output', 'reference')),
	geometry_type TEXT DEFAULT '',
	table_name TEXT DEFAULT '',
	FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

-- Per-scenario, per-layer display flag
CREATE TABLE IF NOT EXISTS layer_visibility_state (
	scenario_id INTEGER NOT NULL,
	layer_name TEXT NOT NULL,
	visible INTEGER DEFAULT 1,
	PRIMARY KEY (scenario_id, layer_name),
	FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

-- Provenance (named grouping of recorded tasks under a scenario)
CREATE TABLE IF NOT EXISTS provenance (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT UNIQUE NOT NULL,
	scenario_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	description TEXT DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

-- Task details (one recorded operation step; forest via parent_task_id)
CREATE TABLE IF NOT EXISTS task_details (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT UNIQUE NOT NULL,
	provenance_id INTEGER NOT NULL,
	parent_task_id INTEGER DEFAULT NULL,
	step_order INTEGER NOT NULL,
	operation TEXT NOT NULL,
	category TEXT DEFAULT '',
	input_tables TEXT DEFAULT '',
	output_tables TEXT DEFAULT '',
	added_to_map INTEGER DEFAULT 1,
	duration_ms INTEGER DEFAULT 0,
	parameters TEXT DEFAULT '',
	comments TEXT DEFAULT '',
	engine_type TEXT DEFAULT 'spatialite',
	is_scenario INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (provenance_id) REFERENCES provenance(id) ON DELETE CASCADE,
	FOREIGN KEY (parent_task_id) REFERENCES task_details(id) ON DELETE SET NULL
);

-- Spatial references (overlay layer registration per scenario)
CREATE TABLE IF NOT EXISTS spatial_references (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT UNIQUE NOT NULL,
	scenario_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	overlay_layer_name TEXT DEFAULT '',
	source_tables TEXT DEFAULT '',
	srid INTEGER DEFAULT 4326,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (scenario_id) REFERENCES scenarios(id) ON DELETE CASCADE
);

-- App settings (single row)
CREATE TABLE IF NOT EXISTS app_settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	plugin_version TEXT DEFAULT '',
	default_project_dir TEXT DEFAULT '',
	default_base_layers_group TEXT DEFAULT 'Base Layers',
	output_group_name TEXT DEFAULT 'Output Layers',
	symbology_defaults TEXT DEFAULT '',
	misc TEXT DEFAULT ''
);
INSERT OR IGNORE INTO app_settings (id) VALUES (1);
`

// GetSchemaSQL returns the authoritative schema for test setup.
func GetSchemaSQL() string {
	return SchemaSQL
}
