package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// Interface conformance for the mocks.
var (
	_ secondary.ProjectRepository    = (*mockProjectRepo)(nil)
	_ secondary.ScenarioRepository   = (*mockScenarioRepo)(nil)
	_ secondary.VisibilityRepository = (*mockVisibilityRepo)(nil)
	_ secondary.ProvenanceRepository = (*mockProvenanceRepo)(nil)
	_ secondary.SpatialRefRepository = (*mockSpatialRefRepo)(nil)
	_ secondary.TaskRepository       = (*mockTaskRepo)(nil)
	_ secondary.SettingsRepository   = (*mockSettingsRepo)(nil)
	_ secondary.SpatialOpener        = (*mockOpener)(nil)
	_ secondary.SpatialSession       = (*mockSession)(nil)
	_ secondary.VersionStore         = (*mockVersionStore)(nil)
	_ secondary.LayerPresenter       = (*mockPresenter)(nil)
	_ secondary.FeatureSource        = (*mockFeatureSource)(nil)
	_ secondary.LegacySource         = (*mockLegacySource)(nil)
)

// --- metadata repositories ---

type mockProjectRepo struct {
	projects map[int64]*secondary.ProjectRecord
	nextID   int64
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[int64]*secondary.ProjectRecord), nextID: 1}
}

func (m *mockProjectRepo) Create(ctx context.Context, project *secondary.ProjectRecord) error {
	for _, existing := range m.projects {
		if !existing.IsDeleted && existing.Name == project.Name {
			return fmt.Errorf("UNIQUE constraint failed: projects.name")
		}
	}
	project.ID = m.nextID
	m.nextID++
	clone := *project
	m.projects[project.ID] = &clone
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id int64) (*secondary.ProjectRecord, error) {
	if project, ok := m.projects[id]; ok {
		clone := *project
		return &clone, nil
	}
	return nil, &fault.NotFoundError{Kind: "project", Ref: fmt.Sprintf("%d", id)}
}

func (m *mockProjectRepo) GetByName(ctx context.Context, name string) (*secondary.ProjectRecord, error) {
	for _, project := range m.projects {
		if !project.IsDeleted && project.Name == name {
			clone := *project
			return &clone, nil
		}
	}
	return nil, &fault.NotFoundError{Kind: "project", Ref: name}
}

func (m *mockProjectRepo) List(ctx context.Context) ([]*secondary.ProjectRecord, error) {
	var records []*secondary.ProjectRecord
	for _, project := range m.projects {
		if !project.IsDeleted {
			clone := *project
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

func (m *mockProjectRepo) SoftDelete(ctx context.Context, id int64) error {
	project, ok := m.projects[id]
	if !ok {
		return &fault.NotFoundError{Kind: "project", Ref: fmt.Sprintf("%d", id)}
	}
	project.IsDeleted = true
	return nil
}

func (m *mockProjectRepo) Purge(ctx context.Context, id int64) error {
	if _, ok := m.projects[id]; !ok {
		return &fault.NotFoundError{Kind: "project", Ref: fmt.Sprintf("%d", id)}
	}
	delete(m.projects, id)
	return nil
}

type mockScenarioRepo struct {
	scenarios map[int64]*secondary.ScenarioRecord
	layers    []*secondary.LayerRecord
	nextID    int64
}

func newMockScenarioRepo() *mockScenarioRepo {
	return &mockScenarioRepo{scenarios: make(map[int64]*secondary.ScenarioRecord), nextID: 1}
}

func (m *mockScenarioRepo) Create(ctx context.Context, scenario *secondary.ScenarioRecord) error {
	scenario.ID = m.nextID
	m.nextID++
	clone := *scenario
	m.scenarios[scenario.ID] = &clone
	return nil
}

func (m *mockScenarioRepo) GetByID(ctx context.Context, id int64) (*secondary.ScenarioRecord, error) {
	if scenario, ok := m.scenarios[id]; ok {
		clone := *scenario
		return &clone, nil
	}
	return nil, &fault.NotFoundError{Kind: "scenario", Ref: fmt.Sprintf("%d", id)}
}

func (m *mockScenarioRepo) ListForProject(ctx context.Context, projectID int64) ([]*secondary.ScenarioRecord, error) {
	var records []*secondary.ScenarioRecord
	for _, scenario := range m.scenarios {
		if scenario.ProjectID == projectID && !scenario.IsDeleted {
			clone := *scenario
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

func (m *mockScenarioRepo) NameExists(ctx context.Context, projectID int64, name string) (bool, error) {
	for _, scenario := range m.scenarios {
		if scenario.ProjectID == projectID && scenario.Name == name && !scenario.IsDeleted {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockScenarioRepo) SoftDelete(ctx context.Context, id int64) error {
	scenario, ok := m.scenarios[id]
	if !ok {
		return &fault.NotFoundError{Kind: "scenario", Ref: fmt.Sprintf("%d", id)}
	}
	scenario.IsDeleted = true
	return nil
}

func (m *mockScenarioRepo) Purge(ctx context.Context, id int64) error {
	if _, ok := m.scenarios[id]; !ok {
		return &fault.NotFoundError{Kind: "scenario", Ref: fmt.Sprintf("%d", id)}
	}
	delete(m.scenarios, id)
	return nil
}

func (m *mockScenarioRepo) AddLayer(ctx context.Context, layer *secondary.LayerRecord) error {
	layer.ID = int64(len(m.layers) + 1)
	clone := *layer
	m.layers = append(m.layers, &clone)
	return nil
}

func (m *mockScenarioRepo) GetLayers(ctx context.Context, scenarioID int64, layerType string) ([]*secondary.LayerRecord, error) {
	var records []*secondary.LayerRecord
	for _, layer := range m.layers {
		if layer.ScenarioID != scenarioID {
			continue
		}
		if layerType != "" && layer.LayerType != layerType {
			continue
		}
		clone := *layer
		records = append(records, &clone)
	}
	return records, nil
}

func (m *mockScenarioRepo) SetLayerTable(ctx context.Context, scenarioID int64, layerName, tableName string) error {
	for _, layer := range m.layers {
		if layer.ScenarioID == scenarioID && layer.LayerName == layerName {
			layer.TableName = tableName
			return nil
		}
	}
	return &fault.NotFoundError{Kind: "layer", Ref: layerName}
}

type mockVisibilityRepo struct {
	state map[int64]map[string]bool
}

func newMockVisibilityRepo() *mockVisibilityRepo {
	return &mockVisibilityRepo{state: make(map[int64]map[string]bool)}
}

func (m *mockVisibilityRepo) Set(ctx context.Context, scenarioID int64, layerName string, visible bool) error {
	if m.state[scenarioID] == nil {
		m.state[scenarioID] = make(map[string]bool)
	}
	m.state[scenarioID][layerName] = visible
	return nil
}

func (m *mockVisibilityRepo) Get(ctx context.Context, scenarioID int64) (map[string]bool, error) {
	out := make(map[string]bool)
	for name, visible := range m.state[scenarioID] {
		out[name] = visible
	}
	return out, nil
}

func (m *mockVisibilityRepo) Visible(ctx context.Context, scenarioID int64) ([]string, error) {
	var names []string
	for name, visible := range m.state[scenarioID] {
		if visible {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

type mockSpatialRefRepo struct {
	refs   []*secondary.SpatialRefRecord
	nextID int64
}

func newMockSpatialRefRepo() *mockSpatialRefRepo {
	return &mockSpatialRefRepo{nextID: 1}
}

func (m *mockSpatialRefRepo) Create(ctx context.Context, ref *secondary.SpatialRefRecord) error {
	ref.ID = m.nextID
	m.nextID++
	clone := *ref
	m.refs = append(m.refs, &clone)
	return nil
}

func (m *mockSpatialRefRepo) ListForScenario(ctx context.Context, scenarioID int64) ([]*secondary.SpatialRefRecord, error) {
	var records []*secondary.SpatialRefRecord
	for _, ref := range m.refs {
		if ref.ScenarioID == scenarioID {
			clone := *ref
			records = append(records, &clone)
		}
	}
	return records, nil
}

type mockProvenanceRepo struct {
	records map[int64]*secondary.ProvenanceRecord
	nextID  int64
}

func newMockProvenanceRepo() *mockProvenanceRepo {
	return &mockProvenanceRepo{records: make(map[int64]*secondary.ProvenanceRecord), nextID: 1}
}

func (m *mockProvenanceRepo) Create(ctx context.Context, prov *secondary.ProvenanceRecord) error {
	prov.ID = m.nextID
	m.nextID++
	clone := *prov
	m.records[prov.ID] = &clone
	return nil
}

func (m *mockProvenanceRepo) GetByID(ctx context.Context, id int64) (*secondary.ProvenanceRecord, error) {
	if prov, ok := m.records[id]; ok {
		clone := *prov
		return &clone, nil
	}
	return nil, &fault.NotFoundError{Kind: "provenance", Ref: fmt.Sprintf("%d", id)}
}

func (m *mockProvenanceRepo) ListForScenario(ctx context.Context, scenarioID int64) ([]*secondary.ProvenanceRecord, error) {
	var records []*secondary.ProvenanceRecord
	for _, prov := range m.records {
		if prov.ScenarioID == scenarioID {
			clone := *prov
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (m *mockProvenanceRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return &fault.NotFoundError{Kind: "provenance", Ref: fmt.Sprintf("%d", id)}
	}
	delete(m.records, id)
	return nil
}

type mockTaskRepo struct {
	tasks  map[int64]*secondary.TaskRecord
	nextID int64
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[int64]*secondary.TaskRecord), nextID: 1}
}

func (m *mockTaskRepo) Create(ctx context.Context, task *secondary.TaskRecord) error {
	if task.StepOrder == 0 {
		max := 0
		for _, existing := range m.tasks {
			if existing.ProvenanceID == task.ProvenanceID && existing.ParentTaskID == task.ParentTaskID && existing.StepOrder > max {
				max = existing.StepOrder
			}
		}
		task.StepOrder = max + 1
	}
	task.ID = m.nextID
	m.nextID++
	clone := *task
	m.tasks[task.ID] = &clone
	return nil
}

func (m *mockTaskRepo) GetByID(ctx context.Context, id int64) (*secondary.TaskRecord, error) {
	if task, ok := m.tasks[id]; ok {
		clone := *task
		return &clone, nil
	}
	return nil, &fault.NotFoundError{Kind: "task", Ref: fmt.Sprintf("%d", id)}
}

func (m *mockTaskRepo) ListForProvenance(ctx context.Context, provenanceID int64) ([]*secondary.TaskRecord, error) {
	var records []*secondary.TaskRecord
	for _, task := range m.tasks {
		if task.ProvenanceID == provenanceID {
			clone := *task
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].StepOrder != records[j].StepOrder {
			return records[i].StepOrder < records[j].StepOrder
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (m *mockTaskRepo) ListChildren(ctx context.Context, parentTaskID int64) ([]*secondary.TaskRecord, error) {
	var records []*secondary.TaskRecord
	for _, task := range m.tasks {
		if task.ParentTaskID == parentTaskID {
			clone := *task
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StepOrder < records[j].StepOrder })
	return records, nil
}

func (m *mockTaskRepo) UpdateDuration(ctx context.Context, id int64, durationMS int64) error {
	task, ok := m.tasks[id]
	if !ok {
		return &fault.NotFoundError{Kind: "task", Ref: fmt.Sprintf("%d", id)}
	}
	task.DurationMS = durationMS
	return nil
}

type mockSettingsRepo struct {
	values map[string]string
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{values: map[string]string{"output_group_name": "Output Layers"}}
}

func (m *mockSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	if value, ok := m.values[key]; ok {
		return value, nil
	}
	return "", &fault.ValidationError{Reason: "unknown setting " + key}
}

func (m *mockSettingsRepo) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

// --- spatial store ---

type mockOpener struct {
	session *mockSession
	openErr error
	opened  []string
}

func newMockOpener(session *mockSession) *mockOpener {
	return &mockOpener{session: session}
}

func (m *mockOpener) Open(ctx context.Context, dbPath string) (secondary.SpatialSession, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.opened = append(m.opened, dbPath)
	return m.session, nil
}

// mockSession simulates a project store: a set of tables with row counts and
// an in-memory version chain.
type mockSession struct {
	tables      map[string]int64
	versions    *mockVersionStore
	baseLayers  map[string]*secondary.BaseLayerRecord
	dropped     []string
	combines    []string
	validateErr error
	combineErr  error
	renameErr   error
	dropErrs    map[string]error
	closed      int
}

func newMockSession() *mockSession {
	return &mockSession{
		tables:     make(map[string]int64),
		versions:   newMockVersionStore(),
		baseLayers: make(map[string]*secondary.BaseLayerRecord),
		dropErrs:   make(map[string]error),
	}
}

func (m *mockSession) Close() error {
	m.closed++
	return nil
}

func (m *mockSession) TableExists(ctx context.Context, name string) (bool, error) {
	_, ok := m.tables[name]
	return ok, nil
}

func (m *mockSession) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockSession) DropTable(ctx context.Context, name string) error {
	if err := m.dropErrs[name]; err != nil {
		return err
	}
	if _, ok := m.tables[name]; ok {
		delete(m.tables, name)
		m.dropped = append(m.dropped, name)
	}
	return nil
}

func (m *mockSession) RenameTable(ctx context.Context, oldName, newName string) error {
	if m.renameErr != nil {
		return m.renameErr
	}
	rows, ok := m.tables[oldName]
	if !ok {
		return &fault.StoreError{Op: "rename", Err: fmt.Errorf("table %s does not exist", oldName)}
	}
	delete(m.tables, oldName)
	m.tables[newName] = rows
	return nil
}

func (m *mockSession) RowCount(ctx context.Context, name string) (int64, error) {
	rows, ok := m.tables[name]
	if !ok {
		return 0, &fault.StoreError{Op: "count", Err: fmt.Errorf("no such table %s", name)}
	}
	return rows, nil
}

func (m *mockSession) ValidateCompatibility(ctx context.Context, target, comparison string) error {
	if m.validateErr != nil {
		return m.validateErr
	}
	for _, table := range []string{target, comparison} {
		if _, ok := m.tables[table]; !ok {
			return &fault.NotFoundError{Kind: "table", Ref: table}
		}
	}
	return nil
}

func (m *mockSession) Combine(ctx context.Context, target, comparison, output string, mode secondary.CombineMode) (int64, error) {
	if m.combineErr != nil {
		return 0, m.combineErr
	}
	if err := m.ValidateCompatibility(ctx, target, comparison); err != nil {
		return 0, err
	}
	m.combines = append(m.combines, fmt.Sprintf("%s:%s", mode, output))
	m.tables[output] = m.tables[target] + m.tables[comparison]
	return m.tables[output], nil
}

func (m *mockSession) Summary(ctx context.Context, table string) (*secondary.TableSummary, error) {
	rows, ok := m.tables[table]
	if !ok {
		return nil, &fault.NotFoundError{Kind: "table", Ref: table}
	}
	return &secondary.TableSummary{Table: table, RowCount: rows}, nil
}

func (m *mockSession) Versions() secondary.VersionStore {
	return m.versions
}

func (m *mockSession) RegisterBaseLayer(ctx context.Context, layer *secondary.BaseLayerRecord) error {
	clone := *layer
	m.baseLayers[layer.Name] = &clone
	return nil
}

func (m *mockSession) ListBaseLayers(ctx context.Context) ([]*secondary.BaseLayerRecord, error) {
	var layers []*secondary.BaseLayerRecord
	for _, layer := range m.baseLayers {
		clone := *layer
		layers = append(layers, &clone)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].Name < layers[j].Name })
	return layers, nil
}

// hasTempTables reports whether any staging table is left behind.
func (m *mockSession) hasTempTables() bool {
	for name := range m.tables {
		if strings.Contains(name, "_tmp_") {
			return true
		}
	}
	return false
}

type mockVersionStore struct {
	records map[int64]*secondary.VersionRecord
	nextID  int64
}

func newMockVersionStore() *mockVersionStore {
	return &mockVersionStore{records: make(map[int64]*secondary.VersionRecord), nextID: 1}
}

func (m *mockVersionStore) List(ctx context.Context, outputName string) ([]*secondary.VersionRecord, error) {
	var records []*secondary.VersionRecord
	for _, record := range m.records {
		if record.OutputName == outputName {
			clone := *record
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID > records[j].ID })
	return records, nil
}

func (m *mockVersionStore) GetByID(ctx context.Context, id int64) (*secondary.VersionRecord, error) {
	if record, ok := m.records[id]; ok {
		clone := *record
		return &clone, nil
	}
	return nil, &fault.NotFoundError{Kind: "version", Ref: fmt.Sprintf("%d", id)}
}

func (m *mockVersionStore) GetCurrent(ctx context.Context, outputName string) (*secondary.VersionRecord, error) {
	for _, record := range m.records {
		if record.OutputName == outputName && record.IsCurrent {
			clone := *record
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockVersionStore) Create(ctx context.Context, rec *secondary.VersionRecord) (int64, error) {
	for _, record := range m.records {
		if record.OutputName == rec.OutputName {
			record.IsCurrent = false
		}
	}
	rec.ID = m.nextID
	m.nextID++
	rec.IsCurrent = true
	clone := *rec
	m.records[rec.ID] = &clone
	return rec.ID, nil
}

func (m *mockVersionStore) SetCurrent(ctx context.Context, id int64) error {
	target, ok := m.records[id]
	if !ok {
		return &fault.NotFoundError{Kind: "version", Ref: fmt.Sprintf("%d", id)}
	}
	for _, record := range m.records {
		if record.OutputName == target.OutputName {
			record.IsCurrent = false
		}
	}
	target.IsCurrent = true
	return nil
}

// --- presentation and import ---

type mockPresenter struct {
	presented []secondary.LayerHandle
	removeLog []secondary.LayerHandle
	err       error
}

func (m *mockPresenter) Present(ctx context.Context, dbPath string, handle secondary.LayerHandle) error {
	if m.err != nil {
		return m.err
	}
	m.presented = append(m.presented, handle)
	return nil
}

func (m *mockPresenter) Remove(ctx context.Context, handle secondary.LayerHandle) error {
	m.removeLog = append(m.removeLog, handle)
	return nil
}

type mockFeatureSource struct {
	imports []string
	result  *secondary.ImportResult
	err     error
}

func (m *mockFeatureSource) Import(ctx context.Context, dbPath, sourcePath, tableName string) (*secondary.ImportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.imports = append(m.imports, tableName)
	if m.result != nil {
		return m.result, nil
	}
	return &secondary.ImportResult{
		Layer:    &secondary.BaseLayerRecord{Name: tableName, TableName: tableName, SRID: 4326},
		Inserted: 1,
	}, nil
}

type mockLegacySource struct {
	snapshot *secondary.LegacySnapshot
	err      error
}

func (m *mockLegacySource) Read(ctx context.Context, path string) (*secondary.LegacySnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}
