// Package wire provides dependency injection for the strata application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	cliadapter "github.com/example/strata/internal/adapters/cli"
	"github.com/example/strata/internal/adapters/geojson"
	"github.com/example/strata/internal/adapters/presenter"
	"github.com/example/strata/internal/adapters/spatial"
	"github.com/example/strata/internal/adapters/sqlite"
	"github.com/example/strata/internal/app"
	"github.com/example/strata/internal/config"
	"github.com/example/strata/internal/db"
	"github.com/example/strata/internal/ports/primary"
)

var (
	projectService    primary.ProjectService
	scenarioService   primary.ScenarioService
	overlayService    primary.OverlayService
	layerService      primary.LayerService
	provenanceService primary.ProvenanceService
	adminService      primary.AdminService
	once              sync.Once
)

// ProjectService returns the singleton ProjectService instance.
func ProjectService() primary.ProjectService {
	once.Do(initServices)
	return projectService
}

// ScenarioService returns the singleton ScenarioService instance.
func ScenarioService() primary.ScenarioService {
	once.Do(initServices)
	return scenarioService
}

// OverlayService returns the singleton OverlayService instance.
func OverlayService() primary.OverlayService {
	once.Do(initServices)
	return overlayService
}

// LayerService returns the singleton LayerService instance.
func LayerService() primary.LayerService {
	once.Do(initServices)
	return layerService
}

// ProvenanceService returns the singleton ProvenanceService instance.
func ProvenanceService() primary.ProvenanceService {
	once.Do(initServices)
	return provenanceService
}

// AdminService returns the singleton AdminService instance.
func AdminService() primary.AdminService {
	once.Do(initServices)
	return adminService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	projectsDir, err := db.ProjectsDir()
	if err != nil {
		log.Fatalf("failed to resolve projects directory: %v", err)
	}
	if err := os.MkdirAll(projectsDir, 0755); err != nil {
		log.Fatalf("failed to create projects directory: %v", err)
	}

	// Repository adapters (secondary ports) - sqlite adapters with injected DB
	projectRepo := sqlite.NewProjectRepository(database)
	scenarioRepo := sqlite.NewScenarioRepository(database)
	visibilityRepo := sqlite.NewVisibilityRepository(database)
	provRepo := sqlite.NewProvenanceRepository(database)
	taskRepo := sqlite.NewTaskRepository(database)
	settingsRepo := sqlite.NewSettingsRepository(database)
	spatialRefRepo := sqlite.NewSpatialRefRepository(database)
	legacyReader := sqlite.NewLegacyReader()

	// Spatial store, feature import, and the display manifest
	store := spatial.NewStore()
	importer := geojson.NewImporter(store)
	layerManifest := presenter.NewManifestPresenter(manifestPath())

	// Services (primary ports implementation)
	projectService = app.NewProjectService(projectRepo, scenarioRepo, store, projectsDir)
	scenarioService = app.NewScenarioService(projectRepo, scenarioRepo, visibilityRepo, spatialRefRepo, store)
	overlayService = app.NewOverlayService(projectRepo, store, layerManifest, settingsRepo)
	layerService = app.NewLayerService(projectRepo, importer, store)
	provenanceService = app.NewProvenanceService(projectRepo, scenarioRepo, provRepo, taskRepo)
	adminService = app.NewAdminService(settingsRepo, projectRepo, scenarioRepo, provRepo, taskRepo, legacyReader)
}

func manifestPath() string {
	home, err := config.HomeDir()
	if err != nil {
		// Degrade to the working directory rather than failing startup.
		return "strata-layers.json"
	}
	return filepath.Join(home, "layers.json")
}

// OverlayAdapter returns a new OverlayAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func OverlayAdapter() *cliadapter.OverlayAdapter {
	return OverlayAdapterWithOutput(os.Stdout)
}

// OverlayAdapterWithOutput returns a new OverlayAdapter writing to the given
// output. This variant allows testing or alternate output destinations.
func OverlayAdapterWithOutput(out io.Writer) *cliadapter.OverlayAdapter {
	once.Do(initServices)
	return cliadapter.NewOverlayAdapter(overlayService, out)
}

// ProjectAdapter returns a new ProjectAdapter writing to stdout.
func ProjectAdapter() *cliadapter.ProjectAdapter {
	return ProjectAdapterWithOutput(os.Stdout)
}

// ProjectAdapterWithOutput returns a new ProjectAdapter writing to the given
// output.
func ProjectAdapterWithOutput(out io.Writer) *cliadapter.ProjectAdapter {
	once.Do(initServices)
	return cliadapter.NewProjectAdapter(projectService, out)
}
