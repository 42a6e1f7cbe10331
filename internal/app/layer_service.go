package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/example/strata/internal/core/naming"
	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/ports/secondary"
)

// LayerServiceImpl implements the LayerService interface.
type LayerServiceImpl struct {
	projectRepo secondary.ProjectRepository
	source      secondary.FeatureSource
	opener      secondary.SpatialOpener
}

// NewLayerService creates a new LayerService with injected dependencies.
func NewLayerService(
	projectRepo secondary.ProjectRepository,
	source secondary.FeatureSource,
	opener secondary.SpatialOpener,
) *LayerServiceImpl {
	return &LayerServiceImpl{
		projectRepo: projectRepo,
		source:      source,
		opener:      opener,
	}
}

// ImportLayer loads a GeoJSON file into a project's spatial store and
// registers it as a base layer.
func (s *LayerServiceImpl) ImportLayer(ctx context.Context, req primary.ImportLayerRequest) (*primary.ImportLayerResponse, error) {
	if strings.TrimSpace(req.SourcePath) == "" {
		return nil, &fault.ValidationError{Reason: "source path is required"}
	}

	project, err := s.projectRepo.GetByName(ctx, req.ProjectName)
	if err != nil {
		return nil, err
	}

	tableName := req.TableName
	if tableName == "" {
		stem := strings.TrimSuffix(filepath.Base(req.SourcePath), filepath.Ext(req.SourcePath))
		tableName = stem
	}
	tableName = naming.Sanitize(tableName)

	result, err := s.source.Import(ctx, project.DBPath, req.SourcePath, tableName)
	if err != nil {
		return nil, err
	}
	return &primary.ImportLayerResponse{
		Layer:     result.Layer,
		Inserted:  result.Inserted,
		Updated:   result.Updated,
		Unchanged: result.Unchanged,
	}, nil
}

// ListLayers returns the registered base layers of a project.
func (s *LayerServiceImpl) ListLayers(ctx context.Context, projectName string) ([]*secondary.BaseLayerRecord, error) {
	project, err := s.projectRepo.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}

	session, err := s.opener.Open(ctx, project.DBPath)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return session.ListBaseLayers(ctx)
}

// ListTables returns the spatial tables of a project's store.
func (s *LayerServiceImpl) ListTables(ctx context.Context, projectName string) ([]string, error) {
	project, err := s.projectRepo.GetByName(ctx, projectName)
	if err != nil {
		return nil, err
	}

	session, err := s.opener.Open(ctx, project.DBPath)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return session.ListTables(ctx)
}

// DropTable removes a table from a project's store.
func (s *LayerServiceImpl) DropTable(ctx context.Context, projectName, tableName string) error {
	project, err := s.projectRepo.GetByName(ctx, projectName)
	if err != nil {
		return err
	}

	session, err := s.opener.Open(ctx, project.DBPath)
	if err != nil {
		return err
	}
	defer session.Close()

	exists, err := session.TableExists(ctx, tableName)
	if err != nil {
		return err
	}
	if !exists {
		return &fault.NotFoundError{Kind: "table", Ref: tableName}
	}
	return session.DropTable(ctx, tableName)
}
