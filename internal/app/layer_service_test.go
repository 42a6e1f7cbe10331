package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/ports/secondary"
)

func newLayerFixture(t *testing.T) (*LayerServiceImpl, *mockFeatureSource, *mockSession) {
	t.Helper()

	projects := newMockProjectRepo()
	if err := projects.Create(context.Background(), &secondary.ProjectRecord{
		UUID: "u-1", Name: "coastal", DBPath: "/tmp/coastal.sqlite",
	}); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	source := &mockFeatureSource{}
	session := newMockSession()
	return NewLayerService(projects, source, newMockOpener(session)), source, session
}

func TestImportLayer_TableNameFromFileStem(t *testing.T) {
	service, source, _ := newLayerFixture(t)

	resp, err := service.ImportLayer(context.Background(), primary.ImportLayerRequest{
		ProjectName: "coastal",
		SourcePath:  "/data/Flood Zones.geojson",
	})
	if err != nil {
		t.Fatalf("ImportLayer() error = %v", err)
	}

	if resp.Layer.TableName != "flood_zones" {
		t.Errorf("TableName = %q, want flood_zones", resp.Layer.TableName)
	}
	if len(source.imports) != 1 || source.imports[0] != "flood_zones" {
		t.Errorf("imports = %v", source.imports)
	}
}

func TestImportLayer_ExplicitTableNameSanitized(t *testing.T) {
	service, source, _ := newLayerFixture(t)

	_, err := service.ImportLayer(context.Background(), primary.ImportLayerRequest{
		ProjectName: "coastal",
		SourcePath:  "/data/zones.geojson",
		TableName:   "Surge Zones 2026",
	})
	if err != nil {
		t.Fatalf("ImportLayer() error = %v", err)
	}
	if source.imports[0] != "surge_zones_2026" {
		t.Errorf("table = %q, want surge_zones_2026", source.imports[0])
	}
}

func TestImportLayer_ReimportCountsReported(t *testing.T) {
	service, source, _ := newLayerFixture(t)
	source.result = &secondary.ImportResult{
		Layer:     &secondary.BaseLayerRecord{Name: "parcels", TableName: "parcels", SRID: 4326, FeatureCount: 6},
		Inserted:  1,
		Updated:   2,
		Unchanged: 3,
	}

	resp, err := service.ImportLayer(context.Background(), primary.ImportLayerRequest{
		ProjectName: "coastal",
		SourcePath:  "/data/parcels.geojson",
	})
	if err != nil {
		t.Fatalf("ImportLayer() error = %v", err)
	}

	if resp.Inserted != 1 || resp.Updated != 2 || resp.Unchanged != 3 {
		t.Errorf("counts = %d/%d/%d, want 1/2/3", resp.Inserted, resp.Updated, resp.Unchanged)
	}
	if resp.Layer.FeatureCount != 6 {
		t.Errorf("FeatureCount = %d, want 6", resp.Layer.FeatureCount)
	}
}

func TestImportLayer_BlankSource(t *testing.T) {
	service, _, _ := newLayerFixture(t)

	_, err := service.ImportLayer(context.Background(), primary.ImportLayerRequest{
		ProjectName: "coastal",
	})

	var valErr *fault.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestImportLayer_UnknownProject(t *testing.T) {
	service, _, _ := newLayerFixture(t)

	_, err := service.ImportLayer(context.Background(), primary.ImportLayerRequest{
		ProjectName: "missing",
		SourcePath:  "/data/zones.geojson",
	})

	var notFound *fault.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestListLayers(t *testing.T) {
	service, _, session := newLayerFixture(t)
	ctx := context.Background()

	session.baseLayers["parcels"] = &secondary.BaseLayerRecord{Name: "parcels", TableName: "parcels", SRID: 4326}
	session.baseLayers["zones"] = &secondary.BaseLayerRecord{Name: "zones", TableName: "zones", SRID: 4326}

	layers, err := service.ListLayers(ctx, "coastal")
	if err != nil {
		t.Fatalf("ListLayers() error = %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(layers))
	}
	if layers[0].Name != "parcels" {
		t.Errorf("layers[0] = %q", layers[0].Name)
	}
}

func TestDropTable(t *testing.T) {
	service, _, session := newLayerFixture(t)
	ctx := context.Background()
	session.tables["scratch"] = 3

	if err := service.DropTable(ctx, "coastal", "scratch"); err != nil {
		t.Fatalf("DropTable() error = %v", err)
	}
	if exists, _ := session.TableExists(ctx, "scratch"); exists {
		t.Error("table should be gone")
	}

	err := service.DropTable(ctx, "coastal", "scratch")
	var notFound *fault.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("second drop error = %v, want NotFoundError", err)
	}
}
