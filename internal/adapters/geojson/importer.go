// Package geojson loads GeoJSON feature collections into project spatial
// stores.
package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	orbjson "github.com/paulmach/orb/geojson"

	"github.com/example/strata/internal/adapters/spatial"
	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// GeoJSON coordinates are WGS 84 by definition (RFC 7946).
const geoJSONSRID = 4326

// Importer implements secondary.FeatureSource for GeoJSON files.
type Importer struct {
	store *spatial.Store
}

// NewImporter creates a GeoJSON importer over the given store opener.
func NewImporter(store *spatial.Store) *Importer {
	return &Importer{store: store}
}

// Import reads features from sourcePath into the named table of the store at
// dbPath. The first import creates the table; a later import against the same
// table reconciles by feature identity, so unchanged features keep their rows.
// The base layer registry entry is updated in place either way.
func (i *Importer) Import(ctx context.Context, dbPath, sourcePath, tableName string) (*secondary.ImportResult, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &fault.NotFoundError{Kind: "geojson file", Ref: sourcePath}
		}
		return nil, fmt.Errorf("failed to read %s: %w", sourcePath, err)
	}

	collection, err := orbjson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &fault.ValidationError{Reason: fmt.Sprintf("invalid GeoJSON in %s: %v", sourcePath, err)}
	}
	if len(collection.Features) == 0 {
		return nil, &fault.ValidationError{Reason: fmt.Sprintf("%s contains no features", sourcePath)}
	}

	session, err := i.store.OpenSession(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	exists, err := session.TableExists(ctx, tableName)
	if err != nil {
		return nil, err
	}

	result := &secondary.ImportResult{}
	if exists {
		result.Inserted, result.Updated, result.Unchanged, err = i.upsertFeatures(ctx, session, tableName, collection)
		if err != nil {
			return nil, err
		}
	} else {
		if err := session.Exec(ctx, fmt.Sprintf(
			`CREATE TABLE %q (id INTEGER PRIMARY KEY AUTOINCREMENT, feature_id TEXT UNIQUE, properties TEXT, geom TEXT)`,
			tableName)); err != nil {
			return nil, err
		}
		result.Inserted, err = i.insertFeatures(ctx, session, tableName, collection)
		if err != nil {
			session.DropTable(ctx, tableName)
			return nil, err
		}
	}

	geometryType := CollectionGeometryType(collection)
	session.RegisterGeometry(ctx, tableName, "geom", geoJSONSRID, geometryType)

	total, err := session.RowCount(ctx, tableName)
	if err != nil {
		return nil, err
	}
	record := &secondary.BaseLayerRecord{
		Name:         tableName,
		TableName:    tableName,
		GeometryType: geometryType,
		SRID:         geoJSONSRID,
		SourcePath:   sourcePath,
		FeatureCount: total,
	}
	if err := session.RegisterBaseLayer(ctx, record); err != nil {
		return nil, err
	}
	result.Layer = record
	return result, nil
}

// insertFeatures writes each feature's properties as JSON and its geometry as
// WKT. Under SpatiaLite the WKT is parsed into a native geometry on insert.
func (i *Importer) insertFeatures(ctx context.Context, session *spatial.Session, tableName string, collection *orbjson.FeatureCollection) (int64, error) {
	insert := insertStatement(session, tableName)

	var count int64
	for idx, feature := range collection.Features {
		if feature.Geometry == nil {
			continue
		}

		props, err := json.Marshal(feature.Properties)
		if err != nil {
			return 0, fmt.Errorf("failed to encode properties of feature %d: %w", idx, err)
		}
		if err := session.Exec(ctx, insert, featureIdentity(feature, idx), string(props), wkt.MarshalString(feature.Geometry)); err != nil {
			return 0, fmt.Errorf("failed to insert feature %d: %w", idx, err)
		}
		count++
	}

	if count == 0 {
		return 0, &fault.ValidationError{Reason: "no features with geometry to import"}
	}
	return count, nil
}

// upsertFeatures reconciles the collection against an existing table by
// feature identity: unknown features are inserted, features whose properties
// or geometry changed are updated, and identical features are skipped.
func (i *Importer) upsertFeatures(ctx context.Context, session *spatial.Session, tableName string, collection *orbjson.FeatureCollection) (inserted, updated, unchanged int64, err error) {
	existing, err := loadExisting(ctx, session, tableName)
	if err != nil {
		return 0, 0, 0, err
	}

	insert := insertStatement(session, tableName)
	update := fmt.Sprintf("UPDATE %q SET properties = ?, geom = ? WHERE feature_id = ?", tableName)
	if session.Spatialite() {
		update = fmt.Sprintf("UPDATE %q SET properties = ?, geom = GeomFromText(?, %d) WHERE feature_id = ?", tableName, geoJSONSRID)
	}

	for idx, feature := range collection.Features {
		if feature.Geometry == nil {
			continue
		}

		props, err := json.Marshal(feature.Properties)
		if err != nil {
			return inserted, updated, unchanged, fmt.Errorf("failed to encode properties of feature %d: %w", idx, err)
		}
		geom := wkt.MarshalString(feature.Geometry)
		key := featureIdentity(feature, idx)

		have, known := existing[key]
		switch {
		case !known:
			if err := session.Exec(ctx, insert, key, string(props), geom); err != nil {
				return inserted, updated, unchanged, fmt.Errorf("failed to insert feature %s: %w", key, err)
			}
			inserted++
		case have.properties != string(props) || have.geom != geom:
			if err := session.Exec(ctx, update, string(props), geom, key); err != nil {
				return inserted, updated, unchanged, fmt.Errorf("failed to update feature %s: %w", key, err)
			}
			updated++
		default:
			unchanged++
		}
	}
	return inserted, updated, unchanged, nil
}

func insertStatement(session *spatial.Session, tableName string) string {
	if session.Spatialite() {
		return fmt.Sprintf("INSERT INTO %q (feature_id, properties, geom) VALUES (?, ?, GeomFromText(?, %d))", tableName, geoJSONSRID)
	}
	return fmt.Sprintf("INSERT INTO %q (feature_id, properties, geom) VALUES (?, ?, ?)", tableName)
}

type storedFeature struct {
	properties string
	geom       string
}

// loadExisting reads the current rows keyed by feature identity. Geometry
// comes back as WKT so it is comparable with freshly encoded features.
func loadExisting(ctx context.Context, session *spatial.Session, tableName string) (map[string]storedFeature, error) {
	geomExpr := "geom"
	if session.Spatialite() {
		geomExpr = "AsText(geom)"
	}
	rows, err := session.Query(ctx, fmt.Sprintf("SELECT feature_id, properties, %s FROM %q", geomExpr, tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]storedFeature)
	for rows.Next() {
		var key string
		var stored storedFeature
		if err := rows.Scan(&key, &stored.properties, &stored.geom); err != nil {
			return nil, &fault.StoreError{Op: "scan " + tableName, Err: err}
		}
		existing[key] = stored
	}
	return existing, rows.Err()
}

// featureIdentity returns the stable identity used for reconciliation: the
// GeoJSON feature id when present, else an "id" property, else the feature's
// position in the collection.
func featureIdentity(feature *orbjson.Feature, idx int) string {
	if feature.ID != nil {
		return fmt.Sprint(feature.ID)
	}
	if id, ok := feature.Properties["id"]; ok && id != nil {
		return fmt.Sprint(id)
	}
	return fmt.Sprintf("feature-%d", idx)
}

// CollectionGeometryType derives the common geometry type of a collection.
// Single and multi variants of the same base type collapse to the multi
// variant; anything mixed beyond that is GEOMETRY.
func CollectionGeometryType(collection *orbjson.FeatureCollection) string {
	common := ""
	for _, feature := range collection.Features {
		if feature.Geometry == nil {
			continue
		}
		name := multiVariant(feature.Geometry)
		if common == "" {
			common = name
			continue
		}
		if common != name {
			return "GEOMETRY"
		}
	}
	if common == "" {
		return "GEOMETRY"
	}
	return common
}

func multiVariant(geometry orb.Geometry) string {
	switch geometry.(type) {
	case orb.Point, orb.MultiPoint:
		return "MULTIPOINT"
	case orb.LineString, orb.MultiLineString:
		return "MULTILINESTRING"
	case orb.Polygon, orb.MultiPolygon:
		return "MULTIPOLYGON"
	default:
		return "GEOMETRY"
	}
}
