package spatial

import (
	"context"
	"database/sql"
	"fmt"
)

// geomInfo is the geometry_columns registration of one table. Type codes are
// the SpatiaLite integers: base type in the low digits, coordinate dimension
// in the thousands (1000 = XYZ, 2000 = XYM, 3000 = XYZM).
type geomInfo struct {
	column   string
	typeCode int
	srid     int
}

// geometryInfo reads the geometry_columns row for a table. Returns nil when
// the catalog or the registration is absent.
func (s *Session) geometryInfo(ctx context.Context, table string) (*geomInfo, error) {
	exists, err := s.TableExists(ctx, "geometry_columns")
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	info := &geomInfo{}
	err = s.db.QueryRowContext(ctx,
		"SELECT f_geometry_column, geometry_type, srid FROM geometry_columns WHERE f_table_name = ?",
		table,
	).Scan(&info.column, &info.typeCode, &info.srid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry registration for %s: %w", table, err)
	}
	return info, nil
}

var typeNames = map[int]string{
	0: "GEOMETRY",
	1: "POINT",
	2: "LINESTRING",
	3: "POLYGON",
	4: "MULTIPOINT",
	5: "MULTILINESTRING",
	6: "MULTIPOLYGON",
	7: "GEOMETRYCOLLECTION",
}

// typeNameFromCode maps a SpatiaLite type code to its base type name,
// ignoring the dimension offset.
func typeNameFromCode(code int) string {
	if name, ok := typeNames[code%1000]; ok {
		return name
	}
	return "GEOMETRY"
}

// coordDimFromCode maps a type code to its coordinate dimension string.
func coordDimFromCode(code int) string {
	switch code / 1000 {
	case 1:
		return "XYZ"
	case 2:
		return "XYM"
	case 3:
		return "XYZM"
	default:
		return "XY"
	}
}

// polygonal reports whether a type code is POLYGON or MULTIPOLYGON in any
// dimension.
func polygonal(code int) bool {
	base := code % 1000
	return base == 3 || base == 6
}

// recoverGeometry registers a geometry column, falling back through broader
// types when the exact one is rejected. Index creation is best-effort.
func (s *Session) recoverGeometry(ctx context.Context, table, column string, srid int, detectedType string) {
	candidates := []string{detectedType, "MULTIPOLYGON", "POLYGON", "GEOMETRY"}
	for _, typeName := range candidates {
		if typeName == "" {
			continue
		}
		var ok int
		err := s.db.QueryRowContext(ctx,
			"SELECT RecoverGeometryColumn(?, ?, ?, ?, 'XY')",
			table, column, srid, typeName,
		).Scan(&ok)
		if err == nil && ok == 1 {
			break
		}
	}
	s.db.ExecContext(ctx, "SELECT CreateSpatialIndex(?, ?)", table, column)
}
