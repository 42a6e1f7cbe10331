package spatial

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// Combine runs one spatial combination of target and comparison into the
// output table. The output carries geom, split_type, area, and perimeter
// columns and inherits the target's SRID. An existing output table is
// replaced.
func (s *Session) Combine(ctx context.Context, target, comparison, output string, mode secondary.CombineMode) (int64, error) {
	if !s.spatialite {
		return 0, &fault.StoreError{Op: "combine", Err: fmt.Errorf("spatialite extension not loaded")}
	}

	if err := s.ValidateCompatibility(ctx, target, comparison); err != nil {
		return 0, err
	}

	targetInfo, err := s.geometryInfo(ctx, target)
	if err != nil {
		return 0, err
	}
	comparisonInfo, err := s.geometryInfo(ctx, comparison)
	if err != nil {
		return 0, err
	}

	if err := s.DropTable(ctx, output); err != nil {
		return 0, err
	}

	var query string
	switch mode {
	case secondary.CombineIntersect:
		query = buildIntersectSQL(target, targetInfo.column, comparison, comparisonInfo.column, output)
	case secondary.CombineUnion:
		query = buildUnionSQL(target, targetInfo.column, comparison, comparisonInfo.column, output)
	default:
		return 0, &fault.ValidationError{Reason: fmt.Sprintf("unknown combine mode %q", mode)}
	}

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		s.DropTable(ctx, output)
		return 0, &fault.StoreError{Op: string(mode) + " " + output, Err: err}
	}

	detected, err := s.detectGeometryType(ctx, output)
	if err != nil {
		return 0, err
	}
	s.recoverGeometry(ctx, output, "geom", targetInfo.srid, detected)

	return s.RowCount(ctx, output)
}

// buildIntersectSQL produces the pairwise intersection of two polygonal
// tables. Non-areal intersection results (points, lines from touching
// boundaries) are filtered out.
func buildIntersectSQL(target, targetCol, comparison, comparisonCol, output string) string {
	return fmt.Sprintf(`CREATE TABLE %q AS
SELECT a.ROWID AS target_fid,
       b.ROWID AS comparison_fid,
       CastToMultiPolygon(Intersection(a.%q, b.%q)) AS geom,
       'intersect' AS split_type,
       Area(Intersection(a.%q, b.%q)) AS area,
       Perimeter(Intersection(a.%q, b.%q)) AS perimeter
FROM %q a
JOIN %q b ON Intersects(a.%q, b.%q)
WHERE GeometryType(Intersection(a.%q, b.%q)) IN ('POLYGON', 'MULTIPOLYGON')`,
		output,
		targetCol, comparisonCol,
		targetCol, comparisonCol,
		targetCol, comparisonCol,
		target, comparison,
		targetCol, comparisonCol,
		targetCol, comparisonCol)
}

// buildUnionSQL produces the single merged coverage of both tables.
func buildUnionSQL(target, targetCol, comparison, comparisonCol, output string) string {
	return fmt.Sprintf(`CREATE TABLE %q AS
SELECT geom,
       'union' AS split_type,
       Area(geom) AS area,
       Perimeter(geom) AS perimeter
FROM (
    SELECT CastToMultiPolygon(GUnion(geom)) AS geom
    FROM (
        SELECT %q AS geom FROM %q
        UNION ALL
        SELECT %q AS geom FROM %q
    )
)
WHERE geom IS NOT NULL`,
		output,
		targetCol, target,
		comparisonCol, comparison)
}

// detectGeometryType samples the output's first geometry.
func (s *Session) detectGeometryType(ctx context.Context, table string) (string, error) {
	var detected sql.NullString
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT GeometryType(geom) FROM %q WHERE geom IS NOT NULL LIMIT 1", table),
	).Scan(&detected)
	if err == sql.ErrNoRows {
		// Empty result set still gets a registered geometry column.
		return "MULTIPOLYGON", nil
	}
	if err != nil {
		return "", &fault.StoreError{Op: "detect geometry type", Err: err}
	}
	if !detected.Valid || detected.String == "" {
		return "MULTIPOLYGON", nil
	}
	return detected.String, nil
}

// Summary computes aggregate statistics over a result table.
func (s *Session) Summary(ctx context.Context, table string) (*secondary.TableSummary, error) {
	exists, err := s.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &fault.NotFoundError{Kind: "table", Ref: table}
	}

	summary := &secondary.TableSummary{Table: table}
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN split_type = 'intersect' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN split_type = 'union' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(area), 0),
		       COALESCE(SUM(perimeter), 0),
		       COALESCE(MIN(area), 0),
		       COALESCE(MAX(area), 0)
		FROM %q`, table),
	).Scan(&summary.RowCount, &summary.IntersectCount, &summary.UnionCount,
		&summary.TotalArea, &summary.TotalPerimeter, &summary.MinArea, &summary.MaxArea)
	if err != nil {
		return nil, &fault.StoreError{Op: "summarize " + table, Err: err}
	}
	return summary, nil
}
