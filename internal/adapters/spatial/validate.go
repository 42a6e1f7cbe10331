package spatial

import (
	"context"
	"fmt"

	"github.com/example/strata/internal/fault"
)

// ValidateCompatibility checks that two tables can be combined: both present,
// both registered, same SRID, both polygonal. The check runs before any
// overlay so a mismatch never leaves partial output behind.
func (s *Session) ValidateCompatibility(ctx context.Context, target, comparison string) error {
	targetInfo, err := s.requireGeometry(ctx, target)
	if err != nil {
		return err
	}
	comparisonInfo, err := s.requireGeometry(ctx, comparison)
	if err != nil {
		return err
	}

	if targetInfo.srid != comparisonInfo.srid {
		return &fault.GeometryError{
			SRIDMismatch: true,
			TargetSRID:   targetInfo.srid,
			OverlaySRID:  comparisonInfo.srid,
			Message: fmt.Sprintf("SRID mismatch: %s is %d, %s is %d",
				target, targetInfo.srid, comparison, comparisonInfo.srid),
		}
	}

	if !polygonal(targetInfo.typeCode) || !polygonal(comparisonInfo.typeCode) {
		return &fault.GeometryError{
			TypeMismatch: true,
			TargetType:   typeNameFromCode(targetInfo.typeCode),
			OverlayType:  typeNameFromCode(comparisonInfo.typeCode),
			Message: fmt.Sprintf("overlay needs polygonal inputs: %s is %s, %s is %s",
				target, typeNameFromCode(targetInfo.typeCode),
				comparison, typeNameFromCode(comparisonInfo.typeCode)),
		}
	}
	return nil
}

// requireGeometry resolves a table's geometry registration or fails.
func (s *Session) requireGeometry(ctx context.Context, table string) (*geomInfo, error) {
	exists, err := s.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &fault.NotFoundError{Kind: "table", Ref: table}
	}

	info, err := s.geometryInfo(ctx, table)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, &fault.GeometryError{
			Message: fmt.Sprintf("table %s has no registered geometry column", table),
		}
	}
	return info, nil
}
