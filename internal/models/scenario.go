package models

import "time"

// LayerRole is the semantic role a layer plays within a scenario.
type LayerRole string

const (
	// RoleTarget is the primary subject of the analysis.
	RoleTarget LayerRole = "target"
	// RoleAssessment is a comparison layer overlaid on the target.
	RoleAssessment LayerRole = "assessment"
	// RoleMarker is a reference layer not used in computation.
	RoleMarker LayerRole = "marker"
)

// LayerRef is a named dataset bound to a scenario. TableName stays empty until
// the layer has been materialized into the project's spatial store, and is
// written exactly once.
type LayerRef struct {
	Name      string
	Role      LayerRole
	TableName string
}

// Materialized reports whether the layer has been copied into the spatial store.
func (l *LayerRef) Materialized() bool {
	return l.TableName != ""
}

// Scenario is one named analysis unit within a project: a target layer plus
// zero or more assessment layers, and the output tables produced by overlay
// runs. Names are unique among the non-deleted scenarios of a project.
type Scenario struct {
	ID               int64
	UUID             string
	ProjectID        int64
	Name             string
	Description      string
	TargetLayer      *LayerRef
	AssessmentLayers []LayerRef
	MarkerLayers     []LayerRef
	OutputTables     []string
	IsDeleted        bool
	CreatedAt        time.Time
}

// Spatial reports whether the scenario has assessment layers, i.e. whether an
// overlay computation applies (as opposed to a plain selection snapshot).
func (s *Scenario) Spatial() bool {
	return len(s.AssessmentLayers) > 0
}

// AllLayers returns the target layer (if set) followed by assessment layers.
func (s *Scenario) AllLayers() []LayerRef {
	var layers []LayerRef
	if s.TargetLayer != nil {
		layers = append(layers, *s.TargetLayer)
	}
	layers = append(layers, s.AssessmentLayers...)
	return layers
}
