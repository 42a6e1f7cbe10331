package models

// SpatialVersion is an immutable snapshot of one overlay computation,
// analogous to a commit: once created it is never overwritten, and rolling
// back moves the HEAD pointer instead of recomputing anything.
type SpatialVersion struct {
	ID              int64
	ScenarioName    string // sanitized base name, no version suffix
	TableName       string
	Description     string
	ParentVersionID int64 // 0 = root
	IsCurrent       bool
	CreatedAt       string
}

// Root reports whether this version has no parent (first overlay run).
func (v *SpatialVersion) Root() bool {
	return v.ParentVersionID == 0
}
