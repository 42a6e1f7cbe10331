package secondary

import "context"

// LegacySource reads the importable contents of a metadata database written
// by an older installation.
type LegacySource interface {
	Read(ctx context.Context, path string) (*LegacySnapshot, error)
}

// LegacySnapshot holds everything a legacy metadata database contributes to
// an import.
type LegacySnapshot struct {
	Projects   []*ProjectRecord
	Scenarios  []*ScenarioRecord
	Provenance []*ProvenanceRecord
	Tasks      []*TaskRecord
}
