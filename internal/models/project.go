// Package models contains domain types for strata entities.
// SQL persistence lives in internal/adapters/sqlite and internal/adapters/spatial.
package models

import "time"

// Project is an isolated spatial workspace. Each project owns one SpatiaLite
// database file holding its feature tables and version history.
type Project struct {
	ID          int64
	UUID        string
	Name        string
	Description string
	DBPath      string // relative to the strata home directory
	IsDeleted   bool
	CreatedAt   time.Time
}

// Project lifecycle: a project is Active until soft-deleted. Soft-delete keeps
// the spatial store file on disk; Purge removes both the row and the file.
const (
	ProjectStateActive      = "active"
	ProjectStateSoftDeleted = "soft_deleted"
)

// State returns the lifecycle state derived from the soft-delete flag.
func (p *Project) State() string {
	if p.IsDeleted {
		return ProjectStateSoftDeleted
	}
	return ProjectStateActive
}
