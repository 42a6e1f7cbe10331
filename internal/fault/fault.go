// Package fault defines the typed error taxonomy shared by the services and
// adapters. Callers match error kinds with errors.As; every error still wraps
// its cause so the usual %w chains keep working.
package fault

import "fmt"

// ValidationError reports a precondition failure checked before any mutation,
// such as a duplicate scenario name or a missing input layer.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NotFoundError reports a lookup miss surfaced to the caller verbatim.
type NotFoundError struct {
	Kind string // "project", "scenario", "version", "table", ...
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}

// StoreError wraps a failure in the underlying store (connection, extension
// load, query). It is never swallowed except on strictly idempotent cleanup.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// GeometryError reports an incompatibility between two geometry tables.
// At least one of SRIDMismatch / TypeMismatch is set; Message describes
// which check failed in user-facing terms.
type GeometryError struct {
	SRIDMismatch bool
	TypeMismatch bool
	TargetSRID   int
	OverlaySRID  int
	TargetType   string
	OverlayType  string
	Message      string
}

func (e *GeometryError) Error() string {
	return "geometry incompatibility: " + e.Message
}
