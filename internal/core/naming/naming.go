// Package naming contains the pure table-naming rules for the spatial store.
// This is part of the functional core - no I/O, only pure functions.
package naming

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	invalidChars   = regexp.MustCompile(`[^a-z0-9_]`)
	runUnderscores = regexp.MustCompile(`_{3,}`)
	versionSuffix  = regexp.MustCompile(`__v\d+$`)
)

// Sanitize converts a human-supplied layer or scenario name into a valid
// SQLite table name. Double underscores are preserved as a semantic separator
// between project and scenario names; runs of three or more collapse to two.
// The function is idempotent: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(name string) string {
	table := strings.ToLower(name)
	table = invalidChars.ReplaceAllString(table, "_")
	table = runUnderscores.ReplaceAllString(table, "__")
	table = strings.Trim(table, "_")
	if table != "" && table[0] >= '0' && table[0] <= '9' {
		table = "layer_" + table
	}
	if table == "" {
		return "unnamed_layer"
	}
	return table
}

// VersionedTable returns the table name for the n-th version of a base name.
// The format __v{n} is a wire-level contract: n starts at 1 and increases
// monotonically per base name.
func VersionedTable(base string, n int) string {
	return fmt.Sprintf("%s__v%d", base, n)
}

// BaseName strips a trailing __v{n} suffix, recovering the scenario base name
// from a versioned table name. Names without the suffix pass through unchanged.
func BaseName(table string) string {
	return versionSuffix.ReplaceAllString(table, "")
}

// DisplayLabel turns a versioned table name into its human form: risk__v2
// becomes "risk v2". Names without the suffix pass through unchanged.
func DisplayLabel(table string) string {
	suffix := versionSuffix.FindString(table)
	if suffix == "" {
		return table
	}
	return BaseName(table) + " v" + strings.TrimPrefix(suffix, "__v")
}
