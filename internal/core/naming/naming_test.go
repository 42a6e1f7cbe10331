package naming

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and replaces invalid chars",
			input: "Forest Units 2024",
			want:  "forest_units_2024",
		},
		{
			name:  "preserves double underscore separator",
			input: "project__scenario",
			want:  "project__scenario",
		},
		{
			name:  "collapses three underscores to two",
			input: "project___scenario",
			want:  "project__scenario",
		},
		{
			name:  "collapses long underscore runs to two",
			input: "a______b",
			want:  "a__b",
		},
		{
			name:  "strips leading and trailing underscores",
			input: "_edge_case_",
			want:  "edge_case",
		},
		{
			name:  "prefixes names starting with a digit",
			input: "2024 survey",
			want:  "layer_2024_survey",
		},
		{
			name:  "empty input falls back",
			input: "",
			want:  "unnamed_layer",
		},
		{
			name:  "punctuation only falls back",
			input: "--!!--",
			want:  "unnamed_layer",
		},
		{
			name:  "mixed separators",
			input: "Riparian-Zones (50m)",
			want:  "riparian_zones__50m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"Forest Units 2024",
		"project__scenario",
		"a______b",
		"_x_",
		"2024 survey",
		"",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestVersionedTable(t *testing.T) {
	got := VersionedTable("proj__run1", 1)
	if got != "proj__run1__v1" {
		t.Errorf("VersionedTable = %q, want proj__run1__v1", got)
	}
	got = VersionedTable("proj__run1", 12)
	if got != "proj__run1__v12" {
		t.Errorf("VersionedTable = %q, want proj__run1__v12", got)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"proj__run1__v1", "proj__run1"},
		{"proj__run1__v42", "proj__run1"},
		{"proj__run1", "proj__run1"},
		{"plain_table", "plain_table"},
		{"ends__very", "ends__very"},
	}
	for _, tt := range tests {
		if got := BaseName(tt.table); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.table, got, tt.want)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"risk__v1", "risk v1"},
		{"proj__run1__v42", "proj__run1 v42"},
		{"plain_table", "plain_table"},
		{"ends__very", "ends__very"},
	}
	for _, tt := range tests {
		if got := DisplayLabel(tt.table); got != tt.want {
			t.Errorf("DisplayLabel(%q) = %q, want %q", tt.table, got, tt.want)
		}
	}
}

func TestVersionedTable_RoundTrip(t *testing.T) {
	base := Sanitize("Project__Run 1")
	for n := 1; n <= 3; n++ {
		table := VersionedTable(base, n)
		if BaseName(table) != base {
			t.Errorf("round trip failed for n=%d: %q → %q", n, table, BaseName(table))
		}
	}
}
