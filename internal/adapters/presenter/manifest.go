// Package presenter materializes result layers onto the display surface.
// The CLI has no map canvas; its surface is a JSON manifest next to the
// metadata database that desktop tooling (or a later session) reads to know
// which tables to show, under which name, in which group.
package presenter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/example/strata/internal/fault"
	"github.com/example/strata/internal/ports/secondary"
)

// ManifestEntry is one presented layer in the manifest.
type ManifestEntry struct {
	Table       string `json:"table"`
	DisplayName string `json:"display_name"`
	Group       string `json:"group"`
	DBPath      string `json:"db_path"`
}

type manifest struct {
	Layers []ManifestEntry `json:"layers"`
}

// ManifestPresenter implements secondary.LayerPresenter on a JSON file.
type ManifestPresenter struct {
	path string
}

// NewManifestPresenter creates a presenter writing to the given manifest file.
func NewManifestPresenter(path string) *ManifestPresenter {
	return &ManifestPresenter{path: path}
}

// Path returns the manifest file location.
func (p *ManifestPresenter) Path() string {
	return p.path
}

// Present records a layer in the manifest. Presenting a table that is already
// listed replaces its entry in place.
func (p *ManifestPresenter) Present(ctx context.Context, dbPath string, handle secondary.LayerHandle) error {
	m, err := p.load()
	if err != nil {
		return err
	}

	entry := ManifestEntry{
		Table:       handle.Table,
		DisplayName: handle.DisplayName,
		Group:       handle.Group,
		DBPath:      dbPath,
	}

	replaced := false
	for i := range m.Layers {
		if m.Layers[i].Table == handle.Table && m.Layers[i].DBPath == dbPath {
			m.Layers[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		m.Layers = append(m.Layers, entry)
	}

	return p.save(m)
}

// Remove drops a layer from the manifest. Removing an unlisted layer is a
// no-op.
func (p *ManifestPresenter) Remove(ctx context.Context, handle secondary.LayerHandle) error {
	m, err := p.load()
	if err != nil {
		return err
	}

	kept := m.Layers[:0]
	for _, entry := range m.Layers {
		if entry.Table != handle.Table {
			kept = append(kept, entry)
		}
	}
	m.Layers = kept

	return p.save(m)
}

// List returns the manifest entries, grouped entries adjacent, stable order.
func (p *ManifestPresenter) List() ([]ManifestEntry, error) {
	m, err := p.load()
	if err != nil {
		return nil, err
	}
	entries := make([]ManifestEntry, len(m.Layers))
	copy(entries, m.Layers)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Group != entries[j].Group {
			return entries[i].Group < entries[j].Group
		}
		return entries[i].Table < entries[j].Table
	})
	return entries, nil
}

func (p *ManifestPresenter) load() (*manifest, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return &manifest{}, nil
	}
	if err != nil {
		return nil, &fault.StoreError{Op: "read manifest", Err: err}
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &fault.StoreError{Op: "parse manifest", Err: fmt.Errorf("%s: %w", p.path, err)}
	}
	return &m, nil
}

// save writes the manifest through a temp file so a crash mid-write never
// leaves a truncated manifest behind.
func (p *ManifestPresenter) save(m *manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return &fault.StoreError{Op: "encode manifest", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return &fault.StoreError{Op: "write manifest", Err: err}
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &fault.StoreError{Op: "write manifest", Err: err}
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return &fault.StoreError{Op: "write manifest", Err: err}
	}
	return nil
}
