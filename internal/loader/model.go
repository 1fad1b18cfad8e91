package loader

import (
	"github.com/google/uuid"

	"github.com/Faultbox/geoscope/internal/attr"
	"github.com/Faultbox/geoscope/internal/config"
	"github.com/Faultbox/geoscope/internal/render"
	"github.com/Faultbox/geoscope/pkg/gocad"
)

// LoadedModel is one fully loaded model session: its file entries and
// the diagnostics accumulated while loading them. A model with some
// empty entries is a correct partial result, not an error.
type LoadedModel struct {
	Name  string
	Files []*FileEntry

	// Diags aggregates per-file load failures (multierr). Nil when
	// every file loaded cleanly.
	Diags error
}

// FileEntry holds everything loaded for one survey file.
type FileEntry struct {
	// ID uniquely identifies this entry across reloads.
	ID   string
	File config.ModelFile

	// RawMeshes is empty when the file failed to fetch or decode.
	RawMeshes []*gocad.Mesh

	// Families holds the detected attribute families, per mesh.
	Families [][]attr.Family

	// Derived holds the recombined attribute series, per mesh. Rebuilt
	// in full on every stress-parameter change.
	Derived []map[string][]float64

	// Renders holds the render engine handles for the raw meshes.
	// Owned by the loader; released on model removal.
	Renders []*render.Handle

	// Visible tracks whether the raw meshes are currently shown.
	Visible bool
}

// newFileEntry assembles an entry for decoded meshes.
func newFileEntry(file config.ModelFile, meshes []*gocad.Mesh, detect DetectFunc) *FileEntry {
	e := &FileEntry{
		ID:        uuid.NewString(),
		File:      file,
		RawMeshes: meshes,
		Visible:   file.IsVisible(),
	}
	for _, m := range meshes {
		e.Families = append(e.Families, detect(m.RawSeries))
		e.Derived = append(e.Derived, make(map[string][]float64))
		e.Renders = append(e.Renders, render.NewHandle(m.Positions, m.Indices, nil))
	}
	return e
}

// Manager returns the attribute view over mesh i of the entry.
func (e *FileEntry) Manager(i int) *attr.Manager {
	return attr.NewManager(e.RawMeshes[i].RawSeries, e.Derived[i])
}

// Empty reports whether the entry carries no geometry.
func (e *FileEntry) Empty() bool {
	return len(e.RawMeshes) == 0
}

// releaseRenders frees the raw-mesh render handles.
func (e *FileEntry) releaseRenders() {
	for _, h := range e.Renders {
		h.Release()
	}
}

// Entry finds a file entry by its ID.
func (m *LoadedModel) Entry(fileID string) (*FileEntry, bool) {
	for _, e := range m.Files {
		if e.ID == fileID {
			return e, true
		}
	}
	return nil, false
}

// Meshes returns every raw mesh of the model, in file order.
func (m *LoadedModel) Meshes() []*gocad.Mesh {
	var out []*gocad.Mesh
	for _, e := range m.Files {
		out = append(out, e.RawMeshes...)
	}
	return out
}
