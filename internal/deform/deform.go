// Package deform displaces mesh vertices along a vector-valued
// attribute field while preserving the undeformed baseline, so any
// deformation is exactly revertible.
package deform

import (
	"go.uber.org/zap"

	"github.com/Faultbox/geoscope/internal/attr"
	"github.com/Faultbox/geoscope/internal/loader"
)

// Engine deforms the meshes of one file entry. The baseline is
// snapshotted at construction and never mutated afterwards; Apply always
// starts from it, so scale 0 reproduces the original positions exactly.
type Engine struct {
	entry    *loader.FileEntry
	baseline [][]float64
	log      *zap.Logger
}

// NewEngine snapshots the entry's current positions as the baseline.
// Construct it after normalization, before any deformation.
func NewEngine(entry *loader.FileEntry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{entry: entry, log: log}
	for _, m := range entry.RawMeshes {
		base := make([]float64, len(m.Positions))
		copy(base, m.Positions)
		e.baseline = append(e.baseline, base)
	}
	return e
}

// Apply displaces every vertex by its vector-field value scaled by
// scale/100. A mesh whose field components do not match its vertex
// count is left untouched and logged. Normals and bounds are recomputed
// for every mesh that moved.
func (e *Engine) Apply(scale float64, fieldName string) {
	factor := scale / 100

	for i, m := range e.entry.RawMeshes {
		fam, ok := e.vectorFamily(i, fieldName)
		if !ok {
			e.log.Warn("vector field not found, mesh left untouched",
				zap.String("file", e.entry.File.Path),
				zap.String("field", fieldName))
			continue
		}

		mgr := e.entry.Manager(i)
		x := mgr.Serie(fam.Component(0))
		y := mgr.Serie(fam.Component(1))
		z := mgr.Serie(fam.Component(2))

		nv := m.VertexCount()
		if len(x) != nv || len(y) != nv || len(z) != nv {
			e.log.Warn("vector field length mismatch, mesh left untouched",
				zap.String("file", e.entry.File.Path),
				zap.String("field", fieldName),
				zap.Int("vertices", nv))
			continue
		}

		base := e.baseline[i]
		for v := 0; v < nv; v++ {
			m.Positions[v*3] = base[v*3] + x[v]*factor
			m.Positions[v*3+1] = base[v*3+1] + y[v]*factor
			m.Positions[v*3+2] = base[v*3+2] + z[v]*factor
		}
		m.RecomputeNormals()
		m.RecomputeBounds()
	}
}

// Reset restores every mesh to its baseline positions.
func (e *Engine) Reset() {
	for i, m := range e.entry.RawMeshes {
		copy(m.Positions, e.baseline[i])
		m.RecomputeNormals()
		m.RecomputeBounds()
	}
}

// vectorFamily finds a three-component family by name on mesh i.
func (e *Engine) vectorFamily(i int, name string) (attr.Family, bool) {
	for _, fam := range e.entry.Families[i] {
		if fam.Name == name && fam.Kind == attr.KindVector3 {
			return fam, true
		}
	}
	return attr.Family{}, false
}
