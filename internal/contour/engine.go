// Package contour drives iso-contour generation: it owns the boundary
// to the external contour-extraction engine, the per-file generated
// geometry, and the visibility of the underlying raw meshes.
package contour

import (
	"image/color"

	"github.com/Faultbox/geoscope/pkg/gocad"
)

// Topology is the mesh connectivity handed to the contour engine.
type Topology struct {
	Positions []float64
	Indices   []uint32
	Segments  []uint32
}

// TopologyOf builds the engine view of a raw mesh.
func TopologyOf(m *gocad.Mesh) Topology {
	return Topology{
		Positions: m.Positions,
		Indices:   m.Indices,
		Segments:  m.Segments,
	}
}

// FillOptions parameterize filled-contour generation.
type FillOptions struct {
	Table *ColorTable
	// ColorCount is the number of discrete bands to sample from Table.
	ColorCount int
}

// FilledResult is the geometry produced for filled contour bands. A nil
// result or one with no positions means the engine produced nothing.
type FilledResult struct {
	Positions []float64
	Indices   []uint32
	Colors    []float64
}

// Empty reports whether the result carries no geometry.
func (r *FilledResult) Empty() bool {
	return r == nil || len(r.Positions) == 0
}

// LinesResult is the polyline geometry produced for contour lines.
// Empty positions signal "no lines produced".
type LinesResult struct {
	Positions []float64
}

// Empty reports whether the result carries no geometry.
func (r *LinesResult) Empty() bool {
	return r == nil || len(r.Positions) == 0
}

// Engine is the external contour-extraction collaborator. The actual
// tessellation runs out of process scope; implementations may fail or
// produce empty results, and callers must treat both as recoverable.
type Engine interface {
	ComputeFilled(topo Topology, field, levels []float64, opts FillOptions) (*FilledResult, error)
	ComputeLines(topo Topology, field, levels []float64, lineColor color.RGBA, table *ColorTable) (*LinesResult, error)
}

// NopEngine produces no geometry. It stands in where no real engine is
// wired, keeping the orchestration path exercisable.
type NopEngine struct{}

// ComputeFilled returns an empty result.
func (NopEngine) ComputeFilled(Topology, []float64, []float64, FillOptions) (*FilledResult, error) {
	return &FilledResult{}, nil
}

// ComputeLines returns an empty result.
func (NopEngine) ComputeLines(Topology, []float64, []float64, color.RGBA, *ColorTable) (*LinesResult, error) {
	return &LinesResult{}, nil
}
