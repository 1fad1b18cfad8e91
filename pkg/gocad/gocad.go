// Package gocad provides parsers for GOCAD ASCII survey file formats.
package gocad

import (
	"errors"
	"fmt"

	"github.com/Faultbox/geoscope/pkg/geom"
)

// Format errors.
var (
	ErrUnknownFormat     = errors.New("unknown GOCAD format tag")
	ErrNoData            = errors.New("no GOCAD object block found")
	ErrTruncatedObject   = errors.New("truncated GOCAD object: missing END")
	ErrFormatMismatch    = errors.New("object type does not match requested format")
	ErrMalformedVertex   = errors.New("malformed vertex record")
	ErrMalformedElement  = errors.New("malformed element record")
	ErrUnknownVertexID   = errors.New("element references unknown vertex id")
	ErrMalformedProperty = errors.New("malformed property declaration")
)

// Format identifies a survey file format.
type Format string

// Supported format tags.
const (
	FormatTS Format = "TS" // triangulated surface (TSurf)
	FormatPL Format = "PL" // polyline set (PLine)
	FormatSO Format = "SO" // solid / tetrahedral volume (TSolid)
	FormatVS Format = "VS" // vertex set (VSet)
)

// ParseFormat converts a format tag to a Format.
func ParseFormat(tag string) (Format, error) {
	switch Format(tag) {
	case FormatTS, FormatPL, FormatSO, FormatVS:
		return Format(tag), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, tag)
	}
}

// objectType returns the GOCAD header keyword for the format.
func (f Format) objectType() string {
	switch f {
	case FormatTS:
		return "TSurf"
	case FormatPL:
		return "PLine"
	case FormatSO:
		return "TSolid"
	case FormatVS:
		return "VSet"
	default:
		return ""
	}
}

// Mesh is one decoded GOCAD object: a flat position buffer with optional
// triangle or segment connectivity and named per-vertex property series.
type Mesh struct {
	Name string

	// Positions holds xyz triples, one per vertex.
	Positions []float64
	// Indices holds triangle index triples (surfaces only).
	Indices []uint32
	// Segments holds segment index pairs (polylines only).
	Segments []uint32

	// RawSeries maps a property name to its per-vertex values, exactly
	// as decoded. Multi-component properties are split into indexed
	// series (name0..nameK).
	RawSeries map[string][]float64

	// Normals holds per-vertex normals, recomputed after any position
	// mutation. Empty for lines and point sets.
	Normals []float64

	// Bounds is the axis-aligned box of Positions, recomputed after any
	// position mutation.
	Bounds geom.Box3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// SegmentCount returns the number of polyline segments.
func (m *Mesh) SegmentCount() int {
	return len(m.Segments) / 2
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) geom.Vec3 {
	return geom.Vec3{
		X: m.Positions[i*3],
		Y: m.Positions[i*3+1],
		Z: m.Positions[i*3+2],
	}
}

// SeriesNames returns the raw property names in sorted order.
func (m *Mesh) SeriesNames() []string {
	return sortedKeys(m.RawSeries)
}

// RecomputeBounds rebuilds the bounding box from the position buffer.
func (m *Mesh) RecomputeBounds() {
	box := geom.NewBox3()
	box.ExpandFlat(m.Positions)
	m.Bounds = box
}

// RecomputeNormals rebuilds per-vertex normals by accumulating
// area-weighted face normals over the triangle connectivity. Meshes
// without triangles carry no normals.
func (m *Mesh) RecomputeNormals() {
	if len(m.Indices) == 0 {
		m.Normals = nil
		return
	}

	normals := make([]float64, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		e1 := m.Vertex(b).Sub(m.Vertex(a))
		e2 := m.Vertex(c).Sub(m.Vertex(a))
		// Cross product magnitude weights by face area.
		n := e1.Cross(e2)
		for _, idx := range []int{a, b, c} {
			normals[idx*3] += n.X
			normals[idx*3+1] += n.Y
			normals[idx*3+2] += n.Z
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := geom.Vec3{X: normals[i], Y: normals[i+1], Z: normals[i+2]}.Normalize()
		if n == (geom.Vec3{}) {
			n = geom.Vec3{Y: 1}
		}
		normals[i], normals[i+1], normals[i+2] = n.X, n.Y, n.Z
	}
	m.Normals = normals
}

// Validate checks the structural invariants of the mesh buffers.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("positions length %d is not a multiple of 3", len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("indices length %d is not a multiple of 3", len(m.Indices))
	}
	if len(m.Segments)%2 != 0 {
		return fmt.Errorf("segments length %d is not a multiple of 2", len(m.Segments))
	}
	nv := m.VertexCount()
	for name, serie := range m.RawSeries {
		if len(serie) != nv {
			return fmt.Errorf("series %q has %d values for %d vertices", name, len(serie), nv)
		}
	}
	return nil
}
