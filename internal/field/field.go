// Package field resolves named attributes to flat per-vertex scalar
// fields and computes evenly spaced iso-value tables over them.
package field

import (
	"go.uber.org/zap"

	"github.com/Faultbox/geoscope/internal/loader"
)

// ElevationAttribute is the reserved fallback attribute name: the Z
// coordinate of the mesh positions.
const ElevationAttribute = "Elevation"

// Scalar resolves an attribute name to a per-vertex scalar field over
// the first mesh of the entry. Absent or empty attributes degrade to the
// elevation fallback with a logged diagnostic; this never fails.
func Scalar(entry *loader.FileEntry, name string, log *zap.Logger) []float64 {
	return ScalarMesh(entry, 0, name, log)
}

// ScalarMesh resolves an attribute over mesh i of the entry.
func ScalarMesh(entry *loader.FileEntry, i int, name string, log *zap.Logger) []float64 {
	if entry.Empty() || i >= len(entry.RawMeshes) {
		return nil
	}

	if name != ElevationAttribute {
		if serie := entry.Manager(i).Serie(name); len(serie) > 0 {
			return serie
		}
		log.Warn("attribute not found, falling back to elevation",
			zap.String("file", entry.File.Path),
			zap.String("attribute", name))
	}
	return elevation(entry.RawMeshes[i].Positions)
}

// elevation extracts the Z component of a flat position buffer.
func elevation(positions []float64) []float64 {
	out := make([]float64, 0, len(positions)/3)
	for i := 2; i < len(positions); i += 3 {
		out = append(out, positions[i])
	}
	return out
}

// IsoLevels returns n evenly spaced iso-values spanning the field's
// range: the first level is the minimum, the last the maximum. For
// n == 1 the single level is the minimum. An empty field or n < 1
// yields nil.
func IsoLevels(field []float64, n int) []float64 {
	if len(field) == 0 || n < 1 {
		return nil
	}

	min, max := field[0], field[0]
	for _, v := range field[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if n == 1 {
		return []float64{min}
	}

	levels := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range levels {
		levels[i] = min + float64(i)*step
	}
	// Anchor the endpoints exactly despite float accumulation.
	levels[0] = min
	levels[n-1] = max
	return levels
}
