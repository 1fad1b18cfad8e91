package loader

import (
	"go.uber.org/zap"

	"github.com/Faultbox/geoscope/pkg/geom"
)

// Normalize rewrites every mesh position of the model in place so the
// union bounding box is centered at the origin with its largest extent
// equal to 1. The mutation is destructive: original coordinates are only
// recoverable by re-decoding. Degenerate geometry (zero extent) is
// centered but not scaled. Scope is per model; simultaneously loaded
// models do not share a frame.
func Normalize(model *LoadedModel, log *zap.Logger) {
	meshes := model.Meshes()
	box := geom.NewBox3()
	for _, m := range meshes {
		box.ExpandFlat(m.Positions)
	}
	if box.IsEmpty() {
		return
	}

	center := box.Center()
	maxDim := box.MaxDim()
	scale := 1.0
	if maxDim > 0 {
		scale = 1 / maxDim
	} else {
		log.Warn("degenerate geometry, skipping scale step",
			zap.String("model", model.Name))
	}

	for _, m := range meshes {
		pos := m.Positions
		for i := 0; i+2 < len(pos); i += 3 {
			pos[i] = (pos[i] - center.X) * scale
			pos[i+1] = (pos[i+1] - center.Y) * scale
			pos[i+2] = (pos[i+2] - center.Z) * scale
		}
		m.RecomputeBounds()
		m.RecomputeNormals()
	}

	log.Debug("model normalized",
		zap.String("model", model.Name),
		zap.Float64("max_dim", maxDim))
}
