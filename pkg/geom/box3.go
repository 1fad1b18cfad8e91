package geom

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min, Max Vec3
}

// NewBox3 returns an empty box ready for accumulation: Min at +inf-like
// sentinels and Max at the opposite, so the first Expand sets both.
func NewBox3() Box3 {
	const big = 1e300
	return Box3{
		Min: Vec3{big, big, big},
		Max: Vec3{-big, -big, -big},
	}
}

// Expand grows the box to contain p.
func (b *Box3) Expand(p Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}

// ExpandFlat accumulates every xyz triple of a flat position buffer.
func (b *Box3) ExpandFlat(positions []float64) {
	for i := 0; i+2 < len(positions); i += 3 {
		b.Expand(Vec3{positions[i], positions[i+1], positions[i+2]})
	}
}

// IsEmpty reports whether the box never accumulated a point.
func (b Box3) IsEmpty() bool {
	return b.Min.X > b.Max.X
}

// Center returns the midpoint of the box.
func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis.
func (b Box3) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// MaxDim returns the largest extent of the box.
func (b Box3) MaxDim() float64 {
	return b.Size().MaxComponent()
}
