package attr

import (
	"fmt"
	"math"

	"github.com/Faultbox/geoscope/pkg/gocad"
)

// StressParameters hold the user-controlled stress state.
// R is the stress-ratio parameter in [0, 3]; Theta is the azimuth of the
// maximum horizontal stress in degrees, [0, 180].
type StressParameters struct {
	R     float64
	Theta float64
}

// Clamp returns the parameters forced into their valid ranges.
func (p StressParameters) Clamp() StressParameters {
	return StressParameters{
		R:     math.Min(3, math.Max(0, p.R)),
		Theta: math.Min(180, math.Max(0, p.Theta)),
	}
}

// Regime is the Andersonian fault regime implied by R.
type Regime int

// Andersonian regimes.
const (
	RegimeNormal Regime = iota
	RegimeStrikeSlip
	RegimeReverse
)

// String returns the regime name.
func (r Regime) String() string {
	switch r {
	case RegimeNormal:
		return "Normal"
	case RegimeStrikeSlip:
		return "StrikeSlip"
	case RegimeReverse:
		return "Reverse"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// RegimeFromR classifies R into an Andersonian regime:
// [0,1) normal faulting, [1,2) strike-slip, [2,3] reverse.
func RegimeFromR(r float64) Regime {
	switch {
	case r < 1:
		return RegimeNormal
	case r < 2:
		return RegimeStrikeSlip
	default:
		return RegimeReverse
	}
}

// RegimeMapper maps stress parameters to a component weight vector. The
// vector length is whatever the mapper produces; the recombination falls
// back to uniform weights when the length does not match the family.
type RegimeMapper interface {
	Map(theta, r float64) []float64
}

// RegimeMapperFunc adapts a plain function to RegimeMapper.
type RegimeMapperFunc func(theta, r float64) []float64

// Map calls f.
func (f RegimeMapperFunc) Map(theta, r float64) []float64 {
	return f(theta, r)
}

// AndersonianMapper is the default weight strategy. It produces one
// weight per symmetric stress-tensor component (xx, yy, zz, xy, yz, xz),
// rotating the horizontal components by theta and biasing the vertical
// one by the regime implied by R.
type AndersonianMapper struct{}

// Map returns the six tensor-component weights for the given parameters.
func (AndersonianMapper) Map(theta, r float64) []float64 {
	p := StressParameters{R: r, Theta: theta}.Clamp()
	rad := p.Theta * math.Pi / 180

	c := math.Cos(rad)
	s := math.Sin(rad)
	// Fraction of the way through the current regime window.
	frac := p.R - math.Floor(math.Min(p.R, 2.9999))

	var vertical float64
	switch RegimeFromR(p.R) {
	case RegimeNormal:
		vertical = 1 - frac*0.5
	case RegimeStrikeSlip:
		vertical = 0.5
	default:
		vertical = 0.5 + frac*0.5
	}

	return []float64{
		c * c,     // xx
		s * s,     // yy
		vertical,  // zz
		2 * c * s, // xy
		s,         // yz
		c,         // xz
	}
}

// WeightedSum recombines a family's raw components into one derived
// series. If the mapper's weight vector length differs from the family
// width, a uniform vector of ones is used instead. The result is always
// a fresh slice of vertex-count length.
func WeightedSum(m *gocad.Mesh, fam Family, p StressParameters, mapper RegimeMapper) ([]float64, error) {
	nb := fam.Width()
	weights := mapper.Map(p.Theta, p.R)
	if len(weights) != nb {
		weights = make([]float64, nb)
		for i := range weights {
			weights[i] = 1
		}
	}

	nv := m.VertexCount()
	out := make([]float64, nv)
	for i := 0; i < nb; i++ {
		name := fam.Component(i)
		serie, ok := m.RawSeries[name]
		if !ok {
			return nil, fmt.Errorf("family %s: missing component series %q", fam.Name, name)
		}
		if len(serie) != nv {
			return nil, fmt.Errorf("family %s: component %q has %d values for %d vertices",
				fam.Name, name, len(serie), nv)
		}
		w := weights[i]
		for v := 0; v < nv; v++ {
			out[v] += w * serie[v]
		}
	}
	return out, nil
}
