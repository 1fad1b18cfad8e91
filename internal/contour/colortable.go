package contour

import (
	"image/color"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

// ColorTable is a named gradient mapping a normalized value in [0,1]
// to a color by linear interpolation between fixed stops.
type ColorTable struct {
	name  string
	stops []color.RGBA
}

// Name returns the table name.
func (t *ColorTable) Name() string {
	return t.name
}

// Lookup maps a normalized value to a color. Values outside [0,1] clamp.
func (t *ColorTable) Lookup(v float64) color.RGBA {
	if v <= 0 {
		return t.stops[0]
	}
	if v >= 1 {
		return t.stops[len(t.stops)-1]
	}

	scaled := v * float64(len(t.stops)-1)
	i := int(scaled)
	frac := scaled - float64(i)

	a, b := t.stops[i], t.stops[i+1]
	return color.RGBA{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
		A: 255,
	}
}

// Ramp samples the table into n evenly spaced colors, one per contour band.
func (t *ColorTable) Ramp(n int) []color.RGBA {
	if n < 1 {
		return nil
	}
	out := make([]color.RGBA, n)
	if n == 1 {
		out[0] = t.Lookup(0.5)
		return out
	}
	for i := range out {
		out[i] = t.Lookup(float64(i) / float64(n-1))
	}
	return out
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

var tables = map[string]*ColorTable{
	"rainbow": {name: "rainbow", stops: []color.RGBA{
		{0, 0, 255, 255}, {0, 255, 255, 255}, {0, 255, 0, 255},
		{255, 255, 0, 255}, {255, 0, 0, 255},
	}},
	"viridis": {name: "viridis", stops: []color.RGBA{
		{68, 1, 84, 255}, {59, 82, 139, 255}, {33, 145, 140, 255},
		{94, 201, 98, 255}, {253, 231, 37, 255},
	}},
	"elevation": {name: "elevation", stops: []color.RGBA{
		{0, 64, 128, 255}, {32, 160, 64, 255}, {160, 128, 64, 255},
		{224, 224, 208, 255},
	}},
	"stress": {name: "stress", stops: []color.RGBA{
		{255, 255, 255, 255}, {255, 224, 64, 255}, {224, 64, 32, 255},
		{96, 0, 0, 255},
	}},
}

// TableByName resolves a color table by name. Unknown names fall back to
// rainbow with a logged warning.
func TableByName(name string, log *zap.Logger) *ColorTable {
	if t, ok := tables[strings.ToLower(name)]; ok {
		return t
	}
	log.Warn("unknown color table, using rainbow", zap.String("table", name))
	return tables["rainbow"]
}

// ParseColor parses "#rrggbb" hex or an SVG 1.1 color name.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return color.RGBA{}, false
		}
		return color.RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}, true
	}
	if c, ok := colornames.Map[s]; ok {
		return c, true
	}
	return color.RGBA{}, false
}
