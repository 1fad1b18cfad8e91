package deform

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/geoscope/internal/attr"
	"github.com/Faultbox/geoscope/internal/config"
	"github.com/Faultbox/geoscope/internal/loader"
	"github.com/Faultbox/geoscope/pkg/gocad"
)

func testEntry(t *testing.T, raw map[string][]float64, positions []float64) *loader.FileEntry {
	t.Helper()
	mesh := &gocad.Mesh{Positions: positions, RawSeries: raw}
	if err := mesh.Validate(); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return &loader.FileEntry{
		ID:        "test",
		File:      config.ModelFile{Path: "fixture.ts", Type: config.FileTS},
		RawMeshes: []*gocad.Mesh{mesh},
		Families:  [][]attr.Family{attr.DetectFamilies(raw)},
		Derived:   []map[string][]float64{{}},
	}
}

func displacedEntry(t *testing.T) *loader.FileEntry {
	return testEntry(t,
		map[string][]float64{
			"Disp0": {1, 0},
			"Disp1": {0, 2},
			"Disp2": {0, 0},
		},
		[]float64{0, 0, 0, 10, 10, 10})
}

func TestApplyScaleZeroIsIdentity(t *testing.T) {
	entry := displacedEntry(t)
	original := append([]float64(nil), entry.RawMeshes[0].Positions...)

	e := NewEngine(entry, zap.NewNop())
	e.Apply(75, "Disp")
	e.Apply(0, "Disp")

	got := entry.RawMeshes[0].Positions
	for i := range original {
		if got[i] != original[i] {
			t.Errorf("position[%d] = %v, want baseline %v", i, got[i], original[i])
		}
	}
}

func TestApplyHalfScale(t *testing.T) {
	entry := displacedEntry(t)
	e := NewEngine(entry, zap.NewNop())

	e.Apply(50, "Disp")

	got := entry.RawMeshes[0].Positions
	// Vertex 0 moves by half of (1,0,0); vertex 1 by half of (0,2,0).
	want := []float64{0.5, 0, 0, 10, 11, 10}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("position[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestApplyStartsFromBaselineNotCurrent(t *testing.T) {
	entry := displacedEntry(t)
	e := NewEngine(entry, zap.NewNop())

	// Two consecutive applications must not accumulate.
	e.Apply(100, "Disp")
	e.Apply(100, "Disp")

	got := entry.RawMeshes[0].Positions
	if got[0] != 1 {
		t.Errorf("position[0] = %v, want 1 (no accumulation)", got[0])
	}
}

func TestApplyUnknownFieldLeavesMeshUntouched(t *testing.T) {
	entry := displacedEntry(t)
	original := append([]float64(nil), entry.RawMeshes[0].Positions...)

	e := NewEngine(entry, zap.NewNop())
	e.Apply(50, "NoSuchField")

	got := entry.RawMeshes[0].Positions
	for i := range original {
		if got[i] != original[i] {
			t.Errorf("position[%d] changed for an unknown field", i)
		}
	}
}

func TestApplyLengthMismatchLeavesMeshUntouched(t *testing.T) {
	// A derived vector component of the wrong length must veto the mesh.
	entry := displacedEntry(t)
	entry.Derived[0]["Disp0"] = []float64{1, 2, 3, 4}
	original := append([]float64(nil), entry.RawMeshes[0].Positions...)

	e := NewEngine(entry, zap.NewNop())
	e.Apply(50, "Disp")

	got := entry.RawMeshes[0].Positions
	for i := range original {
		if got[i] != original[i] {
			t.Errorf("position[%d] changed despite length mismatch", i)
		}
	}
}

func TestReset(t *testing.T) {
	entry := displacedEntry(t)
	original := append([]float64(nil), entry.RawMeshes[0].Positions...)

	e := NewEngine(entry, zap.NewNop())
	e.Apply(100, "Disp")
	e.Reset()

	got := entry.RawMeshes[0].Positions
	for i := range original {
		if got[i] != original[i] {
			t.Errorf("position[%d] = %v after Reset, want %v", i, got[i], original[i])
		}
	}
}
