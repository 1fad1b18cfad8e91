package contour

import (
	"errors"
	"image/color"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/geoscope/internal/attr"
	"github.com/Faultbox/geoscope/internal/config"
	"github.com/Faultbox/geoscope/internal/loader"
	"github.com/Faultbox/geoscope/internal/render"
	"github.com/Faultbox/geoscope/pkg/gocad"
)

// fakeEngine produces one triangle per filled request and one segment
// per lines request, and can be told to fail on a specific call.
type fakeEngine struct {
	filledCalls  int
	lineCalls    int
	failOnFilled int // fail the Nth ComputeFilled call (0 = never)
	emptyFilled  bool
}

func (e *fakeEngine) ComputeFilled(topo Topology, field, levels []float64, opts FillOptions) (*FilledResult, error) {
	e.filledCalls++
	if e.failOnFilled > 0 && e.filledCalls == e.failOnFilled {
		return nil, errors.New("tessellation blew up")
	}
	if e.emptyFilled {
		return &FilledResult{}, nil
	}
	return &FilledResult{
		Positions: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2},
		Colors:    []float64{1, 0, 0, 1, 0, 0, 1, 0, 0},
	}, nil
}

func (e *fakeEngine) ComputeLines(topo Topology, field, levels []float64, lineColor color.RGBA, table *ColorTable) (*LinesResult, error) {
	e.lineCalls++
	return &LinesResult{Positions: []float64{0, 0, 0, 1, 1, 1}}, nil
}

func testEntry(t *testing.T, path string) *loader.FileEntry {
	t.Helper()
	mesh := &gocad.Mesh{
		Positions: []float64{0, 0, 0, 1, 0, 0, 0, 1, 2},
		Indices:   []uint32{0, 1, 2},
		RawSeries: map[string][]float64{"Temp": {1, 2, 3}},
	}
	if err := mesh.Validate(); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return &loader.FileEntry{
		ID:        path,
		File:      config.ModelFile{Path: path, Type: config.FileTS, IsoContour: true},
		RawMeshes: []*gocad.Mesh{mesh},
		Families:  [][]attr.Family{attr.DetectFamilies(mesh.RawSeries)},
		Derived:   []map[string][]float64{{}},
		Visible:   true,
	}
}

func testModel(t *testing.T, paths ...string) *loader.LoadedModel {
	t.Helper()
	m := &loader.LoadedModel{Name: "test"}
	for _, p := range paths {
		m.Files = append(m.Files, testEntry(t, p))
	}
	return m
}

func defaultOptions(mode Mode) Options {
	return Options{
		Mode:      mode,
		Levels:    5,
		Attribute: "Temp",
		Table:     "rainbow",
		LineColor: "black",
	}
}

func TestRegenerateFilledHidesRawMeshes(t *testing.T) {
	engine := &fakeEngine{}
	o := NewOrchestrator(engine, zap.NewNop())
	model := testModel(t, "a.ts")

	o.Regenerate(model, defaultOptions(ModeFilled))

	entry := model.Files[0]
	if entry.Visible {
		t.Error("raw meshes must be invisible while filled contours are cached")
	}

	state, ok := o.State(entry.ID)
	if !ok {
		t.Fatal("expected a contour state")
	}
	if state.Mode() != ModeFilled {
		t.Errorf("state mode = %v, want filled", state.Mode())
	}
	if state.Filled.VertexCount() != 3 {
		t.Errorf("filled handle has %d vertices, want 3", state.Filled.VertexCount())
	}
}

func TestRegenerateLinesRestoresVisibility(t *testing.T) {
	engine := &fakeEngine{}
	o := NewOrchestrator(engine, zap.NewNop())
	model := testModel(t, "a.ts")

	// Filled first: raw meshes go invisible.
	o.Regenerate(model, defaultOptions(ModeFilled))
	entry := model.Files[0]
	firstState, _ := o.State(entry.ID)
	filledHandle := firstState.Filled

	// Switch to lines-only: raw meshes come back, filled cache is gone.
	o.Regenerate(model, defaultOptions(ModeLines))

	if !entry.Visible {
		t.Error("lines-only mode must restore raw-mesh visibility")
	}
	if !filledHandle.Released() {
		t.Error("stale filled geometry must be released on regeneration")
	}

	state, _ := o.State(entry.ID)
	if state.Filled != nil {
		t.Error("no filled geometry may be cached in lines-only mode")
	}
	if state.Lines == nil {
		t.Error("expected cached line geometry")
	}
}

func TestRegenerateDisposesStaleState(t *testing.T) {
	engine := &fakeEngine{}
	o := NewOrchestrator(engine, zap.NewNop())
	model := testModel(t, "a.ts")

	o.Regenerate(model, defaultOptions(ModeBoth))
	first, _ := o.State(model.Files[0].ID)

	o.Regenerate(model, defaultOptions(ModeBoth))
	second, _ := o.State(model.Files[0].ID)

	if !first.Filled.Released() || !first.Lines.Released() {
		t.Error("every stale handle must be released before replacement")
	}
	if second.Filled.Released() || second.Lines.Released() {
		t.Error("fresh handles must be live")
	}
}

func TestRegeneratePartialSuccess(t *testing.T) {
	// The engine fails on the first file; the second must still succeed.
	engine := &fakeEngine{failOnFilled: 1}
	o := NewOrchestrator(engine, zap.NewNop())
	model := testModel(t, "bad.ts", "good.ts")

	o.Regenerate(model, Options{Mode: ModeFilled, Levels: 3, Attribute: "Temp", Table: "viridis"})

	bad := model.Files[0]
	state, ok := o.State(bad.ID)
	if !ok || state.Mode() != ModeNone {
		t.Error("failing file must keep an empty contour state")
	}
	if !bad.Visible {
		t.Error("failing file's raw meshes must stay visible")
	}

	good := model.Files[1]
	goodState, ok := o.State(good.ID)
	if !ok || goodState.Mode() != ModeFilled {
		t.Error("sibling file must still get filled contours")
	}
	if good.Visible {
		t.Error("sibling file's raw meshes must be hidden behind its contours")
	}
}

func TestRegenerateEmptyEngineResult(t *testing.T) {
	engine := &fakeEngine{emptyFilled: true}
	o := NewOrchestrator(engine, zap.NewNop())
	model := testModel(t, "a.ts")

	o.Regenerate(model, defaultOptions(ModeFilled))

	entry := model.Files[0]
	if !entry.Visible {
		t.Error("an empty engine result must not hide the raw meshes")
	}
	state, _ := o.State(entry.ID)
	if state.Filled != nil {
		t.Error("no handle may be cached for an empty result")
	}
}

func TestRegenerateEmptyResultAfterFilled(t *testing.T) {
	// A round of filled contours hides the raw meshes; if the next
	// trigger yields nothing, they must come back.
	engine := &fakeEngine{}
	o := NewOrchestrator(engine, zap.NewNop())
	model := testModel(t, "a.ts")

	o.Regenerate(model, defaultOptions(ModeFilled))
	entry := model.Files[0]
	if entry.Visible {
		t.Fatal("filled round should have hidden the raw meshes")
	}

	engine.emptyFilled = true
	o.Regenerate(model, defaultOptions(ModeFilled))

	if !entry.Visible {
		t.Error("raw meshes must become visible again when no contours are cached")
	}
	state, _ := o.State(entry.ID)
	if state.Mode() != ModeNone {
		t.Errorf("state mode = %v, want none", state.Mode())
	}
}

func TestRegenerateDisposesWhenContourFlagCleared(t *testing.T) {
	engine := &fakeEngine{}
	o := NewOrchestrator(engine, zap.NewNop())
	model := testModel(t, "a.ts")

	o.Regenerate(model, defaultOptions(ModeBoth))
	entry := model.Files[0]
	first, _ := o.State(entry.ID)

	// Contouring switched off between triggers: the cached geometry
	// must not survive the next regeneration.
	entry.File.IsoContour = false
	o.Regenerate(model, defaultOptions(ModeBoth))

	if !first.Filled.Released() || !first.Lines.Released() {
		t.Error("geometry of a no-longer-contoured file must be released")
	}
	if _, ok := o.State(entry.ID); ok {
		t.Error("no state may remain for a no-longer-contoured file")
	}
}

func TestRegenerateSkipsNonContourFiles(t *testing.T) {
	engine := &fakeEngine{}
	o := NewOrchestrator(engine, zap.NewNop())
	model := testModel(t, "a.ts")
	model.Files[0].File.IsoContour = false

	o.Regenerate(model, defaultOptions(ModeFilled))

	if engine.filledCalls != 0 {
		t.Error("non-contour files must not reach the engine")
	}
	if _, ok := o.State(model.Files[0].ID); ok {
		t.Error("non-contour files must not get a state")
	}
}

func TestSetVisibility(t *testing.T) {
	o := NewOrchestrator(&fakeEngine{}, zap.NewNop())
	model := testModel(t, "a.ts")
	o.Regenerate(model, defaultOptions(ModeFilled))

	o.SetVisibility(model.Files[0].ID, true)
	if !model.Files[0].Visible {
		t.Error("SetVisibility(true) must show the raw meshes")
	}
}

func TestDisposeAll(t *testing.T) {
	engine := &fakeEngine{}
	o := NewOrchestrator(engine, zap.NewNop())
	model := testModel(t, "a.ts", "b.ts")
	o.Regenerate(model, defaultOptions(ModeBoth))

	var handles []*render.Handle
	for _, e := range model.Files {
		s, _ := o.State(e.ID)
		handles = append(handles, s.Filled, s.Lines)
	}

	o.DisposeAll()

	for i, h := range handles {
		if !h.Released() {
			t.Errorf("handle %d not released by DisposeAll", i)
		}
	}
	if _, ok := o.State(model.Files[0].ID); ok {
		t.Error("states must be forgotten after DisposeAll")
	}
}

func TestColorTableLookup(t *testing.T) {
	table := TableByName("rainbow", zap.NewNop())
	if c := table.Lookup(0); c.B != 255 || c.R != 0 {
		t.Errorf("Lookup(0) = %v, want blue", c)
	}
	if c := table.Lookup(1); c.R != 255 || c.B != 0 {
		t.Errorf("Lookup(1) = %v, want red", c)
	}

	ramp := table.Ramp(5)
	if len(ramp) != 5 {
		t.Fatalf("Ramp(5) returned %d colors", len(ramp))
	}
}

func TestTableByNameFallback(t *testing.T) {
	table := TableByName("nonexistent", zap.NewNop())
	if table.Name() != "rainbow" {
		t.Errorf("unknown table should fall back to rainbow, got %s", table.Name())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}, true},
		{"black", color.RGBA{0, 0, 0, 255}, true},
		{"Steelblue", color.RGBA{70, 130, 180, 255}, true},
		{"#zzz", color.RGBA{}, false},
		{"notacolor", color.RGBA{}, false},
	}
	for _, tc := range tests {
		got, ok := ParseColor(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseColor(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
