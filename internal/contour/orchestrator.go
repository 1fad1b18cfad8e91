package contour

import (
	"image/color"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/geoscope/internal/field"
	"github.com/Faultbox/geoscope/internal/loader"
	"github.com/Faultbox/geoscope/internal/render"
)

// Mode selects which contour geometry to generate.
type Mode int

// Display modes.
const (
	ModeNone Mode = iota
	ModeFilled
	ModeLines
	ModeBoth
)

// HasFilled reports whether the mode includes filled bands.
func (m Mode) HasFilled() bool {
	return m == ModeFilled || m == ModeBoth
}

// HasLines reports whether the mode includes contour lines.
func (m Mode) HasLines() bool {
	return m == ModeLines || m == ModeBoth
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeFilled:
		return "filled"
	case ModeLines:
		return "lines"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Options carry one regeneration trigger's parameters. Any change to
// mode, level count, color table, or attribute is a trigger.
type Options struct {
	Mode      Mode
	Levels    int
	Attribute string
	Table     string
	LineColor string
}

// State holds the generated contour geometry for one file identity.
type State struct {
	Filled *render.Handle
	Lines  *render.Handle
}

// Mode derives the state-machine state from the cached handles.
func (s *State) Mode() Mode {
	switch {
	case s.Filled != nil && s.Lines != nil:
		return ModeBoth
	case s.Filled != nil:
		return ModeFilled
	case s.Lines != nil:
		return ModeLines
	default:
		return ModeNone
	}
}

// dispose releases every cached handle.
func (s *State) dispose() {
	if s.Filled != nil {
		s.Filled.Release()
		s.Filled = nil
	}
	if s.Lines != nil {
		s.Lines.Release()
		s.Lines = nil
	}
}

// Orchestrator owns all generated contour geometry and is solely
// responsible for its disposal. Raw meshes stay owned by the loader;
// the orchestrator only toggles their visibility.
type Orchestrator struct {
	engine Engine
	log    *zap.Logger

	mu      sync.Mutex
	states  map[string]*State
	entries map[string]*loader.FileEntry
}

// NewOrchestrator creates an orchestrator over the given engine.
func NewOrchestrator(engine Engine, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		engine:  engine,
		log:     log,
		states:  make(map[string]*State),
		entries: make(map[string]*loader.FileEntry),
	}
}

// Regenerate rebuilds contour geometry for every contour-enabled file of
// the model. Stale generated geometry is disposed before new geometry is
// installed. A failing engine call leaves that file's state empty and
// never aborts the siblings.
func (o *Orchestrator) Regenerate(model *loader.LoadedModel, opts Options) {
	if opts.Levels < 1 {
		opts.Levels = 2
	}
	table := TableByName(opts.Table, o.log)
	lineColor, ok := ParseColor(opts.LineColor)
	if !ok {
		lineColor = color.RGBA{A: 255}
	}

	for _, entry := range model.Files {
		o.mu.Lock()
		o.entries[entry.ID] = entry
		o.mu.Unlock()

		// Stale geometry goes first, even for files whose contour flag
		// was switched off since the last trigger.
		o.Dispose(entry.ID)

		if !entry.File.IsoContour {
			continue
		}

		if entry.Empty() {
			o.log.Debug("no geometry for contouring", zap.String("file", entry.File.Path))
			continue
		}

		state := o.regenerateFile(entry, opts, table, lineColor)

		o.mu.Lock()
		o.states[entry.ID] = state
		o.mu.Unlock()
	}
}

// regenerateFile runs the extract -> levels -> engine pipeline for one
// file and applies the visibility rules for the resulting state.
func (o *Orchestrator) regenerateFile(entry *loader.FileEntry, opts Options, table *ColorTable, lineColor color.RGBA) *State {
	state := &State{}

	// Level table spans the scalar range across every mesh of the file.
	var combined []float64
	fields := make([][]float64, len(entry.RawMeshes))
	for i := range entry.RawMeshes {
		fields[i] = field.ScalarMesh(entry, i, opts.Attribute, o.log)
		combined = append(combined, fields[i]...)
	}
	levels := field.IsoLevels(combined, opts.Levels)
	if levels == nil {
		return state
	}

	if opts.Mode.HasFilled() {
		handle, ok := o.computeFilled(entry, fields, levels, FillOptions{Table: table, ColorCount: opts.Levels})
		if !ok {
			// Engine failure: leave the state empty, keep raw meshes up.
			entry.Visible = true
			return state
		}
		if handle != nil {
			state.Filled = handle
			entry.Visible = false
		} else {
			// Empty result: nothing replaces the raw meshes on screen,
			// so they must stay (or become) visible.
			entry.Visible = true
		}
	}

	if opts.Mode.HasLines() {
		if handle := o.computeLines(entry, fields, levels, lineColor, table); handle != nil {
			state.Lines = handle
		}
	}

	// Lines-only display keeps the raw meshes on screen under the lines.
	if opts.Mode.HasLines() && !opts.Mode.HasFilled() {
		entry.Visible = true
	}

	o.log.Debug("contours regenerated",
		zap.String("file", entry.File.Path),
		zap.String("state", state.Mode().String()),
		zap.Int("levels", len(levels)))
	return state
}

// computeFilled requests filled bands for every mesh of the entry and
// concatenates the results into one handle. The second return is false
// on engine failure.
func (o *Orchestrator) computeFilled(entry *loader.FileEntry, fields [][]float64, levels []float64, opts FillOptions) (*render.Handle, bool) {
	var positions []float64
	var indices []uint32
	var colors []float64

	for i, m := range entry.RawMeshes {
		res, err := o.engine.ComputeFilled(TopologyOf(m), fields[i], levels, opts)
		if err != nil {
			o.log.Warn("contour engine failed for filled bands",
				zap.String("file", entry.File.Path),
				zap.Error(err))
			return nil, false
		}
		if res.Empty() {
			continue
		}
		offset := uint32(len(positions) / 3)
		positions = append(positions, res.Positions...)
		for _, idx := range res.Indices {
			indices = append(indices, idx+offset)
		}
		colors = append(colors, res.Colors...)
	}

	if len(positions) == 0 {
		return nil, true
	}
	return render.NewHandle(positions, indices, colors), true
}

// computeLines requests contour lines for every mesh of the entry.
func (o *Orchestrator) computeLines(entry *loader.FileEntry, fields [][]float64, levels []float64, lineColor color.RGBA, table *ColorTable) *render.Handle {
	var positions []float64

	for i, m := range entry.RawMeshes {
		res, err := o.engine.ComputeLines(TopologyOf(m), fields[i], levels, lineColor, table)
		if err != nil {
			o.log.Warn("contour engine failed for lines",
				zap.String("file", entry.File.Path),
				zap.Error(err))
			return nil
		}
		if res.Empty() {
			continue
		}
		positions = append(positions, res.Positions...)
	}

	if len(positions) == 0 {
		return nil
	}
	return render.NewHandle(positions, nil, nil)
}

// State returns the cached contour state for a file identity.
func (o *Orchestrator) State(fileID string) (*State, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.states[fileID]
	return s, ok
}

// SetVisibility toggles the raw meshes of a file.
func (o *Orchestrator) SetVisibility(fileID string, visible bool) {
	o.mu.Lock()
	entry, ok := o.entries[fileID]
	o.mu.Unlock()
	if ok {
		entry.Visible = visible
	}
}

// Dispose releases and forgets the contour state of one file.
func (o *Orchestrator) Dispose(fileID string) {
	o.mu.Lock()
	s, ok := o.states[fileID]
	delete(o.states, fileID)
	o.mu.Unlock()
	if ok {
		s.dispose()
	}
}

// DisposeAll releases every cached contour state, e.g. on model unload.
func (o *Orchestrator) DisposeAll() {
	o.mu.Lock()
	states := o.states
	o.states = make(map[string]*State)
	o.entries = make(map[string]*loader.FileEntry)
	o.mu.Unlock()

	for _, s := range states {
		s.dispose()
	}
}
