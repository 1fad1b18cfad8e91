// Package render holds handles to geometry owned by the external render
// engine. The engine itself is out of process scope; handles track the
// buffers and the released/live state so disposal bugs surface in tests.
package render

import (
	"sync"

	"github.com/google/uuid"
)

// Handle references one uploaded geometry buffer set. A handle must be
// released exactly once before being replaced or dropped.
type Handle struct {
	id string

	mu        sync.Mutex
	released  bool
	positions []float64
	indices   []uint32
	colors    []float64
}

// NewHandle wraps generated geometry buffers in a fresh handle.
func NewHandle(positions []float64, indices []uint32, colors []float64) *Handle {
	return &Handle{
		id:        uuid.NewString(),
		positions: positions,
		indices:   indices,
		colors:    colors,
	}
}

// ID returns the unique handle identity.
func (h *Handle) ID() string {
	return h.id
}

// Positions returns the position buffer, or nil after release.
func (h *Handle) Positions() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.positions
}

// Indices returns the index buffer, or nil after release.
func (h *Handle) Indices() []uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.indices
}

// Colors returns the color buffer, or nil after release.
func (h *Handle) Colors() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.colors
}

// VertexCount returns the number of vertices held.
func (h *Handle) VertexCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.positions) / 3
}

// Release frees the buffers. Releasing twice is a no-op.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
	h.positions = nil
	h.indices = nil
	h.colors = nil
}

// Released reports whether the handle has been freed.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}
