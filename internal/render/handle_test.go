package render

import "testing"

func TestHandleLifecycle(t *testing.T) {
	h := NewHandle([]float64{0, 0, 0, 1, 1, 1}, []uint32{0, 1}, nil)

	if h.ID() == "" {
		t.Error("handle must carry an identity")
	}
	if h.Released() {
		t.Error("fresh handle must be live")
	}
	if h.VertexCount() != 2 {
		t.Errorf("VertexCount() = %d, want 2", h.VertexCount())
	}

	h.Release()

	if !h.Released() {
		t.Error("handle must report released")
	}
	if h.Positions() != nil || h.Indices() != nil || h.Colors() != nil {
		t.Error("buffers must be freed on release")
	}

	// Releasing twice must be harmless.
	h.Release()
}

func TestHandleIdentityUnique(t *testing.T) {
	a := NewHandle(nil, nil, nil)
	b := NewHandle(nil, nil, nil)
	if a.ID() == b.ID() {
		t.Error("two handles must never share an identity")
	}
}
