package attr

import "sort"

// Manager is a read-only view over one mesh's raw and derived series.
// Derived series shadow raw series of the same name.
type Manager struct {
	raw     map[string][]float64
	derived map[string][]float64
}

// NewManager builds a manager over the given backing series. Both maps
// stay owned by the caller; the manager never copies or mutates them.
func NewManager(raw, derived map[string][]float64) *Manager {
	return &Manager{raw: raw, derived: derived}
}

// Names returns the unique attribute names visible through the manager.
func (m *Manager) Names() []string {
	seen := make(map[string]struct{}, len(m.raw)+len(m.derived))
	for n := range m.derived {
		seen[n] = struct{}{}
	}
	for n := range m.raw {
		seen[n] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Serie returns the value series for an attribute name, derived series
// first, raw second. Absent names yield nil, never an error.
func (m *Manager) Serie(name string) []float64 {
	if s, ok := m.derived[name]; ok {
		return s
	}
	if s, ok := m.raw[name]; ok {
		return s
	}
	return nil
}
