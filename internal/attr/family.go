// Package attr derives per-vertex attributes from raw survey property
// series: families of indexed components, a lookup manager over raw and
// derived series, and the stress-regime weighted recombination.
package attr

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind classifies a detected attribute family.
type Kind int

// Family kinds.
const (
	// KindScalar is a plain single series with no component suffix.
	KindScalar Kind = iota
	// KindVector3 is a run of exactly three indexed components.
	KindVector3
	// KindComponentRange is a run of indexed components of any other
	// width (tensor families, time steps).
	KindComponentRange
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindVector3:
		return "Vector3"
	case KindComponentRange:
		return "ComponentRange"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Family describes either a single scalar series or a contiguous run of
// indexed component series name{Start}..name{End} over the same mesh.
type Family struct {
	Name  string
	Kind  Kind
	Start int
	End   int
}

// Width returns the number of component series in the family.
func (f Family) Width() int {
	if f.Kind == KindScalar {
		return 1
	}
	return f.End - f.Start + 1
}

// Component returns the series name of component i of the family.
func (f Family) Component(i int) string {
	if f.Kind == KindScalar {
		return f.Name
	}
	return f.Name + strconv.Itoa(f.Start+i)
}

// DetectFamilies inspects raw series names and groups indexed runs
// (name0..nameK) into families. Names without a numeric suffix become
// scalar families. The result is sorted by family name.
func DetectFamilies(raw map[string][]float64) []Family {
	names := make([]string, 0, len(raw))
	for n := range raw {
		names = append(names, n)
	}
	sort.Strings(names)

	// Indexed components grouped by base name.
	indexed := make(map[string][]int)
	var families []Family

	for _, n := range names {
		base, idx, ok := splitIndexed(n)
		if !ok {
			families = append(families, Family{Name: n, Kind: KindScalar})
			continue
		}
		indexed[base] = append(indexed[base], idx)
	}

	for base, idxs := range indexed {
		sort.Ints(idxs)
		runs := contiguousRuns(idxs)
		for _, run := range runs {
			if run[1] == run[0] {
				// A single suffixed series behaves as a scalar.
				families = append(families, Family{Name: base + strconv.Itoa(run[0]), Kind: KindScalar})
				continue
			}
			kind := KindComponentRange
			if run[1]-run[0]+1 == 3 {
				kind = KindVector3
			}
			families = append(families, Family{Name: base, Kind: kind, Start: run[0], End: run[1]})
		}
	}

	sort.Slice(families, func(i, j int) bool {
		if families[i].Name != families[j].Name {
			return families[i].Name < families[j].Name
		}
		return families[i].Start < families[j].Start
	})
	return families
}

// splitIndexed splits a trailing integer suffix off a series name.
func splitIndexed(name string) (base string, idx int, ok bool) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) || i == 0 {
		return name, 0, false
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil {
		return name, 0, false
	}
	return name[:i], n, true
}

// contiguousRuns splits a sorted index list into [start, end] runs.
func contiguousRuns(idxs []int) [][2]int {
	var runs [][2]int
	start := idxs[0]
	prev := idxs[0]
	for _, v := range idxs[1:] {
		if v == prev+1 {
			prev = v
			continue
		}
		runs = append(runs, [2]int{start, prev})
		start, prev = v, v
	}
	runs = append(runs, [2]int{start, prev})
	return runs
}
