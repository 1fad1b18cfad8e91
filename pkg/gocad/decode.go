package gocad

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Decode parses GOCAD ASCII content into one or more meshes. A file may
// contain several GOCAD object blocks; each becomes its own mesh. The
// object type of every block must match the requested format.
func Decode(text string, format Format) ([]*Mesh, error) {
	want := format.objectType()
	if want == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}

	var meshes []*Mesh
	var cur *objectParser

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if cur == nil {
			if fields[0] != "GOCAD" {
				continue
			}
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: malformed GOCAD header", lineNo)
			}
			if fields[1] != want {
				return nil, fmt.Errorf("line %d: %w: got %s, want %s",
					lineNo, ErrFormatMismatch, fields[1], want)
			}
			cur = newObjectParser(format)
			continue
		}

		if fields[0] == "END" && len(fields) == 1 {
			mesh, err := cur.finish()
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			meshes = append(meshes, mesh)
			cur = nil
			continue
		}

		if err := cur.line(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning GOCAD content: %w", err)
	}

	if cur != nil {
		return nil, ErrTruncatedObject
	}
	if len(meshes) == 0 {
		return nil, ErrNoData
	}
	return meshes, nil
}

// objectParser accumulates one GOCAD object block.
type objectParser struct {
	format   Format
	name     string
	inHeader bool

	// Declared property layout. Each declared property expands into one
	// series per component (ESIZES), named name0..nameK when size > 1.
	seriesNames []string

	positions []float64
	indices   []uint32
	segments  []uint32
	series    map[string][]float64

	// GOCAD vertex ids are arbitrary; idMap translates them to buffer order.
	idMap map[int]int
}

func newObjectParser(format Format) *objectParser {
	return &objectParser{
		format: format,
		series: make(map[string][]float64),
		idMap:  make(map[int]int),
	}
}

func (p *objectParser) line(fields []string) error {
	if p.inHeader {
		if strings.HasPrefix(fields[0], "name:") {
			p.name = strings.TrimSpace(strings.TrimPrefix(strings.Join(fields, " "), "name:"))
		}
		if fields[len(fields)-1] == "}" || fields[0] == "}" {
			p.inHeader = false
		}
		return nil
	}

	switch fields[0] {
	case "HEADER":
		// "HEADER {" opens a free-form key block closed by "}".
		if fields[len(fields)-1] != "}" {
			p.inHeader = true
		}
	case "PROPERTIES":
		return p.declareProperties(fields[1:])
	case "ESIZES":
		return p.declareSizes(fields[1:])
	case "VRTX":
		return p.vertex(fields[1:], false)
	case "PVRTX":
		return p.vertex(fields[1:], true)
	case "ATOM", "PATOM":
		return p.atom(fields[1:])
	case "TRGL":
		return p.element(fields[1:], 3, &p.indices)
	case "SEG":
		return p.element(fields[1:], 2, &p.segments)
	case "TETRA":
		// Solid connectivity is consumed for validation only; only the
		// vertices and their property series are carried downstream.
		return p.validateRefs(fields[1:], 4)
	default:
		// TFACE, ILINE, PVRTX metadata, coordinate system blocks and
		// other declarations carry nothing we consume.
	}
	return nil
}

// declareProperties registers property names; ESIZES may refine them into
// multi-component series afterwards.
func (p *objectParser) declareProperties(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: empty PROPERTIES", ErrMalformedProperty)
	}
	if len(p.positions) > 0 {
		return fmt.Errorf("%w: PROPERTIES after vertex data", ErrMalformedProperty)
	}
	p.seriesNames = append([]string(nil), names...)
	for _, n := range names {
		p.series[n] = nil
	}
	return nil
}

// declareSizes expands multi-component properties into indexed series.
func (p *objectParser) declareSizes(sizes []string) error {
	if len(sizes) != len(p.seriesNames) {
		return fmt.Errorf("%w: ESIZES count %d does not match PROPERTIES count %d",
			ErrMalformedProperty, len(sizes), len(p.seriesNames))
	}
	expanded := make([]string, 0, len(sizes))
	names := p.seriesNames
	p.series = make(map[string][]float64)
	for i, s := range sizes {
		size, err := strconv.Atoi(s)
		if err != nil || size < 1 {
			return fmt.Errorf("%w: bad ESIZE %q", ErrMalformedProperty, s)
		}
		if size == 1 {
			expanded = append(expanded, names[i])
			p.series[names[i]] = nil
			continue
		}
		for c := 0; c < size; c++ {
			name := names[i] + strconv.Itoa(c)
			expanded = append(expanded, name)
			p.series[name] = nil
		}
	}
	p.seriesNames = expanded
	return nil
}

// vertex parses "VRTX id x y z" or "PVRTX id x y z v0 v1 ...".
func (p *objectParser) vertex(fields []string, withProps bool) error {
	minLen := 4
	if withProps {
		minLen += len(p.seriesNames)
	}
	if len(fields) < minLen {
		return fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedVertex, minLen, len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: bad vertex id %q", ErrMalformedVertex, fields[0])
	}

	var xyz [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[1+i], 64)
		if err != nil {
			return fmt.Errorf("%w: bad coordinate %q", ErrMalformedVertex, fields[1+i])
		}
		xyz[i] = v
	}

	p.idMap[id] = len(p.positions) / 3
	p.positions = append(p.positions, xyz[0], xyz[1], xyz[2])

	for i, name := range p.seriesNames {
		val := 0.0
		if withProps {
			v, err := strconv.ParseFloat(fields[4+i], 64)
			if err != nil {
				return fmt.Errorf("%w: bad property value %q", ErrMalformedVertex, fields[4+i])
			}
			val = v
		}
		p.series[name] = append(p.series[name], val)
	}
	return nil
}

// atom parses "ATOM id ref": a vertex sharing the position and property
// values of an earlier vertex.
func (p *objectParser) atom(fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("%w: ATOM needs id and reference", ErrMalformedVertex)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: bad vertex id %q", ErrMalformedVertex, fields[0])
	}
	ref, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("%w: bad ATOM reference %q", ErrMalformedVertex, fields[1])
	}
	src, ok := p.idMap[ref]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownVertexID, ref)
	}

	p.idMap[id] = len(p.positions) / 3
	p.positions = append(p.positions, p.positions[src*3], p.positions[src*3+1], p.positions[src*3+2])
	for _, name := range p.seriesNames {
		p.series[name] = append(p.series[name], p.series[name][src])
	}
	return nil
}

// element parses connectivity records (TRGL, SEG) into the target buffer.
func (p *objectParser) element(fields []string, arity int, dst *[]uint32) error {
	if len(fields) < arity {
		return fmt.Errorf("%w: expected %d vertex ids, got %d", ErrMalformedElement, arity, len(fields))
	}
	for i := 0; i < arity; i++ {
		id, err := strconv.Atoi(fields[i])
		if err != nil {
			return fmt.Errorf("%w: bad vertex id %q", ErrMalformedElement, fields[i])
		}
		idx, ok := p.idMap[id]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownVertexID, id)
		}
		*dst = append(*dst, uint32(idx))
	}
	return nil
}

func (p *objectParser) validateRefs(fields []string, arity int) error {
	if len(fields) < arity {
		return fmt.Errorf("%w: expected %d vertex ids, got %d", ErrMalformedElement, arity, len(fields))
	}
	for i := 0; i < arity; i++ {
		id, err := strconv.Atoi(fields[i])
		if err != nil {
			return fmt.Errorf("%w: bad vertex id %q", ErrMalformedElement, fields[i])
		}
		if _, ok := p.idMap[id]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownVertexID, id)
		}
	}
	return nil
}

func (p *objectParser) finish() (*Mesh, error) {
	m := &Mesh{
		Name:      p.name,
		Positions: p.positions,
		Indices:   p.indices,
		Segments:  p.segments,
		RawSeries: p.series,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.RecomputeBounds()
	m.RecomputeNormals()
	return m, nil
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
