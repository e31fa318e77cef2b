// Package tmparam reads the mesh generator's input parameter file (§6):
// a line-oriented text format giving the global element size, the mesh
// bounding box, the node list, and one exterior plus zero or more
// interior boundary blocks.
package tmparam

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/meshmodel"
)

// DefaultQuadtreeMaxObj is used when the file omits "Number of quadtree
// elements:", matching meshmodel.DefaultQuadtreeMaxObj.
const DefaultQuadtreeMaxObj = meshmodel.DefaultQuadtreeMaxObj

// BoundaryEdge is one "i, j, marker, size_factor" line of a boundary
// block: i and j index into File.Nodes.
type BoundaryEdge struct {
	I, J       int
	Marker     int
	SizeFactor float64
}

// Boundary is one exterior or interior boundary block.
type Boundary struct {
	Marker int
	Edges  []BoundaryEdge
}

// File is the fully parsed contents of a parameter file.
type File struct {
	GlobalRho      float64
	Min, Max       geom2d.Coord
	QuadtreeMaxObj int

	Nodes []geom2d.Coord

	Exterior  Boundary
	Interiors []Boundary
}

// Parse reads a parameter file from r. It returns *meshmodel.Error with
// Kind InvalidInput for any missing required specifier, malformed or
// unterminated block, or node index out of range (§6, §7).
func Parse(r io.Reader) (*File, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, errors.Wrap(err, "tmparam: reading parameter file")
	}

	f := &File{QuadtreeMaxObj: DefaultQuadtreeMaxObj}

	rhoLine, ok := findSpecifier(lines, "Global element size:")
	if !ok {
		return nil, meshmodel.Errf(meshmodel.InvalidInput, "missing required specifier %q", "Global element size:")
	}
	rhoVal := strings.TrimSpace(rhoLine)
	if i := strings.IndexAny(rhoVal, " \t"); i >= 0 {
		rhoVal = rhoVal[:i]
	}
	rho, err := strconv.ParseFloat(rhoVal, 64)
	if err != nil {
		return nil, errors.Wrapf(meshmodel.Errf(meshmodel.InvalidInput, "Global element size: invalid value %q", rhoLine), "parsing float")
	}
	f.GlobalRho = rho

	bboxLine, ok := findSpecifier(lines, "Mesh bounding box:")
	if !ok {
		return nil, meshmodel.Errf(meshmodel.InvalidInput, "missing required specifier %q", "Mesh bounding box:")
	}
	bbox, err := parseFloats(bboxLine, 4)
	if err != nil {
		return nil, errors.Wrap(err, "Mesh bounding box:")
	}
	f.Min = geom2d.Coord{X: bbox[0], Y: bbox[1]}
	f.Max = geom2d.Coord{X: bbox[2], Y: bbox[3]}

	if qLine, ok := findSpecifier(lines, "Number of quadtree elements:"); ok {
		qVal := strings.TrimSpace(qLine)
		if i := strings.IndexAny(qVal, " \t"); i >= 0 {
			qVal = qVal[:i]
		}
		n, err := strconv.Atoi(qVal)
		if err != nil {
			return nil, meshmodel.Errf(meshmodel.InvalidInput, "Number of quadtree elements: invalid value %q", qLine)
		}
		f.QuadtreeMaxObj = n
	}

	nodes, err := parseBlock(lines, "Define nodes:", "End nodes", func(fields []string) (geom2d.Coord, error) {
		vals, err := parseFieldFloats(fields, 2)
		if err != nil {
			return geom2d.Coord{}, err
		}
		return geom2d.Coord{X: vals[0], Y: vals[1]}, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Define nodes:")
	}
	f.Nodes = nodes

	ext, err := parseBoundaryBlock(lines, "Define exterior boundary:", "End exterior boundary")
	if err != nil {
		return nil, errors.Wrap(err, "Define exterior boundary:")
	}
	if ext == nil {
		return nil, meshmodel.Errf(meshmodel.InvalidInput, "missing required %q block", "Define exterior boundary:")
	}
	f.Exterior = *ext

	for {
		interior, err := parseBoundaryBlock(lines, "Define interior boundary:", "End interior boundary")
		if err != nil {
			return nil, errors.Wrap(err, "Define interior boundary:")
		}
		if interior == nil {
			break
		}
		f.Interiors = append(f.Interiors, *interior)
		lines = consumeBlock(lines, "Define interior boundary:", "End interior boundary")
	}

	for _, n := range append(append([]BoundaryEdge{}, f.Exterior.Edges...), flattenInteriorEdges(f.Interiors)...) {
		if n.I < 0 || n.I >= len(f.Nodes) || n.J < 0 || n.J >= len(f.Nodes) {
			return nil, meshmodel.Errf(meshmodel.InvalidInput, "boundary edge (%d,%d) references a node index out of range [0,%d)", n.I, n.J, len(f.Nodes))
		}
	}

	return f, nil
}

func flattenInteriorEdges(bs []Boundary) []BoundaryEdge {
	var out []BoundaryEdge
	for _, b := range bs {
		out = append(out, b.Edges...)
	}
	return out
}

// readLines splits r into raw lines with trailing "#..." comments and
// the line terminator stripped, per §6 ("Comments begin with # and
// extend to line end").
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// findSpecifier returns the text following the last occurrence of
// spec on any line, trimmed per the canonical whitespace rule resolved
// in SPEC_FULL.md's Open Questions: leading whitespace stripped,
// trailing newline already stripped by readLines, value is the
// remainder of the line (longest non-whitespace-bounded content).
func findSpecifier(lines []string, spec string) (string, bool) {
	found := ""
	ok := false
	for _, line := range lines {
		if idx := strings.Index(line, spec); idx >= 0 {
			found = strings.TrimLeft(line[idx+len(spec):], " \t")
			ok = true
		}
	}
	return found, ok
}

// parseFloats splits a comma-separated value line into exactly want
// float64 fields.
func parseFloats(line string, want int) ([]float64, error) {
	fields := strings.Split(line, ",")
	return parseFieldFloats(fields, want)
}

func parseFieldFloats(fields []string, want int) ([]float64, error) {
	if len(fields) != want {
		return nil, meshmodel.Errf(meshmodel.InvalidInput, "expected %d comma-separated values, got %d", want, len(fields))
	}
	out := make([]float64, want)
	for i, s := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, meshmodel.Errf(meshmodel.InvalidInput, "invalid numeric value %q", s)
		}
		out[i] = v
	}
	return out, nil
}

// parseBlock scans lines for a "start" ... "end" block and applies parse
// to each interior line's comma-separated fields. It is InvalidInput if
// start is found without a matching end.
func parseBlock[T any](lines []string, start, end string, parse func(fields []string) (T, error)) ([]T, error) {
	i0, i1, ok := findBlock(lines, start, end, 0)
	if !ok {
		return nil, meshmodel.Errf(meshmodel.InvalidInput, "missing %q / %q block", start, end)
	}
	var out []T
	for i := i0 + 1; i < i1; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		v, err := parse(strings.Split(line, ","))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseBoundaryBlock parses the first "Define ... boundary: M" / "End ...
// boundary" block in lines, returning nil (no error) if start is absent
// — the caller uses this to detect "no more interior boundaries" versus
// a genuine parse failure. A start line with no following end line is
// InvalidInput.
func parseBoundaryBlock(lines []string, start, end string) (*Boundary, error) {
	i0, i1, ok := findBlockFrom(lines, start, end)
	if !ok {
		for _, line := range lines {
			if strings.Contains(line, start) {
				return nil, meshmodel.Errf(meshmodel.InvalidInput, "%q block has no matching %q line", start, end)
			}
		}
		return nil, nil
	}

	markerStr := strings.TrimLeft(lines[i0][strings.Index(lines[i0], start)+len(start):], " \t")
	marker, err := strconv.Atoi(strings.TrimSpace(markerStr))
	if err != nil {
		return nil, meshmodel.Errf(meshmodel.InvalidInput, "%s invalid marker %q", start, markerStr)
	}

	b := &Boundary{Marker: marker}
	for i := i0 + 1; i < i1; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		vals, err := parseFieldFloats(strings.Split(line, ","), 4)
		if err != nil {
			return nil, err
		}
		b.Edges = append(b.Edges, BoundaryEdge{
			I: int(vals[0]), J: int(vals[1]),
			Marker: int(vals[2]), SizeFactor: vals[3],
		})
	}
	if len(b.Edges) == 0 {
		return nil, meshmodel.Errf(meshmodel.InvalidInput, "%s block has no edges", start)
	}
	return b, nil
}

// findBlock locates the first occurrence of start at or after fromLine
// and its matching end; it is InvalidInput-worthy (ok=false) if start
// has no following end, i.e. the block is unterminated.
func findBlock(lines []string, start, end string, fromLine int) (i0, i1 int, ok bool) {
	return findBlockFrom(lines[fromLine:], start, end)
}

func findBlockFrom(lines []string, start, end string) (i0, i1 int, ok bool) {
	for i, line := range lines {
		if strings.Contains(line, start) {
			for j := i + 1; j < len(lines); j++ {
				if strings.Contains(lines[j], end) {
					return i, j, true
				}
			}
			return 0, 0, false
		}
	}
	return 0, 0, false
}

// consumeBlock drops everything up through and including the first
// start/end block from lines, so a repeated scan for the next interior
// boundary does not re-match the same one.
func consumeBlock(lines []string, start, end string) []string {
	for i, line := range lines {
		if strings.Contains(line, start) {
			for j := i + 1; j < len(lines); j++ {
				if strings.Contains(lines[j], end) {
					return lines[j+1:]
				}
			}
		}
	}
	return nil
}
