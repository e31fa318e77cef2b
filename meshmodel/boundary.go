package meshmodel

import (
	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/quadtree"
)

// Boundary is an ordered polygon of directed boundary edges: the
// exterior outline (CCW) or one of zero or more interior holes (CW).
type Boundary struct {
	ID       BoundaryID
	Marker   int
	Interior bool
	Edges    []EdgeID // ordered, directed

	SignedArea float64

	qtree *quadtree.Quadtree[EdgeID]
}

// checkOrientation verifies the required polygon orientation: exterior
// boundaries must have positive signed area (CCW), interior boundaries
// negative (CW). A violation is fatal (InvalidInput), per §4.D.
func (b *Boundary) checkOrientation() error {
	if b.Interior && b.SignedArea >= 0 {
		return Errf(InvalidInput, "interior boundary %d has non-negative signed area %v (must be CW)", b.Marker, b.SignedArea)
	}
	if !b.Interior && b.SignedArea <= 0 {
		return Errf(InvalidInput, "exterior boundary %d has non-positive signed area %v (must be CCW)", b.Marker, b.SignedArea)
	}
	return nil
}

// rayCastCrossings counts crossings of a rightward horizontal ray from xy
// with b's edges, using the Mesh to resolve edge endpoint coordinates.
// Points exactly on an edge are declared inside directly (§4.D).
func (m *Mesh) rayCastCrossings(b *Boundary, xy geom2d.Coord) (crossings int, onEdge bool) {
	for _, eid := range b.Edges {
		e := m.Edge(eid)
		p1, p2 := m.Node(e.N1).XY, m.Node(e.N2).XY
		if geom2d.InOnSegment(p1, p2, xy) {
			return 0, true
		}
		if rayCrossesEdge(xy, p1, p2) {
			crossings++
		}
	}
	return crossings, false
}

// rayCrossesEdge reports whether a horizontal ray from xy extending in
// +X crosses segment p1p2, using the standard half-open convention so
// that a ray passing exactly through a shared vertex is counted once.
func rayCrossesEdge(xy, p1, p2 geom2d.Coord) bool {
	if (p1.Y > xy.Y) == (p2.Y > xy.Y) {
		return false
	}
	// x-coordinate where the edge crosses the horizontal line y=xy.Y.
	t := (xy.Y - p1.Y) / (p2.Y - p1.Y)
	xCross := p1.X + t*(p2.X-p1.X)
	return xCross > xy.X
}

// Inside reports whether xy is inside boundary b by ray-cast parity,
// with points on the boundary itself counted as inside.
func (m *Mesh) boundaryContains(b *Boundary, xy geom2d.Coord) bool {
	crossings, onEdge := m.rayCastCrossings(b, xy)
	if onEdge {
		return true
	}
	return crossings%2 == 1
}

// ObjectInside returns true when xy is strictly inside the exterior
// boundary and strictly outside every interior boundary (§4.C).
func (m *Mesh) ObjectInside(xy geom2d.Coord) bool {
	if m.exterior == nil {
		return false
	}
	if !m.boundaryContains(m.exterior, xy) {
		return false
	}
	for _, b := range m.Boundaries {
		if b.Interior && m.boundaryContains(b, xy) {
			return false
		}
	}
	return true
}

// SplitEdge creates a midpoint node and two new boundary edges inheriting
// e's marker and size factor, replacing e in its boundary's edge list.
// It returns the first half (n1 -> midpoint).
func (m *Mesh) SplitBoundaryEdge(b *Boundary, eid EdgeID) (EdgeID, error) {
	e := m.Edge(eid)
	if e.Kind != BoundaryEdge {
		return NoEdge, Errf(InvalidInput, "SplitBoundaryEdge: edge %d is not a boundary edge", eid)
	}
	n1, n2 := m.Node(e.N1), m.Node(e.N2)
	mid := m.AddNode(n1.XY.Add(n2.XY).Scale(0.5))

	marker, sizeFactor := e.Marker, e.SizeFactor
	first, err := m.AddEdge(BoundaryEdge, e.N1, mid)
	if err != nil {
		return NoEdge, err
	}
	m.Edge(first).Marker = marker
	m.Edge(first).SizeFactor = sizeFactor

	second, err := m.AddEdge(BoundaryEdge, mid, e.N2)
	if err != nil {
		return NoEdge, err
	}
	m.Edge(second).Marker = marker
	m.Edge(second).SizeFactor = sizeFactor

	pos := -1
	for i, id := range b.Edges {
		if id == eid {
			pos = i
			break
		}
	}
	if pos < 0 {
		return NoEdge, Errf(InvalidInput, "SplitBoundaryEdge: edge %d not found in its boundary", eid)
	}
	b.Edges = append(b.Edges[:pos], append([]EdgeID{first, second}, b.Edges[pos+1:]...)...)

	m.RemoveEdge(eid)
	b.qtree.Remove(eid)
	b.qtree.Insert(first)
	b.qtree.Insert(second)

	return first, nil
}
