package meshmodel

import "github.com/flosewn/tmesh-go/geom2d"

// Edge is an ordered pair of nodes plus the geometric quantities derived
// from their positions at creation time. Node positions never move once
// created, so these derived quantities are computed once and are
// immutable for the edge's lifetime.
type Edge struct {
	ID   EdgeID
	Kind EdgeKind
	N1   NodeID
	N2   NodeID

	Centroid geom2d.Coord
	Length   float64
	Tangent  geom2d.Coord // unit vector from n1 to n2
	Normal   geom2d.Coord // unit vector 90 degrees CCW from Tangent

	// Boundary-only.
	Marker     int
	SizeFactor float64

	// Mesh-only: t1 is the triangle to the left of n1->n2, t2 to the
	// right.
	T1 TriID
	T2 TriID

	// Front-only: the known (already-triangulated) side.
	Right TriID

	LocallyDelaunay bool

	removed bool
}

// deriveEdgeGeometry computes the centroid/length/tangent/normal for an
// edge running from p1 to p2. The normal points to the left of p1->p2,
// i.e. 90 degrees counter-clockwise from the tangent.
func deriveEdgeGeometry(p1, p2 geom2d.Coord) (centroid geom2d.Coord, length float64, tangent, normal geom2d.Coord) {
	centroid = p1.Add(p2).Scale(0.5)
	length = p1.Dist(p2)
	if length == 0 {
		return centroid, 0, geom2d.Coord{}, geom2d.Coord{}
	}
	tangent = p2.Sub(p1).Scale(1 / length)
	normal = tangent.Left90()
	return
}

// newEdge builds an Edge in isolation from the mesh; Mesh.AddEdge does
// the cross-wiring into adjacency lists, stacks, and quadtrees once the
// edge has an ID.
func newEdge(id EdgeID, kind EdgeKind, n1, n2 NodeID, p1, p2 geom2d.Coord) *Edge {
	centroid, length, tangent, normal := deriveEdgeGeometry(p1, p2)
	e := &Edge{
		ID:       id,
		Kind:     kind,
		N1:       n1,
		N2:       n2,
		Centroid: centroid,
		Length:   length,
		Tangent:  tangent,
		Normal:   normal,
		T1:       NoTri,
		T2:       NoTri,
		Right:    NoTri,
	}
	if kind == BoundaryEdge {
		e.SizeFactor = 1
	}
	return e
}

// Other returns the endpoint of e that is not n.
func (e *Edge) Other(n NodeID) NodeID {
	if e.N1 == n {
		return e.N2
	}
	return e.N1
}

// HasEndpoints reports whether e connects exactly {a,b}, in either order.
func (e *Edge) HasEndpoints(a, b NodeID) bool {
	return (e.N1 == a && e.N2 == b) || (e.N1 == b && e.N2 == a)
}
