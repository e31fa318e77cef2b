package meshmodel

import "github.com/flosewn/tmesh-go/geom2d"

// Node is a 2D point in the mesh.
//
// Active is false while a node is a provisional stage-2 apex candidate
// (§4.H) and becomes true once the node is committed to a front update;
// only active nodes are considered by the front-vertex validity check
// (§4.I).
//
// Rho0 and K are the per-boundary-node size-function parameters (§4.E);
// they are left at zero for interior nodes introduced during advancing.
type Node struct {
	ID     NodeID
	XY     geom2d.Coord
	Index  int // assigned at output time, -1 until then
	Active bool

	BoundaryEdges []EdgeID
	FrontEdges    []EdgeID
	MeshEdges     []EdgeID
	Triangles     []TriID

	Rho0 float64
	K    float64

	removed bool
}

// removeEdgeID drops id from a node's adjacency slice, if present.
func removeEdgeID(edges []EdgeID, id EdgeID) []EdgeID {
	for i, e := range edges {
		if e == id {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

func removeTriID(tris []TriID, id TriID) []TriID {
	for i, t := range tris {
		if t == id {
			return append(tris[:i], tris[i+1:]...)
		}
	}
	return tris
}
