package meshmodel

// NodeID, EdgeID, TriID, and BoundaryID are stable handles into the
// Mesh's arenas, standing in for the pointer-based graphs of the
// algorithm this mesh generator implements: nodes, edges, and triangles
// reference each other by index rather than by pointer, so the Mesh
// remains the sole owner of every entity and removal never leaves a
// dangling pointer behind.
type (
	NodeID     int
	EdgeID     int
	TriID      int
	BoundaryID int
)

// NoNode, NoEdge, NoTri, and NoBoundary are the sentinel "absent" handles,
// used e.g. for a front edge's not-yet-known left triangle or a boundary
// edge's unused triangle references.
const (
	NoNode     NodeID     = -1
	NoEdge     EdgeID     = -1
	NoTri      TriID      = -1
	NoBoundary BoundaryID = -1
)

// EdgeKind classifies an Edge as exactly one of the three roles it can
// play in the mesh at any given time.
type EdgeKind int

const (
	BoundaryEdge EdgeKind = iota
	FrontEdge
	MeshEdge
)

func (k EdgeKind) String() string {
	switch k {
	case BoundaryEdge:
		return "boundary"
	case FrontEdge:
		return "front"
	case MeshEdge:
		return "mesh"
	default:
		return "unknown"
	}
}
