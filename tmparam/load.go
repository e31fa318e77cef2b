package tmparam

import (
	"io"

	"github.com/pkg/errors"

	"github.com/flosewn/tmesh-go/meshmodel"
)

// Load parses a parameter file from r and builds the initial *meshmodel.
// Mesh it describes: the node pool, the exterior boundary, and every
// interior boundary, with each boundary node's curvature/length size-
// function parameters initialized (§4.E) and ready for refine.Boundaries
// and advance.Run.
func Load(r io.Reader) (*meshmodel.Mesh, error) {
	f, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return Build(f)
}

// Build constructs a *meshmodel.Mesh from an already-parsed File.
func Build(f *File) (*meshmodel.Mesh, error) {
	m := meshmodel.NewMeshWithQuadtreeMaxObj(f.Min, f.Max, f.GlobalRho, f.QuadtreeMaxObj)

	for _, xy := range f.Nodes {
		m.AddNode(xy)
	}

	if _, err := addBoundary(m, f.Exterior, false); err != nil {
		return nil, errors.Wrap(err, "exterior boundary")
	}
	for i, interior := range f.Interiors {
		if _, err := addBoundary(m, interior, true); err != nil {
			return nil, errors.Wrapf(err, "interior boundary %d", i)
		}
	}

	m.InitBoundaryNodeParams()
	return m, nil
}

// addBoundary registers one parsed Boundary block. It trusts the file's
// edge order directly as the polygon traversal order (matching the
// original reader, which does not validate i/j chain continuity): the
// boundary's node sequence is the "i" endpoint of each edge line in
// order, and edges[k].J is expected but not checked to equal
// edges[(k+1)%n].I.
func addBoundary(m *meshmodel.Mesh, b Boundary, interior bool) (*meshmodel.Boundary, error) {
	nodeIDs := make([]meshmodel.NodeID, len(b.Edges))
	edgeMarkers := make([]int, len(b.Edges))
	sizeFactors := make([]float64, len(b.Edges))
	for i, e := range b.Edges {
		nodeIDs[i] = meshmodel.NodeID(e.I)
		edgeMarkers[i] = e.Marker
		sizeFactors[i] = e.SizeFactor
	}
	return m.AddBoundaryFromNodes(b.Marker, interior, nodeIDs, edgeMarkers, sizeFactors)
}
