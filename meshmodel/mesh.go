// Package meshmodel is the central registry for a triangulation in
// progress: it owns every Node, Edge, Triangle, and Boundary, and the
// quadtrees that index them (§3, §4.C).
package meshmodel

import (
	"math"

	"github.com/pkg/errors"

	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/quadtree"
	"github.com/flosewn/tmesh-go/sizefunc"
)

// DefaultQuadtreeMaxObj is the default per-leaf object capacity for the
// mesh's three quadtrees, matching the parameter file's optional
// "Number of quadtree elements:" default (§6).
const DefaultQuadtreeMaxObj = 100

// Mesh is the root container for a triangulation in progress. It owns
// all nodes, edges, triangles, and boundaries, plus the front and the
// three spatial indices over nodes, edges, and triangles (§3).
type Mesh struct {
	Min, Max geom2d.Coord

	GlobalRho float64
	UserRho   sizefunc.UserRho

	Boundaries []*Boundary
	Front      *Front

	QuadtreeMaxObj int

	nodes     []*Node
	edges     []*Edge
	triangles []*Triangle

	exterior *Boundary

	nodeQtree *quadtree.Quadtree[NodeID]
	edgeQtree *quadtree.Quadtree[EdgeID]
	triQtree  *quadtree.Quadtree[TriID]

	nonDelaunay      []EdgeID
	nonDelaunaySet   map[EdgeID]bool
}

// NewMesh creates an empty mesh over the bounding box [min,max] with
// global size rho and no user size callback. Call AddBoundary once for
// the exterior polygon and once per interior hole before refining.
func NewMesh(min, max geom2d.Coord, globalRho float64) *Mesh {
	return NewMeshWithQuadtreeMaxObj(min, max, globalRho, DefaultQuadtreeMaxObj)
}

// NewMeshWithQuadtreeMaxObj is NewMesh with an explicit per-leaf quadtree
// capacity, honoring the parameter file's optional "Number of quadtree
// elements:" specifier (§6) instead of DefaultQuadtreeMaxObj.
func NewMeshWithQuadtreeMaxObj(min, max geom2d.Coord, globalRho float64, maxObj int) *Mesh {
	m := &Mesh{
		Min:            min,
		Max:            max,
		GlobalRho:      globalRho,
		QuadtreeMaxObj: maxObj,
		Front:          &Front{},
		nonDelaunaySet: map[EdgeID]bool{},
	}
	m.nodeQtree = quadtree.NewQuadtree[NodeID](min, max, m.QuadtreeMaxObj, func(id NodeID) geom2d.Coord {
		return m.Node(id).XY
	})
	m.edgeQtree = quadtree.NewQuadtree[EdgeID](min, max, m.QuadtreeMaxObj, func(id EdgeID) geom2d.Coord {
		return m.Edge(id).Centroid
	})
	m.triQtree = quadtree.NewQuadtree[TriID](min, max, m.QuadtreeMaxObj, func(id TriID) geom2d.Coord {
		return m.Triangle(id).Centroid
	})
	m.Front.qtree = quadtree.NewQuadtree[EdgeID](min, max, m.QuadtreeMaxObj, func(id EdgeID) geom2d.Coord {
		return m.Edge(id).Centroid
	})
	return m
}

// Node, Edge, and Triangle look up an entity by ID. They panic on a
// removed or out-of-range handle, since any such lookup indicates an
// internal bookkeeping bug rather than a recoverable condition.
func (m *Mesh) Node(id NodeID) *Node {
	n := m.nodes[id]
	if n == nil || n.removed {
		panic("meshmodel: use of removed or invalid node")
	}
	return n
}

func (m *Mesh) Edge(id EdgeID) *Edge {
	e := m.edges[id]
	if e == nil || e.removed {
		panic("meshmodel: use of removed or invalid edge")
	}
	return e
}

func (m *Mesh) Triangle(id TriID) *Triangle {
	t := m.triangles[id]
	if t == nil || t.removed {
		panic("meshmodel: use of removed or invalid triangle")
	}
	return t
}

// AddNode creates a new node at xy and inserts it into the node
// quadtree.
func (m *Mesh) AddNode(xy geom2d.Coord) NodeID {
	id := NodeID(len(m.nodes))
	n := &Node{ID: id, XY: xy, Index: -1}
	m.nodes = append(m.nodes, n)
	m.nodeQtree.Insert(id)
	return id
}

// AddBoundary registers a new boundary polygon from an ordered list of
// vertex coordinates, creating its nodes and boundary edges (with the
// given marker and per-edge size factors) and its own quadtree. It is
// fatal (InvalidInput) if the resulting signed area has the wrong sign
// for the boundary's interior/exterior role.
func (m *Mesh) AddBoundary(marker int, interior bool, verts []geom2d.Coord, sizeFactors []float64) (*Boundary, error) {
	return m.AddBoundaryEdges(marker, interior, verts, nil, sizeFactors)
}

// AddBoundaryEdges is AddBoundary generalized to the parameter file's
// per-edge marker column (§6: "i, j, marker, size_factor"): edgeMarkers,
// if non-nil, gives the marker of the edge from verts[i] to verts[i+1]
// individually; nil falls back to the uniform boundary marker for every
// edge, matching AddBoundary's prior behavior.
func (m *Mesh) AddBoundaryEdges(marker int, interior bool, verts []geom2d.Coord, edgeMarkers []int, sizeFactors []float64) (*Boundary, error) {
	if len(verts) < 3 {
		return nil, Errf(InvalidInput, "boundary %d has fewer than 3 vertices", marker)
	}
	ids := make([]NodeID, len(verts))
	for i, v := range verts {
		ids[i] = m.AddNode(v)
	}
	return m.AddBoundaryFromNodes(marker, interior, ids, edgeMarkers, sizeFactors)
}

// AddBoundaryFromNodes is AddBoundaryEdges generalized to reference node
// IDs already present in the mesh instead of fresh vertex coordinates,
// matching the parameter file's shared node pool (§6: boundary edges are
// "i, j" indices into the file's single "Define nodes" block, not a
// per-boundary vertex list). nodeIDs[i] -> nodeIDs[i+1] is edge i.
func (m *Mesh) AddBoundaryFromNodes(marker int, interior bool, nodeIDs []NodeID, edgeMarkers []int, sizeFactors []float64) (*Boundary, error) {
	if len(nodeIDs) < 3 {
		return nil, Errf(InvalidInput, "boundary %d has fewer than 3 vertices", marker)
	}
	if sizeFactors != nil && len(sizeFactors) != len(nodeIDs) {
		return nil, Errf(InvalidInput, "boundary %d: size factor count does not match vertex count", marker)
	}
	if edgeMarkers != nil && len(edgeMarkers) != len(nodeIDs) {
		return nil, Errf(InvalidInput, "boundary %d: edge marker count does not match vertex count", marker)
	}

	verts := make([]geom2d.Coord, len(nodeIDs))
	for i, id := range nodeIDs {
		verts[i] = m.Node(id).XY
	}

	b := &Boundary{
		ID:         BoundaryID(len(m.Boundaries)),
		Marker:     marker,
		Interior:   interior,
		SignedArea: geom2d.PolygonArea(verts),
	}
	b.qtree = quadtree.NewQuadtree[EdgeID](m.Min, m.Max, m.QuadtreeMaxObj, func(id EdgeID) geom2d.Coord {
		return m.Edge(id).Centroid
	})

	for i := range nodeIDs {
		n1, n2 := nodeIDs[i], nodeIDs[(i+1)%len(nodeIDs)]
		eid, err := m.AddEdge(BoundaryEdge, n1, n2)
		if err != nil {
			return nil, err
		}
		e := m.Edge(eid)
		e.Marker = marker
		if edgeMarkers != nil {
			e.Marker = edgeMarkers[i]
		}
		if sizeFactors != nil {
			e.SizeFactor = sizeFactors[i]
		}
		b.Edges = append(b.Edges, eid)
		b.qtree.Insert(eid)
	}

	if err := b.checkOrientation(); err != nil {
		return nil, err
	}

	m.Boundaries = append(m.Boundaries, b)
	if !interior {
		m.exterior = b
	}
	return b, nil
}

// AddEdge creates a new edge of the given kind between n1 and n2,
// cross-wiring it into the endpoints' adjacency lists, the appropriate
// stack/front, and the mesh-wide edge quadtree (§4.C).
func (m *Mesh) AddEdge(kind EdgeKind, n1, n2 NodeID) (EdgeID, error) {
	p1, p2 := m.Node(n1).XY, m.Node(n2).XY
	id := EdgeID(len(m.edges))
	e := newEdge(id, kind, n1, n2, p1, p2)
	m.edges = append(m.edges, e)

	switch kind {
	case BoundaryEdge:
		m.Node(n1).BoundaryEdges = append(m.Node(n1).BoundaryEdges, id)
		m.Node(n2).BoundaryEdges = append(m.Node(n2).BoundaryEdges, id)
	case FrontEdge:
		m.Node(n1).FrontEdges = append(m.Node(n1).FrontEdges, id)
		m.Node(n2).FrontEdges = append(m.Node(n2).FrontEdges, id)
		m.Front.Edges = append(m.Front.Edges, id)
		m.Front.qtree.Insert(id)
	case MeshEdge:
		m.Node(n1).MeshEdges = append(m.Node(n1).MeshEdges, id)
		m.Node(n2).MeshEdges = append(m.Node(n2).MeshEdges, id)
	}
	m.edgeQtree.Insert(id)
	return id, nil
}

// RemoveEdge destroys an edge, unwiring it from its endpoints'
// adjacency lists, the front (if applicable), and the edge quadtree.
func (m *Mesh) RemoveEdge(id EdgeID) {
	e := m.Edge(id)
	n1, n2 := m.Node(e.N1), m.Node(e.N2)
	switch e.Kind {
	case BoundaryEdge:
		n1.BoundaryEdges = removeEdgeID(n1.BoundaryEdges, id)
		n2.BoundaryEdges = removeEdgeID(n2.BoundaryEdges, id)
	case FrontEdge:
		n1.FrontEdges = removeEdgeID(n1.FrontEdges, id)
		n2.FrontEdges = removeEdgeID(n2.FrontEdges, id)
		m.removeFromFrontSlice(id)
		m.Front.qtree.Remove(id)
	case MeshEdge:
		n1.MeshEdges = removeEdgeID(n1.MeshEdges, id)
		n2.MeshEdges = removeEdgeID(n2.MeshEdges, id)
	}
	m.edgeQtree.Remove(id)
	delete(m.nonDelaunaySet, id)
	e.removed = true
}

// AddTriangle creates a new triangle from three nodes, taken in the
// order given (which must be CCW; callers validate this before calling).
// It computes every derived geometric quantity, including the
// size-function-dependent quality (§3), and records e1, e2, e3 as the
// edges opposite n1, n2, n3. The edges must already exist; AddTriangle
// creates no edge and does not set the edges' triangle references.
func (m *Mesh) AddTriangle(n1, n2, n3 NodeID, e1, e2, e3 EdgeID) (TriID, error) {
	p1, p2, p3 := m.Node(n1).XY, m.Node(n2).XY, m.Node(n3).XY
	g := computeTriangleGeometry(p1, p2, p3)
	if g.area <= 0 {
		return NoTri, Errf(InvalidInput, "AddTriangle: non-positive signed area %v (not CCW)", g.area)
	}

	id := TriID(len(m.triangles))
	t := &Triangle{
		ID: id, N1: n1, N2: n2, N3: n3,
		E1: e1, E2: e2, E3: e3,
		Neighbor1: NoTri, Neighbor2: NoTri, Neighbor3: NoTri,
		Centroid: g.centroid, Area: g.area,
		Len1: g.len1, Len2: g.len2, Len3: g.len3,
		MinAngle: g.minAngle, MaxAngle: g.maxAngle,
		Circumcenter: g.circumcenter, Circumradius: g.circumradius,
		ShapeFactor: g.shapeFactor,
	}

	q, err := m.triangleQuality(t)
	if err != nil {
		return NoTri, err
	}
	t.Quality = q

	m.triangles = append(m.triangles, t)
	m.triQtree.Insert(id)
	for _, n := range t.Vertices() {
		m.Node(n).Triangles = append(m.Node(n).Triangles, id)
	}
	return id, nil
}

// triangleQuality computes Q = shapeFactor * prod_i min(len_i/delta_i,
// delta_i/len_i), where delta_i = (rho(start_i)+rho(end_i))/2 for each
// of the triangle's three edges (§4.I rule 6).
func (m *Mesh) triangleQuality(t *Triangle) (float64, error) {
	verts := t.Vertices()
	lens := [3]float64{t.Len1, t.Len2, t.Len3}
	q := t.ShapeFactor
	for i := 0; i < 3; i++ {
		a := verts[i]
		b := verts[(i+1)%3]
		rhoA, err := m.Rho(m.Node(a).XY)
		if err != nil {
			return 0, err
		}
		rhoB, err := m.Rho(m.Node(b).XY)
		if err != nil {
			return 0, err
		}
		delta := (rhoA + rhoB) / 2
		l := lens[(i+2)%3] // the edge connecting a and b is opposite the third vertex
		if delta == 0 || l == 0 {
			return 0, nil
		}
		ratio := l / delta
		if delta/l < ratio {
			ratio = delta / l
		}
		q *= ratio
	}
	return q, nil
}

// RemoveTriangle destroys a triangle, unwiring it from its vertices'
// incidence lists and the triangle quadtree.
func (m *Mesh) RemoveTriangle(id TriID) {
	t := m.Triangle(id)
	for _, n := range t.Vertices() {
		node := m.Node(n)
		node.Triangles = removeTriID(node.Triangles, id)
	}
	m.triQtree.Remove(id)
	t.removed = true
}

// Rho evaluates the blended size function at xy using the mesh's global
// size, optional user callback, and the cached per-boundary-node
// curvature parameters (§4.E).
func (m *Mesh) Rho(xy geom2d.Coord) (float64, error) {
	var params []sizefunc.BoundaryParam
	for _, b := range m.Boundaries {
		for _, eid := range b.Edges {
			e := m.edges[eid]
			if e == nil || e.removed {
				continue
			}
			for _, nid := range [2]NodeID{e.N1, e.N2} {
				n := m.nodes[nid]
				if n.Rho0 != 0 || n.K != 0 {
					params = append(params, sizefunc.BoundaryParam{XY: n.XY, Rho0: n.Rho0, K: n.K})
				}
			}
		}
	}
	value, sinkhole := sizefunc.Rho(m.GlobalRho, m.UserRho, params, xy)
	if sinkhole {
		return value, errors.WithStack(Errf(SizeFunctionSinkhole, "rho=%v at (%v,%v) is below threshold", value, xy.X, xy.Y))
	}
	return value, nil
}

// NodeQuadtree, EdgeQuadtree, and TriQuadtree expose the mesh's three
// spatial indices for packages that need raw range queries (advance,
// delaunay).
func (m *Mesh) NodeQuadtree() *quadtree.Quadtree[NodeID] { return m.nodeQtree }
func (m *Mesh) EdgeQuadtree() *quadtree.Quadtree[EdgeID] { return m.edgeQtree }
func (m *Mesh) TriQuadtree() *quadtree.Quadtree[TriID]   { return m.triQtree }

// NumNodes, NumEdges, and NumTriangles report the arena sizes (including
// any removed slots, which stay as tombstones); callers that need live
// counts should range with liveness checks or use the slice helpers
// below.
func (m *Mesh) NumNodes() int     { return len(m.nodes) }
func (m *Mesh) NumEdges() int     { return len(m.edges) }
func (m *Mesh) NumTriangles() int { return len(m.triangles) }

// LiveNodes, LiveEdges, and LiveTriangles return every non-removed
// entity, in arena order.
func (m *Mesh) LiveNodes() []*Node {
	var out []*Node
	for _, n := range m.nodes {
		if n != nil && !n.removed {
			out = append(out, n)
		}
	}
	return out
}

func (m *Mesh) LiveEdges() []*Edge {
	var out []*Edge
	for _, e := range m.edges {
		if e != nil && !e.removed {
			out = append(out, e)
		}
	}
	return out
}

func (m *Mesh) LiveTriangles() []*Triangle {
	var out []*Triangle
	for _, t := range m.triangles {
		if t != nil && !t.removed {
			out = append(out, t)
		}
	}
	return out
}

// markForDelaunayCheck pushes e onto the stack of edges flagged
// non-locally-Delaunay, if it isn't already queued (§3 Mesh, §4.J).
func (m *Mesh) markForDelaunayCheck(id EdgeID) {
	if m.nonDelaunaySet[id] {
		return
	}
	m.nonDelaunaySet[id] = true
	m.nonDelaunay = append(m.nonDelaunay, id)
}

// PopDelaunayCheck removes and returns one edge from the non-Delaunay
// stack, or NoEdge if it is empty.
func (m *Mesh) PopDelaunayCheck() EdgeID {
	if len(m.nonDelaunay) == 0 {
		return NoEdge
	}
	id := m.nonDelaunay[len(m.nonDelaunay)-1]
	m.nonDelaunay = m.nonDelaunay[:len(m.nonDelaunay)-1]
	delete(m.nonDelaunaySet, id)
	return id
}

// PendingDelaunayChecks reports how many edges remain on the non-Delaunay
// stack.
func (m *Mesh) PendingDelaunayChecks() int { return len(m.nonDelaunay) }

// MarkForDelaunayCheck is the exported form of markForDelaunayCheck, used
// by the delaunay package to re-queue the four edges surrounding a flip.
func (m *Mesh) MarkForDelaunayCheck(id EdgeID) { m.markForDelaunayCheck(id) }

// AssignTriangleNeighbors runs the final sweep that populates every
// triangle's Neighbor1/2/3 fields from its edges' T1/T2 triangle
// references (§3: "Neighbor fields are populated in a final sweep after
// meshing completes").
func (m *Mesh) AssignTriangleNeighbors() {
	for _, t := range m.LiveTriangles() {
		edges := t.Edges()
		neighbors := [3]*TriID{&t.Neighbor1, &t.Neighbor2, &t.Neighbor3}
		for i, eid := range edges {
			e := m.Edge(eid)
			if e.Kind != MeshEdge {
				*neighbors[i] = NoTri
				continue
			}
			switch {
			case e.T1 == t.ID:
				*neighbors[i] = e.T2
			case e.T2 == t.ID:
				*neighbors[i] = e.T1
			default:
				*neighbors[i] = NoTri
			}
		}
	}
}

// TotalBoundaryArea returns the absolute area enclosed by the exterior
// boundary minus the area of every interior hole, used for the progress
// report (§4.H) and the final area-mismatch check (§7, §8).
func (m *Mesh) TotalBoundaryArea() float64 {
	if m.exterior == nil {
		return 0
	}
	area := math.Abs(m.exterior.SignedArea)
	for _, b := range m.Boundaries {
		if b.Interior {
			area -= math.Abs(b.SignedArea)
		}
	}
	return area
}

// TotalTriangleArea sums the (positive, since CCW-enforced) area of
// every live triangle.
func (m *Mesh) TotalTriangleArea() float64 {
	var total float64
	for _, t := range m.LiveTriangles() {
		total += t.Area
	}
	return total
}
