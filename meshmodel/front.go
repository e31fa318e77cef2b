package meshmodel

import (
	"sort"

	"github.com/flosewn/tmesh-go/quadtree"
)

// Front is the set of currently unpaired edges separating meshed from
// unmeshed territory. Edges is sorted ascending by length when the front
// is initialized (§4.G); edges added by later front updates are appended
// at the end and the list is not re-sorted, so after the first update it
// is not guaranteed to be in length order. Head is the cursor into Edges the advancing-front driver currently
// considers (§4.H).
type Front struct {
	Edges []EdgeID
	Head  int

	qtree *quadtree.Quadtree[EdgeID]
}

// InitializeFront clones every boundary edge as a front edge (same
// endpoint order, no left triangle, right triangle absent), marks their
// endpoints active, then sorts the result by ascending length (§4.G).
func (m *Mesh) InitializeFront() error {
	for _, b := range m.Boundaries {
		for _, beid := range b.Edges {
			be := m.Edge(beid)
			fid, err := m.AddEdge(FrontEdge, be.N1, be.N2)
			if err != nil {
				return err
			}
			m.Edge(fid).Marker = be.Marker
			m.Node(be.N1).Active = true
			m.Node(be.N2).Active = true
		}
	}
	m.sortFront()
	return nil
}

// sortFront re-sorts the front's edge list by ascending length using a
// stable sort, per §4.G and the Open Question resolution in SPEC_FULL.md
// (stability is the only contract; the specific algorithm is free).
func (m *Mesh) sortFront() {
	sort.SliceStable(m.Front.Edges, func(i, j int) bool {
		return m.Edge(m.Front.Edges[i]).Length < m.Edge(m.Front.Edges[j]).Length
	})
	m.Front.Head = 0
}

// CurrentFrontEdge returns the edge at the front's current head cursor,
// or NoEdge if the front is empty or exhausted.
func (m *Mesh) CurrentFrontEdge() EdgeID {
	if len(m.Front.Edges) == 0 || m.Front.Head >= len(m.Front.Edges) {
		return NoEdge
	}
	return m.Front.Edges[m.Front.Head]
}

// AdvanceFrontCursor moves the front's head to the next edge, used on a
// rejected advancing-front attempt (§4.H step 5).
func (m *Mesh) AdvanceFrontCursor() {
	m.Front.Head++
}

// ResetFrontCursor moves the front's head back to the first edge, used
// on an accepted advancing-front attempt (§4.H "restart on success").
func (m *Mesh) ResetFrontCursor() {
	m.Front.Head = 0
}

// adjacentFrontEdge finds a front edge connecting a and b, if one exists.
func (m *Mesh) adjacentFrontEdge(a, b NodeID) EdgeID {
	for _, eid := range m.Node(a).FrontEdges {
		if m.Edge(eid).HasEndpoints(a, b) {
			return eid
		}
	}
	return NoEdge
}

// AdjacentFrontEdge is the exported form of adjacentFrontEdge, used by
// the advancing-front driver to resolve a provisional triangle's two
// non-base edges before the triangle itself can be created (§4.H).
func (m *Mesh) AdjacentFrontEdge(a, b NodeID) EdgeID {
	return m.adjacentFrontEdge(a, b)
}

// UpdateFront implements §4.H's update(n, e, t) step: reconciling the
// front around a newly accepted triangle t = (e.N1, e.N2, n). ea and eb
// are t's two non-base side edges (opposite e.N2 and e.N1 respectively),
// already resolved by the caller; eaFresh/ebFresh report whether the
// caller had to create that edge fresh for this triangle (true) or
// whether it already existed on the front beforehand (false).
//
// This freshness must come from the caller rather than a fresh
// adjacentFrontEdge lookup here: building t requires valid edge IDs for
// all three of its sides before AddTriangle can run, so by the time this
// function is reached, both ea and eb already exist as front edges
// regardless of whether they pre-date t — a lookup at this point could
// no longer distinguish "existed before t" from "created for t".
func (m *Mesh) UpdateFront(e EdgeID, t TriID, ea EdgeID, eaFresh bool, eb EdgeID, ebFresh bool) error {
	if !eaFresh {
		if err := m.promoteFrontToMesh(ea, t); err != nil {
			return err
		}
	}
	if !ebFresh {
		if err := m.promoteFrontToMesh(eb, t); err != nil {
			return err
		}
	}
	return m.promoteFrontToMesh(e, t)
}

// promoteFrontToMesh converts a front edge into a mesh edge carrying t on
// its newly-known side, removes it from the front, and runs the local
// Delaunay check on it (§4.H "Promotion to mesh also runs the local-
// Delaunay check").
func (m *Mesh) promoteFrontToMesh(eid EdgeID, t TriID) error {
	e := m.Edge(eid)
	prevRight := e.Right

	n1, n2 := m.Node(e.N1), m.Node(e.N2)
	n1.FrontEdges = removeEdgeID(n1.FrontEdges, eid)
	n2.FrontEdges = removeEdgeID(n2.FrontEdges, eid)
	m.removeFromFrontSlice(eid)
	m.Front.qtree.Remove(eid)
	e.Kind = MeshEdge
	e.T1 = t
	e.T2 = prevRight
	e.Right = NoTri
	m.edgeQtree.Insert(eid)

	m.markForDelaunayCheck(eid)
	return nil
}

func (m *Mesh) removeFromFrontSlice(eid EdgeID) {
	for i, id := range m.Front.Edges {
		if id == eid {
			m.Front.Edges = append(m.Front.Edges[:i], m.Front.Edges[i+1:]...)
			if m.Front.Head > i {
				m.Front.Head--
			}
			return
		}
	}
}
