// Package delaunay implements the local edge-flip pass (§4.J) that
// restores the Delaunay property to the triangulation the advancing-front
// driver produces.
package delaunay

import (
	"log"

	"github.com/pkg/errors"

	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/meshmodel"
)

// Flip drains the mesh's non-Delaunay edge stack, flipping any internal
// edge whose opposing vertices violate the local Delaunay condition,
// until the stack empties or the hard cap of len(edges)^2 flips is hit
// (§4.J "Termination"). A nil logger silently discards the degenerate-
// case warning.
func Flip(m *meshmodel.Mesh, logger *log.Logger) error {
	flipCap := m.NumEdges() * m.NumEdges()
	flips := 0

	for {
		eid := m.PopDelaunayCheck()
		if eid == meshmodel.NoEdge {
			return nil
		}
		if flips >= flipCap {
			if logger != nil {
				logger.Printf("delaunay: hit the %d-flip cap with edges still queued; stopping", flipCap)
			}
			return nil
		}

		flipped, err := tryFlip(m, eid)
		if err != nil {
			return errors.Wrapf(err, "delaunay: flipping edge %d", eid)
		}
		if flipped {
			flips++
		}
	}
}

// tryFlip examines edge eid and, if it is internal and not locally
// Delaunay, performs the flip (§4.J). It is a no-op for boundary-adjacent
// edges, edges already locally Delaunay, or edges whose flip would
// produce a non-CCW triangle (a degenerate/non-convex quad); such a skip
// is not logged and does not count toward the caller's flip cap.
func tryFlip(m *meshmodel.Mesh, eid meshmodel.EdgeID) (bool, error) {
	e := m.Edge(eid)
	if e.T1 == meshmodel.NoTri || e.T2 == meshmodel.NoTri {
		return false, nil
	}

	tLeft, tRight := m.Triangle(e.T1), m.Triangle(e.T2)
	p2 := tLeft.OppositeNode(e)
	p1 := tRight.OppositeNode(e)
	if p1 == meshmodel.NoNode || p2 == meshmodel.NoNode {
		return false, nil
	}

	n1, n2 := e.N1, e.N2
	n1XY, n2XY := m.Node(n1).XY, m.Node(n2).XY
	p1XY, p2XY := m.Node(p1).XY, m.Node(p2).XY

	if !meshmodel.InCircumcircle(n1XY, n2XY, p2XY, p1XY) {
		return false, nil
	}
	if geom2d.Orientation(n1XY, p1XY, p2XY) != geom2d.CCW ||
		geom2d.Orientation(n2XY, p2XY, p1XY) != geom2d.CCW {
		return false, nil
	}

	// Locate the four edges surrounding the quad before destroying the
	// old triangles, so they can be rewired onto the new ones afterward.
	eN2P2 := edgeOpposite(tLeft, n1)  // edge (n2,p2)
	eN1P2 := edgeOpposite(tLeft, n2)  // edge (n1,p2)
	eN1P1 := edgeOpposite(tRight, n2) // edge (n1,p1)
	eN2P1 := edgeOpposite(tRight, n1) // edge (n2,p1)

	oldLeft, oldRight := e.T1, e.T2
	m.RemoveTriangle(oldLeft)
	m.RemoveTriangle(oldRight)
	m.RemoveEdge(eid)

	ePP, err := m.AddEdge(meshmodel.MeshEdge, p1, p2)
	if err != nil {
		return false, err
	}

	t1, err := m.AddTriangle(n1, p1, p2, ePP, eN1P2, eN1P1)
	if err != nil {
		return false, err
	}
	t2, err := m.AddTriangle(n2, p2, p1, ePP, eN2P1, eN2P2)
	if err != nil {
		return false, err
	}
	// n1 lies to the left of p1->p2 and n2 to the right.
	m.Edge(ePP).T1 = t1
	m.Edge(ePP).T2 = t2

	rewireEdge(m, eN1P2, oldLeft, t1)
	rewireEdge(m, eN2P2, oldLeft, t2)
	rewireEdge(m, eN1P1, oldRight, t1)
	rewireEdge(m, eN2P1, oldRight, t2)

	m.MarkForDelaunayCheck(eN1P2)
	m.MarkForDelaunayCheck(eN2P2)
	m.MarkForDelaunayCheck(eN1P1)
	m.MarkForDelaunayCheck(eN2P1)

	return true, nil
}

// edgeOpposite returns the edge of t that sits opposite vertex n.
func edgeOpposite(t *meshmodel.Triangle, n meshmodel.NodeID) meshmodel.EdgeID {
	verts := t.Vertices()
	edges := t.Edges()
	for i, v := range verts {
		if v == n {
			return edges[i]
		}
	}
	return meshmodel.NoEdge
}

// rewireEdge replaces whichever of e's two triangle references equals
// oldTri with newTri, leaving the other side (the unaffected neighbor
// outside the flipped quad) untouched.
func rewireEdge(m *meshmodel.Mesh, eid meshmodel.EdgeID, oldTri, newTri meshmodel.TriID) {
	e := m.Edge(eid)
	switch {
	case e.T1 == oldTri:
		e.T1 = newTri
	case e.T2 == oldTri:
		e.T2 = newTri
	}
}
