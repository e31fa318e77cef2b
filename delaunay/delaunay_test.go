package delaunay

import (
	"testing"

	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/meshmodel"
)

// nonDelaunayQuad builds two triangles sharing the diagonal (0,0)-(1.4,1)
// of the quad (0,0),(1,0),(1.4,1),(0,1). A perfect square split along
// one diagonal sits exactly on the Delaunay boundary, so the corner
// (1,1) is moved to (1.4,1): (0,1) then lies strictly inside the
// circumcircle of (0,0),(1,0),(1.4,1) and the diagonal must flip.
func nonDelaunayQuad(t *testing.T) (*meshmodel.Mesh, meshmodel.EdgeID) {
	t.Helper()
	m := meshmodel.NewMesh(geom2d.Coord{X: -5, Y: -5}, geom2d.Coord{X: 5, Y: 5}, 10)

	n00 := m.AddNode(geom2d.Coord{X: 0, Y: 0})
	n10 := m.AddNode(geom2d.Coord{X: 1, Y: 0})
	n11 := m.AddNode(geom2d.Coord{X: 1.4, Y: 1})
	n01 := m.AddNode(geom2d.Coord{X: 0, Y: 1})

	// eDiag runs n00->n11; n01 (in t2) sits to the left of that
	// direction and n10 (in t1) to the right, so T1 (left) = t2, T2
	// (right) = t1, per the Edge.T1/T2 "left of n1->n2" convention.
	eDiag, _ := m.AddEdge(meshmodel.MeshEdge, n00, n11)
	eBottom, _ := m.AddEdge(meshmodel.MeshEdge, n10, n00)
	eRight, _ := m.AddEdge(meshmodel.MeshEdge, n11, n10)
	t1, err := m.AddTriangle(n00, n10, n11, eRight, eDiag, eBottom)
	if err != nil {
		t.Fatalf("AddTriangle 1: %v", err)
	}

	eLeft, _ := m.AddEdge(meshmodel.MeshEdge, n01, n00)
	eTop, _ := m.AddEdge(meshmodel.MeshEdge, n11, n01)
	t2, err := m.AddTriangle(n00, n11, n01, eTop, eLeft, eDiag)
	if err != nil {
		t.Fatalf("AddTriangle 2: %v", err)
	}

	m.Edge(eDiag).T1 = t2
	m.Edge(eDiag).T2 = t1

	return m, eDiag
}

func TestFlipSwapsNonDelaunayDiagonal(t *testing.T) {
	m, eDiag := nonDelaunayQuad(t)
	m.MarkForDelaunayCheck(eDiag)

	if err := Flip(m, nil); err != nil {
		t.Fatalf("Flip: %v", err)
	}

	tris := m.LiveTriangles()
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles after flip, got %d", len(tris))
	}

	for _, tri := range tris {
		if geom2d.Orientation(m.Node(tri.N1).XY, m.Node(tri.N2).XY, m.Node(tri.N3).XY) != geom2d.CCW {
			t.Errorf("triangle %d is not CCW after flip", tri.ID)
		}
	}

	if m.PendingDelaunayChecks() != 0 {
		t.Errorf("expected the flip's re-queued surrounding edges to already be resolved, %d left pending", m.PendingDelaunayChecks())
	}
}

func TestFlipNoOpOnAlreadyDelaunay(t *testing.T) {
	m := meshmodel.NewMesh(geom2d.Coord{}, geom2d.Coord{X: 1, Y: 1}, 1.0)
	n00 := m.AddNode(geom2d.Coord{X: 0, Y: 0})
	n10 := m.AddNode(geom2d.Coord{X: 1, Y: 0})
	n11 := m.AddNode(geom2d.Coord{X: 1, Y: 1})
	n01 := m.AddNode(geom2d.Coord{X: 0, Y: 1})

	eDiag, _ := m.AddEdge(meshmodel.MeshEdge, n00, n11)
	eBottom, _ := m.AddEdge(meshmodel.MeshEdge, n10, n00)
	eRight, _ := m.AddEdge(meshmodel.MeshEdge, n11, n10)
	t1, _ := m.AddTriangle(n00, n10, n11, eRight, eDiag, eBottom)

	eLeft, _ := m.AddEdge(meshmodel.MeshEdge, n01, n00)
	eTop, _ := m.AddEdge(meshmodel.MeshEdge, n11, n01)
	t2, _ := m.AddTriangle(n00, n11, n01, eTop, eLeft, eDiag)

	m.Edge(eDiag).T1 = t2
	m.Edge(eDiag).T2 = t1

	m.MarkForDelaunayCheck(eDiag)
	if err := Flip(m, nil); err != nil {
		t.Fatalf("Flip: %v", err)
	}
	if len(m.LiveTriangles()) != 2 {
		t.Errorf("expected the two original triangles to survive unchanged")
	}
	// The original diagonal edge should still be live.
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("expected diagonal edge %d to remain live, got panic: %v", eDiag, r)
			}
		}()
		m.Edge(eDiag)
	}()
}
