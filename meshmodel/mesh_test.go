package meshmodel

import (
	"math"
	"testing"

	"github.com/flosewn/tmesh-go/geom2d"
)

func unitSquare(t *testing.T) *Mesh {
	t.Helper()
	m := NewMesh(geom2d.Coord{}, geom2d.Coord{X: 1, Y: 1}, 0.5)
	verts := []geom2d.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	if _, err := m.AddBoundary(1, false, verts, nil); err != nil {
		t.Fatalf("AddBoundary: %v", err)
	}
	return m
}

func TestAddBoundaryOrientation(t *testing.T) {
	m := NewMesh(geom2d.Coord{}, geom2d.Coord{X: 1, Y: 1}, 0.5)
	cw := []geom2d.Coord{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	if _, err := m.AddBoundary(1, false, cw, nil); err == nil {
		t.Errorf("expected InvalidInput for CW exterior boundary")
	}

	interiorCCW := []geom2d.Coord{{X: 0.2, Y: 0.2}, {X: 0.6, Y: 0.2}, {X: 0.6, Y: 0.6}}
	if _, err := m.AddBoundary(2, true, interiorCCW, nil); err == nil {
		t.Errorf("expected InvalidInput for CCW interior boundary")
	}
}

func TestObjectInside(t *testing.T) {
	m := unitSquare(t)
	if !m.ObjectInside(geom2d.Coord{X: 0.5, Y: 0.5}) {
		t.Errorf("center of unit square should be inside")
	}
	if m.ObjectInside(geom2d.Coord{X: 2, Y: 2}) {
		t.Errorf("point outside boundary should not be inside")
	}
}

func TestObjectInsideWithHole(t *testing.T) {
	m := NewMesh(geom2d.Coord{X: -1, Y: -1}, geom2d.Coord{X: 10, Y: 10}, 1.0)
	outer := []geom2d.Coord{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if _, err := m.AddBoundary(1, false, outer, nil); err != nil {
		t.Fatalf("AddBoundary exterior: %v", err)
	}
	hole := []geom2d.Coord{{X: 4, Y: 4}, {X: 4, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 4}}
	if _, err := m.AddBoundary(2, true, hole, nil); err != nil {
		t.Fatalf("AddBoundary interior: %v", err)
	}
	if m.ObjectInside(geom2d.Coord{X: 5, Y: 5}) {
		t.Errorf("point inside the hole should not be inside the domain")
	}
	if !m.ObjectInside(geom2d.Coord{X: 1, Y: 1}) {
		t.Errorf("point outside the hole but inside the exterior should be inside")
	}
}

func TestInitializeFrontClonesBoundary(t *testing.T) {
	m := unitSquare(t)
	if err := m.InitializeFront(); err != nil {
		t.Fatalf("InitializeFront: %v", err)
	}
	if len(m.Front.Edges) != 4 {
		t.Errorf("expected 4 front edges, got %d", len(m.Front.Edges))
	}
	for i := 1; i < len(m.Front.Edges); i++ {
		if m.Edge(m.Front.Edges[i-1]).Length > m.Edge(m.Front.Edges[i]).Length {
			t.Errorf("front edges are not sorted ascending by length")
		}
	}
}

func TestSplitBoundaryEdge(t *testing.T) {
	m := unitSquare(t)
	b := m.Boundaries[0]
	first := b.Edges[0]
	if _, err := m.SplitBoundaryEdge(b, first); err != nil {
		t.Fatalf("SplitBoundaryEdge: %v", err)
	}
	if len(b.Edges) != 5 {
		t.Errorf("expected boundary to have 5 edges after one split, got %d", len(b.Edges))
	}
}

func TestAddTriangleRejectsCW(t *testing.T) {
	m := unitSquare(t)
	n1, n2, n3 := m.AddNode(geom2d.Coord{X: 0, Y: 0}), m.AddNode(geom2d.Coord{X: 1, Y: 1}), m.AddNode(geom2d.Coord{X: 1, Y: 0})
	e1, _ := m.AddEdge(MeshEdge, n2, n3)
	e2, _ := m.AddEdge(MeshEdge, n3, n1)
	e3, _ := m.AddEdge(MeshEdge, n1, n2)
	if _, err := m.AddTriangle(n1, n2, n3, e1, e2, e3); err == nil {
		t.Errorf("expected rejection of a CW-ordered triangle")
	}
}

func TestAddTriangleGeometry(t *testing.T) {
	m := unitSquare(t)
	n1, n2, n3 := m.AddNode(geom2d.Coord{X: 0, Y: 0}), m.AddNode(geom2d.Coord{X: 1, Y: 0}), m.AddNode(geom2d.Coord{X: 0, Y: 1})
	e1, _ := m.AddEdge(MeshEdge, n2, n3)
	e2, _ := m.AddEdge(MeshEdge, n3, n1)
	e3, _ := m.AddEdge(MeshEdge, n1, n2)
	tid, err := m.AddTriangle(n1, n2, n3, e1, e2, e3)
	if err != nil {
		t.Fatalf("AddTriangle: %v", err)
	}
	tri := m.Triangle(tid)
	if math.Abs(tri.Area-0.5) > 1e-12 {
		t.Errorf("expected area 0.5, got %v", tri.Area)
	}
	if tri.MinAngle <= 0 || tri.MaxAngle >= math.Pi {
		t.Errorf("angles out of range: min=%v max=%v", tri.MinAngle, tri.MaxAngle)
	}
}

func TestAssignTriangleNeighbors(t *testing.T) {
	m := unitSquare(t)
	n00, n10, n11, n01 := m.AddNode(geom2d.Coord{X: 0, Y: 0}), m.AddNode(geom2d.Coord{X: 1, Y: 0}),
		m.AddNode(geom2d.Coord{X: 1, Y: 1}), m.AddNode(geom2d.Coord{X: 0, Y: 1})

	eDiag, _ := m.AddEdge(MeshEdge, n00, n11)
	eBottom, _ := m.AddEdge(MeshEdge, n10, n00)
	eRight, _ := m.AddEdge(MeshEdge, n11, n10)
	t1, err := m.AddTriangle(n00, n10, n11, eRight, eDiag, eBottom)
	if err != nil {
		t.Fatalf("AddTriangle 1: %v", err)
	}
	m.Edge(eDiag).T1 = t1

	eLeft, _ := m.AddEdge(MeshEdge, n01, n00)
	eTop, _ := m.AddEdge(MeshEdge, n11, n01)
	t2, err := m.AddTriangle(n00, n11, n01, eTop, eLeft, eDiag)
	if err != nil {
		t.Fatalf("AddTriangle 2: %v", err)
	}
	m.Edge(eDiag).T2 = t2

	m.AssignTriangleNeighbors()
	tri1 := m.Triangle(t1)
	if tri1.Neighbor2 != t2 {
		t.Errorf("expected triangle 1's diagonal neighbor to be triangle 2, got %v", tri1.Neighbor2)
	}
	tri2 := m.Triangle(t2)
	if tri2.Neighbor3 != t1 {
		t.Errorf("expected triangle 2's diagonal neighbor to be triangle 1, got %v", tri2.Neighbor3)
	}
}
