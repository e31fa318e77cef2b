package advance

import (
	"testing"

	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/meshmodel"
)

func unitSquareMesh(t *testing.T, rho float64) *meshmodel.Mesh {
	t.Helper()
	m := meshmodel.NewMesh(geom2d.Coord{}, geom2d.Coord{X: 1, Y: 1}, rho)
	verts := []geom2d.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	if _, err := m.AddBoundary(1, false, verts, nil); err != nil {
		t.Fatalf("AddBoundary: %v", err)
	}
	if err := m.InitializeFront(); err != nil {
		t.Fatalf("InitializeFront: %v", err)
	}
	return m
}

func TestValidNodeInsideDomain(t *testing.T) {
	m := unitSquareMesh(t, 0.5)
	ok, err := ValidNode(m, geom2d.Coord{X: 0.5, Y: 0.5})
	if err != nil {
		t.Fatalf("ValidNode: %v", err)
	}
	if !ok {
		t.Errorf("center of unit square should be a valid candidate node")
	}
}

func TestValidNodeOutsideDomain(t *testing.T) {
	m := unitSquareMesh(t, 0.5)
	ok, err := ValidNode(m, geom2d.Coord{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("ValidNode: %v", err)
	}
	if ok {
		t.Errorf("point outside the domain should never be a valid node")
	}
}

func TestValidNodeTooCloseToBoundary(t *testing.T) {
	m := unitSquareMesh(t, 0.5)
	ok, err := ValidNode(m, geom2d.Coord{X: 0.01, Y: 0.5})
	if err != nil {
		t.Fatalf("ValidNode: %v", err)
	}
	if ok {
		t.Errorf("point too close to the boundary should be rejected")
	}
}

func TestValidTriangleGoodCandidate(t *testing.T) {
	m := unitSquareMesh(t, 0.5)
	a, b := geom2d.Coord{X: 0, Y: 0}, geom2d.Coord{X: 1, Y: 0}
	apex := geom2d.Coord{X: 0.5, Y: 0.5}
	if _, err := ValidTriangle(m, a, b, apex, meshmodel.NoNode, meshmodel.NoNode, meshmodel.NoNode); err != nil {
		t.Fatalf("ValidTriangle: %v", err)
	}
}

func TestValidTriangleRejectsCW(t *testing.T) {
	m := unitSquareMesh(t, 0.5)
	a, b, c := geom2d.Coord{X: 0, Y: 0}, geom2d.Coord{X: 0, Y: 1}, geom2d.Coord{X: 1, Y: 0}
	ok, err := ValidTriangle(m, a, b, c, meshmodel.NoNode, meshmodel.NoNode, meshmodel.NoNode)
	if err != nil {
		t.Fatalf("ValidTriangle: %v", err)
	}
	if ok {
		t.Errorf("expected a CW-ordered candidate to be rejected")
	}
}

func TestValidTriangleRejectsSliver(t *testing.T) {
	m := unitSquareMesh(t, 0.5)
	a, b, c := geom2d.Coord{X: 0, Y: 0}, geom2d.Coord{X: 1, Y: 0}, geom2d.Coord{X: 0.5, Y: 0.001}
	ok, err := ValidTriangle(m, a, b, c, meshmodel.NoNode, meshmodel.NoNode, meshmodel.NoNode)
	if err != nil {
		t.Fatalf("ValidTriangle: %v", err)
	}
	if ok {
		t.Errorf("expected a near-degenerate sliver triangle to fail the angle/quality checks")
	}
}
