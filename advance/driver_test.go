package advance

import (
	"bytes"
	"log"
	"math"
	"testing"

	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/meshmodel"
	"github.com/flosewn/tmesh-go/refine"
)

// buildUnitSquare constructs and refines the mesh for end-to-end scenario
// 1 (spec §8): a unit square with rho=0.5 and no holes.
func buildUnitSquare(t *testing.T) *meshmodel.Mesh {
	t.Helper()
	m := meshmodel.NewMesh(geom2d.Coord{}, geom2d.Coord{X: 1, Y: 1}, 0.5)
	verts := []geom2d.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	if _, err := m.AddBoundary(1, false, verts, nil); err != nil {
		t.Fatalf("AddBoundary: %v", err)
	}
	m.InitBoundaryNodeParams()
	if err := refine.Boundaries(m); err != nil {
		t.Fatalf("refine.Boundaries: %v", err)
	}
	if err := m.InitializeFront(); err != nil {
		t.Fatalf("InitializeFront: %v", err)
	}
	return m
}

func TestRunUnitSquare(t *testing.T) {
	m := buildUnitSquare(t)
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	if err := Run(m, logger); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(m.Front.Edges) != 0 {
		t.Errorf("expected an empty front at completion, got %d edges", len(m.Front.Edges))
	}

	tris := m.LiveTriangles()
	if len(tris) < 8 {
		t.Errorf("expected at least 8 triangles, got %d", len(tris))
	}
	for _, tri := range tris {
		if tri.MinAngle <= 10*math.Pi/180 || tri.MaxAngle >= 170*math.Pi/180 {
			t.Errorf("triangle %d angle out of (10,170) degrees: min=%v max=%v", tri.ID, tri.MinAngle, tri.MaxAngle)
		}
	}

	area := m.TotalTriangleArea()
	if math.Abs(area-1) > 1e-5 {
		t.Errorf("expected total triangle area 1, got %v", area)
	}
}

func TestRunEmptyFrontIsNoOp(t *testing.T) {
	m := meshmodel.NewMesh(geom2d.Coord{}, geom2d.Coord{X: 1, Y: 1}, 0.5)
	if err := Run(m, nil); err != nil {
		t.Fatalf("Run on empty mesh should not error: %v", err)
	}
}
