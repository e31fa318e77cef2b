package refine

import (
	"testing"

	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/meshmodel"
)

func TestBoundariesSplitsLongEdges(t *testing.T) {
	m := meshmodel.NewMesh(geom2d.Coord{}, geom2d.Coord{X: 10, Y: 10}, 1.0)
	verts := []geom2d.Coord{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if _, err := m.AddBoundary(1, false, verts, nil); err != nil {
		t.Fatalf("AddBoundary: %v", err)
	}
	m.InitBoundaryNodeParams()

	if err := Boundaries(m); err != nil {
		t.Fatalf("Boundaries: %v", err)
	}

	b := m.Boundaries[0]
	if len(b.Edges) <= 4 {
		t.Errorf("expected refinement to split the 10-unit edges, still have %d edges", len(b.Edges))
	}
	for _, eid := range b.Edges {
		e := m.Edge(eid)
		if e.Length > 3 {
			t.Errorf("edge %d has length %v, expected refinement to shrink it well below the 10-unit original", eid, e.Length)
		}
	}
}

func TestBoundariesNoOpWhenAlreadyFine(t *testing.T) {
	m := meshmodel.NewMesh(geom2d.Coord{}, geom2d.Coord{X: 1, Y: 1}, 5.0)
	verts := []geom2d.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	if _, err := m.AddBoundary(1, false, verts, nil); err != nil {
		t.Fatalf("AddBoundary: %v", err)
	}
	m.InitBoundaryNodeParams()

	if err := Boundaries(m); err != nil {
		t.Fatalf("Boundaries: %v", err)
	}
	if len(m.Boundaries[0].Edges) != 4 {
		t.Errorf("expected no splits with a generous rho, got %d edges", len(m.Boundaries[0].Edges))
	}
}
