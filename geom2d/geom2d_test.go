package geom2d

import "testing"

func TestOrientation(t *testing.T) {
	tests := []struct {
		p, q, r Coord
		want    Orient
	}{
		{Coord{0, 0}, Coord{1, 0}, Coord{1, 1}, CCW},
		{Coord{0, 0}, Coord{1, 1}, Coord{1, 0}, CW},
		{Coord{0, 0}, Coord{1, 0}, Coord{2, 0}, Colinear},
	}
	for i, tc := range tests {
		if got := Orientation(tc.p, tc.q, tc.r); got != tc.want {
			t.Errorf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestLinesIntersectCrossing(t *testing.T) {
	if !LinesIntersect(Coord{0, 0}, Coord{2, 2}, Coord{0, 2}, Coord{2, 0}) {
		t.Errorf("expected crossing segments to intersect")
	}
}

func TestLinesIntersectSharedEndpoint(t *testing.T) {
	if LinesIntersect(Coord{0, 0}, Coord{1, 1}, Coord{1, 1}, Coord{2, 0}) {
		t.Errorf("segments sharing only an endpoint should not count as intersecting")
	}
}

func TestLinesIntersectColinearOverlap(t *testing.T) {
	if !LinesIntersect(Coord{0, 0}, Coord{2, 0}, Coord{1, 0}, Coord{3, 0}) {
		t.Errorf("expected colinear overlapping segments to intersect")
	}
}

func TestLinesIntersectDisjoint(t *testing.T) {
	if LinesIntersect(Coord{0, 0}, Coord{1, 0}, Coord{0, 1}, Coord{1, 1}) {
		t.Errorf("parallel disjoint segments should not intersect")
	}
}

func TestEdgePointDist2(t *testing.T) {
	d2 := EdgePointDist2(Coord{0, 0}, Coord{10, 0}, Coord{5, 3})
	if d2 != 9 {
		t.Errorf("expected squared distance 9, got %v", d2)
	}
	// Clamped to the nearest endpoint when the projection falls outside [0,1].
	d2 = EdgePointDist2(Coord{0, 0}, Coord{10, 0}, Coord{-4, 0})
	if d2 != 16 {
		t.Errorf("expected squared distance 16, got %v", d2)
	}
}

func TestPolygonAreaSign(t *testing.T) {
	square := []Coord{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if a := PolygonArea(square); a <= 0 {
		t.Errorf("expected positive area for CCW square, got %v", a)
	}
	reversed := []Coord{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	if a := PolygonArea(reversed); a >= 0 {
		t.Errorf("expected negative area for CW square, got %v", a)
	}
}

func TestBBoxOverlapInclusive(t *testing.T) {
	if !BBoxOverlap(Coord{0, 0}, Coord{1, 1}, Coord{1, 1}, Coord{2, 2}) {
		t.Errorf("boxes sharing only a corner should count as overlapping")
	}
}
