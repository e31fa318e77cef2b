package quadtree

import (
	"math/rand"
	"testing"

	"github.com/flosewn/tmesh-go/geom2d"
)

type point struct {
	id int
	c  geom2d.Coord
}

func locatePoint(p *point) geom2d.Coord { return p.c }

func TestInsertOutsideBounds(t *testing.T) {
	qt := NewQuadtree[*point](geom2d.Coord{}, geom2d.Coord{X: 1, Y: 1}, 4, locatePoint)
	if qt.Insert(&point{c: geom2d.Coord{X: 2, Y: 2}}) {
		t.Errorf("expected insert outside bounds to fail")
	}
	if qt.Len() != 0 {
		t.Errorf("expected empty tree, got %d objects", qt.Len())
	}
}

func TestInsertQuerySplit(t *testing.T) {
	qt := NewQuadtree[*point](geom2d.Coord{}, geom2d.Coord{X: 100, Y: 100}, 2, locatePoint)
	var pts []*point
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := &point{id: i, c: geom2d.Coord{X: rnd.Float64() * 100, Y: rnd.Float64() * 100}}
		pts = append(pts, p)
		if !qt.Insert(p) {
			t.Fatalf("insert %d failed", i)
		}
	}
	if qt.Len() != 200 {
		t.Errorf("expected 200 objects, got %d", qt.Len())
	}

	got := qt.QueryBBox(geom2d.Coord{}, geom2d.Coord{X: 100, Y: 100})
	if len(got) != 200 {
		t.Errorf("expected query over full bounds to return all 200, got %d", len(got))
	}

	hits := qt.QueryDisk(geom2d.Coord{X: 50, Y: 50}, 10)
	for i := 0; i < len(hits); i++ {
		if hits[i].Object.c.Dist2(geom2d.Coord{X: 50, Y: 50}) > 100 {
			t.Errorf("hit %d farther than query radius", i)
		}
		if i > 0 && hits[i].Dist2 < hits[i-1].Dist2 {
			t.Errorf("hits not sorted by ascending distance")
		}
	}
}

func TestRemoveMerges(t *testing.T) {
	qt := NewQuadtree[*point](geom2d.Coord{}, geom2d.Coord{X: 10, Y: 10}, 2, locatePoint)
	var pts []*point
	for i := 0; i < 20; i++ {
		p := &point{id: i, c: geom2d.Coord{X: float64(i % 10), Y: float64(i / 10 * 5)}}
		pts = append(pts, p)
		qt.Insert(p)
	}
	if qt.root.isLeaf() {
		t.Fatalf("expected root to have split with 20 objects at maxObj=2")
	}
	for _, p := range pts {
		if !qt.Remove(p) {
			t.Fatalf("remove of %d failed", p.id)
		}
	}
	if qt.Len() != 0 {
		t.Errorf("expected tree to be empty, got %d", qt.Len())
	}
	if !qt.root.isLeaf() {
		t.Errorf("expected root to merge back down to a leaf once nearly empty")
	}
}

func TestRemoveMissingFails(t *testing.T) {
	qt := NewQuadtree[*point](geom2d.Coord{}, geom2d.Coord{X: 10, Y: 10}, 2, locatePoint)
	if qt.Remove(&point{}) {
		t.Errorf("expected remove of unindexed object to fail")
	}
}
