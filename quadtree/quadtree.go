// Package quadtree implements the bounding-box-partitioned spatial index
// used throughout the mesh generator to answer "objects within radius r of
// point p" and "objects inside this bbox" queries in sub-linear time.
//
// A Quadtree is monomorphic in its object kind (nodes, edges, or
// triangles); each kind gets its own tree via NewQuadtree, keyed by a
// caller-supplied Locate function that extracts the object's
// representative point (a node's coordinate, an edge's centroid, a
// triangle's centroid).
package quadtree

import (
	"log"
	"sort"

	"github.com/unixpickle/essentials"

	"github.com/flosewn/tmesh-go/geom2d"
)

// DefaultMaxDepth is the hard cap on tree depth below which an overfull
// leaf always splits. It matches the original implementation's limit.
const DefaultMaxDepth = 100

// Quadtree is a spatial index over objects of type T, each of which has a
// representative 2D point. T must be comparable so objects can key their
// own back-pointer into the tree.
type Quadtree[T comparable] struct {
	locate   func(T) geom2d.Coord
	maxObj   int
	maxDepth int
	root     *node[T]
	index    map[T]*node[T]

	// Logger receives a warning whenever a leaf is forced past maxObj
	// because it already sits at maxDepth (graceful degradation, §4.B).
	Logger *log.Logger
}

// NewQuadtree creates an empty quadtree covering [min,max]. maxObj is the
// per-leaf object capacity before a split is attempted. The depth cap
// starts at DefaultMaxDepth; SetMaxDepth overrides it.
func NewQuadtree[T comparable](min, max geom2d.Coord, maxObj int, locate func(T) geom2d.Coord) *Quadtree[T] {
	maxDepth := DefaultMaxDepth
	return &Quadtree[T]{
		locate:   locate,
		maxObj:   essentials.MaxInt(1, maxObj),
		maxDepth: maxDepth,
		root:     &node[T]{min: min, max: max},
		index:    map[T]*node[T]{},
	}
}

// SetMaxDepth overrides the default depth cap.
func (q *Quadtree[T]) SetMaxDepth(d int) {
	q.maxDepth = essentials.MaxInt(1, d)
}

// Len returns the total number of objects currently indexed.
func (q *Quadtree[T]) Len() int {
	return q.root.total
}

// node is one quadtree cell: either a leaf holding objects directly, or an
// internal node with exactly four children and no objects of its own.
type node[T comparable] struct {
	min, max geom2d.Coord
	depth    int
	parent   *node[T]
	children [4]*node[T] // nw, ne, sw, se; nil when this node is a leaf
	objects  []T
	total    int // objects in this node, or in its whole subtree
}

func (n *node[T]) isLeaf() bool { return n.children[0] == nil }

const (
	quadNW = 0
	quadNE = 1
	quadSW = 2
	quadSE = 3
)

// quadrant returns the index of the child whose bbox contains p, with
// ties on either axis resolved toward the larger (N/E) side, so a
// centroid sitting exactly on the split lines belongs to NE.
func (n *node[T]) quadrant(p geom2d.Coord) int {
	midX := (n.min.X + n.max.X) / 2
	midY := (n.min.Y + n.max.Y) / 2
	east := p.X >= midX
	north := p.Y >= midY
	switch {
	case north && east:
		return quadNE
	case north && !east:
		return quadNW
	case !north && !east:
		return quadSW
	default:
		return quadSE
	}
}

func (n *node[T]) childBounds(i int) (min, max geom2d.Coord) {
	midX := (n.min.X + n.max.X) / 2
	midY := (n.min.Y + n.max.Y) / 2
	switch i {
	case quadNW:
		return geom2d.Coord{X: n.min.X, Y: midY}, geom2d.Coord{X: midX, Y: n.max.Y}
	case quadNE:
		return geom2d.Coord{X: midX, Y: midY}, geom2d.Coord{X: n.max.X, Y: n.max.Y}
	case quadSW:
		return geom2d.Coord{X: n.min.X, Y: n.min.Y}, geom2d.Coord{X: midX, Y: midY}
	default: // quadSE
		return geom2d.Coord{X: midX, Y: n.min.Y}, geom2d.Coord{X: n.max.X, Y: midY}
	}
}

// Insert places obj in the unique leaf containing its representative
// point, splitting that leaf if it overflows maxObj and has spare depth.
// It returns false, without modifying the tree, if obj's point falls
// outside the tree's bounding box.
func (q *Quadtree[T]) Insert(obj T) bool {
	p := q.locate(obj)
	if !geom2d.InBBox(q.root.min, q.root.max, p) {
		return false
	}
	n := q.root
	for !n.isLeaf() {
		n.total++
		n = n.children[n.quadrant(p)]
	}
	n.total++
	n.objects = append(n.objects, obj)
	q.index[obj] = n
	if len(n.objects) > q.maxObj {
		if n.depth < q.maxDepth {
			q.split(n)
		} else if q.Logger != nil {
			q.Logger.Printf("quadtree: leaf at max depth %d holds %d objects (limit %d)",
				q.maxDepth, len(n.objects), q.maxObj)
		}
	}
	return true
}

// split turns a leaf into an internal node, redistributing its objects
// into four new equal-quadrant children.
func (q *Quadtree[T]) split(n *node[T]) {
	for i := 0; i < 4; i++ {
		min, max := n.childBounds(i)
		n.children[i] = &node[T]{min: min, max: max, depth: n.depth + 1, parent: n}
	}
	objects := n.objects
	n.objects = nil
	for _, obj := range objects {
		p := q.locate(obj)
		c := n.children[n.quadrant(p)]
		c.objects = append(c.objects, obj)
		c.total++
		q.index[obj] = c
	}
}

// Remove deletes obj from the tree, merging ancestor nodes whose total
// descendant count has fallen to at most maxObj. It returns false if obj
// is not currently indexed.
func (q *Quadtree[T]) Remove(obj T) bool {
	leaf, ok := q.index[obj]
	if !ok {
		return false
	}
	for i, o := range leaf.objects {
		if o == obj {
			leaf.objects = append(leaf.objects[:i], leaf.objects[i+1:]...)
			break
		}
	}
	delete(q.index, obj)

	for n := leaf; n != nil; n = n.parent {
		n.total--
	}
	for n := leaf.parent; n != nil; n = n.parent {
		if n.isLeaf() || n.total > q.maxObj {
			break
		}
		q.merge(n)
	}
	return true
}

// merge collapses an internal node back into a leaf once its subtree is
// small enough, reclaiming all descendant objects directly into n. This
// fires only from Remove, never as bookkeeping attached to Split.
func (q *Quadtree[T]) merge(n *node[T]) {
	var gathered []T
	var collect func(*node[T])
	collect = func(c *node[T]) {
		if c.isLeaf() {
			gathered = append(gathered, c.objects...)
			return
		}
		for _, ch := range c.children {
			collect(ch)
		}
	}
	collect(n)

	n.children = [4]*node[T]{}
	n.objects = gathered
	for _, obj := range gathered {
		q.index[obj] = n
	}
}

// QueryBBox returns every indexed object whose representative point lies
// within [min,max], inclusive.
func (q *Quadtree[T]) QueryBBox(min, max geom2d.Coord) []T {
	var result []T
	var walk func(*node[T])
	walk = func(n *node[T]) {
		if !geom2d.BBoxOverlap(n.min, n.max, min, max) {
			return
		}
		if n.isLeaf() {
			for _, obj := range n.objects {
				p := q.locate(obj)
				if geom2d.InBBox(min, max, p) {
					result = append(result, obj)
				}
			}
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(q.root)
	return result
}

// Hit is one result of QueryDisk: the object and its squared distance to
// the query center, recorded as a sorting hint so callers need not
// recompute it.
type Hit[T comparable] struct {
	Object T
	Dist2  float64
}

// QueryDisk returns every indexed object within radius r of center,
// ordered by ascending distance.
func (q *Quadtree[T]) QueryDisk(center geom2d.Coord, r float64) []Hit[T] {
	var hits []Hit[T]
	var walk func(*node[T])
	walk = func(n *node[T]) {
		if !geom2d.CircleOverlapsRect(center, r, n.min, n.max) {
			return
		}
		if n.isLeaf() {
			for _, obj := range n.objects {
				p := q.locate(obj)
				d2 := p.Dist2(center)
				if d2 <= r*r {
					hits = append(hits, Hit[T]{Object: obj, Dist2: d2})
				}
			}
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(q.root)
	sort.Slice(hits, func(i, j int) bool { return hits[i].Dist2 < hits[j].Dist2 })
	return hits
}
