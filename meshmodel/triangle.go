package meshmodel

import (
	"math"

	"github.com/flosewn/tmesh-go/geom2d"
)

// Triangle is an ordered triple of nodes in CCW orientation, plus every
// geometric quantity derived from it. These are computed once at
// creation and are immutable for the triangle's lifetime (§3).
type Triangle struct {
	ID TriID
	N1 NodeID
	N2 NodeID
	N3 NodeID

	// E1, E2, E3 are opposite N1, N2, N3 respectively.
	E1 EdgeID
	E2 EdgeID
	E3 EdgeID

	// Neighbor1, Neighbor2, Neighbor3 are the triangle across E1/E2/E3.
	// Populated only by the final assign-neighbors sweep; NoTri until
	// then.
	Neighbor1 TriID
	Neighbor2 TriID
	Neighbor3 TriID

	Centroid geom2d.Coord
	Area     float64 // signed; > 0 required (CCW)

	// Len1, Len2, Len3 are the lengths of E1, E2, E3.
	Len1, Len2, Len3 float64

	MinAngle float64
	MaxAngle float64

	Circumcenter geom2d.Coord
	Circumradius float64

	ShapeFactor float64
	Quality     float64

	removed bool
}

// triangleGeometry holds every quantity computeTriangleGeometry derives,
// so Mesh.AddTriangle can build a Triangle from it in one step.
type triangleGeometry struct {
	centroid                        geom2d.Coord
	area                             float64
	len1, len2, len3                 float64
	minAngle, maxAngle               float64
	circumcenter                     geom2d.Coord
	circumradius                    float64
	shapeFactor                      float64
}

// computeTriangleGeometry derives every immutable geometric quantity of
// the triangle (p1,p2,p3) given in order. Quality (which additionally
// depends on the size function) is computed separately by the caller.
func computeTriangleGeometry(p1, p2, p3 geom2d.Coord) triangleGeometry {
	g := triangleGeometry{}
	g.centroid = p1.Add(p2).Add(p3).Scale(1.0 / 3)
	g.area = (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y)) / 2

	// Len1 opposite p1 is |p2-p3|, Len2 opposite p2 is |p3-p1|, Len3
	// opposite p3 is |p1-p2|.
	g.len1 = p2.Dist(p3)
	g.len2 = p3.Dist(p1)
	g.len3 = p1.Dist(p2)

	angle1 := interiorAngle(g.len3, g.len2, g.len1)
	angle2 := interiorAngle(g.len1, g.len3, g.len2)
	angle3 := math.Pi - angle1 - angle2

	g.minAngle = math.Min(angle1, math.Min(angle2, angle3))
	g.maxAngle = math.Max(angle1, math.Max(angle2, angle3))

	g.circumcenter, g.circumradius = circumcircle(p1, p2, p3)

	sumLen2 := g.len1*g.len1 + g.len2*g.len2 + g.len3*g.len3
	if sumLen2 > 0 {
		g.shapeFactor = (3 * math.Sqrt(3) * g.area) / sumLen2
	}
	return g
}

// interiorAngle returns the angle opposite side c in a triangle with
// sides a, b, c, via the law of cosines.
func interiorAngle(a, b, c float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	cosC := (a*a + b*b - c*c) / (2 * a * b)
	if cosC > 1 {
		cosC = 1
	} else if cosC < -1 {
		cosC = -1
	}
	return math.Acos(cosC)
}

// circumcircle returns the center and radius of the circle through p1,
// p2, p3.
func circumcircle(p1, p2, p3 geom2d.Coord) (geom2d.Coord, float64) {
	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if d == 0 {
		return p1, math.Inf(1)
	}
	ux := (p1.Norm2()*(p2.Y-p3.Y) + p2.Norm2()*(p3.Y-p1.Y) + p3.Norm2()*(p1.Y-p2.Y)) / d
	uy := (p1.Norm2()*(p3.X-p2.X) + p2.Norm2()*(p1.X-p3.X) + p3.Norm2()*(p2.X-p1.X)) / d
	center := geom2d.Coord{X: ux, Y: uy}
	return center, center.Dist(p1)
}

// InCircumcircle reports whether p lies strictly inside the circumcircle
// of (p1,p2,p3), used by the Delaunay flipper's local legality test.
func InCircumcircle(p1, p2, p3, p geom2d.Coord) bool {
	center, _ := circumcircle(p1, p2, p3)
	return p.Dist2(center) < p1.Dist2(center)
}

// Vertices returns the triangle's three node IDs in order.
func (t *Triangle) Vertices() [3]NodeID {
	return [3]NodeID{t.N1, t.N2, t.N3}
}

// Edges returns the triangle's three edge IDs in order (E1 opposite N1,
// etc).
func (t *Triangle) Edges() [3]EdgeID {
	return [3]EdgeID{t.E1, t.E2, t.E3}
}

// OppositeNode returns the vertex of t that is not an endpoint of e.
func (t *Triangle) OppositeNode(e *Edge) NodeID {
	for _, n := range t.Vertices() {
		if n != e.N1 && n != e.N2 {
			return n
		}
	}
	return NoNode
}
