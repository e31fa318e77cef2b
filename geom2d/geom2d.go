// Package geom2d provides the pure geometric predicates the mesh
// generator is built on: orientation, segment intersection, point-in-bbox,
// edge-point distance, and polygon area.
//
// Every function here is a pure function of its coordinate arguments; none
// of them allocate or retain state.
package geom2d

import "math"

// colinearEps is the tolerance used by Orientation: a signed area whose
// square falls below this is treated as exactly zero (colinear).
const colinearEps = 1e-13

// Coord is a point or vector in the plane.
type Coord struct {
	X, Y float64
}

// Add returns c+o.
func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y} }

// Sub returns c-o.
func (c Coord) Sub(o Coord) Coord { return Coord{c.X - o.X, c.Y - o.Y} }

// Scale returns c scaled by s.
func (c Coord) Scale(s float64) Coord { return Coord{c.X * s, c.Y * s} }

// Dot returns the dot product of c and o.
func (c Coord) Dot(o Coord) float64 { return c.X*o.X + c.Y*o.Y }

// Cross returns the z-component of the 3D cross product of c and o.
func (c Coord) Cross(o Coord) float64 { return c.X*o.Y - c.Y*o.X }

// Norm2 returns the squared Euclidean length of c.
func (c Coord) Norm2() float64 { return c.X*c.X + c.Y*c.Y }

// Norm returns the Euclidean length of c.
func (c Coord) Norm() float64 { return math.Sqrt(c.Norm2()) }

// Dist2 returns the squared distance between c and o.
func (c Coord) Dist2(o Coord) float64 { return c.Sub(o).Norm2() }

// Dist returns the distance between c and o.
func (c Coord) Dist(o Coord) float64 { return c.Sub(o).Norm() }

// Normalize returns c scaled to unit length. It panics if c is the zero
// vector, since there is no sensible direction to return.
func (c Coord) Normalize() Coord {
	n := c.Norm()
	if n == 0 {
		panic("geom2d: cannot normalize the zero vector")
	}
	return c.Scale(1 / n)
}

// Left90 rotates c by 90 degrees counter-clockwise.
func (c Coord) Left90() Coord { return Coord{-c.Y, c.X} }

// Min returns the component-wise minimum of c and o.
func (c Coord) Min(o Coord) Coord { return Coord{math.Min(c.X, o.X), math.Min(c.Y, o.Y)} }

// Max returns the component-wise maximum of c and o.
func (c Coord) Max(o Coord) Coord { return Coord{math.Max(c.X, o.X), math.Max(c.Y, o.Y)} }

// Orient is the result of Orientation.
type Orient int

const (
	Colinear Orient = iota
	CCW
	CW
)

// Orientation classifies the turn from p to q to r using the sign of the
// doubled signed triangle area. A doubled area whose square is below
// colinearEps is treated as Colinear, matching the source tolerance used
// by the advancing-front triangulator this package backs.
func Orientation(p, q, r Coord) Orient {
	area2 := (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
	if area2*area2 < colinearEps {
		return Colinear
	}
	if area2 > 0 {
		return CCW
	}
	return CW
}

// InSegment reports whether r lies strictly between p and q, assuming
// p, q, r are already known to be colinear.
func InSegment(p, q, r Coord) bool {
	if r == p || r == q {
		return false
	}
	return InOnSegment(p, q, r)
}

// InOnSegment reports whether r lies on the closed segment pq, assuming
// p, q, r are already known to be colinear.
func InOnSegment(p, q, r Coord) bool {
	if Orientation(p, q, r) != Colinear {
		return false
	}
	return r.X >= math.Min(p.X, q.X) && r.X <= math.Max(p.X, q.X) &&
		r.Y >= math.Min(p.Y, q.Y) && r.Y <= math.Max(p.Y, q.Y)
}

// LinesIntersect reports whether the open segments p1q1 and p2q2 cross,
// including the case where they share a colinear sub-interval. It is
// false when the segments meet only at shared endpoints.
func LinesIntersect(p1, q1, p2, q2 Coord) bool {
	o1 := Orientation(p1, q1, p2)
	o2 := Orientation(p1, q1, q2)
	o3 := Orientation(p2, q2, p1)
	o4 := Orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		// General case: a proper crossing exists if it's not at an
		// endpoint shared by both segments.
		if p2 == p1 || p2 == q1 || q2 == p1 || q2 == q1 {
			return false
		}
		return true
	}

	// Colinear special cases: the segments overlap along a sub-interval.
	if o1 == Colinear && InSegment(p1, q1, p2) {
		return true
	}
	if o2 == Colinear && InSegment(p1, q1, q2) {
		return true
	}
	if o3 == Colinear && InSegment(p2, q2, p1) {
		return true
	}
	if o4 == Colinear && InSegment(p2, q2, q1) {
		return true
	}
	return false
}

// EdgePointDist2 returns the squared distance from p to the segment vw,
// using a parameterized projection clamped to [0,1].
func EdgePointDist2(v, w, p Coord) float64 {
	d := w.Sub(v)
	len2 := d.Norm2()
	if len2 == 0 {
		return p.Dist2(v)
	}
	t := p.Sub(v).Dot(d) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := v.Add(d.Scale(t))
	return p.Dist2(proj)
}

// BBoxOverlap reports whether the axis-aligned boxes [min1,max1] and
// [min2,max2] overlap, inclusive of shared boundaries.
func BBoxOverlap(min1, max1, min2, max2 Coord) bool {
	return min1.X <= max2.X && max1.X >= min2.X &&
		min1.Y <= max2.Y && max1.Y >= min2.Y
}

// InBBox reports whether p lies within [min,max], inclusive.
func InBBox(min, max, p Coord) bool {
	return p.X >= min.X && p.X <= max.X && p.Y >= min.Y && p.Y <= max.Y
}

// PolygonArea returns the signed area of the polygon given by its
// vertices in order. Positive for CCW polygons, negative for CW.
func PolygonArea(pts []Coord) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// CircleOverlapsRect reports whether a circle centered at c with radius r
// intersects (or touches) the axis-aligned box [min,max].
func CircleOverlapsRect(c Coord, r float64, min, max Coord) bool {
	closest := Coord{
		X: math.Max(min.X, math.Min(c.X, max.X)),
		Y: math.Max(min.Y, math.Min(c.Y, max.Y)),
	}
	return c.Dist2(closest) <= r*r
}
