// Package advance implements the advancing-front triangulation driver
// (§4.H) and the triangle/node validity checks it depends on (§4.I).
package advance

import (
	"math"

	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/meshmodel"
)

const (
	// nodeProximityFactor is the 0.4 coefficient on rho(p) used by both
	// the node validity proximity check (§4.I node test) and the
	// triangle validity front-node proximity check (rule 4).
	nodeProximityFactor = 0.4

	// neighborSearchFactor scales a triangle's circumradius to bound the
	// search for other triangles/nodes that might conflict with it
	// (§4.I rules 3-4).
	neighborSearchFactor = 1.5

	minInteriorAngle = 10 * math.Pi / 180
	maxInteriorAngle = 170 * math.Pi / 180

	minQuality = 0.05
)

// ValidNode reports whether p is valid as a Stage 2 apex candidate
// (§4.I): it must lie inside the domain, and no boundary edge, front
// edge, or node may come within 0.4*rho(p) of it.
func ValidNode(m *meshmodel.Mesh, p geom2d.Coord) (bool, error) {
	if !m.ObjectInside(p) {
		return false, nil
	}
	rho, err := m.Rho(p)
	if err != nil {
		return false, err
	}
	threshold2 := (nodeProximityFactor * rho) * (nodeProximityFactor * rho)

	for _, hit := range m.NodeQuadtree().QueryDisk(p, rho) {
		if m.Node(hit.Object).XY.Dist2(p) < threshold2 {
			return false, nil
		}
	}
	for _, hit := range m.EdgeQuadtree().QueryDisk(p, rho) {
		e := m.Edge(hit.Object)
		if e.Kind != meshmodel.BoundaryEdge && e.Kind != meshmodel.FrontEdge {
			continue
		}
		d2 := geom2d.EdgePointDist2(m.Node(e.N1).XY, m.Node(e.N2).XY, p)
		if d2 < threshold2 {
			return false, nil
		}
	}
	return true, nil
}

// candidateTriangle is the set of derived quantities a ValidTriangle
// check needs about the provisional triangle (a,b,c), computed once and
// shared across its six validity rules.
type candidateTriangle struct {
	a, b, c           geom2d.Coord
	centroid          geom2d.Coord
	circumcenter      geom2d.Coord
	circumradius      float64
	len1, len2, len3  float64 // opposite a, b, c respectively
	minAngle, maxAngle float64
	shapeFactor       float64
}

func buildCandidate(a, b, c geom2d.Coord) candidateTriangle {
	t := candidateTriangle{a: a, b: b, c: c}
	t.centroid = a.Add(b).Add(c).Scale(1.0 / 3)
	t.len1 = b.Dist(c)
	t.len2 = c.Dist(a)
	t.len3 = a.Dist(b)
	t.circumcenter, t.circumradius = circumcircle(a, b, c)

	angleA := interiorAngle(t.len3, t.len2, t.len1)
	angleB := interiorAngle(t.len1, t.len3, t.len2)
	angleC := math.Pi - angleA - angleB
	t.minAngle = math.Min(angleA, math.Min(angleB, angleC))
	t.maxAngle = math.Max(angleA, math.Max(angleB, angleC))

	area2 := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	area := area2 / 2
	sumLen2 := t.len1*t.len1 + t.len2*t.len2 + t.len3*t.len3
	if sumLen2 > 0 {
		t.shapeFactor = (3 * math.Sqrt(3) * area) / sumLen2
	}
	return t
}

// ValidTriangle checks every rule of §4.I for the provisional triangle
// (a,b,c,an,bn,cn), where an/bn/cn are the node IDs already committed to
// the mesh among {a,b,c} (NoNode for p_new, the not-yet-committed
// Stage 2 apex).
func ValidTriangle(m *meshmodel.Mesh, a, b, c geom2d.Coord, an, bn, cn meshmodel.NodeID) (bool, error) {
	if geom2d.Orientation(a, b, c) != geom2d.CCW {
		return false, nil
	}
	t := buildCandidate(a, b, c)

	if !m.ObjectInside(t.centroid) {
		return false, nil
	}

	for _, hit := range m.TriQuadtree().QueryDisk(t.centroid, neighborSearchFactor*t.circumradius) {
		other := m.Triangle(hit.Object)
		if trianglesCross(m, t, other) {
			return false, nil
		}
	}

	centroidRho, err := m.Rho(t.centroid)
	if err != nil {
		return false, err
	}
	threshold := nodeProximityFactor * centroidRho

	skip := [3]meshmodel.NodeID{an, bn, cn}
	searchR := neighborSearchFactor * t.circumradius
	for _, hit := range m.NodeQuadtree().QueryDisk(t.centroid, searchR) {
		n := m.Node(hit.Object)
		if !n.Active {
			continue
		}
		if len(n.FrontEdges) == 0 {
			continue
		}
		if n.ID == skip[0] || n.ID == skip[1] || n.ID == skip[2] {
			continue
		}
		if pointInTriangle(t.a, t.b, t.c, n.XY) {
			return false, nil
		}
		if distToTriangleEdges(t, n.XY) < threshold {
			return false, nil
		}
	}

	if t.minAngle <= minInteriorAngle || t.maxAngle >= maxInteriorAngle {
		return false, nil
	}

	q, err := triangleQuality(m, t)
	if err != nil {
		return false, err
	}
	if q <= minQuality {
		return false, nil
	}
	return true, nil
}

// triangleQuality computes Q = shapeFactor * prod min(len/delta,
// delta/len) over the three sides of a provisional (not-yet-added)
// triangle, mirroring meshmodel.Mesh.triangleQuality for the candidate
// case where no Triangle record exists yet.
func triangleQuality(m *meshmodel.Mesh, t candidateTriangle) (float64, error) {
	verts := [3]geom2d.Coord{t.a, t.b, t.c}
	lens := [3]float64{t.len1, t.len2, t.len3}
	q := t.shapeFactor
	for i := 0; i < 3; i++ {
		rhoA, err := m.Rho(verts[i])
		if err != nil {
			return 0, err
		}
		rhoB, err := m.Rho(verts[(i+1)%3])
		if err != nil {
			return 0, err
		}
		delta := (rhoA + rhoB) / 2
		l := lens[(i+2)%3]
		if delta == 0 || l == 0 {
			return 0, nil
		}
		ratio := l / delta
		if delta/l < ratio {
			ratio = delta / l
		}
		q *= ratio
	}
	return q, nil
}

// trianglesCross reports whether the provisional triangle t shares an
// open-segment edge crossing (§4.A) with the already-accepted triangle
// other (§4.I rule 3).
func trianglesCross(m *meshmodel.Mesh, t candidateTriangle, other *meshmodel.Triangle) bool {
	tEdges := [3][2]geom2d.Coord{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}}
	ov := other.Vertices()
	op := [3]geom2d.Coord{m.Node(ov[0]).XY, m.Node(ov[1]).XY, m.Node(ov[2]).XY}
	oEdges := [3][2]geom2d.Coord{{op[0], op[1]}, {op[1], op[2]}, {op[2], op[0]}}
	for _, te := range tEdges {
		for _, oe := range oEdges {
			if geom2d.LinesIntersect(te[0], te[1], oe[0], oe[1]) {
				return true
			}
		}
	}
	return false
}

// distToTriangleEdges returns the minimum distance from p to any of the
// three edges of t.
func distToTriangleEdges(t candidateTriangle, p geom2d.Coord) float64 {
	d1 := math.Sqrt(geom2d.EdgePointDist2(t.a, t.b, p))
	d2 := math.Sqrt(geom2d.EdgePointDist2(t.b, t.c, p))
	d3 := math.Sqrt(geom2d.EdgePointDist2(t.c, t.a, p))
	return math.Min(d1, math.Min(d2, d3))
}

// pointInTriangle reports whether p lies strictly inside the CCW
// triangle (a,b,c).
func pointInTriangle(a, b, c, p geom2d.Coord) bool {
	o1 := geom2d.Orientation(a, b, p)
	o2 := geom2d.Orientation(b, c, p)
	o3 := geom2d.Orientation(c, a, p)
	return o1 == geom2d.CCW && o2 == geom2d.CCW && o3 == geom2d.CCW
}

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
