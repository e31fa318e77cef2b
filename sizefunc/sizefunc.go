// Package sizefunc implements the mesh size function rho(x,y): the
// desired local edge length that drives apex placement distance and the
// advancing-front validity thresholds.
//
// This package is deliberately independent of meshmodel so that meshmodel
// can call it without an import cycle; all inputs (the global size, the
// optional user callback, and each boundary node's cached curvature
// parameters) are passed in by the caller rather than read from a Mesh.
package sizefunc

import "github.com/flosewn/tmesh-go/geom2d"

// SinkholeThreshold is the lower bound below which a computed rho value
// is considered a size-function sinkhole (spec §4.F, §7).
const SinkholeThreshold = 1e-8

// BoundaryParam is a boundary node's cached curvature/length size-function
// parameters, initialized once before meshing begins (§4.E) and reused on
// every subsequent Rho evaluation rather than recomputed per query.
type BoundaryParam struct {
	XY   geom2d.Coord
	Rho0 float64
	K    float64
}

// UserRho is an optional user-supplied size-function callback. It returns
// ok=false to defer to the global size at a given point (a tagged variant
// of {global_constant, user_function}, per design note §9, evaluated at
// each call site rather than dispatched dynamically).
type UserRho func(xy geom2d.Coord) (value float64, ok bool)

// Rho evaluates the blended size function at xy:
//
//	rho(xy) = min( user_rho(xy) or global_rho,
//	               min over boundary nodes i of (Rho0_i + K_i * dist(xy,node_i)^2 / 4) )
//
// The second return value is true when the result falls below
// SinkholeThreshold (a size-function sinkhole, §7).
func Rho(global float64, user UserRho, params []BoundaryParam, xy geom2d.Coord) (value float64, sinkhole bool) {
	term1 := global
	if user != nil {
		if v, ok := user(xy); ok {
			term1 = v
		}
	}

	term2 := term1
	for _, p := range params {
		d2 := xy.Dist2(p.XY)
		v := p.Rho0 + p.K*d2/4
		if v < term2 {
			term2 = v
		}
	}

	value = term1
	if term2 < value {
		value = term2
	}
	return value, value < SinkholeThreshold
}

// BoundaryNodeParams computes the (Rho0, K) pair for a boundary node with
// incident boundary edges of length lenA, lenB meeting at interior angle
// alpha (radians), per §4.E:
//
//	Rho0(n) = globalRho * |sin(alpha/2)|^sizeFactor
//	K(n)    = 1 / max(lenA, lenB)
//
// This produces smaller rho near sharp corners and lets rho grow
// quadratically away from the boundary.
func BoundaryNodeParams(globalRho, lenA, lenB, alpha, sizeFactor float64) (rho0, k float64) {
	s := sinAbs(alpha / 2)
	rho0 = globalRho * powAbs(s, sizeFactor)
	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	if maxLen == 0 {
		return rho0, 0
	}
	return rho0, 1 / maxLen
}
