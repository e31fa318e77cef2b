package meshmodel

import (
	"math"

	"github.com/flosewn/tmesh-go/sizefunc"
)

// InitBoundaryNodeParams computes each boundary node's (Rho0, K)
// curvature/length size-function parameters once, before meshing begins
// (§4.E). Following each boundary's own edge list in traversal order,
// a node n1 = e1.N1 (e1 being the edge for which n1 is the "from"
// endpoint) has edge_size_factor(n1) taken from e1 alone — never from
// n1's other incident boundary edge, and never as a max of the two
// (`original_source/src/tmesh/src/tmBdry.c` `tmBdry_initSizeFun`, which
// assigns every node's rho/k from `e1->sizeFac` while iterating e1, with
// e1 always the edge whose n1 is the node being updated):
//
//	Rho0(n1) = GlobalRho * |sin(alpha/2)|^e1.SizeFactor
//	K(n1)    = 1 / max(lenA, lenB)
//
// where e2 is n1's other incident boundary edge and alpha is the
// interior angle between e1 and e2 at n1. A boundary node with other
// than exactly two incident boundary edges (the two endpoints of a
// still-unclosed chain, which should not occur in a well-formed closed
// polygon) is left at Rho0=K=0, which disables its curvature
// contribution to Rho.
func (m *Mesh) InitBoundaryNodeParams() {
	for _, b := range m.Boundaries {
		for _, eid := range b.Edges {
			e1 := m.Edge(eid)
			n1 := m.Node(e1.N1)
			if len(n1.BoundaryEdges) != 2 {
				continue
			}
			e2 := m.Edge(n1.BoundaryEdges[0])
			if e2.ID == e1.ID {
				e2 = m.Edge(n1.BoundaryEdges[1])
			}

			lenA, lenB := e1.Length, e2.Length
			alpha := interiorAngleAtNode(m, n1, e1, e2)
			n1.Rho0, n1.K = sizefunc.BoundaryNodeParams(m.GlobalRho, lenA, lenB, alpha, e1.SizeFactor)
		}
	}
}

// interiorAngleAtNode computes the interior angle of the boundary polygon
// at node n, given its two incident boundary edges ea, eb.
func interiorAngleAtNode(m *Mesh, n *Node, ea, eb *Edge) float64 {
	a := m.Node(ea.Other(n.ID)).XY.Sub(n.XY)
	b := m.Node(eb.Other(n.ID)).XY.Sub(n.XY)
	cosAngle := a.Dot(b) / (a.Norm() * b.Norm())
	if cosAngle > 1 {
		cosAngle = 1
	} else if cosAngle < -1 {
		cosAngle = -1
	}
	return math.Acos(cosAngle)
}
