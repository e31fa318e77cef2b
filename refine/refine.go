// Package refine implements the boundary refinement driver (§4.F): it
// subdivides every boundary's edges until each one is no longer too long
// relative to the size function.
package refine

import (
	"github.com/flosewn/tmesh-go/meshmodel"
)

// targetFactor is the coefficient applied to (rho(n1) + rho(midpoint))
// to get an edge's target length, per §4.F.
const targetFactor = 1.0

// Boundaries walks every boundary in m cyclically, splitting any edge
// whose length exceeds its target until a full sweep makes no further
// splits. On a split, the walk restarts from the new first half (§4.F).
func Boundaries(m *meshmodel.Mesh) error {
	for _, b := range m.Boundaries {
		if err := refineOne(m, b); err != nil {
			return err
		}
	}
	return nil
}

func refineOne(m *meshmodel.Mesh, b *meshmodel.Boundary) error {
	for {
		splitAny := false
		i := 0
		for i < len(b.Edges) {
			eid := b.Edges[i]
			e := m.Edge(eid)
			n1 := m.Node(e.N1)

			rho1, err := m.Rho(n1.XY)
			if err != nil {
				return err
			}
			rhoMid, err := m.Rho(e.Centroid)
			if err != nil {
				return err
			}
			target := targetFactor * (rho1 + rhoMid)

			if e.Length > target {
				if _, err := m.SplitBoundaryEdge(b, eid); err != nil {
					return err
				}
				splitAny = true
				// Restart the walk from the new first half, which now
				// occupies the same slot i.
				continue
			}
			i++
		}
		if !splitAny {
			return nil
		}
	}
}
