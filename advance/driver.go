package advance

import (
	"log"

	"github.com/pkg/errors"

	"github.com/flosewn/tmesh-go/geom2d"
	"github.com/flosewn/tmesh-go/meshmodel"
)

// apexFactor is the 1.25 coefficient used to place the Stage 2 apex
// candidate along the current front edge's outward normal (§4.H step 2).
const apexFactor = 1.25

// nearbyFactor is the 0.9 coefficient on rho(p_new) defining the Stage 1
// reuse search radius (§4.H step 3).
const nearbyFactor = 0.9

// Run executes the advancing-front main loop (§4.H) until the front is
// exhausted or every remaining front edge has failed in sequence. logger
// receives one status line each time accepted-triangle-area coverage
// crosses a new decile; a nil logger silently discards progress reports.
func Run(m *meshmodel.Mesh, logger *log.Logger) error {
	totalArea := m.TotalBoundaryArea()
	lastDecile := -1
	failCount := 0

	for {
		front := m.Front.Edges
		if failCount >= len(front) || len(front) == 0 {
			break
		}

		reportProgress(m, totalArea, &lastDecile, logger)

		eid := m.CurrentFrontEdge()
		if eid == meshmodel.NoEdge {
			break
		}
		e := m.Edge(eid)
		n1, n2 := m.Node(e.N1), m.Node(e.N2)
		rhoC, err := m.Rho(e.Centroid)
		if err != nil {
			return errors.Wrap(err, "advance: evaluating rho at front edge centroid")
		}
		pNew := e.Centroid.Add(e.Normal.Scale(apexFactor * rhoC))

		accepted, err := tryStage1(m, e, n1, n2, pNew)
		if err != nil {
			return err
		}
		if !accepted {
			accepted, err = tryStage2(m, e, n1, n2, pNew)
			if err != nil {
				return err
			}
		}

		if accepted {
			m.ResetFrontCursor()
			failCount = 0
		} else {
			m.AdvanceFrontCursor()
			failCount++
		}
	}

	if len(m.Front.Edges) > 0 {
		return errors.WithStack(meshmodel.Errf(meshmodel.FrontStalled,
			"advancing-front loop exited with %d edges remaining on the front", len(m.Front.Edges)))
	}
	return nil
}

// tryStage1 attempts to close the current front edge against an existing,
// nearby front vertex (§4.H step 3).
func tryStage1(m *meshmodel.Mesh, e *meshmodel.Edge, n1, n2 *meshmodel.Node, pNew geom2d.Coord) (bool, error) {
	rhoNew, err := m.Rho(pNew)
	if err != nil {
		return false, err
	}
	radius := nearbyFactor * rhoNew

	for _, hit := range m.NodeQuadtree().QueryDisk(pNew, radius) {
		c := m.Node(hit.Object)
		if len(c.FrontEdges) == 0 {
			continue
		}
		if c.ID == n1.ID || c.ID == n2.ID {
			continue
		}
		if geom2d.Orientation(n1.XY, n2.XY, c.XY) == geom2d.Colinear {
			continue
		}

		valid, err := ValidTriangle(m, n1.XY, n2.XY, c.XY, n1.ID, n2.ID, c.ID)
		if err != nil {
			return false, err
		}
		if !valid {
			continue
		}

		if _, err := commitTriangle(m, n1.ID, n2.ID, c.ID, e); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// tryStage2 attempts to accept the provisional new apex p_new as a fresh
// node (§4.H step 4).
func tryStage2(m *meshmodel.Mesh, e *meshmodel.Edge, n1, n2 *meshmodel.Node, pNew geom2d.Coord) (bool, error) {
	nodeOK, err := ValidNode(m, pNew)
	if err != nil {
		return false, err
	}
	if !nodeOK {
		return false, nil
	}

	triOK, err := ValidTriangle(m, n1.XY, n2.XY, pNew, n1.ID, n2.ID, meshmodel.NoNode)
	if err != nil {
		return false, err
	}
	if !triOK {
		return false, nil
	}

	newID := m.AddNode(pNew)
	m.Node(newID).Active = true

	if _, err := commitTriangle(m, n1.ID, n2.ID, newID, e); err != nil {
		return false, err
	}
	return true, nil
}

// commitTriangle resolves the two non-base front edges of the triangle
// (n1, n2, apex) — opposite n1 is the edge between n2 and apex, opposite
// n2 the edge between apex and n1 — reusing an existing front edge
// between them if the front already connects them, or creating a fresh
// front edge otherwise, directed (apex,n2) and (n1,apex) so that the new
// triangle lies on its right (known) side, then creates
// the triangle itself and, for any freshly created side edge, points its
// known (Right) side at the new triangle, then runs §4.H's update(n, e,
// t) step via Mesh.UpdateFront, passing along which side edges were
// pre-existing versus freshly created here — UpdateFront can no longer
// tell the two apart on its own, since both edges already exist as front
// edges by the time it runs.
func commitTriangle(m *meshmodel.Mesh, n1, n2, apex meshmodel.NodeID, base *meshmodel.Edge) (meshmodel.TriID, error) {
	eOppN1, freshOppN1, err := resolveSideEdge(m, apex, n2)
	if err != nil {
		return meshmodel.NoTri, err
	}
	eOppN2, freshOppN2, err := resolveSideEdge(m, n1, apex)
	if err != nil {
		return meshmodel.NoTri, err
	}

	tid, err := m.AddTriangle(n1, n2, apex, eOppN1, eOppN2, base.ID)
	if err != nil {
		return meshmodel.NoTri, err
	}
	if freshOppN1 {
		m.Edge(eOppN1).Right = tid
	}
	if freshOppN2 {
		m.Edge(eOppN2).Right = tid
	}

	if err := m.UpdateFront(base.ID, tid, eOppN2, freshOppN2, eOppN1, freshOppN1); err != nil {
		return meshmodel.NoTri, err
	}
	return tid, nil
}

// resolveSideEdge finds the existing front edge connecting a and b, or
// creates a new one if the front doesn't already connect them.
func resolveSideEdge(m *meshmodel.Mesh, a, b meshmodel.NodeID) (meshmodel.EdgeID, bool, error) {
	if eid := m.AdjacentFrontEdge(a, b); eid != meshmodel.NoEdge {
		return eid, false, nil
	}
	eid, err := m.AddEdge(meshmodel.FrontEdge, a, b)
	if err != nil {
		return meshmodel.NoEdge, false, err
	}
	return eid, true, nil
}

// reportProgress emits one status line each time the accepted-triangle
// area coverage crosses a new decile (§4.H "Progress reporting").
func reportProgress(m *meshmodel.Mesh, totalArea float64, lastDecile *int, logger *log.Logger) {
	if logger == nil || totalArea <= 0 {
		return
	}
	progress := 100 * m.TotalTriangleArea() / totalArea
	decile := int(progress / 10)
	if decile > *lastDecile {
		*lastDecile = decile
		logger.Printf("advance: %.0f%% of bounded area triangulated", progress)
	}
}
