// Package tmio writes a finished mesh in the §6 output format: NODES,
// BOUNDARY (one block per boundary), FRONT, TRIANGLES, and NEIGHBORS
// sections, tab-separated, one record per line.
package tmio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"

	"github.com/flosewn/tmesh-go/meshmodel"
)

// Write serializes m to w in the §6 output format. It calls
// m.AssignTriangleNeighbors first, so the NEIGHBORS section always
// reflects the mesh's final connectivity.
func Write(w io.Writer, m *meshmodel.Mesh) error {
	m.AssignTriangleNeighbors()

	bw := bufio.NewWriter(w)
	if err := writeNodes(bw, m); err != nil {
		return errors.Wrap(err, "tmio: writing NODES")
	}
	if err := writeBoundaries(bw, m); err != nil {
		return errors.Wrap(err, "tmio: writing BOUNDARY")
	}
	if err := writeFront(bw, m); err != nil {
		return errors.Wrap(err, "tmio: writing FRONT")
	}
	if err := writeTriangles(bw, m); err != nil {
		return errors.Wrap(err, "tmio: writing TRIANGLES")
	}
	if err := writeNeighbors(bw, m); err != nil {
		return errors.Wrap(err, "tmio: writing NEIGHBORS")
	}
	return errors.Wrap(bw.Flush(), "tmio: flushing output")
}

// writeNodes assigns each live node its sequential output Index (§3:
// "Index ... assigned at output time") and writes the NODES section.
// Per-line formatting runs concurrently, matching the teacher's
// essentials.ConcurrentMap use for bulk per-element serialization
// (model3d/export.go).
func writeNodes(w *bufio.Writer, m *meshmodel.Mesh) error {
	nodes := m.LiveNodes()
	for i, n := range nodes {
		n.Index = i
	}

	lines := make([]string, len(nodes))
	essentials.ConcurrentMap(0, len(nodes), func(i int) {
		n := nodes[i]
		lines[i] = fmt.Sprintf("%d\t%g\t%g", n.Index, n.XY.X, n.XY.Y)
	})

	if _, err := fmt.Fprintf(w, "NODES %d\n", len(nodes)); err != nil {
		return err
	}
	return writeLines(w, lines)
}

// writeBoundaries writes one BOUNDARY block per boundary, in boundary
// order, with a single edge index counter continuing across all
// boundaries (grounded in tmMesh_printMesh's edge_index, which is not
// reset between boundary blocks).
func writeBoundaries(w *bufio.Writer, m *meshmodel.Mesh) error {
	edgeIndex := 0
	for _, b := range m.Boundaries {
		if _, err := fmt.Fprintf(w, "BOUNDARY %d %d\n", b.Marker, len(b.Edges)); err != nil {
			return err
		}
		lines := make([]string, len(b.Edges))
		for i, eid := range b.Edges {
			e := m.Edge(eid)
			lines[i] = fmt.Sprintf("%d\t%d\t%d\t%d", edgeIndex, m.Node(e.N1).Index, m.Node(e.N2).Index, e.Marker)
			edgeIndex++
		}
		if err := writeLines(w, lines); err != nil {
			return err
		}
	}
	return nil
}

// writeFront writes the FRONT section: the count of still-unpaired front
// edges (zero at a successful run, per §8) and, if any remain, one
// n1/n2 line per edge so a stalled partial mesh can still be inspected.
func writeFront(w *bufio.Writer, m *meshmodel.Mesh) error {
	edges := m.Front.Edges
	if _, err := fmt.Fprintf(w, "FRONT %d\n", len(edges)); err != nil {
		return err
	}
	lines := make([]string, len(edges))
	for i, eid := range edges {
		e := m.Edge(eid)
		lines[i] = fmt.Sprintf("%d\t%d\t%d", i, m.Node(e.N1).Index, m.Node(e.N2).Index)
	}
	return writeLines(w, lines)
}

// writeTriangles writes the TRIANGLES section.
func writeTriangles(w *bufio.Writer, m *meshmodel.Mesh) error {
	tris := m.LiveTriangles()
	if _, err := fmt.Fprintf(w, "TRIANGLES %d\n", len(tris)); err != nil {
		return err
	}
	lines := make([]string, len(tris))
	essentials.ConcurrentMap(0, len(tris), func(i int) {
		t := tris[i]
		lines[i] = fmt.Sprintf("%d\t%d\t%d\t%d", i, m.Node(t.N1).Index, m.Node(t.N2).Index, m.Node(t.N3).Index)
	})
	return writeLines(w, lines)
}

// writeNeighbors writes the NEIGHBORS section. TriID values have gaps
// once the Delaunay pass has removed and recreated triangles, so a
// neighbor's output row number is looked up through rowOf rather than
// assumed to equal its TriID.
func writeNeighbors(w *bufio.Writer, m *meshmodel.Mesh) error {
	tris := m.LiveTriangles()
	rowOf := make(map[meshmodel.TriID]int, len(tris))
	for i, t := range tris {
		rowOf[t.ID] = i
	}

	if _, err := fmt.Fprintf(w, "NEIGHBORS %d\n", len(tris)); err != nil {
		return err
	}
	lines := make([]string, len(tris))
	essentials.ConcurrentMap(0, len(tris), func(i int) {
		t := tris[i]
		lines[i] = fmt.Sprintf("%d\t%d\t%d\t%d", i, neighborRow(rowOf, t.Neighbor1), neighborRow(rowOf, t.Neighbor2), neighborRow(rowOf, t.Neighbor3))
	})
	return writeLines(w, lines)
}

func neighborRow(rowOf map[meshmodel.TriID]int, id meshmodel.TriID) int {
	if id == meshmodel.NoTri {
		return -1
	}
	row, ok := rowOf[id]
	if !ok {
		return -1
	}
	return row
}

func writeLines(w *bufio.Writer, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := w.WriteString(strings.Join(lines, "\n") + "\n")
	return err
}
