// Command tmesh reads a parameter file (§6) describing a planar domain
// and a size function, generates a triangular mesh of it by advancing
// front with local Delaunay flipping, and writes the resulting mesh to
// standard output.
package main

import (
	"errors"
	"io"
	"log"
	"math"
	"os"

	"github.com/unixpickle/essentials"

	"github.com/flosewn/tmesh-go/advance"
	"github.com/flosewn/tmesh-go/delaunay"
	"github.com/flosewn/tmesh-go/meshmodel"
	"github.com/flosewn/tmesh-go/refine"
	"github.com/flosewn/tmesh-go/tmio"
	"github.com/flosewn/tmesh-go/tmparam"
)

// areaTolerance is the relative tolerance on the final area check (§7,
// AreaMismatch).
const areaTolerance = 1e-5

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <parameter-file>", os.Args[0])
	}

	f, err := os.Open(os.Args[1])
	essentials.Must(err)
	defer f.Close()

	if err := run(f, os.Stdout, log.Default()); err != nil {
		log.Printf("tmesh: %v", err)
		os.Exit(1)
	}
}

// run drives the full pipeline (parse, refine, advance, flip, check,
// write) on an already-open parameter file, writing the resulting mesh
// to out.
func run(in io.Reader, out io.Writer, logger *log.Logger) error {
	logger.Println("parsing parameter file...")
	m, err := tmparam.Load(in)
	if err != nil {
		return err
	}

	logger.Println("refining boundaries...")
	if err := refine.Boundaries(m); err != nil {
		return err
	}

	if err := m.InitializeFront(); err != nil {
		return err
	}

	logger.Println("advancing front...")
	if err := advance.Run(m, logger); err != nil {
		if errors.Is(err, &meshmodel.Error{Kind: meshmodel.FrontStalled}) {
			logger.Println("writing partial mesh...")
			if werr := tmio.Write(out, m); werr != nil {
				return werr
			}
		}
		return err
	}

	logger.Println("flipping to local Delaunay...")
	if err := delaunay.Flip(m, logger); err != nil {
		return err
	}

	if err := checkArea(m); err != nil {
		return err
	}

	logger.Println("writing mesh...")
	return tmio.Write(out, m)
}

// checkArea enforces the §7 AreaMismatch invariant: the sum of accepted
// triangle areas must track the boundary-enclosed area within
// areaTolerance. A stalled front never reaches this check (run writes
// the partial mesh and returns FrontStalled earlier); an AreaMismatch
// returned here aborts before any mesh is written, matching §7's
// "emits diagnostic".
func checkArea(m *meshmodel.Mesh) error {
	triArea := m.TotalTriangleArea()
	bdryArea := m.TotalBoundaryArea()
	if bdryArea == 0 {
		return nil
	}
	rel := math.Abs(triArea-bdryArea) / bdryArea
	if rel > areaTolerance {
		return meshmodel.Errf(meshmodel.AreaMismatch, "triangle area %v vs boundary area %v, relative error %v exceeds %v", triArea, bdryArea, rel, areaTolerance)
	}
	return nil
}
