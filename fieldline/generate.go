package fieldline

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// openThreshold is how close (in solar radii) a line's far end must come to
// the source surface to count as having reached it. The classification is a
// threshold heuristic, not an exact boundary test.
const openThreshold = 0.1

// Options configures line-set generation.
type Options struct {
	// NLines is the requested number of field lines. The realized count is
	// ⌊√n⌋ · ⌊n/⌊√n⌋⌋, which integer rounding may leave below the request.
	NLines int
	// MaxSteps and StepSize are the per-trace integration parameters.
	MaxSteps int
	StepSize float64
	// Lmax is recorded as set metadata for downstream consumers.
	Lmax int
	// Workers bounds the tracing pool. Zero means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the standard tracing parameters: 100 lines,
// 1000 Euler steps of 0.01 solar radii.
func DefaultOptions(lmax int) Options {
	return Options{NLines: 100, MaxSteps: 1000, StepSize: 0.01, Lmax: lmax}
}

// Generate traces a full set of field lines from a lattice of photospheric
// seeds. Colatitudes are spaced evenly across [0.1, π-0.1] inclusive;
// longitudes across [0, 2π) with the endpoint excluded to avoid a duplicate
// seam at φ = 0. Every seed starts at r = 1 and is traced both forward and
// backward; the halves merge into one footpoint-to-footpoint line, labeled
// open if its far end came within openThreshold of the source surface.
//
// Seeds are mutually independent, so traces run on a bounded worker pool.
// Lines come back in deterministic lattice order regardless of scheduling.
func Generate(ev Evaluator, rSource float64, opts Options) (*Set, error) {
	if opts.NLines < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrLineCount, opts.NLines)
	}
	if rSource <= 1.0 {
		return nil, fmt.Errorf("%w: got %g", ErrSourceRadius, rSource)
	}
	cfg := Config{RSource: rSource, MaxSteps: opts.MaxSteps, StepSize: opts.StepSize}

	nTheta := int(math.Sqrt(float64(opts.NLines)))
	nPhi := opts.NLines / nTheta
	seeds := seedLattice(nTheta, nPhi)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	lines := make([]Line, len(seeds))
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, seed := range seeds {
		eg.Go(func() error {
			line, err := traceSeed(ev, seed, cfg)
			if err != nil {
				return err
			}
			lines[i] = line
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &Set{Lines: lines, Lmax: opts.Lmax, RSource: rSource}, nil
}

// traceSeed produces the merged, classified line for one seed.
func traceSeed(ev Evaluator, seed Point, cfg Config) (Line, error) {
	fwdPts, fwdStr, err := Trace(ev, seed, Forward, cfg)
	if err != nil {
		return Line{}, err
	}
	bwdPts, bwdStr, err := Trace(ev, seed, Backward, cfg)
	if err != nil {
		return Line{}, err
	}
	points, strengths := mergeTraces(fwdPts, bwdPts, fwdStr, bwdStr)

	polarity := Closed
	if points[len(points)-1].R > cfg.RSource-openThreshold {
		polarity = Open
	}
	return Line{Points: points, Strengths: strengths, Polarity: polarity}, nil
}

// seedLattice builds the photospheric seed grid in row-major (θ outer, φ
// inner) order.
func seedLattice(nTheta, nPhi int) []Point {
	thetas := []float64{0.1}
	if nTheta > 1 {
		thetas = make([]float64, nTheta)
		floats.Span(thetas, 0.1, math.Pi-0.1)
	}
	seeds := make([]Point, 0, nTheta*nPhi)
	for _, theta := range thetas {
		for j := 0; j < nPhi; j++ {
			phi := 2 * math.Pi * float64(j) / float64(nPhi)
			seeds = append(seeds, Point{R: 1.0, Theta: theta, Phi: phi})
		}
	}
	return seeds
}
