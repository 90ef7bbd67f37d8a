package harmonics

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/integrate"
)

// Rule selects the numerical integration rule used for every coefficient in
// one run. Mixing rules within a run is deliberately impossible: downstream
// comparisons assume a single error model.
type Rule int

const (
	// RuleRiemann uses a direct Riemann sum with fixed Δθ·Δφ weights.
	RuleRiemann Rule = iota
	// RuleSimpson uses the composite Simpson rule along each axis in turn
	// (φ inside θ). Needs at least three samples per axis.
	RuleSimpson
)

// Progress observes the coefficient set after each completed degree l. The
// set contains exactly the degrees finished so far; the callback must treat
// it as read-only and must not retain it past the call. A non-nil error
// aborts the decomposition.
type Progress func(l int, coeffs CoefficientSet) error

// Options tunes a decomposition run.
type Options struct {
	// Rule selects the integration rule. Zero value is RuleRiemann.
	Rule Rule
	// Progress, if non-nil, is invoked after each completed degree.
	Progress Progress
	// Resume seeds the run with a previously computed partial set. Degrees
	// that are complete in Resume (all 2l+1 orders present) are copied
	// instead of recomputed; computation restarts at the first incomplete
	// degree.
	Resume CoefficientSet
}

// Decompose projects the grid onto spherical harmonics, computing
//
//	a(l,m) = ∬ B(θ,φ) · conj(Y_l^m(θ,φ)) · sinθ dθ dφ
//
// for every 0 ≤ l ≤ lmax, -l ≤ m ≤ l, each order by direct integration.
func Decompose(g *Grid, lmax int, opts Options) (CoefficientSet, error) {
	return decompose(g, lmax, opts, false)
}

// DecomposeSymmetric is Decompose with the conjugate-symmetry shortcut for
// real-valued input: only m ≥ 0 integrals are evaluated, and each negative
// order is derived as a(l,-m) = (-1)^m · conj(a(l,m)).
func DecomposeSymmetric(g *Grid, lmax int, opts Options) (CoefficientSet, error) {
	return decompose(g, lmax, opts, true)
}

func decompose(g *Grid, lmax int, opts Options, symmetric bool) (CoefficientSet, error) {
	if lmax < 0 {
		return nil, ErrNegativeDegree
	}
	if opts.Rule == RuleSimpson && (g.nTheta < 3 || g.nPhi < 3) {
		return nil, fmt.Errorf("%w: Simpson rule needs at least three samples per axis", ErrGridShape)
	}

	out := make(CoefficientSet)
	start := 0
	if opts.Resume != nil {
		for l := 0; l <= lmax; l++ {
			if !opts.Resume.degreeComplete(l) {
				break
			}
			for m := -l; m <= l; m++ {
				out[Index{L: l, M: m}] = opts.Resume.At(l, m)
			}
			start = l + 1
		}
	}

	for l := start; l <= lmax; l++ {
		if symmetric {
			for m := 0; m <= l; m++ {
				a := integral(g, l, m, opts.Rule)
				out[Index{L: l, M: m}] = a
				if m > 0 {
					d := cmplx.Conj(a)
					if m%2 != 0 {
						d = -d
					}
					out[Index{L: l, M: -m}] = d
				}
			}
		} else {
			for m := -l; m <= l; m++ {
				out[Index{L: l, M: m}] = integral(g, l, m, opts.Rule)
			}
		}
		if opts.Progress != nil {
			if err := opts.Progress(l, out); err != nil {
				return nil, fmt.Errorf("harmonics: progress callback after degree %d: %w", l, err)
			}
		}
	}
	return out, nil
}

// integral evaluates ∬ B · conj(Y_l^m) · sinθ dθ dφ over the whole grid.
//
// The φ dependence of Y_l^m is e^{imφ} for either sign of m, so the
// conjugated harmonic factors as p(θ) · e^{-imφ} with p real. p is evaluated
// once per row instead of once per grid point.
func integral(g *Grid, l, m int, rule Rule) complex128 {
	p := make([]float64, g.nTheta)
	sinTheta := make([]float64, g.nTheta)
	for i := 0; i < g.nTheta; i++ {
		theta := g.Theta(i)
		p[i] = legendreSigned(l, m, theta)
		sinTheta[i] = math.Sin(theta)
	}
	cosM := make([]float64, g.nPhi)
	sinM := make([]float64, g.nPhi)
	for j := 0; j < g.nPhi; j++ {
		mphi := float64(m) * g.Phi(j)
		cosM[j] = math.Cos(mphi)
		sinM[j] = math.Sin(mphi)
	}

	switch rule {
	case RuleSimpson:
		return integralSimpson(g, p, sinTheta, cosM, sinM)
	default:
		return integralRiemann(g, p, sinTheta, cosM, sinM)
	}
}

// integralRiemann is a plain Riemann sum: every sample carries the fixed
// weight (π/nθ)·(2π/nφ).
func integralRiemann(g *Grid, p, sinTheta, cosM, sinM []float64) complex128 {
	var sumRe, sumIm float64
	for i := 0; i < g.nTheta; i++ {
		w := p[i] * sinTheta[i]
		if w == 0 {
			continue // pole rows contribute nothing
		}
		for j := 0; j < g.nPhi; j++ {
			b := g.samples[i][j] * w
			sumRe += b * cosM[j]
			sumIm -= b * sinM[j]
		}
	}
	weight := (math.Pi / float64(g.nTheta)) * (2 * math.Pi / float64(g.nPhi))
	return complex(sumRe*weight, sumIm*weight)
}

// integralSimpson applies the composite Simpson rule over φ for each
// colatitude row, then over θ.
func integralSimpson(g *Grid, p, sinTheta, cosM, sinM []float64) complex128 {
	theta := make([]float64, g.nTheta)
	phi := make([]float64, g.nPhi)
	for i := range theta {
		theta[i] = g.Theta(i)
	}
	for j := range phi {
		phi[j] = g.Phi(j)
	}

	rowRe := make([]float64, g.nTheta)
	rowIm := make([]float64, g.nTheta)
	fRe := make([]float64, g.nPhi)
	fIm := make([]float64, g.nPhi)
	for i := 0; i < g.nTheta; i++ {
		w := p[i] * sinTheta[i]
		for j := 0; j < g.nPhi; j++ {
			b := g.samples[i][j] * w
			fRe[j] = b * cosM[j]
			fIm[j] = -b * sinM[j]
		}
		rowRe[i] = integrate.Simpsons(phi, fRe)
		rowIm[i] = integrate.Simpsons(phi, fIm)
	}
	return complex(integrate.Simpsons(theta, rowRe), integrate.Simpsons(theta, rowIm))
}

// legendreSigned evaluates the real θ-profile of Y_l^m for either sign of m:
// legendreNorm for m ≥ 0, and (-1)^m times it for m < 0.
func legendreSigned(l, m int, theta float64) float64 {
	if m >= 0 {
		return legendreNorm(l, m, theta)
	}
	v := legendreNorm(l, -m, theta)
	if (-m)%2 != 0 {
		return -v
	}
	return v
}
