package pfss

import (
	"errors"
	"fmt"
	"math"

	"github.com/solarphys/pfsstrace/harmonics"
)

var (
	// ErrNoCoefficients indicates the model was built without coefficients.
	ErrNoCoefficients = errors.New("pfss: coefficient set is empty")
	// ErrSourceSurface indicates r_source does not lie above the photosphere.
	ErrSourceSurface = errors.New("pfss: source surface radius must exceed 1.0")
	// ErrOutOfDomain indicates an evaluation point outside the modeled shell.
	ErrOutOfDomain = errors.New("pfss: point outside model domain")
)

// Model is a PFSS extrapolation backed by an immutable coefficient set.
// Safe for concurrent use.
type Model struct {
	coeffs  harmonics.CoefficientSet
	lmax    int
	rSource float64
}

// New builds a model from a coefficient set and a source surface radius in
// solar radii. lmax is taken from the highest degree present in the set.
func New(coeffs harmonics.CoefficientSet, rSource float64) (*Model, error) {
	if len(coeffs) == 0 {
		return nil, ErrNoCoefficients
	}
	if rSource <= 1.0 {
		return nil, fmt.Errorf("%w: got %g", ErrSourceSurface, rSource)
	}
	return &Model{coeffs: coeffs, lmax: coeffs.Lmax(), rSource: rSource}, nil
}

// Lmax returns the maximum harmonic degree of the model.
func (m *Model) Lmax() int { return m.lmax }

// RSource returns the source surface radius in solar radii.
func (m *Model) RSource() float64 { return m.rSource }

// FieldAt returns the magnetic field vector (Br, Bθ, Bφ) at the spherical
// point (r, θ, φ). Valid domain: 1 ≤ r ≤ r_source and θ strictly between the
// poles, where the harmonics are singular.
//
// Br sums, over 1 ≤ l ≤ lmax and -l ≤ m ≤ l,
//
//	a(l,m) · [l·r^(l-1) + (l+1)·r_s^(2l+1)/r^(l+2)] / [1 - r_s^(2l+1)] · Y_l^m
//
// and keeps the real part: for a real photospheric field the imaginary parts
// cancel pairwise between m and -m. The l = 0 monopole has no radial
// gradient and is skipped.
//
// Bθ and Bφ are returned as zero. Deriving them needs ∂Y/∂θ and ∂Y/∂φ,
// which this model does not implement; traced field lines therefore reduce
// to radial walks.
func (m *Model) FieldAt(r, theta, phi float64) (br, btheta, bphi float64, err error) {
	if m.coeffs == nil {
		return 0, 0, 0, ErrNoCoefficients
	}
	if r < 1.0 || r > m.rSource {
		return 0, 0, 0, fmt.Errorf("%w: r=%g not in [1, %g]", ErrOutOfDomain, r, m.rSource)
	}
	if theta <= 0 || theta >= math.Pi {
		return 0, 0, 0, fmt.Errorf("%w: θ=%g not in (0, π)", ErrOutOfDomain, theta)
	}

	var sum complex128
	for l := 1; l <= m.lmax; l++ {
		fl := float64(l)
		rsPow := math.Pow(m.rSource, 2*fl+1)
		radial := (fl*math.Pow(r, fl-1) + (fl+1)*rsPow/math.Pow(r, fl+2)) / (1 - rsPow)
		for mm := -l; mm <= l; mm++ {
			g := m.coeffs.At(l, mm)
			if g == 0 {
				continue
			}
			sum += g * complex(radial, 0) * harmonics.Ylm(l, mm, theta, phi)
		}
	}
	return real(sum), 0, 0, nil
}
