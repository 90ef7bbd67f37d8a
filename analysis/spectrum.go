// Package analysis examines spherical harmonic coefficient sets: per-degree
// power spectra, cumulative power against truncation degree, and a
// recommended lmax for a target power fraction.
package analysis

import (
	"errors"

	"github.com/solarphys/pfsstrace/harmonics"
)

// ErrEmptySet indicates an analysis over an empty coefficient set.
var ErrEmptySet = errors.New("analysis: coefficient set is empty")

// Spectrum is the per-degree power distribution of a coefficient set.
type Spectrum struct {
	// Power[l] is Σ_m |a(l,m)|² for degree l, 0 ≤ l ≤ Lmax.
	Power []float64
	// Cumulative[l] is the fraction of total power carried by degrees ≤ l.
	Cumulative []float64
	// Total is the power summed over all degrees.
	Total float64
}

// Lmax returns the highest degree covered by the spectrum.
func (s *Spectrum) Lmax() int { return len(s.Power) - 1 }

// NewSpectrum computes the power spectrum of a coefficient set. Power
// accumulates monotonically with truncation degree, so Cumulative is
// non-decreasing.
func NewSpectrum(c harmonics.CoefficientSet) (*Spectrum, error) {
	lmax := c.Lmax()
	if lmax < 0 {
		return nil, ErrEmptySet
	}
	s := &Spectrum{
		Power:      make([]float64, lmax+1),
		Cumulative: make([]float64, lmax+1),
	}
	for l := 0; l <= lmax; l++ {
		s.Power[l] = c.Power(l)
		s.Total += s.Power[l]
	}
	running := 0.0
	for l := 0; l <= lmax; l++ {
		running += s.Power[l]
		if s.Total > 0 {
			s.Cumulative[l] = running / s.Total
		}
	}
	return s, nil
}

// FractionAt returns the fraction of total power retained when truncating
// at degree lmax.
func (s *Spectrum) FractionAt(lmax int) float64 {
	if lmax < 0 {
		return 0
	}
	if lmax > s.Lmax() {
		lmax = s.Lmax()
	}
	return s.Cumulative[lmax]
}

// RecommendLmax returns the smallest truncation degree whose retained power
// fraction reaches target (for example 0.99). If no degree reaches it, the
// full Lmax is returned.
func (s *Spectrum) RecommendLmax(target float64) int {
	for l := 0; l <= s.Lmax(); l++ {
		if s.Cumulative[l] >= target {
			return l
		}
	}
	return s.Lmax()
}
