package harmonics

import (
	"math"
	"math/cmplx"
)

// Ylm evaluates the orthonormal spherical harmonic Y_l^m(θ,φ), including the
// Condon–Shortley phase, so that
//
//	∬ Y_l^m · conj(Y_l'^m') · sinθ dθ dφ = δ_ll' δ_mm'.
//
// Negative orders follow from conjugate symmetry:
// Y_l^{-m} = (-1)^m · conj(Y_l^m).
func Ylm(l, m int, theta, phi float64) complex128 {
	if l < 0 || m < -l || m > l {
		return 0
	}
	if m < 0 {
		y := Ylm(l, -m, theta, phi)
		if (-m)%2 != 0 {
			return -cmplx.Conj(y)
		}
		return cmplx.Conj(y)
	}
	p := legendreNorm(l, m, theta)
	return complex(p, 0) * cmplx.Exp(complex(0, float64(m)*phi))
}

// legendreNorm computes the fully normalized associated Legendre function
//
//	P̄_l^m(cosθ) = sqrt((2l+1)/(4π) · (l-m)!/(l+m)!) · P_l^m(cosθ)
//
// for m ≥ 0 by upward recurrence in l. The normalization is folded into the
// recurrence itself; computing P_l^m and the factorial ratio separately
// overflows float64 near l ≈ 150, while the normalized recurrence stays
// well-scaled to much higher degree.
func legendreNorm(l, m int, theta float64) float64 {
	x := math.Cos(theta)
	s := math.Sin(theta)

	// Diagonal term P̄_m^m. The -sqrt((2k+1)/(2k)) factor carries the
	// Condon–Shortley phase (-1)^m.
	pmm := 1.0 / math.Sqrt(4*math.Pi)
	for k := 1; k <= m; k++ {
		pmm *= -math.Sqrt(float64(2*k+1)/float64(2*k)) * s
	}
	if l == m {
		return pmm
	}

	// First off-diagonal term P̄_{m+1}^m.
	pm1 := math.Sqrt(float64(2*m+3)) * x * pmm
	if l == m+1 {
		return pm1
	}

	// Upward recurrence in degree.
	for ll := m + 2; ll <= l; ll++ {
		a := math.Sqrt(float64(4*ll*ll-1) / float64(ll*ll-m*m))
		b := math.Sqrt(float64((ll-1)*(ll-1)-m*m) / float64(4*(ll-1)*(ll-1)-1))
		pmm, pm1 = pm1, a*(x*pm1-b*pmm)
	}
	return pm1
}
