package harmonics

// Index addresses one spherical harmonic coefficient by degree and order.
type Index struct {
	L int
	M int
}

// CoefficientSet maps (l,m) to the complex expansion coefficient a(l,m) of a
// scalar field on the sphere. Produced once per magnetogram and treated as
// immutable afterward.
type CoefficientSet map[Index]complex128

// At returns a(l,m), or zero if the pair is absent.
func (c CoefficientSet) At(l, m int) complex128 {
	return c[Index{L: l, M: m}]
}

// Lmax returns the maximum degree present, or -1 for an empty set.
func (c CoefficientSet) Lmax() int {
	lmax := -1
	for idx := range c {
		if idx.L > lmax {
			lmax = idx.L
		}
	}
	return lmax
}

// Clone returns an independent copy of the set.
func (c CoefficientSet) Clone() CoefficientSet {
	out := make(CoefficientSet, len(c))
	for idx, v := range c {
		out[idx] = v
	}
	return out
}

// Truncate returns a copy containing only degrees l ≤ lmax.
func (c CoefficientSet) Truncate(lmax int) CoefficientSet {
	out := make(CoefficientSet)
	for idx, v := range c {
		if idx.L <= lmax {
			out[idx] = v
		}
	}
	return out
}

// Power returns the power Σ_m |a(l,m)|² carried by degree l.
func (c CoefficientSet) Power(l int) float64 {
	sum := 0.0
	for m := -l; m <= l; m++ {
		v := c.At(l, m)
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return sum
}

// TotalPower returns the power summed over all degrees l ≤ lmax.
func (c CoefficientSet) TotalPower(lmax int) float64 {
	sum := 0.0
	for l := 0; l <= lmax; l++ {
		sum += c.Power(l)
	}
	return sum
}

// degreeComplete reports whether all 2l+1 orders of degree l are present.
func (c CoefficientSet) degreeComplete(l int) bool {
	for m := -l; m <= l; m++ {
		if _, ok := c[Index{L: l, M: m}]; !ok {
			return false
		}
	}
	return true
}
