package harmonics

import (
	"math"
)

// Grid is a rectangular sampling of the radial field Br(θ,φ) at the
// photosphere. Row i holds colatitude θ_i on the uniform grid [0, π], column
// j holds longitude φ_j on the uniform grid [0, 2π]. Immutable once built.
type Grid struct {
	samples [][]float64
	nTheta  int
	nPhi    int
}

// NewGrid validates and wraps a 2D sample array. The array must be
// rectangular with at least two rows and two columns; samples must already be
// finite (see Clean).
func NewGrid(samples [][]float64) (*Grid, error) {
	if len(samples) < 2 {
		return nil, ErrGridShape
	}
	nPhi := len(samples[0])
	if nPhi < 2 {
		return nil, ErrGridShape
	}
	for _, row := range samples {
		if len(row) != nPhi {
			return nil, ErrGridShape
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, ErrNonFiniteGrid
			}
		}
	}
	return &Grid{samples: samples, nTheta: len(samples), nPhi: nPhi}, nil
}

// NTheta returns the number of colatitude samples.
func (g *Grid) NTheta() int { return g.nTheta }

// NPhi returns the number of longitude samples.
func (g *Grid) NPhi() int { return g.nPhi }

// At returns the sample at colatitude row i, longitude column j.
func (g *Grid) At(i, j int) float64 { return g.samples[i][j] }

// Theta returns the colatitude of row i on the uniform [0, π] grid.
func (g *Grid) Theta(i int) float64 {
	return math.Pi * float64(i) / float64(g.nTheta-1)
}

// Phi returns the longitude of column j on the uniform [0, 2π] grid.
func (g *Grid) Phi(j int) float64 {
	return 2 * math.Pi * float64(j) / float64(g.nPhi-1)
}

// Clean replaces NaN and ±Inf samples with 0.0 in place and reports how many
// samples were replaced. Synoptic magnetograms routinely carry NaN patches
// near the poles; the engines require the caller to have cleaned them.
func Clean(samples [][]float64) int {
	replaced := 0
	for i := range samples {
		for j, v := range samples[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				samples[i][j] = 0.0
				replaced++
			}
		}
	}
	return replaced
}

// Smooth returns a copy of the grid blurred with a separable Gaussian of
// standard deviation sigma (in samples). Smoothing before decomposition
// suppresses pixel noise that would otherwise leak into high degrees.
// sigma <= 0 returns the grid unchanged.
func (g *Grid) Smooth(sigma float64) *Grid {
	if sigma <= 0 {
		return g
	}
	kernel := gaussianKernel(sigma)
	half := len(kernel) / 2

	// Blur along φ (rows), then along θ (columns).
	tmp := make([][]float64, g.nTheta)
	for i := range tmp {
		tmp[i] = make([]float64, g.nPhi)
		for j := 0; j < g.nPhi; j++ {
			var sum, wsum float64
			for k, w := range kernel {
				jj := j + k - half
				if jj < 0 || jj >= g.nPhi {
					continue
				}
				sum += w * g.samples[i][jj]
				wsum += w
			}
			tmp[i][j] = sum / wsum
		}
	}

	out := make([][]float64, g.nTheta)
	for i := range out {
		out[i] = make([]float64, g.nPhi)
	}
	for j := 0; j < g.nPhi; j++ {
		for i := 0; i < g.nTheta; i++ {
			var sum, wsum float64
			for k, w := range kernel {
				ii := i + k - half
				if ii < 0 || ii >= g.nTheta {
					continue
				}
				sum += w * tmp[ii][j]
				wsum += w
			}
			out[i][j] = sum / wsum
		}
	}
	return &Grid{samples: out, nTheta: g.nTheta, nPhi: g.nPhi}
}

// gaussianKernel builds a normalized 1D kernel truncated at ±3σ.
func gaussianKernel(sigma float64) []float64 {
	half := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*half+1)
	sum := 0.0
	for k := range kernel {
		x := float64(k - half)
		kernel[k] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += kernel[k]
	}
	for k := range kernel {
		kernel[k] /= sum
	}
	return kernel
}
