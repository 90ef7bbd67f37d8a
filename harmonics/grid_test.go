package harmonics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridShapeErrors(t *testing.T) {
	_, err := NewGrid(nil)
	assert.ErrorIs(t, err, ErrGridShape)

	_, err = NewGrid([][]float64{{1, 2}})
	assert.ErrorIs(t, err, ErrGridShape, "single row")

	_, err = NewGrid([][]float64{{1}, {2}})
	assert.ErrorIs(t, err, ErrGridShape, "single column")

	_, err = NewGrid([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrGridShape, "ragged rows")
}

func TestNewGridRejectsNonFinite(t *testing.T) {
	_, err := NewGrid([][]float64{{1, math.NaN()}, {3, 4}})
	assert.ErrorIs(t, err, ErrNonFiniteGrid)

	_, err = NewGrid([][]float64{{1, 2}, {math.Inf(1), 4}})
	assert.ErrorIs(t, err, ErrNonFiniteGrid)
}

func TestGridCoordinates(t *testing.T) {
	g, err := NewGrid([][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}})
	require.NoError(t, err)

	assert.Equal(t, 5, g.NTheta())
	assert.Equal(t, 3, g.NPhi())
	assert.InDelta(t, 0.0, g.Theta(0), 1e-15)
	assert.InDelta(t, math.Pi, g.Theta(4), 1e-15)
	assert.InDelta(t, math.Pi/2, g.Theta(2), 1e-15)
	assert.InDelta(t, 0.0, g.Phi(0), 1e-15)
	assert.InDelta(t, 2*math.Pi, g.Phi(2), 1e-15)
}

func TestClean(t *testing.T) {
	samples := [][]float64{
		{1, math.NaN(), 3},
		{math.Inf(1), 5, math.Inf(-1)},
	}
	replaced := Clean(samples)
	assert.Equal(t, 3, replaced)
	assert.Equal(t, [][]float64{{1, 0, 3}, {0, 5, 0}}, samples)

	// Already clean grids are untouched.
	assert.Equal(t, 0, Clean(samples))
}

func TestSmoothPreservesConstantField(t *testing.T) {
	samples := make([][]float64, 10)
	for i := range samples {
		samples[i] = make([]float64, 20)
		for j := range samples[i] {
			samples[i][j] = 7.5
		}
	}
	g, err := NewGrid(samples)
	require.NoError(t, err)

	smoothed := g.Smooth(2.0)
	for i := 0; i < smoothed.NTheta(); i++ {
		for j := 0; j < smoothed.NPhi(); j++ {
			assert.InDelta(t, 7.5, smoothed.At(i, j), 1e-12)
		}
	}
}

func TestSmoothReducesPointNoise(t *testing.T) {
	samples := make([][]float64, 11)
	for i := range samples {
		samples[i] = make([]float64, 11)
	}
	samples[5][5] = 100.0 // single hot pixel
	g, err := NewGrid(samples)
	require.NoError(t, err)

	smoothed := g.Smooth(1.5)
	assert.Less(t, smoothed.At(5, 5), 25.0)
	assert.Greater(t, smoothed.At(5, 5), smoothed.At(5, 7))

	// Zero sigma is a no-op.
	assert.Same(t, g, g.Smooth(0))
}
