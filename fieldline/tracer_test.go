package fieldline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldFunc adapts a function to the Evaluator interface.
type fieldFunc func(r, theta, phi float64) (float64, float64, float64, error)

func (f fieldFunc) FieldAt(r, theta, phi float64) (float64, float64, float64, error) {
	return f(r, theta, phi)
}

var (
	zeroField = fieldFunc(func(r, theta, phi float64) (float64, float64, float64, error) {
		return 0, 0, 0, nil
	})
	radialOut = fieldFunc(func(r, theta, phi float64) (float64, float64, float64, error) {
		return 1, 0, 0, nil
	})
	poleward = fieldFunc(func(r, theta, phi float64) (float64, float64, float64, error) {
		return 0, -1, 0, nil
	})
)

func defaultConfig() Config {
	return Config{RSource: 2.5, MaxSteps: 1000, StepSize: 0.01}
}

func TestTraceArgumentErrors(t *testing.T) {
	seed := Point{R: 1, Theta: 1, Phi: 0}

	_, _, err := Trace(radialOut, seed, Forward, Config{RSource: 2.5, MaxSteps: 10, StepSize: 0})
	assert.ErrorIs(t, err, ErrStepSize)

	_, _, err = Trace(radialOut, seed, Forward, Config{RSource: 1.0, MaxSteps: 10, StepSize: 0.01})
	assert.ErrorIs(t, err, ErrSourceRadius)
}

// A vanishing field ends the trace at the seed: one point, no strengths.
func TestTraceVanishingField(t *testing.T) {
	seed := Point{R: 1, Theta: 1.2, Phi: 3.0}
	points, strengths, err := Trace(zeroField, seed, Forward, defaultConfig())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, seed, points[0])
	assert.Empty(t, strengths)
}

// A purely radial outward field walks to the source surface and stops.
func TestTraceReachesSourceSurface(t *testing.T) {
	seed := Point{R: 1, Theta: math.Pi / 2, Phi: 0}
	points, strengths, err := Trace(radialOut, seed, Forward, defaultConfig())
	require.NoError(t, err)

	require.Len(t, strengths, len(points)-1)
	assert.Equal(t, seed, points[0])

	last := points[len(points)-1]
	assert.LessOrEqual(t, last.R, 2.5)
	assert.Greater(t, last.R, 2.5-0.02, "stops within one step of the surface")
	// θ and φ untouched by a radial walk.
	assert.Equal(t, seed.Theta, last.Theta)
	assert.Equal(t, seed.Phi, last.Phi)
	for _, s := range strengths {
		assert.Equal(t, 1.0, s)
	}
}

// Tracing backward against an outward field exits through the photosphere
// immediately.
func TestTraceBackwardExitsPhotosphere(t *testing.T) {
	seed := Point{R: 1, Theta: 1.0, Phi: 0}
	points, strengths, err := Trace(radialOut, seed, Backward, defaultConfig())
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Empty(t, strengths)
}

func TestTracePoleTermination(t *testing.T) {
	seed := Point{R: 1.5, Theta: 0.05, Phi: 0}
	points, strengths, err := Trace(poleward, seed, Forward, defaultConfig())
	require.NoError(t, err)

	require.Len(t, strengths, len(points)-1)
	last := points[len(points)-1]
	assert.GreaterOrEqual(t, last.Theta, 0.01, "never enters the pole margin")
	assert.Less(t, last.Theta, 0.05)
}

// The step budget caps every trace at MaxSteps+1 points.
func TestTraceStepBudget(t *testing.T) {
	seed := Point{R: 1, Theta: math.Pi / 2, Phi: 0}
	cfg := Config{RSource: 100, MaxSteps: 10, StepSize: 0.01}

	points, strengths, err := Trace(radialOut, seed, Forward, cfg)
	require.NoError(t, err)
	require.Len(t, points, 11)
	require.Len(t, strengths, 10)
}

func TestTraceZeroMaxSteps(t *testing.T) {
	seed := Point{R: 1, Theta: 1, Phi: 0}
	cfg := Config{RSource: 2.5, MaxSteps: 0, StepSize: 0.01}

	points, strengths, err := Trace(radialOut, seed, Forward, cfg)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Empty(t, strengths)
}

func TestTraceEvaluatorErrorPropagates(t *testing.T) {
	boom := errors.New("model not loaded")
	failing := fieldFunc(func(r, theta, phi float64) (float64, float64, float64, error) {
		return 0, 0, 0, boom
	})

	_, _, err := Trace(failing, Point{R: 1, Theta: 1, Phi: 0}, Forward, defaultConfig())
	require.ErrorIs(t, err, boom)
}

func TestMergeTraces(t *testing.T) {
	seed := Point{R: 1, Theta: 1, Phi: 0}
	fwdPts := []Point{seed, {R: 1.01, Theta: 1, Phi: 0}, {R: 1.02, Theta: 1, Phi: 0}}
	fwdStr := []float64{2.0, 2.1}
	bwdPts := []Point{seed, {R: 1, Theta: 1.01, Phi: 0}}
	bwdStr := []float64{1.5}

	points, strengths := mergeTraces(fwdPts, bwdPts, fwdStr, bwdStr)

	require.Len(t, points, 4) // seed appears exactly once
	assert.Equal(t, bwdPts[1], points[0])
	assert.Equal(t, seed, points[1])
	assert.Equal(t, fwdPts[2], points[3])
	assert.Equal(t, []float64{1.5, 2.0, 2.1}, strengths)
	require.Len(t, strengths, len(points)-1)
}

// Single-point traces in both directions merge to a single-point line.
func TestMergeTracesDegenerate(t *testing.T) {
	seed := Point{R: 1, Theta: 1, Phi: 0}
	points, strengths := mergeTraces([]Point{seed}, []Point{seed}, nil, nil)
	require.Len(t, points, 1)
	assert.Equal(t, seed, points[0])
	assert.Empty(t, strengths)
}
