package fieldline

import (
	"fmt"
	"math"
)

// Evaluator supplies the magnetic field vector at a spherical point. A
// *pfss.Model satisfies this. Implementations must be safe for concurrent
// calls; Generate evaluates from multiple goroutines.
type Evaluator interface {
	FieldAt(r, theta, phi float64) (br, btheta, bphi float64, err error)
}

// Direction selects the integration sense along the field.
type Direction int

const (
	// Forward integrates along the field vector.
	Forward Direction = 1
	// Backward integrates against it.
	Backward Direction = -1
)

// vanishingField is the |B| threshold below which a trace stops: the field
// direction is no longer defined to working precision.
const vanishingField = 1e-10

// poleMargin keeps traces away from the coordinate singularity at the poles.
const poleMargin = 0.01

// Config holds the fixed-step integration parameters shared by every trace
// of one line set.
type Config struct {
	// RSource is the source surface radius in solar radii.
	RSource float64
	// MaxSteps bounds the number of Euler steps per trace.
	MaxSteps int
	// StepSize is the Euler step h in solar radii.
	StepSize float64
}

// Trace integrates one field line from seed with explicit Euler steps along
// the unit field direction:
//
//	r += d·h·Br/|B|;  θ += d·h·Bθ/(r·|B|);  φ += d·h·Bφ/(r·sinθ·|B|)
//
// The trace ends, normally, when the field vanishes, the line leaves the
// shell [1, r_source], the colatitude comes within poleMargin of a pole, or
// MaxSteps is exhausted. A step that lands outside the shell or pole margin
// is discarded, so the returned points all lie inside the valid domain and
// len(strengths) == len(points)-1 holds on every exit path.
func Trace(ev Evaluator, seed Point, direction Direction, cfg Config) ([]Point, []float64, error) {
	if cfg.StepSize <= 0 {
		return nil, nil, fmt.Errorf("%w: got %g", ErrStepSize, cfg.StepSize)
	}
	if cfg.RSource <= 1.0 {
		return nil, nil, fmt.Errorf("%w: got %g", ErrSourceRadius, cfg.RSource)
	}

	points := []Point{seed}
	strengths := []float64{}
	d := float64(direction)
	r, theta, phi := seed.R, seed.Theta, seed.Phi

	for step := 0; step < cfg.MaxSteps; step++ {
		br, btheta, bphi, err := ev.FieldAt(r, theta, phi)
		if err != nil {
			return nil, nil, fmt.Errorf("fieldline: evaluate at (r=%g, θ=%g, φ=%g): %w", r, theta, phi, err)
		}
		bmag := math.Sqrt(br*br + btheta*btheta + bphi*bphi)
		if bmag < vanishingField {
			break // degenerate point, not an error
		}

		h := d * cfg.StepSize
		rNext := r + h*br/bmag
		thetaNext := theta + h*btheta/(r*bmag)
		phiNext := phi + h*bphi/(r*math.Sin(theta)*bmag)

		if rNext < 1.0 || rNext > cfg.RSource {
			break // reached photosphere or source surface
		}
		if thetaNext < poleMargin || thetaNext > math.Pi-poleMargin {
			break
		}

		r, theta, phi = rNext, thetaNext, phiNext
		points = append(points, Point{R: r, Theta: theta, Phi: phi})
		strengths = append(strengths, bmag)
	}
	return points, strengths, nil
}
