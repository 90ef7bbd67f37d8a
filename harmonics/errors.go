package harmonics

import "errors"

var (
	// ErrGridShape indicates the magnetogram is not a rectangular 2D grid
	// with enough samples along each axis for the selected integration rule.
	ErrGridShape = errors.New("harmonics: grid must be rectangular with at least two samples per axis")
	// ErrNegativeDegree indicates a negative maximum degree was requested.
	ErrNegativeDegree = errors.New("harmonics: lmax must be non-negative")
	// ErrNonFiniteGrid indicates NaN or Inf samples reached the engine.
	ErrNonFiniteGrid = errors.New("harmonics: grid contains non-finite samples")
	// ErrBadCoefficientRow indicates a malformed row in a coefficient CSV.
	ErrBadCoefficientRow = errors.New("harmonics: malformed coefficient row")
)
