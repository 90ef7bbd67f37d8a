package fieldline

import "errors"

var (
	// ErrStepSize indicates a non-positive integration step size.
	ErrStepSize = errors.New("fieldline: step size must be positive")
	// ErrSourceRadius indicates the source surface does not lie above the photosphere.
	ErrSourceRadius = errors.New("fieldline: source surface radius must exceed 1.0")
	// ErrLineCount indicates fewer than one field line was requested.
	ErrLineCount = errors.New("fieldline: number of lines must be positive")
)
