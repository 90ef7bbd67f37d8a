package fieldline

// Point is a position in spherical coordinates: radius in solar radii,
// colatitude and longitude in radians.
type Point struct {
	R     float64
	Theta float64
	Phi   float64
}

// Polarity labels a field line by where it ends up.
type Polarity string

const (
	// Open lines reach the source surface and connect to the solar wind.
	Open Polarity = "open"
	// Closed lines return to the photosphere, forming a loop.
	Closed Polarity = "closed"
)

// Line is one traced field line. Points runs from one footpoint to the
// other; Strengths[i] is |B| at Points[i], the point step i departs from, so
// it is always one element shorter than Points. Immutable once produced.
type Line struct {
	Points    []Point
	Strengths []float64
	Polarity  Polarity
}

// Set is a collection of traced lines plus the model metadata needed by
// downstream consumers.
type Set struct {
	Lines   []Line
	Lmax    int
	RSource float64
}

// mergeTraces joins a backward and a forward trace from the same seed into
// one line running footpoint to footpoint. The seed opens both traces, so it
// is dropped from the forward points; strengths carry no seed duplicate and
// concatenate without slicing.
func mergeTraces(fwdPts, bwdPts []Point, fwdStr, bwdStr []float64) ([]Point, []float64) {
	points := make([]Point, 0, len(bwdPts)+len(fwdPts)-1)
	for i := len(bwdPts) - 1; i >= 0; i-- {
		points = append(points, bwdPts[i])
	}
	points = append(points, fwdPts[1:]...)

	strengths := make([]float64, 0, len(bwdStr)+len(fwdStr))
	for i := len(bwdStr) - 1; i >= 0; i-- {
		strengths = append(strengths, bwdStr[i])
	}
	strengths = append(strengths, fwdStr...)
	return points, strengths
}
