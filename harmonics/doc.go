// Package harmonics decomposes a photospheric magnetogram into spherical
// harmonic coefficients.
//
// What:
//
//   - Grid wraps a rectangular colatitude × longitude sampling of the radial
//     field Br at the photosphere.
//   - Decompose projects the grid onto orthonormal spherical harmonics,
//     producing the complex coefficient set a(l,m) for 0 ≤ l ≤ lmax,
//     |m| ≤ l. DecomposeSymmetric computes only m ≥ 0 integrals and derives
//     the rest from conjugate symmetry, which roughly halves the work for a
//     real-valued field.
//   - Computation proceeds degree by degree. A Progress callback observes the
//     coefficient set after each completed degree, so a caller can persist
//     partial results and later resume an interrupted run via Options.Resume.
//   - WriteCSV/ReadCSV round-trip a coefficient set through the tabular
//     interchange format with columns l,m,real,imag,magnitude.
//
// Errors:
//
//   - ErrGridShape: input is not a rectangular 2D grid with at least two
//     samples along each axis (three for Simpson integration).
//   - ErrNegativeDegree: lmax < 0.
//   - ErrNonFiniteGrid: the grid still contains NaN or Inf samples; callers
//     own cleaning (see Clean) before decomposition.
package harmonics
