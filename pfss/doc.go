// Package pfss evaluates a Potential Field Source Surface model of the
// coronal magnetic field.
//
// The model is current-free between the photosphere (r = 1, in solar radii)
// and the source surface (r = r_source, typically 2.5), where the field is
// forced radial. Given the spherical harmonic coefficients of the
// photospheric radial field, Model.FieldAt returns the field vector at any
// point strictly inside that shell.
//
// Only the radial component Br is currently computed. The tangential
// components Bθ and Bφ require the angular derivatives of the spherical
// harmonics and are returned as zero; see the FieldAt documentation.
package pfss
