// Package thd measures total harmonic distortion from spectra, signals and
// in-place processors.
package thd
