// Package biquad runs second-order IIR sections in Direct Form II
// Transposed.
//
// The magnetic engine uses one [Section] per channel for each of its
// filter stages and swaps the shared [Coefficients] while a control ramps.
// Coefficient design lives in dsp/filter/design.
package biquad
