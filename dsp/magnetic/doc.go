// Package magnetic implements a real-time magnetic hysteresis and
// saturation stage for tape and transformer coloration.
//
// Each channel runs the same chain per sample:
//
//	x0  = crossover(in)
//	h   = hysteresis integrator(x0 * pre)
//	y   = curve(h + bias*pre) - curve(bias*pre)
//	y   = y / max(curve(pre), drive.Epsilon) * link
//	wet = cut(dcblock(erase(y))) * post
//	out = in*(1-mix) + wet*mix
//
// With GainLinkCoupled, link is
// max(curve(pre), drive.Epsilon)/pre, so signals below the knee keep their
// level whatever the pre-gain; with GainLinkNormalized it is 1. The
// crossover, erase, DC block and cut stages pass the signal through
// unchanged at their default settings.
//
// Parameters arrive once per block through SetParameters and are ramped
// per sample. Process works in place, never allocates and never fails.
package magnetic
