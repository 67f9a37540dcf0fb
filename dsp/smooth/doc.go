// Package smooth provides parameter smoothing for block-based processing.
//
// Hosts deliver parameter values once per block. Applying them as steps
// produces zipper noise, so processors ramp toward each new target over a
// fixed time instead.
package smooth
