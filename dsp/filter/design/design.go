// Package design computes biquad coefficients from the RBJ audio EQ
// cookbook.
package design

import (
	"math"

	"github.com/cwbudde/algo-hysteresis/dsp/filter/biquad"
)

// ButterworthQ is the quality factor of a maximally flat second-order
// section.
const ButterworthQ = 1 / math.Sqrt2

// Lowpass designs a second-order lowpass at freq Hz. A non-positive q
// selects ButterworthQ. A corner outside (0, Nyquist) yields the identity.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	cw, alpha, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	b := (1 - cw) / 2

	return normalize(b, 2*b, b, 1+alpha, -2*cw, 1-alpha)
}

// Highpass designs a second-order highpass at freq Hz. A non-positive q
// selects ButterworthQ. A corner outside (0, Nyquist) yields the identity.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	cw, alpha, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	b := (1 + cw) / 2

	return normalize(b, -2*b, b, 1+alpha, -2*cw, 1-alpha)
}

func prewarp(freq, q, sampleRate float64) (cw, alpha float64, ok bool) {
	if !(sampleRate > 0) || !(freq > 0) || freq >= sampleRate/2 || math.IsInf(sampleRate, 0) {
		return 0, 0, false
	}
	if !(q > 0) || math.IsInf(q, 0) {
		q = ButterworthQ
	}

	w0 := 2 * math.Pi * freq / sampleRate

	return math.Cos(w0), math.Sin(w0) / (2 * q), true
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
