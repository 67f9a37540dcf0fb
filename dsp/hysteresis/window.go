package hysteresis

import "github.com/cwbudde/algo-hysteresis/dsp/core"

// Polarity is the direction of travel of the input.
type Polarity int

const (
	Rising Polarity = iota
	Falling
)

func (p Polarity) String() string {
	if p == Falling {
		return "falling"
	}
	return "rising"
}

// PolarityOf returns Falling for negative differentials and Rising otherwise.
func PolarityOf(d float64) Polarity {
	if d < 0 {
		return Falling
	}
	return Rising
}

const (
	// maxDepth keeps at least 5% of the differential at full coercitivity.
	maxDepth  = 0.95
	minWidth  = 0.05
	widthSpan = 0.45
)

// Window returns the differential d after magnetic resistance at the given
// input level, using the branch selected by p.
//
// The result is d scaled by 1 - depth/(1 + ((level-center)/width)^2), a
// Lorentzian notch whose depth and width grow with coercitivity. The rising
// branch centres the notch at -width/2, just before the upward zero
// crossing, and the falling branch at +width/2, so the falling branch ends up
// above the rising one and Window(-d, -level, c, Falling) equals
// -Window(d, level, c, Rising).
// Coercitivity is clamped to [0, 1]; NaN counts as 0.
func Window(d, level, coercitivity float64, p Polarity) float64 {
	if p == Falling {
		return FallingWindow(d, level, coercitivity)
	}
	return RisingWindow(d, level, coercitivity)
}

// RisingWindow is the rising-branch window.
func RisingWindow(d, level, coercitivity float64) float64 {
	depth, width := notch(coercitivity)
	if depth == 0 {
		return d
	}
	return d * attenuation(level+0.5*width, depth, width)
}

// FallingWindow is the falling-branch window.
func FallingWindow(d, level, coercitivity float64) float64 {
	depth, width := notch(coercitivity)
	if depth == 0 {
		return d
	}
	return d * attenuation(level-0.5*width, depth, width)
}

func notch(coercitivity float64) (depth, width float64) {
	c := core.ClampOr(coercitivity, 0, 1, 0)
	return maxDepth * c, minWidth + widthSpan*c
}

func attenuation(offset, depth, width float64) float64 {
	u := offset / width
	return 1 - depth/(1+u*u)
}
