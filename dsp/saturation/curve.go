package saturation

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-hysteresis/dsp/core"
)

// Ceiling is the largest magnitude any curve returns. It is the float64
// directly below 1.
const Ceiling = 1 - 0x1p-53

// DefaultSquareness is substituted for a NaN squareness.
const DefaultSquareness = 0.5

// Below this magnitude the power-form curves are linear to double precision.
// It also keeps |x|^p clear of underflow for the largest exponent.
const linearThreshold = 1e-20

// Curve selects a saturation shape.
type Curve int

const (
	CurveHyperbolic Curve = iota
	CurveMetalA
	CurveMetalB
	CurveMetalC
	CurveSoft
)

var curveNames = [...]string{
	CurveHyperbolic: "hyperbolic",
	CurveMetalA:     "metal-a",
	CurveMetalB:     "metal-b",
	CurveMetalC:     "metal-c",
	CurveSoft:       "soft",
}

// Knee exponent ranges of the power-form curves, soft end first.
var kneeRange = [...][2]float64{
	CurveHyperbolic: {1, 10},
	CurveMetalA:     {1, 12},
	CurveMetalB:     {1, 10},
	CurveMetalC:     {1, 14},
}

const (
	softKneeMin = 1.5
	softKneeMax = 40
)

// Curves returns every curve in declaration order.
func Curves() []Curve {
	return []Curve{CurveHyperbolic, CurveMetalA, CurveMetalB, CurveMetalC, CurveSoft}
}

// Valid reports whether c names a known curve.
func (c Curve) Valid() bool {
	return c >= CurveHyperbolic && c <= CurveSoft
}

func (c Curve) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Curve(%d)", int(c))
	}
	return curveNames[c]
}

// ParseCurve resolves a curve from its String form (case-insensitive).
func ParseCurve(name string) (Curve, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range curveNames {
		if n == name {
			return Curve(c), nil
		}
	}
	return 0, fmt.Errorf("saturation curve is unknown: %q", name)
}

// Evaluate maps x through curve c with the given squareness in [0, 1].
//
// NaN input yields 0, infinite input yields ±Ceiling. Squareness is clamped
// to [0, 1] and NaN squareness falls back to DefaultSquareness. Unknown
// curves evaluate as CurveHyperbolic.
func Evaluate(x, squareness float64, c Curve) float64 {
	if x != x {
		return 0
	}

	s := core.ClampOr(squareness, 0, 1, DefaultSquareness)
	ax := math.Abs(x)

	var y float64
	if c == CurveSoft {
		y = softClip(ax, softKnee(s))
	} else {
		if !c.Valid() {
			c = CurveHyperbolic
		}
		y = powerKnee(ax, kneeExponent(c, s), c)
	}

	if y > Ceiling {
		y = Ceiling
	}

	return math.Copysign(y, x)
}

// EvaluateBlock writes Evaluate(src[i], squareness, c) into dst.
// Only the common length of dst and src is processed.
func EvaluateBlock(dst, src []float64, squareness float64, c Curve) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = Evaluate(src[i], squareness, c)
	}
}

// kneeExponent interpolates geometrically between the soft and hard exponent.
func kneeExponent(c Curve, s float64) float64 {
	r := kneeRange[c]
	return r[0] * math.Pow(r[1]/r[0], s)
}

func softKnee(s float64) float64 {
	return softKneeMin * math.Pow(softKneeMax/softKneeMin, s)
}

// powerKnee evaluates g(ax^p)^(1/p) for ax >= 0. The base g is increasing,
// bounded by 1 and has unit slope at 0, so the result tends to min(ax, 1)
// as p grows.
func powerKnee(ax, p float64, c Curve) float64 {
	if ax < linearThreshold {
		return ax
	}

	u := math.Pow(ax, p)

	var g float64
	switch c {
	case CurveMetalA:
		g = 1 / (1 + 1/u)
	case CurveMetalB:
		g = math.Erf(0.5 * math.SqrtPi * u)
	case CurveMetalC:
		g = 2 / math.Pi * math.Atan(0.5*math.Pi*u)
	default:
		g = math.Tanh(u)
	}

	if g >= 1 {
		return 1
	}

	return math.Pow(g, 1/p)
}

// softClip evaluates (sp(k(x+1)) - sp(k(x-1)))/k - 1 for x >= 0, with sp the
// softplus. The linear parts of both softplus terms are cancelled
// analytically so huge inputs do not lose the difference.
func softClip(ax, k float64) float64 {
	a := k * (ax + 1)
	b := k * (ax - 1)
	tail := (log1pExp(a) - log1pExp(b)) / k

	if ax >= 1 {
		return 1 + tail
	}

	return ax + tail
}

// log1pExp returns log(1 + exp(-|z|)).
func log1pExp(z float64) float64 {
	return math.Log1p(math.Exp(-math.Abs(z)))
}
