package drive

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-hysteresis/dsp/core"
	"github.com/cwbudde/algo-hysteresis/dsp/saturation"
)

// Epsilon is the floor of the control signal (-60 dB). It caps the
// normalization gain at 60 dB, the same range the lowest pre-gain removes.
const Epsilon = 1e-3

// Normalizer divides by the drive gain mapped through a reference curve.
type Normalizer struct {
	curve saturation.Curve
}

// NewNormalizer creates a normalizer using curve as the reference shape.
func NewNormalizer(curve saturation.Curve) (*Normalizer, error) {
	if !curve.Valid() {
		return nil, fmt.Errorf("drive normalizer curve is invalid: %d", curve)
	}
	return &Normalizer{curve: curve}, nil
}

// SetCurve changes the reference curve.
func (n *Normalizer) SetCurve(curve saturation.Curve) error {
	if !curve.Valid() {
		return fmt.Errorf("drive normalizer curve is invalid: %d", curve)
	}
	n.curve = curve
	return nil
}

// Curve returns the reference curve.
func (n *Normalizer) Curve() saturation.Curve { return n.curve }

// Control returns the floored control signal max(curve(|drive|), Epsilon).
// Non-finite drive counts as silence and yields Epsilon.
func (n *Normalizer) Control(drive, squareness float64) float64 {
	return Control(drive, squareness, n.curve)
}

// Gain returns 1/Control, the factor applied by Normalize.
func (n *Normalizer) Gain(drive, squareness float64) float64 {
	return 1 / Control(drive, squareness, n.curve)
}

// Normalize returns h / Control(drive, squareness).
func (n *Normalizer) Normalize(h, drive, squareness float64) float64 {
	return h / Control(drive, squareness, n.curve)
}

// Control is the stateless form of Normalizer.Control.
func Control(drive, squareness float64, curve saturation.Curve) float64 {
	g := math.Abs(core.Sanitize(drive))
	return math.Max(saturation.Evaluate(g, squareness, curve), Epsilon)
}
