package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-hysteresis/dsp/core"
)

const maxRampMs = 10000.0

// Linear ramps linearly from its current value to a target over a fixed
// number of samples. A new target restarts the ramp from wherever the
// previous one was.
type Linear struct {
	current float64
	target  float64
	step    float64

	remaining   int
	rampSamples int
}

// NewLinear creates a smoother settled at initial whose ramps last rampMs
// milliseconds at sampleRate. A ramp time of 0 applies targets immediately.
func NewLinear(sampleRate, rampMs, initial float64) (*Linear, error) {
	l := &Linear{}
	if err := l.SetRampTime(sampleRate, rampMs); err != nil {
		return nil, err
	}
	l.Reset(initial)
	return l, nil
}

// RampSamples converts a ramp time to a whole number of samples.
func RampSamples(sampleRate, rampMs float64) (int, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return 0, fmt.Errorf("smoother: %w", err)
	}
	if rampMs < 0 || rampMs > maxRampMs || math.IsNaN(rampMs) {
		return 0, fmt.Errorf("smoother ramp time must be in [0, %g] ms: %f", maxRampMs, rampMs)
	}
	return int(math.Round(sampleRate * rampMs / 1000)), nil
}

// SetRampTime changes the ramp length used by subsequent SetTarget calls.
func (l *Linear) SetRampTime(sampleRate, rampMs float64) error {
	n, err := RampSamples(sampleRate, rampMs)
	if err != nil {
		return err
	}
	l.rampSamples = n
	return nil
}

// SetTarget starts a ramp toward target. Setting the current target again
// is a no-op.
func (l *Linear) SetTarget(target float64) {
	if target == l.target {
		return
	}

	l.target = target
	if l.rampSamples == 0 || target == l.current {
		l.current = target
		l.step = 0
		l.remaining = 0
		return
	}

	l.step = (target - l.current) / float64(l.rampSamples)
	l.remaining = l.rampSamples
}

// Next advances one sample and returns the smoothed value. The final step
// of a ramp lands exactly on the target.
func (l *Linear) Next() float64 {
	if l.remaining == 0 {
		return l.current
	}

	l.remaining--
	if l.remaining == 0 {
		l.current = l.target
	} else {
		l.current += l.step
	}

	return l.current
}

// Fill writes the next len(dst) smoothed values into dst.
func (l *Linear) Fill(dst []float64) {
	i := 0
	for ; i < len(dst) && l.remaining > 0; i++ {
		dst[i] = l.Next()
	}
	if i < len(dst) {
		core.Fill(dst[i:], l.current)
	}
}

// Reset settles the smoother at value without ramping.
func (l *Linear) Reset(value float64) {
	l.current = value
	l.target = value
	l.step = 0
	l.remaining = 0
}

// Current returns the most recent smoothed value.
func (l *Linear) Current() float64 { return l.current }

// Target returns the value being ramped toward.
func (l *Linear) Target() float64 { return l.target }

// IsSmoothing reports whether a ramp is in progress.
func (l *Linear) IsSmoothing() bool { return l.remaining > 0 }

// RampLength returns the ramp length in samples.
func (l *Linear) RampLength() int { return l.rampSamples }
