package hysteresis

import (
	"fmt"

	"github.com/cwbudde/algo-hysteresis/dsp/core"
)

const (
	// DefaultLeakHz is the corner of the decay that pulls the integrator
	// back toward zero. It sits below the audio band.
	DefaultLeakHz = 5.0

	// StateLimit bounds the magnetization held in State.PrevOutput.
	StateLimit = 1e3

	// MinLeakHz is the lowest accepted leak corner. Without a leak a
	// one-sided input drifts the magnetization until StateLimit pins it.
	MinLeakHz = 0.5

	// MaxLeakHz is the highest accepted leak corner.
	MaxLeakHz = 200.0
)

// State is the per-channel memory of the integrator. The zero value is the
// state of a freshly created channel.
type State struct {
	PrevInput  float64
	PrevOutput float64
}

// Reset zeroes the state.
func (s *State) Reset() {
	*s = State{}
}

// Integrator accumulates windowed input differentials with a slow leak.
// It holds no per-channel memory and is safe to share between channels.
type Integrator struct {
	sampleRate float64
	leakHz     float64
	leak       float64
}

// NewIntegrator creates an integrator for the given sample rate. leakHz is
// the corner of the decay toward zero, in [MinLeakHz, MaxLeakHz].
func NewIntegrator(sampleRate, leakHz float64) (*Integrator, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("hysteresis integrator: %w", err)
	}
	if err := validateLeakHz(leakHz); err != nil {
		return nil, err
	}

	return &Integrator{
		sampleRate: sampleRate,
		leakHz:     leakHz,
		leak:       core.OnePoleCoefficient(sampleRate, leakHz),
	}, nil
}

// SetSampleRate updates the sample rate and recomputes the leak.
func (it *Integrator) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("hysteresis integrator: %w", err)
	}
	it.sampleRate = sampleRate
	it.leak = core.OnePoleCoefficient(sampleRate, it.leakHz)
	return nil
}

// SetLeakHz updates the leak corner in Hz.
func (it *Integrator) SetLeakHz(leakHz float64) error {
	if err := validateLeakHz(leakHz); err != nil {
		return err
	}
	it.leakHz = leakHz
	it.leak = core.OnePoleCoefficient(it.sampleRate, leakHz)
	return nil
}

// SampleRate returns the sample rate in Hz.
func (it *Integrator) SampleRate() float64 { return it.sampleRate }

// LeakHz returns the leak corner in Hz.
func (it *Integrator) LeakHz() float64 { return it.leakHz }

// Leak returns the per-sample decay factor applied to the previous output.
func (it *Integrator) Leak() float64 { return it.leak }

// Step advances s by one input sample and returns the new magnetization.
//
// Non-finite input is treated as 0 so a single bad sample cannot poison the
// running sum.
func (it *Integrator) Step(s *State, x, coercitivity float64) float64 {
	x = core.Sanitize(x)

	d := x - s.PrevInput
	y := it.leak*s.PrevOutput + Window(d, s.PrevInput, coercitivity, PolarityOf(d))

	if y > StateLimit {
		y = StateLimit
	} else if y < -StateLimit {
		y = -StateLimit
	}
	y = core.FlushDenormals(y)

	s.PrevInput = x
	s.PrevOutput = y

	return y
}

// ProcessInPlace runs Step over buf with a fixed coercitivity.
func (it *Integrator) ProcessInPlace(s *State, buf []float64, coercitivity float64) {
	for i := range buf {
		buf[i] = it.Step(s, buf[i], coercitivity)
	}
}

func validateLeakHz(leakHz float64) error {
	if !(leakHz >= MinLeakHz && leakHz <= MaxLeakHz) {
		return fmt.Errorf("hysteresis leak must be in [%g, %g] Hz: %f", MinLeakHz, MaxLeakHz, leakHz)
	}
	return nil
}
