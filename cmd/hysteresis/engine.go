package main

import (
	"github.com/cwbudde/algo-hysteresis/dsp/magnetic"
	"github.com/cwbudde/algo-hysteresis/dsp/saturation"
)

// engineFlags are the engine controls shared by every processing command.
type engineFlags struct {
	Curve        string  `default:"hyperbolic" enum:"hyperbolic,metal-a,metal-b,metal-c,soft" help:"Saturation curve (hyperbolic, metal-a, metal-b, metal-c, soft)."`
	Pre          float64 `default:"0" help:"Pre-gain in dB [-60, 24]."`
	Post         float64 `default:"0" help:"Post-gain in dB [-60, 24]."`
	Squareness   float64 `default:"0.5" help:"Knee hardness [0, 1]."`
	Coercitivity float64 `default:"0" help:"Hysteresis loop width [0, 1]."`
	Mix          float64 `default:"1" help:"Dry/wet mix [0, 1]."`
	Bias         float64 `default:"0" help:"Static magnetization offset [-1, 1]."`
	Crossover    float64 `default:"0" help:"Dead band on input reversals [0, 1]."`
	Erase        float64 `default:"0" help:"Self-erasure slew limit [0, 1]."`
	Cut          float64 `default:"0" help:"Post-EQ treble loss [0, 1]."`
	Smoothing    float64 `default:"20" help:"Parameter ramp time in ms."`
	Leak         float64 `default:"5" help:"Integrator leak corner in Hz [0.5, 200]."`
	DCBlock      float64 `name:"dc-block" default:"0" help:"Wet-path DC block corner in Hz, 0 disables."`
	GainLink     string  `name:"gain-link" default:"coupled" enum:"coupled,normalized" help:"How the wet level follows the pre-gain (coupled, normalized)."`
}

func (f engineFlags) parameters() magnetic.Parameters {
	return magnetic.Parameters{
		PreGainDB:    f.Pre,
		PostGainDB:   f.Post,
		Squareness:   f.Squareness,
		Coercitivity: f.Coercitivity,
		Mix:          f.Mix,
		Bias:         f.Bias,
		Crossover:    f.Crossover,
		Erase:        f.Erase,
		Cut:          f.Cut,
	}
}

func (f engineFlags) curve() (saturation.Curve, error) {
	return saturation.ParseCurve(f.Curve)
}

// newEngine builds an engine that starts settled on the flag values.
func (f engineFlags) newEngine(sampleRate float64, channels int, extra ...magnetic.Option) (*magnetic.Engine, error) {
	curve, err := f.curve()
	if err != nil {
		return nil, err
	}

	link, err := magnetic.ParseGainLink(f.GainLink)
	if err != nil {
		return nil, err
	}

	opts := []magnetic.Option{
		magnetic.WithCurve(curve),
		magnetic.WithParameters(f.parameters()),
		magnetic.WithSmoothingTime(f.Smoothing),
		magnetic.WithLeakHz(f.Leak),
		magnetic.WithDCBlockHz(f.DCBlock),
		magnetic.WithGainLink(link),
	}

	return magnetic.New(sampleRate, channels, append(opts, extra...)...)
}

// monoProcessor adapts a single-channel engine to the measure packages.
func monoProcessor(e *magnetic.Engine) func(buf []float64) {
	buffers := make([][]float64, 1)
	return func(buf []float64) {
		buffers[0] = buf
		e.Process(buffers, len(buf))
	}
}
