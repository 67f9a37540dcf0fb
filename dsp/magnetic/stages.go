package magnetic

import (
	"math"

	"github.com/cwbudde/algo-hysteresis/dsp/filter/biquad"
	"github.com/cwbudde/algo-hysteresis/dsp/filter/design"
)

const (
	// maxCrossoverWidth is the dead band at Crossover 1, in input units.
	maxCrossoverWidth = 0.25

	// The Cut lowpass sweeps exponentially from maxCutHz at 0 down to
	// minCutHz at 1, and never above cutNyquistRatio of the sample rate.
	maxCutHz        = 20000.0
	minCutHz        = 200.0
	cutNyquistRatio = 0.45
)

// stages is the per-channel memory of the optional wet-path stages.
type stages struct {
	play    float64 // crossover output
	erased  float64 // previous self-erasure output
	dcBlock biquad.Section
	cut     biquad.Section
	cutLive bool
}

func (s *stages) reset() {
	s.play = 0
	s.erased = 0
	s.dcBlock.Reset()
	s.cut.Reset()
	s.cutLive = false
}

// crossover is a play operator: the output follows x only once x has moved
// more than w away from it, so every reversal of the input crosses a dead
// band of width 2w. With w = 0 it returns x.
func (s *stages) crossover(x, w float64) float64 {
	if d := x - s.play; d > w {
		s.play = x - w
	} else if d < -w {
		s.play = x + w
	}
	return s.play
}

// erase limits how far the wet signal may move per sample. Fast, large
// swings are softened like partially erased high-frequency content. A
// limit of 0 passes x through.
func (s *stages) erase(x, limit float64) float64 {
	if limit > 0 {
		x = s.erased + math.Tanh((x-s.erased)/limit)*limit
	}
	s.erased = x
	return x
}

func crossoverWidth(amount float64) float64 {
	return amount * amount * amount * maxCrossoverWidth
}

// slewLimit maps Erase in [0, 1] to the per-sample limit of erase. 0 maps
// to 0, which disables the stage, and the limit shrinks to 1e-6 at 1.
func slewLimit(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	r := 1 - 0.999*amount
	return r * r / amount
}

func cutCorner(amount, sampleRate float64) float64 {
	top := math.Min(maxCutHz, cutNyquistRatio*sampleRate)
	if top <= minCutHz {
		return top
	}
	return top * math.Pow(minCutHz/top, amount)
}

func cutCoefficients(amount, sampleRate float64) biquad.Coefficients {
	return design.Lowpass(cutCorner(amount, sampleRate), design.ButterworthQ, sampleRate)
}
