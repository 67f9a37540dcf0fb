package magnetic

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-hysteresis/dsp/hysteresis"
	"github.com/cwbudde/algo-hysteresis/dsp/saturation"
)

const (
	defaultSmoothingMs = 20.0
	defaultBlockSize   = 512

	maxSmoothingMs = 1000.0
	maxBlockSize   = 1 << 14

	// MaxDCBlockHz is the highest accepted corner of the wet-path DC block.
	MaxDCBlockHz = 200.0
)

// Option mutates construction-time settings.
type Option func(*config) error

type config struct {
	curve       saturation.Curve
	params      Parameters
	smoothingMs float64
	leakHz      float64
	dcBlockHz   float64
	blockSize   int
	gainLink    GainLink
}

func defaultConfig() config {
	return config{
		curve:       saturation.CurveHyperbolic,
		params:      DefaultParameters(),
		smoothingMs: defaultSmoothingMs,
		leakHz:      hysteresis.DefaultLeakHz,
		blockSize:   defaultBlockSize,
		gainLink:    GainLinkCoupled,
	}
}

// WithCurve selects the saturation curve.
func WithCurve(curve saturation.Curve) Option {
	return func(cfg *config) error {
		if !curve.Valid() {
			return fmt.Errorf("magnetic curve is invalid: %d", curve)
		}
		cfg.curve = curve
		return nil
	}
}

// WithParameters sets the initial parameters. They take effect immediately,
// without a ramp from the defaults.
func WithParameters(p Parameters) Option {
	return func(cfg *config) error {
		cfg.params = p.Clamp()
		return nil
	}
}

// WithSmoothingTime sets the parameter ramp time in [0, 1000] ms.
func WithSmoothingTime(ms float64) Option {
	return func(cfg *config) error {
		if ms < 0 || ms > maxSmoothingMs || math.IsNaN(ms) {
			return fmt.Errorf("magnetic smoothing time must be in [0, %g] ms: %f", maxSmoothingMs, ms)
		}
		cfg.smoothingMs = ms
		return nil
	}
}

// WithLeakHz sets the corner of the integrator leak in [0.5, 200] Hz.
func WithLeakHz(hz float64) Option {
	return func(cfg *config) error {
		if !(hz >= hysteresis.MinLeakHz && hz <= hysteresis.MaxLeakHz) {
			return fmt.Errorf("magnetic leak must be in [%g, %g] Hz: %f", hysteresis.MinLeakHz, hysteresis.MaxLeakHz, hz)
		}
		cfg.leakHz = hz
		return nil
	}
}

// WithBlockSize sets the length of the internal ramp buffers. Longer host
// blocks are processed in chunks of this size.
func WithBlockSize(n int) Option {
	return func(cfg *config) error {
		if n < 1 || n > maxBlockSize {
			return fmt.Errorf("magnetic block size must be in [1, %d]: %d", maxBlockSize, n)
		}
		cfg.blockSize = n
		return nil
	}
}

// WithGainLink selects how the post-gain follows the pre-gain.
func WithGainLink(link GainLink) Option {
	return func(cfg *config) error {
		if !link.valid() {
			return fmt.Errorf("magnetic gain link is invalid: %d", link)
		}
		cfg.gainLink = link
		return nil
	}
}

// WithDCBlockHz enables a second-order highpass at hz on the wet path,
// which removes the offset a nonzero Bias leaves behind. 0 disables it.
func WithDCBlockHz(hz float64) Option {
	return func(cfg *config) error {
		if !(hz >= 0 && hz <= MaxDCBlockHz) {
			return fmt.Errorf("magnetic DC block must be in [0, %g] Hz: %f", MaxDCBlockHz, hz)
		}
		cfg.dcBlockHz = hz
		return nil
	}
}
