package magnetic

import (
	"fmt"

	"github.com/cwbudde/algo-hysteresis/dsp/core"
	"github.com/cwbudde/algo-hysteresis/dsp/drive"
	"github.com/cwbudde/algo-hysteresis/dsp/filter/biquad"
	"github.com/cwbudde/algo-hysteresis/dsp/filter/design"
	"github.com/cwbudde/algo-hysteresis/dsp/hysteresis"
	"github.com/cwbudde/algo-hysteresis/dsp/saturation"
	"github.com/cwbudde/algo-hysteresis/dsp/smooth"
	"github.com/cwbudde/algo-vecmath"
)

// Engine is a multichannel magnetic hysteresis and saturation processor.
//
// An Engine is not safe for concurrent use, with one exception: after
// PrepareBlock, ProcessChannel may run concurrently for distinct channels.
type Engine struct {
	sampleRate float64
	channels   int
	blockSize  int
	gainLink   GainLink
	dcBlockHz  float64

	curve        saturation.Curve
	pendingCurve saturation.Curve
	params       Parameters

	integrator *hysteresis.Integrator
	states     []hysteresis.State
	stages     []stages
	sanitized  []int

	pre          *smooth.Linear
	post         *smooth.Linear
	squareness   *smooth.Linear
	coercitivity *smooth.Linear
	mix          *smooth.Linear
	bias         *smooth.Linear
	crossover    *smooth.Linear
	erase        *smooth.Linear
	cut          *smooth.Linear

	// Per-chunk ramps shared by all channels.
	preRamp   []float64
	postRamp  []float64
	sqRamp    []float64
	coerRamp  []float64
	mixRamp   []float64
	wetScale  []float64
	dryGain   []float64
	wetGain   []float64
	biasRamp  []float64 // offset added to the magnetization
	biasLevel []float64 // curve value at that offset
	widthRamp []float64
	slewRamp  []float64
	cutRamp   []float64
	cutCoeffs []biquad.Coefficients

	cutActive  bool
	cutRamping bool
	cutSettled biquad.Coefficients
	cutAmount  float64

	wet      [][]float64
	prepared int
	closed   bool
}

// New creates an engine for the given sample rate and channel count.
func New(sampleRate float64, channels int, opts ...Option) (*Engine, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, fmt.Errorf("magnetic engine: %w", err)
	}
	if err := core.ValidateChannels(channels); err != nil {
		return nil, fmt.Errorf("magnetic engine: %w", err)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	integrator, err := hysteresis.NewIntegrator(sampleRate, cfg.leakHz)
	if err != nil {
		return nil, err
	}

	n := cfg.blockSize
	e := &Engine{
		sampleRate:   sampleRate,
		channels:     channels,
		blockSize:    n,
		gainLink:     cfg.gainLink,
		dcBlockHz:    cfg.dcBlockHz,
		curve:        cfg.curve,
		pendingCurve: cfg.curve,
		params:       cfg.params,
		integrator:   integrator,
		states:       make([]hysteresis.State, channels),
		stages:       make([]stages, channels),
		sanitized:    make([]int, channels),
		preRamp:      make([]float64, n),
		postRamp:     make([]float64, n),
		sqRamp:       make([]float64, n),
		coerRamp:     make([]float64, n),
		mixRamp:      make([]float64, n),
		wetScale:     make([]float64, n),
		dryGain:      make([]float64, n),
		wetGain:      make([]float64, n),
		biasRamp:     make([]float64, n),
		biasLevel:    make([]float64, n),
		widthRamp:    make([]float64, n),
		slewRamp:     make([]float64, n),
		cutRamp:      make([]float64, n),
		cutCoeffs:    make([]biquad.Coefficients, n),
		cutAmount:    -1,
		wet:          make([][]float64, channels),
	}
	for ch := range e.wet {
		e.wet[ch] = make([]float64, n)
	}
	if e.dcBlockHz > 0 {
		hp := design.Highpass(e.dcBlockHz, design.ButterworthQ, sampleRate)
		for ch := range e.stages {
			e.stages[ch].dcBlock.Coefficients = hp
		}
	}

	smoothers := []**smooth.Linear{
		&e.pre, &e.post, &e.squareness, &e.coercitivity, &e.mix,
		&e.bias, &e.crossover, &e.erase, &e.cut,
	}
	for _, s := range smoothers {
		l, err := smooth.NewLinear(sampleRate, cfg.smoothingMs, 0)
		if err != nil {
			return nil, fmt.Errorf("magnetic engine: %w", err)
		}
		*s = l
	}
	e.settle()

	return e, nil
}

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Channels returns the channel count.
func (e *Engine) Channels() int { return e.channels }

// BlockSize returns the internal chunk length.
func (e *Engine) BlockSize() int { return e.blockSize }

// Curve returns the curve selected for the next block.
func (e *Engine) Curve() saturation.Curve { return e.pendingCurve }

// GainLink returns the gain coupling mode.
func (e *Engine) GainLink() GainLink { return e.gainLink }

// DCBlockHz returns the wet-path DC block corner, 0 when disabled.
func (e *Engine) DCBlockHz() float64 { return e.dcBlockHz }

// Parameters returns the current clamped parameter target.
func (e *Engine) Parameters() Parameters { return e.params }

// States exposes the per-channel integrator states.
func (e *Engine) States() []hysteresis.State { return e.states }

// SanitizedSamples returns how many non-finite input samples were replaced
// by zero since creation or the last Reset.
func (e *Engine) SanitizedSamples() int {
	total := 0
	for _, n := range e.sanitized {
		total += n
	}
	return total
}

// SetParameters clamps p and makes it the new smoothing target.
func (e *Engine) SetParameters(p Parameters) {
	e.params = p.Clamp()
	e.pre.SetTarget(core.DBToLinear(e.params.PreGainDB))
	e.post.SetTarget(core.DBToLinear(e.params.PostGainDB))
	e.squareness.SetTarget(e.params.Squareness)
	e.coercitivity.SetTarget(e.params.Coercitivity)
	e.mix.SetTarget(e.params.Mix)
	e.bias.SetTarget(e.params.Bias)
	e.crossover.SetTarget(e.params.Crossover)
	e.erase.SetTarget(e.params.Erase)
	e.cut.SetTarget(e.params.Cut)
}

// SetCurve switches the saturation curve from the next block on.
func (e *Engine) SetCurve(curve saturation.Curve) error {
	if !curve.Valid() {
		return fmt.Errorf("magnetic curve is invalid: %d", curve)
	}
	e.pendingCurve = curve
	return nil
}

// Reset zeroes every channel state and settles the smoothers on the current
// parameter target.
func (e *Engine) Reset() {
	for ch := range e.states {
		e.states[ch].Reset()
		e.stages[ch].reset()
		e.sanitized[ch] = 0
	}
	e.prepared = 0
	e.settle()
}

// Close releases the scratch buffers. Process and ProcessChannel become
// no-ops.
func (e *Engine) Close() {
	e.closed = true
	e.prepared = 0
	e.wet = nil
	e.preRamp, e.postRamp, e.sqRamp, e.coerRamp = nil, nil, nil, nil
	e.mixRamp, e.wetScale, e.dryGain, e.wetGain = nil, nil, nil, nil
	e.biasRamp, e.biasLevel, e.widthRamp, e.slewRamp = nil, nil, nil, nil
	e.cutRamp, e.cutCoeffs = nil, nil
}

// Process runs frames samples of every channel in place. buffers holds one
// slice per channel; extra slices are ignored and slices shorter than
// frames are processed up to their length.
func (e *Engine) Process(buffers [][]float64, frames int) {
	if e.closed {
		return
	}

	channels := min(len(buffers), e.channels)
	for off := 0; off < frames; {
		n := e.PrepareBlock(frames - off)

		for ch := 0; ch < channels; ch++ {
			buf := buffers[ch]
			if off >= len(buf) {
				continue
			}
			e.ProcessChannel(ch, buf[off:min(off+n, len(buf))])
		}

		off += n
	}
}

// PrepareBlock renders the parameter ramps for the next chunk and returns
// its length, at most BlockSize. Every channel must then be passed to
// ProcessChannel with at most that many samples.
func (e *Engine) PrepareBlock(frames int) int {
	if e.closed || frames <= 0 {
		e.prepared = 0
		return 0
	}

	e.curve = e.pendingCurve

	n := min(frames, e.blockSize)
	pre := e.preRamp[:n]
	post := e.postRamp[:n]
	sq := e.sqRamp[:n]
	mix := e.mixRamp[:n]

	controlSettled := !e.pre.IsSmoothing() && !e.squareness.IsSmoothing()
	biasSettled := controlSettled && !e.bias.IsSmoothing()

	e.pre.Fill(pre)
	e.post.Fill(post)
	e.squareness.Fill(sq)
	e.coercitivity.Fill(e.coerRamp[:n])
	e.mix.Fill(mix)

	scale := e.wetScale[:n]
	if controlSettled {
		core.Fill(scale, e.scale(pre[0], sq[0]))
	} else {
		for i := range scale {
			scale[i] = e.scale(pre[i], sq[i])
		}
	}

	e.prepareBias(n, biasSettled)
	e.prepareShape(n)
	e.prepareCut(n)

	dry := e.dryGain[:n]
	for i := range dry {
		dry[i] = 1 - mix[i]
	}
	vecmath.MulBlock(e.wetGain[:n], mix, post)

	e.prepared = n

	return n
}

// scale is the gain between the curve output and the post-gain: the
// normalizer's 1/Control, times Control/pre when the link is coupled.
func (e *Engine) scale(pre, sq float64) float64 {
	c := drive.Control(pre, sq, e.curve)
	g := 1 / c
	if e.gainLink == GainLinkCoupled {
		g *= c / pre
	}
	return g
}

func (e *Engine) prepareBias(n int, settled bool) {
	offset := e.biasRamp[:n]
	level := e.biasLevel[:n]
	pre := e.preRamp[:n]
	sq := e.sqRamp[:n]

	e.bias.Fill(offset)
	if settled {
		b := offset[0] * pre[0]
		core.Fill(offset, b)
		core.Fill(level, saturation.Evaluate(b, sq[0], e.curve))
		return
	}
	for i := range offset {
		offset[i] *= pre[i]
		level[i] = saturation.Evaluate(offset[i], sq[i], e.curve)
	}
}

func (e *Engine) prepareShape(n int) {
	width := e.widthRamp[:n]
	slew := e.slewRamp[:n]

	e.crossover.Fill(width)
	e.erase.Fill(slew)
	for i := range width {
		width[i] = crossoverWidth(width[i])
		slew[i] = slewLimit(slew[i])
	}
}

// prepareCut decides whether the post-EQ runs for this chunk. While Cut
// ramps the coefficients follow it per sample; once settled one set is
// reused until the target changes.
func (e *Engine) prepareCut(n int) {
	amount := e.cutRamp[:n]
	e.cutRamping = e.cut.IsSmoothing()
	e.cut.Fill(amount)
	e.cutActive = e.cutRamping || e.cut.Target() > 0

	switch {
	case !e.cutActive:
	case e.cutRamping:
		for i, a := range amount {
			e.cutCoeffs[i] = cutCoefficients(a, e.sampleRate)
		}
	case amount[n-1] != e.cutAmount:
		e.cutAmount = amount[n-1]
		e.cutSettled = cutCoefficients(e.cutAmount, e.sampleRate)
	}
}

// ProcessChannel runs one channel of the prepared chunk in place. Samples
// beyond the prepared length are left untouched.
func (e *Engine) ProcessChannel(ch int, buf []float64) {
	if e.closed || ch < 0 || ch >= e.channels {
		return
	}

	n := min(len(buf), e.prepared)
	buf = buf[:n]
	e.sanitized[ch] += core.SanitizeInPlace(buf)

	pre := e.preRamp[:n]
	sq := e.sqRamp[:n]
	coer := e.coerRamp[:n]
	scale := e.wetScale[:n]
	offset := e.biasRamp[:n]
	level := e.biasLevel[:n]
	width := e.widthRamp[:n]
	slew := e.slewRamp[:n]
	wet := e.wet[ch][:n]
	state := &e.states[ch]
	st := &e.stages[ch]
	curve := e.curve

	for i, x := range buf {
		x = st.crossover(x, width[i])
		h := e.integrator.Step(state, x*pre[i], coer[i])
		y := (saturation.Evaluate(h+offset[i], sq[i], curve) - level[i]) * scale[i]
		wet[i] = core.Sanitize(st.erase(y, slew[i]))
	}

	if e.dcBlockHz > 0 {
		st.dcBlock.ProcessBlock(wet)
	}
	e.applyCut(st, wet)

	vecmath.MulBlockInPlace(buf, e.dryGain[:n])
	vecmath.MulBlockInPlace(wet, e.wetGain[:n])
	vecmath.AddBlockInPlace(buf, wet)
}

func (e *Engine) applyCut(st *stages, wet []float64) {
	if !e.cutActive {
		st.cutLive = false
		return
	}
	if !st.cutLive {
		st.cut.Reset()
		st.cutLive = true
	}

	if !e.cutRamping {
		st.cut.Coefficients = e.cutSettled
		st.cut.ProcessBlock(wet)
		return
	}
	for i, x := range wet {
		st.cut.Coefficients = e.cutCoeffs[i]
		wet[i] = st.cut.ProcessSample(x)
	}
}

func (e *Engine) settle() {
	e.pre.Reset(core.DBToLinear(e.params.PreGainDB))
	e.post.Reset(core.DBToLinear(e.params.PostGainDB))
	e.squareness.Reset(e.params.Squareness)
	e.coercitivity.Reset(e.params.Coercitivity)
	e.mix.Reset(e.params.Mix)
	e.bias.Reset(e.params.Bias)
	e.crossover.Reset(e.params.Crossover)
	e.erase.Reset(e.params.Erase)
	e.cut.Reset(e.params.Cut)
}
