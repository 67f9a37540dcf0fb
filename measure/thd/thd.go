package thd

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-hysteresis/dsp/window"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
)

var errNoFundamental = errors.New("thd: fundamental frequency and sample rate must be > 0")

// Config holds THD calculation parameters. Zero fields take defaults; a nil
// WindowType selects Hann.
type Config struct {
	SampleRate      float64
	FFTSize         int
	FundamentalFreq float64
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	CaptureBins     int // bins summed on each side of a peak; 0 follows the window
	MaxHarmonics    int // overtones evaluated; 0 means all below RangeUpperFreq
	WindowType      *window.Type
}

// Window returns a WindowType value for Config.
func Window(t window.Type) *window.Type { return &t }

// Harmonic is the level of one overtone relative to the fundamental.
type Harmonic struct {
	Order int
	Ratio float64
}

// DB returns the harmonic level in dB relative to the fundamental.
func (h Harmonic) DB() float64 { return ratioToDB(h.Ratio) }

// Result holds THD measurement results.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THD_dB           float64
	THDN_dB          float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	SINAD            float64
	Harmonics        []Harmonic
}

// Level returns the ratio of the given harmonic order, or 0 if it was not
// measured.
func (r Result) Level(order int) float64 {
	for _, h := range r.Harmonics {
		if h.Order == order {
			return h.Ratio
		}
	}
	return 0
}

// Calculator performs THD analysis on frequency-domain data.
type Calculator struct {
	cfg Config
	win window.Type
}

// NewCalculator creates a new THD calculator.
func NewCalculator(cfg Config) *Calculator {
	cfg = normalizeConfig(cfg)

	win := window.TypeHann
	if cfg.WindowType != nil {
		win = *cfg.WindowType
	}

	return &Calculator{cfg: cfg, win: win}
}

// AnalyzeSignal performs one-shot THD analysis from a time-domain signal.
func AnalyzeSignal(signal []float64, cfg Config) Result {
	return NewCalculator(cfg).AnalyzeSignal(signal)
}

// AnalyzeSignal windows signal, transforms it and evaluates THD metrics.
func (c *Calculator) AnalyzeSignal(signal []float64) Result {
	if len(signal) == 0 {
		return Result{}
	}

	cfg := c.cfg
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = nextPowerOf2(len(signal))
	}
	if cfg.FFTSize <= 1 {
		return Result{}
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(cfg.FFTSize)
	}

	n := min(len(signal), cfg.FFTSize)
	coeffs := window.Generate(c.win, n, window.WithPeriodic())

	in := make([]complex128, cfg.FFTSize)
	for i := 0; i < n; i++ {
		in[i] = complex(signal[i]*coeffs[i], 0)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return Result{}
	}

	out := make([]complex128, cfg.FFTSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}
	}

	magSquared := make([]float64, cfg.FFTSize/2+1)
	for i := range magSquared {
		x := out[i]
		magSquared[i] = real(x)*real(x) + imag(x)*imag(x)
	}

	return (&Calculator{cfg: cfg, win: c.win}).CalculateFromMagnitude(magSquared)
}

// CalculateFromMagnitude computes THD metrics from a squared-magnitude
// spectrum holding the non-negative-frequency bins [0..Nyquist].
//
//nolint:cyclop,funlen
func (c *Calculator) CalculateFromMagnitude(magSquared []float64) Result {
	if len(magSquared) <= 1 {
		return Result{}
	}

	cfg := c.cfg
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2 * (len(magSquared) - 1)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(cfg.FFTSize)
	}

	maxBin := len(magSquared) - 1
	binHz := cfg.SampleRate / float64(cfg.FFTSize)

	lowerBin := clampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, maxBin)
	upperBin := clampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lowerBin, maxBin)

	fundamentalBin := findFundamentalBin(magSquared, cfg.FundamentalFreq/binHz, lowerBin, upperBin)

	captureBins := cfg.CaptureBins
	if captureBins <= 0 {
		captureBins = window.Info(c.win).FirstMinimumBins
	}
	captureBins = min(captureBins, fundamentalBin/2)

	res := Result{FundamentalFreq: float64(fundamentalBin) * binHz}

	fundamental := binLevel(magSquared, fundamentalBin, captureBins)
	if fundamental <= 0 {
		return res
	}
	res.FundamentalLevel = fundamental

	var harmonicSum, oddSum, evenSum float64
	for k := 2; cfg.MaxHarmonics <= 0 || k <= cfg.MaxHarmonics+1; k++ {
		bin := k * fundamentalBin
		if bin > upperBin {
			break
		}

		level := binLevel(magSquared, bin, captureBins)
		harmonicSum += level
		if k%2 == 0 {
			evenSum += level
		} else {
			oddSum += level
		}

		if level > 0 {
			res.Harmonics = append(res.Harmonics, Harmonic{Order: k, Ratio: level / fundamental})
		}
	}

	total := 0.0
	for i := lowerBin; i <= upperBin; i++ {
		total += sqrtPositive(magSquared[i])
	}

	residual := math.Max(total-fundamental, 0)
	noise := math.Max(residual-harmonicSum, 0)

	res.THD = harmonicSum / fundamental
	res.THDN = residual / fundamental
	res.THD_dB = ratioToDB(res.THD)
	res.THDN_dB = ratioToDB(res.THDN)
	res.OddHD = oddSum / fundamental
	res.EvenHD = evenSum / fundamental
	res.Noise = noise / fundamental
	res.SINAD = -res.THDN_dB

	return res
}

// Processor transforms a mono block in place.
type Processor func(buf []float64)

// MeasureProcessor drives process with a sine of the given amplitude at the
// configured fundamental and analyzes its steady-state output. The first
// settle samples are discarded. The fundamental is moved to the nearest
// FFT bin so the analysis frame holds whole periods.
func MeasureProcessor(process Processor, cfg Config, amplitude float64, settle int) (Result, error) {
	if cfg.SampleRate <= 0 || cfg.FundamentalFreq <= 0 {
		return Result{}, errNoFundamental
	}
	if settle < 0 {
		return Result{}, fmt.Errorf("thd: settle must be >= 0: %d", settle)
	}
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 8192
	}

	bin := math.Max(1, math.Round(cfg.FundamentalFreq*float64(cfg.FFTSize)/cfg.SampleRate))
	cfg.FundamentalFreq = bin * cfg.SampleRate / float64(cfg.FFTSize)
	if cfg.FundamentalFreq >= cfg.SampleRate/2 {
		return Result{}, fmt.Errorf("thd: fundamental must be below Nyquist: %g Hz", cfg.FundamentalFreq)
	}

	buf := make([]float64, settle+cfg.FFTSize)
	w := 2 * math.Pi * cfg.FundamentalFreq / cfg.SampleRate
	for i := range buf {
		buf[i] = amplitude * math.Sin(w*float64(i))
	}

	process(buf)

	return AnalyzeSignal(buf[settle:], cfg), nil
}

func findFundamentalBin(magSquared []float64, expectedBin float64, lowerBin, upperBin int) int {
	if expectedBin > 0 {
		return clampInt(int(math.Round(expectedBin)), lowerBin, upperBin)
	}

	best := lowerBin
	for i := lowerBin + 1; i <= upperBin; i++ {
		if magSquared[i] > magSquared[best] {
			best = i
		}
	}

	return best
}

func normalizeConfig(cfg Config) Config {
	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}

	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = defaultRangeUpperHz
	}

	if cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		cfg.RangeUpperFreq = cfg.RangeLowerFreq
	}

	cfg.CaptureBins = max(cfg.CaptureBins, 0)
	cfg.MaxHarmonics = max(cfg.MaxHarmonics, 0)

	return cfg
}

// binLevel sums the amplitudes of bin and captureBins neighbours on each
// side.
func binLevel(magSquared []float64, bin, captureBins int) float64 {
	if bin < 0 || bin >= len(magSquared) {
		return 0
	}

	lo := max(bin-captureBins, 0)
	hi := min(bin+captureBins, len(magSquared)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += sqrtPositive(magSquared[i])
	}

	return sum
}

func sqrtPositive(v float64) float64 {
	if v <= 0 {
		return 0
	}

	return math.Sqrt(v)
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}

func clampInt(val, lo, hi int) int {
	return max(lo, min(val, hi))
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
