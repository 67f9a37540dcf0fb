package loop

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultFrequency  = 200.0
	defaultAmplitude  = 1.0
	defaultSettleTime = 0.25
	minPeriodSamples  = 8
)

// Processor transforms a mono block in place.
type Processor func(buf []float64)

// Config controls the drive signal. Zero fields take defaults.
type Config struct {
	SampleRate float64
	Frequency  float64 // drive frequency in Hz, rounded to a whole number of samples per period
	Amplitude  float64 // drive peak
	SettleTime float64 // seconds of drive discarded before the captured period
}

// Loop is one captured period. Input starts at the negative peak, so the
// first half of the samples form the rising branch.
type Loop struct {
	Input  []float64
	Output []float64

	Frequency float64
	// Area is the signed area enclosed by the loop. It is positive when the
	// falling branch lies above the rising one.
	Area float64
	// Remanence is half the gap between the falling and the rising branch
	// at zero input.
	Remanence float64
	// Width is the input distance between the rising and the falling branch
	// at zero output.
	Width float64
	// PeakOutput is the largest output magnitude in the period.
	PeakOutput float64
}

// Rising returns the rising branch.
func (l Loop) Rising() (in, out []float64) {
	h := len(l.Input)/2 + 1
	return l.Input[:h], l.Output[:h]
}

// Falling returns the falling branch.
func (l Loop) Falling() (in, out []float64) {
	h := len(l.Input) / 2
	return l.Input[h:], l.Output[h:]
}

// Capture drives process with a sine and measures the last period.
func Capture(process Processor, cfg Config) (Loop, error) {
	cfg, period, err := normalize(cfg)
	if err != nil {
		return Loop{}, err
	}

	settle := int(math.Ceil(cfg.SettleTime*cfg.Frequency)) * period
	buf := make([]float64, settle+period)
	for i := range buf {
		buf[i] = drive(i, period, cfg.Amplitude)
	}

	process(buf)

	in := make([]float64, period)
	for i := range in {
		in[i] = drive(i, period, cfg.Amplitude)
	}
	out := append([]float64(nil), buf[settle:]...)

	return Measure(in, out, cfg.Frequency), nil
}

// Measure computes the loop geometry of one period of (in, out) pairs whose
// first half is the rising branch.
func Measure(in, out []float64, frequency float64) Loop {
	n := min(len(in), len(out))
	l := Loop{Input: in[:n], Output: out[:n], Frequency: frequency}
	if n < 3 {
		return l
	}

	l.Area = Area(l.Input, l.Output)
	for _, v := range l.Output {
		l.PeakOutput = math.Max(l.PeakOutput, math.Abs(v))
	}

	rin, rout := l.Rising()
	fin, fout := l.Falling()

	yr, okRise := crossing(rin, rout)
	yf, okFall := crossing(fin, fout)
	if okRise && okFall {
		l.Remanence = 0.5 * (yf - yr)
	}

	xr, okRise := crossing(rout, rin)
	xf, okFall := crossing(fout, fin)
	if okRise && okFall {
		l.Width = xr - xf
	}

	return l
}

// Area returns the signed shoelace area of the closed polygon (x[i], y[i]).
// Counter-clockwise traversal is positive.
func Area(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n < 3 {
		return 0
	}

	fwd := make([]float64, n-1)
	bwd := make([]float64, n-1)
	vecmath.MulBlock(fwd, x[:n-1], y[1:n])
	vecmath.MulBlock(bwd, x[1:n], y[:n-1])

	sum := x[n-1]*y[0] - x[0]*y[n-1]
	for i := range fwd {
		sum += fwd[i] - bwd[i]
	}

	return 0.5 * sum
}

// Normalize scales out so its peak magnitude is one. Silent output is left
// unchanged.
func Normalize(out []float64) {
	peak := 0.0
	for _, v := range out {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return
	}
	vecmath.ScaleBlock(out, out, 1/peak)
}

// crossing returns b interpolated where a first changes sign along the
// branch.
func crossing(a, b []float64) (float64, bool) {
	for i := 0; i+1 < len(a); i++ {
		a0, a1 := a[i], a[i+1]
		if a0 == 0 {
			return b[i], true
		}
		if (a0 < 0) != (a1 < 0) {
			t := a0 / (a0 - a1)
			return b[i] + t*(b[i+1]-b[i]), true
		}
	}
	return 0, false
}

func drive(i, period int, amplitude float64) float64 {
	return -amplitude * math.Cos(2*math.Pi*float64(i%period)/float64(period))
}

func normalize(cfg Config) (Config, int, error) {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return cfg, 0, fmt.Errorf("loop: sample rate must be > 0 and finite: %f", cfg.SampleRate)
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = defaultFrequency
	}
	if cfg.Amplitude == 0 {
		cfg.Amplitude = defaultAmplitude
	}
	if cfg.SettleTime == 0 {
		cfg.SettleTime = defaultSettleTime
	}
	if !(cfg.Frequency > 0) || !(cfg.Amplitude > 0) || !(cfg.SettleTime > 0) {
		return cfg, 0, fmt.Errorf("loop: frequency, amplitude and settle time must be > 0: %g, %g, %g",
			cfg.Frequency, cfg.Amplitude, cfg.SettleTime)
	}

	period := int(math.Round(cfg.SampleRate / cfg.Frequency))
	if period < minPeriodSamples {
		return cfg, 0, fmt.Errorf("loop: drive frequency leaves fewer than %d samples per period: %g Hz",
			minPeriodSamples, cfg.Frequency)
	}
	cfg.Frequency = cfg.SampleRate / float64(period)

	return cfg, period, nil
}
