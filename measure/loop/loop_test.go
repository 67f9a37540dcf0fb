package loop

import (
	"math"
	"testing"
)

func delay(buf []float64) {
	for i := len(buf) - 1; i > 0; i-- {
		buf[i] = buf[i-1]
	}
	buf[0] = 0
}

func TestCaptureValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "zero sample rate", cfg: Config{}},
		{name: "nan sample rate", cfg: Config{SampleRate: math.NaN()}},
		{name: "negative frequency", cfg: Config{SampleRate: 48000, Frequency: -1}},
		{name: "nan amplitude", cfg: Config{SampleRate: 48000, Amplitude: math.NaN()}},
		{name: "too few samples per period", cfg: Config{SampleRate: 48000, Frequency: 20000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Capture(func([]float64) {}, tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMemorylessProcessorHasNoLoop(t *testing.T) {
	l, err := Capture(func(buf []float64) {
		for i, v := range buf {
			buf[i] = math.Tanh(2 * v)
		}
	}, Config{SampleRate: 48000})
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	if len(l.Input) != 240 || l.Frequency != 200 {
		t.Fatalf("period=%d frequency=%g, want 240 samples at 200 Hz", len(l.Input), l.Frequency)
	}
	if math.Abs(l.Area) > 1e-9 || math.Abs(l.Remanence) > 1e-9 || math.Abs(l.Width) > 1e-9 {
		t.Fatalf("memoryless loop: area=%g remanence=%g width=%g", l.Area, l.Remanence, l.Width)
	}
	if math.Abs(l.PeakOutput-math.Tanh(2)) > 1e-12 {
		t.Fatalf("PeakOutput = %g", l.PeakOutput)
	}
}

func TestDelayOpensEllipse(t *testing.T) {
	const period = 240
	l, err := Capture(delay, Config{SampleRate: 48000, Frequency: 200})
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	phi := 2 * math.Pi / period
	wantArea := period / 2.0 * math.Sin(2*math.Pi/period) * math.Sin(phi)
	if math.Abs(l.Area-wantArea) > 1e-9 {
		t.Fatalf("Area = %.12f, want %.12f", l.Area, wantArea)
	}
	if math.Abs(l.Remanence-math.Sin(phi)) > 1e-3 {
		t.Fatalf("Remanence = %g, want %g", l.Remanence, math.Sin(phi))
	}
	if math.Abs(l.Width-2*math.Sin(phi)) > 1e-3 {
		t.Fatalf("Width = %g, want %g", l.Width, 2*math.Sin(phi))
	}
}

func TestBranches(t *testing.T) {
	l, err := Capture(func([]float64) {}, Config{SampleRate: 1000, Frequency: 100, Amplitude: 0.5})
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}

	rin, _ := l.Rising()
	fin, _ := l.Falling()
	if len(rin) != 6 || len(fin) != 5 {
		t.Fatalf("branch lengths %d/%d, want 6/5", len(rin), len(fin))
	}
	for i := 1; i < len(rin); i++ {
		if rin[i] <= rin[i-1] {
			t.Fatalf("rising branch not increasing at %d: %v", i, rin)
		}
	}
	for i := 1; i < len(fin); i++ {
		if fin[i] >= fin[i-1] {
			t.Fatalf("falling branch not decreasing at %d: %v", i, fin)
		}
	}
	if rin[0] != -0.5 || math.Abs(fin[0]-0.5) > 1e-12 {
		t.Fatalf("branches should span the peaks: %g .. %g", rin[0], fin[0])
	}
}

func TestArea(t *testing.T) {
	square := []float64{0, 1, 1, 0}
	up := []float64{0, 0, 1, 1}
	if got := Area(square, up); got != 1 {
		t.Fatalf("counter-clockwise unit square area = %g, want 1", got)
	}
	if got := Area(up, square); got != -1 {
		t.Fatalf("clockwise unit square area = %g, want -1", got)
	}
	if got := Area([]float64{1, 2}, []float64{3, 4}); got != 0 {
		t.Fatalf("degenerate polygon area = %g", got)
	}
}

func TestNormalize(t *testing.T) {
	out := []float64{0.25, -0.5, 0.1}
	Normalize(out)
	if out[0] != 0.5 || out[1] != -1 || math.Abs(out[2]-0.2) > 1e-15 {
		t.Fatalf("Normalize() = %v", out)
	}

	silent := []float64{0, 0}
	Normalize(silent)
	if silent[0] != 0 || silent[1] != 0 {
		t.Fatalf("silent output changed: %v", silent)
	}
}

func TestMeasureShortInput(t *testing.T) {
	l := Measure([]float64{1, 2}, []float64{1}, 100)
	if l.Area != 0 || len(l.Input) != 1 {
		t.Fatalf("short input measured as %+v", l)
	}
}
