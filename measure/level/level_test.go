package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-hysteresis/internal/testutil"
)

func TestMeasureEmpty(t *testing.T) {
	l := Measure(nil)
	if l.Frames != 0 || !math.IsInf(l.RMS_dB, -1) || !math.IsInf(l.Peak_dB, -1) {
		t.Fatalf("unexpected empty level: %+v", l)
	}
}

func TestMeasureSquare(t *testing.T) {
	l := Measure([]float64{0.5, -0.5, 0.5, -0.5})

	if l.Frames != 4 || l.DC != 0 {
		t.Fatalf("frames/dc = %d/%g", l.Frames, l.DC)
	}
	if math.Abs(l.RMS-0.5) > 1e-15 || l.Peak != 0.5 || l.PeakPos != 0 {
		t.Fatalf("rms/peak = %g/%g@%d", l.RMS, l.Peak, l.PeakPos)
	}
	if math.Abs(l.CrestFactor-1) > 1e-15 || math.Abs(l.CrestFactor_dB) > 1e-12 {
		t.Fatalf("crest = %g (%g dB)", l.CrestFactor, l.CrestFactor_dB)
	}
	if math.Abs(l.Peak_dB-(-6.020599913279624)) > 1e-9 {
		t.Fatalf("peak dB = %g", l.Peak_dB)
	}
}

func TestMeasureSineCrest(t *testing.T) {
	// 100 Hz at 48 kHz over exactly 10 periods.
	l := Measure(testutil.DeterministicSine(100, 48000, 0.8, 4800))

	if math.Abs(l.RMS-0.8/math.Sqrt2) > 1e-9 {
		t.Fatalf("rms = %g, want %g", l.RMS, 0.8/math.Sqrt2)
	}
	if math.Abs(l.CrestFactor-math.Sqrt2) > 1e-6 {
		t.Fatalf("crest = %g, want sqrt(2)", l.CrestFactor)
	}
	if math.Abs(l.DC) > 1e-12 {
		t.Fatalf("dc = %g, want 0", l.DC)
	}
}

func TestSilenceHasNoCrest(t *testing.T) {
	l := Measure(make([]float64, 64))
	if l.CrestFactor != 0 || !math.IsInf(l.CrestFactor_dB, -1) || l.Clipped != 0 {
		t.Fatalf("unexpected silence level: %+v", l)
	}
}

func TestClipCounting(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      int
	}{
		{name: "default", threshold: DefaultClipThreshold, want: 3},
		{name: "lower", threshold: 0.5, want: 4},
		{name: "disabled", threshold: 0, want: 0},
	}

	signal := []float64{0.2, 1, -1.5, 0.7, math.Inf(1)}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeterWithThreshold(tt.threshold)
			m.Update(signal)
			if got := m.Result().Clipped; got != tt.want {
				t.Fatalf("clipped = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNonFiniteSamplesDoNotPoisonSums(t *testing.T) {
	l := Measure([]float64{0.5, math.NaN(), math.Inf(-1), -0.5})

	if l.Frames != 4 || l.Peak != 0.5 {
		t.Fatalf("frames/peak = %d/%g", l.Frames, l.Peak)
	}
	testutil.RequireFinite(t, []float64{l.RMS, l.DC, l.CrestFactor})
}

func TestBlockwiseMatchesOneShot(t *testing.T) {
	signal := testutil.DeterministicNoise(3, 0.9, 1000)
	want := Measure(signal)

	m := NewMeter()
	for off := 0; off < len(signal); off += 77 {
		m.Update(signal[off:min(off+77, len(signal))])
	}

	if got := m.Result(); got != want {
		t.Fatalf("blockwise = %+v\none-shot = %+v", got, want)
	}

	m.Reset()
	if got := m.Result(); got.Frames != 0 {
		t.Fatalf("after Reset frames = %d", got.Frames)
	}
	m.Update([]float64{2})
	if m.Result().Clipped != 1 {
		t.Fatal("Reset dropped the clip threshold")
	}
}
