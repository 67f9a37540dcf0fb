package thd_test

import (
	"testing"

	"github.com/cwbudde/algo-hysteresis/dsp/magnetic"
	"github.com/cwbudde/algo-hysteresis/measure/thd"
)

func TestEngineTHDRisesWithPreGain(t *testing.T) {
	cfg := thd.Config{SampleRate: 48000, FFTSize: 8192, FundamentalFreq: 1000}

	prev := -1.0
	for _, preDB := range []float64{-12, 0, 12, 24} {
		e, err := magnetic.New(48000, 1, magnetic.WithParameters(magnetic.Parameters{
			PreGainDB:  preDB,
			Squareness: 0.5,
			Mix:        1,
		}))
		if err != nil {
			t.Fatalf("magnetic.New() error = %v", err)
		}

		res, err := thd.MeasureProcessor(func(buf []float64) {
			e.Process([][]float64{buf}, len(buf))
		}, cfg, 0.5, 4800)
		if err != nil {
			t.Fatalf("MeasureProcessor() error = %v", err)
		}

		if res.THD <= prev {
			t.Fatalf("THD at %+g dB pre-gain = %g, not above %g", preDB, res.THD, prev)
		}
		if res.OddHD < res.EvenHD {
			t.Fatalf("odd curve should favour odd harmonics: odd=%g even=%g", res.OddHD, res.EvenHD)
		}
		prev = res.THD
	}
}
