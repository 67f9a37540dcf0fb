// Package level accumulates block-wise level statistics of a signal: peak,
// RMS, DC offset, crest factor and the number of samples at or above a clip
// threshold.
package level

import "math"

// DefaultClipThreshold is the magnitude counted as clipping by NewMeter.
const DefaultClipThreshold = 1.0

// Level holds the statistics of everything a Meter has seen.
//
//nolint:revive
type Level struct {
	Frames         int
	DC             float64
	RMS            float64
	RMS_dB         float64
	Peak           float64
	Peak_dB        float64
	PeakPos        int
	CrestFactor    float64 // peak / RMS, 0 for silence
	CrestFactor_dB float64
	Clipped        int
}

// Meter is a streaming level meter. Feeding a signal in blocks yields the
// same result as feeding it at once.
type Meter struct {
	clip    float64
	n       int
	sum     float64
	sumSq   float64
	peak    float64
	peakPos int
	clipped int
}

// NewMeter returns a meter counting samples with |x| >= DefaultClipThreshold.
func NewMeter() *Meter {
	return NewMeterWithThreshold(DefaultClipThreshold)
}

// NewMeterWithThreshold returns a meter with a custom clip threshold. A
// threshold <= 0 disables clip counting.
func NewMeterWithThreshold(threshold float64) *Meter {
	return &Meter{clip: threshold}
}

// Update adds a block of samples. Non-finite samples are counted as frames
// and clips but do not contribute to the sums.
func (m *Meter) Update(samples []float64) {
	for _, x := range samples {
		ax := math.Abs(x)
		if m.clip > 0 && ax >= m.clip {
			m.clipped++
		}

		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			m.sum += x
			m.sumSq += x * x
			if ax > m.peak {
				m.peak = ax
				m.peakPos = m.n
			}
		}

		m.n++
	}
}

// Result returns the statistics accumulated so far.
func (m *Meter) Result() Level {
	if m.n == 0 {
		return Level{
			RMS_dB:         math.Inf(-1),
			Peak_dB:        math.Inf(-1),
			CrestFactor_dB: math.Inf(-1),
		}
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq / nf)

	l := Level{
		Frames:         m.n,
		DC:             m.sum / nf,
		RMS:            rms,
		RMS_dB:         toDB(rms),
		Peak:           m.peak,
		Peak_dB:        toDB(m.peak),
		PeakPos:        m.peakPos,
		CrestFactor_dB: math.Inf(-1),
		Clipped:        m.clipped,
	}
	if rms > 0 {
		l.CrestFactor = m.peak / rms
		l.CrestFactor_dB = toDB(l.CrestFactor)
	}

	return l
}

// Reset clears the accumulated data and keeps the threshold.
func (m *Meter) Reset() {
	*m = Meter{clip: m.clip}
}

// Measure is a one-shot Meter over signal.
func Measure(signal []float64) Level {
	m := NewMeter()
	m.Update(signal)
	return m.Result()
}

func toDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
