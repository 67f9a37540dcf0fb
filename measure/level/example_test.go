package level_test

import (
	"fmt"

	"github.com/cwbudde/algo-hysteresis/measure/level"
)

func ExampleMeasure() {
	l := level.Measure([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f crest=%.1f clipped=%d\n", l.RMS, l.CrestFactor, l.Clipped)

	// Output:
	// rms=1.0 crest=1.0 clipped=4
}

func ExampleMeter() {
	m := level.NewMeter()
	m.Update([]float64{0.5, -0.25})
	m.Update([]float64{0.25, 0})
	r := m.Result()
	fmt.Printf("frames=%d peak=%.2f dc=%.3f\n", r.Frames, r.Peak, r.DC)

	// Output:
	// frames=4 peak=0.50 dc=0.125
}
