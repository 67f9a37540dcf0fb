package biquad_test

import (
	"fmt"

	"github.com/cwbudde/algo-hysteresis/dsp/filter/biquad"
)

func ExampleSection_ProcessBlock() {
	// Two-tap average: the step settles after one sample.
	s := biquad.NewSection(biquad.Coefficients{B0: 0.5, B1: 0.5})

	buf := []float64{1, 1, 1, 1}
	s.ProcessBlock(buf)

	fmt.Println(buf)
	// Output: [0.5 1 1 1]
}
