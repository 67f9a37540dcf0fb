package drive_test

import (
	"fmt"

	"github.com/cwbudde/algo-hysteresis/dsp/drive"
	"github.com/cwbudde/algo-hysteresis/dsp/saturation"
)

func ExampleNormalizer_Normalize() {
	n, err := drive.NewNormalizer(saturation.CurveHyperbolic)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.4f\n", n.Normalize(0.5, 1, 0))
	fmt.Printf("%.0f\n", n.Gain(0, 0.5))

	// Output:
	// 0.6565
	// 1000
}
