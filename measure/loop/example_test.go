package loop_test

import (
	"fmt"

	"github.com/cwbudde/algo-hysteresis/measure/loop"
)

func ExampleArea() {
	x := []float64{-1, 1, 1, -1}
	y := []float64{-1, -1, 1, 1}
	fmt.Println(loop.Area(x, y))
	// Output: 4
}
