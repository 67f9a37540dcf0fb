package saturation

import "testing"

func BenchmarkEvaluate(b *testing.B) {
	for _, c := range Curves() {
		b.Run(c.String(), func(b *testing.B) {
			x := 0.3
			acc := 0.0

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				acc += Evaluate(x, 0.5, c)
				x = -x
			}

			_ = acc
		})
	}
}
