package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Fill sets all values in buf to v.
func Fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}

// SanitizeInPlace replaces NaN and ±Inf in buf with 0 and returns how many
// samples were replaced.
func SanitizeInPlace(buf []float64) int {
	replaced := 0
	for i, v := range buf {
		if v-v != 0 {
			buf[i] = 0
			replaced++
		}
	}
	return replaced
}
