package utils

import "math"

// Clamp limits value to [min, max]. When max < min the result is min.
func Clamp(value, min, max float64) float64 {
	if value > max {
		value = max
	}
	if value < min {
		value = min
	}
	return value
}

// ClampInt is Clamp for ints.
func ClampInt(value, min, max int) int {
	if value > max {
		value = max
	}
	if value < min {
		value = min
	}
	return value
}

// MaxInt returns the larger of a and b.
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// MinInt returns the smaller of a and b.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FoldIntoRange mirrors v back into [0, size] as a ball bouncing between two
// walls would, and reports how many walls it crossed. It runs in constant time.
func FoldIntoRange(v, size float64) (float64, int) {
	if size <= 0 || !IsFinite(v) {
		return 0, 0
	}
	if v >= 0 && v <= size {
		return v, 0
	}

	crossings := int(math.Abs(math.Floor(v / size)))
	if v == math.Floor(v/size)*size && v > size {
		// Landing exactly on a wall counts one crossing fewer.
		crossings--
	}

	period := 2 * size
	m := math.Mod(v, period)
	if m < 0 {
		m += period
	}
	if m > size {
		m = period - m
	}
	return m, crossings
}
