package utils

// Clamp01 bounds v to the [0,1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// LastN returns the trailing n elements of slice (all of them if shorter).
func LastN[T any](slice []T, n int) []T {
	if len(slice) <= n {
		return slice
	}
	return slice[len(slice)-n:]
}
