package core

// Filled returns a new slice of length n with every element set to value.
func Filled(value float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Clone returns a copy of src, or nil for an empty input.
func Clone(src []float64) []float64 {
	if len(src) == 0 {
		return nil
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}
