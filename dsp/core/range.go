package core

import "fmt"

// Range is an inclusive interval [Low, High] that random parameters are drawn
// from. A degenerate range (Low == High) always yields Low.
type Range struct {
	Low  float64
	High float64
}

// Fixed returns the degenerate range (v, v).
func Fixed(v float64) Range {
	return Range{Low: v, High: v}
}

// NewRange returns the range [low, high] without validating it.
func NewRange(low, high float64) Range {
	return Range{Low: low, High: high}
}

// Width returns High - Low.
func (r Range) Width() float64 {
	return r.High - r.Low
}

// IsFixed reports whether the range collapses to a single value.
func (r Range) IsFixed() bool {
	return r.Low == r.High
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Lerp maps u in [0, 1) onto the range. Passing a uniform variate yields a
// uniform draw; a degenerate range ignores u.
func (r Range) Lerp(u float64) float64 {
	if r.IsFixed() {
		return r.Low
	}
	return r.Low + u*r.Width()
}

// Validate checks that both bounds are finite and Low <= High.
func (r Range) Validate() error {
	if !IsFinite(r.Low) || !IsFinite(r.High) {
		return fmt.Errorf("range bounds must be finite: (%v, %v)", r.Low, r.High)
	}
	if r.Low > r.High {
		return fmt.Errorf("range low must be <= high: (%v, %v)", r.Low, r.High)
	}
	return nil
}

// String formats the range as "(low, high)".
func (r Range) String() string {
	return fmt.Sprintf("(%g, %g)", r.Low, r.High)
}
