package core

import (
	"fmt"
	"math"
)

// TimeBase describes a uniformly sampled time axis.
type TimeBase struct {
	// SampleRate is the sampling frequency in Hz.
	SampleRate float64
	// Duration is the sequence length in seconds.
	Duration float64
}

// TimeBaseOption mutates a TimeBase.
type TimeBaseOption func(*TimeBase)

// DefaultTimeBase returns 30 seconds sampled at 100 Hz.
func DefaultTimeBase() TimeBase {
	return TimeBase{
		SampleRate: 100,
		Duration:   30,
	}
}

// WithSampleRate sets the sampling frequency.
func WithSampleRate(sampleRate float64) TimeBaseOption {
	return func(tb *TimeBase) {
		if sampleRate > 0 {
			tb.SampleRate = sampleRate
		}
	}
}

// WithDuration sets the sequence length in seconds.
func WithDuration(seconds float64) TimeBaseOption {
	return func(tb *TimeBase) {
		if seconds > 0 {
			tb.Duration = seconds
		}
	}
}

// ApplyTimeBaseOptions applies zero or more options to the default time base.
func ApplyTimeBaseOptions(opts ...TimeBaseOption) TimeBase {
	tb := DefaultTimeBase()
	for _, opt := range opts {
		if opt != nil {
			opt(&tb)
		}
	}
	return tb
}

// SampleCount returns round(Duration * SampleRate).
func (tb TimeBase) SampleCount() int {
	return int(math.Round(tb.Duration * tb.SampleRate))
}

// Period returns the sample spacing in seconds.
func (tb TimeBase) Period() float64 {
	return 1 / tb.SampleRate
}

// Times returns SampleCount points spaced 1/SampleRate apart starting at 0.
func (tb TimeBase) Times() []float64 {
	n := tb.SampleCount()
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	period := tb.Period()
	for i := range out {
		out[i] = float64(i) * period
	}
	return out
}

// Validate checks that the time base produces at least one sample.
func (tb TimeBase) Validate() error {
	if !(tb.SampleRate > 0) || math.IsInf(tb.SampleRate, 0) {
		return fmt.Errorf("sample rate must be > 0: %v", tb.SampleRate)
	}
	if !(tb.Duration > 0) || math.IsInf(tb.Duration, 0) {
		return fmt.Errorf("duration must be > 0: %v", tb.Duration)
	}
	if tb.SampleCount() < 1 {
		return fmt.Errorf("duration %v s at %v Hz yields no samples", tb.Duration, tb.SampleRate)
	}
	return nil
}
