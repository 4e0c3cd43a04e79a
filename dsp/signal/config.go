package signal

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-tsgen/dsp/core"
)

// Config holds the fixed synthesis parameters of a Generator.
type Config struct {
	// NumComponents is the number of sinusoids summed into each sequence.
	NumComponents int
	// NumOutputs is the number of component frequencies reported as the label.
	NumOutputs int
	// VariantOverTime modulates the additive noise with a smooth envelope.
	VariantOverTime bool
	// AmplitudeDecay is the range per-component decay factors are drawn from.
	AmplitudeDecay core.Range
	// NoiseStd is the range the per-sequence noise standard deviation is drawn from.
	NoiseStd core.Range
	// FrequencyRange is the range component frequencies are drawn from, in Hz.
	FrequencyRange core.Range
	// TimeBase holds the sampling frequency and sequence length.
	TimeBase core.TimeBase
	// Temporal additionally exposes every sequence in (time, 1) form.
	Temporal bool
}

// DefaultConfig returns the default synthesis parameters: one component at
// 2.5-50 Hz, decay 0.5, unit noise, 30 seconds at 100 Hz.
func DefaultConfig() Config {
	return Config{
		NumComponents:  1,
		NumOutputs:     1,
		AmplitudeDecay: core.Fixed(0.5),
		NoiseStd:       core.Fixed(1),
		FrequencyRange: core.NewRange(2.5, 50),
		TimeBase:       core.DefaultTimeBase(),
	}
}

// SampleCount returns the number of samples in every generated sequence.
func (c Config) SampleCount() int {
	return c.TimeBase.SampleCount()
}

// ConfigurationError reports an invalid generator parameter.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("signal: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func configError(field string, value any, format string, args ...any) error {
	return &ConfigurationError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// Validate reports every invalid parameter. The returned error wraps one
// *ConfigurationError per violation.
func (c Config) Validate() error {
	var errs []error

	if c.NumComponents < 1 {
		errs = append(errs, configError("num_components", c.NumComponents, "must be > 0"))
	}
	if c.NumOutputs < 1 {
		errs = append(errs, configError("num_outputs", c.NumOutputs, "must be > 0"))
	}
	if c.NumComponents < c.NumOutputs {
		errs = append(errs, configError("num_components", c.NumComponents,
			"must not be less than num_outputs (%d)", c.NumOutputs))
	}

	errs = append(errs, validateRange("amplitude_decay", c.AmplitudeDecay, true)...)
	errs = append(errs, validateRange("noise_std", c.NoiseStd, true)...)
	errs = append(errs, validateRange("frequency_range", c.FrequencyRange, false)...)

	tb := c.TimeBase
	timeOK := true
	if !(tb.SampleRate > 0) || !core.IsFinite(tb.SampleRate) {
		errs = append(errs, configError("sampling_frequency", tb.SampleRate, "must be > 0"))
		timeOK = false
	}
	if !(tb.Duration > 0) || !core.IsFinite(tb.Duration) {
		errs = append(errs, configError("sequence_length", tb.Duration, "must be > 0"))
		timeOK = false
	}
	if timeOK {
		if err := tb.Validate(); err != nil {
			errs = append(errs, configError("sequence_length", tb.Duration, "%v", err))
		}
	}

	return errors.Join(errs...)
}

func validateRange(field string, r core.Range, nonNegative bool) []error {
	if err := r.Validate(); err != nil {
		return []error{configError(field, r, "%v", err)}
	}
	if nonNegative && r.Low < 0 {
		return []error{configError(field, r, "low must be >= 0")}
	}
	return nil
}
