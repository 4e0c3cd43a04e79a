package signal

import (
	"log/slog"

	"github.com/cwbudde/algo-tsgen/dsp/core"
	"github.com/cwbudde/algo-tsgen/dsp/noise"
)

// Option configures a Generator. Options store values as given; invalid
// values are reported by NewGenerator instead of being ignored.
type Option func(*Generator)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(g *Generator) {
		g.cfg = cfg
	}
}

// WithComponents sets how many sinusoids are summed per sequence.
func WithComponents(n int) Option {
	return func(g *Generator) {
		g.cfg.NumComponents = n
	}
}

// WithOutputs sets how many frequencies each label reports.
func WithOutputs(n int) Option {
	return func(g *Generator) {
		g.cfg.NumOutputs = n
	}
}

// WithVariantOverTime enables the time-varying noise envelope.
func WithVariantOverTime(enabled bool) Option {
	return func(g *Generator) {
		g.cfg.VariantOverTime = enabled
	}
}

// WithAmplitudeDecay sets a fixed amplitude decay factor.
func WithAmplitudeDecay(v float64) Option {
	return WithAmplitudeDecayRange(v, v)
}

// WithAmplitudeDecayRange sets the range decay factors are drawn from.
func WithAmplitudeDecayRange(low, high float64) Option {
	return func(g *Generator) {
		g.cfg.AmplitudeDecay = core.NewRange(low, high)
	}
}

// WithNoiseStd sets a fixed noise standard deviation.
func WithNoiseStd(v float64) Option {
	return WithNoiseStdRange(v, v)
}

// WithNoiseStdRange sets the range the noise standard deviation is drawn from.
func WithNoiseStdRange(low, high float64) Option {
	return func(g *Generator) {
		g.cfg.NoiseStd = core.NewRange(low, high)
	}
}

// WithFrequencyRange sets the component frequency range in Hz.
func WithFrequencyRange(low, high float64) Option {
	return func(g *Generator) {
		g.cfg.FrequencyRange = core.NewRange(low, high)
	}
}

// WithSampleRate sets the sampling frequency in Hz.
func WithSampleRate(hz float64) Option {
	return func(g *Generator) {
		g.cfg.TimeBase.SampleRate = hz
	}
}

// WithSequenceLength sets the sequence duration in seconds.
func WithSequenceLength(seconds float64) Option {
	return func(g *Generator) {
		g.cfg.TimeBase.Duration = seconds
	}
}

// WithTemporal enables the (time, 1) view of generated sequences.
func WithTemporal(enabled bool) Option {
	return func(g *Generator) {
		g.cfg.Temporal = enabled
	}
}

// WithSeed sets the seed of the default random source.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithRand replaces the random source. The generator does not synchronize
// access to r.
func WithRand(r Rand) Option {
	return func(g *Generator) {
		g.rng = r
	}
}

// WithNoise sets the smooth noise source used for the noise envelope.
func WithNoise(src noise.Source) Option {
	return func(g *Generator) {
		g.noise = src
	}
}

// WithLogger sets the logger. Defaulted settings keys are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}
