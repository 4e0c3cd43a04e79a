package testutil

import (
	"math"

	"github.com/cwbudde/algo-tsgen/dsp/noise"
)

// PhasedSine evaluates sin(2*pi*freqHz*t + phase) on a time axis of length
// samples at sampleRate, using the same operation order as the generator so
// results compare bit for bit.
func PhasedSine(freqHz, phase, sampleRate float64, length int) []float64 {
	out := make([]float64, length)
	angular := 2 * math.Pi * freqHz
	period := 1 / sampleRate
	for i := range out {
		t := float64(i) * period
		out[i] = math.Sin(t*angular + phase)
	}
	return out
}

// StubNoise is a smooth, bounded, seed-dependent noise field that needs no
// permutation tables.
var StubNoise = noise.Func(func(x float64, seed int) float64 {
	return math.Sin(x*7 + float64(seed))
})

// ConstantNoise returns a noise source that always yields v.
func ConstantNoise(v float64) noise.Source {
	return noise.Func(func(float64, int) float64 { return v })
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
