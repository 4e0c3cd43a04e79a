package spectrum

import (
	"fmt"
	"math"
)

// ToneAmplitude estimates the amplitude of the component at freqHz in x using
// the Goertzel recurrence. The result uses the same 2/N scaling as
// AmplitudeSpectrum but needs no zero padding, so freqHz may fall between
// FFT bins.
func ToneAmplitude(x []float64, freqHz, sampleRate float64) (float64, error) {
	if len(x) == 0 {
		return 0, fmt.Errorf("tone: input must not be empty")
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("tone: sample rate must be > 0: %v", sampleRate)
	}
	if freqHz < 0 || freqHz > sampleRate/2 || math.IsNaN(freqHz) {
		return 0, fmt.Errorf("tone: frequency must be between 0 and sampleRate/2: %v", freqHz)
	}

	coeff := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	var s0, s1 float64
	for _, v := range x {
		s := v + coeff*s0 - s1
		s1 = s0
		s0 = s
	}

	power := s0*s0 + s1*s1 - coeff*s0*s1
	if power <= 0 {
		return 0, nil
	}
	return 2 * math.Sqrt(power) / float64(len(x)), nil
}

// LabelAmplitudes returns ToneAmplitude for every frequency in labels.
func LabelAmplitudes(x []float64, labels []float64, sampleRate float64) ([]float64, error) {
	out := make([]float64, len(labels))
	for i, f := range labels {
		a, err := ToneAmplitude(x, f, sampleRate)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}
