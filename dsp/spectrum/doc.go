// Package spectrum inspects the frequency content of generated sequences.
//
// [AmplitudeSpectrum] computes a single-sided amplitude spectrum with an FFT,
// scaled so a sinusoid of amplitude A shows up as a peak of height close to A.
// [ToneAmplitude] evaluates that scaling at one arbitrary frequency, which is
// how a sequence's label frequency is checked without a full transform.
package spectrum
