package spectrum

import (
	"fmt"
	"math"
	"sort"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	scratchPool.Put(buf)
	return out
}

// Amplitude is a single-sided amplitude spectrum covering 0 Hz to Nyquist.
type Amplitude struct {
	// Frequencies holds the bin centre frequencies in Hz.
	Frequencies []float64
	// Levels holds the amplitude at each bin.
	Levels []float64
	// SampleRate of the analyzed sequence in Hz.
	SampleRate float64
	// FFTSize is the zero-padded transform length.
	FFTSize int
}

// Peak is a local maximum of an amplitude spectrum.
type Peak struct {
	Frequency float64
	Level     float64
}

// AmplitudeSpectrum zero-pads x to the next power of two, transforms it and
// returns 2/N |X[k]| for the non-negative frequency bins, N being len(x).
// The DC bin is not doubled.
func AmplitudeSpectrum(x []float64, sampleRate float64) (*Amplitude, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("spectrum: input must not be empty")
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %v", sampleRate)
	}

	fftSize := nextPowerOf2(len(x))
	if fftSize < 2 {
		fftSize = 2
	}

	in := make([]complex128, fftSize)
	for i, v := range x {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward transform: %w", err)
	}

	bins := fftSize/2 + 1
	levels := Magnitude(out[:bins])
	scale := 2 / float64(len(x))
	for i := range levels {
		levels[i] *= scale
	}
	levels[0] /= 2

	binHz := sampleRate / float64(fftSize)
	freqs := make([]float64, bins)
	for i := range freqs {
		freqs[i] = float64(i) * binHz
	}

	return &Amplitude{
		Frequencies: freqs,
		Levels:      levels,
		SampleRate:  sampleRate,
		FFTSize:     fftSize,
	}, nil
}

// BinWidth returns the spacing between bins in Hz.
func (a *Amplitude) BinWidth() float64 {
	return a.SampleRate / float64(a.FFTSize)
}

// Peaks returns up to k local maxima ordered by descending level. Peak
// frequencies are refined by parabolic interpolation over the neighbouring
// bins.
func (a *Amplitude) Peaks(k int) []Peak {
	if k <= 0 || len(a.Levels) < 3 {
		return nil
	}

	var peaks []Peak
	lv := a.Levels
	for i := 1; i < len(lv)-1; i++ {
		if lv[i] <= lv[i-1] || lv[i] < lv[i+1] {
			continue
		}
		offset := 0.0
		den := lv[i-1] - 2*lv[i] + lv[i+1]
		if den != 0 {
			offset = 0.5 * (lv[i-1] - lv[i+1]) / den
		}
		peaks = append(peaks, Peak{
			Frequency: (float64(i) + offset) * a.BinWidth(),
			Level:     lv[i],
		})
	}

	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Level > peaks[j].Level })
	if len(peaks) > k {
		peaks = peaks[:k]
	}
	return peaks
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
