package signal

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-tsgen/dsp/core"
	"github.com/cwbudde/algo-tsgen/internal/testutil"
)

// scriptedRand replays a fixed list of uniform variates and returns zero for
// every Gaussian draw.
type scriptedRand struct {
	floats []float64
	i      int
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[r.i%len(r.floats)]
	r.i++
	return v
}

func (r *scriptedRand) NormFloat64() float64 { return 0 }

func (r *scriptedRand) Intn(int) int { return 0 }

func (r *scriptedRand) Int63() int64 {
	r.i++
	return int64(r.i)
}

func mustGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	g, err := NewGenerator(opts...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return g
}

func TestGenerateLengths(t *testing.T) {
	g := mustGenerator(t,
		WithComponents(3),
		WithOutputs(2),
		WithSampleRate(100),
		WithSequenceLength(2.5),
		WithNoise(testutil.StubNoise),
	)

	for _, envelope := range []bool{false, true} {
		b, err := g.Generate(7, envelope)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if b.Len() != 7 || len(b.Labels) != 7 || len(b.Params) != 7 {
			t.Fatalf("batch sizes = %d/%d/%d, want 7", b.Len(), len(b.Labels), len(b.Params))
		}
		if envelope && len(b.Envelopes) != 7 {
			t.Fatalf("envelopes = %d, want 7", len(b.Envelopes))
		}
		if !envelope && b.Envelopes != nil {
			t.Fatal("envelopes returned without being requested")
		}
		for i, seq := range b.Data {
			if len(seq) != 250 {
				t.Fatalf("len(Data[%d]) = %d, want 250", i, len(seq))
			}
			testutil.RequireFinite(t, seq)
			if len(b.Labels[i]) != 2 {
				t.Fatalf("len(Labels[%d]) = %d, want 2", i, len(b.Labels[i]))
			}
		}
	}
}

func TestGenerateSingleComponentExample(t *testing.T) {
	g := mustGenerator(t,
		WithComponents(1),
		WithOutputs(1),
		WithAmplitudeDecay(1),
		WithNoiseStd(0),
		WithFrequencyRange(5, 5),
		WithSampleRate(100),
		WithSequenceLength(1),
		WithVariantOverTime(false),
	)

	b, err := g.Generate(1, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	labels, err := b.Scalars()
	if err != nil {
		t.Fatalf("Scalars() error = %v", err)
	}
	if labels[0] != 5.0 {
		t.Fatalf("label = %v, want 5", labels[0])
	}

	phase := b.Params[0].Phases[0]
	if phase < 0 || phase >= 2*math.Pi {
		t.Fatalf("phase = %v outside [0, 2pi)", phase)
	}
	want := testutil.PhasedSine(5, phase, 100, 100)
	testutil.RequireSliceNearlyEqual(t, b.Data[0], want, 1e-12)
}

func TestGenerateMultipleOutputsAreFirstFrequencies(t *testing.T) {
	g := mustGenerator(t,
		WithComponents(5),
		WithOutputs(3),
		WithFrequencyRange(2.5, 10),
		WithSequenceLength(1),
	)

	b, err := g.Generate(20, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i, label := range b.Labels {
		freqs := b.Params[i].Frequencies
		if len(freqs) != 5 {
			t.Fatalf("len(Frequencies) = %d, want 5", len(freqs))
		}
		testutil.RequireBitIdentical(t, label, freqs[:3])
		testutil.RequireWithin(t, "label", label, core.NewRange(2.5, 10))
	}
	if _, err := b.Scalars(); err == nil {
		t.Fatal("Scalars() expected error for multi-output labels")
	}
}

func TestGenerateDrawsStayInRange(t *testing.T) {
	g := mustGenerator(t,
		WithComponents(4),
		WithOutputs(1),
		WithAmplitudeDecayRange(0.2, 0.7),
		WithNoiseStdRange(0.1, 0.3),
		WithFrequencyRange(3, 40),
		WithSequenceLength(1),
		WithVariantOverTime(true),
		WithNoise(testutil.StubNoise),
	)

	b, err := g.Generate(50, true)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i, p := range b.Params {
		testutil.RequireWithin(t, "frequency", p.Frequencies, core.NewRange(3, 40))
		testutil.RequireWithin(t, "decay", p.DecayFactors, core.NewRange(0.2, 0.7))
		testutil.RequireWithin(t, "phase", p.Phases, core.NewRange(0, 2*math.Pi))
		if !core.NewRange(0.1, 0.3).Contains(p.NoiseStd) {
			t.Fatalf("NoiseStd[%d] = %v outside (0.1, 0.3)", i, p.NoiseStd)
		}
		if p.EnvelopeSeed < 1 || p.EnvelopeSeed > 250 {
			t.Fatalf("EnvelopeSeed[%d] = %d outside [1, 250]", i, p.EnvelopeSeed)
		}
		if !envelopeScale.Contains(p.EnvelopeScale) {
			t.Fatalf("EnvelopeScale[%d] = %v outside %v", i, p.EnvelopeScale, envelopeScale)
		}
		testutil.RequireWithin(t, "envelope", b.Envelopes[i], core.NewRange(0, 1))
	}
}

func TestCumulativeWeights(t *testing.T) {
	got := cumulativeWeights([]float64{0.5, 0.25, 0.9})
	want := []float64{1, 0.5, 0.125}
	testutil.RequireBitIdentical(t, got, want)
}

func TestGenerateAppliesPriorDecayFactors(t *testing.T) {
	// Uniform draws: 3 frequencies, 3 decay factors, 3 phases, 1 noise std.
	rng := &scriptedRand{floats: []float64{
		0.1, 0.2, 0.3,
		0.5, 0.25, 0.9,
		0, 0, 0,
		0,
	}}
	g := mustGenerator(t,
		WithComponents(3),
		WithOutputs(3),
		WithFrequencyRange(0, 100),
		WithAmplitudeDecayRange(0, 1),
		WithNoiseStd(0),
		WithSampleRate(200),
		WithSequenceLength(1),
		WithRand(rng),
	)

	b, err := g.Generate(1, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	p := b.Params[0]
	testutil.RequireSliceNearlyEqual(t, p.Frequencies, []float64{10, 20, 30}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, p.Weights, []float64{1, 0.5, 0.125}, 1e-12)

	want := make([]float64, 200)
	for c, w := range []float64{1, 0.5, 0.125} {
		s := testutil.PhasedSine(p.Frequencies[c], 0, 200, 200)
		for i := range want {
			want[i] += w * s[i]
		}
	}
	testutil.RequireSliceNearlyEqual(t, b.Data[0], want, 1e-12)
}

func TestConstantEnvelopeWithoutVariation(t *testing.T) {
	g := mustGenerator(t, WithSequenceLength(1), WithVariantOverTime(false))
	b, err := g.Generate(3, true)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i, env := range b.Envelopes {
		testutil.RequireBitIdentical(t, env, core.Filled(1, 100))
		if b.Params[i].EnvelopeSeed != 0 || b.Params[i].EnvelopeScale != 0 {
			t.Fatalf("Params[%d] records an envelope draw without variation", i)
		}
	}
}

func TestEnvelopeMapsNoiseToUnitInterval(t *testing.T) {
	g := mustGenerator(t,
		WithSequenceLength(1),
		WithVariantOverTime(true),
		WithNoise(testutil.ConstantNoise(0)),
	)
	b, err := g.Generate(1, true)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	testutil.RequireBitIdentical(t, b.Envelopes[0], core.Filled(0.5, 100))
}

func TestZeroEnvelopeSilencesNoise(t *testing.T) {
	g := mustGenerator(t,
		WithComponents(2),
		WithNoiseStd(5),
		WithSequenceLength(1),
		WithVariantOverTime(true),
		WithNoise(testutil.ConstantNoise(-1)),
	)
	b, err := g.Generate(1, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	p := b.Params[0]
	want := make([]float64, 100)
	for c := range p.Frequencies {
		s := testutil.PhasedSine(p.Frequencies[c], p.Phases[c], 100, 100)
		for i := range want {
			want[i] += p.Weights[c] * s[i]
		}
	}
	testutil.RequireSliceNearlyEqual(t, b.Data[0], want, 1e-12)
}

func TestNoiseIsAdded(t *testing.T) {
	g := mustGenerator(t,
		WithFrequencyRange(5, 5),
		WithNoiseStd(1),
		WithSequenceLength(10),
	)
	b, err := g.Generate(1, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	clean := testutil.PhasedSine(5, b.Params[0].Phases[0], 100, 1000)
	var sum, sumSq float64
	for i, v := range b.Data[0] {
		d := v - clean[i]
		sum += d
		sumSq += d * d
	}
	mean := sum / 1000
	std := math.Sqrt(sumSq/1000 - mean*mean)
	if math.Abs(mean) > 0.2 || math.Abs(std-1) > 0.15 {
		t.Fatalf("residual mean=%v std=%v, want ~0 and ~1", mean, std)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	opts := []Option{
		WithComponents(3),
		WithOutputs(2),
		WithAmplitudeDecayRange(0.3, 0.8),
		WithNoiseStdRange(0, 2),
		WithSequenceLength(2),
		WithVariantOverTime(true),
		WithNoise(testutil.StubNoise),
		WithSeed(42),
	}
	a, err := mustGenerator(t, opts...).Generate(5, true)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	b, err := mustGenerator(t, opts...).Generate(5, true)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i := range a.Data {
		testutil.RequireBitIdentical(t, a.Data[i], b.Data[i])
		testutil.RequireBitIdentical(t, a.Labels[i], b.Labels[i])
		testutil.RequireBitIdentical(t, a.Envelopes[i], b.Envelopes[i])
	}
}

func TestSetSeed(t *testing.T) {
	g := mustGenerator(t, WithSequenceLength(1))
	g.SetSeed(99)
	if g.Seed() != 99 {
		t.Fatalf("Seed() = %d, want 99", g.Seed())
	}

	a, err := g.Generate(1, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	g.SetSeed(99)
	b, err := g.Generate(1, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	testutil.RequireBitIdentical(t, a.Data[0], b.Data[0])

	g.SetSeed(100)
	c, err := g.Generate(1, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if a.Labels[0][0] == c.Labels[0][0] {
		t.Fatal("expected different seeds to produce different labels")
	}
}

func TestWithRandSource(t *testing.T) {
	a := mustGenerator(t, WithSequenceLength(1), WithRand(rand.New(rand.NewSource(7))))
	b := mustGenerator(t, WithSequenceLength(1), WithSeed(7))
	ba, err := a.Generate(2, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	bb, err := b.Generate(2, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for i := range ba.Data {
		testutil.RequireBitIdentical(t, ba.Data[i], bb.Data[i])
	}
}

func TestSequencesDrawIndependently(t *testing.T) {
	g := mustGenerator(t, WithComponents(2), WithSequenceLength(1))
	b, err := g.Generate(10, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	seen := make(map[float64]int)
	for i, p := range b.Params {
		for _, v := range append(append([]float64{}, p.Frequencies...), p.Phases...) {
			if j, dup := seen[v]; dup {
				t.Fatalf("sequences %d and %d share draw %v", j, i, v)
			}
			seen[v] = i
		}
	}
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	g := mustGenerator(t)
	for _, n := range []int{0, -3} {
		b, err := g.Generate(n, false)
		if b != nil {
			t.Fatalf("Generate(%d) returned a batch", n)
		}
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) || cfgErr.Field != "how_many" {
			t.Fatalf("Generate(%d) error = %v, want how_many ConfigurationError", n, err)
		}
	}
}

func TestTemporalReshape(t *testing.T) {
	g := mustGenerator(t, WithSequenceLength(0.5), WithTemporal(true))
	b, err := g.Generate(2, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(b.Temporal) != 2 {
		t.Fatalf("len(Temporal) = %d, want 2", len(b.Temporal))
	}
	for i, frames := range b.Temporal {
		if len(frames) != 50 {
			t.Fatalf("len(Temporal[%d]) = %d, want 50", i, len(frames))
		}
		for j, f := range frames {
			if len(f) != 1 || math.Float64bits(f[0]) != math.Float64bits(b.Data[i][j]) {
				t.Fatalf("Temporal[%d][%d] = %v, want [%v]", i, j, f, b.Data[i][j])
			}
		}
	}

	flat := mustGenerator(t, WithSequenceLength(0.5))
	fb, err := flat.Generate(1, false)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if fb.Temporal != nil {
		t.Fatal("Temporal set for a non-temporal generator")
	}
}

func TestReshape3DSharesStorage(t *testing.T) {
	data := [][]float64{{1, 2, 3}}
	out := Reshape3D(data)
	if len(out[0]) != 3 || len(out[0][2]) != 1 || cap(out[0][2]) != 1 {
		t.Fatalf("unexpected shape: %v", out)
	}
	data[0][1] = 42
	if out[0][1][0] != 42 {
		t.Fatal("Reshape3D copied data instead of regrouping it")
	}
}
