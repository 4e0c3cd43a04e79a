package signal

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tsgen/dsp/core"
	"github.com/cwbudde/algo-tsgen/dsp/noise"
)

const (
	// Envelope seeds are drawn uniformly from [envelopeSeedMin, envelopeSeedMax].
	envelopeSeedMin = 1
	envelopeSeedMax = 250
)

// envelopeScale is the range of the coordinate step between samples when
// walking the smooth noise field.
var envelopeScale = core.NewRange(0.001, 0.005)

// Rand is the random source a Generator draws from. *math/rand.Rand
// satisfies it.
type Rand interface {
	Float64() float64
	NormFloat64() float64
	Intn(n int) int
	Int63() int64
}

// Generator creates labeled sum-of-sines sequences from a fixed configuration.
type Generator struct {
	cfg    Config
	seed   int64
	rng    Rand
	noise  noise.Source
	logger *slog.Logger
	times  []float64
}

// NewGenerator creates a generator from DefaultConfig and opts.
// It returns a *ConfigurationError (possibly joined with others) when the
// resulting configuration is invalid.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := newGenerator(opts)
	if err := g.init(); err != nil {
		return nil, err
	}
	return g, nil
}

func newGenerator(opts []Option) *Generator {
	g := &Generator{
		cfg:  DefaultConfig(),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

func (g *Generator) init() error {
	if err := g.cfg.Validate(); err != nil {
		return err
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(g.seed))
	}
	if g.noise == nil {
		g.noise = noise.NewPerlin()
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	g.times = g.cfg.TimeBase.Times()
	return nil
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Seed returns the seed of the default random source.
func (g *Generator) Seed() int64 {
	return g.seed
}

// SetSeed replaces the random source with a fresh one seeded with seed.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
}

// SampleCount returns the length of every generated sequence.
func (g *Generator) SampleCount() int {
	return len(g.times)
}

// Params are the random draws a single sequence was built from.
type Params struct {
	// Frequencies in Hz, in draw order.
	Frequencies []float64
	// Phases in radians, in [0, 2*pi).
	Phases []float64
	// DecayFactors are the raw amplitude decay draws.
	DecayFactors []float64
	// Weights are the cumulative amplitude weights; Weights[0] is always 1.
	Weights []float64
	// NoiseStd is the standard deviation of the additive noise.
	NoiseStd float64
	// EnvelopeSeed and EnvelopeScale select the noise envelope. Both are zero
	// when the envelope is constant.
	EnvelopeSeed  int
	EnvelopeScale float64
}

// Generate synthesizes howMany independent sequences. When includeEnvelope is
// true the per-sample noise envelope of every sequence is returned as well.
func (g *Generator) Generate(howMany int, includeEnvelope bool) (*Batch, error) {
	if howMany <= 0 {
		return nil, configError("how_many", howMany, "must be > 0")
	}

	b := newBatch(howMany, includeEnvelope)
	for i := 0; i < howMany; i++ {
		g.sequence(g.rng, b, i)
	}
	g.finish(b)

	g.logger.Debug("generated batch",
		"sequences", howMany,
		"samples", len(g.times),
		"components", g.cfg.NumComponents)

	return b, nil
}

func (g *Generator) finish(b *Batch) {
	if g.cfg.Temporal {
		b.Temporal = Reshape3D(b.Data)
	}
}

// sequence draws one sequence from rng and stores it at index i of b.
func (g *Generator) sequence(rng Rand, b *Batch, i int) {
	cfg := g.cfg
	n := len(g.times)

	var p Params
	env := g.envelope(rng, &p)

	p.Frequencies = drawN(rng, cfg.FrequencyRange, cfg.NumComponents)
	p.DecayFactors = drawN(rng, cfg.AmplitudeDecay, cfg.NumComponents)
	p.Weights = cumulativeWeights(p.DecayFactors)
	p.Phases = drawN(rng, core.NewRange(0, 2*math.Pi), cfg.NumComponents)

	label := make([]float64, cfg.NumOutputs)
	copy(label, p.Frequencies)

	x := make([]float64, n)
	scratch := make([]float64, n)
	for c, freq := range p.Frequencies {
		g.component(scratch, freq, p.Phases[c], p.Weights[c])
		vecmath.AddBlockInPlace(x, scratch)
	}

	p.NoiseStd = cfg.NoiseStd.Lerp(rng.Float64())
	for j := range scratch {
		scratch[j] = rng.NormFloat64() * p.NoiseStd
	}
	vecmath.MulBlockInPlace(scratch, env)
	vecmath.AddBlockInPlace(x, scratch)

	b.Data[i] = x
	b.Labels[i] = label
	b.Params[i] = p
	if b.Envelopes != nil {
		b.Envelopes[i] = env
	}
}

// envelope returns the per-sample noise multiplier. Without VariantOverTime
// it is constant 1; otherwise it walks a seeded smooth noise field mapped to
// [0, 1].
func (g *Generator) envelope(rng Rand, p *Params) []float64 {
	n := len(g.times)
	if !g.cfg.VariantOverTime {
		return core.Filled(1, n)
	}

	p.EnvelopeSeed = envelopeSeedMin + rng.Intn(envelopeSeedMax-envelopeSeedMin+1)
	p.EnvelopeScale = envelopeScale.Lerp(rng.Float64())

	env := make([]float64, n)
	for i := range env {
		env[i] = noise.Unit(g.noise.Noise1D(float64(i)*p.EnvelopeScale, p.EnvelopeSeed))
	}
	return env
}

// component writes weight * sin(2*pi*freq*t + phase) over the time axis into dst.
func (g *Generator) component(dst []float64, freqHz, phase, weight float64) {
	angular := 2 * math.Pi * freqHz
	for j, t := range g.times {
		dst[j] = weight * math.Sin(t*angular+phase)
	}
}

// drawN draws n independent uniform values from r. A draw is consumed even for
// a degenerate range so the random stream does not depend on range widths.
func drawN(rng Rand, r core.Range, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Lerp(rng.Float64())
	}
	return out
}

// cumulativeWeights turns decay draws into amplitude weights: weight i is the
// product of factors [0, i). The last factor is never applied.
func cumulativeWeights(factors []float64) []float64 {
	out := make([]float64, len(factors))
	w := 1.0
	for i, f := range factors {
		out[i] = w
		w *= f
	}
	return out
}
