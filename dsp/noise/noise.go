package noise

import (
	"sync"

	"github.com/aquilax/go-perlin"

	"github.com/cwbudde/algo-tsgen/dsp/core"
)

// Source evaluates a seeded smooth noise field at coordinate x.
// Implementations must return values in [-1, 1] and be safe for concurrent use.
type Source interface {
	Noise1D(x float64, seed int) float64
}

// Func adapts an ordinary function to [Source].
type Func func(x float64, seed int) float64

// Noise1D calls f(x, seed).
func (f Func) Noise1D(x float64, seed int) float64 {
	return f(x, seed)
}

const (
	defaultAlpha   = 2.0
	defaultBeta    = 2.0
	defaultOctaves = 1
)

// Perlin is gradient noise backed by one permutation table per seed.
// Tables are built lazily and cached.
type Perlin struct {
	alpha   float64
	beta    float64
	octaves int32

	mu     sync.RWMutex
	fields map[int]*perlin.Perlin
}

// PerlinOption configures a Perlin source.
type PerlinOption func(*Perlin)

// WithOctaves sets the number of summed octaves. Values below 1 are ignored.
func WithOctaves(n int) PerlinOption {
	return func(p *Perlin) {
		if n >= 1 {
			p.octaves = int32(n)
		}
	}
}

// WithPersistence sets the amplitude divisor between successive octaves
// (alpha) and the frequency multiplier (beta). Non-positive values are ignored.
func WithPersistence(alpha, beta float64) PerlinOption {
	return func(p *Perlin) {
		if alpha > 0 {
			p.alpha = alpha
		}
		if beta > 0 {
			p.beta = beta
		}
	}
}

// NewPerlin creates a single-octave Perlin source.
func NewPerlin(opts ...PerlinOption) *Perlin {
	p := &Perlin{
		alpha:   defaultAlpha,
		beta:    defaultBeta,
		octaves: defaultOctaves,
		fields:  make(map[int]*perlin.Perlin),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Noise1D evaluates the field for seed at x, clamped to [-1, 1].
func (p *Perlin) Noise1D(x float64, seed int) float64 {
	return core.Clamp(p.field(seed).Noise1D(x), -1, 1)
}

func (p *Perlin) field(seed int) *perlin.Perlin {
	p.mu.RLock()
	f, ok := p.fields[seed]
	p.mu.RUnlock()
	if ok {
		return f
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok = p.fields[seed]; ok {
		return f
	}
	f = perlin.NewPerlin(p.alpha, p.beta, p.octaves, int64(seed))
	p.fields[seed] = f
	return f
}

// Unit maps a [-1, 1] noise value onto [0, 1].
func Unit(v float64) float64 {
	return (v + 1) / 2
}
