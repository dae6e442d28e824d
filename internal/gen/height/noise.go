package height

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// NoiseKind selects the gradient noise backend.
type NoiseKind string

const (
	// NoisePerlin sums Perlin octaves (default).
	NoisePerlin NoiseKind = "perlin"
	// NoiseSimplex sums OpenSimplex octaves.
	NoiseSimplex NoiseKind = "simplex"
)

// NoiseConfig holds the fractal noise parameters.
type NoiseConfig struct {
	Kind       NoiseKind
	Octaves    int
	Gain       float64
	Lacunarity float64
	Frequency  float64
}

// DefaultNoise returns fBm Perlin noise with 5 octaves, gain 0.6,
// lacunarity 2 and frequency 1.
func DefaultNoise() NoiseConfig {
	return NoiseConfig{
		Kind:       NoisePerlin,
		Octaves:    5,
		Gain:       0.6,
		Lacunarity: 2.0,
		Frequency:  1.0,
	}
}

// sanitized replaces unusable values with the defaults.
func (nc NoiseConfig) sanitized() NoiseConfig {
	def := DefaultNoise()
	if nc.Kind != NoisePerlin && nc.Kind != NoiseSimplex {
		nc.Kind = def.Kind
	}
	if nc.Octaves <= 0 {
		nc.Octaves = def.Octaves
	}
	if nc.Gain <= 0 {
		nc.Gain = def.Gain
	}
	if nc.Lacunarity <= 0 {
		nc.Lacunarity = def.Lacunarity
	}
	if nc.Frequency <= 0 {
		nc.Frequency = def.Frequency
	}
	return nc
}

type field interface {
	at(x, y float64) float64
}

func newField(seed int64, nc NoiseConfig) field {
	switch nc.Kind {
	case NoiseSimplex:
		return &simplexField{
			noise:      opensimplex.New(seed),
			octaves:    nc.Octaves,
			gain:       nc.Gain,
			lacunarity: nc.Lacunarity,
		}
	default:
		// go-perlin divides each octave's amplitude by alpha.
		return &perlinField{p: perlin.NewPerlin(1/nc.Gain, nc.Lacunarity, int32(nc.Octaves), seed)}
	}
}

type perlinField struct {
	p *perlin.Perlin
}

func (f *perlinField) at(x, y float64) float64 { return f.p.Noise2D(x, y) }

type simplexField struct {
	noise      opensimplex.Noise
	octaves    int
	gain       float64
	lacunarity float64
}

func (f *simplexField) at(x, y float64) float64 {
	var sum float64
	amp := 1.0
	for i := 0; i < f.octaves; i++ {
		sum += f.noise.Eval2(x, y) * amp
		amp *= f.gain
		x *= f.lacunarity
		y *= f.lacunarity
	}
	return sum
}
