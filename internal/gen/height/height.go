// Package height streams noise-derived height samples for a square grid in
// caller-sized batches.
package height

import "regionmap/internal/core"

// Sample is one height value at a grid coordinate.
type Sample struct {
	X, Y   int
	Height float64
}

// Coord returns the sample position.
func (s Sample) Coord() core.Coord { return core.Coord{X: s.X, Y: s.Y} }

// Sampler hands out every cell of a size*size grid exactly once, in row-major
// order, together with its noise height.
type Sampler struct {
	size  int
	batch int
	seed  int64
	noise NoiseConfig
	field field

	// next is the head of the remaining queue; cells [next, size*size) are
	// still pending.
	next int
}

// New builds a sampler with the default noise configuration.
func New(size, batch int, seed int64) *Sampler {
	return NewWithNoise(size, batch, seed, DefaultNoise())
}

// NewWithNoise builds a sampler with an explicit noise configuration. A
// non-positive size is a programming error.
func NewWithNoise(size, batch int, seed int64, nc NoiseConfig) *Sampler {
	if size <= 0 {
		panic("height: grid size must be positive")
	}
	nc = nc.sanitized()
	return &Sampler{
		size:  size,
		batch: batch,
		seed:  seed,
		noise: nc,
		field: newField(seed, nc),
	}
}

// Size returns the grid edge length.
func (s *Sampler) Size() int { return s.size }

// Noise returns the active noise configuration.
func (s *Sampler) Noise() NoiseConfig { return s.noise }

// SetNoise lets cb adjust the noise configuration and rebuilds the noise
// function. The remaining queue is left untouched.
func (s *Sampler) SetNoise(cb func(*NoiseConfig)) {
	nc := s.noise
	cb(&nc)
	s.noise = nc.sanitized()
	s.field = newField(s.seed, s.noise)
}

// Remaining reports how many cells have not been sampled yet.
func (s *Sampler) Remaining() int { return s.size*s.size - s.next }

// Done reports whether every cell has been sampled.
func (s *Sampler) Done() bool { return s.Remaining() == 0 }

// Next returns the next batch using the configured batch size.
func (s *Sampler) Next() []Sample {
	return s.NextN(s.batch)
}

// NextN removes up to n cells from the queue and returns their samples. An
// empty result means the queue is exhausted.
func (s *Sampler) NextN(n int) []Sample {
	if n > s.Remaining() {
		n = s.Remaining()
	}
	if n <= 0 {
		return nil
	}
	ratio := float64(s.size) * s.noise.Frequency
	out := make([]Sample, 0, n)
	for i := s.next; i < s.next+n; i++ {
		x, y := i%s.size, i/s.size
		nx := float64(x) / ratio * s.noise.Frequency
		ny := float64(y) / ratio * s.noise.Frequency
		out = append(out, Sample{X: x, Y: y, Height: s.field.at(nx, ny)})
	}
	s.next += n
	return out
}

// Drain samples everything left in the queue.
func (s *Sampler) Drain() []Sample {
	return s.NextN(s.Remaining())
}
