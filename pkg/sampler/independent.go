// Package sampler provides deterministic uniform sample streams for
// the render core.
package sampler

import (
	"github.com/lumen-render/lumen/pkg/core"
)

// Independent is a sampler producing independent uniform variates from
// a PCG32 stream. It implements core.Sampler.
type Independent struct {
	sampleCount int
	rng         pcg32
}

// NewIndependent creates a sampler configured for the given number of
// samples per pixel.
func NewIndependent(sampleCount int) *Independent {
	return &Independent{
		sampleCount: sampleCount,
		rng:         newPCG32(pcg32DefaultState, pcg32DefaultStream),
	}
}

// SampleCount returns the configured samples per pixel
func (s *Independent) SampleCount() int { return s.sampleCount }

// Clone returns an independent stream with the same sample count. The
// clone is decorrelated from the parent; callers that need
// reproducible output must Seed it explicitly, which is what the
// render core does once per tile.
func (s *Independent) Clone() core.Sampler {
	child := &Independent{sampleCount: s.sampleCount}
	child.rng = newPCG32(uint64(s.rng.nextUint32())<<32|uint64(s.rng.nextUint32()), pcg32DefaultStream)
	return child
}

// Seed deterministically resets the stream
func (s *Independent) Seed(seed uint64) {
	s.rng = newPCG32(seed, pcg32DefaultStream)
}

// Next1D returns a uniform variate in [0, 1)
func (s *Independent) Next1D() float64 {
	return s.rng.nextFloat64()
}

// Next2D returns two uniform variates in [0, 1)
func (s *Independent) Next2D() core.Vec2 {
	x := s.rng.nextFloat64()
	y := s.rng.nextFloat64()
	return core.NewVec2(x, y)
}
