package integrator

import (
	"math"

	"github.com/lumen-render/lumen/pkg/core"
)

// Depth is a debugging integrator that maps the distance to the first
// intersection to a grayscale value. Rays that escape the scene are
// black.
type Depth struct {
	// Scale divides the hit distance before tone mapping; it should be
	// on the order of the scene extent.
	Scale float64
}

// NewDepth creates a depth integrator with the given distance scale
func NewDepth(scale float64) *Depth {
	if scale <= 0 {
		scale = 1
	}
	return &Depth{Scale: scale}
}

// Li returns the first-hit distance as a grayscale spectrum
func (d *Depth) Li(scene core.Scene, _ core.Sampler, rd core.RayDifferential) (core.Spectrum, bool) {
	isect, hit := scene.Intersect(rd.Ray, rayEpsilon, math.Inf(1))
	if !hit {
		return core.Spectrum{}, true
	}
	v := math.Exp(-isect.T / d.Scale)
	return core.UniformSpectrum(v), true
}
