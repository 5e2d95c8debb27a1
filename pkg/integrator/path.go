// Package integrator provides concrete light-transport evaluators for
// the render core.
package integrator

import (
	"math"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/renderer"
)

const rayEpsilon = 1e-3

// PathTracer implements unidirectional path tracing. Path length and
// stochastic termination follow the shared Monte Carlo policy: paths
// are capped at MaxDepth bounces (-1 for unbounded) and become
// eligible for Russian roulette at RRDepth.
type PathTracer struct {
	cfg renderer.MonteCarloConfig
}

// NewPathTracer creates a path tracer with the given termination
// policy. The policy must already be validated.
func NewPathTracer(cfg renderer.MonteCarloConfig) *PathTracer {
	return &PathTracer{cfg: cfg}
}

// Li estimates the radiance arriving along the given camera ray
func (pt *PathTracer) Li(scene core.Scene, smp core.Sampler, rd core.RayDifferential) (core.Spectrum, bool) {
	ray := rd.Ray
	throughput := core.UniformSpectrum(1)
	result := core.Spectrum{}

	for depth := 0; pt.cfg.MaxDepth < 0 || depth < pt.cfg.MaxDepth; depth++ {
		isect, hit := scene.Intersect(ray, rayEpsilon, math.Inf(1))
		if !hit {
			result = result.Add(throughput.Multiply(scene.Background(ray)))
			break
		}

		if emitter, ok := isect.Material.(core.Emitter); ok {
			result = result.Add(throughput.Multiply(emitter.Emit(ray, isect)))
		}

		scatter, ok := isect.Material.Scatter(ray, isect, smp)
		if !ok {
			// Absorbed; only the emitted light counts.
			break
		}
		throughput = throughput.Multiply(scatter.Attenuation)
		ray = scatter.Scattered

		// Stochastic termination once the path is deep enough.
		if depth+1 >= pt.cfg.RRDepth {
			q := math.Min(throughput.MaxComponent(), 0.95)
			if q <= 0 || smp.Next1D() >= q {
				break
			}
			throughput = throughput.Scale(1 / q)
		}
	}

	if !result.IsValid() {
		return core.Spectrum{}, false
	}
	return result, true
}
