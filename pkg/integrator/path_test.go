package integrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/renderer"
	"github.com/lumen-render/lumen/pkg/sampler"
)

// wallScene is a single plane at z = -1 facing the camera, with a
// uniform background behind the viewer.
type wallScene struct {
	material   core.Material
	background core.Spectrum
	intersects int
}

func (s *wallScene) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	s.intersects++
	if ray.Direction.Z >= 0 {
		return core.Intersection{}, false
	}
	t := (-1 - ray.Origin.Z) / ray.Direction.Z
	if t <= tMin || t >= tMax {
		return core.Intersection{}, false
	}
	return core.Intersection{
		Point:    ray.At(t),
		Normal:   core.NewVec3(0, 0, 1),
		T:        t,
		Material: s.material,
	}, true
}

func (s *wallScene) Background(core.Ray) core.Spectrum { return s.background }

// mirrorMaterial reflects every ray straight back along +z with a
// fixed attenuation, so path contributions are exactly predictable.
type mirrorMaterial struct {
	attenuation core.Spectrum
}

func (m mirrorMaterial) Scatter(ray core.Ray, isect core.Intersection, _ core.Sampler) (core.ScatterResult, bool) {
	scattered := core.Ray{Origin: isect.Point, Direction: core.NewVec3(0, 0, 1), Time: ray.Time}
	return core.ScatterResult{Scattered: scattered, Attenuation: m.attenuation}, true
}

// absorberMaterial terminates every path on contact
type absorberMaterial struct{}

func (absorberMaterial) Scatter(core.Ray, core.Intersection, core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// emitterMaterial absorbs and emits a constant radiance
type emitterMaterial struct {
	radiance core.Spectrum
}

func (e emitterMaterial) Scatter(core.Ray, core.Intersection, core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

func (e emitterMaterial) Emit(core.Ray, core.Intersection) core.Spectrum { return e.radiance }

func towardWall() core.RayDifferential {
	return core.RayDifferential{Ray: core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))}
}

func towardSky() core.RayDifferential {
	return core.RayDifferential{Ray: core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))}
}

func testSampler(seed uint64) core.Sampler {
	s := sampler.NewIndependent(1)
	s.Seed(seed)
	return s
}

func mustConfig(t *testing.T, maxDepth, rrDepth int) renderer.MonteCarloConfig {
	t.Helper()
	cfg, err := renderer.NewMonteCarloConfig(maxDepth, rrDepth)
	require.NoError(t, err)
	return cfg
}

func TestPathTracerEscapedRaySeesBackground(t *testing.T) {
	s := &wallScene{material: absorberMaterial{}, background: core.NewSpectrum(0.2, 0.4, 0.6)}
	pt := NewPathTracer(mustConfig(t, -1, 100))

	// A ray pointing away from the wall misses everything.
	radiance, valid := pt.Li(s, testSampler(1), towardSky())
	require.True(t, valid)
	assert.Equal(t, s.background, radiance)
}

func TestPathTracerEmitterTerminatesPath(t *testing.T) {
	s := &wallScene{material: emitterMaterial{radiance: core.NewSpectrum(3, 2, 1)}, background: core.UniformSpectrum(9)}
	pt := NewPathTracer(mustConfig(t, -1, 100))

	radiance, valid := pt.Li(s, testSampler(1), towardWall())
	require.True(t, valid)
	assert.Equal(t, core.NewSpectrum(3, 2, 1), radiance)
	assert.Equal(t, 1, s.intersects, "an absorbed path should stop querying the scene")
}

func TestPathTracerAbsorberYieldsBlack(t *testing.T) {
	s := &wallScene{material: absorberMaterial{}, background: core.UniformSpectrum(1)}
	pt := NewPathTracer(mustConfig(t, -1, 100))

	radiance, valid := pt.Li(s, testSampler(1), towardWall())
	require.True(t, valid)
	assert.True(t, radiance.IsBlack())
}

func TestPathTracerDepthZeroSkipsScene(t *testing.T) {
	s := &wallScene{material: absorberMaterial{}, background: core.UniformSpectrum(1)}
	pt := NewPathTracer(mustConfig(t, 0, 100))

	radiance, valid := pt.Li(s, testSampler(1), towardWall())
	require.True(t, valid)
	assert.True(t, radiance.IsBlack())
	assert.Zero(t, s.intersects)
}

func TestPathTracerBoundedDepthCutsIndirectLight(t *testing.T) {
	background := core.UniformSpectrum(0.8)
	mirror := mirrorMaterial{attenuation: core.UniformSpectrum(0.5)}

	// With one bounce allowed the reflected background is cut off.
	bounded := NewPathTracer(mustConfig(t, 1, 100))
	radiance, valid := bounded.Li(&wallScene{material: mirror, background: background}, testSampler(1), towardWall())
	require.True(t, valid)
	assert.True(t, radiance.IsBlack())

	// Unbounded, the path reflects once and escapes into the sky.
	unbounded := NewPathTracer(mustConfig(t, -1, 100))
	radiance, valid = unbounded.Li(&wallScene{material: mirror, background: background}, testSampler(1), towardWall())
	require.True(t, valid)
	assert.InDelta(t, 0.4, radiance.R, 1e-12)
	assert.InDelta(t, 0.4, radiance.G, 1e-12)
	assert.InDelta(t, 0.4, radiance.B, 1e-12)
}

func TestPathTracerRussianRouletteIsUnbiased(t *testing.T) {
	// Roulette from the first bounce: the path either dies or continues
	// with its throughput boosted back to 1. The mean over many runs
	// must match the analytic answer of 0.5 * background.
	s := &wallScene{material: mirrorMaterial{attenuation: core.UniformSpectrum(0.5)}, background: core.UniformSpectrum(1)}
	pt := NewPathTracer(mustConfig(t, -1, 1))

	smp := testSampler(42)
	sum := 0.0
	const n = 20000
	for i := 0; i < n; i++ {
		radiance, valid := pt.Li(s, smp, towardWall())
		require.True(t, valid)
		sum += radiance.R
	}
	assert.InDelta(t, 0.5, sum/n, 0.02)
}

func TestPathTracerRejectsInvalidEstimate(t *testing.T) {
	s := &wallScene{material: absorberMaterial{}, background: core.UniformSpectrum(math.NaN())}
	pt := NewPathTracer(mustConfig(t, -1, 100))

	radiance, valid := pt.Li(s, testSampler(1), towardSky())
	assert.False(t, valid)
	assert.True(t, radiance.IsBlack())
}

func TestDepthIntegrator(t *testing.T) {
	s := &wallScene{material: absorberMaterial{}, background: core.UniformSpectrum(1)}
	d := NewDepth(1)

	radiance, valid := d.Li(s, testSampler(1), towardWall())
	require.True(t, valid)
	assert.InDelta(t, math.Exp(-1), radiance.R, 1e-12)

	// Escaped rays are black but still valid.
	radiance, valid = d.Li(s, testSampler(1), towardSky())
	require.True(t, valid)
	assert.True(t, radiance.IsBlack())
}

func TestNewDepthClampsScale(t *testing.T) {
	assert.Equal(t, 1.0, NewDepth(0).Scale)
	assert.Equal(t, 1.0, NewDepth(-2).Scale)
	assert.Equal(t, 5.0, NewDepth(5).Scale)
}
