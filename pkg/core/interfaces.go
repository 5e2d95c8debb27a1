package core

// Logger interface for render job logging
type Logger interface {
	Printf(format string, args ...any)
}

// Sampler produces a deterministic stream of uniform variates. Each
// worker owns an independent clone; the render core re-seeds it once
// per tile so that sample generation does not depend on scheduling.
type Sampler interface {
	// SampleCount returns the configured number of samples per pixel
	SampleCount() int
	// Clone returns an independent stream with the same sample count
	Clone() Sampler
	// Seed deterministically resets the stream
	Seed(seed uint64)
	// Next1D returns a uniform variate in [0, 1)
	Next1D() float64
	// Next2D returns two uniform variates in [0, 1)
	Next2D() Vec2
}

// Filter is a pixel reconstruction filter with finite support
type Filter interface {
	// Eval returns the filter weight at offset x from the filter center
	Eval(x float64) float64
	// Radius returns the support radius in pixels
	Radius() float64
}

// Film accumulates weighted sample contributions into the output
// frame. Put must be safe to call from multiple workers; it is the
// single merge point shared across the worker pool.
type Film interface {
	CropSize() Point2i
	CropOffset() Point2i
	Clear()
	ReconstructionFilter() Filter
	Put(block *ImageBlock)
}

// Sensor generates camera rays and exposes the film and sampler used
// to drive a render job.
type Sensor interface {
	Film() Film
	Sampler() Sampler

	// NeedsApertureSample reports whether the sensor models a finite
	// aperture. When false, the dispatch loop does not consume an
	// aperture sample from the stream.
	NeedsApertureSample() bool

	// ShutterOpen returns the time at which the shutter opens
	ShutterOpen() float64

	// ShutterOpenTime returns the duration the shutter stays open.
	// Zero means an instantaneous exposure and no time sample is drawn.
	ShutterOpenTime() float64

	// SampleRayDifferential turns a point on the crop-relative [0,1]²
	// image plane into a primary ray with differentials, returning the
	// ray and its importance weight.
	SampleRayDifferential(time, wavelengthSample float64, position, apertureSample Vec2) (RayDifferential, Spectrum)
}

// Intersection describes a ray-surface hit
type Intersection struct {
	Point    Vec3
	Normal   Vec3
	T        float64
	Material Material
}

// ScatterResult describes how a material redirected an incident ray
type ScatterResult struct {
	Scattered   Ray
	Attenuation Spectrum
}

// Material scatters incident rays at surface interactions
type Material interface {
	Scatter(ray Ray, isect Intersection, sampler Sampler) (ScatterResult, bool)
}

// Emitter is implemented by materials that emit light
type Emitter interface {
	Emit(ray Ray, isect Intersection) Spectrum
}

// Scene exposes the geometry queries transport evaluators need.
// Acceleration structures behind Intersect are the scene's concern.
type Scene interface {
	// Intersect returns the nearest hit along ray within (tMin, tMax)
	Intersect(ray Ray, tMin, tMax float64) (Intersection, bool)
	// Background returns the radiance of an escaped ray
	Background(ray Ray) Spectrum
}

// Integrator is the transport-evaluation capability the render core
// invokes for every camera ray but never implements itself. Li returns
// a spectral radiance estimate and reports whether the estimate is
// valid; invalid estimates contribute nothing to the frame.
type Integrator interface {
	Li(scene Scene, sampler Sampler, ray RayDifferential) (Spectrum, bool)
}

// UnimplementedIntegrator is the abstract base for transport
// evaluators. Invoking Li on it directly is a programming error and
// panics with ErrNotImplemented.
type UnimplementedIntegrator struct{}

// Li panics; concrete integrators must provide their own implementation
func (UnimplementedIntegrator) Li(Scene, Sampler, RayDifferential) (Spectrum, bool) {
	panic(ErrNotImplemented)
}
