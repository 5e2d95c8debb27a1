// Package sensor implements camera models that generate primary rays
// for the render core.
package sensor

import (
	"math"

	"github.com/lumen-render/lumen/pkg/core"
)

// Config describes a thin-lens perspective camera
type Config struct {
	Center core.Vec3
	LookAt core.Vec3
	Up     core.Vec3

	// VFov is the vertical field of view in degrees
	VFov float64

	// Aperture is the lens diameter. 0 disables depth of field, and
	// the camera then reports that it needs no aperture sample.
	Aperture float64

	// FocusDistance is the distance to the plane of perfect focus.
	// 0 focuses on the LookAt point.
	FocusDistance float64

	// ShutterOpen is the time at which the shutter opens
	ShutterOpen float64

	// ShutterTime is the duration the shutter stays open; 0 gives an
	// instantaneous exposure.
	ShutterTime float64
}

// Perspective is a thin-lens perspective camera. It implements
// core.Sensor.
type Perspective struct {
	film    core.Film
	sampler core.Sampler

	center          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v            core.Vec3
	lensRadius      float64

	shutterOpen float64
	shutterTime float64
}

// NewPerspective creates a perspective camera rendering onto the given
// film, driven by the given sample stream.
func NewPerspective(cfg Config, film core.Film, smp core.Sampler) *Perspective {
	size := film.CropSize()
	aspectRatio := float64(size.X) / float64(size.Y)

	theta := cfg.VFov * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	halfWidth := aspectRatio * halfHeight

	w := cfg.Center.Subtract(cfg.LookAt).Normalize()
	u := cfg.Up.Cross(w).Normalize()
	v := w.Cross(u)

	focusDist := cfg.FocusDistance
	if focusDist == 0 {
		focusDist = cfg.LookAt.Subtract(cfg.Center).Length()
	}

	horizontal := u.Multiply(2 * halfWidth * focusDist)
	vertical := v.Multiply(2 * halfHeight * focusDist)
	lowerLeftCorner := cfg.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDist))

	return &Perspective{
		film:            film,
		sampler:         smp,
		center:          cfg.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		lensRadius:      cfg.Aperture / 2,
		shutterOpen:     cfg.ShutterOpen,
		shutterTime:     cfg.ShutterTime,
	}
}

// Film returns the frame accumulator this camera exposes onto
func (p *Perspective) Film() core.Film { return p.film }

// Sampler returns the configured sample stream prototype
func (p *Perspective) Sampler() core.Sampler { return p.sampler }

// NeedsApertureSample reports whether the lens has a finite aperture
func (p *Perspective) NeedsApertureSample() bool { return p.lensRadius > 0 }

// ShutterOpen returns the shutter opening time
func (p *Perspective) ShutterOpen() float64 { return p.shutterOpen }

// ShutterOpenTime returns the exposure duration
func (p *Perspective) ShutterOpenTime() float64 { return p.shutterTime }

// SampleRayDifferential generates the primary ray through a point on
// the crop-relative [0,1]² image plane, with differentials for the two
// neighboring pixels, and returns it with its importance weight.
func (p *Perspective) SampleRayDifferential(time, wavelengthSample float64, position, apertureSample core.Vec2) (core.RayDifferential, core.Spectrum) {
	size := p.film.CropSize()

	origin := p.center
	if p.lensRadius > 0 {
		disk := sampleConcentricDisk(apertureSample)
		offset := p.u.Multiply(disk.X * p.lensRadius).Add(p.v.Multiply(disk.Y * p.lensRadius))
		origin = origin.Add(offset)
	}

	ray := core.RayDifferential{
		Ray:              core.Ray{Origin: origin, Direction: p.direction(position, origin), Time: time},
		HasDifferentials: true,
		Wavelength:       wavelengthSample,
	}

	// Offset rays through the neighboring pixels, sharing the lens
	// sample so the differentials isolate the image-plane footprint.
	dx := core.NewVec2(position.X+1/float64(size.X), position.Y)
	dy := core.NewVec2(position.X, position.Y+1/float64(size.Y))
	ray.RxOrigin = origin
	ray.RyOrigin = origin
	ray.RxDirection = p.direction(dx, origin)
	ray.RyDirection = p.direction(dy, origin)

	return ray, core.UniformSpectrum(1)
}

// direction computes the unnormalized-then-normalized ray direction
// through a crop-relative position. Image-plane Y grows downward.
func (p *Perspective) direction(position core.Vec2, origin core.Vec3) core.Vec3 {
	target := p.lowerLeftCorner.
		Add(p.horizontal.Multiply(position.X)).
		Add(p.vertical.Multiply(1 - position.Y))
	return target.Subtract(origin).Normalize()
}

// sampleConcentricDisk maps a uniform square sample to the unit disk
// without rejection.
func sampleConcentricDisk(sample core.Vec2) core.Vec2 {
	offset := core.NewVec2(2*sample.X-1, 2*sample.Y-1)
	if offset.X == 0 && offset.Y == 0 {
		return core.Vec2{}
	}

	var theta, r float64
	if math.Abs(offset.X) > math.Abs(offset.Y) {
		r = offset.X
		theta = math.Pi / 4 * (offset.Y / offset.X)
	} else {
		r = offset.Y
		theta = math.Pi/2 - math.Pi/4*(offset.X/offset.Y)
	}
	return core.NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}
