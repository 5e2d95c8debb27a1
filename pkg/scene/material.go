package scene

import (
	"math"

	"github.com/lumen-render/lumen/pkg/core"
)

// Lambertian is an ideal diffuse material
type Lambertian struct {
	Albedo core.Spectrum
}

// NewLambertian creates a diffuse material with the given albedo
func NewLambertian(albedo core.Spectrum) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter reflects the ray into a cosine-weighted direction around the
// surface normal.
func (l *Lambertian) Scatter(ray core.Ray, isect core.Intersection, smp core.Sampler) (core.ScatterResult, bool) {
	direction := sampleCosineHemisphere(isect.Normal, smp.Next2D())
	scattered := core.Ray{Origin: isect.Point, Direction: direction, Time: ray.Time}
	return core.ScatterResult{Scattered: scattered, Attenuation: l.Albedo}, true
}

// Metal is a mirror-like material with optional roughness
type Metal struct {
	Albedo core.Spectrum
	Fuzz   float64
}

// NewMetal creates a metallic material; fuzz in [0, 1] perturbs the
// reflection direction.
func NewMetal(albedo core.Spectrum, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: math.Min(fuzz, 1)}
}

// Scatter mirrors the incident direction about the normal
func (m *Metal) Scatter(ray core.Ray, isect core.Intersection, smp core.Sampler) (core.ScatterResult, bool) {
	in := ray.Direction.Normalize()
	reflected := in.Subtract(isect.Normal.Multiply(2 * in.Dot(isect.Normal)))
	if m.Fuzz > 0 {
		reflected = reflected.Add(sampleUnitSphere(smp.Next2D()).Multiply(m.Fuzz))
	}
	if reflected.Dot(isect.Normal) <= 0 {
		return core.ScatterResult{}, false
	}
	scattered := core.Ray{Origin: isect.Point, Direction: reflected.Normalize(), Time: ray.Time}
	return core.ScatterResult{Scattered: scattered, Attenuation: m.Albedo}, true
}

// Emissive is a light-emitting material that absorbs incident rays
type Emissive struct {
	Radiance core.Spectrum
}

// NewEmissive creates an emitter with the given radiance
func NewEmissive(radiance core.Spectrum) *Emissive {
	return &Emissive{Radiance: radiance}
}

// Scatter absorbs the ray; emitters terminate paths
func (e *Emissive) Scatter(core.Ray, core.Intersection, core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// Emit returns the emitted radiance
func (e *Emissive) Emit(core.Ray, core.Intersection) core.Spectrum {
	return e.Radiance
}

// sampleCosineHemisphere generates a cosine-weighted direction in the
// hemisphere around the normal.
func sampleCosineHemisphere(normal core.Vec3, sample core.Vec2) core.Vec3 {
	a := 2 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1 - z)

	// Build an orthonormal basis around the normal.
	var nt core.Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = core.NewVec3(0, 1, 0)
	} else {
		nt = core.NewVec3(1, 0, 0)
	}
	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)

	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(zCoord))
}

// sampleUnitSphere generates a uniform direction on the unit sphere
func sampleUnitSphere(sample core.Vec2) core.Vec3 {
	z := 1 - 2*sample.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * sample.Y
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}
