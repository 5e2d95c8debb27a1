// Package scene provides simple analytic scenes for tests and the
// demo renderer.
package scene

import (
	"math"

	"github.com/lumen-render/lumen/pkg/core"
)

// Sphere is an analytic sphere primitive
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
}

// NewSphere creates a sphere with the given material
func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: material}
}

// Intersect returns the nearest hit within (tMin, tMax)
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return core.Intersection{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return core.Intersection{}, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(s.Center).Multiply(1 / s.Radius)
	if ray.Direction.Dot(normal) > 0 {
		normal = normal.Negate()
	}
	return core.Intersection{Point: point, Normal: normal, T: root, Material: s.Material}, true
}

// List is a scene backed by a flat primitive list with a vertical
// gradient background. It implements core.Scene. Linear search is
// plenty for the handful of analytic primitives the demo scenes use;
// mesh-heavy scenes would put an acceleration structure behind the
// same interface.
type List struct {
	Spheres []*Sphere

	// Background gradient, interpolated on the ray's vertical angle.
	TopColor    core.Spectrum
	BottomColor core.Spectrum
}

// Intersect returns the nearest hit across all primitives
func (l *List) Intersect(ray core.Ray, tMin, tMax float64) (core.Intersection, bool) {
	var nearest core.Intersection
	found := false
	closest := tMax
	for _, s := range l.Spheres {
		if isect, hit := s.Intersect(ray, tMin, closest); hit {
			nearest = isect
			closest = isect.T
			found = true
		}
	}
	return nearest, found
}

// Background returns the gradient radiance for an escaped ray
func (l *List) Background(ray core.Ray) core.Spectrum {
	t := 0.5 * (ray.Direction.Normalize().Y + 1)
	return l.BottomColor.Scale(1 - t).Add(l.TopColor.Scale(t))
}

// NewDefault builds the demo scene: a diffuse sphere and a metal
// sphere on a large ground sphere, lit by the sky gradient and a small
// emissive sphere.
func NewDefault() *List {
	return &List{
		Spheres: []*Sphere{
			NewSphere(core.NewVec3(0, -100.5, -1), 100, NewLambertian(core.NewSpectrum(0.5, 0.5, 0.5))),
			NewSphere(core.NewVec3(0, 0, -1), 0.5, NewLambertian(core.NewSpectrum(0.7, 0.3, 0.3))),
			NewSphere(core.NewVec3(1, 0, -1), 0.5, NewMetal(core.NewSpectrum(0.8, 0.8, 0.9), 0.05)),
			NewSphere(core.NewVec3(-1, 0.8, -0.5), 0.3, NewEmissive(core.NewSpectrum(4, 4, 3.5))),
		},
		TopColor:    core.NewSpectrum(0.5, 0.7, 1.0),
		BottomColor: core.NewSpectrum(1, 1, 1),
	}
}
