package core

// Ray represents a ray with an origin, direction and time
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Time      float64
}

// NewRay creates a new ray at time zero
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// RayDifferential is a camera ray augmented with the origins and
// directions of the rays through the two neighboring pixels. Transport
// evaluators use the offset rays to estimate texture-space footprints
// for filtering.
type RayDifferential struct {
	Ray
	RxOrigin    Vec3
	RxDirection Vec3
	RyOrigin    Vec3
	RyDirection Vec3

	// HasDifferentials is false for rays that were not generated by a
	// sensor (e.g. shadow rays re-cast by an integrator).
	HasDifferentials bool

	// Wavelength is the hero wavelength sample in [0,1) that produced
	// this ray, forwarded for spectral sensors.
	Wavelength float64
}

// ScaleDifferential scales the offset-ray footprint by the given
// factor. The render core passes 1/sqrt(spp) so that the footprint
// shrinks as the sampling density grows.
func (r *RayDifferential) ScaleDifferential(scale float64) {
	if !r.HasDifferentials {
		return
	}
	r.RxOrigin = r.Origin.Add(r.RxOrigin.Subtract(r.Origin).Multiply(scale))
	r.RyOrigin = r.Origin.Add(r.RyOrigin.Subtract(r.Origin).Multiply(scale))
	r.RxDirection = r.Direction.Add(r.RxDirection.Subtract(r.Direction).Multiply(scale))
	r.RyDirection = r.Direction.Add(r.RyDirection.Subtract(r.Direction).Multiply(scale))
}
