package film

import "math"

// BoxFilter is the simplest reconstruction filter: every sample within
// half a pixel of the center contributes with full weight.
type BoxFilter struct {
	radius float64
}

// NewBoxFilter creates a box filter with the given support radius
func NewBoxFilter(radius float64) *BoxFilter {
	return &BoxFilter{radius: radius}
}

// Eval returns the filter weight at offset x from the center
func (f *BoxFilter) Eval(x float64) float64 {
	if math.Abs(x) <= f.radius {
		return 1
	}
	return 0
}

// Radius returns the support radius in pixels
func (f *BoxFilter) Radius() float64 { return f.radius }

// TentFilter weights samples linearly with distance from the center
type TentFilter struct {
	radius float64
}

// NewTentFilter creates a tent filter with the given support radius
func NewTentFilter(radius float64) *TentFilter {
	return &TentFilter{radius: radius}
}

// Eval returns the filter weight at offset x from the center
func (f *TentFilter) Eval(x float64) float64 {
	return math.Max(0, f.radius-math.Abs(x))
}

// Radius returns the support radius in pixels
func (f *TentFilter) Radius() float64 { return f.radius }

// GaussianFilter is a truncated Gaussian, the usual default for
// production rendering.
type GaussianFilter struct {
	radius float64
	alpha  float64
	expR   float64
}

// NewGaussianFilter creates a Gaussian filter with the given support
// radius and falloff.
func NewGaussianFilter(radius, alpha float64) *GaussianFilter {
	return &GaussianFilter{
		radius: radius,
		alpha:  alpha,
		expR:   math.Exp(-alpha * radius * radius),
	}
}

// Eval returns the filter weight at offset x from the center
func (f *GaussianFilter) Eval(x float64) float64 {
	return math.Max(0, math.Exp(-f.alpha*x*x)-f.expR)
}

// Radius returns the support radius in pixels
func (f *GaussianFilter) Radius() float64 { return f.radius }
