package core

import "math"

// Spectrum holds a radiance or importance value as an RGB triple.
// A full spectral representation is out of scope for the render core;
// the wavelength sample drawn per camera ray is forwarded to the sensor
// so spectral sensors can be added without touching the dispatch code.
type Spectrum struct {
	R, G, B float64
}

// NewSpectrum creates a spectrum with the given channel values
func NewSpectrum(r, g, b float64) Spectrum {
	return Spectrum{R: r, G: g, B: b}
}

// UniformSpectrum creates a spectrum with all channels set to v
func UniformSpectrum(v float64) Spectrum {
	return Spectrum{R: v, G: v, B: v}
}

// Add returns the sum of two spectra
func (s Spectrum) Add(other Spectrum) Spectrum {
	return Spectrum{s.R + other.R, s.G + other.G, s.B + other.B}
}

// Scale returns the spectrum scaled by a scalar
func (s Spectrum) Scale(factor float64) Spectrum {
	return Spectrum{s.R * factor, s.G * factor, s.B * factor}
}

// Multiply returns the component-wise product of two spectra
func (s Spectrum) Multiply(other Spectrum) Spectrum {
	return Spectrum{s.R * other.R, s.G * other.G, s.B * other.B}
}

// MaxComponent returns the largest channel value
func (s Spectrum) MaxComponent() float64 {
	return math.Max(s.R, math.Max(s.G, s.B))
}

// IsValid reports whether all channels are finite and non-negative
func (s Spectrum) IsValid() bool {
	for _, c := range [3]float64{s.R, s.G, s.B} {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return false
		}
	}
	return true
}

// IsBlack reports whether all channels are zero
func (s Spectrum) IsBlack() bool {
	return s.R == 0 && s.G == 0 && s.B == 0
}
