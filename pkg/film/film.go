// Package film implements the frame accumulator that completed
// accumulation tiles are merged into.
package film

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/lumen-render/lumen/pkg/core"
)

// Film is an RGB frame accumulator with an optional crop window. It
// implements core.Film. Put is the only operation shared between
// workers and is serialized by an internal lock; the critical section
// covers only the per-pixel additions of one tile.
type Film struct {
	mu     sync.Mutex
	size   core.Point2i
	offset core.Point2i
	filter core.Filter

	// Accumulated channels per pixel: R, G, B, alpha, weight.
	pixels []float64
}

// New creates a film covering the full frame
func New(size core.Point2i, filter core.Filter) *Film {
	return NewWithCrop(size, core.Point2i{}, filter)
}

// NewWithCrop creates a film whose active crop window starts at the
// given pixel offset.
func NewWithCrop(size, offset core.Point2i, filter core.Filter) *Film {
	return &Film{
		size:   size,
		offset: offset,
		filter: filter,
		pixels: make([]float64, size.X*size.Y*core.BlockChannels),
	}
}

// CropSize returns the active window extent in pixels
func (f *Film) CropSize() core.Point2i { return f.size }

// CropOffset returns the active window's pixel offset
func (f *Film) CropOffset() core.Point2i { return f.offset }

// ReconstructionFilter returns the filter blocks splat through
func (f *Film) ReconstructionFilter() core.Filter { return f.filter }

// Clear zeroes the accumulator
func (f *Film) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pixels {
		f.pixels[i] = 0
	}
}

// Put merges a completed accumulation tile, including its filter
// border, into the frame. Merging is plain weighted summation, so the
// final pixel values do not depend on the order tiles arrive in.
func (f *Film) Put(block *core.ImageBlock) {
	f.mu.Lock()
	defer f.mu.Unlock()

	border := block.BorderSize()
	size := block.Size()
	for by := 0; by < size.Y+2*border; by++ {
		y := block.Offset().Y - f.offset.Y - border + by
		if y < 0 || y >= f.size.Y {
			continue
		}
		for bx := 0; bx < size.X+2*border; bx++ {
			x := block.Offset().X - f.offset.X - border + bx
			if x < 0 || x >= f.size.X {
				continue
			}
			src := block.At(bx, by)
			dst := (y*f.size.X + x) * core.BlockChannels
			for c := 0; c < core.BlockChannels; c++ {
				f.pixels[dst+c] += src[c]
			}
		}
	}
}

// Weight returns the raw accumulated filter weight at (x, y); it
// grows with the number of samples that contributed to the pixel.
func (f *Film) Weight(x, y int) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pixels[(y*f.size.X+x)*core.BlockChannels+4]
}

// Pixel returns the weight-normalized color and alpha at (x, y)
func (f *Film) Pixel(x, y int) (core.Spectrum, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pixelLocked(x, y)
}

func (f *Film) pixelLocked(x, y int) (core.Spectrum, float64) {
	i := (y*f.size.X + x) * core.BlockChannels
	w := f.pixels[i+4]
	if w == 0 {
		return core.Spectrum{}, 0
	}
	return core.NewSpectrum(f.pixels[i]/w, f.pixels[i+1]/w, f.pixels[i+2]/w), f.pixels[i+3] / w
}

// Develop converts the accumulator to an 8-bit sRGB image
func (f *Film) Develop() *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	img := image.NewRGBA(image.Rect(0, 0, f.size.X, f.size.Y))
	for y := 0; y < f.size.Y; y++ {
		for x := 0; x < f.size.X; x++ {
			s, _ := f.pixelLocked(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: toSRGB(s.R),
				G: toSRGB(s.G),
				B: toSRGB(s.B),
				A: 255,
			})
		}
	}
	return img
}

func toSRGB(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Pow(v, 1/2.2)*255 + 0.5)
}
