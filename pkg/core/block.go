package core

import "math"

// BlockChannels is the number of accumulator channels stored per pixel:
// three color terms, an alpha accumulator and the filter weight.
const BlockChannels = 5

// ImageBlock is a thread-owned accumulation tile. A worker creates one
// block, reuses it across many tiles (the buffer is only reallocated
// when the required extent grows) and hands it to Film.Put once a tile
// is complete. Blocks are never shared between workers.
//
// The block carries a border sized to the reconstruction filter so
// that samples near the tile edge can splat their full support; the
// film accounts for the border when merging.
type ImageBlock struct {
	offset     Point2i
	size       Point2i
	borderSize int
	filter     Filter
	data       []float64
}

// NewImageBlock creates an accumulation block for tiles up to the
// given extent, with a border matching the filter's support.
func NewImageBlock(size Point2i, filter Filter) *ImageBlock {
	border := 0
	if filter != nil {
		border = int(math.Ceil(filter.Radius() - 0.5))
	}
	b := &ImageBlock{
		borderSize: border,
		filter:     filter,
	}
	b.Resize(size)
	b.Clear()
	return b
}

// Offset returns the block's pixel offset within the frame
func (b *ImageBlock) Offset() Point2i { return b.offset }

// SetOffset places the block at the given pixel offset
func (b *ImageBlock) SetOffset(offset Point2i) { b.offset = offset }

// Size returns the block's current extent, excluding the border
func (b *ImageBlock) Size() Point2i { return b.size }

// BorderSize returns the border width in pixels on each side
func (b *ImageBlock) BorderSize() int { return b.borderSize }

// Resize adjusts the block to a new extent. The underlying buffer is
// reallocated only when the new extent does not fit, so rendering many
// same-sized tiles performs a single allocation.
func (b *ImageBlock) Resize(size Point2i) {
	needed := (size.X + 2*b.borderSize) * (size.Y + 2*b.borderSize) * BlockChannels
	if cap(b.data) < needed {
		b.data = make([]float64, needed)
	}
	b.data = b.data[:needed]
	b.size = size
}

// Clear zeroes all accumulator channels
func (b *ImageBlock) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// Put accumulates a weighted sample at the given continuous frame
// position. The value is splatted over the reconstruction filter's
// support; pixels outside the padded block are dropped.
func (b *ImageBlock) Put(pos Vec2, value Spectrum, alpha float64) {
	radius := 0.5
	if b.filter != nil {
		radius = b.filter.Radius()
	}

	// Pixels whose center lies within the filter support.
	loX := int(math.Ceil(pos.X - radius - 0.5))
	hiX := int(math.Floor(pos.X + radius - 0.5))
	loY := int(math.Ceil(pos.Y - radius - 0.5))
	hiY := int(math.Floor(pos.Y + radius - 0.5))

	width := b.size.X + 2*b.borderSize
	height := b.size.Y + 2*b.borderSize

	for y := loY; y <= hiY; y++ {
		by := y - b.offset.Y + b.borderSize
		if by < 0 || by >= height {
			continue
		}
		wy := b.evalFilter(float64(y) + 0.5 - pos.Y)
		for x := loX; x <= hiX; x++ {
			bx := x - b.offset.X + b.borderSize
			if bx < 0 || bx >= width {
				continue
			}
			w := b.evalFilter(float64(x)+0.5-pos.X) * wy
			if w == 0 {
				continue
			}
			i := (by*width + bx) * BlockChannels
			b.data[i+0] += value.R * w
			b.data[i+1] += value.G * w
			b.data[i+2] += value.B * w
			b.data[i+3] += alpha * w
			b.data[i+4] += w
		}
	}
}

func (b *ImageBlock) evalFilter(x float64) float64 {
	if b.filter == nil {
		if math.Abs(x) <= 0.5 {
			return 1
		}
		return 0
	}
	return b.filter.Eval(x)
}

// At returns the accumulator channels of the padded pixel (x, y),
// where (0, 0) is the top-left corner of the border region.
func (b *ImageBlock) At(x, y int) [BlockChannels]float64 {
	width := b.size.X + 2*b.borderSize
	i := (y*width + x) * BlockChannels
	var out [BlockChannels]float64
	copy(out[:], b.data[i:i+BlockChannels])
	return out
}
