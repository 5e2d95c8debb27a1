package renderer

// compact1By1 drops the odd-indexed bits of x and packs the rest
func compact1By1(x uint32) uint32 {
	x &= 0x55555555
	x = (x ^ (x >> 1)) & 0x33333333
	x = (x ^ (x >> 2)) & 0x0f0f0f0f
	x = (x ^ (x >> 4)) & 0x00ff00ff
	x = (x ^ (x >> 8)) & 0x0000ffff
	return x
}

// mortonDecode maps an index on the Z-order curve back to 2D
// coordinates. Visiting a tile's pixels in this order keeps successive
// samples close together in memory.
func mortonDecode(index uint32) (x, y int) {
	return int(compact1By1(index)), int(compact1By1(index >> 1))
}
