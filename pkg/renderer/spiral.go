package renderer

import (
	"sync"

	"github.com/lumen-render/lumen/pkg/core"
)

// Block describes one unit of scheduled work: a clipped rectangular
// tile of the frame plus the sampling pass it belongs to.
type Block struct {
	Offset core.Point2i
	Size   core.Point2i
	Pass   int
}

// Spiral hands out tiles in an outward spiral starting near the image
// center. The center-first order surfaces a representative preview
// early and keeps successive tiles close together, which helps cache
// locality when neighboring tiles are merged. Next is safe for
// concurrent callers; the cursor is the one piece of shared mutable
// scheduling state.
type Spiral struct {
	mu sync.Mutex

	size      core.Point2i // crop window extent in pixels
	offset    core.Point2i // crop window offset in pixels
	blockSize int

	countX, countY int // tile grid dimensions
	blocksPerPass  int
	totalBlocks    int // across all passes

	counter   int
	x, y      int // current position on the tile grid
	direction int
	stepsLeft int
	steps     int
}

const (
	dirRight = iota
	dirDown
	dirLeft
	dirUp
)

// NewSpiral creates a scheduler covering the given crop window with
// square tiles of the given edge length, visited once per pass.
func NewSpiral(size, offset core.Point2i, blockSize, passes int) *Spiral {
	countX := (size.X + blockSize - 1) / blockSize
	countY := (size.Y + blockSize - 1) / blockSize
	s := &Spiral{
		size:          size,
		offset:        offset,
		blockSize:     blockSize,
		countX:        countX,
		countY:        countY,
		blocksPerPass: countX * countY,
		totalBlocks:   countX * countY * passes,
	}
	s.reset()
	return s
}

// BlockCount returns the number of tiles per pass
func (s *Spiral) BlockCount() int { return s.blocksPerPass }

// TotalBlocks returns the number of tile units across all passes
func (s *Spiral) TotalBlocks() int { return s.totalBlocks }

func (s *Spiral) reset() {
	s.x = s.countX / 2
	s.y = s.countY / 2
	s.direction = dirRight
	s.stepsLeft = 1
	s.steps = 1
}

// Next returns the next tile unit, or ok == false once all tiles of
// all passes have been handed out. Boundary tiles are clipped to the
// crop window.
func (s *Spiral) Next() (Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counter >= s.totalBlocks {
		return Block{}, false
	}
	if s.counter > 0 && s.counter%s.blocksPerPass == 0 {
		// Start of a new pass: rewind the spiral walk.
		s.reset()
	}

	// The spiral walks a square lattice that extends beyond the tile
	// grid; skip positions that fall outside it.
	for s.x < 0 || s.y < 0 || s.x >= s.countX || s.y >= s.countY {
		s.advance()
	}

	rel := core.NewPoint2i(s.x*s.blockSize, s.y*s.blockSize)
	blk := Block{
		Offset: s.offset.Add(rel),
		Size: core.NewPoint2i(
			min(s.blockSize, s.size.X-rel.X),
			min(s.blockSize, s.size.Y-rel.Y),
		),
		Pass: s.counter / s.blocksPerPass,
	}

	s.advance()
	s.counter++
	return blk, true
}

// advance moves one step along the spiral, turning and widening the
// stride every second turn.
func (s *Spiral) advance() {
	switch s.direction {
	case dirRight:
		s.x++
	case dirDown:
		s.y++
	case dirLeft:
		s.x--
	case dirUp:
		s.y--
	}
	s.stepsLeft--
	if s.stepsLeft == 0 {
		s.direction = (s.direction + 1) % 4
		if s.direction == dirLeft || s.direction == dirRight {
			s.steps++
		}
		s.stepsLeft = s.steps
	}
}
