// Package renderer implements the parallel tile-based render job
// scheduler and the per-sample dispatch pipeline.
package renderer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lumen-render/lumen/pkg/core"
)

// DefaultBlockSize is the default tile edge length in pixels
const DefaultBlockSize = 32

// laneWidth is the batch width of the vectorized execution mode
const laneWidth = 16

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...any) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config controls the render job scheduler
type Config struct {
	// BlockSize is the tile edge length; rounded up to the next power
	// of two if it is not one already. 0 selects DefaultBlockSize.
	BlockSize int

	// SamplesPerPass is the number of samples evaluated per pixel in
	// one sweep over the frame. 0 renders all samples in a single
	// pass. The sensor's total sample count must be an exact multiple.
	SamplesPerPass int

	// Timeout cancels the job after the given wall-clock duration.
	// Zero or negative disables the timeout.
	Timeout time.Duration

	// Workers is the worker pool size. 0 uses the CPU count.
	Workers int

	// Vectorized selects the batched execution mode, which evaluates
	// each pass as one flat sample index space instead of a tile
	// decomposition.
	Vectorized bool

	// Progress, when set, receives a monotonically increasing
	// completion fraction in [0, 1] as tile units finish.
	Progress func(fraction float64)

	Logger core.Logger
}

// SamplingIntegrator schedules a render job: it partitions the frame
// into tiles, distributes them across a worker pool, seeds each tile
// deterministically and merges completed tiles into the film. The
// light transport itself is delegated to the wrapped core.Integrator.
type SamplingIntegrator struct {
	integrator core.Integrator
	cfg        Config
	blockSize  int
	workers    int
	logger     core.Logger
	stop       atomic.Bool
}

// NewSamplingIntegrator creates a render job scheduler around the
// given transport evaluator.
func NewSamplingIntegrator(integrator core.Integrator, cfg Config) *SamplingIntegrator {
	logger := cfg.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}

	blockSize := cfg.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if p := core.RoundToPowerOfTwo(blockSize); p != blockSize {
		logger.Printf("Setting block size from %d to next higher power of two: %d\n", blockSize, p)
		blockSize = p
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &SamplingIntegrator{
		integrator: integrator,
		cfg:        cfg,
		blockSize:  blockSize,
		workers:    workers,
		logger:     logger,
	}
}

// Cancel requests a cooperative stop. In-flight samples finish but no
// new sample or tile starts afterward. Idempotent.
func (si *SamplingIntegrator) Cancel() {
	si.stop.Store(true)
}

func (si *SamplingIntegrator) shouldStop() bool {
	return si.stop.Load()
}

// Render runs the job to completion. It returns true if the job
// finished, false if it was cancelled (cancellation is not an error).
// Configuration and internal-consistency problems are returned as
// errors before or during the first affected tile.
func (si *SamplingIntegrator) Render(ctx context.Context, scene core.Scene, sensor core.Sensor) (bool, error) {
	si.stop.Store(false)

	film := sensor.Film()
	size := film.CropSize()

	totalSPP := sensor.Sampler().SampleCount()
	samplesPerPass := si.cfg.SamplesPerPass
	if samplesPerPass <= 0 || samplesPerPass > totalSPP {
		samplesPerPass = totalSPP
	}
	if totalSPP%samplesPerPass != 0 {
		return false, core.ConfigErrorf("sample_count (%d) must be a multiple of samples_per_pass (%d)",
			totalSPP, samplesPerPass)
	}
	passes := totalSPP / samplesPerPass

	film.Clear()

	if ctx != nil {
		stopWatch := context.AfterFunc(ctx, si.Cancel)
		defer stopWatch()
	}
	if si.cfg.Timeout > 0 {
		timer := time.AfterFunc(si.cfg.Timeout, si.Cancel)
		defer timer.Stop()
	}

	si.logger.Printf("Starting render job (%dx%d, %d samples, %d passes, %d workers)\n",
		size.X, size.Y, totalSPP, passes, si.workers)
	if si.cfg.Timeout > 0 {
		si.logger.Printf("Timeout specified: %v\n", si.cfg.Timeout)
	}

	start := time.Now()
	var err error
	if si.cfg.Vectorized {
		err = si.renderVectorized(scene, sensor, samplesPerPass, passes)
	} else {
		err = si.renderScalar(scene, sensor, samplesPerPass, passes)
	}
	if err != nil {
		return false, err
	}
	if si.shouldStop() {
		return false, nil
	}

	si.logger.Printf("Rendering finished. (took %v)\n", time.Since(start).Round(time.Millisecond))
	return true, nil
}

// renderScalar is the tile/worker decomposition: a fixed pool of
// workers pulls tile units from the spiral until it is exhausted or
// cancellation is observed. Each worker owns one sampler clone and one
// reusable accumulation block; the spiral cursor and the film merge
// are the only shared state.
func (si *SamplingIntegrator) renderScalar(scene core.Scene, sensor core.Sensor, samplesPerPass, passes int) error {
	film := sensor.Film()
	size := film.CropSize()
	spiral := NewSpiral(size, film.CropOffset(), si.blockSize, passes)
	total := spiral.TotalBlocks()

	var (
		mu       sync.Mutex
		done     int
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		si.Cancel()
	}

	var wg sync.WaitGroup
	for w := 0; w < si.workers; w++ {
		// Clone on the dispatching goroutine: Clone advances the
		// prototype's stream, which must not be mutated concurrently.
		smp := sensor.Sampler().Clone()

		wg.Add(1)
		go func() {
			defer wg.Done()

			block := core.NewImageBlock(core.NewPoint2i(si.blockSize, si.blockSize), film.ReconstructionFilter())

			for !si.shouldStop() {
				blk, ok := spiral.Next()
				if !ok {
					return
				}
				if blk.Size.X <= 0 || blk.Size.Y <= 0 {
					fail(core.InternalErrorf("generated empty image block at (%d, %d)", blk.Offset.X, blk.Offset.Y))
					return
				}

				if blk.Size != block.Size() {
					block.Resize(blk.Size)
				}
				block.SetOffset(blk.Offset)

				// Sample generation must be fully deterministic and
				// independent of which worker renders the tile.
				smp.Seed(TileSeed(blk.Offset, size, blk.Pass, passes))

				// A tile interrupted by cancellation is discarded whole;
				// only fully evaluated tiles reach the film.
				if !si.renderBlock(scene, sensor, smp, block, samplesPerPass) {
					return
				}
				film.Put(block)

				mu.Lock()
				done++
				fraction := float64(done) / float64(total)
				if si.cfg.Progress != nil {
					si.cfg.Progress(fraction)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return firstErr
}

// TileSeed computes the deterministic sampler seed for the tile at the
// given pixel offset. It depends only on the offset, the frame width
// and the pass index, never on scheduling order or worker identity.
func TileSeed(offset, frameSize core.Point2i, pass, passes int) uint64 {
	seed := uint64(offset.X) + uint64(offset.Y)*uint64(frameSize.X)
	if passes > 1 {
		seed += uint64(pass) * uint64(frameSize.Area())
	}
	return seed
}

// DiffScaleFactor returns the footprint scale applied to camera ray
// differentials so that the filter footprint shrinks as the sampling
// density grows.
func DiffScaleFactor(samplesPerPixel int) float64 {
	return 1 / math.Sqrt(float64(samplesPerPixel))
}

// renderBlock evaluates one tile: every covered pixel, visited in
// Morton order, times the per-pass sample budget. The stop flag is
// honored at both pixel and sample granularity; renderBlock reports
// whether the tile ran to completion.
func (si *SamplingIntegrator) renderBlock(scene core.Scene, sensor core.Sensor, smp core.Sampler, block *core.ImageBlock, samplesPerPass int) bool {
	block.Clear()
	size := block.Size()
	side := core.RoundToPowerOfTwo(max(size.X, size.Y))
	diffScale := DiffScaleFactor(smp.SampleCount())

	for i := 0; i < side*side; i++ {
		if si.shouldStop() {
			return false
		}
		x, y := mortonDecode(uint32(i))
		if x >= size.X || y >= size.Y {
			continue
		}
		pos := core.NewVec2(float64(block.Offset().X+x), float64(block.Offset().Y+y))
		for j := 0; j < samplesPerPass; j++ {
			if si.shouldStop() {
				return false
			}
			si.renderSample(scene, sensor, smp, block, pos, diffScale, true)
		}
	}
	return true
}

// renderSample dispatches one (pixel, sample) pair: it draws the
// jitter, aperture, time and wavelength samples, asks the sensor for a
// primary ray, invokes the transport evaluator and accumulates the
// weighted estimate into the block. Inactive lanes and invalid
// estimates contribute nothing.
func (si *SamplingIntegrator) renderSample(scene core.Scene, sensor core.Sensor, smp core.Sampler, block *core.ImageBlock, pos core.Vec2, diffScale float64, active bool) {
	if !active {
		return
	}

	position := pos.Add(smp.Next2D())

	aperture := core.NewVec2(0.5, 0.5)
	if sensor.NeedsApertureSample() {
		aperture = smp.Next2D()
	}

	t := sensor.ShutterOpen()
	if sensor.ShutterOpenTime() > 0 {
		t += smp.Next1D() * sensor.ShutterOpenTime()
	}

	wavelength := smp.Next1D()

	film := sensor.Film()
	cropOffset := film.CropOffset()
	cropSize := film.CropSize()
	adjusted := core.NewVec2(
		(position.X-float64(cropOffset.X))/float64(cropSize.X),
		(position.Y-float64(cropOffset.Y))/float64(cropSize.Y),
	)

	ray, weight := sensor.SampleRayDifferential(t, wavelength, adjusted, aperture)
	ray.ScaleDifferential(diffScale)

	radiance, valid := si.integrator.Li(scene, smp, ray)
	if !valid || !radiance.IsValid() {
		return
	}

	block.Put(position, weight.Multiply(radiance), 1)
}

// renderVectorized is the batched execution mode: each pass flattens
// the whole (pixel, sample) space into one index range and evaluates
// it in fixed-width lane batches under a validity mask. It seeds per
// sample index within a pass rather than per tile, so its output is
// statistically but not bitwise equivalent to the scalar mode.
func (si *SamplingIntegrator) renderVectorized(scene core.Scene, sensor core.Sensor, samplesPerPass, passes int) error {
	film := sensor.Film()
	size := film.CropSize()
	cropOffset := film.CropOffset()

	smp := sensor.Sampler().Clone()
	diffScale := DiffScaleFactor(sensor.Sampler().SampleCount())
	block := core.NewImageBlock(size, film.ReconstructionFilter())
	block.SetOffset(cropOffset)

	totalSamples := size.Area() * samplesPerPass

	// Lane-validity mask: always true today, reserved for future
	// partial-frame evaluation.
	active := make([]bool, laneWidth)
	for i := range active {
		active[i] = true
	}

	for pass := 0; pass < passes && !si.shouldStop(); pass++ {
		block.Clear()

		for base := 0; base < totalSamples && !si.shouldStop(); base += laneWidth {
			width := min(laneWidth, totalSamples-base)
			for lane := 0; lane < width; lane++ {
				idx := base + lane
				pixel := idx / samplesPerPass
				pos := core.NewVec2(
					float64(cropOffset.X+pixel%size.X),
					float64(cropOffset.Y+pixel/size.X),
				)
				smp.Seed(uint64(pass)*uint64(totalSamples) + uint64(idx))
				si.renderSample(scene, sensor, smp, block, pos, diffScale, active[lane])
			}
		}

		// A cancelled pass is discarded whole; only fully evaluated
		// passes reach the film.
		if si.shouldStop() {
			return nil
		}
		film.Put(block)

		if si.cfg.Progress != nil {
			si.cfg.Progress(float64(pass+1) / float64(passes))
		}
	}
	return nil
}
