package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/lumen-render/lumen/internal/config"
	"github.com/lumen-render/lumen/internal/metrics"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/film"
	"github.com/lumen-render/lumen/pkg/integrator"
	"github.com/lumen-render/lumen/pkg/renderer"
	"github.com/lumen-render/lumen/pkg/sampler"
	"github.com/lumen-render/lumen/pkg/scene"
	"github.com/lumen-render/lumen/pkg/sensor"
)

const version = "0.3.0"

func buildRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "lumen",
		Short:   "lumen is a parallel tile-based Monte Carlo renderer",
		Version: version,
	}
	root.AddCommand(buildRenderCommand())
	return root
}

func buildRenderCommand() *cobra.Command {
	var (
		configFile string
		output     string
		scale      float64
		workers    int
		vectorized bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo scene to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configFile != "" {
				var err error
				cfg, err = config.Load(configFile)
				if err != nil {
					return err
				}
			}
			if workers > 0 {
				cfg.Render.Workers = workers
			}
			if vectorized {
				cfg.Render.Vectorized = true
			}
			return runRender(cfg, output, scale)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file path")
	cmd.Flags().StringVarP(&output, "output", "o", "render.png", "output PNG path")
	cmd.Flags().Float64Var(&scale, "scale", 1, "rescale the output image by this factor")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (0 = CPU count)")
	cmd.Flags().BoolVar(&vectorized, "vectorized", false, "use the batched execution mode")
	return cmd
}

func runRender(cfg *config.Config, output string, scale float64) error {
	logger := renderer.NewDefaultLogger()

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				logger.Printf("Metrics server error: %v\n", err)
			}
		}()
	}

	mcConfig, err := renderer.NewMonteCarloConfig(cfg.Integrator.MaxDepth, cfg.Integrator.RRDepth)
	if err != nil {
		return err
	}

	var transport core.Integrator
	switch cfg.Integrator.Type {
	case "depth":
		transport = integrator.NewDepth(10)
	default:
		transport = integrator.NewPathTracer(mcConfig)
	}

	size := core.NewPoint2i(cfg.Render.Width, cfg.Render.Height)
	frame := film.New(size, film.NewGaussianFilter(2, 2))
	smp := sampler.NewIndependent(cfg.Render.SamplesPerPixel)
	camera := sensor.NewPerspective(sensor.Config{
		Center: core.NewVec3(0, 0.5, 2),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
	}, frame, smp)

	job := renderer.NewSamplingIntegrator(transport, renderer.Config{
		BlockSize:      cfg.Render.BlockSize,
		SamplesPerPass: cfg.Render.SamplesPerPass,
		Timeout:        cfg.Timeout(),
		Workers:        cfg.Render.Workers,
		Vectorized:     cfg.Render.Vectorized,
		Logger:         logger,
		Progress: func(fraction float64) {
			if collector != nil {
				collector.ObserveProgress(fraction)
			}
		},
	})

	// Ctrl+C stops the job cooperatively; completed tiles are kept.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Printf("Interrupt received, cancelling render...\n")
		job.Cancel()
	}()

	start := time.Now()
	converged, err := job.Render(context.Background(), scene.NewDefault(), camera)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if collector != nil {
		collector.RecordJobDuration(time.Since(start).Seconds())
	}
	if !converged {
		logger.Printf("Render cancelled; writing partial image.\n")
	}

	img := frame.Develop()
	if scale != 1 && scale > 0 {
		img = rescale(img, scale)
	}
	return writePNG(output, img)
}

// rescale resamples the developed frame with Catmull-Rom interpolation
func rescale(src *image.RGBA, factor float64) *image.RGBA {
	bounds := src.Bounds()
	w := int(float64(bounds.Dx()) * factor)
	h := int(float64(bounds.Dy()) * factor)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
