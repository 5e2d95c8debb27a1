// Package config loads render job configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumen-render/lumen/pkg/core"
)

// Config is the full configuration surface of the demo renderer
type Config struct {
	Render struct {
		Width           int  `yaml:"width"`
		Height          int  `yaml:"height"`
		SamplesPerPixel int  `yaml:"samples_per_pixel"`
		SamplesPerPass  int  `yaml:"samples_per_pass"`
		BlockSize       int  `yaml:"block_size"`
		Workers         int  `yaml:"workers"`
		TimeoutSeconds  int  `yaml:"timeout_seconds"`
		Vectorized      bool `yaml:"vectorized"`
	} `yaml:"render"`

	Integrator struct {
		Type     string `yaml:"type"`
		MaxDepth int    `yaml:"max_depth"`
		RRDepth  int    `yaml:"rr_depth"`
	} `yaml:"integrator"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.Render.Width = 400
	cfg.Render.Height = 225
	cfg.Render.SamplesPerPixel = 64
	cfg.Render.BlockSize = 32
	cfg.Integrator.Type = "path"
	cfg.Integrator.MaxDepth = -1
	cfg.Integrator.RRDepth = 5
	cfg.Metrics.Addr = ":9090"
	return cfg
}

// Load reads a YAML configuration file on top of the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Timeout returns the configured render timeout; zero disables it
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}

// Validate checks the configuration before any work starts
func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return core.ConfigErrorf("frame size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.SamplesPerPixel <= 0 {
		return core.ConfigErrorf("samples_per_pixel must be positive, got %d", c.Render.SamplesPerPixel)
	}
	if c.Render.TimeoutSeconds < 0 {
		return core.ConfigErrorf("timeout_seconds must be non-negative, got %d", c.Render.TimeoutSeconds)
	}
	if c.Render.SamplesPerPass < 0 {
		return core.ConfigErrorf("samples_per_pass must be non-negative, got %d", c.Render.SamplesPerPass)
	}
	if c.Render.SamplesPerPass > 0 && c.Render.SamplesPerPixel%c.Render.SamplesPerPass != 0 {
		return core.ConfigErrorf("samples_per_pixel (%d) must be a multiple of samples_per_pass (%d)",
			c.Render.SamplesPerPixel, c.Render.SamplesPerPass)
	}
	switch c.Integrator.Type {
	case "path", "depth":
	default:
		return core.ConfigErrorf("unknown integrator type %q", c.Integrator.Type)
	}
	if c.Integrator.RRDepth <= 0 {
		return core.ConfigErrorf("rr_depth must be set to a value greater than zero, got %d", c.Integrator.RRDepth)
	}
	if c.Integrator.MaxDepth < 0 && c.Integrator.MaxDepth != -1 {
		return core.ConfigErrorf("max_depth must be set to -1 (infinite) or a value >= 0, got %d", c.Integrator.MaxDepth)
	}
	return nil
}
