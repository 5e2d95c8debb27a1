package renderer

import (
	"github.com/lumen-render/lumen/pkg/core"
)

// MonteCarloConfig is the termination policy shared by concrete
// light-transport algorithms. The render core validates and stores it;
// applying the limits during path construction is the integrator's
// responsibility.
type MonteCarloConfig struct {
	// MaxDepth is the longest allowed path depth. -1 means unbounded;
	// 1 shows only directly visible emitters, 2 adds single-bounce
	// illumination, and so on.
	MaxDepth int

	// RRDepth is the path depth at which Russian roulette becomes
	// eligible. Must be greater than zero.
	RRDepth int
}

// DefaultMonteCarloConfig returns an unbounded path depth with
// Russian roulette starting at depth 5.
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{MaxDepth: -1, RRDepth: 5}
}

// NewMonteCarloConfig validates and returns a termination policy
func NewMonteCarloConfig(maxDepth, rrDepth int) (MonteCarloConfig, error) {
	cfg := MonteCarloConfig{MaxDepth: maxDepth, RRDepth: rrDepth}
	if err := cfg.Validate(); err != nil {
		return MonteCarloConfig{}, err
	}
	return cfg, nil
}

// Validate checks the policy's invariants
func (c MonteCarloConfig) Validate() error {
	if c.RRDepth <= 0 {
		return core.ConfigErrorf("rr_depth must be set to a value greater than zero, got %d", c.RRDepth)
	}
	if c.MaxDepth < 0 && c.MaxDepth != -1 {
		return core.ConfigErrorf("max_depth must be set to -1 (infinite) or a value >= 0, got %d", c.MaxDepth)
	}
	return nil
}
