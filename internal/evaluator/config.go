package evaluator

import (
	"time"

	"github.com/GriffinCanCode/codejudge/internal/sandbox"
)

const (
	DefaultMaxSourceSize = 50000
	DefaultDeadline      = 10 * time.Second
)

// Config bounds a single evaluation.
type Config struct {
	MaxSourceSize int           // Bytes
	Deadline      time.Duration // Wall clock for module load plus every test case
	Sandbox       sandbox.Config
}

// DefaultConfig returns the limits used for learner submissions.
func DefaultConfig() Config {
	return Config{
		MaxSourceSize: DefaultMaxSourceSize,
		Deadline:      DefaultDeadline,
		Sandbox:       sandbox.DefaultConfig(),
	}
}

func (c Config) withDefaults() Config {
	if c.MaxSourceSize <= 0 {
		c.MaxSourceSize = DefaultMaxSourceSize
	}
	if c.Deadline <= 0 {
		c.Deadline = DefaultDeadline
	}
	if c.Sandbox.Globals == nil && c.Sandbox.Unavailable == nil && c.Sandbox.MaxCallStackSize == 0 {
		c.Sandbox = sandbox.DefaultConfig()
	}
	return c
}
