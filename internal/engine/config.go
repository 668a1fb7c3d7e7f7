// Package engine drives a ChunkMap through ticks at a fixed rate,
// logging progress and surfacing TPS the way a long-running server
// would.
package engine

import (
	"time"

	"github.com/pkg/errors"
)

// Config holds everything a Driver needs to run a simulation.
type Config struct {
	// TickRate is how many ticks per second the Driver targets. 20
	// matches a typical server tick-loop convention.
	TickRate int

	// Workers bounds how many chunks are processed concurrently per
	// phase. Zero means unbounded.
	Workers int

	// Seed makes SetDynamic's mass/velocity sampling reproducible. Zero
	// means "pick a random seed at startup".
	Seed uint64

	// ChunkRadius is how many chunks out from the origin to pre-populate
	// in every direction when the Driver starts (a square of
	// (2*ChunkRadius+1)^2 chunks).
	ChunkRadius int
}

// DefaultConfig returns the engine's baseline configuration.
func DefaultConfig() Config {
	return Config{
		TickRate:    20,
		Workers:     0,
		Seed:        0,
		ChunkRadius: 2,
	}
}

// Validate reports an error for any field outside its usable range —
// the bar for a config parsed from CLI flags or a file.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return errors.New("engine: tick rate must be positive")
	}
	if c.Workers < 0 {
		return errors.New("engine: workers must not be negative")
	}
	if c.ChunkRadius < 0 {
		return errors.New("engine: chunk radius must not be negative")
	}
	return nil
}

// TickInterval is the wall-clock period between ticks at the
// configured rate.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
