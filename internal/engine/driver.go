package engine

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/HiperSlug/cellular-physics/internal/geom"
	"github.com/HiperSlug/cellular-physics/internal/physerr"
	"github.com/HiperSlug/cellular-physics/internal/world"
)

const (
	tpsSampleSize       = 20
	tpsWarningThreshold = 0.95 // fraction of the configured rate
)

// Driver owns a ChunkMap and runs it forward one tick at a time on a
// fixed-rate ticker, tracking achieved throughput the way a tick loop
// samples a rolling average and warns once it falls behind its target.
type Driver struct {
	cfg   Config
	log   *slog.Logger
	world *world.ChunkMap

	tps atomic.Uint64 // math.Float64bits of the last sampled TPS
}

// New builds a Driver and pre-populates a (2*radius+1)^2 square of
// chunks centered on the origin.
func New(cfg Config, log *slog.Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	opts := []world.Option{}
	if cfg.Workers > 0 {
		opts = append(opts, world.WithWorkers(cfg.Workers))
	}
	if cfg.Seed != 0 {
		opts = append(opts, world.WithSeed(cfg.Seed))
	}
	m := world.New(opts...)

	r := int32(cfg.ChunkRadius)
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			m.Insert(geom.IVec2{X: x, Y: y})
		}
	}

	return &Driver{cfg: cfg, log: log, world: m}, nil
}

// World exposes the underlying ChunkMap for seeding and inspection.
func (d *Driver) World() *world.ChunkMap { return d.world }

// TPS returns the most recently sampled ticks-per-second figure. Zero
// until the first sample window closes.
func (d *Driver) TPS() float64 {
	return math.Float64frombits(d.tps.Load())
}

// Run ticks the simulation at the configured rate until ctx is
// canceled. A Fatal error from the world layer aborts the loop
// immediately; any other error is logged and the loop continues.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.TickInterval())
	defer ticker.Stop()

	var (
		windowStart = time.Now()
		windowTicks int
		warned      bool
		total       uint64
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.world.Tick(ctx); err != nil {
				if physerr.IsFatal(err) {
					d.log.Error("fatal error during tick, stopping", "error", err, "tick", total)
					return err
				}
				d.log.Warn("tick returned an error", "error", err, "tick", total)
				continue
			}
			total++
			windowTicks++

			if windowTicks >= tpsSampleSize {
				elapsed := time.Since(windowStart)
				tps := float64(windowTicks) / elapsed.Seconds()
				d.tps.Store(math.Float64bits(tps))

				target := float64(d.cfg.TickRate)
				if tps < target*tpsWarningThreshold {
					if !warned {
						d.log.Warn("tick rate falling behind target", "tps", tps, "target", target)
						warned = true
					}
				} else {
					warned = false
				}

				windowStart = time.Now()
				windowTicks = 0
			}
		}
	}
}
