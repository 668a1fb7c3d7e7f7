package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HiperSlug/cellular-physics/internal/engine"
	"github.com/HiperSlug/cellular-physics/internal/geom"
)

func newRunCommand() *cobra.Command {
	cfg := engine.DefaultConfig()
	var seedDynamicCells int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation until interrupted, logging tick throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			d, err := engine.New(cfg, log)
			if err != nil {
				return err
			}

			w := d.World()
			half := int32(seedDynamicCells) / 2
			for i := 0; i < seedDynamicCells; i++ {
				w.SetDynamic(geom.IVec2{X: int32(i) - half, Y: 20})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("starting simulation", "tickRate", cfg.TickRate, "workers", cfg.Workers)
			return d.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "ticks per second")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "max chunks processed concurrently per phase (0 = unbounded)")
	cmd.Flags().IntVar(&cfg.ChunkRadius, "chunk-radius", cfg.ChunkRadius, "chunks loaded outward from the origin in each direction")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "PRNG seed for spawned dynamic cells (0 = random)")
	cmd.Flags().IntVar(&seedDynamicCells, "seed-cells", 64, "number of dynamic cells to spawn in a row before starting")

	return cmd
}
