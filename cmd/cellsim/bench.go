package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HiperSlug/cellular-physics/internal/engine"
	"github.com/HiperSlug/cellular-physics/internal/geom"
)

func newBenchCommand() *cobra.Command {
	cfg := engine.DefaultConfig()
	var ticks int
	var seedDynamicCells int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a fixed number of ticks against a seeded scene and report throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := engine.New(cfg, nil)
			if err != nil {
				return err
			}

			w := d.World()
			half := int32(seedDynamicCells) / 2
			for i := 0; i < seedDynamicCells; i++ {
				w.SetDynamic(geom.IVec2{X: int32(i) - half, Y: 20})
			}

			ctx := context.Background()
			start := time.Now()
			for i := 0; i < ticks; i++ {
				if err := w.Tick(ctx); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			fmt.Printf("%d ticks in %s (%.1f ticks/sec)\n", ticks, elapsed, float64(ticks)/elapsed.Seconds())
			fmt.Printf("dynamic cells: %d\n", len(w.IterDynamic()))
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks to run")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "max chunks processed concurrently per phase (0 = unbounded)")
	cmd.Flags().IntVar(&cfg.ChunkRadius, "chunk-radius", cfg.ChunkRadius, "chunks loaded outward from the origin in each direction")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 1, "PRNG seed for spawned dynamic cells")
	cmd.Flags().IntVar(&seedDynamicCells, "seed-cells", 256, "number of dynamic cells to spawn in a row before starting")

	return cmd
}
