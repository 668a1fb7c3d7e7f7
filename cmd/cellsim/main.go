// Command cellsim drives the chunked cellular-physics engine from the
// command line: run it for a while and watch TPS, or benchmark a
// fixed number of ticks against a seeded scene.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/HiperSlug/cellular-physics/internal/physerr"
)

func init() {
	// don't import go.uber.org/automaxprocs's log output directly
	_, _ = maxprocs.Set()
}

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "cellsim",
		Short:         "Drive the chunked cellular-physics engine",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newRunCommand(), newBenchCommand())

	if err := root.Execute(); err != nil {
		if physerr.IsFatal(err) {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
