// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/hpccg/config"
)

// flags mirrors the command line; only flags the user set override the
// configuration file.
type flags struct {
	configPath string
	nx, ny, nz int
	stencil    int
	ranks      int
	maxIter    int
	tolerance  float64
	workers    int
	overlap    bool
	output     string
	verbose    bool
	metrics    bool
}

func newRootCmd(newLogger func(verbose bool) (*zap.Logger, error)) *cobra.Command {
	var f flags
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "hpccg [nx ny nz]",
		Short: "Distributed conjugate-gradient benchmark on a 3D stencil",
		Long: `hpccg builds an nx×ny×nz subdomain per rank, stacks the subdomains in z,
resolves the ghost columns each rank needs from its neighbors and solves
A·x = b with conjugate gradients. The exact solution is all ones.

The three positional arguments are an alternative to --nx --ny --nz.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("expected 0 or 3 positional arguments (nx ny nz), got %d", len(args))
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(cmd, args)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Output.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return run(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	fl.IntVar(&f.nx, "nx", def.Grid.Nx, "subdomain points in x per rank")
	fl.IntVar(&f.ny, "ny", def.Grid.Ny, "subdomain points in y per rank")
	fl.IntVar(&f.nz, "nz", def.Grid.Nz, "subdomain points in z per rank")
	fl.IntVar(&f.stencil, "stencil", def.Grid.Stencil, "stencil points (27 or 7)")
	fl.IntVarP(&f.ranks, "ranks", "n", def.Ranks, "number of in-process ranks")
	fl.IntVar(&f.maxIter, "max-iter", def.Solver.MaxIterations, "iteration limit")
	fl.Float64Var(&f.tolerance, "tolerance", def.Solver.Tolerance, "stop once the residual norm is at or below this")
	fl.IntVarP(&f.workers, "workers", "w", def.Solver.Workers, "goroutines per rank for the local kernels")
	fl.BoolVar(&f.overlap, "overlap", def.Solver.Overlap, "compute interior rows while the halo exchange is in flight")
	fl.StringVarP(&f.output, "output", "o", "", "write the summary here instead of stdout")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging, including the matrix dump")
	fl.BoolVar(&f.metrics, "metrics", false, "add transport counters to the summary")

	return cmd
}

// config layers defaults, the configuration file, positional extents and
// explicitly set flags, in that order, and validates the result.
func (f *flags) config(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}
	if len(args) == 3 {
		dims := make([]int, 3)
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return cfg, fmt.Errorf("extent %q: %w", a, err)
			}
			dims[i] = n
		}
		cfg.Grid.Nx, cfg.Grid.Ny, cfg.Grid.Nz = dims[0], dims[1], dims[2]
	}

	set := cmd.Flags().Changed
	if set("nx") {
		cfg.Grid.Nx = f.nx
	}
	if set("ny") {
		cfg.Grid.Ny = f.ny
	}
	if set("nz") {
		cfg.Grid.Nz = f.nz
	}
	if set("stencil") {
		cfg.Grid.Stencil = f.stencil
	}
	if set("ranks") {
		cfg.Ranks = f.ranks
	}
	if set("max-iter") {
		cfg.Solver.MaxIterations = f.maxIter
	}
	if set("tolerance") {
		cfg.Solver.Tolerance = f.tolerance
	}
	if set("workers") {
		cfg.Solver.Workers = f.workers
	}
	if set("overlap") {
		cfg.Solver.Overlap = f.overlap
	}
	if set("output") {
		cfg.Output.Path = f.output
	}
	if set("verbose") {
		cfg.Output.Verbose = f.verbose
	}
	if set("metrics") {
		cfg.Output.Metrics = f.metrics
	}

	return cfg, cfg.Validate()
}
