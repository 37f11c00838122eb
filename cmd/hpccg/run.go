// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/katalvlaran/hpccg/cg"
	"github.com/katalvlaran/hpccg/comm"
	"github.com/katalvlaran/hpccg/config"
	"github.com/katalvlaran/hpccg/diag"
	"github.com/katalvlaran/hpccg/localize"
	"github.com/katalvlaran/hpccg/report"
	"github.com/katalvlaran/hpccg/stencil"
)

// run executes one benchmark with cfg.Ranks ranks and writes rank 0's
// summary to cfg.Output.Path, or to out when no path is set.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, out io.Writer) error {
	kind, err := cfg.StencilKind()
	if err != nil {
		return err
	}

	var reg *prometheus.Registry
	var wopts []comm.Option
	if cfg.Output.Metrics {
		reg = prometheus.NewRegistry()
		wopts = append(wopts, comm.WithRegisterer(reg))
	}
	world, err := comm.NewWorld(cfg.Ranks, wopts...)
	if err != nil {
		return err
	}
	defer world.Close()

	logger.Info("Starting",
		zap.Int("ranks", cfg.Ranks),
		zap.Int("nx", cfg.Grid.Nx),
		zap.Int("ny", cfg.Grid.Ny),
		zap.Int("nz", cfg.Grid.Nz),
		zap.Stringer("stencil", kind),
		zap.Int("workers", cfg.Solver.Workers),
		zap.Bool("overlap", cfg.Solver.Overlap))

	d := diag.NewZap(logger)
	var summary *report.Summary
	err = world.Run(ctx, func(ctx context.Context, c *comm.Comm) error {
		s, err := runRank(ctx, c, cfg, kind, d)
		if c.Rank() == comm.Root {
			summary = s
		}
		return err
	})
	if err != nil {
		return err
	}

	if reg != nil {
		stats := world.Stats()
		summary.Transport = &stats
		if err = logMetrics(logger, reg); err != nil {
			return err
		}
	}

	return writeSummary(cfg.Output.Path, out, summary)
}

// runRank is the life of one rank: generate its block, resolve the ghost
// columns (timed as setup), solve and summarize.
func runRank(ctx context.Context, c *comm.Comm, cfg config.Config, kind stencil.Kind, d diag.Diagnostics) (*report.Summary, error) {
	p, err := stencil.Generate(cfg.Grid.Nx, cfg.Grid.Ny, cfg.Grid.Nz, c,
		stencil.WithKind(kind),
		stencil.WithWorkers(cfg.Solver.Workers),
		stencil.WithDiagnostics(d))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if _, err = localize.Resolve(ctx, c, p.A, localize.WithDiagnostics(d)); err != nil {
		return nil, err
	}
	setup := time.Since(start)

	opts := []cg.Option{
		cg.WithMaxIterations(cfg.Solver.MaxIterations),
		cg.WithTolerance(cfg.Solver.Tolerance),
		cg.WithWorkers(cfg.Solver.Workers),
		cg.WithDiagnostics(d),
	}
	if cfg.Solver.Overlap {
		opts = append(opts, cg.WithOverlap())
	}
	res, err := cg.Solve(ctx, c, p.A, p.B, p.X, opts...)
	if err != nil {
		return nil, err
	}

	return report.Build(ctx, c, report.Input{
		Ranks:     c.Size(),
		Nx:        p.Nx,
		Ny:        p.Ny,
		Nz:        p.Nz,
		Workers:   cfg.Solver.Workers,
		Overlap:   cfg.Solver.Overlap,
		TotalRows: p.A.TotalRows(),
		TotalNnz:  p.A.TotalNnz(),
		Setup:     setup,
		Result:    res,
		XExact:    p.XExact,
	})
}

// logMetrics logs every counter in reg at Debug.
func logMetrics(logger *zap.Logger, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			logger.Debug("Metric",
				zap.String("name", mf.GetName()),
				zap.Float64("value", m.GetCounter().GetValue()))
		}
	}

	return nil
}

func writeSummary(path string, out io.Writer, s *report.Summary) error {
	if path == "" {
		return report.WriteYAML(out, s)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err = report.WriteYAML(f, s); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
