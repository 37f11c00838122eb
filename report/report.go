// SPDX-License-Identifier: MIT

// Package report turns a finished run into the benchmark summary: sizes,
// iteration count, residuals, kernel times, FLOP and MFLOP rates, the spread
// of allreduce time across ranks and the cost of distributing the product.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hpccg/cg"
	"github.com/katalvlaran/hpccg/comm"
	"github.com/katalvlaran/hpccg/vector"
)

// Application identifies the benchmark in every summary.
const (
	Application = "hpccg"
	Version     = "1.0"
)

// Input is what one rank knows after solving.
type Input struct {
	Ranks      int
	Nx, Ny, Nz int
	Workers    int
	Overlap    bool
	TotalRows  int           // global operator rows
	TotalNnz   int           // nominal global nonzeros
	Setup      time.Duration // index resolution
	Result     *cg.Result
	XExact     []float64 // this rank's part of the exact solution
}

// Summary is the run report. Times are in seconds.
type Summary struct {
	Application   string      `yaml:"mini_application_name"`
	Version       string      `yaml:"mini_application_version"`
	Parallelism   Parallelism `yaml:"parallelism"`
	Dimensions    Dimensions  `yaml:"dimensions"`
	Iterations    int         `yaml:"number_of_iterations"`
	FinalResidual float64     `yaml:"final_residual"`
	Times         Kernels     `yaml:"time_summary"`
	Flops         Flops       `yaml:"flops_summary"`
	MFlops        Kernels     `yaml:"mflops_summary"`
	DDOT          Variation   `yaml:"ddot_timing_variations"`
	SparseMV      Overheads   `yaml:"sparsemv_overheads"`
	DiffFromExact float64     `yaml:"difference_from_exact"`
	Transport     *comm.Stats `yaml:"transport,omitempty"`
}

// Parallelism describes how the run was spread out.
type Parallelism struct {
	Ranks   int  `yaml:"ranks"`
	Workers int  `yaml:"workers"`
	Overlap bool `yaml:"overlap"`
}

// Dimensions is the per-rank subdomain.
type Dimensions struct {
	Nx int `yaml:"nx"`
	Ny int `yaml:"ny"`
	Nz int `yaml:"nz"`
}

// Kernels holds one figure per kernel.
type Kernels struct {
	Total    float64 `yaml:"total"`
	DDOT     float64 `yaml:"ddot"`
	WAXPBY   float64 `yaml:"waxpby"`
	SPARSEMV float64 `yaml:"sparsemv"`
}

// Flops counts floating-point operations per kernel.
type Flops struct {
	Total    int64 `yaml:"total"`
	DDOT     int64 `yaml:"ddot"`
	WAXPBY   int64 `yaml:"waxpby"`
	SPARSEMV int64 `yaml:"sparsemv"`
}

// Variation is the spread of a per-rank time across ranks.
type Variation struct {
	Min float64 `yaml:"min_allreduce"`
	Max float64 `yaml:"max_allreduce"`
	Avg float64 `yaml:"avg_allreduce"`
}

// Overheads splits the distributed product time into compute, halo
// exchange and one-off setup.
type Overheads struct {
	MFlopsWithOverhead float64 `yaml:"mflops_with_overhead"`
	OverheadTime       float64 `yaml:"parallel_overhead_time"`
	OverheadPct        float64 `yaml:"parallel_overhead_pct"`
	SetupTime          float64 `yaml:"setup_time"`
	SetupPct           float64 `yaml:"setup_pct"`
	ExchangeTime       float64 `yaml:"exchange_time"`
	ExchangePct        float64 `yaml:"exchange_pct"`
}

// Build assembles the summary. It is collective: every rank must call it
// and gets the same cross-rank figures, while local times are this rank's
// own. in.Ranks below 1 counts as 1.
//
// FLOP counts per iteration: 4·rows for the two dot products, 6·rows for
// the three scaled sums, 2·nnz for the product.
//
// Errors: ErrNilResult, vector.ErrLengthMismatch, reduction failures.
func Build(ctx context.Context, r comm.Reducer, in Input) (*Summary, error) {
	if in.Result == nil {
		return nil, fmt.Errorf("Build: %w", ErrNilResult)
	}
	size := max(in.Ranks, 1)
	res := in.Result
	t := res.Times

	diff, err := vector.GlobalResidual(ctx, r, res.X, in.XExact)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	ar := t.Allreduce.Seconds()
	var v Variation
	if v.Min, err = r.AllreduceFloat(ctx, ar, comm.OpMin); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	if v.Max, err = r.AllreduceFloat(ctx, ar, comm.OpMax); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	if v.Avg, err = r.AllreduceFloat(ctx, ar, comm.OpSum); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	v.Avg /= float64(size)

	iters := int64(res.Iterations)
	f := Flops{
		DDOT:     4 * iters * int64(in.TotalRows),
		WAXPBY:   6 * iters * int64(in.TotalRows),
		SPARSEMV: 2 * iters * int64(in.TotalNnz),
	}
	f.Total = f.DDOT + f.WAXPBY + f.SPARSEMV

	times := Kernels{
		Total:    t.Total.Seconds(),
		DDOT:     t.Dot.Seconds(),
		WAXPBY:   t.Waxpby.Seconds(),
		SPARSEMV: t.SparseMV.Seconds(),
	}

	exch, setup := t.Exchange.Seconds(), in.Setup.Seconds()
	withOverhead := times.SPARSEMV + exch + setup

	return &Summary{
		Application:   Application,
		Version:       Version,
		Parallelism:   Parallelism{Ranks: size, Workers: in.Workers, Overlap: in.Overlap},
		Dimensions:    Dimensions{Nx: in.Nx, Ny: in.Ny, Nz: in.Nz},
		Iterations:    res.Iterations,
		FinalResidual: res.Normr,
		Times:         times,
		Flops:         f,
		MFlops: Kernels{
			Total:    mflops(f.Total, times.Total),
			DDOT:     mflops(f.DDOT, times.DDOT),
			WAXPBY:   mflops(f.WAXPBY, times.WAXPBY),
			SPARSEMV: mflops(f.SPARSEMV, times.SPARSEMV),
		},
		DDOT: v,
		SparseMV: Overheads{
			MFlopsWithOverhead: mflops(f.SPARSEMV, withOverhead),
			OverheadTime:       exch + setup,
			OverheadPct:        pct(exch+setup, withOverhead),
			SetupTime:          setup,
			SetupPct:           pct(setup, withOverhead),
			ExchangeTime:       exch,
			ExchangePct:        pct(exch, withOverhead),
		},
		DiffFromExact: diff,
	}, nil
}

// mflops is flops/seconds/1e6, or 0 when no time was measured.
func mflops(flops int64, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}

	return float64(flops) / seconds / 1e6
}

func pct(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}

	return part / whole * 100
}

// WriteYAML encodes s as a YAML document.
func WriteYAML(w io.Writer, s *Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("WriteYAML: %w", err)
	}

	return enc.Close()
}
