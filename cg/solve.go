// SPDX-License-Identifier: MIT

package cg

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/hpccg/comm"
	"github.com/katalvlaran/hpccg/halo"
	"github.com/katalvlaran/hpccg/sparse"
	"github.com/katalvlaran/hpccg/vector"
)

// Times is the wall time spent per kernel on this rank.
// SparseMV excludes the halo exchange, which is counted in Exchange; Dot
// includes its allreduce, which is also counted in Allreduce.
type Times struct {
	Total     time.Duration
	Dot       time.Duration
	Waxpby    time.Duration
	SparseMV  time.Duration
	Allreduce time.Duration
	Exchange  time.Duration
}

// Result is the outcome of Solve on one rank.
type Result struct {
	X          []float64 // this rank's part of the solution
	Iterations int       // completed iterations
	Normr      float64   // last computed global residual norm
	Times      Times
}

// solver holds the per-call state of one Solve.
type solver struct {
	c    comm.Communicator
	A    *sparse.Matrix
	o    Options
	vec  []vector.Option
	mv   []halo.Option
	halo halo.Timings
	t    Times
}

// Solve iterates from x0 towards the solution of A·x = b, where A is this
// rank's localized block (or an unresolved single-process operator).
//
// Errors: sparse.ErrDimensionMismatch when b or x0 do not match A's rows;
// ErrBreakdown; any halo, transport or context error.
func Solve(ctx context.Context, c comm.Communicator, A *sparse.Matrix, b, x0 []float64, opts ...Option) (*Result, error) {
	if A == nil {
		return nil, fmt.Errorf("Solve: %w", sparse.ErrNilMatrix)
	}
	rows := A.RowCount()
	if len(b) != rows || len(x0) != rows {
		return nil, fmt.Errorf("Solve: len(b)=%d len(x0)=%d rows=%d: %w", len(b), len(x0), rows, sparse.ErrDimensionMismatch)
	}
	s := &solver{c: c, A: A, o: gatherOptions(opts...)}
	s.vec = []vector.Option{vector.WithWorkers(s.o.workers)}
	s.mv = []halo.Option{halo.WithWorkers(s.o.workers), halo.WithTimings(&s.halo)}
	if s.o.overlap {
		s.mv = append(s.mv, halo.WithOverlap())
	}
	rank, size := c.Rank(), c.Size()
	begin := time.Now()

	x := append([]float64(nil), x0...)
	r := make([]float64, rows)
	p := append([]float64(nil), x0...)

	Ap, err := s.matvec(ctx, p)
	if err != nil {
		return nil, err
	}
	if err = s.waxpby(r, 1, b, -1, Ap); err != nil {
		return nil, err
	}
	rtrans, err := s.dot(ctx, r, r)
	if err != nil {
		return nil, err
	}
	normr := math.Sqrt(rtrans)
	s.o.diag.Iteration(rank, size, 0, normr)

	iter := 0
	every := s.o.printEvery()
	for k := 1; k < s.o.maxIter && normr > s.o.tolerance; k++ {
		if k == 1 {
			copy(p, r)
		} else {
			old := rtrans
			if rtrans, err = s.dot(ctx, r, r); err != nil {
				return nil, err
			}
			normr = math.Sqrt(rtrans)
			if normr <= s.o.tolerance {
				break
			}
			if err = s.waxpby(p, 1, r, rtrans/old, p); err != nil {
				return nil, err
			}
		}
		if k%every == 0 || k+1 == s.o.maxIter {
			s.o.diag.Iteration(rank, size, k, normr)
		}

		if Ap, err = s.matvec(ctx, p); err != nil {
			return nil, err
		}
		var pAp float64
		if pAp, err = s.dot(ctx, p, Ap); err != nil {
			return nil, err
		}
		if pAp == 0 {
			return nil, fmt.Errorf("Solve: iteration %d residual %g: %w", k, normr, ErrBreakdown)
		}
		alpha := rtrans / pAp
		if err = s.waxpby(x, 1, x, alpha, p); err != nil {
			return nil, err
		}
		if err = s.waxpby(r, 1, r, -alpha, Ap); err != nil {
			return nil, err
		}
		iter = k
	}

	s.t.Total = time.Since(begin)
	s.t.Exchange = s.halo.Exchange
	s.t.SparseMV -= s.halo.Exchange
	s.o.diag.Converged(rank, size, iter, normr, s.t.Total)

	return &Result{X: x, Iterations: iter, Normr: normr, Times: s.t}, nil
}

func (s *solver) matvec(ctx context.Context, p []float64) ([]float64, error) {
	start := time.Now()
	y, err := halo.MatVec(ctx, s.c, s.A, p, s.mv...)
	s.t.SparseMV += time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("Solve: %w", err)
	}

	return y, nil
}

func (s *solver) dot(ctx context.Context, x, y []float64) (float64, error) {
	start := time.Now()
	defer func() { s.t.Dot += time.Since(start) }()

	local, err := vector.Dot(x, y, s.vec...)
	if err != nil {
		return 0, fmt.Errorf("Solve: %w", err)
	}
	reduce := time.Now()
	global, err := s.c.AllreduceFloat(ctx, local, comm.OpSum)
	s.t.Allreduce += time.Since(reduce)
	if err != nil {
		return 0, fmt.Errorf("Solve: %w", err)
	}

	return global, nil
}

func (s *solver) waxpby(w []float64, alpha float64, x []float64, beta float64, y []float64) error {
	start := time.Now()
	err := vector.WaxpbyInto(w, alpha, x, beta, y, s.vec...)
	s.t.Waxpby += time.Since(start)
	if err != nil {
		return fmt.Errorf("Solve: %w", err)
	}

	return nil
}
