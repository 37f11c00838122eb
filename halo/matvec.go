// SPDX-License-Identifier: MIT

package halo

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/hpccg/comm"
	"github.com/katalvlaran/hpccg/sparse"
)

// MatVec computes y = A·x for the block owned by this rank, exchanging halo
// values with its neighbors first. A block without neighbors (single
// process, or no coupling) multiplies locally without touching t.
//
// Errors: as Exchange, plus those of sparse.MatVec.
func MatVec(ctx context.Context, t comm.Transport, A *sparse.Matrix, x []float64, opts ...Option) ([]float64, error) {
	o := gatherOptions(opts...)
	if A == nil {
		return nil, fmt.Errorf("MatVec: %w", sparse.ErrNilMatrix)
	}
	if !A.Localized() || len(A.Plan().Links()) == 0 {
		if len(x) != A.ColumnCount() {
			return nil, fmt.Errorf("MatVec: len(x)=%d rows=%d: %w", len(x), A.RowCount(), sparse.ErrDimensionMismatch)
		}
		y, err := sparse.MatVec(A, x, o.sparseOpts()...)
		if err != nil {
			return nil, fmt.Errorf("MatVec: %w", err)
		}
		return y, nil
	}

	if o.overlap {
		return overlapped(ctx, t, A, x, &o)
	}

	started := time.Now()
	xExt, err := Exchange(ctx, t, A, x)
	if err != nil {
		return nil, fmt.Errorf("MatVec: %w", err)
	}
	o.record(time.Since(started))

	y, err := sparse.MatVec(A, xExt, o.sparseOpts()...)
	if err != nil {
		return nil, fmt.Errorf("MatVec: %w", err)
	}

	return y, nil
}

// overlapped computes interior rows between posting the exchange and waiting
// for it. Interior rows only see xExt[:rows], which the exchange never
// writes; boundary rows run after every ghost slot is filled.
func overlapped(ctx context.Context, t comm.Transport, A *sparse.Matrix, x []float64, o *Options) ([]float64, error) {
	plan := A.Plan()
	xExt, err := extend(A, x)
	if err != nil {
		return nil, fmt.Errorf("MatVec: %w", err)
	}

	started := time.Now()
	ex, err := begin(ctx, t, plan, x)
	if err != nil {
		return nil, fmt.Errorf("MatVec: %w", err)
	}
	posted := time.Since(started)

	y := make([]float64, A.RowCount())
	rows := A.RowCount()
	if err = sparse.MatVecRows(A, xExt[:rows], plan.InteriorRows(), y, o.sparseOpts()...); err != nil {
		return nil, fmt.Errorf("MatVec: interior: %w", err)
	}

	started = time.Now()
	if err = ex.complete(ctx, xExt); err != nil {
		return nil, fmt.Errorf("MatVec: %w", err)
	}
	o.record(posted + time.Since(started))

	if err = sparse.MatVecRows(A, xExt, plan.BoundaryRows(), y, o.sparseOpts()...); err != nil {
		return nil, fmt.Errorf("MatVec: boundary: %w", err)
	}

	return y, nil
}

func (o *Options) record(d time.Duration) {
	if o.timings != nil {
		o.timings.Exchange += d
		o.timings.Calls++
	}
}
