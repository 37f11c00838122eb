// SPDX-License-Identifier: MIT

// Package vector holds the dense kernels of the conjugate-gradient loop:
// dot product, scaled sum and max-norm residual, plus their global
// variants that add one allreduce.
package vector

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/hpccg/comm"
	"github.com/katalvlaran/hpccg/parallel"
)

// sameBacking reports whether x and y start at the same element.
func sameBacking(x, y []float64) bool {
	return len(x) > 0 && len(y) > 0 && &x[0] == &y[0]
}

// Dot returns Σ x[i]·y[i]. When x and y share their backing array the
// squared-norm loop is used; both loops give the same value.
// Errors: ErrLengthMismatch.
func Dot(x, y []float64, opts ...Option) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("Dot: %d vs %d: %w", len(x), len(y), ErrLengthMismatch)
	}
	o := gatherOptions(opts...)

	if sameBacking(x, y) {
		return parallel.Sum(len(x), o.workers, func(lo, hi int) float64 {
			var s float64
			for _, v := range x[lo:hi] {
				s += v * v
			}
			return s
		}), nil
	}

	return parallel.Sum(len(x), o.workers, func(lo, hi int) float64 {
		var s float64
		for i := lo; i < hi; i++ {
			s += x[i] * y[i]
		}
		return s
	}), nil
}

// Waxpby returns w = alpha·x + beta·y in a new slice.
// Errors: ErrLengthMismatch.
func Waxpby(alpha float64, x []float64, beta float64, y []float64, opts ...Option) ([]float64, error) {
	w := make([]float64, len(x))
	if err := WaxpbyInto(w, alpha, x, beta, y, opts...); err != nil {
		return nil, err
	}

	return w, nil
}

// WaxpbyInto writes alpha·x + beta·y into w. w may alias x or y.
// alpha == 1 and beta == 1 skip the corresponding multiply.
// Errors: ErrLengthMismatch.
func WaxpbyInto(w []float64, alpha float64, x []float64, beta float64, y []float64, opts ...Option) error {
	if len(x) != len(y) || len(w) != len(x) {
		return fmt.Errorf("Waxpby: w=%d x=%d y=%d: %w", len(w), len(x), len(y), ErrLengthMismatch)
	}
	o := gatherOptions(opts...)

	var body func(lo, hi int)
	switch {
	case alpha == 1:
		body = func(lo, hi int) {
			for i := lo; i < hi; i++ {
				w[i] = x[i] + beta*y[i]
			}
		}
	case beta == 1:
		body = func(lo, hi int) {
			for i := lo; i < hi; i++ {
				w[i] = alpha*x[i] + y[i]
			}
		}
	default:
		body = func(lo, hi int) {
			for i := lo; i < hi; i++ {
				w[i] = alpha*x[i] + beta*y[i]
			}
		}
	}
	parallel.For(len(w), o.workers, body)

	return nil
}

// Residual returns max |a[i]-b[i]|, 0 for empty vectors and NaN if any
// difference is NaN.
// Errors: ErrLengthMismatch.
func Residual(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("Residual: %d vs %d: %w", len(a), len(b), ErrLengthMismatch)
	}
	var r float64
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if math.IsNaN(d) {
			return math.NaN(), nil
		}
		if d > r {
			r = d
		}
	}

	return r, nil
}

// GlobalDot is Dot over the local parts followed by a sum allreduce.
// Every rank must call it.
func GlobalDot(ctx context.Context, r comm.Reducer, x, y []float64, opts ...Option) (float64, error) {
	local, err := Dot(x, y, opts...)
	if err != nil {
		return 0, err
	}
	sum, err := r.AllreduceFloat(ctx, local, comm.OpSum)
	if err != nil {
		return 0, fmt.Errorf("GlobalDot: %w", err)
	}

	return sum, nil
}

// GlobalResidual is Residual over the local parts followed by a max
// allreduce. Every rank must call it.
func GlobalResidual(ctx context.Context, r comm.Reducer, a, b []float64) (float64, error) {
	local, err := Residual(a, b)
	if err != nil {
		return 0, err
	}
	res, err := r.AllreduceFloat(ctx, local, comm.OpMax)
	if err != nil {
		return 0, fmt.Errorf("GlobalResidual: %w", err)
	}

	return res, nil
}
