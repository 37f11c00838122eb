// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"

	"github.com/katalvlaran/hpccg/parallel"
)

// zeroSum is the initial value of every row accumulator.
const zeroSum = 0.0

// MatVec computes y = A·xExt.
//
// Contract: A non-nil; len(xExt) == A.ColumnCount(). Before localization
// (single process) xExt is simply x. After localization xExt must already
// hold the ghost values received from neighbors.
//
// Determinism: every row is summed in stored nonzero order with plain
// floating-point addition, independently of the worker count.
// Complexity: Time O(nnz), Space O(rows) for y.
func MatVec(A *Matrix, xExt []float64, opts ...Option) ([]float64, error) {
	if A == nil {
		return nil, sparseErrorf(opMatVec, ErrNilMatrix)
	}
	if !A.Localized() && A.totalRows != A.RowCount() {
		return nil, sparseErrorf(opMatVec, ErrNotLocalized)
	}
	if len(xExt) != A.ColumnCount() {
		return nil, sparseErrorf(opMatVec, fmt.Errorf("len(x)=%d columns=%d: %w", len(xExt), A.ColumnCount(), ErrDimensionMismatch))
	}
	o := gatherOptions(opts...)

	y := make([]float64, A.RowCount())
	parallel.For(A.RowCount(), o.workers, func(lo, hi int) {
		A.mulRange(xExt, y, lo, hi)
	})

	return y, nil
}

// MatVecRows computes y[r] = (A·xExt)[r] only for the listed rows, leaving
// the rest of y untouched. xExt may be shorter than ColumnCount as long as
// the listed rows reference no column beyond it (interior rows only need
// the local part).
//
// Errors: ErrNilMatrix; ErrDimensionMismatch when len(y) != RowCount;
// ErrColumnOutOfRange when a listed row references past len(xExt).
func MatVecRows(A *Matrix, xExt []float64, rows []int, y []float64, opts ...Option) error {
	if A == nil {
		return sparseErrorf(opMatVec, ErrNilMatrix)
	}
	if len(y) != A.RowCount() {
		return sparseErrorf(opMatVec, fmt.Errorf("len(y)=%d rows=%d: %w", len(y), A.RowCount(), ErrDimensionMismatch))
	}
	for _, r := range rows {
		if r < 0 || r >= A.RowCount() {
			return sparseErrorf(opMatVec, fmt.Errorf("row %d: %w", r, ErrDimensionMismatch))
		}
		for k := A.rowPtr[r]; k < A.rowPtr[r+1]; k++ {
			if A.cols[k] >= len(xExt) {
				return sparseErrorf(opMatVec, fmt.Errorf("row %d col %d len(x)=%d: %w", r, A.cols[k], len(xExt), ErrColumnOutOfRange))
			}
		}
	}
	o := gatherOptions(opts...)

	parallel.For(len(rows), o.workers, func(lo, hi int) {
		var acc float64
		var k int
		for _, r := range rows[lo:hi] {
			acc = zeroSum
			for k = A.rowPtr[r]; k < A.rowPtr[r+1]; k++ {
				acc += A.vals[k] * xExt[A.cols[k]]
			}
			y[r] = acc
		}
	})

	return nil
}

// mulRange fills y[lo:hi] with the row products of rows lo..hi-1.
func (m *Matrix) mulRange(x, y []float64, lo, hi int) {
	var i, k int
	var acc float64
	for i = lo; i < hi; i++ {
		acc = zeroSum
		for k = m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			acc += m.vals[k] * x[m.cols[k]]
		}
		y[i] = acc
	}
}
