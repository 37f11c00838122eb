// SPDX-License-Identifier: MIT
// Package sparse: Matrix construction, accessors and the one-shot switch from
// global to local/ghost column indices.

package sparse

import (
	"fmt"
)

// Operation tags for uniform error wrapping.
const (
	opNew      = "NewMatrix"
	opLocalize = "Localize"
	opMatVec   = "MatVec"
	opPlan     = "NewCommunicationPlan"
	opValidate = "Validate"
)

// sparseErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func sparseErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Matrix is one process's block of rows of the global operator.
// rows i of the block correspond to global row RowRange().Start+i.
// Values and column indices of row i live in vals/cols[rowPtr[i]:rowPtr[i+1]];
// diag[i] is the offset of the diagonal coefficient inside that row.
type Matrix struct {
	rng       RowRange
	totalRows int // rows of the global operator
	totalNnz  int // nominal global nonzero count

	rowPtr []int     // len rows+1, rowPtr[0]==0, non-decreasing
	cols   []int     // global before Localize, local/ghost after
	vals   []float64 // parallel to cols
	diag   []int     // per-row offset into the row, -1 when the row has none

	plan *CommunicationPlan // nil until Localize
}

// NewMatrix wraps CSR arrays into a Matrix, taking ownership of the slices.
//
// Implementation:
//   - Stage 1: validate the row range and array lengths.
//   - Stage 2: validate row pointer monotonicity, the per-row nonzero bound,
//     diagonal offsets and that every column is a valid global index.
//
// Errors:
//   - ErrEmptyRange, ErrDimensionMismatch, ErrBadRowPointer, ErrRowTooDense,
//     ErrBadDiagonal, ErrColumnOutOfRange (all wrapped with "NewMatrix").
//
// Complexity: O(nnz).
func NewMatrix(rng RowRange, totalRows, totalNnz int, rowPtr, cols []int, vals []float64, diag []int) (*Matrix, error) {
	m := &Matrix{
		rng:       rng,
		totalRows: totalRows,
		totalNnz:  totalNnz,
		rowPtr:    rowPtr,
		cols:      cols,
		vals:      vals,
		diag:      diag,
	}
	if err := m.validate(); err != nil {
		return nil, sparseErrorf(opNew, err)
	}

	return m, nil
}

// validate checks structural invariants for the current indexing mode.
func (m *Matrix) validate() error {
	if m.rng.Start < 0 || m.rng.Stop <= m.rng.Start {
		return ErrEmptyRange
	}
	if m.totalRows < m.rng.Stop {
		return fmt.Errorf("total rows %d < range stop %d: %w", m.totalRows, m.rng.Stop, ErrDimensionMismatch)
	}
	rows := m.rng.Len()
	if len(m.rowPtr) != rows+1 || len(m.diag) != rows {
		return fmt.Errorf("rowPtr=%d diag=%d rows=%d: %w", len(m.rowPtr), len(m.diag), rows, ErrDimensionMismatch)
	}
	if len(m.cols) != len(m.vals) {
		return fmt.Errorf("cols=%d vals=%d: %w", len(m.cols), len(m.vals), ErrDimensionMismatch)
	}
	if m.rowPtr[0] != 0 || m.rowPtr[rows] != len(m.vals) {
		return ErrBadRowPointer
	}

	// monotone pointers between 0 and nnz keep every row inside cols
	var i, k, nnz int
	for i = 0; i < rows; i++ {
		if m.rowPtr[i+1] < m.rowPtr[i] {
			return fmt.Errorf("row %d: %w", i, ErrBadRowPointer)
		}
	}

	colLimit := m.totalRows
	if m.plan != nil {
		colLimit = m.ColumnCount()
	}
	for i = 0; i < rows; i++ {
		nnz = m.rowPtr[i+1] - m.rowPtr[i]
		if nnz > MaxNnzPerRow {
			return fmt.Errorf("row %d has %d nonzeros: %w", i, nnz, ErrRowTooDense)
		}
		if m.diag[i] < -1 || m.diag[i] >= nnz {
			return fmt.Errorf("row %d offset %d: %w", i, m.diag[i], ErrBadDiagonal)
		}
		for k = m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			if m.cols[k] < 0 || m.cols[k] >= colLimit {
				return fmt.Errorf("row %d col %d: %w", i, m.cols[k], ErrColumnOutOfRange)
			}
		}
	}

	return nil
}

// Validate re-checks all structural invariants of m.
// Complexity: O(nnz).
func Validate(m *Matrix) error {
	if m == nil {
		return sparseErrorf(opValidate, ErrNilMatrix)
	}
	if err := m.validate(); err != nil {
		return sparseErrorf(opValidate, err)
	}

	return nil
}

// RowCount returns the number of rows owned by this process.
func (m *Matrix) RowCount() int { return m.rng.Len() }

// ColumnCount returns RowCount before localization and
// RowCount+ExternalCount after it (the extended vector length).
func (m *Matrix) ColumnCount() int {
	if m.plan == nil {
		return m.rng.Len()
	}

	return m.rng.Len() + m.plan.ExternalCount()
}

// RowRange returns the owned global row interval.
func (m *Matrix) RowRange() RowRange { return m.rng }

// TotalRows returns the global row count of the operator.
func (m *Matrix) TotalRows() int { return m.totalRows }

// TotalNnz returns the nominal global nonzero count (used for FLOP accounting).
func (m *Matrix) TotalNnz() int { return m.totalNnz }

// LocalNnz returns the number of stored nonzeros.
func (m *Matrix) LocalNnz() int { return len(m.vals) }

// NnzInRow returns the nonzero count of row i.
func (m *Matrix) NnzInRow(i int) int { return m.rowPtr[i+1] - m.rowPtr[i] }

// NnzPerRow returns a fresh slice with the nonzero count of every row.
func (m *Matrix) NnzPerRow() []int {
	out := make([]int, m.RowCount())
	for i := range out {
		out[i] = m.rowPtr[i+1] - m.rowPtr[i]
	}

	return out
}

// Row returns the values and column indices of row i as read-only views.
func (m *Matrix) Row(i int) ([]float64, []int) {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	return m.vals[lo:hi:hi], m.cols[lo:hi:hi]
}

// DiagonalOffset returns the index of the diagonal coefficient within row i,
// or -1 when the row stores no diagonal.
func (m *Matrix) DiagonalOffset(i int) int { return m.diag[i] }

// Diagonal returns the diagonal coefficient of row i (0 when absent).
func (m *Matrix) Diagonal(i int) float64 {
	if m.diag[i] < 0 {
		return 0
	}

	return m.vals[m.rowPtr[i]+m.diag[i]]
}

// Plan returns the communication plan, or nil before localization.
func (m *Matrix) Plan() *CommunicationPlan { return m.plan }

// Localized reports whether column indices are in local/ghost form.
func (m *Matrix) Localized() bool { return m.plan != nil }

// Localize replaces the global column indices with local/ghost ones and
// attaches plan. cols must be parallel to the stored values.
//
// Implementation:
//   - Stage 1: reject a second call (ErrAlreadyLocalized) and a nil plan.
//   - Stage 2: install cols and plan, then validate; on failure the matrix is
//     restored to its previous global form.
//
// Complexity: O(nnz).
func (m *Matrix) Localize(cols []int, plan *CommunicationPlan) error {
	if m == nil {
		return sparseErrorf(opLocalize, ErrNilMatrix)
	}
	if m.plan != nil {
		return sparseErrorf(opLocalize, ErrAlreadyLocalized)
	}
	if plan == nil {
		return sparseErrorf(opLocalize, ErrNilPlan)
	}
	if len(cols) != len(m.cols) {
		return sparseErrorf(opLocalize, fmt.Errorf("cols=%d nnz=%d: %w", len(cols), len(m.cols), ErrDimensionMismatch))
	}
	if plan.rowCount != m.RowCount() {
		return sparseErrorf(opLocalize, fmt.Errorf("plan rows=%d matrix rows=%d: %w", plan.rowCount, m.RowCount(), ErrDimensionMismatch))
	}

	prev := m.cols
	m.cols, m.plan = cols, plan
	if err := m.validate(); err != nil {
		m.cols, m.plan = prev, nil
		return sparseErrorf(opLocalize, err)
	}

	return nil
}

// Columns returns a copy of all column indices in their current form:
// global before localization, local/ghost after it.
func (m *Matrix) Columns() []int {
	out := make([]int, len(m.cols))
	copy(out, m.cols)

	return out
}
