// SPDX-License-Identifier: MIT
// Package sparse_test contains unit tests for Matrix construction and localization.
package sparse_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hpccg/sparse"
)

func TestNewMatrix_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rng     sparse.RowRange
		total   int
		rowPtr  []int
		cols    []int
		vals    []float64
		diag    []int
		wantErr error
	}{
		{"empty range", sparse.RowRange{Start: 2, Stop: 2}, 4, []int{0}, nil, nil, nil, sparse.ErrEmptyRange},
		{"negative start", sparse.RowRange{Start: -1, Stop: 1}, 4, []int{0, 0, 0}, nil, nil, []int{-1, -1}, sparse.ErrEmptyRange},
		{"short diag", sparse.RowRange{Start: 0, Stop: 2}, 2, []int{0, 1, 2}, []int{0, 1}, []float64{1, 1}, []int{0}, sparse.ErrDimensionMismatch},
		{"cols vals mismatch", sparse.RowRange{Start: 0, Stop: 1}, 1, []int{0, 1}, []int{0}, []float64{1, 2}, []int{0}, sparse.ErrDimensionMismatch},
		{"long row before negative row", sparse.RowRange{Start: 0, Stop: 2}, 2, []int{0, 20, 2}, []int{0, 1}, []float64{1, 1}, []int{0, 0}, sparse.ErrBadRowPointer},
		{"row pointer end", sparse.RowRange{Start: 0, Stop: 1}, 1, []int{0, 2}, []int{0}, []float64{1}, []int{0}, sparse.ErrBadRowPointer},
		{"diag outside row", sparse.RowRange{Start: 0, Stop: 1}, 1, []int{0, 1}, []int{0}, []float64{1}, []int{1}, sparse.ErrBadDiagonal},
		{"column beyond total", sparse.RowRange{Start: 0, Stop: 1}, 1, []int{0, 1}, []int{3}, []float64{1}, []int{0}, sparse.ErrColumnOutOfRange},
		{"total below stop", sparse.RowRange{Start: 0, Stop: 2}, 1, []int{0, 0, 0}, nil, nil, []int{-1, -1}, sparse.ErrDimensionMismatch},
		{"ok", sparse.RowRange{Start: 0, Stop: 1}, 1, []int{0, 1}, []int{0}, []float64{27}, []int{0}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sparse.NewMatrix(tc.rng, tc.total, 0, tc.rowPtr, tc.cols, tc.vals, tc.diag)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Truef(t, errors.Is(err, tc.wantErr), "expected errors.Is(%v, %v)", err, tc.wantErr)
		})
	}
}

func TestNewMatrix_RowTooDense(t *testing.T) {
	t.Parallel()

	const nnz = sparse.MaxNnzPerRow + 1
	cols := make([]int, nnz)
	vals := make([]float64, nnz)
	for i := range cols {
		cols[i] = i
	}
	_, err := sparse.NewMatrix(sparse.RowRange{Start: 0, Stop: 1}, nnz, nnz, []int{0, nnz}, cols, vals, []int{0})
	require.ErrorIs(t, err, sparse.ErrRowTooDense)
}

func TestMatrix_Accessors(t *testing.T) {
	t.Parallel()

	m := tridiag(t, 4)
	assert.Equal(t, 4, m.RowCount())
	assert.Equal(t, 4, m.ColumnCount())
	assert.Equal(t, 10, m.LocalNnz())
	assert.Equal(t, []int{2, 3, 3, 2}, m.NnzPerRow())
	assert.Equal(t, 3, m.NnzInRow(1))
	assert.False(t, m.Localized())
	assert.Nil(t, m.Plan())

	vals, cols := m.Row(1)
	assert.Equal(t, []float64{-1, 2, -1}, vals)
	assert.Equal(t, []int{0, 1, 2}, cols)
	for i := 0; i < m.RowCount(); i++ {
		assert.Equal(t, 2.0, m.Diagonal(i), "row %d", i)
	}
	assert.Equal(t, 0, m.DiagonalOffset(0))
	assert.Equal(t, 1, m.DiagonalOffset(3))
	require.NoError(t, sparse.Validate(m))
	require.ErrorIs(t, sparse.Validate(nil), sparse.ErrNilMatrix)
}

func TestLocalize_RejectsSecondCall(t *testing.T) {
	t.Parallel()

	m := tridiag(t, 3)
	plan, err := sparse.NewCommunicationPlan(3, nil, nil, []int{0, 1, 2}, nil)
	require.NoError(t, err)

	require.NoError(t, m.Localize(m.Columns(), plan))
	require.True(t, m.Localized())
	require.Same(t, plan, m.Plan())

	err = m.Localize(m.Columns(), plan)
	require.ErrorIs(t, err, sparse.ErrAlreadyLocalized)
}

func TestLocalize_RestoresOnInvalidColumns(t *testing.T) {
	t.Parallel()

	m := tridiag(t, 3)
	before := m.Columns()
	plan, err := sparse.NewCommunicationPlan(3, nil, nil, []int{0, 1, 2}, nil)
	require.NoError(t, err)

	bad := m.Columns()
	bad[0] = 5 // no ghost region exists
	require.ErrorIs(t, m.Localize(bad, plan), sparse.ErrColumnOutOfRange)
	require.False(t, m.Localized())
	require.Equal(t, before, m.Columns())

	require.ErrorIs(t, m.Localize(before, nil), sparse.ErrNilPlan)
	require.ErrorIs(t, m.Localize(before[:2], plan), sparse.ErrDimensionMismatch)
}

func TestRowRange(t *testing.T) {
	t.Parallel()

	r := sparse.RowRange{Start: 8, Stop: 16}
	assert.Equal(t, 8, r.Len())
	assert.True(t, r.Contains(8))
	assert.True(t, r.Contains(15))
	assert.False(t, r.Contains(16))
	assert.False(t, r.Contains(7))
}
