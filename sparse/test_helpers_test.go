// SPDX-License-Identifier: MIT
// Package sparse_test contains test helpers.
//
// Purpose:
//   • Provide small, deterministic CSR fixtures with exactly representable values.

package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hpccg/sparse"
)

// tridiag builds an n×n single-process block with 2 on the diagonal and -1
// on the first off-diagonals. Row sums are 0 for interior rows, 1 at the ends.
func tridiag(t testing.TB, n int) *sparse.Matrix {
	t.Helper()

	rowPtr := make([]int, 0, n+1)
	cols := make([]int, 0, 3*n)
	vals := make([]float64, 0, 3*n)
	diag := make([]int, 0, n)
	rowPtr = append(rowPtr, 0)
	for i := 0; i < n; i++ {
		off := 0
		for j := i - 1; j <= i+1; j++ {
			if j < 0 || j >= n {
				continue
			}
			if j == i {
				diag = append(diag, off)
				vals = append(vals, 2)
			} else {
				vals = append(vals, -1)
			}
			cols = append(cols, j)
			off++
		}
		rowPtr = append(rowPtr, len(cols))
	}

	m, err := sparse.NewMatrix(sparse.RowRange{Start: 0, Stop: n}, n, 3*n, rowPtr, cols, vals, diag)
	require.NoError(t, err)

	return m
}

// ones returns a length-n vector of 1.0.
func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}

	return v
}

// ramp returns [1, 2, …, n].
func ramp(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i + 1)
	}

	return v
}
