// SPDX-License-Identifier: MIT
// Package stencil_test contains unit tests for stencil assembly.
package stencil_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/hpccg/diag"
	"github.com/katalvlaran/hpccg/sparse"
	"github.com/katalvlaran/hpccg/stencil"
)

// topo is a fixed Topology.
type topo struct{ rank, size int }

func (t topo) Rank() int { return t.rank }
func (t topo) Size() int { return t.size }

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// TestGenerate_Cube2 checks the 2×2×2 block, where every point sees every other.
func TestGenerate_Cube2(t *testing.T) {
	t.Parallel()

	p, err := stencil.Generate(2, 2, 2, nil)
	require.NoError(t, err)
	A := p.A

	require.Equal(t, 8, A.RowCount())
	require.Equal(t, 8, A.ColumnCount())
	require.Equal(t, []int{8, 8, 8, 8, 8, 8, 8, 8}, A.NnzPerRow())
	assert.Equal(t, 64, A.LocalNnz())
	assert.Equal(t, 216, p.NominalNnz)
	assert.Equal(t, 216, A.TotalNnz())
	assert.Equal(t, filled(8, 20), p.B)
	assert.Equal(t, filled(8, 0), p.X)
	assert.Equal(t, filled(8, 1), p.XExact)

	for i := 0; i < A.RowCount(); i++ {
		vals, cols := A.Row(i)
		assert.Equal(t, stencil.Diagonal, A.Diagonal(i), "row %d", i)
		assert.Equal(t, i, cols[A.DiagonalOffset(i)], "row %d", i)
		for k, v := range vals {
			if k != A.DiagonalOffset(i) {
				assert.Equal(t, stencil.OffDiagonal, v, "row %d nz %d", i, k)
			}
		}
	}

	// columns follow (dz, dy, dx) order; row 0 sees the whole cube ascending
	_, cols := A.Row(0)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, cols)
}

// TestGenerate_InteriorRows checks that unclipped rows carry all 27 points.
func TestGenerate_InteriorRows(t *testing.T) {
	t.Parallel()

	const n = 4
	p, err := stencil.Generate(n, n, n, nil)
	require.NoError(t, err)

	interior := 0
	for iz := 1; iz < n-1; iz++ {
		for iy := 1; iy < n-1; iy++ {
			for ix := 1; ix < n-1; ix++ {
				r := iz*n*n + iy*n + ix
				assert.Equal(t, 27, p.A.NnzInRow(r), "row %d", r)
				assert.Equal(t, 1.0, p.B[r], "row %d", r)
				interior++
			}
		}
	}
	assert.Equal(t, 8, interior)

	// the corner keeps its 2×2×2 octant
	assert.Equal(t, 8, p.A.NnzInRow(0))
	assert.Equal(t, 20.0, p.B[0])
}

// TestGenerate_ExactSolution checks A·xExact = b bit for bit.
func TestGenerate_ExactSolution(t *testing.T) {
	t.Parallel()

	for _, dims := range [][3]int{{1, 1, 1}, {2, 2, 2}, {3, 4, 5}, {5, 5, 5}, {7, 2, 3}} {
		for _, kind := range []stencil.Kind{stencil.Stencil27, stencil.Stencil7} {
			t.Run(fmt.Sprintf("%v/%s", dims, kind), func(t *testing.T) {
				p, err := stencil.Generate(dims[0], dims[1], dims[2], nil, stencil.WithKind(kind))
				require.NoError(t, err)
				y, err := sparse.MatVec(p.A, p.XExact)
				require.NoError(t, err)
				require.Equal(t, p.B, y)
				require.NoError(t, sparse.Validate(p.A))
			})
		}
	}
}

func TestGenerate_Stencil7(t *testing.T) {
	t.Parallel()

	p, err := stencil.Generate(3, 3, 3, nil, stencil.WithKind(stencil.Stencil7))
	require.NoError(t, err)

	center := 13
	assert.Equal(t, 7, p.A.NnzInRow(center))
	_, cols := p.A.Row(center)
	assert.Equal(t, []int{4, 10, 12, 13, 14, 16, 22}, cols)
	assert.Equal(t, 21.0, p.B[center])
	assert.Equal(t, 4, p.A.NnzInRow(0))
	assert.Equal(t, 7*27, p.NominalNnz)
	assert.Equal(t, stencil.Stencil7, p.Kind)
}

// TestGenerate_Slabs checks the z coupling between stacked ranks.
func TestGenerate_Slabs(t *testing.T) {
	t.Parallel()

	p0, err := stencil.Generate(2, 2, 2, topo{0, 2})
	require.NoError(t, err)
	p1, err := stencil.Generate(2, 2, 2, topo{1, 2})
	require.NoError(t, err)

	assert.Equal(t, sparse.RowRange{Start: 0, Stop: 8}, p0.A.RowRange())
	assert.Equal(t, sparse.RowRange{Start: 8, Stop: 16}, p1.A.RowRange())
	assert.Equal(t, 16, p1.A.TotalRows())
	assert.Equal(t, 27*16, p1.A.TotalNnz())

	// bottom plane of rank 0 is the domain face; top plane reaches rank 1
	assert.Equal(t, []int{8, 8, 8, 8, 12, 12, 12, 12}, p0.A.NnzPerRow())
	assert.Equal(t, []int{12, 12, 12, 12, 8, 8, 8, 8}, p1.A.NnzPerRow())

	_, cols := p1.A.Row(0)
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, cols)
	assert.Equal(t, 16.0, p1.B[0])
}

func TestGenerate_WorkersBitIdentical(t *testing.T) {
	t.Parallel()

	want, err := stencil.Generate(6, 5, 4, topo{1, 3})
	require.NoError(t, err)
	for _, w := range []int{2, 3, 16} {
		got, err := stencil.Generate(6, 5, 4, topo{1, 3}, stencil.WithWorkers(w))
		require.NoError(t, err)
		require.Equal(t, want.A.Columns(), got.A.Columns(), "workers=%d", w)
		require.Equal(t, want.A.NnzPerRow(), got.A.NnzPerRow(), "workers=%d", w)
		require.Equal(t, want.B, got.B, "workers=%d", w)
	}
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		nx, ny, nz int
		topo       topo
		opts       []stencil.Option
		want       error
	}{
		{"zero x", 0, 2, 2, topo{0, 1}, nil, stencil.ErrBadExtent},
		{"negative z", 2, 2, -1, topo{0, 1}, nil, stencil.ErrBadExtent},
		{"rank past size", 2, 2, 2, topo{2, 2}, nil, stencil.ErrBadTopology},
		{"empty world", 2, 2, 2, topo{0, 0}, nil, stencil.ErrBadTopology},
		{"kind", 2, 2, 2, topo{0, 1}, []stencil.Option{stencil.WithKind(stencil.Kind(5))}, stencil.ErrUnknownKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := stencil.Generate(tc.nx, tc.ny, tc.nz, tc.topo, tc.opts...)
			require.ErrorIs(t, err, tc.want)
		})
	}

	require.PanicsWithValue(t, "stencil: WithWorkers: workers must be >= 1", func() { stencil.WithWorkers(0) })
}

func TestGenerate_Diagnostics(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	p, err := stencil.Generate(2, 2, 1, topo{0, 1}, stencil.WithDiagnostics(diag.NewZap(zap.New(core))))
	require.NoError(t, err)

	gen := logs.FilterMessage("Matrix generated")
	require.Equal(t, 1, gen.Len())
	assert.EqualValues(t, 4, gen.All()[0].ContextMap()["rows"])

	dump := logs.FilterMessage("A").All()
	require.Len(t, dump, p.A.LocalNnz())
	first := dump[0].ContextMap()
	assert.EqualValues(t, 0, first["row"])
	assert.EqualValues(t, 0, first["col"])
	assert.EqualValues(t, 27.0, first["value"])
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "27-point", stencil.Stencil27.String())
	assert.Equal(t, "7-point", stencil.Stencil7.String())
	assert.Equal(t, "Kind(9)", stencil.Kind(9).String())
}
