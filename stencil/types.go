// SPDX-License-Identifier: MIT

package stencil

import (
	"fmt"

	"github.com/katalvlaran/hpccg/sparse"
)

// Kind selects the stencil shape.
type Kind int

const (
	// Stencil27 couples a point to every point of its 3×3×3 cube.
	Stencil27 Kind = iota
	// Stencil7 couples a point to its six face neighbors only.
	Stencil7
)

// Diagonal and OffDiagonal are the fixed operator coefficients.
const (
	Diagonal    = 27.0
	OffDiagonal = -1.0
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Stencil27:
		return "27-point"
	case Stencil7:
		return "7-point"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Points is the number of stencil points of an unclipped row.
func (k Kind) Points() int {
	if k == Stencil7 {
		return 7
	}

	return sparse.MaxNnzPerRow
}

// offset is one stencil displacement. delta is the row-index distance
// dz·nx·ny + dy·nx + dx for the current subdomain.
type offset struct {
	dx, dy, dz int
	delta      int
}

// offsets lists the displacements of kind in (dz, dy, dx) nested order,
// which is also the stored nonzero order within a row.
func offsets(kind Kind, nx, ny int) []offset {
	out := make([]offset, 0, kind.Points())
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if kind == Stencil7 && dx*dx+dy*dy+dz*dz > 1 {
					continue
				}
				out = append(out, offset{dx: dx, dy: dy, dz: dz, delta: dz*nx*ny + dy*nx + dx})
			}
		}
	}

	return out
}

// Problem is the linear system of one rank.
type Problem struct {
	A      *sparse.Matrix
	X      []float64 // initial guess, all 0
	B      []float64 // right-hand side
	XExact []float64 // exact solution, all 1

	Nx, Ny, Nz int
	Kind       Kind

	// NominalNnz is Kind.Points() per local row, the figure the benchmark
	// has always reported as the local nonzero count. A.LocalNnz() is the
	// number actually stored.
	NominalNnz int
}
