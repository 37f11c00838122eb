// Package stencil assembles the per-process block of the 3D stencil operator
// used by the conjugate-gradient benchmark.
//
// What:
//
//   - Generate builds, for a subdomain of nx×ny×nz grid points, a sparse
//     block with one row per point and GLOBAL column indices, plus the
//     initial guess x (all 0), the right-hand side b and the exact
//     solution xExact (all 1).
//   - Stencil27 (default) couples each point to its full 3×3×3 cube;
//     Stencil7 keeps only the six face neighbors and the point itself.
//
// Decomposition:
//
//	Ranks are stacked along z ("chimney stack"): rank p owns global rows
//	[p·nx·ny·nz, (p+1)·nx·ny·nz). Neighbors in x and y are clipped at the
//	subdomain faces; in z only the global domain faces clip, so the top
//	plane of rank p couples to the bottom plane of rank p+1.
//
// Coefficients: diagonal 27, off-diagonals -1, b[r] = 27 - (nnz(r)-1), so
// A·xExact = b holds exactly in floating point.
//
// Complexity: O(rows · points) time and space.
package stencil
