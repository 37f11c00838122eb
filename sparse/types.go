// SPDX-License-Identifier: MIT

// Package sparse: domain types shared by the builder, the index resolver and
// the halo engine. Behavior lives in matrix.go, plan.go and matvec.go.
package sparse

// MaxNnzPerRow is the nonzero bound of the widest supported stencil (3×3×3).
const MaxNnzPerRow = 27

// RowRange is the half-open global row interval [Start, Stop) owned by one
// process. Processes own contiguous, sorted, non-overlapping ranges.
type RowRange struct {
	Start int // first owned global row
	Stop  int // one past the last owned global row
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int { return r.Stop - r.Start }

// Contains reports whether global row g lies in [Start, Stop).
func (r RowRange) Contains(g int) bool { return g >= r.Start && g < r.Stop }

// Link is the per-neighbor part of a CommunicationPlan.
//
// Send lists LOCAL row indices whose x values this process gathers and sends
// to Rank; Recv lists GHOST slots (indices into the extended vector, all
// >= RowCount) that values arriving from Rank are scattered into, in the
// order the neighbor sends them. Either list may be empty when the
// relationship is one-directional.
type Link struct {
	Rank int   // neighbor process rank
	Send []int // local rows to gather for Rank
	Recv []int // ghost slots to fill from Rank
}

// CommunicationPlan describes exactly which values cross process boundaries
// before a distributed matrix-vector product is valid. It is built once per
// matrix and never mutated afterwards; slices returned by accessors must be
// treated as read-only.
type CommunicationPlan struct {
	rowCount        int         // local rows of the owning matrix
	links           []Link      // sorted by Rank, unique ranks
	externalToGhost map[int]int // global column -> ghost slot
	interiorRows    []int       // rows referencing only local columns
	boundaryRows    []int       // rows referencing at least one ghost slot
}
