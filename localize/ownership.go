// SPDX-License-Identifier: MIT

package localize

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/hpccg/comm"
	"github.com/katalvlaran/hpccg/sparse"
)

// Ownership maps global rows to the ranks owning them. Rank p owns
// [starts[p], starts[p+1]), the last rank owns up to total.
type Ownership struct {
	starts []int
	total  int
}

// NewOwnership validates and copies a start-row table.
//
// Errors: ErrBadOwnershipTable unless starts is non-empty, starts[0] == 0,
// strictly increasing, and starts[len-1] < total.
func NewOwnership(starts []int, total int) (*Ownership, error) {
	if len(starts) == 0 || starts[0] != 0 || starts[len(starts)-1] >= total {
		return nil, fmt.Errorf("starts=%v total=%d: %w", starts, total, ErrBadOwnershipTable)
	}
	for p := 1; p < len(starts); p++ {
		if starts[p] <= starts[p-1] {
			return nil, fmt.Errorf("rank %d starts at %d after %d: %w", p, starts[p], starts[p-1], ErrBadOwnershipTable)
		}
	}

	return &Ownership{starts: append([]int(nil), starts...), total: total}, nil
}

// GatherOwnership assembles the table collectively: every rank contributes
// its start row in its own slot and its row count in a trailing slot, and an
// elementwise-sum allreduce yields the starts plus the global row count.
// Every rank must call it.
//
// Errors: reduction failures; ErrBadOwnershipTable when the gathered table
// is malformed or disagrees with rng.
func GatherOwnership(ctx context.Context, r comm.Reducer, topo comm.Topology, rng sparse.RowRange) (*Ownership, error) {
	rank, size := topo.Rank(), topo.Size()
	v := make([]int, size+1)
	v[rank] = rng.Start
	v[size] = rng.Len()
	sum, err := r.AllreduceInts(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("GatherOwnership: %w", err)
	}

	own, err := NewOwnership(sum[:size], sum[size])
	if err != nil {
		return nil, fmt.Errorf("GatherOwnership: %w", err)
	}
	if got := own.Range(rank); got != rng {
		return nil, fmt.Errorf("GatherOwnership: rank %d owns %v, table says %v: %w", rank, rng, got, ErrBadOwnershipTable)
	}

	return own, nil
}

// Owner returns the rank owning global row g.
// Errors: ErrUnknownOwner when g is outside [0, Total()).
// Complexity: O(log P).
func (o *Ownership) Owner(g int) (int, error) {
	if g < 0 || g >= o.total {
		return -1, fmt.Errorf("global %d outside [0,%d): %w", g, o.total, ErrUnknownOwner)
	}
	// first rank starting past g, minus one
	p := sort.SearchInts(o.starts, g+1) - 1

	return p, nil
}

// Range returns the rows owned by rank p. p must be in [0, Size()).
func (o *Ownership) Range(p int) sparse.RowRange {
	stop := o.total
	if p+1 < len(o.starts) {
		stop = o.starts[p+1]
	}

	return sparse.RowRange{Start: o.starts[p], Stop: stop}
}

// Size is the number of ranks in the table.
func (o *Ownership) Size() int { return len(o.starts) }

// Total is the global row count.
func (o *Ownership) Total() int { return o.total }

// Starts returns a copy of the start-row table.
func (o *Ownership) Starts() []int { return append([]int(nil), o.starts...) }
