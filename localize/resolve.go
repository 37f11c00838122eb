// SPDX-License-Identifier: MIT

package localize

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/hpccg/comm"
	"github.com/katalvlaran/hpccg/sparse"
)

// TagRequest carries the global rows a rank needs from their owner.
const TagRequest comm.Tag = 99

// scan is the outcome of rewriting one block's columns.
type scan struct {
	cols     []int // local/ghost column indices
	external []int // global index per ghost slot, in discovery order
	owner    []int // owning rank per ghost slot
	interior []int
	boundary []int
}

// Resolve localizes A for rank c.Rank() and returns the installed plan.
// Every rank of c must call it for its own block, in the same order
// relative to other collectives.
//
// Implementation:
//   - Stage 1: an already localized A returns its plan untouched.
//   - Stage 2: obtain the ownership table (gathered, or WithOwnership).
//   - Stage 3: scan rows in order; assign ghost slots on first discovery.
//   - Stage 4: request-for-values handshake; requests become send lists.
//   - Stage 5: build the plan and install it with A.Localize.
//
// Errors: sparse.ErrNilMatrix, ErrBadOwnershipTable, ErrUnknownOwner,
// ErrForeignIndex, ErrUnexpectedRequest, transport and context errors.
// A failure leaves A in global form.
//
// Complexity: O(nnz + E log E) local work for E externals, one allreduce
// of P+1 ints, one of P ints, and one message per neighbor each way.
func Resolve(ctx context.Context, c comm.Communicator, A *sparse.Matrix, opts ...Option) (*sparse.CommunicationPlan, error) {
	if A == nil {
		return nil, fmt.Errorf("Resolve: %w", sparse.ErrNilMatrix)
	}
	// Stage 1
	if A.Localized() {
		return A.Plan(), nil
	}
	o := gatherOptions(opts...)
	rank, size := c.Rank(), c.Size()
	rng := A.RowRange()

	// Stage 2
	own := o.ownership
	var err error
	switch {
	case own != nil:
		if own.Size() != size || own.Range(rank) != rng {
			return nil, fmt.Errorf("Resolve: supplied table %v for rank %d of %d owning %v: %w",
				own.starts, rank, size, rng, ErrBadOwnershipTable)
		}
	case size == 1:
		if own, err = NewOwnership([]int{0}, A.TotalRows()); err != nil {
			return nil, fmt.Errorf("Resolve: %w", err)
		}
		if own.Range(0) != rng {
			return nil, fmt.Errorf("Resolve: single rank owns %v of %d rows: %w", rng, A.TotalRows(), ErrBadOwnershipTable)
		}
	default:
		if own, err = GatherOwnership(ctx, c, c, rng); err != nil {
			return nil, fmt.Errorf("Resolve: %w", err)
		}
	}

	// Stage 3
	s, err := scanColumns(A, own, rank)
	if err != nil {
		return nil, fmt.Errorf("Resolve: %w", err)
	}

	// Stage 4
	links := make(map[int]*sparse.Link)
	linkFor := func(p int) *sparse.Link {
		l, ok := links[p]
		if !ok {
			l = &sparse.Link{Rank: p}
			links[p] = l
		}
		return l
	}
	requests := make(map[int][]int)
	for slot, p := range s.owner {
		l := linkFor(p)
		l.Recv = append(l.Recv, A.RowCount()+slot)
		requests[p] = append(requests[p], s.external[slot])
	}
	if size > 1 {
		sends, err := handshake(ctx, c, rng, requests)
		if err != nil {
			return nil, fmt.Errorf("Resolve: %w", err)
		}
		for p, rows := range sends {
			linkFor(p).Send = rows
		}
	}

	// Stage 5
	list := make([]sparse.Link, 0, len(links))
	for _, l := range links {
		list = append(list, *l)
	}
	extToGhost := make(map[int]int, len(s.external))
	for slot, g := range s.external {
		extToGhost[g] = A.RowCount() + slot
	}
	plan, err := sparse.NewCommunicationPlan(A.RowCount(), list, extToGhost, s.interior, s.boundary)
	if err != nil {
		return nil, fmt.Errorf("Resolve: %w", err)
	}
	if err = A.Localize(s.cols, plan); err != nil {
		return nil, fmt.Errorf("Resolve: %w", err)
	}
	o.diag.ExternalsResolved(rank, size, plan.ExternalCount(), len(plan.Links()), plan.TotalSend())

	return plan, nil
}

// scanColumns rewrites a copy of A's columns. Owned columns become
// g - start; every distinct external column gets the next ghost slot the
// first time the row-major scan meets it.
func scanColumns(A *sparse.Matrix, own *Ownership, rank int) (*scan, error) {
	rng := A.RowRange()
	rows := A.RowCount()
	s := &scan{cols: A.Columns()}
	slots := make(map[int]int)

	k := 0
	for i := 0; i < rows; i++ {
		external := false
		for end := k + A.NnzInRow(i); k < end; k++ {
			g := s.cols[k]
			if rng.Contains(g) {
				s.cols[k] = g - rng.Start
				continue
			}
			slot, seen := slots[g]
			if !seen {
				p, err := own.Owner(g)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i, err)
				}
				if p == rank {
					return nil, fmt.Errorf("global %d maps to rank %d outside its range %v: %w", g, rank, rng, ErrBadOwnershipTable)
				}
				slot = len(s.external)
				slots[g] = slot
				s.external = append(s.external, g)
				s.owner = append(s.owner, p)
			}
			s.cols[k] = rows + slot
			external = true
		}
		if external {
			s.boundary = append(s.boundary, i)
		} else {
			s.interior = append(s.interior, i)
		}
	}

	return s, nil
}

// handshake sends each owner the global rows requested from it and collects,
// for every rank requesting from us, the local rows it needs. The returned
// map is keyed by requester.
func handshake(ctx context.Context, c comm.Communicator, rng sparse.RowRange, requests map[int][]int) (map[int][]int, error) {
	need := make([]int, c.Size())
	for p := range requests {
		need[p] = 1
	}
	counts, err := c.AllreduceInts(ctx, need)
	if err != nil {
		return nil, fmt.Errorf("handshake: %w", err)
	}
	requesters := counts[c.Rank()]

	reqs := make([]comm.Request, requesters)
	for i := range reqs {
		reqs[i] = c.Irecv(comm.AnySource, TagRequest)
	}

	owners := make([]int, 0, len(requests))
	for p := range requests {
		owners = append(owners, p)
	}
	sort.Ints(owners)
	for _, p := range owners {
		if err = c.Send(ctx, p, TagRequest, comm.Message{Ints: requests[p]}); err != nil {
			return nil, fmt.Errorf("handshake: request to %d: %w", p, err)
		}
	}

	sends := make(map[int][]int, requesters)
	for _, req := range reqs {
		msg, err := req.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("handshake: %w", err)
		}
		if _, dup := sends[msg.Source]; dup || msg.Source == c.Rank() {
			return nil, fmt.Errorf("handshake: from rank %d: %w", msg.Source, ErrUnexpectedRequest)
		}
		rows := make([]int, len(msg.Ints))
		for i, g := range msg.Ints {
			if !rng.Contains(g) {
				return nil, fmt.Errorf("handshake: rank %d asked for %d, own %v: %w", msg.Source, g, rng, ErrForeignIndex)
			}
			rows[i] = g - rng.Start
		}
		sends[msg.Source] = rows
	}

	return sends, nil
}
