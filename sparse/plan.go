// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"sort"
)

// NewCommunicationPlan assembles and validates a plan for a matrix with
// rowCount local rows.
//
// Implementation:
//   - Stage 1: copy links and sort them by neighbor rank (duplicates rejected).
//   - Stage 2: check externalToGhost is a bijection onto
//     [rowCount, rowCount+len(externalToGhost)).
//   - Stage 3: check every Recv slot lies in the ghost region, is received
//     exactly once across all links, and every Send row lies in [0,rowCount).
//   - Stage 4: check interiorRows and boundaryRows together name every row
//     in [0,rowCount) exactly once.
//
// All slices are copied; the plan shares no memory with its inputs.
//
// Errors:
//   - ErrEmptyRange when rowCount <= 0; ErrBadPlan for any structural violation.
//
// Complexity:
//   - Time O(E + S + L log L) for E externals, S send entries, L links.
func NewCommunicationPlan(rowCount int, links []Link, externalToGhost map[int]int, interiorRows, boundaryRows []int) (*CommunicationPlan, error) {
	if rowCount <= 0 {
		return nil, sparseErrorf(opPlan, ErrEmptyRange)
	}

	// Stage 1: deterministic neighbor order.
	sorted := make([]Link, len(links))
	for i, l := range links {
		sorted[i] = Link{Rank: l.Rank, Send: cloneInts(l.Send), Recv: cloneInts(l.Recv)}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Rank == sorted[i-1].Rank {
			return nil, sparseErrorf(opPlan, fmt.Errorf("duplicate neighbor %d: %w", sorted[i].Rank, ErrBadPlan))
		}
	}

	// Stage 2: ghost mapping must cover the ghost region exactly once.
	nExt := len(externalToGhost)
	seen := make([]bool, nExt)
	for g, slot := range externalToGhost {
		if slot < rowCount || slot >= rowCount+nExt || seen[slot-rowCount] {
			return nil, sparseErrorf(opPlan, fmt.Errorf("external %d -> slot %d: %w", g, slot, ErrBadPlan))
		}
		seen[slot-rowCount] = true
	}

	// Stage 3: receive slots partition the ghost region; send rows are local.
	received := make([]bool, nExt)
	for _, l := range sorted {
		for _, slot := range l.Recv {
			if slot < rowCount || slot >= rowCount+nExt || received[slot-rowCount] {
				return nil, sparseErrorf(opPlan, fmt.Errorf("neighbor %d recv slot %d: %w", l.Rank, slot, ErrBadPlan))
			}
			received[slot-rowCount] = true
		}
		for _, row := range l.Send {
			if row < 0 || row >= rowCount {
				return nil, sparseErrorf(opPlan, fmt.Errorf("neighbor %d send row %d: %w", l.Rank, row, ErrBadPlan))
			}
		}
	}
	for i, ok := range received {
		if !ok {
			return nil, sparseErrorf(opPlan, fmt.Errorf("ghost slot %d never received: %w", rowCount+i, ErrBadPlan))
		}
	}

	// Stage 4: interior and boundary rows partition the local rows.
	listed := make([]bool, rowCount)
	for _, rows := range [][]int{interiorRows, boundaryRows} {
		for _, row := range rows {
			if row < 0 || row >= rowCount || listed[row] {
				return nil, sparseErrorf(opPlan, fmt.Errorf("row %d listed twice or out of range: %w", row, ErrBadPlan))
			}
			listed[row] = true
		}
	}
	for row, ok := range listed {
		if !ok {
			return nil, sparseErrorf(opPlan, fmt.Errorf("row %d neither interior nor boundary: %w", row, ErrBadPlan))
		}
	}

	ext := make(map[int]int, nExt)
	for g, slot := range externalToGhost {
		ext[g] = slot
	}

	return &CommunicationPlan{
		rowCount:        rowCount,
		links:           sorted,
		externalToGhost: ext,
		interiorRows:    cloneInts(interiorRows),
		boundaryRows:    cloneInts(boundaryRows),
	}, nil
}

func cloneInts(v []int) []int {
	if v == nil {
		return nil
	}

	return append(make([]int, 0, len(v)), v...)
}

// Links returns the neighbor links sorted by rank.
func (p *CommunicationPlan) Links() []Link { return p.links }

// NeighborIDs returns the sorted ranks this process exchanges data with.
func (p *CommunicationPlan) NeighborIDs() []int {
	ids := make([]int, len(p.links))
	for i, l := range p.links {
		ids[i] = l.Rank
	}

	return ids
}

// link finds the link for rank by binary search over the sorted links.
func (p *CommunicationPlan) link(rank int) (Link, bool) {
	i := sort.Search(len(p.links), func(i int) bool { return p.links[i].Rank >= rank })
	if i < len(p.links) && p.links[i].Rank == rank {
		return p.links[i], true
	}

	return Link{}, false
}

// SendList returns the local rows sent to rank (nil when rank is not a neighbor).
func (p *CommunicationPlan) SendList(rank int) []int {
	l, _ := p.link(rank)
	return l.Send
}

// ReceiveList returns the ghost slots filled from rank (nil when rank is not a neighbor).
func (p *CommunicationPlan) ReceiveList(rank int) []int {
	l, _ := p.link(rank)
	return l.Recv
}

// ExternalCount is the number of distinct external columns (ghost slots).
func (p *CommunicationPlan) ExternalCount() int { return len(p.externalToGhost) }

// GhostSlot returns the ghost slot assigned to global column g.
func (p *CommunicationPlan) GhostSlot(g int) (int, bool) {
	slot, ok := p.externalToGhost[g]
	return slot, ok
}

// ExternalToGhost returns a copy of the global column -> ghost slot mapping.
func (p *CommunicationPlan) ExternalToGhost() map[int]int {
	out := make(map[int]int, len(p.externalToGhost))
	for g, s := range p.externalToGhost {
		out[g] = s
	}

	return out
}

// TotalSend is the number of values this process sends per exchange.
func (p *CommunicationPlan) TotalSend() int {
	n := 0
	for _, l := range p.links {
		n += len(l.Send)
	}

	return n
}

// TotalReceive is the number of values this process receives per exchange.
// It always equals ExternalCount for a valid plan.
func (p *CommunicationPlan) TotalReceive() int {
	n := 0
	for _, l := range p.links {
		n += len(l.Recv)
	}

	return n
}

// InteriorRows lists rows whose columns are all local.
func (p *CommunicationPlan) InteriorRows() []int { return p.interiorRows }

// BoundaryRows lists rows referencing at least one ghost slot.
func (p *CommunicationPlan) BoundaryRows() []int { return p.boundaryRows }
