// SPDX-License-Identifier: MIT

package halo

import (
	"context"
	"fmt"

	"github.com/katalvlaran/hpccg/comm"
	"github.com/katalvlaran/hpccg/sparse"
)

// TagHalo carries vector values between neighbors.
const TagHalo comm.Tag = 101

// Exchange returns the extended vector of A for x: xExt[:RowCount] = x and
// every ghost slot holds the value its owner sent.
//
// A block that was never localized has no ghosts; Exchange then returns a
// copy of x when the block is the whole operator, or sparse.ErrNotLocalized.
//
// Errors: sparse.ErrNilMatrix, sparse.ErrDimensionMismatch,
// sparse.ErrNotLocalized, ErrNilTransport, ErrCountMismatch, transport and
// context errors.
func Exchange(ctx context.Context, t comm.Transport, A *sparse.Matrix, x []float64) ([]float64, error) {
	xExt, err := extend(A, x)
	if err != nil {
		return nil, fmt.Errorf("Exchange: %w", err)
	}
	if !A.Localized() || len(A.Plan().Links()) == 0 {
		return xExt, nil
	}

	ex, err := begin(ctx, t, A.Plan(), x)
	if err != nil {
		return nil, fmt.Errorf("Exchange: %w", err)
	}
	if err = ex.complete(ctx, xExt); err != nil {
		return nil, fmt.Errorf("Exchange: %w", err)
	}

	return xExt, nil
}

// extend validates x against A and copies it into a vector with room for
// the ghost region.
func extend(A *sparse.Matrix, x []float64) ([]float64, error) {
	if A == nil {
		return nil, sparse.ErrNilMatrix
	}
	if len(x) != A.RowCount() {
		return nil, fmt.Errorf("len(x)=%d rows=%d: %w", len(x), A.RowCount(), sparse.ErrDimensionMismatch)
	}
	if !A.Localized() && A.TotalRows() != A.RowCount() {
		return nil, sparse.ErrNotLocalized
	}
	xExt := make([]float64, A.ColumnCount())
	copy(xExt, x)

	return xExt, nil
}

// exchange is an in-flight halo exchange: receives posted, sends issued.
type exchange struct {
	links []sparse.Link
	reqs  []comm.Request // parallel to links; nil when nothing is expected
}

// begin posts a receive for every neighbor that sends to us, then gathers
// and sends every outgoing list. Receives go first so no rank ever waits on
// a neighbor that has not posted yet.
func begin(ctx context.Context, t comm.Transport, plan *sparse.CommunicationPlan, x []float64) (*exchange, error) {
	if t == nil {
		return nil, ErrNilTransport
	}
	links := plan.Links()
	ex := &exchange{links: links, reqs: make([]comm.Request, len(links))}
	for i, l := range links {
		if len(l.Recv) > 0 {
			ex.reqs[i] = t.Irecv(l.Rank, TagHalo)
		}
	}

	var buf []float64
	for _, l := range links {
		if len(l.Send) == 0 {
			continue
		}
		buf = buf[:0]
		for _, row := range l.Send {
			buf = append(buf, x[row])
		}
		if err := t.Send(ctx, l.Rank, TagHalo, comm.Message{Floats: buf}); err != nil {
			return nil, fmt.Errorf("send to %d: %w", l.Rank, err)
		}
	}

	return ex, nil
}

// complete waits for every posted receive and only then scatters the values
// into the ghost slots of xExt.
func (ex *exchange) complete(ctx context.Context, xExt []float64) error {
	got := make([][]float64, len(ex.links))
	for i, req := range ex.reqs {
		if req == nil {
			continue
		}
		msg, err := req.Wait(ctx)
		if err != nil {
			return fmt.Errorf("receive from %d: %w", ex.links[i].Rank, err)
		}
		if want := len(ex.links[i].Recv); len(msg.Floats) != want {
			return fmt.Errorf("rank %d sent %d values, want %d: %w", ex.links[i].Rank, len(msg.Floats), want, ErrCountMismatch)
		}
		got[i] = msg.Floats
	}

	for i, l := range ex.links {
		for k, slot := range l.Recv {
			xExt[slot] = got[i][k]
		}
	}

	return nil
}
