// SPDX-License-Identifier: MIT

package comm

import (
	"context"
	"fmt"
	"math"
)

// Reserved tags for collectives. User tags must be >= 0.
const (
	tagReduceUp   Tag = -1
	tagReduceDown Tag = -2
	tagBarrier    Tag = -3
)

// gatherScatter sends up to Root, lets Root combine the rank-ordered
// contributions, and returns Root's result on every rank.
func (c *Comm) gatherScatter(ctx context.Context, up Message, combine func(parts []Message) (Message, error)) (Message, error) {
	if c.world.size == 1 {
		res, err := combine([]Message{up})
		if err == nil {
			c.world.collectives.Add(1)
		}
		return res, err
	}

	if c.rank != Root {
		// Post the result receive before contributing.
		down := c.Irecv(Root, tagReduceDown)
		if err := c.Send(ctx, Root, tagReduceUp, up); err != nil {
			return Message{}, err
		}
		return down.Wait(ctx)
	}

	reqs := make([]Request, c.world.size)
	for r := 1; r < c.world.size; r++ {
		reqs[r] = c.Irecv(r, tagReduceUp)
	}
	parts := make([]Message, c.world.size)
	parts[Root] = up
	for r := 1; r < c.world.size; r++ {
		msg, err := reqs[r].Wait(ctx)
		if err != nil {
			return Message{}, err
		}
		parts[r] = msg
	}
	res, err := combine(parts)
	if err != nil {
		return Message{}, err
	}
	for r := 1; r < c.world.size; r++ {
		if err = c.Send(ctx, r, tagReduceDown, res); err != nil {
			return Message{}, err
		}
	}
	c.world.collectives.Add(1)

	return res, nil
}

// AllreduceFloat implements Reducer.
func (c *Comm) AllreduceFloat(ctx context.Context, v float64, op Op) (float64, error) {
	if op != OpSum && op != OpMin && op != OpMax {
		return 0, fmt.Errorf("AllreduceFloat(op=%d): %w", op, ErrUnknownOp)
	}
	res, err := c.gatherScatter(ctx, Message{Floats: []float64{v}}, func(parts []Message) (Message, error) {
		acc := parts[0].Floats[0]
		for _, p := range parts[1:] {
			x := p.Floats[0]
			switch op {
			case OpSum:
				acc += x
			case OpMin:
				acc = math.Min(acc, x)
			case OpMax:
				acc = math.Max(acc, x)
			}
		}
		return Message{Floats: []float64{acc}}, nil
	})
	if err != nil {
		return 0, fmt.Errorf("AllreduceFloat: %w", err)
	}

	return res.Floats[0], nil
}

// AllreduceInts implements Reducer.
func (c *Comm) AllreduceInts(ctx context.Context, v []int) ([]int, error) {
	res, err := c.gatherScatter(ctx, Message{Ints: v}, func(parts []Message) (Message, error) {
		sum := make([]int, len(parts[0].Ints))
		for r, p := range parts {
			if len(p.Ints) != len(sum) {
				return Message{}, fmt.Errorf("rank %d sent %d elements, want %d: %w", r, len(p.Ints), len(sum), ErrLengthMismatch)
			}
			for i, x := range p.Ints {
				sum[i] += x
			}
		}
		return Message{Ints: sum}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("AllreduceInts: %w", err)
	}
	if len(res.Ints) != len(v) {
		return nil, fmt.Errorf("AllreduceInts: got %d elements, sent %d: %w", len(res.Ints), len(v), ErrLengthMismatch)
	}

	return res.Ints, nil
}

// Barrier implements Reducer.
func (c *Comm) Barrier(ctx context.Context) error {
	if c.world.size == 1 {
		return nil
	}
	if c.rank != Root {
		release := c.Irecv(Root, tagBarrier)
		if err := c.Send(ctx, Root, tagBarrier, Message{}); err != nil {
			return err
		}
		_, err := release.Wait(ctx)
		return err
	}

	reqs := make([]Request, 0, c.world.size-1)
	for r := 1; r < c.world.size; r++ {
		reqs = append(reqs, c.Irecv(r, tagBarrier))
	}
	for _, req := range reqs {
		if _, err := req.Wait(ctx); err != nil {
			return err
		}
	}
	for r := 1; r < c.world.size; r++ {
		if err := c.Send(ctx, r, tagBarrier, Message{}); err != nil {
			return err
		}
	}

	return nil
}
