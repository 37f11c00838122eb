// SPDX-License-Identifier: MIT

// Package comm: collaborator contracts consumed by the resolver and the halo
// engine. Implementations live in world.go; any message-passing runtime that
// honors these contracts can stand in.
package comm

import "context"

// Tag distinguishes message streams between the same pair of ranks.
// Negative tags are reserved for collectives.
type Tag int

// AnySource matches a message from any rank in Irecv.
const AnySource = -1

// Root is the rank that gathers and broadcasts collective results.
const Root = 0

// Message is one point-to-point payload. Index lists travel in Ints, vector
// values in Floats. Source and Tag are filled in by the transport.
type Message struct {
	Source int
	Tag    Tag
	Ints   []int
	Floats []float64
}

// Len returns the number of payload elements.
func (m Message) Len() int { return len(m.Ints) + len(m.Floats) }

// Request is the handle of a posted non-blocking receive.
type Request interface {
	// Wait blocks until the matching message arrived, ctx is done, or the
	// transport shut down. A Wait ended by ctx withdraws the receive, so a
	// later message is left for the next matching receive.
	Wait(ctx context.Context) (Message, error)
}

// Topology identifies this process inside the process set.
type Topology interface {
	Rank() int
	Size() int
}

// Transport is the point-to-point layer: a non-blocking receive, a blocking
// send, and (through Request) wait-for-completion.
//
// Matching follows MPI: a receive matches the oldest pending message from
// the requested source (or AnySource) with the same tag, and two messages
// from one sender with one tag are received in send order.
type Transport interface {
	Irecv(source int, tag Tag) Request
	Send(ctx context.Context, dest int, tag Tag, msg Message) error
}

// Op is a reduction operation for AllreduceFloat.
type Op int

const (
	OpSum Op = iota
	OpMin
	OpMax
)

// Reducer provides the collectives every rank must enter in the same order.
type Reducer interface {
	// AllreduceFloat combines one value per rank with op and returns the
	// result on every rank.
	AllreduceFloat(ctx context.Context, v float64, op Op) (float64, error)
	// AllreduceInts sums equal-length int vectors elementwise across ranks.
	AllreduceInts(ctx context.Context, v []int) ([]int, error)
	// Barrier returns once every rank has entered it.
	Barrier(ctx context.Context) error
}

// Communicator is everything a rank needs from its runtime.
type Communicator interface {
	Topology
	Transport
	Reducer
}
