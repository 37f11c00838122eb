// SPDX-License-Identifier: MIT

package comm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// World is a set of in-process ranks connected by mailboxes.
// It is safe for concurrent use by all of its ranks.
type World struct {
	size  int
	boxes []*mailbox // indexed by destination rank

	closed    chan struct{}
	closeOnce sync.Once

	messages    atomic.Int64
	payload     atomic.Int64
	collectives atomic.Int64
}

// Stats is a snapshot of the transport counters.
type Stats struct {
	Messages        int64 `yaml:"messages"`         // point-to-point messages sent, collectives included
	PayloadElements int64 `yaml:"payload_elements"` // ints + floats carried by those messages
	Collectives     int64 `yaml:"collectives"`      // completed collective operations
}

// NewWorld creates a world of size ranks.
//
// Errors:
//   - ErrBadSize when size < 1.
//   - a registration error from the Prometheus registerer, if one was given.
func NewWorld(size int, opts ...Option) (*World, error) {
	if size < 1 {
		return nil, fmt.Errorf("NewWorld(%d): %w", size, ErrBadSize)
	}
	o := gatherOptions(opts...)

	w := &World{
		size:   size,
		boxes:  make([]*mailbox, size),
		closed: make(chan struct{}),
	}
	for i := range w.boxes {
		w.boxes[i] = &mailbox{}
	}
	if o.registerer != nil {
		if err := w.register(o.registerer); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Size returns the number of ranks.
func (w *World) Size() int { return w.size }

// Comm returns the communicator of rank. It panics when rank is outside
// [0, Size()), which is a programming error.
func (w *World) Comm(rank int) *Comm {
	if rank < 0 || rank >= w.size {
		panic(fmt.Sprintf("comm: World.Comm(%d) with size %d", rank, w.size))
	}

	return &Comm{world: w, rank: rank}
}

// Run executes fn once per rank, each on its own goroutine, and waits for
// all of them. The first error cancels the context passed to the other ranks
// and is returned.
func (w *World) Run(ctx context.Context, fn func(ctx context.Context, c *Comm) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for r := 0; r < w.size; r++ {
		c := w.Comm(r)
		g.Go(func() error {
			if err := fn(gctx, c); err != nil {
				return fmt.Errorf("rank %d: %w", c.rank, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Close fails every pending and future wait and send with ErrWorldClosed.
func (w *World) Close() {
	w.closeOnce.Do(func() { close(w.closed) })
}

// Stats returns the current counter values.
func (w *World) Stats() Stats {
	return Stats{
		Messages:        w.messages.Load(),
		PayloadElements: w.payload.Load(),
		Collectives:     w.collectives.Load(),
	}
}

func (w *World) isClosed() bool {
	select {
	case <-w.closed:
		return true
	default:
		return false
	}
}

// deliver hands msg to dest: straight into the oldest matching posted
// receive, or onto the unmatched queue.
func (w *World) deliver(dest int, msg Message) {
	w.messages.Add(1)
	w.payload.Add(int64(msg.Len()))
	w.boxes[dest].put(msg)
}

// Self returns the single rank of a fresh size-1 world.
func Self() *Comm {
	w, _ := NewWorld(1)
	return w.Comm(0)
}

// mailbox holds, for one destination rank, the messages nobody asked for yet
// and the receives nobody answered yet. At most one of the two lists is
// non-empty for any (source, tag) pair.
type mailbox struct {
	mu     sync.Mutex
	queue  []Message
	posted []*request
}

func (b *mailbox) put(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, r := range b.posted {
		if r.matches(msg) {
			b.posted = append(b.posted[:i], b.posted[i+1:]...)
			r.done <- msg // buffered, never blocks
			return
		}
	}
	b.queue = append(b.queue, msg)
}

func (b *mailbox) post(r *request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, msg := range b.queue {
		if r.matches(msg) {
			b.queue = append(b.queue[:i], b.queue[i+1:]...)
			r.done <- msg
			return
		}
	}
	b.posted = append(b.posted, r)
}

// request is a posted receive.
type request struct {
	world  *World
	box    *mailbox
	source int
	tag    Tag
	done   chan Message // capacity 1
	err    error        // invalid at post time, or abandoned by a cancelled Wait
}

func (r *request) matches(msg Message) bool {
	return msg.Tag == r.tag && (r.source == AnySource || r.source == msg.Source)
}

// Wait implements Request.
func (r *request) Wait(ctx context.Context) (Message, error) {
	if r.err != nil {
		return Message{}, r.err
	}
	select {
	case msg := <-r.done:
		return msg, nil
	default:
	}
	select {
	case msg := <-r.done:
		return msg, nil
	case <-ctx.Done():
		if msg, ok := r.withdraw(); ok {
			return msg, nil
		}
		r.err = ctx.Err()
		return Message{}, r.err
	case <-r.world.closed:
		return Message{}, ErrWorldClosed
	}
}

// withdraw removes an abandoned receive from its mailbox so it cannot
// swallow a later message. If a message matched it first, that message is
// returned instead.
func (r *request) withdraw() (Message, bool) {
	b := r.box
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, p := range b.posted {
		if p == r {
			b.posted = append(b.posted[:i], b.posted[i+1:]...)
			return Message{}, false
		}
	}
	// matched under the same lock, so done is already filled
	return <-r.done, true
}

// Comm is one rank's view of a World. It implements Communicator.
type Comm struct {
	world *World
	rank  int
}

// Rank implements Topology.
func (c *Comm) Rank() int { return c.rank }

// Size implements Topology.
func (c *Comm) Size() int { return c.world.size }

// World returns the world this rank belongs to.
func (c *Comm) World() *World { return c.world }

// Irecv posts a non-blocking receive from source (or AnySource) with tag.
// An invalid source yields a Request whose Wait fails with ErrRankOutOfRange.
func (c *Comm) Irecv(source int, tag Tag) Request {
	r := &request{
		world:  c.world,
		box:    c.world.boxes[c.rank],
		source: source,
		tag:    tag,
		done:   make(chan Message, 1),
	}
	if source != AnySource && (source < 0 || source >= c.world.size) {
		r.err = fmt.Errorf("Irecv(source=%d): %w", source, ErrRankOutOfRange)
		return r
	}
	r.box.post(r)

	return r
}

// Send copies msg's payload into dest's mailbox. It returns once the copy is
// queued; the caller may reuse its slices immediately.
func (c *Comm) Send(ctx context.Context, dest int, tag Tag, msg Message) error {
	if dest < 0 || dest >= c.world.size {
		return fmt.Errorf("Send(dest=%d): %w", dest, ErrRankOutOfRange)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.world.isClosed() {
		return ErrWorldClosed
	}

	out := Message{Source: c.rank, Tag: tag}
	if msg.Ints != nil {
		out.Ints = append(make([]int, 0, len(msg.Ints)), msg.Ints...)
	}
	if msg.Floats != nil {
		out.Floats = append(make([]float64, 0, len(msg.Floats)), msg.Floats...)
	}
	c.world.deliver(dest, out)

	return nil
}
