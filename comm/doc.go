// Package comm supplies the process-topology and transport collaborators of
// the distributed kernel.
//
// What:
//
//   - Topology, Transport, Reducer, Communicator: the contracts the index
//     resolver and halo engine are written against (rank/size, non-blocking
//     receive, blocking send, wait, global reductions).
//   - World: an in-process runtime where every rank is a goroutine and
//     ranks share nothing but messages. Sends are eager: the payload is
//     copied into the destination mailbox, so a send never waits for its
//     receive and the sender may reuse its buffer immediately.
//   - Self: a single-rank communicator for serial runs.
//
// Collectives are built from point-to-point messages on reserved tags: every
// rank sends its contribution to Root, Root combines them in rank order and
// sends the result back. The combine order is fixed, so sums are
// reproducible run to run.
//
// There are no timeouts: a rank waiting on a neighbor that never sends blocks
// until its context is cancelled or the world is closed.
//
// Metrics: WithRegisterer exposes message, payload and collective counters
// through Prometheus.
package comm
