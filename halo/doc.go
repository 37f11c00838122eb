// Package halo exchanges boundary vector values between ranks and computes
// the distributed matrix-vector product on a localized block.
//
// What:
//
//   - Exchange builds the extended vector xExt = [x | ghosts] from the
//     block's CommunicationPlan: post every receive, gather and send every
//     outgoing list, wait for all receives, then scatter. Ghost slots are
//     written only after every receive completed.
//   - MatVec is Exchange followed by the local kernel. WithOverlap computes
//     the rows that touch no ghost slot while the receives are in flight,
//     and the remaining rows once they complete; per-row summation order is
//     unchanged, so both paths give identical results.
//
// Nothing persists between calls: the block and its plan are only read.
// A rank issues its distributed products one at a time, since every call
// uses the same message tag.
package halo
