// Package localize turns a globally indexed matrix block into a locally
// indexed one plus the CommunicationPlan its distributed products need.
//
// What:
//
//   - Ownership: the sorted table of first rows owned by every rank, shared
//     by all ranks, with O(log P) owner lookup.
//   - Resolve: rewrites column indices in place (local columns become
//     g - start, external ones become rows + ghost slot) and runs the
//     request-for-values handshake that tells every owner which of its rows
//     each neighbor needs.
//
// Protocol (every rank calls Resolve, in the same order as its other
// collectives):
//
//	1. allreduce   one-hot start rows        -> Ownership
//	2. scan        assign ghost slots in first-discovery order
//	3. allreduce   one-hot "I need from q"   -> number of requesters
//	4. post        that many Irecv(AnySource, TagRequest)
//	5. send        requested global rows to each owner
//	6. wait        owner converts requests to local rows -> send lists
//
// Resolving an already localized matrix returns its plan and sends nothing.
// On a single process every column is local, the transform is the identity
// and the plan is empty.
package localize
