// Package sparse holds the per-process sparse operator of the conjugate-gradient
// benchmark and its local matrix-vector kernel.
//
// What:
//
//   - Matrix: a row-partitioned square operator stored in contiguous CSR form
//     (row pointer, column indices, values) plus a per-row diagonal offset.
//     Column indices are GLOBAL right after assembly and become LOCAL/GHOST
//     once a CommunicationPlan is installed with Localize.
//   - CommunicationPlan: neighbor links with per-neighbor send (local rows) and
//     receive (ghost slots) lists, and the external→ghost-slot mapping.
//   - MatVec: y = A·xExt over the extended (local + ghost) vector.
//
// Layout after localization:
//
//	xExt = [ x[0] … x[rows-1] | ghost[rows] … ghost[rows+externals-1] ]
//	          owned locally         received from neighbors
//
// Complexity:
//
//   - MatVec: O(nnz) time, O(rows) space for the output.
//   - Validate: O(nnz).
//
// Errors:
//
//   - ErrNilMatrix, ErrEmptyRange, ErrDimensionMismatch, ErrRowTooDense,
//     ErrBadRowPointer, ErrBadDiagonal, ErrColumnOutOfRange,
//     ErrAlreadyLocalized, ErrNilPlan.
//
// The matrix and its plan are read-only after Localize; any number of
// goroutines may multiply with them concurrently.
package sparse
