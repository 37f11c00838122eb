// SPDX-License-Identifier: MIT

package diag

import (
	"time"

	"go.uber.org/zap"
)

// Entry is one nonzero of a matrix dump.
type Entry struct {
	Row, Col int
	Value    float64
}

// Diagnostics receives progress events from the kernel.
// Implementations must be safe for concurrent use by all ranks.
type Diagnostics interface {
	// MatrixGenerated reports a freshly assembled local block.
	MatrixGenerated(rank, size, rows, localNnz, totalRows int)
	// ExternalsResolved reports the outcome of index resolution.
	ExternalsResolved(rank, size, externals, neighbors, sendLen int)
	// Iteration reports solver progress.
	Iteration(rank, size, iter int, normr float64)
	// Converged reports the final solver state.
	Converged(rank, size, iters int, normr float64, elapsed time.Duration)
	// DumpMatrix receives every nonzero of a block, in stored order. It is
	// only called when Dumping reports true.
	DumpMatrix(rank, size int, entries []Entry)
	// Dumping reports whether DumpMatrix would do anything, so callers can
	// skip building the entry list.
	Dumping() bool
}

// Nop returns a Diagnostics that discards every event.
func Nop() Diagnostics { return nop{} }

type nop struct{}

func (nop) MatrixGenerated(int, int, int, int, int) {}
func (nop) ExternalsResolved(int, int, int, int, int) {}
func (nop) Iteration(int, int, int, float64) {}
func (nop) Converged(int, int, int, float64, time.Duration) {}
func (nop) DumpMatrix(int, int, []Entry) {}
func (nop) Dumping() bool { return false }

// Option configures NewZap.
type Option func(*zapDiag)

// WithAllRanks lets every rank emit, not only rank 0.
func WithAllRanks() Option {
	return func(d *zapDiag) { d.allRanks = true }
}

// NewZap returns a Diagnostics writing to logger. A nil logger is replaced by
// zap.NewNop.
func NewZap(logger *zap.Logger, opts ...Option) Diagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &zapDiag{logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d
}

type zapDiag struct {
	logger   *zap.Logger
	allRanks bool
}

func (d *zapDiag) emits(rank int) bool { return d.allRanks || rank == 0 }

func (d *zapDiag) with(rank, size int) *zap.Logger {
	return d.logger.With(zap.Int("rank", rank), zap.Int("size", size))
}

func (d *zapDiag) MatrixGenerated(rank, size, rows, localNnz, totalRows int) {
	if !d.emits(rank) {
		return
	}
	d.with(rank, size).Info("Matrix generated",
		zap.Int("rows", rows),
		zap.Int("local_nnz", localNnz),
		zap.Int("total_rows", totalRows))
}

func (d *zapDiag) ExternalsResolved(rank, size, externals, neighbors, sendLen int) {
	if !d.emits(rank) {
		return
	}
	d.with(rank, size).Info("Externals resolved",
		zap.Int("externals", externals),
		zap.Int("neighbors", neighbors),
		zap.Int("send_length", sendLen))
}

func (d *zapDiag) Iteration(rank, size, iter int, normr float64) {
	if !d.emits(rank) {
		return
	}
	d.with(rank, size).Info("Iteration", zap.Int("iter", iter), zap.Float64("residual", normr))
}

func (d *zapDiag) Converged(rank, size, iters int, normr float64, elapsed time.Duration) {
	if !d.emits(rank) {
		return
	}
	d.with(rank, size).Info("Solver finished",
		zap.Int("iterations", iters),
		zap.Float64("residual", normr),
		zap.Duration("elapsed", elapsed))
}

func (d *zapDiag) Dumping() bool {
	return d.logger.Core().Enabled(zap.DebugLevel)
}

func (d *zapDiag) DumpMatrix(rank, size int, entries []Entry) {
	if !d.emits(rank) || !d.Dumping() {
		return
	}
	l := d.with(rank, size)
	for _, e := range entries {
		l.Debug("A", zap.Int("row", e.Row), zap.Int("col", e.Col), zap.Float64("value", e.Value))
	}
}
