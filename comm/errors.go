// SPDX-License-Identifier: MIT

package comm

import "errors"

var (
	// ErrBadSize is returned when a world is requested with fewer than one rank.
	ErrBadSize = errors.New("comm: world size must be >= 1")

	// ErrRankOutOfRange indicates a source or destination outside [0, Size()).
	ErrRankOutOfRange = errors.New("comm: rank out of range")

	// ErrWorldClosed is returned by sends and waits after World.Close.
	ErrWorldClosed = errors.New("comm: world closed")

	// ErrLengthMismatch signals ranks entering AllreduceInts with vectors of
	// different lengths.
	ErrLengthMismatch = errors.New("comm: collective length mismatch")

	// ErrUnknownOp indicates an Op outside OpSum, OpMin, OpMax.
	ErrUnknownOp = errors.New("comm: unknown reduction op")
)
