// SPDX-License-Identifier: MIT

package halo

import "errors"

var (
	// ErrCountMismatch indicates a neighbor sent a different number of values
	// than the plan expects from it.
	ErrCountMismatch = errors.New("halo: received value count differs from plan")

	// ErrNilTransport indicates a block with neighbors but no transport.
	ErrNilTransport = errors.New("halo: nil transport")
)
