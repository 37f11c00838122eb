// SPDX-License-Identifier: MIT

package stencil

import "errors"

var (
	// ErrBadExtent indicates a non-positive subdomain extent, or extents whose
	// product does not fit in an int.
	ErrBadExtent = errors.New("stencil: subdomain extents must be positive")

	// ErrBadTopology indicates a rank outside [0, size) or size < 1.
	ErrBadTopology = errors.New("stencil: invalid process topology")

	// ErrUnknownKind indicates a Kind other than Stencil27 or Stencil7.
	ErrUnknownKind = errors.New("stencil: unknown stencil kind")
)
