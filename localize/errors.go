// SPDX-License-Identifier: MIT

package localize

import "errors"

var (
	// ErrUnknownOwner indicates a global column that no rank owns.
	ErrUnknownOwner = errors.New("localize: column has no owning rank")

	// ErrBadOwnershipTable indicates start rows that are not strictly
	// increasing from 0, or that disagree with a rank's own row range.
	ErrBadOwnershipTable = errors.New("localize: malformed ownership table")

	// ErrForeignIndex indicates a neighbor requested a row this rank does
	// not own.
	ErrForeignIndex = errors.New("localize: requested row not owned by this rank")

	// ErrUnexpectedRequest indicates a request from this rank itself or a
	// second request from the same neighbor.
	ErrUnexpectedRequest = errors.New("localize: unexpected index request")
)
