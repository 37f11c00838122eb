// SPDX-License-Identifier: MIT

package cg

import "errors"

// ErrBreakdown indicates p·Ap == 0 with a non-zero residual: the search
// direction carries no information and the iteration cannot continue.
var ErrBreakdown = errors.New("cg: breakdown, p·Ap is zero")
