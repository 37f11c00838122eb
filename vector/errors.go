// SPDX-License-Identifier: MIT

package vector

import "errors"

// ErrLengthMismatch indicates operands of different lengths.
var ErrLengthMismatch = errors.New("vector: length mismatch")
