// SPDX-License-Identifier: MIT

package report

import "errors"

// ErrNilResult indicates an Input without a solver result.
var ErrNilResult = errors.New("report: nil solver result")
