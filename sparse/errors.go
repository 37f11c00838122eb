// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set.
// This file defines ONLY package-level sentinel errors. Operations wrap them
// with an operation tag via sparseErrorf; callers match with errors.Is.

package sparse

import "errors"

var (
	// ErrNilMatrix indicates that a nil *Matrix was passed.
	ErrNilMatrix = errors.New("sparse: nil matrix")

	// ErrEmptyRange is returned when a row range owns no rows (Stop <= Start)
	// or starts below zero.
	ErrEmptyRange = errors.New("sparse: empty or negative row range")

	// ErrDimensionMismatch indicates a vector or index slice whose length does
	// not agree with the matrix shape.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrRowTooDense signals a row holding more nonzeros than the 27-point
	// stencil allows.
	ErrRowTooDense = errors.New("sparse: row exceeds stencil nonzero bound")

	// ErrBadRowPointer signals a non-monotone or out-of-bounds CSR row pointer.
	ErrBadRowPointer = errors.New("sparse: malformed row pointer")

	// ErrBadDiagonal signals a diagonal offset that does not point inside its row.
	ErrBadDiagonal = errors.New("sparse: diagonal offset outside row")

	// ErrColumnOutOfRange signals a column index outside [0, ColumnCount())
	// after localization, or outside [0, TotalRows()) before it.
	ErrColumnOutOfRange = errors.New("sparse: column index out of range")

	// ErrAlreadyLocalized is returned by Localize when the matrix already
	// carries local/ghost column indices. Translating twice would corrupt it.
	ErrAlreadyLocalized = errors.New("sparse: matrix already localized")

	// ErrNotLocalized is returned by MatVec when a block of a multi-process
	// operator still carries global column indices.
	ErrNotLocalized = errors.New("sparse: matrix holds global columns; localize first")

	// ErrNilPlan indicates Localize was called without a communication plan.
	ErrNilPlan = errors.New("sparse: nil communication plan")

	// ErrBadPlan signals an inconsistent communication plan: a ghost mapping
	// that is not a bijection onto the ghost region, a receive slot outside
	// it, or a send row outside the local rows.
	ErrBadPlan = errors.New("sparse: inconsistent communication plan")
)
