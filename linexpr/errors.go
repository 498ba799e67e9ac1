// SPDX-License-Identifier: MIT
package linexpr

import "errors"

var (
	// ErrDimensionMismatch indicates two expressions/constraints built over
	// incompatible space dimensions were combined.
	ErrDimensionMismatch = errors.New("linexpr: dimension mismatch")

	// ErrNegativeVariable indicates a variable index < 0 was requested.
	ErrNegativeVariable = errors.New("linexpr: variable index must be >= 0")
)
