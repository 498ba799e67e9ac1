// SPDX-License-Identifier: MIT
// Package rational: sentinel errors.
//
// Mirrors the teacher's convention (see lvlath/matrix/errors.go): one
// package-level sentinel per failure class, always prefixed with the
// package name, never wrapped at definition site.
package rational

import "errors"

var (
	// ErrZeroDenominator is returned by Div / DivRoundUp when the divisor is
	// zero. Division by zero is a caller (precondition) error, never a
	// numerical result.
	ErrZeroDenominator = errors.New("rational: zero denominator")

	// ErrNotFinite is returned by operations that require a finite operand
	// (e.g. Sqrt, DivRoundUp) but received +Inf, -Inf, or NaN.
	ErrNotFinite = errors.New("rational: operand is not finite")

	// ErrNegativeRadicand is returned by Sqrt when x < 0.
	ErrNegativeRadicand = errors.New("rational: negative radicand")
)
