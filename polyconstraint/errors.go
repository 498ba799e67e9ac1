// SPDX-License-Identifier: MIT
package polyconstraint

import "errors"

var (
	// ErrNotBoundedDifference is returned by ExtractBoundedDifference when
	// the constraint cannot be written in the bounded-difference form
	// a_k*x_k <= b / -a_k*x_k <= b / a_k*(x_i - x_j) <= b with a_k > 0.
	ErrNotBoundedDifference = errors.New("polyconstraint: not a bounded-difference constraint")

	// ErrNotOctagonal is returned by ExtractOctagonal when the constraint
	// cannot be written in the octagonal form ±x_i ± x_j <= b.
	ErrNotOctagonal = errors.New("polyconstraint: not an octagonal constraint")

	// ErrStrictInequality is returned when a strict constraint (>) is
	// presented to a context that only accepts closed-shape constraints.
	ErrStrictInequality = errors.New("polyconstraint: strict inequality not allowed")

	// ErrNonPositiveDivisor is returned when a Generator of kind Point or
	// ClosurePoint is built with a non-positive divisor.
	ErrNonPositiveDivisor = errors.New("polyconstraint: point/closure-point divisor must be positive")

	// ErrDivisorNotZero names a Line or Ray generator with a non-zero
	// divisor (spec §3: "For lines and rays ... divisor is 0"). NewLine and
	// NewRay take no divisor, so no constructor in this package returns it.
	ErrDivisorNotZero = errors.New("polyconstraint: line/ray divisor must be zero")
)
