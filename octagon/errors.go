// SPDX-License-Identifier: MIT
// Package octagon implements the Octagonal matrix (OM) and the
// Octagonal_Shape abstract domain built on it (spec §3 OM, §4.3 strong
// closure / strong coherence / tight coherence). Mirrors bds' structure
// throughout (dbm -> om, BDShape -> OctagonalShape), generalized from a
// difference-only DBM to the pseudo-triangular 2n x 2n octagonal
// representation.
package octagon

import "errors"

var (
	// ErrNilShape indicates a nil *OctagonalShape receiver or argument.
	ErrNilShape = errors.New("octagon: nil shape")

	// ErrDimensionMismatch indicates two shapes/expressions of different
	// space dimension were combined.
	ErrDimensionMismatch = errors.New("octagon: dimension mismatch")

	// ErrNotOctagonal indicates add_constraint was given a constraint that
	// is not expressible as ±x_i ± x_j <= b (spec §4.2).
	ErrNotOctagonal = errors.New("octagon: not an octagonal constraint")

	// ErrStrictInequality indicates a strict (>) constraint was presented to
	// an operation that requires the closed-shape contract.
	ErrStrictInequality = errors.New("octagon: strict inequality not allowed")

	// ErrZeroDenominator indicates an affine_image/preimage denominator of
	// zero.
	ErrZeroDenominator = errors.New("octagon: zero denominator")

	// ErrInvalidVariable indicates a variable index outside [0, space_dim).
	ErrInvalidVariable = errors.New("octagon: invalid variable index")

	// ErrNotPartialFunction indicates a map_space_dimensions argument that
	// is not injective where injectivity is required.
	ErrNotPartialFunction = errors.New("octagon: not a partial function")

	// ErrAbandoned indicates a caller-set cancellation flag fired during an
	// expensive computation (closure or widening).
	ErrAbandoned = errors.New("octagon: computation abandoned")

	// ErrNoFeasiblePoint indicates a generator system with no Point or
	// ClosurePoint was given to FromGenerators.
	ErrNoFeasiblePoint = errors.New("octagon: generator system has no feasible point")
)
