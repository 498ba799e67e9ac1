// SPDX-License-Identifier: MIT
// Package bds: sentinel error set, mirroring the teacher's convention
// (lvlath/matrix/errors.go): every failure is a package-level sentinel,
// never stringified at the definition site, wrapped with fmt.Errorf("%s: %w")
// at call sites that need extra context. Callers branch with errors.Is.
//
// ERROR PRIORITY (mirrors the teacher's documented-and-enforced order):
// nil receiver -> dimension mismatch -> non-BD constraint -> strict
// inequality -> zero denominator -> budget cancellation.
package bds

import "errors"

var (
	// ErrNilShape indicates a nil *BDShape receiver or argument.
	ErrNilShape = errors.New("bds: nil shape")

	// ErrDimensionMismatch indicates two shapes/expressions of different
	// space dimension were combined.
	ErrDimensionMismatch = errors.New("bds: dimension mismatch")

	// ErrNotBoundedDifference indicates add_constraint was given a
	// constraint that is not expressible as a bounded difference (spec
	// §4.2); refine_with_constraint never returns this — it silently
	// ignores the constraint instead.
	ErrNotBoundedDifference = errors.New("bds: not a bounded-difference constraint")

	// ErrStrictInequality indicates a strict (>) constraint was presented
	// to an operation that requires the closed-shape contract.
	ErrStrictInequality = errors.New("bds: strict inequality not allowed")

	// ErrZeroDenominator indicates an affine_image/preimage denominator of
	// zero.
	ErrZeroDenominator = errors.New("bds: zero denominator")

	// ErrInvalidVariable indicates a variable index outside [0, space_dim).
	ErrInvalidVariable = errors.New("bds: invalid variable index")

	// ErrNotPartialFunction indicates a map_space_dimensions argument that
	// is not injective where injectivity is required.
	ErrNotPartialFunction = errors.New("bds: not a partial function")

	// ErrAbandoned indicates a caller-set cancellation flag fired during an
	// expensive computation (closure or widening); always safe to return,
	// never leaves the shape in a partially-mutated state visible to the
	// caller (the mutation is finished or rolled back before this is
	// returned).
	ErrAbandoned = errors.New("bds: computation abandoned")

	// ErrNoFeasiblePoint indicates a generator system with no Point or
	// ClosurePoint was given to FromGenerators (a polyhedron needs at
	// least one located point to be non-empty).
	ErrNoFeasiblePoint = errors.New("bds: generator system has no feasible point")

	// ErrLengthExceeded indicates the shape's space dimension would exceed
	// the maximum representable matrix order.
	ErrLengthExceeded = errors.New("bds: length exceeded")
)
