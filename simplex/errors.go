// SPDX-License-Identifier: MIT
// Package simplex: sentinel error set, mirroring the teacher's convention
// (lvlath/matrix/errors.go, also followed by bds/errors.go and
// octagon/errors.go): every failure is a package-level sentinel, wrapped
// with fmt.Errorf("%s: %w") at call sites that need extra context.
package simplex

import "errors"

var (
	// ErrNilProblem indicates a nil *LPProblem receiver.
	ErrNilProblem = errors.New("simplex: nil problem")

	// ErrDimensionMismatch indicates a constraint or objective referencing
	// a variable outside the problem's declared space dimension.
	ErrDimensionMismatch = errors.New("simplex: dimension mismatch")

	// ErrStrictInequality indicates a strict (>) constraint was added;
	// LP_Problem's tableau only represents non-strict constraints and
	// equalities (spec §4.8: "strict inequalities in the input are
	// rejected").
	ErrStrictInequality = errors.New("simplex: strict inequality not allowed")

	// ErrLengthExceeded indicates the tableau would grow past the
	// configured maximum column count (spec §4.8: "attempting to grow the
	// tableau beyond the maximum supported size throws length_error").
	ErrLengthExceeded = errors.New("simplex: length exceeded")

	// ErrNotSolved indicates a witness/value query was made before Solve
	// reached a terminal status.
	ErrNotSolved = errors.New("simplex: problem has not been solved")

	// ErrUnsatisfiable indicates a witness was requested from a problem
	// Solve found infeasible.
	ErrUnsatisfiable = errors.New("simplex: problem is unsatisfiable")

	// ErrUnbounded indicates an optimum was requested from a problem Solve
	// found unbounded.
	ErrUnbounded = errors.New("simplex: problem is unbounded")

	// ErrAbandoned indicates a caller-set cancellation flag fired during
	// Solve (spec §5); always safe to return, the tableau is left in
	// whatever intermediate state phase-1/phase-2 reached and must not be
	// queried for a witness afterwards.
	ErrAbandoned = errors.New("simplex: computation abandoned")

	// ErrMismatchedDivisor indicates evaluate_objective_function was given
	// a generator with a non-positive divisor.
	ErrMismatchedDivisor = errors.New("simplex: generator has non-positive divisor")
)
