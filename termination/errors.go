// SPDX-License-Identifier: MIT
// Package termination builds the Mesnard-Serebrenik (MS) and
// Podelski-Rybalchenko (PR) ranking-function satisfiability/parametrization
// systems from a loop description (spec §4.9) and dispatches the
// satisfiability query to simplex and the "all ranking functions"
// enumeration to a caller-supplied hull.ConvexPolyhedron collaborator.
package termination

import "errors"

var (
	// ErrNilLoop indicates a nil *Loop receiver.
	ErrNilLoop = errors.New("termination: nil loop")

	// ErrDimensionMismatch indicates a constraint referencing a variable
	// outside the loop's declared dimension.
	ErrDimensionMismatch = errors.New("termination: dimension mismatch")

	// ErrStrictInequality indicates a strict (>) constraint was supplied;
	// the Farkas encodings only admit equalities and non-strict
	// inequalities (spec §4.2: strict inequalities are rejected by the
	// closed contract this package builds on top of).
	ErrStrictInequality = errors.New("termination: strict inequality not allowed")

	// ErrNoCollaborator indicates an All* enumeration was requested without
	// a hull.ConvexPolyhedron collaborator (spec §1: the full
	// double-description kernel is an external collaborator, not part of
	// this module).
	ErrNoCollaborator = errors.New("termination: no convex-polyhedron collaborator supplied")
)
