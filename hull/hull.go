// Package hull specifies the interfaces this engine expects from its
// external collaborators (spec §1): "the full double-description
// (constraints↔generators) convex-polyhedron kernel ... only their
// interfaces are specified". No concrete double-description kernel lives in
// this module — it is explicitly out of scope — but two engine features
// cannot be expressed without delegating to one:
//
//   - bds.BDShape.H79WideningAssign (spec §4.6: "Delegates to the full
//     convex-polyhedron widening of the external collaborator, then
//     approximates back").
//   - termination.AllAffineRankingFunctionsMS/PR (spec §4.9: "enumeration
//     of 'all ranking functions' goes through the convex-polyhedron
//     collaborator (projection onto the μ-coordinates)").
//
// Callers that need these two features supply a ConvexPolyhedron
// implementation (backed by whatever full polyhedron library they already
// depend on); callers that don't need them may pass nil and every other
// operation in this module works unaffected.
package hull

import (
	"github.com/katalvlaran/polycore/polyconstraint"
)

// ConvexPolyhedron is the minimal external surface this engine consumes
// from a full double-description convex-polyhedron kernel.
type ConvexPolyhedron interface {
	// SpaceDimension returns the polyhedron's ambient dimension.
	SpaceDimension() int

	// AddConstraints conjoins cs onto the polyhedron in place.
	AddConstraints(cs []*polyconstraint.Constraint) error

	// Widen performs the collaborator's own widening of this polyhedron
	// against the (smaller, pre-widening) older one, returning the widened
	// result. Used by H79 widening (spec §4.6).
	Widen(older ConvexPolyhedron) (ConvexPolyhedron, error)

	// ApproximateAsBoundedDifferences projects the polyhedron back onto the
	// bounded-difference shapes it can tightly represent, used by H79
	// widening's "approximates back" step.
	ApproximateAsBoundedDifferences() ([]polyconstraint.BoundedDifference, error)

	// Project eliminates every variable except those in keep (by index),
	// used to enumerate "all ranking functions" by projecting a
	// satisfiability polyhedron onto its μ-coordinates (spec §4.9).
	Project(keep []int) (ConvexPolyhedron, error)

	// Generators enumerates the polyhedron's generator system, the
	// double-description dual used to read back ranking-function witnesses.
	Generators() ([]*polyconstraint.Generator, error)
}
