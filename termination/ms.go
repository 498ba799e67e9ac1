// SPDX-License-Identifier: MIT
package termination

import (
	"github.com/katalvlaran/polycore/hull"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/simplex"
)

// TerminationTestMS decides whether l's transition relation admits a
// linear ranking function, via the Mesnard-Serebrenik encoding (spec
// §4.9): Farkas multipliers witnessing mu(x) - mu(x') >= 1 over the whole
// loop, intersected with multipliers witnessing mu(x) >= 0 over the
// syntactic pre-state subset of l (see Loop.splitPreState).
func TerminationTestMS(l *Loop, opts ...simplex.Option) (bool, error) {
	p, err := msProblem(l, opts...)
	if err != nil {
		return false, err
	}
	return p.IsSatisfiable()
}

// OneAffineRankingFunctionMS returns a single affine ranking function
// witnessing l's termination, or found=false if none exists. The returned
// Generator is a point in mu-space: coordinate 0 is mu_0 (the constant
// term), coordinate 1+k is the coefficient of program variable x_k (spec
// §6: one_affine_ranking_function_MS(...) -> optional<generator>).
func OneAffineRankingFunctionMS(l *Loop, opts ...simplex.Option) (*polyconstraint.Generator, bool, error) {
	p, err := msProblem(l, opts...)
	if err != nil {
		return nil, false, err
	}
	sat, err := p.IsSatisfiable()
	if err != nil || !sat {
		return nil, false, err
	}
	g, err := p.FeasiblePoint()
	if err != nil {
		return nil, false, err
	}
	mu, err := extractRankingFunction(l.Dim, g)
	if err != nil {
		return nil, false, err
	}
	return mu, true, nil
}

// AllAffineRankingFunctionsMS enumerates every affine ranking function for
// l by delegating to collaborator: the Farkas satisfiability system is
// built as a constraint set over (mu, y, z) and handed to the
// convex-polyhedron collaborator, which is then projected onto the
// mu-coordinates (spec §4.9's "projection onto the mu-coordinates").
// collaborator must already be a polyhedron of the right dimension (an
// empty universe works); this package owns no concrete polyhedron kernel
// (spec §1 Non-goal).
func AllAffineRankingFunctionsMS(l *Loop, collaborator hull.ConvexPolyhedron) (hull.ConvexPolyhedron, error) {
	if collaborator == nil {
		return nil, ErrNoCollaborator
	}
	if l == nil {
		return nil, ErrNilLoop
	}
	before, transition := l.splitPreState()
	transRows, err := farkasRows(2*l.Dim, transition)
	if err != nil {
		return nil, err
	}
	beforeRows, err := farkasRows(l.Dim, before)
	if err != nil {
		return nil, err
	}
	cs, total := buildFarkasConstraints(l.Dim, transRows, beforeRows)
	if collaborator.SpaceDimension() != total {
		return nil, ErrDimensionMismatch
	}
	if err := collaborator.AddConstraints(cs); err != nil {
		return nil, err
	}
	return collaborator.Project(muKeepIndices(l.Dim))
}

func msProblem(l *Loop, opts ...simplex.Option) (*simplex.LPProblem, error) {
	if l == nil {
		return nil, ErrNilLoop
	}
	before, transition := l.splitPreState()
	transRows, err := farkasRows(2*l.Dim, transition)
	if err != nil {
		return nil, err
	}
	beforeRows, err := farkasRows(l.Dim, before)
	if err != nil {
		return nil, err
	}
	cs, total := buildFarkasConstraints(l.Dim, transRows, beforeRows)
	p := simplex.NewProblem(total, opts...)
	if err := p.AddConstraints(cs); err != nil {
		return nil, err
	}
	return p, nil
}
