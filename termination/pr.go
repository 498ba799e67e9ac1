// SPDX-License-Identifier: MIT
package termination

import (
	"github.com/katalvlaran/polycore/hull"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/simplex"
)

// TerminationTestPR decides termination for a loop that, unlike MS, the
// caller partitions explicitly into a pre-state system csBefore (over dim
// variables) and a transition system csAfter (over 2*dim combined
// variables), matching the two-argument external interface spec §6 names
// (`termination_test_PR(cs_before, cs_after)`). It builds the same Farkas
// system as TerminationTestMS (buildFarkasConstraints), with csAfter as the
// transition rows and csBefore as the pre-state rows; no separate
// Podelski-Rybalchenko block-matrix system with its own dual variables is
// built. The ranking function is read back from the mu coordinates of a
// feasible point, as for MS.
func TerminationTestPR(dim int, csBefore, csAfter []*polyconstraint.Constraint, opts ...simplex.Option) (bool, error) {
	p, err := prProblem(dim, csBefore, csAfter, opts...)
	if err != nil {
		return false, err
	}
	return p.IsSatisfiable()
}

// OneAffineRankingFunctionPR returns a single ranking function for the
// (csBefore, csAfter) loop description, or found=false if termination
// cannot be proved by this encoding. Coordinate layout matches
// OneAffineRankingFunctionMS.
func OneAffineRankingFunctionPR(dim int, csBefore, csAfter []*polyconstraint.Constraint, opts ...simplex.Option) (*polyconstraint.Generator, bool, error) {
	p, err := prProblem(dim, csBefore, csAfter, opts...)
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
	mu, err := extractRankingFunction(dim, g)
	if err != nil {
		return nil, false, err
	}
	return mu, true, nil
}

// AllAffineRankingFunctionsPR mirrors AllAffineRankingFunctionsMS, built
// from the caller-partitioned (csBefore, csAfter) system instead of a
// single Loop.
func AllAffineRankingFunctionsPR(dim int, csBefore, csAfter []*polyconstraint.Constraint, collaborator hull.ConvexPolyhedron) (hull.ConvexPolyhedron, error) {
	if collaborator == nil {
		return nil, ErrNoCollaborator
	}
	transRows, err := farkasRows(2*dim, csAfter)
	if err != nil {
		return nil, err
	}
	beforeRows, err := farkasRows(dim, csBefore)
	if err != nil {
		return nil, err
	}
	cs, total := buildFarkasConstraints(dim, transRows, beforeRows)
	if collaborator.SpaceDimension() != total {
		return nil, ErrDimensionMismatch
	}
	if err := collaborator.AddConstraints(cs); err != nil {
		return nil, err
	}
	return collaborator.Project(muKeepIndices(dim))
}

func prProblem(dim int, csBefore, csAfter []*polyconstraint.Constraint, opts ...simplex.Option) (*simplex.LPProblem, error) {
	transRows, err := farkasRows(2*dim, csAfter)
	if err != nil {
		return nil, err
	}
	beforeRows, err := farkasRows(dim, csBefore)
	if err != nil {
		return nil, err
	}
	cs, total := buildFarkasConstraints(dim, transRows, beforeRows)
	p := simplex.NewProblem(total, opts...)
	if err := p.AddConstraints(cs); err != nil {
		return nil, err
	}
	return p, nil
}
