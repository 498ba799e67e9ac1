// SPDX-License-Identifier: MIT
package bds

import (
	"math/big"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// FromConstraints builds the BD_Shape that is the intersection of cs,
// starting from the universe of the given space dimension. Non-BD
// constraints are rejected (ErrNotBoundedDifference), matching the strict
// add_constraint contract (spec §6).
func FromConstraints(n int, cs []*polyconstraint.Constraint, opts ...Option) (*BDShape, error) {
	s := Universe(n, opts...)
	if err := s.AddConstraints(cs); err != nil {
		return nil, err
	}
	return s, nil
}

// boundConstraint builds the constraint sign*x_i <= bound.Num/bound.Den
// (equivalently den*sign*x_i - num <= 0) as an integer linear expression,
// clearing the rational bound's denominator so the extractor (which only
// ever sees integer coefficients, spec §3) can classify it.
func boundConstraint(i int, sign int64, bound rational.Ext) *polyconstraint.Constraint {
	r := bound.Rat()
	e, _ := linexpr.NewVariable(i)
	e = e.Scale(big.NewInt(-sign * r.Denom().Int64()))
	e.SetInhomogeneous(new(big.Int).Set(r.Num()))
	return polyconstraint.NewConstraint(e, polyconstraint.GE)
}

// FromBox builds the BD_Shape {lower[i] <= x_i <= upper[i]} for each i,
// where lower[i]/upper[i] may be ±Inf to denote unbounded on that side.
func FromBox(lower, upper []rational.Ext, opts ...Option) (*BDShape, error) {
	n := len(lower)
	var cs []*polyconstraint.Constraint
	for i := 0; i < n; i++ {
		if !lower[i].IsMinusInfinity() {
			negLower, _ := rational.Neg(lower[i], rational.DirNotNeeded)
			cs = append(cs, boundConstraint(i, -1, negLower)) // -x_i <= -lower[i]
		}
		if !upper[i].IsPlusInfinity() {
			cs = append(cs, boundConstraint(i, 1, upper[i])) // x_i <= upper[i]
		}
	}
	return FromConstraints(n, cs, opts...)
}

// FromGenerators builds the BD_Shape that is the convex hull of gs. At
// least one Point or ClosurePoint generator is required (ErrNoFeasiblePoint
// otherwise, spec §6). Since a DBM can only tightly represent bounded
// differences, lines/rays that are not axis-aligned unit directions are
// approximated away to +Inf on the corresponding bound (sound, per the
// engine's "never under-approximate" contract): this constructor only
// folds in Point/ClosurePoint generators and ignores Line/Ray, which is a
// safe over-approximation of their true (possibly non-BD) span.
func FromGenerators(n int, gs []*polyconstraint.Generator, opts ...Option) (*BDShape, error) {
	hasPoint := false
	for _, g := range gs {
		if g.Kind() == polyconstraint.Point || g.Kind() == polyconstraint.ClosurePoint {
			hasPoint = true
			break
		}
	}
	if !hasPoint {
		return nil, ErrNoFeasiblePoint
	}
	var hull *BDShape
	for _, g := range gs {
		if g.Kind() != polyconstraint.Point && g.Kind() != polyconstraint.ClosurePoint {
			continue
		}
		point := singlePointShape(n, g, opts...)
		if hull == nil {
			hull = point
			continue
		}
		if err := hull.UpperBoundAssign(point); err != nil {
			return nil, err
		}
	}
	return hull, nil
}

// singlePointShape builds the degenerate BD_Shape containing exactly the
// point described by g (x_i == a_i/d for every i), used as the seed for
// FromGenerators' convex-hull accumulation.
func singlePointShape(n int, g *polyconstraint.Generator, opts ...Option) *BDShape {
	s := Universe(n, opts...)
	d := g.Divisor()
	for i := 0; i < n; i++ {
		c := g.Expression().Coefficient(i)
		val := new(big.Rat).SetFrac(c, d)
		ext := rational.FromRat(val)
		neg, _ := rational.Neg(ext, rational.DirNotNeeded)
		s.m.set(0, i+1, ext)
		s.m.set(i+1, 0, neg)
	}
	s.status = genericStatus(false, false)
	_ = s.ShortestPathClosure()
	return s
}
