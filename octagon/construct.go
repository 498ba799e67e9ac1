// SPDX-License-Identifier: MIT
package octagon

import (
	"math/big"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// FromConstraints builds the Octagonal_Shape that is the intersection of
// cs, starting from the universe of the given space dimension.
func FromConstraints(n int, cs []*polyconstraint.Constraint, opts ...Option) (*OctagonalShape, error) {
	s := Universe(n, opts...)
	if err := s.AddConstraints(cs); err != nil {
		return nil, err
	}
	return s, nil
}

func boundConstraint(i int, sign int64, bound rational.Ext) *polyconstraint.Constraint {
	r := bound.Rat()
	e, _ := linexpr.NewVariable(i)
	e = e.Scale(big.NewInt(-sign * r.Denom().Int64()))
	e.SetInhomogeneous(new(big.Int).Set(r.Num()))
	return polyconstraint.NewConstraint(e, polyconstraint.GE)
}

// FromBox builds the Octagonal_Shape {lower[i] <= x_i <= upper[i]}.
func FromBox(lower, upper []rational.Ext, opts ...Option) (*OctagonalShape, error) {
	n := len(lower)
	var cs []*polyconstraint.Constraint
	for i := 0; i < n; i++ {
		if !lower[i].IsMinusInfinity() {
			negLower, _ := rational.Neg(lower[i], rational.DirNotNeeded)
			cs = append(cs, boundConstraint(i, -1, negLower)) // -x_i <= -lower[i]
		}
		if !upper[i].IsPlusInfinity() {
			cs = append(cs, boundConstraint(i, 1, upper[i]))
		}
	}
	return FromConstraints(n, cs, opts...)
}

// FromGenerators builds the Octagonal_Shape that is the convex hull of gs
// (spec §6); at least one Point/ClosurePoint is required.
func FromGenerators(n int, gs []*polyconstraint.Generator, opts ...Option) (*OctagonalShape, error) {
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
	var result *OctagonalShape
	for _, g := range gs {
		if g.Kind() != polyconstraint.Point && g.Kind() != polyconstraint.ClosurePoint {
			continue
		}
		point := singlePointShape(n, g, opts...)
		if result == nil {
			result = point
			continue
		}
		if err := result.UpperBoundAssign(point); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func singlePointShape(n int, g *polyconstraint.Generator, opts ...Option) *OctagonalShape {
	s := Universe(n, opts...)
	d := g.Divisor()
	for i := 0; i < n; i++ {
		c := g.Expression().Coefficient(i)
		val := new(big.Rat).SetFrac(c, d)
		twice := new(big.Rat).Mul(val, big.NewRat(2, 1))
		pos, neg := 2*i, 2*i+1
		s.m.set(neg, pos, rational.FromRat(twice))                       // +2x_i <= 2val
		s.m.set(pos, neg, rational.FromRat(new(big.Rat).Neg(twice))) // -2x_i <= -2val
	}
	s.status = genericStatus(false, false)
	_ = s.StrongClosure()
	return s
}
