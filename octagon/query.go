// SPDX-License-Identifier: MIT
package octagon

import (
	"math/big"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// AffineDimension returns the dimension of the smallest affine subspace
// containing s (spec §4.2/§8), computed as space_dim minus the number of
// variables pinned to a single value. Equalities between two variables
// (±x_i ± x_j == c with neither variable pinned) are not counted, so the
// result can exceed the true affine dimension.
func (s *OctagonalShape) AffineDimension() (int, error) {
	if s == nil {
		return 0, ErrNilShape
	}
	if s.status.IsEmpty() || s.status.IsZeroDimUniverse() {
		return 0, nil
	}
	if err := s.StrongClosure(); err != nil {
		return 0, err
	}
	if s.status.IsEmpty() {
		return 0, nil
	}
	n := s.SpaceDimension()
	pinned := 0
	for k := 0; k < n; k++ {
		pos, neg := 2*k, 2*k+1
		up := s.m.at(neg, pos)   // 2x_k upper bound
		down := s.m.at(pos, neg) // -2x_k upper bound
		if up.IsFinite() && down.IsFinite() {
			negDown, _ := rational.Neg(down, rational.DirNotNeeded)
			if rational.Equal(up, negDown) {
				pinned++
			}
		}
	}
	return n - pinned, nil
}

// IsDiscrete reports whether s's affine dimension is 0.
func (s *OctagonalShape) IsDiscrete() (bool, error) {
	d, err := s.AffineDimension()
	if err != nil {
		return false, err
	}
	return d == 0, nil
}

// IsTopologicallyClosed reports true always, since this engine never
// stores strict inequalities (spec §4.2 Non-goal).
func (s *OctagonalShape) IsTopologicallyClosed() (bool, error) {
	if s == nil {
		return false, ErrNilShape
	}
	return true, nil
}

// Constrains reports whether variable v is mentioned by any non-trivial
// constraint of s.
func (s *OctagonalShape) Constrains(v int) (bool, error) {
	if s == nil {
		return false, ErrNilShape
	}
	if v < 0 || v >= s.SpaceDimension() {
		return false, ErrInvalidVariable
	}
	if s.status.IsEmpty() {
		return true, nil
	}
	pos, neg := 2*v, 2*v+1
	constrained := false
	for k := 0; k < s.m.order; k++ {
		if k == pos || k == neg {
			continue
		}
		if !s.m.at(pos, k).IsPlusInfinity() || !s.m.at(k, pos).IsPlusInfinity() ||
			!s.m.at(neg, k).IsPlusInfinity() || !s.m.at(k, neg).IsPlusInfinity() {
			constrained = true
			break
		}
	}
	if !constrained {
		if !s.m.at(neg, pos).IsPlusInfinity() || !s.m.at(pos, neg).IsPlusInfinity() {
			constrained = true
		}
	}
	return constrained, nil
}

// Maximize computes an upper bound of e over s. For a*(±x_p ± x_q) it reads
// the strongly closed cell of that literal pair, which gives the exact
// supremum. Otherwise it sums, for each term, the coefficient times the
// tightest already-closed bound of its variable's positive/negative literal
// (spec §4.4's evaluation routine reused in one-shot query form); with two
// or more variables that sum can exceed the supremum. isMaximum is true
// whenever bounded is.
func (s *OctagonalShape) Maximize(e *linexpr.LinExpr) (value rational.Ext, bounded bool, isMaximum bool, err error) {
	if s == nil {
		return rational.Ext{}, false, false, ErrNilShape
	}
	if s.status.IsEmpty() {
		return rational.Ext{}, false, false, nil
	}
	if err = s.StrongClosure(); err != nil {
		return rational.Ext{}, false, false, err
	}
	if s.status.IsEmpty() {
		return rational.Ext{}, false, false, nil
	}
	if terms := e.Terms(); len(terms) == 2 && terms[0].Coeff.CmpAbs(terms[1].Coeff) == 0 {
		lit := func(k int) int { return 2*terms[k].Var + (1-terms[k].Coeff.Sign())/2 } // literal of sign(coeff)*x
		cell := s.m.at(coh(lit(1)), lit(0))                                            // upper bound on the literal sum
		if cell.IsPlusInfinity() {
			return rational.Ext{}, false, false, nil
		}
		mag := rational.FromBigInt(new(big.Int).Abs(terms[0].Coeff))
		c, _ := rational.Mul(mag, cell, rational.DirUp)
		pair, _ := rational.Add(rational.FromBigInt(e.Inhomogeneous()), c, rational.DirUp)
		return pair, true, true, nil
	}
	sum := rational.FromBigInt(e.Inhomogeneous())
	for _, t := range e.Terms() {
		pos, neg := 2*t.Var, 2*t.Var+1
		var bound rational.Ext
		var half *big.Rat
		if t.Coeff.Sign() > 0 {
			b := s.m.at(neg, pos) // 2x_var <= b
			if b.IsPlusInfinity() {
				return rational.Ext{}, false, false, nil
			}
			half = new(big.Rat).Quo(b.Rat(), big.NewRat(2, 1))
		} else {
			b := s.m.at(pos, neg) // -2x_var <= b  =>  x_var >= -b/2
			if b.IsPlusInfinity() {
				return rational.Ext{}, false, false, nil
			}
			half = new(big.Rat).Quo(b.Rat(), big.NewRat(2, 1))
		}
		bound = rational.FromRat(half)
		mag := rational.FromBigInt(new(big.Int).Abs(t.Coeff))
		contrib, _ := rational.Mul(mag, bound, rational.DirUp)
		sum, _ = rational.Add(sum, contrib, rational.DirUp)
	}
	return sum, true, true, nil
}

// Minimize computes the infimum of e over s via Maximize(-e).
func (s *OctagonalShape) Minimize(e *linexpr.LinExpr) (value rational.Ext, bounded bool, isMinimum bool, err error) {
	v, bounded, isMax, err := s.Maximize(e.Neg())
	if err != nil || !bounded {
		return rational.Ext{}, bounded, false, err
	}
	neg, _ := rational.Neg(v, rational.DirNotNeeded)
	return neg, true, isMax, nil
}

// BoundsFromAbove reports whether e is bounded from above over s.
func (s *OctagonalShape) BoundsFromAbove(e *linexpr.LinExpr) (bool, error) {
	_, bounded, _, err := s.Maximize(e)
	return bounded, err
}

// BoundsFromBelow reports whether e is bounded from below over s.
func (s *OctagonalShape) BoundsFromBelow(e *linexpr.LinExpr) (bool, error) {
	_, bounded, _, err := s.Minimize(e)
	return bounded, err
}

// boundsOf returns [min(e), max(e)] over s, substituting ±infinity for an
// unbounded extremum.
func (s *OctagonalShape) boundsOf(e *linexpr.LinExpr) (lo, hi rational.Ext, err error) {
	lo, loBounded, _, err := s.Minimize(e)
	if err != nil {
		return rational.Ext{}, rational.Ext{}, err
	}
	if !loBounded {
		lo = rational.MinusInfinity()
	}
	hi, hiBounded, _, err := s.Maximize(e)
	if err != nil {
		return rational.Ext{}, rational.Ext{}, err
	}
	if !hiBounded {
		hi = rational.PlusInfinity()
	}
	return lo, hi, nil
}

// RelationWithConstraint classifies how s relates to c (spec §6
// relation_with(constraint)), by bounding c's expression over s. Unlike
// AddConstraint this never restricts to octagonal differences, since
// merely testing a relation commits the shape to nothing.
func (s *OctagonalShape) RelationWithConstraint(c *polyconstraint.Constraint) (polyconstraint.ConRelation, error) {
	if s == nil {
		return polyconstraint.ConNothing, ErrNilShape
	}
	if c.SpaceDimension() > s.SpaceDimension() {
		return polyconstraint.ConNothing, ErrDimensionMismatch
	}
	empty, err := s.IsEmpty()
	if err != nil {
		return polyconstraint.ConNothing, err
	}
	if empty {
		return polyconstraint.ConIsIncluded | polyconstraint.ConSaturates, nil
	}
	lo, hi, err := s.boundsOf(c.Expression())
	if err != nil {
		return polyconstraint.ConNothing, err
	}
	return classifyRelation(c.Kind(), lo, hi), nil
}

// classifyRelation derives a ConRelation from e's range [lo,hi] over a
// non-empty, already-confirmed shape and the constraint's kind.
func classifyRelation(kind polyconstraint.Kind, lo, hi rational.Ext) polyconstraint.ConRelation {
	zero := rational.Zero()
	loIsZero, hiIsZero := rational.Equal(lo, zero), rational.Equal(hi, zero)
	loPos, hiNeg := rational.Less(zero, lo), rational.Less(hi, zero)
	switch kind {
	case polyconstraint.EQ:
		if loIsZero && hiIsZero {
			return polyconstraint.ConIsIncluded | polyconstraint.ConSaturates
		}
		if loPos || hiNeg {
			return polyconstraint.ConIsDisjoint
		}
		return polyconstraint.ConStrictlyIntersects
	case polyconstraint.GT:
		if loPos {
			return polyconstraint.ConIsIncluded
		}
		if hiNeg || hiIsZero {
			return polyconstraint.ConIsDisjoint
		}
		return polyconstraint.ConStrictlyIntersects
	default: // GE
		if loPos || loIsZero {
			if loIsZero && hiIsZero {
				return polyconstraint.ConIsIncluded | polyconstraint.ConSaturates
			}
			return polyconstraint.ConIsIncluded
		}
		if hiNeg {
			return polyconstraint.ConIsDisjoint
		}
		return polyconstraint.ConStrictlyIntersects
	}
}

// RelationWithGenerator classifies how s relates to g (spec §6
// relation_with(generator)). A point or closure point subsumes iff it lies
// inside s (Contains). A line or ray subsumes iff it already lies in s's
// recession cone: for every finite cell (i,j), the direction's delta at
// literal i minus at literal j must not exceed 0 (for a line, in either
// sign), mirroring bds's recession check generalized to the 2n literal
// space (pos literal 2k carries +x_k's coefficient, neg literal 2k+1
// carries its negation).
func (s *OctagonalShape) RelationWithGenerator(g *polyconstraint.Generator) (polyconstraint.GenRelation, error) {
	if s == nil {
		return polyconstraint.GenNothing, ErrNilShape
	}
	if g.Expression().SpaceDimension() > s.SpaceDimension() {
		return polyconstraint.GenNothing, ErrDimensionMismatch
	}
	if !g.IsLineOrRay() {
		point := singlePointShape(s.SpaceDimension(), g, optionFromExisting(s.opts))
		ok, err := s.Contains(point)
		if err != nil {
			return polyconstraint.GenNothing, err
		}
		if ok {
			return polyconstraint.GenSubsumes, nil
		}
		return polyconstraint.GenNothing, nil
	}
	if err := s.StrongClosure(); err != nil {
		return polyconstraint.GenNothing, err
	}
	empty, err := s.IsEmpty()
	if err != nil {
		return polyconstraint.GenNothing, err
	}
	if empty {
		return polyconstraint.GenSubsumes, nil
	}
	n := s.SpaceDimension()
	delta := func(lit int) *big.Int {
		v, positive := lit/2, lit%2 == 0
		c := g.Expression().Coefficient(v)
		if positive {
			return c
		}
		return new(big.Int).Neg(c)
	}
	order := 2 * n
	for i := 0; i < order; i++ {
		for j := 0; j < order; j++ {
			if i == j {
				continue
			}
			if !s.m.at(i, j).IsFinite() {
				continue
			}
			d := new(big.Int).Sub(delta(j), delta(i))
			if d.Sign() > 0 {
				return polyconstraint.GenNothing, nil
			}
			if g.Kind() == polyconstraint.Line && d.Sign() != 0 {
				return polyconstraint.GenNothing, nil
			}
		}
	}
	return polyconstraint.GenSubsumes, nil
}
