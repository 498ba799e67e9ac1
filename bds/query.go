// SPDX-License-Identifier: MIT
package bds

import (
	"math/big"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// AffineDimension returns the dimension of the smallest affine subspace
// containing s: space_dim minus the number of independent equalities
// (spec §4.2/§8), computed here as the number of variables k for which
// x_k is pinned to a single value by closure (m[0][k+1] == -m[k+1][0]).
// Equalities between two variables (x_i - x_j == c with neither variable
// pinned) are not counted, so the result can exceed the true affine
// dimension.
func (s *BDShape) AffineDimension() (int, error) {
	if s == nil {
		return 0, ErrNilShape
	}
	if s.status.IsEmpty() {
		return 0, nil
	}
	if s.status.IsZeroDimUniverse() {
		return 0, nil
	}
	if err := s.ShortestPathClosure(); err != nil {
		return 0, err
	}
	if s.status.IsEmpty() {
		return 0, nil
	}
	n := s.SpaceDimension()
	pinned := 0
	for k := 0; k < n; k++ {
		up := s.m.at(0, k+1)
		down := s.m.at(k+1, 0)
		if up.IsFinite() && down.IsFinite() {
			negDown, _ := rational.Neg(down, rational.DirNotNeeded)
			if rational.Equal(up, negDown) {
				pinned++
			}
		}
	}
	return n - pinned, nil
}

// IsDiscrete reports whether s's affine dimension is 0, i.e. s contains at
// most one point.
func (s *BDShape) IsDiscrete() (bool, error) {
	d, err := s.AffineDimension()
	if err != nil {
		return false, err
	}
	return d == 0, nil
}

// IsTopologicallyClosed reports whether s's topological closure equals s.
// Since this engine never stores strict inequalities (spec §4.2 Non-goal),
// every non-empty BD_Shape is already topologically closed.
func (s *BDShape) IsTopologicallyClosed() (bool, error) {
	if s == nil {
		return false, ErrNilShape
	}
	return true, nil
}

// Constrains reports whether variable v is mentioned by any non-trivial
// constraint of s (spec §4.2: "constrains(v)").
func (s *BDShape) Constrains(v int) (bool, error) {
	if s == nil {
		return false, ErrNilShape
	}
	if v < 0 || v >= s.SpaceDimension() {
		return false, ErrInvalidVariable
	}
	if s.status.IsEmpty() {
		return true, nil
	}
	idx := v + 1
	constrained := false
	for k := 0; k < s.m.order; k++ {
		if k == idx {
			continue
		}
		if !s.m.at(idx, k).IsPlusInfinity() || !s.m.at(k, idx).IsPlusInfinity() {
			constrained = true
			break
		}
	}
	return constrained, nil
}

// ContainsIntegerPoint reports whether s contains a point with integer
// coordinates: every finite cell is rounded down to an integer (which keeps
// every integer point) and the result is closed; a DBM with integer cells is
// non-empty exactly when it has an integer point.
func (s *BDShape) ContainsIntegerPoint() (bool, error) {
	if s == nil {
		return false, ErrNilShape
	}
	probe := s.Clone()
	probe.status = probe.status.withClosed(false)
	for i, c := range probe.m.data {
		if c.IsFinite() {
			r := c.Rat()
			probe.m.data[i] = rational.FromBigInt(new(big.Int).Div(r.Num(), r.Denom()))
		}
	}
	if err := probe.ShortestPathClosure(); err != nil {
		return false, err
	}
	return !probe.status.IsEmpty(), nil
}

// BoundsFromAbove reports whether e is bounded from above over s, i.e.
// maximize(e) is finite.
func (s *BDShape) BoundsFromAbove(e *linexpr.LinExpr) (bool, error) {
	_, bounded, _, err := s.Maximize(e)
	return bounded, err
}

// BoundsFromBelow reports whether e is bounded from below over s, i.e.
// minimize(e) is finite.
func (s *BDShape) BoundsFromBelow(e *linexpr.LinExpr) (bool, error) {
	_, bounded, _, err := s.Minimize(e)
	return bounded, err
}

// Maximize computes the supremum of e over s by summing the per-variable
// contributions: each term a_k*x_k contributes a_k times the tightest upper
// bound of x_k (or lower bound, if a_k is negative) already recorded in the
// closed DBM (spec §4.4's "evaluate e by scanning each variable's already-
// closed bound", reused here in its one-shot query form rather than the
// affine-transfer form). An expression a*(x_p - x_q) is instead read off the
// closed cell bounding x_p - x_q, which gives its exact supremum. For any
// other expression with two or more variables the per-variable sum ignores
// the relations between them, so it is an upper bound that can exceed the
// supremum. Returns (value, bounded, isMaximum, error); value is only
// meaningful when bounded is true, and isMaximum is true whenever bounded is.
func (s *BDShape) Maximize(e *linexpr.LinExpr) (value rational.Ext, bounded bool, isMaximum bool, err error) {
	if s == nil {
		return rational.Ext{}, false, false, ErrNilShape
	}
	if s.status.IsEmpty() {
		return rational.Ext{}, false, false, nil
	}
	if err = s.ShortestPathClosure(); err != nil {
		return rational.Ext{}, false, false, err
	}
	if s.status.IsEmpty() {
		return rational.Ext{}, false, false, nil
	}
	if terms := e.Terms(); len(terms) == 2 && new(big.Int).Add(terms[0].Coeff, terms[1].Coeff).Sign() == 0 {
		p, q := terms[0], terms[1]
		if p.Coeff.Sign() < 0 {
			p, q = q, p
		}
		cell := s.m.at(q.Var+1, p.Var+1) // upper bound on x_p - x_q
		if cell.IsPlusInfinity() {
			return rational.Ext{}, false, false, nil
		}
		c, _ := rational.Mul(rational.FromBigInt(p.Coeff), cell, rational.DirUp)
		sum, _ := rational.Add(rational.FromBigInt(e.Inhomogeneous()), c, rational.DirUp)
		return sum, true, true, nil
	}
	sum := rational.FromBigInt(e.Inhomogeneous())
	for _, t := range e.Terms() {
		idx := t.Var + 1
		var bound rational.Ext
		if t.Coeff.Sign() > 0 {
			bound = s.m.at(0, idx) // upper bound on x_var
		} else {
			bound = s.m.at(idx, 0) // upper bound on -x_var, i.e. lower bound on x_var (negated below)
		}
		if bound.IsPlusInfinity() {
			return rational.Ext{}, false, false, nil
		}
		mag := rational.FromBigInt(new(big.Int).Abs(t.Coeff))
		contrib, _ := rational.Mul(mag, bound, rational.DirUp)
		sum, _ = rational.Add(sum, contrib, rational.DirUp)
	}
	return sum, true, true, nil
}

// Minimize computes the infimum of e over s; implemented as
// Maximize(-e) negated, exploiting the DBM's upper/lower-bound symmetry.
func (s *BDShape) Minimize(e *linexpr.LinExpr) (value rational.Ext, bounded bool, isMinimum bool, err error) {
	v, bounded, isMax, err := s.Maximize(e.Neg())
	if err != nil || !bounded {
		return rational.Ext{}, bounded, false, err
	}
	neg, _ := rational.Neg(v, rational.DirNotNeeded)
	return neg, true, isMax, nil
}

// boundsOf returns [min(e), max(e)] over s, substituting ±infinity for an
// unbounded extremum (the same convention s's own tests use to snapshot a
// box projection).
func (s *BDShape) boundsOf(e *linexpr.LinExpr) (lo, hi rational.Ext, err error) {
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
// relation_with(constraint)), by bounding c's expression over s with the
// same per-variable evaluation Maximize/Minimize already use (spec §4.4).
// Unlike AddConstraint this never restricts to bounded differences, since
// merely testing a relation commits the shape to nothing.
func (s *BDShape) RelationWithConstraint(c *polyconstraint.Constraint) (polyconstraint.ConRelation, error) {
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
// non-empty, already-confirmed shape and the constraint's kind: EQ/GT/GE
// each reduce to where zero falls relative to the range.
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
// inside s, checked by building a degenerate shape pinned to its
// coordinates and testing containment (Contains). A line or ray subsumes
// iff it already lies in s's recession cone: moving any point of s along
// it must never tighten a finite bound, i.e. for every finite cell (i,j)
// the direction's delta (coordinate_j - coordinate_i) must not increase
// x_j - x_i (for a line, in either sign).
func (s *BDShape) RelationWithGenerator(g *polyconstraint.Generator) (polyconstraint.GenRelation, error) {
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
	if err := s.ShortestPathClosure(); err != nil {
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
	delta := func(idx int) *big.Int {
		if idx == 0 {
			return big.NewInt(0)
		}
		return g.Expression().Coefficient(idx - 1)
	}
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
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
