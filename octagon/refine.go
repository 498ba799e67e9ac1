// SPDX-License-Identifier: MIT
package octagon

import (
	"math/big"

	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// cellFromOctagonal converts a successfully extracted octagonal
// constraint coeff*(v_row - v_col) <= term directly into the OM cell it
// tightens and the exact rational value term/coeff (spec §4.2, §3).
func cellFromOctagonal(od polyconstraint.OctagonalDifference) (row, col int, value rational.Ext) {
	return od.Row, od.Col, rational.FromRat(new(big.Rat).SetFrac(od.Term, od.Coeff))
}

func (s *OctagonalShape) tightenCell(row, col int, v rational.Ext) bool {
	cur := s.m.at(row, col)
	if rational.Less(v, cur) {
		s.m.set(row, col, v)
		return true
	}
	return false
}

func decomposeEquality(c *polyconstraint.Constraint) []*polyconstraint.Constraint {
	e := c.Expression()
	return []*polyconstraint.Constraint{
		polyconstraint.NewConstraint(e.Clone(), polyconstraint.GE),
		polyconstraint.NewConstraint(e.Neg(), polyconstraint.GE),
	}
}

// AddConstraint tightens s with c, returning ErrNotOctagonal if c is not
// expressible as ±x_i±x_j <= b and ErrStrictInequality if c is strict
// (spec §4.2: "on add_constraint they must be refused").
func (s *OctagonalShape) AddConstraint(c *polyconstraint.Constraint) error {
	if s == nil {
		return ErrNilShape
	}
	if c.IsStrict() {
		return ErrStrictInequality
	}
	if c.SpaceDimension() > s.SpaceDimension() {
		return ErrDimensionMismatch
	}
	if s.status.IsEmpty() {
		return nil
	}
	if s.status.IsZeroDimUniverse() {
		return ErrDimensionMismatch
	}
	cs := []*polyconstraint.Constraint{c}
	if c.IsEquality() {
		cs = decomposeEquality(c)
	}
	for _, cc := range cs {
		od, err := polyconstraint.ExtractOctagonal(cc)
		if err != nil {
			return ErrNotOctagonal
		}
		row, col, v := cellFromOctagonal(od)
		s.tightenCell(row, col, v)
	}
	s.status = s.status.withClosed(false).withReduced(false)
	return nil
}

// AddConstraints adds every constraint in cs in turn.
func (s *OctagonalShape) AddConstraints(cs []*polyconstraint.Constraint) error {
	if s == nil {
		return ErrNilShape
	}
	for _, c := range cs {
		if err := s.AddConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

// RefineWithConstraint tightens s with c if it is octagonal, silently
// ignoring it otherwise (spec §4.2: "on refine_with_constraint they must
// be ignored, never tightened").
func (s *OctagonalShape) RefineWithConstraint(c *polyconstraint.Constraint) error {
	if s == nil {
		return ErrNilShape
	}
	if c.IsStrict() || c.SpaceDimension() > s.SpaceDimension() || s.status.IsZeroDimUniverse() || s.status.IsEmpty() {
		return nil
	}
	cs := []*polyconstraint.Constraint{c}
	if c.IsEquality() {
		cs = decomposeEquality(c)
	}
	changed := false
	for _, cc := range cs {
		od, err := polyconstraint.ExtractOctagonal(cc)
		if err != nil {
			continue
		}
		row, col, v := cellFromOctagonal(od)
		if s.tightenCell(row, col, v) {
			changed = true
		}
	}
	if changed {
		s.status = s.status.withClosed(false).withReduced(false)
	}
	return nil
}

// RefineWithConstraints calls RefineWithConstraint for every element of cs.
func (s *OctagonalShape) RefineWithConstraints(cs []*polyconstraint.Constraint) error {
	if s == nil {
		return ErrNilShape
	}
	for _, c := range cs {
		if err := s.RefineWithConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

// IntersectionAssign replaces s with the elementwise min of s and other
// (spec §4.5).
func (s *OctagonalShape) IntersectionAssign(other *OctagonalShape) error {
	if s == nil || other == nil {
		return ErrNilShape
	}
	if s.SpaceDimension() != other.SpaceDimension() {
		return ErrDimensionMismatch
	}
	if s.status.IsEmpty() || other.status.IsEmpty() {
		s.collapseToEmpty()
		return nil
	}
	if s.status.IsZeroDimUniverse() || other.status.IsZeroDimUniverse() {
		return nil
	}
	n := s.m.order
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if rational.Less(other.m.at(i, j), s.m.at(i, j)) {
				s.m.set(i, j, other.m.at(i, j))
			}
		}
	}
	s.status = s.status.withClosed(false).withReduced(false)
	s.nonRed = nil
	if s.m.hasNegativeDiagonal() {
		s.collapseToEmpty()
	}
	return nil
}

// UpperBoundAssign replaces s with the convex hull (elementwise max) of s
// and other; exact only when both operands are strongly closed first
// (spec §4.5).
func (s *OctagonalShape) UpperBoundAssign(other *OctagonalShape) error {
	if s == nil || other == nil {
		return ErrNilShape
	}
	if s.SpaceDimension() != other.SpaceDimension() {
		return ErrDimensionMismatch
	}
	if other.status.IsEmpty() {
		return nil
	}
	if s.status.IsEmpty() {
		*s = *other.Clone()
		return nil
	}
	if s.status.IsZeroDimUniverse() || other.status.IsZeroDimUniverse() {
		return nil
	}
	if err := s.StrongClosure(); err != nil {
		return err
	}
	if err := other.StrongClosure(); err != nil {
		return err
	}
	if s.status.IsEmpty() {
		*s = *other.Clone()
		return nil
	}
	if other.status.IsEmpty() {
		return nil
	}
	n := s.m.order
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			oij := other.m.at(i, j)
			if rational.Less(s.m.at(i, j), oij) {
				s.m.set(i, j, oij)
			}
		}
	}
	s.status = s.status.withClosed(true).withReduced(false)
	s.nonRed = nil
	return nil
}

// UpperBoundAssignIfExact checks the BHZ09 exactness conditions (spec
// §4.5) before committing the join, returning false without mutating s if
// any quadruple fails (same approximated condition as bds', documented
// in DESIGN.md).
func (s *OctagonalShape) UpperBoundAssignIfExact(other *OctagonalShape) (bool, error) {
	if s == nil || other == nil {
		return false, ErrNilShape
	}
	if s.SpaceDimension() != other.SpaceDimension() {
		return false, ErrDimensionMismatch
	}
	if err := s.StrongClosure(); err != nil {
		return false, err
	}
	if err := other.StrongClosure(); err != nil {
		return false, err
	}
	if s.status.IsEmpty() || other.status.IsEmpty() || s.status.IsZeroDimUniverse() {
		return true, s.UpperBoundAssign(other)
	}
	n := s.m.order
	exact := true
	for i := 0; i < n && exact; i++ {
		for j := 0; j < n && exact; j++ {
			if i == j {
				continue
			}
			for k := 0; k < n && exact; k++ {
				if k == i || k == j {
					continue
				}
				l := coh(k) // BHZ09's l ranges relationally to k, not independently (Polyhedra_Powerset.inlines.hh)
				if l == i || l == j {
					continue
				}
				if !bhz09Quadruple(s, other, i, j, k, l) {
					exact = false
				}
			}
		}
	}
	if !exact {
		return false, nil
	}
	return true, s.UpperBoundAssign(other)
}

func bhz09Quadruple(s, other *OctagonalShape, i, j, k, l int) bool {
	check := func(a *OctagonalShape) bool {
		direct := a.m.at(i, j)
		ik, kl, lj := a.m.at(i, k), a.m.at(k, l), a.m.at(l, j)
		if ik.IsPlusInfinity() || kl.IsPlusInfinity() || lj.IsPlusInfinity() {
			return true
		}
		sum1, _ := rational.Add(ik, kl, rational.DirUp)
		sum2, _ := rational.Add(sum1, lj, rational.DirUp)
		return !rational.Less(sum2, direct)
	}
	return check(s) && check(other)
}
