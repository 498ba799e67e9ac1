// SPDX-License-Identifier: MIT
package octagon

import (
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// CC76ExtrapolationAssign widens s (the older iterate) towards next using
// the Cousot-Cousot '76 rule generalized over stop points (spec §4.6),
// adapted from bds.CC76ExtrapolationAssign to the 2n x 2n OM: every cell
// where next's value is larger than s's becomes the smallest stop point >=
// next's value (+Inf if there is none); every other cell keeps s's value.
func (s *OctagonalShape) CC76ExtrapolationAssign(next *OctagonalShape, stops []rational.Ext) error {
	if s == nil || next == nil {
		return ErrNilShape
	}
	if s.SpaceDimension() != next.SpaceDimension() {
		return ErrDimensionMismatch
	}
	if s.status.IsEmpty() {
		*s = *next.Clone()
		return nil
	}
	if next.status.IsEmpty() {
		return nil
	}
	if err := s.StrongClosure(); err != nil {
		return err
	}
	if err := next.StrongClosure(); err != nil {
		return err
	}
	n := s.m.order
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			older := s.m.at(i, j)
			newer := next.m.at(i, j)
			if rational.Less(older, newer) {
				s.m.set(i, j, smallestStopAtLeast(newer, stops))
			}
		}
	}
	s.status = s.status.withClosed(false).withReduced(false)
	return s.StrongClosure()
}

func smallestStopAtLeast(v rational.Ext, stops []rational.Ext) rational.Ext {
	best := rational.PlusInfinity()
	for _, st := range stops {
		if !rational.Less(st, v) && rational.Less(st, best) {
			best = st
		}
	}
	return best
}

// CC76ExtrapolationAssignWithTokens delays widening by a fixed number of
// iterations, performing a plain upper-bound join instead while tokens
// remain (spec §4.6).
func (s *OctagonalShape) CC76ExtrapolationAssignWithTokens(next *OctagonalShape, stops []rational.Ext, tokens *int) error {
	if tokens != nil && *tokens > 0 {
		*tokens--
		return s.UpperBoundAssign(next)
	}
	return s.CC76ExtrapolationAssign(next, stops)
}

// CC76NarrowingAssign narrows s using next (spec §4.6).
func (s *OctagonalShape) CC76NarrowingAssign(next *OctagonalShape) error {
	if s == nil || next == nil {
		return ErrNilShape
	}
	if s.SpaceDimension() != next.SpaceDimension() {
		return ErrDimensionMismatch
	}
	if s.status.IsEmpty() || next.status.IsEmpty() {
		return nil
	}
	n := s.m.order
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			a, b := s.m.at(i, j), next.m.at(i, j)
			if a.IsFinite() && b.IsFinite() && !rational.Equal(a, b) {
				s.m.set(i, j, b)
			}
		}
	}
	s.status = s.status.withClosed(false).withReduced(false)
	return nil
}

// BHMZ05WideningAssign is the octagon-specific widening of spec §4.6: first
// minimizes the smaller operand (next, strongly closed then strongly
// reduced), then builds the result by keeping every entry the two closed
// operands agree on and setting every entry where they disagree to +Inf.
// An affine-dimension regression (next strictly less expressive than s)
// aborts the widening, returning s unchanged, since widening must never
// lose precision the iteration sequence had already established.
func (s *OctagonalShape) BHMZ05WideningAssign(next *OctagonalShape) error {
	if s == nil || next == nil {
		return ErrNilShape
	}
	if s.SpaceDimension() != next.SpaceDimension() {
		return ErrDimensionMismatch
	}
	if s.status.IsEmpty() {
		*s = *next.Clone()
		return nil
	}
	if next.status.IsEmpty() {
		return nil
	}
	if err := s.StrongClosure(); err != nil {
		return err
	}
	minimized := next.Clone()
	if err := minimized.StrongClosure(); err != nil {
		return err
	}
	if err := minimized.StrongReduction(); err != nil {
		return err
	}
	beforeDim, err := s.AffineDimension()
	if err != nil {
		return err
	}
	afterDim, err := minimized.AffineDimension()
	if err != nil {
		return err
	}
	if afterDim < beforeDim {
		return nil
	}
	n := s.m.order
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if !rational.Equal(s.m.at(i, j), minimized.m.at(i, j)) {
				s.m.set(i, j, rational.PlusInfinity())
			}
		}
	}
	s.status = s.status.withClosed(false).withReduced(false)
	s.nonRed = nil
	return s.StrongClosure()
}

// LimitedExtrapolationAssign performs CC76ExtrapolationAssign and then
// intersects the result with every constraint already satisfied by s
// before widening (spec §4.6).
func (s *OctagonalShape) LimitedExtrapolationAssign(next *OctagonalShape, stops []rational.Ext, constraints []*polyconstraint.Constraint) error {
	pre := s.Clone()
	if err := s.CC76ExtrapolationAssign(next, stops); err != nil {
		return err
	}
	for _, c := range constraints {
		ok, err := pre.satisfiesConstraint(c)
		if err != nil {
			return err
		}
		if ok {
			if err := s.RefineWithConstraint(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *OctagonalShape) satisfiesConstraint(c *polyconstraint.Constraint) (bool, error) {
	if c.SpaceDimension() > s.SpaceDimension() {
		return false, nil
	}
	probe := s.Clone()
	if err := probe.RefineWithConstraint(c); err != nil {
		return false, err
	}
	if err := probe.StrongClosure(); err != nil {
		return false, err
	}
	if err := s.StrongClosure(); err != nil {
		return false, err
	}
	n := s.m.order
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !rational.Equal(probe.m.at(i, j), s.m.at(i, j)) {
				return false, nil
			}
		}
	}
	return true, nil
}
