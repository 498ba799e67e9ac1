// SPDX-License-Identifier: MIT
package bds

import (
	"github.com/katalvlaran/polycore/hull"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// CC76ExtrapolationAssign widens s (the older iterate) towards next (the
// newer) using the Cousot-Cousot '76 rule generalized over stop points
// (spec §4.6): for every cell where next's value is larger than s's, replace
// it with the smallest stop point >= next's value (+Inf if there is none);
// every other cell keeps s's value. Both shapes are closed first and must
// have equal space dimension; stops need not be sorted.
func (s *BDShape) CC76ExtrapolationAssign(next *BDShape, stops []rational.Ext) error {
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
	if err := s.ShortestPathClosure(); err != nil {
		return err
	}
	if err := next.ShortestPathClosure(); err != nil {
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
	return s.ShortestPathClosure()
}

// smallestStopAtLeast returns the smallest element of stops that is >= v,
// or +Inf if none qualifies.
func smallestStopAtLeast(v rational.Ext, stops []rational.Ext) rational.Ext {
	best := rational.PlusInfinity()
	for _, st := range stops {
		if !rational.Less(st, v) && rational.Less(st, best) {
			best = st
		}
	}
	return best
}

// CC76ExtrapolationAssignWithTokens behaves as CC76ExtrapolationAssign but
// consumes one of *tokens before actually widening; while *tokens is
// positive the call instead performs a plain upper-bound join, delaying
// widening by a fixed number of iterations (spec §4.6: "a token counter
// may delay widening").
func (s *BDShape) CC76ExtrapolationAssignWithTokens(next *BDShape, stops []rational.Ext, tokens *int) error {
	if tokens != nil && *tokens > 0 {
		*tokens--
		return s.UpperBoundAssign(next)
	}
	return s.CC76ExtrapolationAssign(next, stops)
}

// CC76NarrowingAssign narrows s using next: for every cell where both
// operands are finite and differ, replace s's cell with next's (spec
// §4.6). Narrowing only ever shrinks, so this never risks introducing
// unsoundness beyond what next already asserts.
func (s *BDShape) CC76NarrowingAssign(next *BDShape) error {
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

// CH78WideningAssign widens s (the older iterate) towards next (the newer,
// which must be contained in s) using the Cousot-Halbwachs '78 rule (spec §6
// CH78_widening_assign): unlike CC76, which grows any cell next has not held
// steady or tightened towards a stop point, CH78 keeps a cell only when next
// agrees with s on it EXACTLY, and sets every other cell to +Inf. Grounded
// directly in BD_Shape.defs.hh's worked example: starting from x<=0, y>=0,
// x-y<=0 and widening against x<=-1, y>=0 (x+y<=0 is not a bounded
// difference and is dropped on construction, so the closed y-operand is
// x<=-1, y>=0, x-y<=-1), only the y>=0 cell is unchanged between the two
// operands, and the documented result keeps exactly that constraint.
func (s *BDShape) CH78WideningAssign(next *BDShape) error {
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
	if err := s.ShortestPathClosure(); err != nil {
		return err
	}
	if err := next.ShortestPathClosure(); err != nil {
		return err
	}
	n := s.m.order
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if !rational.Equal(s.m.at(i, j), next.m.at(i, j)) {
				s.m.set(i, j, rational.PlusInfinity())
			}
		}
	}
	s.status = s.status.withClosed(false).withReduced(false)
	return s.ShortestPathClosure()
}

// CH78WideningAssignWithTokens behaves as CH78WideningAssign but consumes
// one of *tokens before actually widening; while *tokens is positive the
// call instead performs a plain upper-bound join (spec §6's "optional
// pointer to an unsigned variable storing the number of available tokens",
// mirroring the delay technique CC76ExtrapolationAssignWithTokens already
// applies).
func (s *BDShape) CH78WideningAssignWithTokens(next *BDShape, tokens *int) error {
	if tokens != nil && *tokens > 0 {
		*tokens--
		return s.UpperBoundAssign(next)
	}
	return s.CH78WideningAssign(next)
}

// H79WideningAssign widens s towards next by delegating to the external
// convex-polyhedron collaborator's own widening, then approximates the
// result back into a BD_Shape (spec §4.6: "Delegates to the full
// convex-polyhedron widening of the external collaborator, then
// approximates back"). collaborator must already represent the older
// shape (s); a nil collaborator falls back to plain CC76 extrapolation,
// since the collaborator package intentionally ships no concrete
// double-description kernel (spec Non-goals) and callers that have not
// wired one in yet still need a sound widening.
func (s *BDShape) H79WideningAssign(next *BDShape, collaborator hull.ConvexPolyhedron) error {
	if s == nil || next == nil {
		return ErrNilShape
	}
	if collaborator == nil {
		return s.CC76ExtrapolationAssign(next, nil)
	}
	bds, err := collaborator.ApproximateAsBoundedDifferences()
	if err != nil {
		return err
	}
	widened := Universe(s.SpaceDimension())
	widened.opts = s.opts
	for _, bd := range bds {
		row, col, v := cellFromBD(bd)
		widened.tightenCell(row, col, v)
	}
	if err := widened.ShortestPathClosure(); err != nil {
		return err
	}
	*s = *widened
	return nil
}

// LimitedExtrapolationAssign performs CC76ExtrapolationAssign and then
// intersects the result with every constraint of constraints that was
// already satisfied by s before widening (spec §4.6: "Limited
// extrapolation").
func (s *BDShape) LimitedExtrapolationAssign(next *BDShape, stops []rational.Ext, constraints []*polyconstraint.Constraint) error {
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

// satisfiesConstraint reports whether c already holds throughout s, by
// refining a clone with c and checking the clone is unchanged (c was
// already implied).
func (s *BDShape) satisfiesConstraint(c *polyconstraint.Constraint) (bool, error) {
	if c.SpaceDimension() > s.SpaceDimension() {
		return false, nil
	}
	probe := s.Clone()
	if err := probe.RefineWithConstraint(c); err != nil {
		return false, err
	}
	if err := probe.ShortestPathClosure(); err != nil {
		return false, err
	}
	if err := s.ShortestPathClosure(); err != nil {
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
