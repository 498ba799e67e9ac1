// SPDX-License-Identifier: MIT
package bds

import "github.com/katalvlaran/polycore/rational"

// BDShape is a Bounded-Difference Shape: a DBM plus a status word and a
// redundancy bitmask (spec §2). It exclusively owns its matrix (spec §3
// "Ownership and lifecycle"); Clone produces an independent value.
type BDShape struct {
	m       *dbm
	status  Status
	nonRed  []bool // per-cell non-redundancy flag, row-major; nil when not computed
	opts    Options
}

// Universe returns the universe BD_Shape of the given space dimension (no
// constraints). n==0 yields the zero-dimensional universe.
func Universe(n int, opts ...Option) *BDShape {
	s := &BDShape{m: newDBM(n), opts: applyOptions(opts)}
	if n == 0 {
		s.status = zeroDimUniverseStatus()
	} else {
		s.status = genericStatus(true, false) // the universe matrix (all +Inf off diag) is trivially closed
	}
	return s
}

// Empty returns the empty BD_Shape of the given space dimension.
func Empty(n int, opts ...Option) *BDShape {
	s := &BDShape{m: newDBM(n), opts: applyOptions(opts)}
	s.status = emptyStatus()
	return s
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, f := range opts {
		f(&o)
	}
	return o
}

// SpaceDimension returns n.
func (s *BDShape) SpaceDimension() int {
	if s == nil {
		return 0
	}
	return s.m.spaceDim()
}

// IsEmpty reports whether the shape represents the empty set. Requires
// closure to be precise (spec §3); callers that need a precise answer on a
// non-closed shape should call ShortestPathClosure first, which this
// method does lazily and in place (closure is "logically const", spec §3).
func (s *BDShape) IsEmpty() (bool, error) {
	if s == nil {
		return false, ErrNilShape
	}
	if s.status.IsEmpty() {
		return true, nil
	}
	if s.status.IsZeroDimUniverse() {
		return false, nil
	}
	if err := s.ShortestPathClosure(); err != nil {
		return false, err
	}
	return s.status.IsEmpty(), nil
}

// IsUniverse reports whether the shape has no constraints at all (every
// off-diagonal entry is +Inf). Does not require closure: a universe matrix
// is unaffected by closure.
func (s *BDShape) IsUniverse() bool {
	if s == nil || s.status.IsEmpty() {
		return false
	}
	if s.status.IsZeroDimUniverse() {
		return true
	}
	universe := true
	s.m.forEachOffDiagonal(func(i, j int) {
		if !s.m.at(i, j).IsPlusInfinity() {
			universe = false
		}
	})
	return universe
}

// Clone returns an independent deep copy of s.
func (s *BDShape) Clone() *BDShape {
	if s == nil {
		return nil
	}
	c := &BDShape{m: s.m.clone(), status: s.status, opts: s.opts}
	if s.nonRed != nil {
		c.nonRed = append([]bool(nil), s.nonRed...)
	}
	return c
}

// OK reports whether every structural invariant holds: diagonal entries are
// +Inf, status flags are mutually consistent, and (when the closed flag is
// set) the matrix actually satisfies the shortest-path triangle inequality
// (spec §8 property 1). Intended for assertions and tests, not hot paths.
func (s *BDShape) OK() bool {
	if s == nil {
		return false
	}
	n := s.m.order
	for i := 0; i < n; i++ {
		if !s.m.at(i, i).IsPlusInfinity() {
			return false
		}
	}
	if s.status.IsZeroDimUniverse() && n != 1 {
		return false
	}
	if s.status.IsClosed() && s.status.kind == kindGeneric {
		ok := true
		s.m.forEachOffDiagonal(func(i, j int) {
			for k := 0; k < n; k++ {
				if k == i || k == j {
					continue
				}
				sum, _ := rational.Add(s.m.at(i, k), s.m.at(k, j), rational.DirUp)
				if rational.Less(sum, s.m.at(i, j)) {
					ok = false
				}
			}
		})
		if !ok {
			return false
		}
	}
	return true
}

// Contains reports whether other (interpreted as a set of points) is a
// subset of s (spec §6 contains). Both operands are closed first: once
// closed, every cell is the tightest bound implied by its whole system, so
// s contains other iff s's bound at every cell is never tighter than
// other's.
func (s *BDShape) Contains(other *BDShape) (bool, error) {
	if s == nil || other == nil {
		return false, ErrNilShape
	}
	if s.SpaceDimension() != other.SpaceDimension() {
		return false, ErrDimensionMismatch
	}
	otherEmpty, err := other.IsEmpty()
	if err != nil {
		return false, err
	}
	if otherEmpty {
		return true, nil
	}
	selfEmpty, err := s.IsEmpty()
	if err != nil {
		return false, err
	}
	if selfEmpty {
		return false, nil
	}
	if err := s.ShortestPathClosure(); err != nil {
		return false, err
	}
	if err := other.ShortestPathClosure(); err != nil {
		return false, err
	}
	contains := true
	s.m.forEachOffDiagonal(func(i, j int) {
		if rational.Less(s.m.at(i, j), other.m.at(i, j)) {
			contains = false
		}
	})
	return contains, nil
}

// StrictlyContains reports whether other is a proper subset of s (spec §6
// strictly_contains): s contains other, but other does not also contain s.
func (s *BDShape) StrictlyContains(other *BDShape) (bool, error) {
	contains, err := s.Contains(other)
	if err != nil || !contains {
		return false, err
	}
	reverse, err := other.Contains(s)
	if err != nil {
		return false, err
	}
	return !reverse, nil
}

// IsDisjointFrom reports whether s and other share no point (spec §6
// is_disjoint_from): their intersection, computed on clones so neither
// operand is mutated, is empty.
func (s *BDShape) IsDisjointFrom(other *BDShape) (bool, error) {
	if s == nil || other == nil {
		return false, ErrNilShape
	}
	if s.SpaceDimension() != other.SpaceDimension() {
		return false, ErrDimensionMismatch
	}
	meet := s.Clone()
	if err := meet.IntersectionAssign(other); err != nil {
		return false, err
	}
	return meet.IsEmpty()
}
