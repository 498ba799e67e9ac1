// SPDX-License-Identifier: MIT
package octagon

import "github.com/katalvlaran/polycore/rational"

// OctagonalShape is an OM plus a status word and a redundancy bitmask
// (spec §2). It exclusively owns its matrix; Clone produces an
// independent value.
type OctagonalShape struct {
	m      *om
	status Status
	nonRed []bool
	opts   Options
}

// Universe returns the universe Octagonal_Shape of the given space
// dimension. n==0 yields the zero-dimensional universe.
func Universe(n int, opts ...Option) *OctagonalShape {
	s := &OctagonalShape{m: newOM(n), opts: applyOptions(opts)}
	if n == 0 {
		s.status = zeroDimUniverseStatus()
	} else {
		s.status = genericStatus(true, false)
	}
	return s
}

// Empty returns the empty Octagonal_Shape of the given space dimension.
func Empty(n int, opts ...Option) *OctagonalShape {
	s := &OctagonalShape{m: newOM(n), opts: applyOptions(opts)}
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
func (s *OctagonalShape) SpaceDimension() int {
	if s == nil {
		return 0
	}
	return s.m.spaceDim
}

// IsEmpty reports whether s represents the empty set, closing lazily if
// needed (spec §3).
func (s *OctagonalShape) IsEmpty() (bool, error) {
	if s == nil {
		return false, ErrNilShape
	}
	if s.status.IsEmpty() {
		return true, nil
	}
	if s.status.IsZeroDimUniverse() {
		return false, nil
	}
	if err := s.StrongClosure(); err != nil {
		return false, err
	}
	return s.status.IsEmpty(), nil
}

// IsUniverse reports whether s has no constraints at all.
func (s *OctagonalShape) IsUniverse() bool {
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
func (s *OctagonalShape) Clone() *OctagonalShape {
	if s == nil {
		return nil
	}
	c := &OctagonalShape{m: s.m.clone(), status: s.status, opts: s.opts}
	if s.nonRed != nil {
		c.nonRed = append([]bool(nil), s.nonRed...)
	}
	return c
}

// OK reports whether every structural invariant holds: diagonal entries
// are +Inf, and (when strongly closed) the matrix satisfies both the
// triangle inequality and strong coherence (spec §3, §8).
func (s *OctagonalShape) OK() bool {
	if s == nil {
		return false
	}
	n := s.m.order
	for i := 0; i < n; i++ {
		if !s.m.at(i, i).IsPlusInfinity() {
			return false
		}
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
			bound, sufficient := strongCoherenceBound(s.m, i, j)
			if sufficient && rational.Less(bound, s.m.at(i, j)) {
				ok = false
			}
		})
		if !ok {
			return false
		}
	}
	return true
}

// Contains reports whether other (interpreted as a set of points) is a
// subset of s (spec §6 contains). Both operands are strongly closed first:
// once closed, every cell is the tightest bound implied by its whole
// system, so s contains other iff s's bound at every cell is never tighter
// than other's.
func (s *OctagonalShape) Contains(other *OctagonalShape) (bool, error) {
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
	if err := s.StrongClosure(); err != nil {
		return false, err
	}
	if err := other.StrongClosure(); err != nil {
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
func (s *OctagonalShape) StrictlyContains(other *OctagonalShape) (bool, error) {
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
func (s *OctagonalShape) IsDisjointFrom(other *OctagonalShape) (bool, error) {
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
