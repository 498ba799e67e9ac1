// SPDX-License-Identifier: MIT
package octagon

import "github.com/katalvlaran/polycore/rational"

// Embed returns a copy of s with m additional unconstrained dimensions
// appended (spec §4.7), generalized from bds.Embed to the 2n x 2n OM: each
// new variable contributes a fresh pair of literals, unconstrained against
// everything but itself.
func (s *OctagonalShape) Embed(m int) (*OctagonalShape, error) {
	if s == nil {
		return nil, ErrNilShape
	}
	if m < 0 {
		return nil, ErrInvalidVariable
	}
	if m == 0 {
		return s.Clone(), nil
	}
	n := s.SpaceDimension()
	grown := newOM(n + m)
	if s.status.IsEmpty() {
		return &OctagonalShape{m: grown, status: emptyStatus(), opts: s.opts}, nil
	}
	old := s.m.order
	for i := 0; i < old; i++ {
		for j := 0; j < old; j++ {
			grown.set(i, j, s.m.at(i, j))
		}
	}
	return &OctagonalShape{m: grown, status: genericStatus(s.status.IsClosed(), false), opts: s.opts}, nil
}

// AddSpaceDimensionsAndProject returns a copy of s with m additional
// dimensions appended, each new variable constrained to exactly 0 (spec
// §4.7 add_space_dimensions_and_project) — unlike Embed's unconstrained
// growth. A literal pair (pos,neg) pinned to 0 means m[neg][pos] (which
// upper-bounds pos-neg = 2*x_new) and m[pos][neg] (upper-bounds
// neg-pos = -2*x_new) are both exactly 0.
func (s *OctagonalShape) AddSpaceDimensionsAndProject(m int) (*OctagonalShape, error) {
	if s == nil {
		return nil, ErrNilShape
	}
	grown, err := s.Embed(m)
	if err != nil {
		return nil, err
	}
	if grown.status.IsEmpty() {
		return grown, nil
	}
	n := s.SpaceDimension()
	zero := rational.Zero()
	for k := 0; k < m; k++ {
		newIdx := n + k
		nPos, nNeg := 2*newIdx, 2*newIdx+1
		grown.m.set(nNeg, nPos, zero)
		grown.m.set(nPos, nNeg, zero)
	}
	return grown, nil
}

// Project returns a copy of s restricted to the variables in keep (distinct
// indices, in any order), with keep[a] becoming new variable a (spec §4.7).
func (s *OctagonalShape) Project(keep []int) (*OctagonalShape, error) {
	if s == nil {
		return nil, ErrNilShape
	}
	if s.status.IsEmpty() {
		return Empty(len(keep), optionFromExisting(s.opts)), nil
	}
	if err := s.StrongClosure(); err != nil {
		return nil, err
	}
	if s.status.IsEmpty() {
		return Empty(len(keep), optionFromExisting(s.opts)), nil
	}
	out := Universe(len(keep), optionFromExisting(s.opts))
	litOf := func(v int) (pos, neg int) { return 2 * v, 2*v + 1 }
	for a, va := range keep {
		aPos, aNeg := litOf(a)
		vaPos, vaNeg := litOf(va)
		for b, vb := range keep {
			if a == b {
				continue
			}
			bPos, bNeg := litOf(b)
			vbPos, vbNeg := litOf(vb)
			out.m.set(aPos, bPos, s.m.at(vaPos, vbPos))
			out.m.set(aPos, bNeg, s.m.at(vaPos, vbNeg))
			out.m.set(aNeg, bPos, s.m.at(vaNeg, vbPos))
			out.m.set(aNeg, bNeg, s.m.at(vaNeg, vbNeg))
		}
		out.m.set(aNeg, aPos, s.m.at(vaNeg, vaPos))
		out.m.set(aPos, aNeg, s.m.at(vaPos, vaNeg))
	}
	out.status = genericStatus(true, false)
	return out, nil
}

// optionFromExisting lifts an already-built Options value into a single
// Option.
func optionFromExisting(o Options) Option {
	return func(dst *Options) { *dst = o }
}

// RemoveSpaceDimensions deletes the given variable indices from s in
// place, re-indexing the survivors downward (spec §4.7).
func (s *OctagonalShape) RemoveSpaceDimensions(vars []int) error {
	if s == nil {
		return ErrNilShape
	}
	n := s.SpaceDimension()
	removed := make([]bool, n)
	for _, v := range vars {
		if v < 0 || v >= n {
			return ErrInvalidVariable
		}
		removed[v] = true
	}
	var keep []int
	for v := 0; v < n; v++ {
		if !removed[v] {
			keep = append(keep, v)
		}
	}
	projected, err := s.Project(keep)
	if err != nil {
		return err
	}
	*s = *projected
	return nil
}

// RemoveHigherSpaceDimensions discards every variable at or above newDim,
// keeping only x_0..x_{newDim-1} (spec §4.7 remove_higher_space_dimensions).
func (s *OctagonalShape) RemoveHigherSpaceDimensions(newDim int) error {
	if s == nil {
		return ErrNilShape
	}
	n := s.SpaceDimension()
	if newDim < 0 || newDim > n {
		return ErrInvalidVariable
	}
	if newDim == n {
		return nil
	}
	keep := make([]int, newDim)
	for i := range keep {
		keep[i] = i
	}
	projected, err := s.Project(keep)
	if err != nil {
		return err
	}
	*s = *projected
	return nil
}

// MapSpaceDimensions re-indexes s's variables according to mapping (spec
// §4.7): mapping[i] is the new index of old variable i, or -1 to drop it.
func (s *OctagonalShape) MapSpaceDimensions(mapping []int) error {
	if s == nil {
		return ErrNilShape
	}
	n := s.SpaceDimension()
	if len(mapping) != n {
		return ErrDimensionMismatch
	}
	maxTarget := -1
	seen := map[int]bool{}
	for _, t := range mapping {
		if t < 0 {
			continue
		}
		if seen[t] {
			return ErrNotPartialFunction
		}
		seen[t] = true
		if t > maxTarget {
			maxTarget = t
		}
	}
	if s.status.IsEmpty() {
		*s = *Empty(maxTarget+1, optionFromExisting(s.opts))
		return nil
	}
	if err := s.StrongClosure(); err != nil {
		return err
	}
	out := Universe(maxTarget+1, optionFromExisting(s.opts))
	for i := 0; i < n; i++ {
		ti := mapping[i]
		if ti < 0 {
			continue
		}
		iPos, iNeg := 2*i, 2*i+1
		tiPos, tiNeg := 2*ti, 2*ti+1
		out.m.set(tiNeg, tiPos, s.m.at(iNeg, iPos))
		out.m.set(tiPos, tiNeg, s.m.at(iPos, iNeg))
		for j := 0; j < n; j++ {
			tj := mapping[j]
			if tj < 0 || i == j {
				continue
			}
			jPos, jNeg := 2*j, 2*j+1
			tjPos, tjNeg := 2*tj, 2*tj+1
			out.m.set(tiPos, tjPos, s.m.at(iPos, jPos))
			out.m.set(tiPos, tjNeg, s.m.at(iPos, jNeg))
			out.m.set(tiNeg, tjPos, s.m.at(iNeg, jPos))
			out.m.set(tiNeg, tjNeg, s.m.at(iNeg, jNeg))
		}
	}
	out.status = genericStatus(true, false)
	*s = *out
	return nil
}

// ConcatenateAssign appends other's dimensions after s's own (spec §4.7).
func (s *OctagonalShape) ConcatenateAssign(other *OctagonalShape) error {
	if s == nil || other == nil {
		return ErrNilShape
	}
	n1, n2 := s.SpaceDimension(), other.SpaceDimension()
	out := newOM(n1 + n2)
	if s.status.IsEmpty() || other.status.IsEmpty() {
		*s = OctagonalShape{m: out, status: emptyStatus(), opts: s.opts}
		return nil
	}
	for i := 0; i < s.m.order; i++ {
		for j := 0; j < s.m.order; j++ {
			out.set(i, j, s.m.at(i, j))
		}
	}
	offset := 2 * n1
	for i := 0; i < other.m.order; i++ {
		for j := 0; j < other.m.order; j++ {
			out.set(offset+i, offset+j, other.m.at(i, j))
		}
	}
	*s = OctagonalShape{m: out, status: genericStatus(s.status.IsClosed() && other.status.IsClosed(), false), opts: s.opts}
	return nil
}

// ExpandSpaceDimension appends m fresh variables that each receive copies of
// v's unary bounds (spec §4.7); v's relations with other variables are not
// copied.
func (s *OctagonalShape) ExpandSpaceDimension(v, m int) error {
	if s == nil {
		return ErrNilShape
	}
	n := s.SpaceDimension()
	if v < 0 || v >= n {
		return ErrInvalidVariable
	}
	if m <= 0 {
		return nil
	}
	grown, err := s.Embed(m)
	if err != nil {
		return err
	}
	vPos, vNeg := 2*v, 2*v+1
	for k := 0; k < m; k++ {
		newIdx := n + k
		nPos, nNeg := 2*newIdx, 2*newIdx+1
		grown.m.set(nNeg, nPos, s.m.at(vNeg, vPos))
		grown.m.set(nPos, nNeg, s.m.at(vPos, vNeg))
	}
	*s = *grown
	return nil
}

// FoldSpaceDimensions merges the variables in vars (plus v) into a single
// surviving variable v whose bound is the upper bound of all the folded
// ones' bounds (spec §4.7).
func (s *OctagonalShape) FoldSpaceDimensions(vars []int, v int) error {
	if s == nil {
		return ErrNilShape
	}
	n := s.SpaceDimension()
	if v < 0 || v >= n {
		return ErrInvalidVariable
	}
	vPos, vNeg := 2*v, 2*v+1
	for _, w := range vars {
		if w < 0 || w >= n {
			return ErrInvalidVariable
		}
		wPos, wNeg := 2*w, 2*w+1
		up, down := s.m.at(wNeg, wPos), s.m.at(wPos, wNeg)
		if rational.Less(s.m.at(vNeg, vPos), up) {
			s.m.set(vNeg, vPos, up)
		}
		if rational.Less(s.m.at(vPos, vNeg), down) {
			s.m.set(vPos, vNeg, down)
		}
	}
	removed := make([]bool, n)
	for _, w := range vars {
		removed[w] = true
	}
	var keep []int
	for k := 0; k < n; k++ {
		if !removed[k] {
			keep = append(keep, k)
		}
	}
	projected, err := s.Project(keep)
	if err != nil {
		return err
	}
	*s = *projected
	return nil
}
