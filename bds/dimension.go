// SPDX-License-Identifier: MIT
package bds

import "github.com/katalvlaran/polycore/rational"

// Embed returns a copy of s with m additional unconstrained dimensions
// appended (spec §4.7): embedding never loses information, it only adds
// fresh +Inf rows/columns.
func (s *BDShape) Embed(m int) (*BDShape, error) {
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
	grown := newDBM(n + m)
	if s.status.IsEmpty() {
		out := &BDShape{m: grown, status: emptyStatus(), opts: s.opts}
		return out, nil
	}
	old := s.m.order
	for i := 0; i < old; i++ {
		for j := 0; j < old; j++ {
			grown.set(i, j, s.m.at(i, j))
		}
	}
	out := &BDShape{m: grown, status: genericStatus(s.status.IsClosed(), false), opts: s.opts}
	return out, nil
}

// AddSpaceDimensionsAndProject returns a copy of s with m additional
// dimensions appended, each new variable constrained to exactly 0 (spec
// §4.7 add_space_dimensions_and_project) — unlike Embed's unconstrained
// growth, the new variables are pinned to the origin from the start.
func (s *BDShape) AddSpaceDimensionsAndProject(m int) (*BDShape, error) {
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
		grown.m.set(0, newIdx+1, zero)
		grown.m.set(newIdx+1, 0, zero)
	}
	return grown, nil
}

// Project returns a copy of s restricted to the variables in keep (distinct
// indices, in any order), with keep[a] becoming new variable a. Equivalent to
// forgetting every other variable and then eliminating it from the matrix
// (spec §4.7's "remove_space_dimensions" composed with re-indexing, as
// used by hull.ConvexPolyhedron.Project).
func (s *BDShape) Project(keep []int) (*BDShape, error) {
	if s == nil {
		return nil, ErrNilShape
	}
	if s.status.IsEmpty() {
		return Empty(len(keep), optionFromExisting(s.opts)), nil
	}
	if err := s.ShortestPathClosure(); err != nil {
		return nil, err
	}
	if s.status.IsEmpty() {
		return Empty(len(keep), optionFromExisting(s.opts)), nil
	}
	out := Universe(len(keep), optionFromExisting(s.opts))
	for a, va := range keep {
		for b, vb := range keep {
			if a == b {
				continue
			}
			out.m.set(a+1, b+1, s.m.at(va+1, vb+1))
		}
		out.m.set(0, a+1, s.m.at(0, va+1))
		out.m.set(a+1, 0, s.m.at(va+1, 0))
	}
	out.status = genericStatus(true, false)
	return out, nil
}

// optionFromExisting lifts an already-built Options value into a single
// Option, used internally to thread opts through constructors that only
// accept the functional form.
func optionFromExisting(o Options) Option {
	return func(dst *Options) { *dst = o }
}

// RemoveSpaceDimensions deletes the given variable indices (deduplicated,
// any order) from s in place, re-indexing the survivors downward (spec
// §4.7).
func (s *BDShape) RemoveSpaceDimensions(vars []int) error {
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
func (s *BDShape) RemoveHigherSpaceDimensions(newDim int) error {
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

// MapSpaceDimensions re-indexes s's variables according to mapping (a
// partial injective function: mapping[i] is the new index of old variable
// i, or -1 to drop it); ErrNotPartialFunction if two surviving variables
// collide on the same target index (spec §4.7).
func (s *BDShape) MapSpaceDimensions(mapping []int) error {
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
	out := Universe(maxTarget+1, optionFromExisting(s.opts))
	if s.status.IsEmpty() {
		*s = *Empty(maxTarget+1, optionFromExisting(s.opts))
		return nil
	}
	if err := s.ShortestPathClosure(); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		ti := mapping[i]
		if ti < 0 {
			continue
		}
		out.m.set(0, ti+1, s.m.at(0, i+1))
		out.m.set(ti+1, 0, s.m.at(i+1, 0))
		for j := 0; j < n; j++ {
			tj := mapping[j]
			if tj < 0 || i == j {
				continue
			}
			out.m.set(ti+1, tj+1, s.m.at(i+1, j+1))
		}
	}
	out.status = genericStatus(true, false)
	*s = *out
	return nil
}

// ConcatenateAssign appends other's dimensions after s's own, as the
// disjoint product (every cross cell between the two variable sets left
// unconstrained, spec §4.7).
func (s *BDShape) ConcatenateAssign(other *BDShape) error {
	if s == nil || other == nil {
		return ErrNilShape
	}
	n1, n2 := s.SpaceDimension(), other.SpaceDimension()
	out := newDBM(n1 + n2)
	if s.status.IsEmpty() || other.status.IsEmpty() {
		*s = BDShape{m: out, status: emptyStatus(), opts: s.opts}
		return nil
	}
	for i := 0; i < s.m.order; i++ {
		for j := 0; j < s.m.order; j++ {
			out.set(i, j, s.m.at(i, j))
		}
	}
	for i := 0; i < other.m.order; i++ {
		for j := 0; j < other.m.order; j++ {
			if i == 0 && j == 0 {
				continue
			}
			oi, oj := i, j
			if i != 0 {
				oi = n1 + i
			}
			if j != 0 {
				oj = n1 + j
			}
			v := other.m.at(i, j)
			if i == 0 || j == 0 {
				// merge with the fictitious-zero row/col already copied from s
				cur := out.at(oi, oj)
				if rational.Less(v, cur) {
					out.set(oi, oj, v)
				}
				continue
			}
			out.set(oi, oj, v)
		}
	}
	*s = BDShape{m: out, status: genericStatus(s.status.IsClosed() && other.status.IsClosed(), false), opts: s.opts}
	return nil
}

// ExpandSpaceDimension appends m fresh variables that each receive copies of
// v's unary bounds (spec §4.7); v's differences with other variables are not
// copied. Used by the bounded and generalized affine preimages to seed a
// stand-in for v.
func (s *BDShape) ExpandSpaceDimension(v, m int) error {
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
	for k := 0; k < m; k++ {
		newIdx := n + k
		grown.m.set(0, newIdx+1, s.m.at(0, v+1))
		grown.m.set(newIdx+1, 0, s.m.at(v+1, 0))
	}
	*s = *grown
	return nil
}

// FoldSpaceDimensions merges the variables in vars (plus v) into a single
// surviving variable v whose bound is the upper bound (convex hull) of all
// the folded ones' bounds (spec §4.7), used to summarize a set of
// interchangeable loop counters back into one representative.
func (s *BDShape) FoldSpaceDimensions(vars []int, v int) error {
	if s == nil {
		return ErrNilShape
	}
	n := s.SpaceDimension()
	if v < 0 || v >= n {
		return ErrInvalidVariable
	}
	for _, w := range vars {
		if w < 0 || w >= n {
			return ErrInvalidVariable
		}
		wIdx, vIdx := w+1, v+1
		up, down := s.m.at(0, wIdx), s.m.at(wIdx, 0)
		if rational.Less(s.m.at(0, vIdx), up) {
			s.m.set(0, vIdx, up)
		}
		if rational.Less(s.m.at(vIdx, 0), down) {
			s.m.set(vIdx, 0, down)
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
