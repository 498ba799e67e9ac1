// SPDX-License-Identifier: MIT
package bds

import "github.com/katalvlaran/polycore/rational"

// ShortestPathClosure performs Floyd–Warshall closure in place (spec §4.3):
// Θ(n³) saturation of every triangular inequality m[i][j] <= m[i][k]+m[k][j].
// Loop order is fixed (k -> i -> j), mirroring the teacher's deterministic
// APSP convention (lvlath/matrix/impl_floydwarshall.go), generalized from
// float64 +Inf sentinels to rational.Ext arithmetic under DirUp rounding.
// If a negative diagonal entry is produced the shape transitions to EMPTY
// and the closed flag is cleared (spec §4.3); closure is idempotent (spec
// §8 property 2) and is a no-op on an already-closed or empty shape.
func (s *BDShape) ShortestPathClosure() error {
	if s == nil {
		return ErrNilShape
	}
	if s.status.IsEmpty() || s.status.IsZeroDimUniverse() || s.status.IsClosed() {
		return nil
	}
	n := s.m.order
	for k := 0; k < n; k++ {
		if s.opts.shouldAbandon() {
			return ErrAbandoned
		}
		for i := 0; i < n; i++ {
			ik := s.m.at(i, k)
			if ik.IsPlusInfinity() {
				continue
			}
			for j := 0; j < n; j++ {
				kj := s.m.at(k, j)
				if kj.IsPlusInfinity() {
					continue
				}
				cand, _ := rational.Add(ik, kj, rational.DirUp)
				if rational.Less(cand, s.m.at(i, j)) {
					s.m.set(i, j, cand)
				}
			}
		}
		s.opts.tick()
	}

	if s.m.hasNegativeDiagonal() {
		s.collapseToEmpty()
		return nil
	}
	s.restoreDiagonal()
	s.status = s.status.withClosed(true)
	s.nonRed = nil // closure invalidates any previously computed reduction mask
	return nil
}

// restoreDiagonal forces every diagonal entry back to +Inf (its logical
// value of 0), undoing any transient negative value closure may have
// written while probing for emptiness.
func (s *BDShape) restoreDiagonal() {
	for i := 0; i < s.m.order; i++ {
		s.m.set(i, i, rational.PlusInfinity())
	}
}

// collapseToEmpty replaces the shape's matrix with a fresh, canonical empty
// matrix and sets the EMPTY status; this is the only path by which a shape
// transitions to empty after construction (spec §7: "numerical emptiness is
// always internalised as a state change").
func (s *BDShape) collapseToEmpty() {
	s.m = newDBM(s.m.spaceDim())
	s.status = emptyStatus()
	s.nonRed = nil
}

// IncrementalClosure re-establishes shortest-path closure in Θ(n²) after
// only the constraints on a single variable v changed, avoiding the full
// cubic cost (spec §4.3). The shape must already have been closed before v
// was touched; callers that are not sure should call ShortestPathClosure
// instead.
func (s *BDShape) IncrementalClosure(v int) error {
	if s == nil {
		return ErrNilShape
	}
	if v < 0 || v >= s.SpaceDimension() {
		return ErrInvalidVariable
	}
	if s.status.IsEmpty() || s.status.IsZeroDimUniverse() {
		return nil
	}
	v++ // row/column of x_v in the DBM
	n := s.m.order
	relax := func(i, j int) {
		ik := s.m.at(i, v)
		if ik.IsPlusInfinity() {
			return
		}
		// two-hop relaxation of (i,j) through the pivot v.
		for _, mid := range []int{v} {
			kj := s.m.at(mid, j)
			if kj.IsPlusInfinity() {
				return
			}
			cand, _ := rational.Add(ik, kj, rational.DirUp)
			if rational.Less(cand, s.m.at(i, j)) {
				s.m.set(i, j, cand)
			}
		}
	}
	// Phase 1: propagate through v as the pivot for every pair.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			relax(i, j)
		}
	}
	// Phase 2: v itself may now admit shorter paths via any other pivot.
	for k := 0; k < n; k++ {
		if k == v {
			continue
		}
		for _, pair := range [][2]int{{v, k}, {k, v}} {
			i, j := pair[0], pair[1]
			for m := 0; m < n; m++ {
				if m == i || m == j {
					continue
				}
				a := s.m.at(i, m)
				if a.IsPlusInfinity() {
					continue
				}
				b := s.m.at(m, j)
				if b.IsPlusInfinity() {
					continue
				}
				cand, _ := rational.Add(a, b, rational.DirUp)
				if rational.Less(cand, s.m.at(i, j)) {
					s.m.set(i, j, cand)
				}
			}
		}
	}
	if s.m.hasNegativeDiagonal() {
		s.collapseToEmpty()
		return nil
	}
	s.restoreDiagonal()
	s.nonRed = nil
	return nil
}
