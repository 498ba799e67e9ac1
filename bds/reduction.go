// SPDX-License-Identifier: MIT
package bds

import "github.com/katalvlaran/polycore/rational"

// StrongReduction computes, for each closed shape, the minimal set of
// non-redundant entries (spec §4.3): an entry m[i][j] is redundant if it is
// implied by a path of length >= 2 through already-closed cells, i.e. some
// k != i,j exists with m[i][k] + m[k][j] == m[i][j]. Redundant entries are
// flipped to +Inf; the property preserved is that re-running
// ShortestPathClosure on the reduced matrix reproduces the pre-reduction
// matrix exactly (spec §4.3).
//
// Requires the shape to already be closed; non-closed and non-generic
// shapes are left untouched.
func (s *BDShape) StrongReduction() error {
	if s == nil {
		return ErrNilShape
	}
	if !s.status.IsClosed() || s.status.kind != kindGeneric {
		return nil
	}
	n := s.m.order
	nonRed := make([]bool, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			v := s.m.at(i, j)
			if v.IsPlusInfinity() {
				continue // no constraint stored here; nothing to reduce
			}
			redundant := false
			for k := 0; k < n && !redundant; k++ {
				if k == i || k == j {
					continue
				}
				ik, kj := s.m.at(i, k), s.m.at(k, j)
				if ik.IsPlusInfinity() || kj.IsPlusInfinity() {
					continue
				}
				sum, _ := rational.Add(ik, kj, rational.DirUp)
				if rational.Equal(sum, v) {
					redundant = true
				}
			}
			if !redundant {
				nonRed[i*n+j] = true
			} else {
				s.m.set(i, j, rational.PlusInfinity())
			}
		}
	}
	s.nonRed = nonRed
	s.status = s.status.withReduced(true)
	return nil
}

// IsRedundant reports whether cell (i,j) was flipped to +Inf by the last
// StrongReduction call. Returns false (never redundant) if reduction has
// not been computed, i.e. every stored finite entry is presumed
// significant until proven otherwise.
func (s *BDShape) IsRedundant(i, j int) bool {
	if s == nil || s.nonRed == nil {
		return false
	}
	return !s.nonRed[i*s.m.order+j]
}
