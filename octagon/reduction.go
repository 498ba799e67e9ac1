// SPDX-License-Identifier: MIT
package octagon

import "github.com/katalvlaran/polycore/rational"

// StrongReduction computes, for each strongly closed shape, the minimal
// set of non-redundant entries (spec §4.3): an entry m[i][j] is redundant
// if it is implied by strong coherence or by a path of length >= 2
// through already-closed cells. Redundant entries are flipped to +Inf.
func (s *OctagonalShape) StrongReduction() error {
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
				continue
			}
			redundant := false
			// a unary cell (j == coh(i)) is its own coherence bound, so it is
			// never implied by coherence.
			if bound, ok := strongCoherenceBound(s.m, i, j); ok && j != coh(i) && rational.Equal(bound, v) {
				redundant = true
			}
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
// StrongReduction call.
func (s *OctagonalShape) IsRedundant(i, j int) bool {
	if s == nil || s.nonRed == nil {
		return false
	}
	return !s.nonRed[i*s.m.order+j]
}
