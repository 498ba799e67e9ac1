// SPDX-License-Identifier: MIT
package octagon

import (
	"math/big"

	"github.com/katalvlaran/polycore/rational"
)

// strongCoherenceBound computes ceil((m[i][coh(i)] + m[coh(j)][j]) / 2)
// (spec §3, §4.3: "m[i][j] <= (m[i][coh(i)] + m[coh(j)][j]) / 2"), using
// UP rounding for both the sum and the halving. sufficient reports whether
// both contributing cells are finite; if not, the bound is meaningless and
// the caller should skip it.
func strongCoherenceBound(m *om, i, j int) (bound rational.Ext, sufficient bool) {
	a := m.at(i, coh(i))
	b := m.at(coh(j), j)
	if a.IsPlusInfinity() || b.IsPlusInfinity() {
		return rational.Ext{}, false
	}
	sum, _ := rational.Add(a, b, rational.DirUp)
	half, _ := rational.Div2Exp(sum, 1, rational.DirUp)
	return half, true
}

// StrongClosure performs the two nested passes spec §4.3 describes:
// (1) shortest-path over the 2n x 2n matrix (iterating the pivot twice per
// spec's "pseudo-triangular storage" remark — folded here into a single
// pass over the full dense matrix, which is equivalent since both indices
// of every pivot are materialised), and (2) a strong-coherence pass that
// tightens every cell against the half-sum of its two unary bounds.
// Negative diagonal after pass 1 proves emptiness; the diagonal is
// restored to +Inf on exit either way.
func (s *OctagonalShape) StrongClosure() error {
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

	// Strong-coherence pass (spec §4.3 step 2).
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			bound, ok := strongCoherenceBound(s.m, i, j)
			if ok && rational.Less(bound, s.m.at(i, j)) {
				s.m.set(i, j, bound)
			}
		}
		if s.opts.shouldAbandon() {
			return ErrAbandoned
		}
	}
	if s.m.hasNegativeDiagonal() {
		s.collapseToEmpty()
		return nil
	}
	s.restoreDiagonal()
	s.status = s.status.withClosed(true)
	s.nonRed = nil
	return nil
}

func (s *OctagonalShape) restoreDiagonal() {
	for i := 0; i < s.m.order; i++ {
		s.m.set(i, i, rational.PlusInfinity())
	}
}

// collapseToEmpty replaces the shape's matrix with a fresh empty matrix
// and sets the EMPTY status.
func (s *OctagonalShape) collapseToEmpty() {
	s.m = newOM(s.m.spaceDim)
	s.status = emptyStatus()
	s.nonRed = nil
}

// TightenIntegerCoherence applies the tight-coherence rule for integer N
// (spec §3, §4.3): if m[2k][2k+1] is odd, it may be tightened to the next
// even value, since an integer-valued octagon can never realise an odd
// bound on 2x_k exactly. Requires s to already be strongly closed.
func (s *OctagonalShape) TightenIntegerCoherence() error {
	if s == nil {
		return ErrNilShape
	}
	if !s.status.IsClosed() || s.status.kind != kindGeneric {
		return nil
	}
	n := s.SpaceDimension()
	changed := false
	for k := 0; k < n; k++ {
		a, b := 2*k, 2*k+1
		if v := s.m.at(a, b); v.IsFinite() && !v.IsInteger() {
			s.m.set(a, b, roundTowardsEvenCeil(v))
			changed = true
		}
		if v := s.m.at(b, a); v.IsFinite() && !v.IsInteger() {
			s.m.set(b, a, roundTowardsEvenCeil(v))
			changed = true
		}
	}
	if changed {
		s.status = s.status.withClosed(false).withReduced(false)
		return s.StrongClosure()
	}
	return nil
}

// roundTowardsEvenCeil rounds v up to the nearest even integer (spec §3's
// "odd m[2k][2k+1] may be tightened to the next even value" — for a value
// that is not yet an integer at all, as can arise before the final
// tight-coherence pass on a non-integer-valued policy, rounding to the
// nearest even integer above is still the sound direction).
func roundTowardsEvenCeil(v rational.Ext) rational.Ext {
	r := v.Rat()
	num, den := r.Num(), r.Denom()
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	if q.Bit(0) == 1 {
		q.Add(q, big.NewInt(1))
	}
	return rational.FromBigInt(q)
}

// ContainsIntegerPoint reports whether s, once strongly closed and
// tight-coherence-tightened, is non-empty, i.e. whether an inconsistency
// arises only once integer tightening is applied (spec §3's
// "inconsistency may then arise in an otherwise closed matrix").
func (s *OctagonalShape) ContainsIntegerPoint() (bool, error) {
	if s == nil {
		return false, ErrNilShape
	}
	probe := s.Clone()
	if err := probe.StrongClosure(); err != nil {
		return false, err
	}
	if probe.status.IsEmpty() {
		return false, nil
	}
	if err := probe.TightenIntegerCoherence(); err != nil {
		return false, err
	}
	return !probe.status.IsEmpty(), nil
}

// IncrementalStrongClosure re-establishes strong closure after the
// constraints on a single variable v changed (spec §4.3): (1) relax every
// pair through v's two literals 2v and 2v+1; (2) relax every pair through
// every pivot k, a full Floyd–Warshall pass; (3) re-run the strong-coherence
// pass over the whole matrix. Its cost is Theta(n^3), the same order as
// StrongClosure.
func (s *OctagonalShape) IncrementalStrongClosure(v int) error {
	if s == nil {
		return ErrNilShape
	}
	if v < 0 || v >= s.SpaceDimension() {
		return ErrInvalidVariable
	}
	if s.status.IsEmpty() || s.status.IsZeroDimUniverse() {
		return nil
	}
	n := s.m.order
	relaxThrough := func(pivot int) {
		for i := 0; i < n; i++ {
			ik := s.m.at(i, pivot)
			if ik.IsPlusInfinity() {
				continue
			}
			for j := 0; j < n; j++ {
				kj := s.m.at(pivot, j)
				if kj.IsPlusInfinity() {
					continue
				}
				cand, _ := rational.Add(ik, kj, rational.DirUp)
				if rational.Less(cand, s.m.at(i, j)) {
					s.m.set(i, j, cand)
				}
			}
		}
	}
	for _, pivot := range []int{2 * v, 2*v + 1} {
		relaxThrough(pivot)
	}
	for k := 0; k < n; k++ {
		relaxThrough(k)
	}
	if s.m.hasNegativeDiagonal() {
		s.collapseToEmpty()
		return nil
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			bound, ok := strongCoherenceBound(s.m, i, j)
			if ok && rational.Less(bound, s.m.at(i, j)) {
				s.m.set(i, j, bound)
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
