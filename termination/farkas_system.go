// SPDX-License-Identifier: MIT
package termination

import (
	"math/big"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
)

// buildFarkasConstraints assembles the single concatenated satisfiability
// system spec §4.9 describes for MS ("the first asserts existence of
// multipliers witnessing that mu(x) - mu(x') >= 1 over the loop, the
// second asserts mu(x) >= 0 over the loop's pre-state ... satisfiability
// of their intersection over (mu, y, z) >= 0 decides termination") —
// confirmed against original_source/termination.cc to be solved as one
// combined query rather than two independent LP calls.
//
// transitionRows is the Farkas-flattened transition relation over 2*dim
// combined variables (unprimed then primed); beforeRows is the
// Farkas-flattened pre-state invariant over dim variables. The returned
// constraints live over a (dim+1+len(transitionRows)+len(beforeRows))-wide
// space: coordinates [0,dim] are the ranking function mu (mu_0 then
// mu_1..mu_dim), followed by one non-negative multiplier y_i per
// transition row, then one non-negative multiplier z_j per before row.
func buildFarkasConstraints(dim int, transitionRows, beforeRows []farkasRow) ([]*polyconstraint.Constraint, int) {
	m, p := len(transitionRows), len(beforeRows)
	total := muSpaceDim(dim) + m + p
	yIdx := func(i int) int { return muSpaceDim(dim) + i }
	zIdx := func(j int) int { return muSpaceDim(dim) + m + j }

	var cs []*polyconstraint.Constraint

	nonneg := func(idx int) *polyconstraint.Constraint {
		e, _ := linexpr.NewVariable(idx)
		return polyconstraint.NewConstraint(e, polyconstraint.GE)
	}
	for i := 0; i < m; i++ {
		cs = append(cs, nonneg(yIdx(i)))
	}
	for j := 0; j < p; j++ {
		cs = append(cs, nonneg(zIdx(j)))
	}

	// Decrease system: for every combined coordinate c, the multipliers'
	// weighted sum of that coordinate's Farkas-row entries must reproduce
	// mu's coefficient there (negated on the primed half, since mu(x) -
	// mu(x') is mu's coefficients on x minus mu's coefficients on x').
	for c := 0; c < 2*dim; c++ {
		e := linexpr.NewExpr()
		for i, row := range transitionRows {
			if row.coeffs[c].Sign() != 0 {
				_ = e.SetCoefficient(yIdx(i), row.coeffs[c])
			}
		}
		var muIdx int
		var sign int64 = 1
		if c < dim {
			muIdx = muCoeffIdx(c)
		} else {
			muIdx = muCoeffIdx(c - dim)
			sign = -1
		}
		_ = e.SetCoefficient(muIdx, big.NewInt(-sign))
		cs = append(cs, polyconstraint.NewConstraint(e, polyconstraint.EQ))
	}
	// sum_i y_i*b_i <= -1, i.e. -1 - sum_i y_i*b_i >= 0.
	decreaseBound := linexpr.NewConstant(-1)
	for i, row := range transitionRows {
		if row.b.Sign() != 0 {
			_ = decreaseBound.SetCoefficient(yIdx(i), new(big.Int).Neg(row.b))
		}
	}
	cs = append(cs, polyconstraint.NewConstraint(decreaseBound, polyconstraint.GE))

	// Bounded-below system: mu's coefficients on x must match the
	// multipliers' weighted sum of the pre-state rows' entries.
	for k := 0; k < dim; k++ {
		e := linexpr.NewExpr()
		for j, row := range beforeRows {
			if row.coeffs[k].Sign() != 0 {
				_ = e.SetCoefficient(zIdx(j), row.coeffs[k])
			}
		}
		_ = e.SetCoefficient(muCoeffIdx(k), big.NewInt(-1))
		cs = append(cs, polyconstraint.NewConstraint(e, polyconstraint.EQ))
	}
	// mu_0 - sum_j z_j*b_j >= 0.
	belowBound := linexpr.NewExpr()
	_ = belowBound.SetCoefficient(muConstIdx(), big.NewInt(1))
	for j, row := range beforeRows {
		if row.b.Sign() != 0 {
			_ = belowBound.SetCoefficient(zIdx(j), new(big.Int).Neg(row.b))
		}
	}
	cs = append(cs, polyconstraint.NewConstraint(belowBound, polyconstraint.GE))

	return cs, total
}

// muKeepIndices returns the mu-space coordinates [0,dim] used to project a
// Farkas satisfiability polyhedron down to "all affine ranking functions"
// (spec §4.9: "enumeration of all ranking functions ... projection onto
// the mu-coordinates").
func muKeepIndices(dim int) []int {
	keep := make([]int, muSpaceDim(dim))
	for i := range keep {
		keep[i] = i
	}
	return keep
}
