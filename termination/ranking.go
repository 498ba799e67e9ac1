// SPDX-License-Identifier: MIT
package termination

import (
	"math/big"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// farkasRow is one row of a Farkas-certificate source system: the affine
// inequality b + sum_k coeffs[k]*v_k >= 0 (the GE Constraint convention),
// read off a polyconstraint.Constraint over a dense coefficient vector of
// the given width.
type farkasRow struct {
	coeffs []*big.Int
	b      *big.Int
}

// farkasRows flattens cs into dense Farkas rows over `width` variables.
// An equality contributes two rows (itself and its negation), giving an
// unrestricted-sign multiplier as the sum of two non-negative ones — the
// standard Motzkin-transposition treatment of equalities in a Farkas
// certificate.
func farkasRows(width int, cs []*polyconstraint.Constraint) ([]farkasRow, error) {
	rows := make([]farkasRow, 0, len(cs))
	for _, c := range cs {
		if c.IsStrict() {
			return nil, ErrStrictInequality
		}
		if c.SpaceDimension() > width {
			return nil, ErrDimensionMismatch
		}
		row := denseRow(width, c.Expression())
		rows = append(rows, row)
		if c.IsEquality() {
			rows = append(rows, negateRow(row))
		}
	}
	return rows, nil
}

func denseRow(width int, e *linexpr.LinExpr) farkasRow {
	coeffs := make([]*big.Int, width)
	for i := range coeffs {
		coeffs[i] = big.NewInt(0)
	}
	for _, tm := range e.Terms() {
		coeffs[tm.Var] = new(big.Int).Set(tm.Coeff)
	}
	return farkasRow{coeffs: coeffs, b: e.Inhomogeneous()}
}

func negateRow(r farkasRow) farkasRow {
	coeffs := make([]*big.Int, len(r.coeffs))
	for i, c := range r.coeffs {
		coeffs[i] = new(big.Int).Neg(c)
	}
	return farkasRow{coeffs: coeffs, b: new(big.Int).Neg(r.b)}
}

// muConstIdx and muCoeffIdx lay out the ranking function's own coordinates
// at the front of every outer LP this package builds: coordinate 0 is
// mu_0, the constant term; coordinate 1+k is the coefficient of program
// variable x_k.
func muConstIdx() int        { return 0 }
func muCoeffIdx(k int) int   { return 1 + k }
func muSpaceDim(dim int) int { return 1 + dim }

// extractRankingFunction reads the mu-coordinates off a witness point g
// (itself a point in the outer LP's full variable space, mu followed by
// every Farkas multiplier) and returns them as a standalone Generator in
// mu-space: coordinate 0 is mu_0, coordinate 1+k is the coefficient of x_k.
func extractRankingFunction(dim int, g *polyconstraint.Generator) (*polyconstraint.Generator, error) {
	e := linexpr.NewExpr()
	for k := 0; k < muSpaceDim(dim); k++ {
		if err := e.SetCoefficient(k, g.Expression().Coefficient(k)); err != nil {
			return nil, err
		}
	}
	return polyconstraint.NewPoint(e, g.Divisor())
}

// Evaluate computes mu(point) = mu_0 + sum_k mu_{k+1}*point[k] for a
// ranking-function generator mu (as returned by
// OneAffineRankingFunctionMS/PR) and a concrete point of dimension dim,
// used to check the ranking-function soundness property (spec §8 property
// 13) against a witnessed transition.
func Evaluate(mu *polyconstraint.Generator, dim int, point []rational.Ext) (rational.Ext, error) {
	if mu.Divisor().Sign() <= 0 {
		return rational.Zero(), ErrDimensionMismatch
	}
	divisor := rational.FromBigInt(mu.Divisor())
	total := rational.FromBigInt(mu.Expression().Coefficient(muConstIdx()))
	total, _, err := rational.Div(total, divisor, rational.DirIgnore)
	if err != nil {
		return rational.Zero(), err
	}
	for k := 0; k < dim; k++ {
		coeffNum := rational.FromBigInt(mu.Expression().Coefficient(muCoeffIdx(k)))
		coeff, _, err := rational.Div(coeffNum, divisor, rational.DirIgnore)
		if err != nil {
			return rational.Zero(), err
		}
		term, _ := rational.Mul(coeff, point[k], rational.DirIgnore)
		total, _ = rational.Add(total, term, rational.DirIgnore)
	}
	return total, nil
}
