// SPDX-License-Identifier: MIT
package simplex

import (
	"math/big"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// splitValues reads the current value of every split-variable column off
// the tableau's basis: a non-basic split column is implicitly 0 (not in
// the basis means it sits on its lower bound), a basic one takes its row's
// current RHS.
func (p *LPProblem) splitValues() []rational.Ext {
	vals := make([]rational.Ext, p.tab.splitDim)
	for i := range vals {
		vals[i] = rational.Zero()
	}
	rhsCol := p.tab.rhsCol()
	for r, bcol := range p.tab.basis {
		if bcol < p.tab.splitDim {
			vals[bcol] = p.tab.grid[r][rhsCol]
		}
	}
	return vals
}

// pointValues recombines every original variable's split parts,
// x_k = x_k+ - x_k-, the map-recording-split-variables bookkeeping named in
// spec §4.8.
func (p *LPProblem) pointValues() []rational.Ext {
	split := p.splitValues()
	out := make([]rational.Ext, p.spaceDim)
	for k := 0; k < p.spaceDim; k++ {
		out[k], _ = rational.Sub(split[2*k], split[2*k+1], rational.DirIgnore)
	}
	return out
}

// pointGenerator builds a Point generator at values, clearing every
// coordinate's denominator to one shared divisor (their LCM) so the
// generator's expression carries only integer coefficients, the
// Generator/Point contract (spec §3).
func pointGenerator(values []rational.Ext) (*polyconstraint.Generator, error) {
	lcm := big.NewInt(1)
	for _, v := range values {
		r := v.Rat()
		if r == nil {
			continue
		}
		lcm = lcmBigInt(lcm, r.Denom())
	}

	e := linexpr.NewExpr()
	for k, v := range values {
		r := v.Rat()
		if r == nil {
			continue
		}
		scale := new(big.Int).Div(lcm, r.Denom())
		num := new(big.Int).Mul(r.Num(), scale)
		if err := e.SetCoefficient(k, num); err != nil {
			return nil, err
		}
	}
	return polyconstraint.NewPoint(e, lcm)
}

// lcmBigInt returns the least common multiple of two positive big.Ints.
func lcmBigInt(a, b *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int).Set(b)
	}
	if b.Sign() == 0 {
		return new(big.Int).Set(a)
	}
	g := new(big.Int).GCD(nil, nil, a, b)
	out := new(big.Int).Mul(a, b)
	out.Abs(out)
	return out.Div(out, g)
}
