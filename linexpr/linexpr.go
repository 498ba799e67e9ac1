// Package linexpr implements the LE layer (spec §3, §4.1): immutable-by-
// convention sparse linear expressions over variable indices with integer
// coefficients and an integer inhomogeneous term.
//
// A LinExpr is the value every other component (constraints, generators,
// DBM/octagon cell extraction, simplex tableau rows, termination multiplier
// systems) is built from, so its API favours small, allocation-cheap
// construction (NewExpr + Add) over a rich expression-builder DSL.
package linexpr

import (
	"math/big"
	"sort"
)

// LinExpr is b + sum_i coeffs[i]*x_i. A zero-value LinExpr is the constant
// expression 0 and is ready to use. Callers should treat values returned by
// Terms/Inhomogeneous as read-only; use Clone before mutating a borrowed
// LinExpr in place.
type LinExpr struct {
	b      big.Int
	coeffs map[int]*big.Int // only non-zero entries are stored
}

// NewExpr returns the zero expression (b=0, no coefficients).
func NewExpr() *LinExpr {
	return &LinExpr{coeffs: make(map[int]*big.Int)}
}

// NewConstant returns the constant expression b.
func NewConstant(b int64) *LinExpr {
	e := NewExpr()
	e.b.SetInt64(b)
	return e
}

// NewVariable returns the expression 1*x_i (the identity expression for
// variable i), used pervasively to build single-variable affine images.
func NewVariable(i int) (*LinExpr, error) {
	if i < 0 {
		return nil, ErrNegativeVariable
	}
	e := NewExpr()
	e.coeffs[i] = big.NewInt(1)
	return e, nil
}

// SpaceDimension returns 1 + max{i : coeff_i != 0}, or 0 if the expression
// is a pure constant (spec §3).
func (e *LinExpr) SpaceDimension() int {
	max := -1
	for i, c := range e.coeffs {
		if c.Sign() != 0 && i > max {
			max = i
		}
	}
	return max + 1
}

// Inhomogeneous returns the constant term b, copied defensively.
func (e *LinExpr) Inhomogeneous() *big.Int {
	return new(big.Int).Set(&e.b)
}

// Coefficient returns the coefficient of variable i (0 if unset).
func (e *LinExpr) Coefficient(i int) *big.Int {
	if c, ok := e.coeffs[i]; ok {
		return new(big.Int).Set(c)
	}
	return big.NewInt(0)
}

// SetCoefficient sets the coefficient of variable i to c, removing the
// entry entirely when c is zero so the sparse map never accumulates dead
// zero entries.
func (e *LinExpr) SetCoefficient(i int, c *big.Int) error {
	if i < 0 {
		return ErrNegativeVariable
	}
	if c.Sign() == 0 {
		delete(e.coeffs, i)
		return nil
	}
	e.coeffs[i] = new(big.Int).Set(c)
	return nil
}

// SetInhomogeneous sets the constant term.
func (e *LinExpr) SetInhomogeneous(b *big.Int) {
	e.b.Set(b)
}

// Term is one (variable index, coefficient) pair, used by deterministic
// iteration (Terms) and by the ASCII codec / extraction routines.
type Term struct {
	Var   int
	Coeff *big.Int
}

// Terms returns the non-zero terms sorted by ascending variable index,
// giving every consumer (constraint canonicalization, ASCII dump, simplex
// tableau construction) a single deterministic iteration order.
func (e *LinExpr) Terms() []Term {
	idx := make([]int, 0, len(e.coeffs))
	for i := range e.coeffs {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	out := make([]Term, 0, len(idx))
	for _, i := range idx {
		out = append(out, Term{Var: i, Coeff: new(big.Int).Set(e.coeffs[i])})
	}
	return out
}

// Clone returns an independent deep copy of e.
func (e *LinExpr) Clone() *LinExpr {
	c := NewExpr()
	c.b.Set(&e.b)
	for i, v := range e.coeffs {
		c.coeffs[i] = new(big.Int).Set(v)
	}
	return c
}

// Neg returns -e as a new expression.
func (e *LinExpr) Neg() *LinExpr {
	c := NewExpr()
	c.b.Neg(&e.b)
	for i, v := range e.coeffs {
		c.coeffs[i] = new(big.Int).Neg(v)
	}
	return c
}

// Add returns e + other as a new expression.
func (e *LinExpr) Add(other *LinExpr) *LinExpr {
	c := e.Clone()
	c.b.Add(&c.b, &other.b)
	for i, v := range other.coeffs {
		cur, ok := c.coeffs[i]
		if !ok {
			cur = new(big.Int)
		}
		sum := new(big.Int).Add(cur, v)
		if sum.Sign() == 0 {
			delete(c.coeffs, i)
		} else {
			c.coeffs[i] = sum
		}
	}
	return c
}

// Scale returns k*e as a new expression.
func (e *LinExpr) Scale(k *big.Int) *LinExpr {
	c := NewExpr()
	c.b.Mul(&e.b, k)
	if k.Sign() != 0 {
		for i, v := range e.coeffs {
			c.coeffs[i] = new(big.Int).Mul(v, k)
		}
	}
	return c
}

// GCDNormalize returns a new expression proportional to e whose non-zero
// integer components (all coefficients plus the inhomogeneous term) share
// gcd 1, per the constraint-layer invariant in spec §3. If e is the zero
// expression it is returned unchanged (gcd of nothing is defined as 1).
func (e *LinExpr) GCDNormalize() *LinExpr {
	g := new(big.Int)
	accumulate := func(v *big.Int) {
		if v.Sign() == 0 {
			return
		}
		if g.Sign() == 0 {
			g.Abs(v)
			return
		}
		g.GCD(nil, nil, g, new(big.Int).Abs(v))
	}
	accumulate(&e.b)
	for _, v := range e.coeffs {
		accumulate(v)
	}
	if g.Sign() == 0 || g.Cmp(big.NewInt(1)) == 0 {
		return e.Clone()
	}
	c := NewExpr()
	c.b.Quo(&e.b, g)
	for i, v := range e.coeffs {
		c.coeffs[i] = new(big.Int).Quo(v, g)
	}
	return c
}
