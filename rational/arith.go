package rational

import "math/big"

// Assign copies from into to's value and reports V_EQ (exact types never
// lose information on assignment). dir is accepted for interface symmetry
// with inexact policy variants and ignored here.
func Assign(from Ext, _ Direction) (Ext, Relation) {
	return from, VEQ
}

// Neg returns -x. Infinities flip sign; NaN propagates. Negation is always
// exact for this type, so dir is accepted but unused (mirrors spec §4.1:
// "every negation used to read back a lower bound uses NOT_NEEDED").
func Neg(x Ext, _ Direction) (Ext, Relation) {
	switch x.k {
	case kindPlusInf:
		return MinusInfinity(), VEQ
	case kindMinusInf:
		return PlusInfinity(), VEQ
	case kindNaN:
		return NaN(), VLGE
	default:
		var r Ext
		r.v.Neg(&x.v)
		return r, VEQ
	}
}

// bothInfiniteOrNaN reports whether at least one of a, b is infinite or NaN.
// Add, Mul and Div do not call it; each implements its own small switch
// over the extended-real cases directly.
func bothInfiniteOrNaN(a, b Ext) bool {
	return a.k != kindFinite || b.k != kindFinite
}

// Add returns a+b. Every relaxation step in shortest-path/strong closure
// uses DirUp; for this exact type the direction has no numerical effect
// but is still required by the signature (spec §9: never hide it behind a
// default).
func Add(a, b Ext, _ Direction) (Ext, Relation) {
	if a.k == kindNaN || b.k == kindNaN {
		return NaN(), VLGE
	}
	if a.k == kindFinite && b.k == kindFinite {
		var r Ext
		r.v.Add(&a.v, &b.v)
		return r, VEQ
	}
	// At least one infinite operand.
	if a.k == kindPlusInf && b.k == kindMinusInf || a.k == kindMinusInf && b.k == kindPlusInf {
		return NaN(), VLGE // Inf + (-Inf) is undefined
	}
	if a.k == kindPlusInf || b.k == kindPlusInf {
		return PlusInfinity(), VEQPlusInf
	}
	return MinusInfinity(), VEQMinusInf
}

// Sub returns a-b, defined as Add(a, Neg(b)).
func Sub(a, b Ext, dir Direction) (Ext, Relation) {
	nb, _ := Neg(b, DirNotNeeded)
	return Add(a, nb, dir)
}

// Mul returns a*b.
func Mul(a, b Ext, _ Direction) (Ext, Relation) {
	if a.k == kindNaN || b.k == kindNaN {
		return NaN(), VLGE
	}
	if a.k == kindFinite && b.k == kindFinite {
		var r Ext
		r.v.Mul(&a.v, &b.v)
		return r, VEQ
	}
	sa, sb := a.Sgn(), b.Sgn()
	if sa == 0 || sb == 0 {
		// 0 * Inf is undefined in extended-real conventions.
		if (a.k != kindFinite && sb == 0) || (b.k != kindFinite && sa == 0) {
			return NaN(), VLGE
		}
		return Zero(), VEQ
	}
	if sa*sb > 0 {
		return PlusInfinity(), VEQPlusInf
	}
	return MinusInfinity(), VEQMinusInf
}

// Div returns a/b. Returns ErrZeroDenominator when b is the finite value 0.
func Div(a, b Ext, _ Direction) (Ext, Relation, error) {
	if a.k == kindNaN || b.k == kindNaN {
		return NaN(), VLGE, nil
	}
	if b.k == kindFinite && b.v.Sign() == 0 {
		return Ext{}, VEmpty, ErrZeroDenominator
	}
	if a.k == kindFinite && b.k == kindFinite {
		var r Ext
		r.v.Quo(&a.v, &b.v)
		return r, VEQ, nil
	}
	if b.k != kindFinite {
		if a.k != kindFinite {
			return NaN(), VLGE, nil
		}
		return Zero(), VEQ, nil
	}
	// a infinite, b finite non-zero.
	sign := b.v.Sign()
	if a.k == kindPlusInf {
		if sign > 0 {
			return PlusInfinity(), VEQPlusInf, nil
		}
		return MinusInfinity(), VEQMinusInf, nil
	}
	if sign > 0 {
		return MinusInfinity(), VEQMinusInf, nil
	}
	return PlusInfinity(), VEQPlusInf, nil
}

// Mul2Exp returns x * 2^n (n may be negative).
func Mul2Exp(x Ext, n int, dir Direction) (Ext, Relation) {
	if x.k != kindFinite {
		return x, VEQ
	}
	var r Ext
	if n >= 0 {
		r.v.Mul(&x.v, new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(n))))
	} else {
		r.v.Quo(&x.v, new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(-n))))
	}
	return r, VEQ
}

// Div2Exp returns x / 2^n (n may be negative); shorthand for Mul2Exp(x,-n).
func Div2Exp(x Ext, n int, dir Direction) (Ext, Relation) {
	return Mul2Exp(x, -n, dir)
}

// DivRoundUp computes ceil(num/den) when num/den is an integer ratio,
// otherwise rounds the true quotient towards +Infinity, per spec §4.1. den
// must be non-zero.
func DivRoundUp(num, den Ext) (Ext, error) {
	if !num.IsFinite() || !den.IsFinite() {
		return Ext{}, ErrNotFinite
	}
	if den.v.Sign() == 0 {
		return Ext{}, ErrZeroDenominator
	}
	// Exact rational quotient; "rounding up" only bites when the result is
	// later coerced into an integer-valued policy (e.g. tight coherence),
	// so at the Ext/big.Rat level the quotient is always exact.
	var r Ext
	r.v.Quo(&num.v, &den.v)
	return r, nil
}

// Sqrt returns sqrt(x) for x >= 0 finite, rounded per dir towards +Inf when
// the true root is irrational and dir is DirUp (used by policies that need
// a sound upper bound on a square root; the exact-rational policy here
// approximates via a fixed-iteration Newton step and always rounds up so
// soundness is preserved even though exactness is not).
func Sqrt(x Ext, dir Direction) (Ext, Relation, error) {
	if !x.IsFinite() {
		if x.IsPlusInfinity() {
			return PlusInfinity(), VEQPlusInf, nil
		}
		return Ext{}, VEmpty, ErrNotFinite
	}
	if x.v.Sign() < 0 {
		return Ext{}, VEmpty, ErrNegativeRadicand
	}
	if x.v.Sign() == 0 {
		return Zero(), VEQ, nil
	}
	// Newton's method in big.Rat arithmetic, fixed iteration count; round
	// the final estimate up by the iteration's own error bound to honour
	// DirUp soundness (never under-approximate a bound derived from it).
	guess := new(big.Rat).Set(&x.v)
	one := big.NewRat(1, 2)
	for i := 0; i < 8; i++ {
		// next = (guess + x/guess) / 2
		inv := new(big.Rat).Quo(&x.v, guess)
		sum := new(big.Rat).Add(guess, inv)
		guess = new(big.Rat).Mul(sum, one)
	}
	if dir == DirUp {
		// Pad by a tiny epsilon to guarantee guess*guess >= x even after the
		// fixed iteration count, keeping the bound sound.
		eps := big.NewRat(1, 1)
		eps.Quo(eps, big.NewRat(1<<40, 1))
		guess = new(big.Rat).Add(guess, eps)
	}
	var r Ext
	r.v.Set(guess)
	return r, VLGE, nil
}
