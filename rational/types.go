// Package rational implements the extended-number layer (N) that every
// shape matrix entry (DBM, octagon) and every simplex tableau cell is built
// from: a totally-ordered arithmetic type that extends exact rationals with
// +Infinity and -Infinity, threading an explicit rounding Direction through
// every operation and reporting a Relation that tells the caller whether
// the stored result is exact or only a sound over/under-approximation.
//
// For the exact-rational instantiation used throughout this module every
// Direction is a no-op (big.Rat arithmetic never loses precision), but the
// parameter is still required on every call: §9 of the design explicitly
// forbids hiding rounding direction behind defaults, since a future
// floating-point policy variant must be able to plug into the same call
// sites and have UP/DOWN actually bound the true result.
package rational

import (
	"fmt"
	"math/big"
)

// kind classifies a finite/infinite/NaN value so Ext can stay a small
// value type instead of a tagged union with pointer-nil ambiguity.
type kind uint8

const (
	kindFinite kind = iota
	kindPlusInf
	kindMinusInf
	kindNaN
)

// Ext is an extended rational number: a finite big.Rat, +Inf, -Inf, or NaN.
// The zero value is the finite rational 0/1 and is ready to use.
type Ext struct {
	k kind
	v big.Rat
}

// Direction is the rounding mode every arithmetic operation is
// parameterised by (spec §4.1 / §9).
type Direction uint8

const (
	// DirIgnore performs the operation without any rounding guarantee; only
	// meaningful for exact types where there is nothing to round.
	DirIgnore Direction = iota
	// DirUp rounds the true mathematical result towards +Infinity, so the
	// stored value never underestimates it (used by every closure
	// relaxation step and every strong-coherence halving).
	DirUp
	// DirDown rounds the true mathematical result towards -Infinity.
	DirDown
	// DirNotNeeded marks an operation (e.g. negation used to read back a
	// lower bound from an upper bound) whose result is exact regardless of
	// the underlying policy, so no rounding decision is needed.
	DirNotNeeded
	// DirCheck asks the operation to detect whether rounding occurred and
	// report it via the returned Relation instead of silently committing.
	DirCheck
	// DirStrictRelation asks for the comparison-flavoured result relation
	// (V_LT / V_GT rather than V_LGE) when the two sides are compared.
	DirStrictRelation
)

// Relation is the result classification returned by every N operation,
// telling the caller the exact relationship between the value stored in
// `to` and the true mathematical result of the operation.
type Relation uint8

const (
	VEQ Relation = iota
	VLT
	VGT
	VLGE // stored value is an over/under-approximation; true relation unknown beyond "less-or-greater-or-equal"
	VEmpty
	VEQPlusInf
	VEQMinusInf
	VLTPlusInf
	VGTMinusInf
)

// String renders r for diagnostics and test failure messages.
func (r Relation) String() string {
	switch r {
	case VEQ:
		return "V_EQ"
	case VLT:
		return "V_LT"
	case VGT:
		return "V_GT"
	case VLGE:
		return "V_LGE"
	case VEmpty:
		return "V_EMPTY"
	case VEQPlusInf:
		return "V_EQ_PLUS_INF"
	case VEQMinusInf:
		return "V_EQ_MINUS_INF"
	case VLTPlusInf:
		return "V_LT_PLUS_INF"
	case VGTMinusInf:
		return "V_GT_MINUS_INF"
	default:
		return fmt.Sprintf("Relation(%d)", uint8(r))
	}
}

// PlusInfinity returns +Inf.
func PlusInfinity() Ext { return Ext{k: kindPlusInf} }

// MinusInfinity returns -Inf.
func MinusInfinity() Ext { return Ext{k: kindMinusInf} }

// NaN returns the not-a-number value.
func NaN() Ext { return Ext{k: kindNaN} }

// Zero returns the finite value 0.
func Zero() Ext { return Ext{} }

// FromInt64 builds a finite Ext from an int64.
func FromInt64(n int64) Ext {
	var e Ext
	e.v.SetInt64(n)
	return e
}

// FromBigInt builds a finite Ext from a *big.Int.
func FromBigInt(n *big.Int) Ext {
	var e Ext
	e.v.SetInt(n)
	return e
}

// FromRat builds a finite Ext from a *big.Rat (copied, not aliased).
func FromRat(r *big.Rat) Ext {
	var e Ext
	e.v.Set(r)
	return e
}

// FromFrac builds a finite Ext equal to num/den. den must be non-zero.
func FromFrac(num, den int64) (Ext, error) {
	if den == 0 {
		return Ext{}, ErrZeroDenominator
	}
	var e Ext
	e.v.SetFrac64(num, den)
	return e, nil
}
