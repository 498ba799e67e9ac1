package rational

// IsPlusInfinity reports whether e is +Inf.
func (e Ext) IsPlusInfinity() bool { return e.k == kindPlusInf }

// IsMinusInfinity reports whether e is -Inf.
func (e Ext) IsMinusInfinity() bool { return e.k == kindMinusInf }

// IsNaN reports whether e is not-a-number.
func (e Ext) IsNaN() bool { return e.k == kindNaN }

// IsFinite reports whether e holds an exact rational value.
func (e Ext) IsFinite() bool { return e.k == kindFinite }

// IsInteger reports whether a finite e has denominator 1. Infinities and
// NaN are never integers.
func (e Ext) IsInteger() bool {
	return e.k == kindFinite && e.v.IsInt()
}

// Sgn returns -1, 0, or +1 for finite values, and the obvious extension for
// infinities (NaN has no sign and returns 0 by convention, matching the
// "comparisons with NaN are always false" rule used throughout the engine).
func (e Ext) Sgn() int {
	switch e.k {
	case kindFinite:
		return e.v.Sign()
	case kindPlusInf:
		return 1
	case kindMinusInf:
		return -1
	default:
		return 0
	}
}

// rank assigns a total order key to each kind so Cmp can compare two
// operands that are not both finite with a single integer comparison.
// -Inf < finite < +Inf; NaN is incomparable and handled separately.
func (e Ext) rank() int {
	switch e.k {
	case kindMinusInf:
		return -2
	case kindFinite:
		return 0
	case kindPlusInf:
		return 2
	default:
		return 0 // NaN: caller must special-case before using rank
	}
}

// Cmp compares a and b and reports the result as a Relation.
// NaN compares unequal (and unordered) to everything, including itself,
// returning V_LGE to signal "no ordering information".
func Cmp(a, b Ext) Relation {
	if a.k == kindNaN || b.k == kindNaN {
		return VLGE
	}
	if a.k == kindFinite && b.k == kindFinite {
		switch a.v.Cmp(&b.v) {
		case 0:
			return VEQ
		case -1:
			return VLT
		default:
			return VGT
		}
	}
	ra, rb := a.rank(), b.rank()
	switch {
	case ra == rb:
		return VEQ
	case ra < rb:
		return VLT
	default:
		return VGT
	}
}

// Less reports whether a < b under the total extended order (NaN is never
// less than anything).
func Less(a, b Ext) bool {
	r := Cmp(a, b)
	return r == VLT
}

// Equal reports whether a == b under the total extended order.
func Equal(a, b Ext) bool {
	return Cmp(a, b) == VEQ
}

// Equal is the method form of the package-level Equal, picked up
// automatically by go-cmp (and any other equality-by-method consumer) so
// that Ext compares correctly despite carrying only unexported fields.
func (e Ext) Equal(other Ext) bool {
	return Equal(e, other)
}

// Min returns the smaller of a, b under the extended order.
func Min(a, b Ext) Ext {
	if Less(b, a) {
		return b
	}
	return a
}

// Max returns the larger of a, b under the extended order.
func Max(a, b Ext) Ext {
	if Less(a, b) {
		return b
	}
	return a
}
