package rational

import (
	"fmt"
	"math/big"
	"strings"
)

// AssignR is the universal cross-type conversion entry point (spec §4.1):
// "assign_r(to, from, dir) cross-type with explicit direction is the
// universal conversion". Since this module has a single Ext representation
// (big.Rat-backed), AssignR degenerates to Assign, but keeps the name the
// spec's interface contract expects so callers written against multiple N
// policies compile unchanged against this one.
func AssignR(from Ext, dir Direction) (Ext, Relation) {
	return Assign(from, dir)
}

// Rat returns the underlying *big.Rat for a finite Ext, or nil for
// infinities/NaN. The returned value is a defensive copy.
func (e Ext) Rat() *big.Rat {
	if e.k != kindFinite {
		return nil
	}
	return new(big.Rat).Set(&e.v)
}

// String renders e in canonical textual form used by the ASCII dump format
// (spec §6): "+inf" / "-inf" / "nan" for non-finite values, otherwise an
// integer literal when the denominator is 1, or "p/q" in lowest terms.
func (e Ext) String() string {
	switch e.k {
	case kindPlusInf:
		return "+inf"
	case kindMinusInf:
		return "-inf"
	case kindNaN:
		return "nan"
	default:
		if e.v.IsInt() {
			return e.v.Num().String()
		}
		return e.v.RatString()
	}
}

// Parse parses the canonical textual form produced by String back into an
// Ext, the inverse used by ascicodec's load routine.
func Parse(s string) (Ext, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "+inf":
		return PlusInfinity(), nil
	case "-inf":
		return MinusInfinity(), nil
	case "nan":
		return NaN(), nil
	}
	var e Ext
	if _, ok := e.v.SetString(s); !ok {
		return Ext{}, fmt.Errorf("rational: cannot parse %q as Ext", s)
	}
	return e, nil
}
