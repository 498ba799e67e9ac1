// SPDX-License-Identifier: MIT
package bds

// statusKind is the BD_Shape status's principal, mutually-exclusive flag
// (spec §3, §9: "Model Status as a dense tagged variant, not a bitset, so
// that 'empty' mutually excludes 'closed' by construction").
type statusKind uint8

const (
	kindZeroDimUniverse statusKind = iota
	kindEmpty
	kindGeneric
)

// Status is the BD_Shape status word: a principal flag (zero-dim-universe,
// empty, or generic) plus, only when generic, the refinement flags closed
// and reduced (spec §3: "zero-dim-universe implies ... no other flag;
// empty implies no closure flag").
type Status struct {
	kind    statusKind
	closed  bool
	reduced bool
}

// zeroDimUniverseStatus returns the status of the (unique) 0-dimensional
// universe shape.
func zeroDimUniverseStatus() Status { return Status{kind: kindZeroDimUniverse} }

// emptyStatus returns the status of an empty shape.
func emptyStatus() Status { return Status{kind: kindEmpty} }

// genericStatus returns a generic (non-empty, not necessarily closed) status.
func genericStatus(closed, reduced bool) Status {
	return Status{kind: kindGeneric, closed: closed, reduced: reduced && closed}
}

// IsZeroDimUniverse reports whether this is the 0-dimensional universe.
func (s Status) IsZeroDimUniverse() bool { return s.kind == kindZeroDimUniverse }

// IsEmpty reports whether the shape is empty.
func (s Status) IsEmpty() bool { return s.kind == kindEmpty }

// IsClosed reports whether the shape's matrix is shortest-path closed.
// Zero-dim-universe is trivially closed; empty is never considered closed
// (spec §3: "empty implies no closure flag").
func (s Status) IsClosed() bool {
	return s.kind == kindZeroDimUniverse || (s.kind == kindGeneric && s.closed)
}

// IsReduced reports whether the shape's matrix is strongly reduced
// (redundant entries removed).
func (s Status) IsReduced() bool {
	return s.kind == kindGeneric && s.reduced
}

// withClosed returns a copy of s with the closed flag set/cleared; has no
// effect on zero-dim-universe or empty statuses.
func (s Status) withClosed(closed bool) Status {
	if s.kind != kindGeneric {
		return s
	}
	return genericStatus(closed, closed && s.reduced)
}

// withReduced returns a copy of s with the reduced flag set/cleared.
func (s Status) withReduced(reduced bool) Status {
	if s.kind != kindGeneric {
		return s
	}
	return genericStatus(s.closed, reduced)
}
