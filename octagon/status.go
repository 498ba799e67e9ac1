// SPDX-License-Identifier: MIT
package octagon

// statusKind mirrors bds.statusKind's dense-tagged-variant convention
// (spec §3, §9).
type statusKind uint8

const (
	kindZeroDimUniverse statusKind = iota
	kindEmpty
	kindGeneric
)

// Status is the Octagonal_Shape status word: zero-dim-universe, empty, or
// generic (with a strongly-closed refinement flag and a reduced
// refinement flag), spec §2/§3.
type Status struct {
	kind    statusKind
	closed  bool
	reduced bool
}

func zeroDimUniverseStatus() Status { return Status{kind: kindZeroDimUniverse} }
func emptyStatus() Status           { return Status{kind: kindEmpty} }

func genericStatus(closed, reduced bool) Status {
	return Status{kind: kindGeneric, closed: closed, reduced: reduced && closed}
}

func (s Status) IsZeroDimUniverse() bool { return s.kind == kindZeroDimUniverse }
func (s Status) IsEmpty() bool           { return s.kind == kindEmpty }

func (s Status) IsClosed() bool {
	return s.kind == kindZeroDimUniverse || (s.kind == kindGeneric && s.closed)
}

func (s Status) IsReduced() bool { return s.kind == kindGeneric && s.reduced }

func (s Status) withClosed(closed bool) Status {
	if s.kind != kindGeneric {
		return s
	}
	return genericStatus(closed, closed && s.reduced)
}

func (s Status) withReduced(reduced bool) Status {
	if s.kind != kindGeneric {
		return s
	}
	return genericStatus(s.closed, reduced)
}
