// SPDX-License-Identifier: MIT
package termination

import "github.com/katalvlaran/polycore/polyconstraint"

// Loop is a one-system loop description for the MS encoding (spec §4.9:
// "either a single system over unprimed + primed variables"): Dim program
// variables x_0..x_{Dim-1}, and Constraints is a conjunction over the 2*Dim
// combined variables, unprimed x at indices [0,Dim) and primed x' at
// indices [Dim,2*Dim).
//
// A constraint that never mentions any primed variable is a pre-state
// (invariant) fact; TerminationTestMS derives the "bounded-below" half
// system (spec §4.9) by collecting exactly those rows, since this encoding
// takes a single combined system rather than two caller-partitioned ones
// (contrast with TerminationTestPR's cs_before/cs_after signature, spec §6
// External Interfaces).
type Loop struct {
	Dim         int
	Constraints []*polyconstraint.Constraint
}

// NewLoop builds a Loop, deferring all validation to the encoding that
// consumes it.
func NewLoop(dim int, constraints []*polyconstraint.Constraint) *Loop {
	return &Loop{Dim: dim, Constraints: constraints}
}

// splitPreState partitions l.Constraints into rows that only mention
// unprimed variables (pre-state facts) and the full set (the transition
// relation), per this package's Open Question decision recorded in
// DESIGN.md: the pre-state system is the syntactic subset of the combined
// system with no primed coefficient, not a true polyhedral projection
// (which would require the hull collaborator this package treats as
// optional).
func (l *Loop) splitPreState() (before, transition []*polyconstraint.Constraint) {
	for _, c := range l.Constraints {
		transition = append(transition, c)
		if mentionsOnlyUnprimed(c, l.Dim) {
			before = append(before, c)
		}
	}
	return before, transition
}

func mentionsOnlyUnprimed(c *polyconstraint.Constraint, dim int) bool {
	for _, tm := range c.Expression().Terms() {
		if tm.Var >= dim {
			return false
		}
	}
	return true
}
