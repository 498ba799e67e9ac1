// SPDX-License-Identifier: MIT
package simplex

import (
	"fmt"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// LPProblem is a single linear program over exact rationals: a constraint
// system plus an objective and optimization mode, advancing through the
// Status state machine under Solve (spec §4.8). The zero value is not
// usable; construct with NewProblem.
type LPProblem struct {
	spaceDim    int
	constraints []*polyconstraint.Constraint
	objective   *linexpr.LinExpr
	mode        Mode
	opts        Options

	status Status
	tab    *tableau
}

// NewProblem returns an LPProblem over spaceDim variables (x_0..x_{spaceDim-1}),
// objective initially the zero constant, mode initially Maximize.
func NewProblem(spaceDim int, opts ...Option) *LPProblem {
	return &LPProblem{
		spaceDim:  spaceDim,
		objective: linexpr.NewConstant(0),
		opts:      applyOptions(opts),
	}
}

// AddConstraint appends c to the problem, invalidating any previous Solve
// result (spec §4.8: mutating the system resets status to UNSOLVED).
func (p *LPProblem) AddConstraint(c *polyconstraint.Constraint) error {
	if p == nil {
		return ErrNilProblem
	}
	if c.SpaceDimension() > p.spaceDim {
		return ErrDimensionMismatch
	}
	if c.IsStrict() {
		return ErrStrictInequality
	}
	p.constraints = append(p.constraints, c)
	p.resetSolve()
	return nil
}

// AddConstraints appends every element of cs via AddConstraint, stopping at
// the first error.
func (p *LPProblem) AddConstraints(cs []*polyconstraint.Constraint) error {
	if p == nil {
		return ErrNilProblem
	}
	for i, c := range cs {
		if err := p.AddConstraint(c); err != nil {
			return fmt.Errorf("simplex: constraint %d: %w", i, err)
		}
	}
	return nil
}

// SetObjectiveFunction replaces the objective expression.
func (p *LPProblem) SetObjectiveFunction(e *linexpr.LinExpr) error {
	if p == nil {
		return ErrNilProblem
	}
	if e.SpaceDimension() > p.spaceDim {
		return ErrDimensionMismatch
	}
	p.objective = e.Clone()
	p.resetSolve()
	return nil
}

// SetOptimizationMode selects MAX or MIN (spec §6).
func (p *LPProblem) SetOptimizationMode(mode Mode) error {
	if p == nil {
		return ErrNilProblem
	}
	p.mode = mode
	p.resetSolve()
	return nil
}

func (p *LPProblem) resetSolve() {
	p.status = Unsolved
	p.tab = nil
}

// Status reports the problem's current state without (re)solving.
func (p *LPProblem) Status() Status {
	if p == nil {
		return Unsolved
	}
	return p.status
}

// Solve drives the problem through phase 1 (feasibility) and, unless the
// caller only needed feasibility, phase 2 (optimization), returning the
// terminal Status (spec §4.8's state machine).
func (p *LPProblem) Solve() (Status, error) {
	if p == nil {
		return Unsolved, ErrNilProblem
	}
	if p.status != Unsolved {
		return p.status, nil
	}

	tab, trivial, err := buildTableau(p.spaceDim, p.constraints, p.opts.maxColumns)
	if err != nil {
		return Unsolved, err
	}
	if trivial == Unsatisfiable {
		p.status = Unsatisfiable
		return p.status, nil
	}
	p.tab = tab

	excluded1 := make([]bool, tab.numCols)
	obj1 := phase1Objective(tab)
	if _, err := runSimplexPhase(tab, obj1, excluded1, &p.opts, true); err != nil {
		return p.status, err
	}
	if !rational.Equal(phase1Value(obj1, tab.rhsCol()), rational.Zero()) {
		p.status = Unsatisfiable
		return p.status, nil
	}
	p.status = PartiallySatisfiable

	excluded2 := make([]bool, tab.numCols)
	copy(excluded2, tab.isArtificial)
	obj2 := phase2Objective(tab, p.objective, p.mode)
	unbounded, err := runSimplexPhase(tab, obj2, excluded2, &p.opts, false)
	if err != nil {
		return p.status, err
	}
	if unbounded {
		p.status = Unbounded
		return p.status, nil
	}
	p.status = Optimized
	return p.status, nil
}

// IsSatisfiable reports feasibility, running only phase 1's worth of work
// if the problem has not already been fully solved.
func (p *LPProblem) IsSatisfiable() (bool, error) {
	if p == nil {
		return false, ErrNilProblem
	}
	switch p.status {
	case Satisfiable, PartiallySatisfiable, Optimized, Unbounded:
		return true, nil
	case Unsatisfiable:
		return false, nil
	}
	status, err := p.solvePhase1Only()
	if err != nil {
		return false, err
	}
	return status != Unsatisfiable, nil
}

func (p *LPProblem) solvePhase1Only() (Status, error) {
	tab, trivial, err := buildTableau(p.spaceDim, p.constraints, p.opts.maxColumns)
	if err != nil {
		return Unsolved, err
	}
	if trivial == Unsatisfiable {
		p.status = Unsatisfiable
		return p.status, nil
	}
	p.tab = tab

	excluded1 := make([]bool, tab.numCols)
	obj1 := phase1Objective(tab)
	if _, err := runSimplexPhase(tab, obj1, excluded1, &p.opts, true); err != nil {
		return p.status, err
	}
	if !rational.Equal(phase1Value(obj1, tab.rhsCol()), rational.Zero()) {
		p.status = Unsatisfiable
	} else {
		p.status = Satisfiable
	}
	return p.status, nil
}

// phase2Objective builds the row minimizing the internal (sign-adjusted so
// Maximize becomes "minimize the negation") objective, reduced against the
// basis phase 1 left behind.
func phase2Objective(t *tableau, objective *linexpr.LinExpr, mode Mode) []rational.Ext {
	obj := make([]rational.Ext, t.numCols)
	sign := int64(1)
	if mode == Maximize {
		sign = -1
	}
	signExt := rational.FromInt64(sign)
	for _, tm := range objective.Terms() {
		c := rational.FromBigInt(tm.Coeff)
		signed, _ := rational.Mul(c, signExt, rational.DirIgnore)
		negSigned, _ := rational.Neg(signed, rational.DirNotNeeded)
		obj[2*tm.Var] = signed
		obj[2*tm.Var+1] = negSigned
	}
	reduceObjective(t, obj)
	return obj
}

// FeasiblePoint returns a point generator satisfying every added
// constraint, solving phase 1 first if necessary.
func (p *LPProblem) FeasiblePoint() (*polyconstraint.Generator, error) {
	if p == nil {
		return nil, ErrNilProblem
	}
	sat, err := p.IsSatisfiable()
	if err != nil {
		return nil, err
	}
	if !sat {
		return nil, ErrUnsatisfiable
	}
	return pointGenerator(p.pointValues())
}

// OptimizingPoint returns the generator at which Solve's optimum is
// attained. Requires a prior Solve that reached OPTIMIZED.
func (p *LPProblem) OptimizingPoint() (*polyconstraint.Generator, error) {
	if p == nil {
		return nil, ErrNilProblem
	}
	if p.status == Unsolved {
		if _, err := p.Solve(); err != nil {
			return nil, err
		}
	}
	switch p.status {
	case Unsatisfiable:
		return nil, ErrUnsatisfiable
	case Unbounded:
		return nil, ErrUnbounded
	case Optimized:
		return pointGenerator(p.pointValues())
	default:
		return nil, ErrNotSolved
	}
}

// OptimalValue returns the objective's value at OptimizingPoint, computed
// by evaluating the original objective directly at the witness so the
// reported optimum always matches EvaluateObjectiveFunction applied to the
// returned point (spec's reporting-consistency property).
func (p *LPProblem) OptimalValue() (rational.Ext, error) {
	if p == nil {
		return rational.Zero(), ErrNilProblem
	}
	g, err := p.OptimizingPoint()
	if err != nil {
		return rational.Zero(), err
	}
	return p.EvaluateObjectiveFunction(g)
}

// EvaluateObjectiveFunction evaluates the problem's objective at g's
// coordinates (spec §6 evaluate_objective_function).
func (p *LPProblem) EvaluateObjectiveFunction(g *polyconstraint.Generator) (rational.Ext, error) {
	if p == nil {
		return rational.Zero(), ErrNilProblem
	}
	if g.Divisor().Sign() <= 0 {
		return rational.Zero(), ErrMismatchedDivisor
	}
	divisor := rational.FromBigInt(g.Divisor())
	total := rational.FromBigInt(p.objective.Inhomogeneous())
	for _, tm := range p.objective.Terms() {
		coordNum := rational.FromBigInt(g.Expression().Coefficient(tm.Var))
		coord, _, err := rational.Div(coordNum, divisor, rational.DirIgnore)
		if err != nil {
			return rational.Zero(), err
		}
		coeff := rational.FromBigInt(tm.Coeff)
		term, _ := rational.Mul(coeff, coord, rational.DirIgnore)
		total, _ = rational.Add(total, term, rational.DirIgnore)
	}
	return total, nil
}
