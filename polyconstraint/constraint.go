// Package polyconstraint implements the C/G layer (spec §3, §4.2): tagged
// wrappers over linexpr.LinExpr — Constraint (equality / non-strict / strict
// inequality) and Generator (line / ray / point / closure-point) — plus the
// bounded-difference and octagonal-difference extraction routines the DBM
// and octagon engines use to decide whether a constraint can be folded into
// their matrix representation at all.
package polyconstraint

import (
	"math/big"

	"github.com/katalvlaran/polycore/linexpr"
)

// Kind classifies a Constraint's relation, mirroring the three relations a
// linear expression can carry (spec §3): LE = 0, LE >= 0, LE > 0.
type Kind uint8

const (
	EQ Kind = iota // LE = 0
	GE             // LE >= 0
	GT             // LE > 0
)

// Constraint is a canonicalized linear expression tagged with its relation.
// Invariant (spec §3): the expression is GCD-normalized and, for EQ only,
// its leading non-zero coefficient has canonical sign (positive); GE/GT
// keep whatever sign the caller supplied, since flipping either would
// negate the half-space they denote.
type Constraint struct {
	expr *linexpr.LinExpr
	kind Kind
}

// NewConstraint builds a Constraint from expr and kind, canonicalizing expr
// (GCD normalization, plus leading-coefficient sign for EQ only) per spec §3.
func NewConstraint(expr *linexpr.LinExpr, kind Kind) *Constraint {
	norm := expr.GCDNormalize()
	if kind == EQ {
		norm = canonicalizeSign(norm)
	}
	return &Constraint{expr: norm, kind: kind}
}

// canonicalizeSign flips the sign of e (and, for EQ, only the sign) so that
// its leading (lowest-index) non-zero coefficient is positive; GE cannot be
// sign-flipped without changing its meaning, so only EQ is normalized here,
// matching PPL's convention that only equalities have a canonical sign.
func canonicalizeSign(e *linexpr.LinExpr) *linexpr.LinExpr {
	terms := e.Terms()
	if len(terms) == 0 {
		return e
	}
	if terms[0].Coeff.Sign() < 0 {
		return e.Neg()
	}
	return e
}

// Expression returns the constraint's underlying linear expression.
func (c *Constraint) Expression() *linexpr.LinExpr { return c.expr }

// Kind returns the constraint's relation.
func (c *Constraint) Kind() Kind { return c.kind }

// IsStrict reports whether this is a strict (>) constraint; strict
// constraints are forbidden in the closed-shape contract of BD_Shape and
// Octagonal_Shape (spec §4.2).
func (c *Constraint) IsStrict() bool { return c.kind == GT }

// IsEquality reports whether this is an equality constraint.
func (c *Constraint) IsEquality() bool { return c.kind == EQ }

// SpaceDimension delegates to the underlying expression.
func (c *Constraint) SpaceDimension() int { return c.expr.SpaceDimension() }

// GeneratorKind classifies a Generator (spec §3).
type GeneratorKind uint8

const (
	Line GeneratorKind = iota
	Ray
	Point
	ClosurePoint
)

// Generator is a tagged ⟨LE, kind, divisor⟩ triple. For Line/Ray the
// inhomogeneous term is 0 and divisor is 0. For Point/ClosurePoint the
// divisor d is strictly positive and the geometric point is (a_0/d, ...).
type Generator struct {
	expr    *linexpr.LinExpr
	kind    GeneratorKind
	divisor *big.Int
}

// NewLine builds a line generator from direction expr (inhomogeneous term
// must be 0; callers typically build expr via linexpr.NewVariable).
func NewLine(expr *linexpr.LinExpr) *Generator {
	e := expr.Clone()
	e.SetInhomogeneous(big.NewInt(0))
	return &Generator{expr: e, kind: Line, divisor: big.NewInt(0)}
}

// NewRay builds a ray generator from direction expr (inhomogeneous term
// forced to 0, same convention as NewLine).
func NewRay(expr *linexpr.LinExpr) *Generator {
	e := expr.Clone()
	e.SetInhomogeneous(big.NewInt(0))
	return &Generator{expr: e, kind: Ray, divisor: big.NewInt(0)}
}

// NewPoint builds a point generator at coordinates expr/divisor. divisor
// must be strictly positive; if a caller computes a negative divisor it
// must negate both expr and divisor before calling (spec §3 invariant:
// "points are stored with positive divisor").
func NewPoint(expr *linexpr.LinExpr, divisor *big.Int) (*Generator, error) {
	return newDivisorGenerator(expr, divisor, Point)
}

// NewClosurePoint builds a closure-point generator, identical in shape to
// NewPoint but tagged ClosurePoint (used to represent the topological
// closure of an open generator system).
func NewClosurePoint(expr *linexpr.LinExpr, divisor *big.Int) (*Generator, error) {
	return newDivisorGenerator(expr, divisor, ClosurePoint)
}

func newDivisorGenerator(expr *linexpr.LinExpr, divisor *big.Int, kind GeneratorKind) (*Generator, error) {
	if divisor.Sign() <= 0 {
		return nil, ErrNonPositiveDivisor
	}
	return &Generator{expr: expr.Clone(), kind: kind, divisor: new(big.Int).Set(divisor)}, nil
}

// Expression returns the generator's underlying linear expression.
func (g *Generator) Expression() *linexpr.LinExpr { return g.expr }

// Kind returns the generator's kind.
func (g *Generator) Kind() GeneratorKind { return g.kind }

// Divisor returns the generator's divisor (0 for Line/Ray).
func (g *Generator) Divisor() *big.Int { return new(big.Int).Set(g.divisor) }

// IsLineOrRay reports whether g is a direction (Line or Ray) rather than a
// located point (Point or ClosurePoint).
func (g *Generator) IsLineOrRay() bool { return g.kind == Line || g.kind == Ray }
