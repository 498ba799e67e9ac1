// SPDX-License-Identifier: MIT
package octagon

import (
	"math/big"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// forgetVariable resets every constraint mentioning v (both its positive
// and negative literal) to +Inf, the first step of every non-trivial
// affine_image/preimage (spec §4.4). It clears the closed flag, so the
// StrongClosure that callers run after writing new cells for v actually
// re-closes the matrix.
func (s *OctagonalShape) forgetVariable(v int) {
	n := s.m.order
	s.status = s.status.withClosed(false).withReduced(false)
	pos, neg := 2*v, 2*v+1
	for _, lit := range []int{pos, neg} {
		for k := 0; k < n; k++ {
			if k == lit {
				continue
			}
			s.m.set(lit, k, rational.PlusInfinity())
			s.m.set(k, lit, rational.PlusInfinity())
		}
	}
}

// AffineImage assigns v <- e/d in place (spec §4.4), dispatching on e's
// shape into the same three regimes bds.AffineImage uses, generalized to
// the OM's two literals per variable.
func (s *OctagonalShape) AffineImage(v int, e *linexpr.LinExpr, d *big.Int) error {
	if s == nil {
		return ErrNilShape
	}
	if d.Sign() <= 0 {
		return ErrZeroDenominator
	}
	if v < 0 || v >= s.SpaceDimension() {
		return ErrInvalidVariable
	}
	if s.status.IsEmpty() || s.status.IsZeroDimUniverse() {
		return nil
	}
	if err := s.StrongClosure(); err != nil {
		return err
	}
	if s.status.IsEmpty() {
		return nil
	}
	terms := e.Terms()
	switch len(terms) {
	case 0:
		return s.affineImageConstant(v, e.Inhomogeneous(), d)
	case 1:
		t := terms[0]
		if t.Var == v && t.Coeff.CmpAbs(d) == 0 {
			return s.affineImageUnary(v, t.Coeff, e.Inhomogeneous(), d)
		}
		if t.Var != v && t.Coeff.CmpAbs(d) == 0 {
			return s.affineImageBinary(v, t.Var, t.Coeff, e.Inhomogeneous(), d)
		}
		return s.affineImageGeneral(v, e, d)
	default:
		return s.affineImageGeneral(v, e, d)
	}
}

// affineImageConstant handles v <- b/d: forget v, then record
// m[2v+1][2v] := 2b/d and m[2v][2v+1] := -2b/d (spec §4.4 regime 1).
func (s *OctagonalShape) affineImageConstant(v int, b, d *big.Int) error {
	s.forgetVariable(v)
	twice := new(big.Rat).SetFrac(b, d)
	twice.Mul(twice, big.NewRat(2, 1))
	pos, neg := 2*v, 2*v+1
	s.m.set(neg, pos, rational.FromRat(twice))
	s.m.set(pos, neg, rational.FromRat(new(big.Rat).Neg(twice)))
	return s.StrongClosure()
}

// affineImageUnary handles v <- (+-d*v + b)/d: translate every row/column
// touching v by b/d, swapping v's two literals first when coeff == -d
// (spec §4.4 regime 2).
func (s *OctagonalShape) affineImageUnary(v int, coeff, b, d *big.Int) error {
	pos, neg := 2*v, 2*v+1
	if coeff.Sign() < 0 {
		for k := 0; k < s.m.order; k++ {
			if k == pos || k == neg {
				continue
			}
			a1, b1 := s.m.at(pos, k), s.m.at(k, pos)
			a2, b2 := s.m.at(neg, k), s.m.at(k, neg)
			s.m.set(pos, k, a2)
			s.m.set(k, pos, b2)
			s.m.set(neg, k, a1)
			s.m.set(k, neg, b1)
		}
	}
	shift := rational.FromRat(new(big.Rat).SetFrac(b, d))
	negShift, _ := rational.Neg(shift, rational.DirNotNeeded)
	n := s.m.order
	for k := 0; k < n; k++ {
		if k == pos || k == neg {
			continue
		}
		if v1 := s.m.at(pos, k); !v1.IsPlusInfinity() {
			nv, _ := rational.Add(v1, shift, rational.DirUp)
			s.m.set(pos, k, nv)
		}
		if v2 := s.m.at(k, pos); !v2.IsPlusInfinity() {
			nv, _ := rational.Add(v2, negShift, rational.DirUp)
			s.m.set(k, pos, nv)
		}
		if v3 := s.m.at(neg, k); !v3.IsPlusInfinity() {
			nv, _ := rational.Add(v3, negShift, rational.DirUp)
			s.m.set(neg, k, nv)
		}
		if v4 := s.m.at(k, neg); !v4.IsPlusInfinity() {
			nv, _ := rational.Add(v4, shift, rational.DirUp)
			s.m.set(k, neg, nv)
		}
	}
	s.status = s.status.withReduced(false)
	return s.StrongClosure()
}

// affineImageBinary handles v <- (+-d*w + b)/d with w != v: forget v,
// record the single binary cell v-w==b/d (coeff>0) or v+w==b/d (coeff<0)
// — both representable exactly in an octagon, unlike the DBM/BDS case
// (spec §4.4 regime 2, "If the variable is w != v").
func (s *OctagonalShape) affineImageBinary(v, w int, coeff, b, d *big.Int) error {
	s.forgetVariable(v)
	val := new(big.Rat).SetFrac(b, d)
	vPos, vNeg := 2*v, 2*v+1
	wPos, wNeg := 2*w, 2*w+1
	e := rational.FromRat(val)
	neg, _ := rational.Neg(e, rational.DirNotNeeded)
	if coeff.Sign() > 0 {
		// v - w == val
		s.m.set(wPos, vPos, e)
		s.m.set(vPos, wPos, neg)
		s.m.set(vNeg, wNeg, e)
		s.m.set(wNeg, vNeg, neg)
	} else {
		// v + w == val
		s.m.set(wNeg, vPos, e)
		s.m.set(vNeg, wPos, e)
		s.m.set(vPos, wNeg, neg)
		s.m.set(wPos, vNeg, neg)
	}
	return s.StrongClosure()
}

// affineImageGeneral handles the general case: forget v, then deduce
// upper/lower bounds of v from each contributing variable's recorded
// bound (spec §4.4 regime 3).
func (s *OctagonalShape) affineImageGeneral(v int, e *linexpr.LinExpr, d *big.Int) error {
	s.forgetVariable(v)
	upper, lower, okUpper, okLower := s.evaluateExpr(e, d)
	pos, neg := 2*v, 2*v+1
	if okUpper {
		twice := new(big.Rat).Mul(upper.Rat(), big.NewRat(2, 1))
		s.m.set(neg, pos, rational.FromRat(twice))
	}
	if okLower {
		twice := new(big.Rat).Mul(lower.Rat(), big.NewRat(2, 1))
		s.m.set(pos, neg, rational.FromRat(new(big.Rat).Neg(twice)))
	}
	return s.StrongClosure()
}

// evaluateExpr computes sound upper/lower bounds for e/d over the already
// strongly closed shape.
func (s *OctagonalShape) evaluateExpr(e *linexpr.LinExpr, d *big.Int) (upper, lower rational.Ext, okUpper, okLower bool) {
	upperSum := rational.FromRat(new(big.Rat).SetFrac(e.Inhomogeneous(), d))
	lowerSum := upperSum
	okUpper, okLower = true, true
	for _, t := range e.Terms() {
		pos, neg := 2*t.Var, 2*t.Var+1
		coeff := new(big.Rat).SetFrac(t.Coeff, d)
		upCell := s.m.at(neg, pos)
		downCell := s.m.at(pos, neg)
		var up, lo rational.Ext
		if upCell.IsFinite() {
			up = rational.FromRat(new(big.Rat).Quo(upCell.Rat(), big.NewRat(2, 1)))
		}
		if downCell.IsFinite() {
			half := new(big.Rat).Quo(downCell.Rat(), big.NewRat(2, 1))
			lo = rational.FromRat(new(big.Rat).Neg(half))
		}
		if coeff.Sign() > 0 {
			if !upCell.IsFinite() {
				okUpper = false
			} else if okUpper {
				c, _ := rational.Mul(rational.FromRat(coeff), up, rational.DirUp)
				upperSum, _ = rational.Add(upperSum, c, rational.DirUp)
			}
			if !downCell.IsFinite() {
				okLower = false
			} else if okLower {
				c, _ := rational.Mul(rational.FromRat(coeff), lo, rational.DirDown)
				lowerSum, _ = rational.Add(lowerSum, c, rational.DirDown)
			}
		} else {
			if !downCell.IsFinite() {
				okUpper = false
			} else if okUpper {
				c, _ := rational.Mul(rational.FromRat(coeff), lo, rational.DirUp)
				upperSum, _ = rational.Add(upperSum, c, rational.DirUp)
			}
			if !upCell.IsFinite() {
				okLower = false
			} else if okLower {
				c, _ := rational.Mul(rational.FromRat(coeff), up, rational.DirDown)
				lowerSum, _ = rational.Add(lowerSum, c, rational.DirDown)
			}
		}
	}
	return upperSum, lowerSum, okUpper, okLower
}

// AffinePreimage is the inverse of AffineImage (spec §4.4): if v appears in
// e it applies the inverse affine map; otherwise it refines with d*v == e
// and forgets v.
func (s *OctagonalShape) AffinePreimage(v int, e *linexpr.LinExpr, d *big.Int) error {
	if s == nil {
		return ErrNilShape
	}
	if d.Sign() <= 0 {
		return ErrZeroDenominator
	}
	if v < 0 || v >= s.SpaceDimension() {
		return ErrInvalidVariable
	}
	if coeffV := e.Coefficient(v); coeffV.Sign() != 0 {
		// v appears in e: apply the inverse map v <- (d*v - rest)/coeffV,
		// where rest is e without its v term; a negative coeffV is moved into
		// the numerator so the denominator stays positive.
		rest := e.Clone()
		_ = rest.SetCoefficient(v, big.NewInt(0))
		vExpr, _ := linexpr.NewVariable(v)
		num, den := vExpr.Scale(d).Add(rest.Neg()), new(big.Int).Set(coeffV)
		if den.Sign() < 0 {
			num, den = num.Neg(), den.Neg(den)
		}
		return s.AffineImage(v, num, den)
	}
	c, _ := linexpr.NewVariable(v)
	rel := c.Scale(d).Add(e.Neg())
	if err := s.RefineWithConstraint(polyconstraint.NewConstraint(rel, polyconstraint.EQ)); err != nil {
		return err
	}
	s.forgetVariable(v)
	return s.StrongClosure()
}

// GeneralizedAffineImage extends AffineImage to inequalities (spec §6): kind
// GE records only the lower bound of e/d, EQ records both, and anything else
// (the package's stand-in for <=) records only the upper bound.
func (s *OctagonalShape) GeneralizedAffineImage(v int, kind polyconstraint.Kind, e *linexpr.LinExpr, d *big.Int) error {
	if s == nil {
		return ErrNilShape
	}
	if d.Sign() <= 0 {
		return ErrZeroDenominator
	}
	if v < 0 || v >= s.SpaceDimension() {
		return ErrInvalidVariable
	}
	if s.status.IsEmpty() || s.status.IsZeroDimUniverse() {
		return nil
	}
	if err := s.StrongClosure(); err != nil {
		return err
	}
	if s.status.IsEmpty() {
		return nil
	}
	upper, lower, okUpper, okLower := s.evaluateExpr(e, d)
	s.forgetVariable(v)
	pos, neg := 2*v, 2*v+1
	switch kind {
	case polyconstraint.GE:
		if okLower {
			twice := new(big.Rat).Mul(lower.Rat(), big.NewRat(2, 1))
			s.m.set(pos, neg, rational.FromRat(new(big.Rat).Neg(twice)))
		}
	case polyconstraint.EQ:
		if okLower {
			twice := new(big.Rat).Mul(lower.Rat(), big.NewRat(2, 1))
			s.m.set(pos, neg, rational.FromRat(new(big.Rat).Neg(twice)))
		}
		if okUpper {
			twice := new(big.Rat).Mul(upper.Rat(), big.NewRat(2, 1))
			s.m.set(neg, pos, rational.FromRat(twice))
		}
	default:
		if okUpper {
			twice := new(big.Rat).Mul(upper.Rat(), big.NewRat(2, 1))
			s.m.set(neg, pos, rational.FromRat(twice))
		}
	}
	return s.StrongClosure()
}

// GeneralizedAffineImageExpr is the expression-form of GeneralizedAffineImage
// (spec §6): lhs relsym rhs replaces the usual single variable with a
// general expression. It isolates the highest-indexed variable in lhs
// (solving coeff*x_v + rest relsym rhs for x_v, flipping the relation if
// coeff is negative) and delegates to the variable-form; a constant lhs has
// no variable to assign, so it is simply refined in directly instead.
func (s *OctagonalShape) GeneralizedAffineImageExpr(lhs *linexpr.LinExpr, kind polyconstraint.Kind, rhs *linexpr.LinExpr) error {
	if s == nil {
		return ErrNilShape
	}
	v, coeff, rest := isolateLastVariable(lhs)
	if v == -1 {
		return s.RefineWithConstraint(relationConstraint(kind, lhs, rhs))
	}
	newRhs := rhs.Add(rest.Neg())
	newKind := kind
	if coeff.Sign() < 0 {
		newKind = flipGeneralizedKind(kind)
	}
	return s.GeneralizedAffineImage(v, newKind, newRhs, new(big.Int).Abs(coeff))
}

// boundedAffineAssign is the shared skeleton of BoundedAffineImage and
// BoundedAffinePreimage (spec §6): both introduce a fresh dimension z,
// refine it against lb_expr <= d*z <= ub_expr evaluated over the OLD space,
// then drop v and move z into v's slot. Image leaves z unconstrained (a
// fresh future value); preimage seeds it with v's own current bounds (it
// stands for v's value as already constrained by *this).
func (s *OctagonalShape) boundedAffineAssign(v int, lb, ub *linexpr.LinExpr, d *big.Int, preimage bool) error {
	if s == nil {
		return ErrNilShape
	}
	if d.Sign() <= 0 {
		return ErrZeroDenominator
	}
	if v < 0 || v >= s.SpaceDimension() {
		return ErrInvalidVariable
	}
	if s.status.IsEmpty() || s.status.IsZeroDimUniverse() {
		return nil
	}
	if err := s.StrongClosure(); err != nil {
		return err
	}
	if s.status.IsEmpty() {
		return nil
	}
	n := s.SpaceDimension()
	var grown *OctagonalShape
	if preimage {
		grown = s.Clone()
		if err := grown.ExpandSpaceDimension(v, 1); err != nil {
			return err
		}
	} else {
		var err error
		grown, err = s.Embed(1)
		if err != nil {
			return err
		}
	}
	z := n
	zExpr, err := linexpr.NewVariable(z)
	if err != nil {
		return err
	}
	if ub != nil {
		upperRel := ub.Add(zExpr.Scale(d).Neg()) // ub - d*z >= 0
		if err := grown.RefineWithConstraint(polyconstraint.NewConstraint(upperRel, polyconstraint.GE)); err != nil {
			return err
		}
	}
	if lb != nil {
		lowerRel := zExpr.Scale(d).Add(lb.Neg()) // d*z - lb >= 0
		if err := grown.RefineWithConstraint(polyconstraint.NewConstraint(lowerRel, polyconstraint.GE)); err != nil {
			return err
		}
	}
	keep := make([]int, n)
	for i := 0; i < n; i++ {
		if i == v {
			keep[i] = z
		} else {
			keep[i] = i
		}
	}
	out, err := grown.Project(keep)
	if err != nil {
		return err
	}
	*s = *out
	return nil
}

// BoundedAffineImage assigns to s the image with respect to the bounded
// affine relation lb_expr <= d*v <= ub_expr (spec §6). Pass nil for either
// bound to leave that side unconstrained.
func (s *OctagonalShape) BoundedAffineImage(v int, lb, ub *linexpr.LinExpr, d *big.Int) error {
	return s.boundedAffineAssign(v, lb, ub, d, false)
}

// BoundedAffinePreimage assigns to s the preimage with respect to the
// bounded affine relation lb_expr <= d*v <= ub_expr (spec §6). Pass nil for
// either bound to leave that side unconstrained.
func (s *OctagonalShape) BoundedAffinePreimage(v int, lb, ub *linexpr.LinExpr, d *big.Int) error {
	return s.boundedAffineAssign(v, lb, ub, d, true)
}

// flipGeneralizedKind swaps a GeneralizedAffineImage/Preimage relsym between
// its lower-bound (GE) and upper-bound (non-GE) sense; EQ is its own flip.
func flipGeneralizedKind(k polyconstraint.Kind) polyconstraint.Kind {
	switch k {
	case polyconstraint.EQ:
		return polyconstraint.EQ
	case polyconstraint.GE:
		return polyconstraint.GT
	default:
		return polyconstraint.GE
	}
}

// isolateLastVariable splits lhs into (v, coeff, rest) such that
// lhs == coeff*x_v + rest, where v is the highest-indexed variable occurring
// in lhs with a non-zero coefficient. v is -1 if lhs has no variable terms.
func isolateLastVariable(lhs *linexpr.LinExpr) (v int, coeff *big.Int, rest *linexpr.LinExpr) {
	terms := lhs.Terms()
	if len(terms) == 0 {
		return -1, nil, lhs
	}
	last := terms[len(terms)-1]
	rest = lhs.Clone()
	_ = rest.SetCoefficient(last.Var, big.NewInt(0))
	return last.Var, new(big.Int).Set(last.Coeff), rest
}

// relationConstraint builds the GE-tagged constraint expressing lhs kind rhs
// (kind GE meaning lhs>=rhs, EQ meaning lhs==rhs, anything else lhs<=rhs),
// used when an expression-form relation has no variable left to isolate.
func relationConstraint(kind polyconstraint.Kind, lhs, rhs *linexpr.LinExpr) *polyconstraint.Constraint {
	switch kind {
	case polyconstraint.EQ:
		return polyconstraint.NewConstraint(lhs.Add(rhs.Neg()), polyconstraint.EQ)
	case polyconstraint.GE:
		return polyconstraint.NewConstraint(lhs.Add(rhs.Neg()), polyconstraint.GE)
	default:
		return polyconstraint.NewConstraint(rhs.Add(lhs.Neg()), polyconstraint.GE)
	}
}

// GeneralizedAffinePreimage is the preimage counterpart of
// GeneralizedAffineImage (spec §6): if v does not occur in e, its current
// value is exactly what the relation d*v kind e constrains, so it is refined
// in directly and then forgotten; otherwise v's existing bounds are first
// copied onto a fresh dimension (ExpandSpaceDimension) standing in for "v as
// already constrained by *this", the relation is refined against that copy,
// and v is replaced by it.
func (s *OctagonalShape) GeneralizedAffinePreimage(v int, kind polyconstraint.Kind, e *linexpr.LinExpr, d *big.Int) error {
	if s == nil {
		return ErrNilShape
	}
	if d.Sign() <= 0 {
		return ErrZeroDenominator
	}
	if v < 0 || v >= s.SpaceDimension() {
		return ErrInvalidVariable
	}
	if s.status.IsEmpty() || s.status.IsZeroDimUniverse() {
		return nil
	}
	if err := s.StrongClosure(); err != nil {
		return err
	}
	if s.status.IsEmpty() {
		return nil
	}
	varExpr, err := linexpr.NewVariable(v)
	if err != nil {
		return err
	}
	if e.Coefficient(v).Sign() == 0 {
		rel := relationConstraint(kind, varExpr.Scale(d), e)
		if err := s.RefineWithConstraint(rel); err != nil {
			return err
		}
		// Close before forgetting v: closure propagates v's newly refined
		// relation into direct cells between e's variables, which
		// forgetVariable would otherwise wipe before they ever formed.
		if err := s.StrongClosure(); err != nil {
			return err
		}
		s.forgetVariable(v)
		return s.StrongClosure()
	}
	n := s.SpaceDimension()
	clone := s.Clone()
	if err := clone.ExpandSpaceDimension(v, 1); err != nil {
		return err
	}
	z := n
	zExpr, err := linexpr.NewVariable(z)
	if err != nil {
		return err
	}
	rel := relationConstraint(kind, zExpr.Scale(d), e)
	if err := clone.RefineWithConstraint(rel); err != nil {
		return err
	}
	keep := make([]int, n)
	for i := 0; i < n; i++ {
		if i == v {
			keep[i] = z
		} else {
			keep[i] = i
		}
	}
	out, err := clone.Project(keep)
	if err != nil {
		return err
	}
	*s = *out
	return nil
}

// GeneralizedAffinePreimageExpr is the expression-form of
// GeneralizedAffinePreimage (spec §6), isolating lhs's highest-indexed
// variable and delegating exactly as GeneralizedAffineImageExpr does.
func (s *OctagonalShape) GeneralizedAffinePreimageExpr(lhs *linexpr.LinExpr, kind polyconstraint.Kind, rhs *linexpr.LinExpr) error {
	if s == nil {
		return ErrNilShape
	}
	v, coeff, rest := isolateLastVariable(lhs)
	if v == -1 {
		return s.RefineWithConstraint(relationConstraint(kind, lhs, rhs))
	}
	newRhs := rhs.Add(rest.Neg())
	newKind := kind
	if coeff.Sign() < 0 {
		newKind = flipGeneralizedKind(kind)
	}
	return s.GeneralizedAffinePreimage(v, newKind, newRhs, new(big.Int).Abs(coeff))
}
