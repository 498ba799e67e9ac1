package polyconstraint

import "math/big"

// BoundedDifference is the result of a successful bounded-difference
// extraction (spec §4.2): the constraint is equivalent to
// coeff*(x_i - x_j) <= term, with coeff > 0. i == -1 denotes the fictitious
// zero variable x_0 (so i==-1,j==k encodes -coeff*x_k <= term, i.e. a lower
// bound on x_k, and i==k,j==-1 encodes coeff*x_k <= term).
type BoundedDifference struct {
	I, J  int // variable indices, or -1 for the fictitious zero variable
	Coeff *big.Int
	Term  *big.Int
}

// ExtractBoundedDifference reports whether c can be written in one of the
// forms a_k*x_k <= b, -a_k*x_k <= b, a_k*(x_i - x_j) <= b with a_k > 0
// (spec §4.2). Equalities are not decomposed here (callers decompose EQ
// into two GE calls before invoking this, per spec: "Equalities decompose
// into two inequalities"). Strict inequalities are rejected by this
// extractor's callers at the closed-shape boundary, not here: this routine
// only classifies shape, not strictness.
func ExtractBoundedDifference(c *Constraint) (BoundedDifference, error) {
	terms := c.Expression().Neg().Terms()  // LE >= 0  <=>  (-coeffs).x <= b
	term := c.Expression().Inhomogeneous() // b
	switch len(terms) {
	case 0:
		return BoundedDifference{}, ErrNotBoundedDifference
	case 1:
		t := terms[0]
		if t.Coeff.Sign() > 0 {
			return BoundedDifference{I: t.Var, J: -1, Coeff: new(big.Int).Set(t.Coeff), Term: term}, nil
		}
		neg := new(big.Int).Neg(t.Coeff)
		return BoundedDifference{I: -1, J: t.Var, Coeff: neg, Term: term}, nil
	case 2:
		a, b := terms[0], terms[1]
		if a.Coeff.Sign() > 0 && b.Coeff.Cmp(new(big.Int).Neg(a.Coeff)) == 0 {
			// a.Coeff*x_a - a.Coeff*x_b <= term  =>  I=a.Var (positive), J=b.Var
			return BoundedDifference{I: a.Var, J: b.Var, Coeff: new(big.Int).Set(a.Coeff), Term: term}, nil
		}
		if b.Coeff.Sign() > 0 && a.Coeff.Cmp(new(big.Int).Neg(b.Coeff)) == 0 {
			return BoundedDifference{I: b.Var, J: a.Var, Coeff: new(big.Int).Set(b.Coeff), Term: term}, nil
		}
		return BoundedDifference{}, ErrNotBoundedDifference
	default:
		return BoundedDifference{}, ErrNotBoundedDifference
	}
}

// OctagonalDifference is the result of a successful octagonal extraction
// (spec §4.2): coeff*(v_col - v_row) <= term, where Row/Col are already
// remapped into the octagon's 2n-indexed space (2k for +x_k, 2k+1 for
// -x_k), ready to address a single OM cell directly. For a unary
// constraint v_col - v_row is ±2x_k, so Term is twice the bound on ±x_k.
type OctagonalDifference struct {
	Row, Col int
	Coeff    *big.Int
	Term     *big.Int
}

// ExtractOctagonal reports whether c can be written as ±x_i ± x_j <= b
// (including i==j, giving ±2x_i <= b), per spec §4.2. It accepts
// everything ExtractBoundedDifference accepts, plus the two same-sign
// forms (x_i + x_j, -x_i - x_j) that are not bounded differences.
func ExtractOctagonal(c *Constraint) (OctagonalDifference, error) {
	terms := c.Expression().Neg().Terms()  // LE >= 0  <=>  (-coeffs).x <= b
	term := c.Expression().Inhomogeneous() // b
	switch len(terms) {
	case 0:
		return OctagonalDifference{}, ErrNotOctagonal
	case 1:
		t := terms[0]
		twice := new(big.Int).Lsh(term, 1)
		if t.Coeff.Sign() > 0 {
			// coeff*x_k <= term  ==  coeff*(+x_k - (-x_k)) <= 2*term, i.e. row=2k+1,col=2k
			return OctagonalDifference{Row: 2*t.Var + 1, Col: 2 * t.Var, Coeff: new(big.Int).Set(t.Coeff), Term: twice}, nil
		}
		neg := new(big.Int).Neg(t.Coeff)
		return OctagonalDifference{Row: 2 * t.Var, Col: 2*t.Var + 1, Coeff: neg, Term: twice}, nil
	case 2:
		a, b := terms[0], terms[1]
		return extractTwoVarOctagonal(a.Var, a.Coeff, b.Var, b.Coeff, term)
	default:
		return OctagonalDifference{}, ErrNotOctagonal
	}
}

func extractTwoVarOctagonal(i int, ci *big.Int, j int, cj *big.Int, term *big.Int) (OctagonalDifference, error) {
	abs := func(x *big.Int) *big.Int { return new(big.Int).Abs(x) }
	magI, magJ := abs(ci), abs(cj)
	if magI.Cmp(magJ) != 0 {
		return OctagonalDifference{}, ErrNotOctagonal
	}
	mag := magI
	posI, posJ := ci.Sign() > 0, cj.Sign() > 0
	// m[row][col] bounds (literal_col - literal_row); solving
	// ci*x_i + cj*x_j = mag*(literal_col - literal_row) for the two literal
	// signs gives literal_row = -sign(ci)*x_i, literal_col = sign(cj)*x_j.
	row := litIndex(i, !posI)
	col := litIndex(j, posJ)
	return OctagonalDifference{Row: row, Col: col, Coeff: mag, Term: term}, nil
}

// litIndex maps (variable, isPositiveLiteral) to its row/col index in the
// 2n-indexed octagon matrix: 2k for +x_k, 2k+1 for -x_k.
func litIndex(v int, positive bool) int {
	if positive {
		return 2 * v
	}
	return 2*v + 1
}

// Coherent returns the index of the complementary literal: coh(2k)=2k+1,
// coh(2k+1)=2k (spec §3: coh(k) = k XOR 1).
func Coherent(k int) int {
	return k ^ 1
}
