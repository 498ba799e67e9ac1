// SPDX-License-Identifier: MIT
// Package simplex implements the two-phase primal simplex method over
// exact rationals (spec §4.8 LP_Problem), grounded structurally on
// other_examples' thinkeridea-optimize convex/lp/simplex.go (phase-1
// artificial-variable technique, basic/non-basic bookkeeping, ratio-test
// row selection) re-expressed over rational.Ext instead of float64, and on
// tsp/bb.go's branch-and-bound state-machine bookkeeping style for the
// Status transitions driven from here.
package simplex

import (
	"math/big"

	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
)

// tableau is the dense standard-form matrix Ax=b, x>=0: one row per
// constraint, one column per split-variable part (x_k splits into x_k+ at
// column 2k and x_k- at column 2k+1, so every tableau variable is
// non-negative) plus one column per slack/surplus/artificial variable
// introduced during construction, and a trailing RHS column.
type tableau struct {
	grid         [][]rational.Ext // grid[row][col]; grid[row][rhsCol()] is the row's current RHS
	basis        []int            // basis[row] = column index of that row's current basic variable
	numCols      int
	splitDim     int // = 2*spaceDim
	isArtificial []bool
}

func (t *tableau) rhsCol() int { return t.numCols - 1 }

// buildTableau turns cs into standard form. A row with no variables is
// resolved immediately: if its constant term already satisfies the
// relation the constraint contributes nothing (dropped silently), and if
// it can never be satisfied the whole problem is UNSATISFIABLE before a
// single pivot runs (spec §4.8: trivially-false constraints short-circuit).
func buildTableau(spaceDim int, cs []*polyconstraint.Constraint, maxColumns int) (*tableau, Status, error) {
	splitDim := 2 * spaceDim

	type rawRow struct {
		coeffs []rational.Ext
		rhs    rational.Ext
		isEQ   bool
	}
	rows := make([]rawRow, 0, len(cs))
	for _, c := range cs {
		if c.IsStrict() {
			return nil, Unsolved, ErrStrictInequality
		}
		if c.SpaceDimension() > spaceDim {
			return nil, Unsolved, ErrDimensionMismatch
		}
		terms := c.Expression().Terms()
		if len(terms) == 0 {
			b := c.Expression().Inhomogeneous().Sign()
			if c.IsEquality() {
				if b != 0 {
					return nil, Unsatisfiable, nil
				}
				continue
			}
			if b < 0 {
				return nil, Unsatisfiable, nil
			}
			continue
		}

		row := make([]rational.Ext, splitDim)
		for _, tm := range terms {
			coeff := rational.FromBigInt(tm.Coeff)
			negCoeff, _ := rational.Neg(coeff, rational.DirNotNeeded)
			row[2*tm.Var] = coeff
			row[2*tm.Var+1] = negCoeff
		}
		d := rational.FromBigInt(new(big.Int).Neg(c.Expression().Inhomogeneous()))
		rows = append(rows, rawRow{coeffs: row, rhs: d, isEQ: c.IsEquality()})
	}

	// Decide, per row, whether it needs a flip (to make the RHS
	// non-negative), a slack/surplus column (GE rows only), and an
	// artificial column (EQ rows always; GE rows whose natural slack sign
	// does not yield an immediately feasible basic variable).
	type rowPlan struct {
		flip       bool
		needsSlack bool
		needsArt   bool
	}
	plans := make([]rowPlan, len(rows))
	numSlack, numArt := 0, 0
	for i, r := range rows {
		neg := rational.Less(r.rhs, rational.Zero())
		if r.isEQ {
			plans[i] = rowPlan{flip: neg, needsArt: true}
			numArt++
			continue
		}
		if neg {
			// Flipping sum a_i x_i - s = d (d<0) to -sum a_i x_i + s = -d
			// gives s coefficient +1 with RHS -d >= 0: s is already a
			// feasible basic variable, no artificial required.
			plans[i] = rowPlan{flip: true, needsSlack: true}
		} else {
			plans[i] = rowPlan{needsSlack: true, needsArt: true}
			numArt++
		}
		numSlack++
	}

	numCols := splitDim + numSlack + numArt + 1
	if numCols > maxColumns {
		return nil, Unsolved, ErrLengthExceeded
	}

	grid := make([][]rational.Ext, len(rows))
	basis := make([]int, len(rows))
	isArtificial := make([]bool, numCols)
	slackCursor := splitDim
	artCursor := splitDim + numSlack
	for i, r := range rows {
		row := make([]rational.Ext, numCols)
		sign := rational.FromInt64(1)
		if plans[i].flip {
			sign = rational.FromInt64(-1)
		}
		for c := 0; c < splitDim; c++ {
			row[c], _ = rational.Mul(r.coeffs[c], sign, rational.DirIgnore)
		}
		row[numCols-1], _ = rational.Mul(r.rhs, sign, rational.DirIgnore)

		switch {
		case plans[i].needsSlack && plans[i].flip:
			row[slackCursor] = rational.FromInt64(1)
			basis[i] = slackCursor
			slackCursor++
		case plans[i].needsSlack:
			row[slackCursor] = rational.FromInt64(-1)
			slackCursor++
			row[artCursor] = rational.FromInt64(1)
			isArtificial[artCursor] = true
			basis[i] = artCursor
			artCursor++
		case plans[i].needsArt:
			row[artCursor] = rational.FromInt64(1)
			isArtificial[artCursor] = true
			basis[i] = artCursor
			artCursor++
		}
		grid[i] = row
	}

	return &tableau{
		grid:         grid,
		basis:        basis,
		numCols:      numCols,
		splitDim:     splitDim,
		isArtificial: isArtificial,
	}, Unsolved, nil
}

// normalizeRow divides row by its pivotCol entry in place.
func normalizeRow(row []rational.Ext, pivotCol int) {
	pivot := row[pivotCol]
	for c := range row {
		v, _, err := rational.Div(row[c], pivot, rational.DirIgnore)
		if err != nil {
			panic("simplex: pivot element is zero")
		}
		row[c] = v
	}
}

// eliminateRow subtracts target[pivotCol]*pivotRow from target in place, so
// target's pivotCol entry becomes zero.
func eliminateRow(target, pivotRow []rational.Ext, pivotCol int) {
	factor := target[pivotCol]
	if factor.Sgn() == 0 {
		return
	}
	for c := range target {
		prod, _ := rational.Mul(pivotRow[c], factor, rational.DirIgnore)
		target[c], _ = rational.Sub(target[c], prod, rational.DirIgnore)
	}
}

// doPivot performs a full Gauss-Jordan pivot on (row, col): normalizes that
// row, eliminates col from every other tableau row and from objRow (if
// supplied), and updates basis.
func doPivot(grid [][]rational.Ext, objRow []rational.Ext, basis []int, row, col int) {
	pivotRow := grid[row]
	normalizeRow(pivotRow, col)
	for r := range grid {
		if r == row {
			continue
		}
		eliminateRow(grid[r], pivotRow, col)
	}
	if objRow != nil {
		eliminateRow(objRow, pivotRow, col)
	}
	basis[row] = col
}

// reduceObjective zeroes objRow's entries at every currently-basic column,
// by row-reducing against that column's basic row, so objRow reads the
// reduced cost of every non-basic column relative to the current basis
// (standard initialization before either phase starts pivoting).
func reduceObjective(t *tableau, objRow []rational.Ext) {
	for r, bcol := range t.basis {
		if objRow[bcol].Sgn() != 0 {
			eliminateRow(objRow, t.grid[r], bcol)
		}
	}
}

// selectEnteringColumn returns a non-basic, non-excluded column with
// negative reduced cost, or ok=false if none exists (current basis is
// optimal for objRow). Default pricing is steepest-edge-flavoured: score
// reducedCost^2 / (1 + sum_r grid[r][c]^2), comparing squared quantities so
// no square root (and no irrational approximation) is ever needed over
// exact rationals. forceBland instead returns the first negative-cost
// column, guaranteeing termination by Bland's rule (spec §4.8).
func selectEnteringColumn(grid [][]rational.Ext, objRow []rational.Ext, excluded []bool, forceBland bool) (int, bool) {
	best := -1
	var bestScore rational.Ext
	for c := 0; c < len(objRow)-1; c++ {
		if excluded[c] || objRow[c].Sgn() >= 0 {
			continue
		}
		if forceBland {
			return c, true
		}
		normSq := rational.Zero()
		for r := range grid {
			sq, _ := rational.Mul(grid[r][c], grid[r][c], rational.DirIgnore)
			normSq, _ = rational.Add(normSq, sq, rational.DirIgnore)
		}
		denom, _ := rational.Add(rational.FromInt64(1), normSq, rational.DirIgnore)
		costSq, _ := rational.Mul(objRow[c], objRow[c], rational.DirIgnore)
		score, _, err := rational.Div(costSq, denom, rational.DirIgnore)
		if err != nil {
			panic("simplex: steepest-edge denominator is zero")
		}
		if best == -1 || rational.Less(bestScore, score) {
			best, bestScore = c, score
		}
	}
	return best, best != -1
}

// selectLeavingRow runs the minimum-ratio test on enterCol, breaking ties
// by Bland's rule (the row whose current basic variable has the smallest
// column index leaves), which together with Bland-rule column selection
// guarantees termination even under degeneracy.
func selectLeavingRow(grid [][]rational.Ext, basis []int, enterCol, rhsCol int) (int, bool) {
	best := -1
	var bestRatio rational.Ext
	for r := range grid {
		entry := grid[r][enterCol]
		if entry.Sgn() <= 0 {
			continue
		}
		ratio, _, err := rational.Div(grid[r][rhsCol], entry, rational.DirIgnore)
		if err != nil {
			panic("simplex: ratio test division by zero")
		}
		switch {
		case best == -1, rational.Less(ratio, bestRatio):
			best, bestRatio = r, ratio
		case rational.Equal(ratio, bestRatio) && basis[r] < basis[best]:
			best = r
		}
	}
	return best, best != -1
}

// runSimplexPhase drives objRow's reduced costs to non-negative (local
// optimum) or reports unbounded, polling the cancellation/budget hooks once
// per pivot (spec §5). When lockArtificialExit is set, an artificial column
// is permanently excluded the moment it leaves the basis, so phase 1 never
// reintroduces an artificial once it has been driven out.
func runSimplexPhase(t *tableau, objRow []rational.Ext, excluded []bool, opts *Options, lockArtificialExit bool) (unbounded bool, err error) {
	for {
		if opts.shouldAbandon() {
			return false, ErrAbandoned
		}
		opts.tick()
		col, ok := selectEnteringColumn(t.grid, objRow, excluded, opts.forceBland)
		if !ok {
			return false, nil
		}
		row, ok := selectLeavingRow(t.grid, t.basis, col, t.rhsCol())
		if !ok {
			return true, nil
		}
		leaving := t.basis[row]
		doPivot(t.grid, objRow, t.basis, row, col)
		if lockArtificialExit && t.isArtificial[leaving] {
			excluded[leaving] = true
		}
	}
}

// phase1Objective builds the row minimizing the sum of artificial
// variables (cost 1 on every artificial column, 0 elsewhere), then reduces
// it against the starting basis.
func phase1Objective(t *tableau) []rational.Ext {
	obj := make([]rational.Ext, t.numCols)
	for c, art := range t.isArtificial {
		if art {
			obj[c] = rational.FromInt64(1)
		}
	}
	reduceObjective(t, obj)
	return obj
}

// phase1Value reads the current minimized sum of artificials off a reduced
// phase-1 objective row: reduceObjective accumulates -value into the RHS
// column as basic costs are zeroed out, so the true value is its negation.
func phase1Value(objRow []rational.Ext, rhsCol int) rational.Ext {
	v, _ := rational.Neg(objRow[rhsCol], rational.DirNotNeeded)
	return v
}
