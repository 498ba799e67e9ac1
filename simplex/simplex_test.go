package simplex_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
	"github.com/katalvlaran/polycore/simplex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leConst builds coeff*x_v <= bound, i.e. -coeff*x_v + bound >= 0.
func leConst(v int, coeff, bound int64) *polyconstraint.Constraint {
	x, _ := linexpr.NewVariable(v)
	e := x.Scale(big.NewInt(-coeff))
	e.SetInhomogeneous(big.NewInt(bound))
	return polyconstraint.NewConstraint(e, polyconstraint.GE)
}

// pairLE builds ci*x_i + cj*x_j <= bound.
func pairLE(i int, ci int64, j int, cj, bound int64) *polyconstraint.Constraint {
	xi, _ := linexpr.NewVariable(i)
	xj, _ := linexpr.NewVariable(j)
	e := xi.Scale(big.NewInt(-ci)).Add(xj.Scale(big.NewInt(-cj)))
	e.SetInhomogeneous(big.NewInt(bound))
	return polyconstraint.NewConstraint(e, polyconstraint.GE)
}

func mustVar(t *testing.T, v int) *linexpr.LinExpr {
	t.Helper()
	e, err := linexpr.NewVariable(v)
	require.NoError(t, err)
	return e
}

// TestMaximizeScenario exercises scenario E4: maximize x+y subject to
// x>=0, y>=0, x+2y<=14, 3x-y<=0, x-y<=2. Expected status OPTIMIZED, optimum
// 8 at (2,6), and the witness must satisfy every input constraint.
func TestMaximizeScenario(t *testing.T) {
	t.Parallel()

	p := simplex.NewProblem(2)
	require.NoError(t, p.AddConstraints([]*polyconstraint.Constraint{
		leConst(0, -1, 0),     // x >= 0
		leConst(1, -1, 0),     // y >= 0
		pairLE(0, 1, 1, 2, 14), // x + 2y <= 14
		pairLE(0, 3, 1, -1, 0), // 3x - y <= 0
		pairLE(0, 1, 1, -1, 2), // x - y <= 2
	}))
	require.NoError(t, p.SetObjectiveFunction(mustVar(t, 0).Add(mustVar(t, 1))))
	require.NoError(t, p.SetOptimizationMode(simplex.Maximize))

	status, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, simplex.Optimized, status)

	val, err := p.OptimalValue()
	require.NoError(t, err)
	assert.True(t, rational.Equal(val, rational.FromInt64(8)))

	g, err := p.OptimizingPoint()
	require.NoError(t, err)
	evaluated, err := p.EvaluateObjectiveFunction(g)
	require.NoError(t, err)
	assert.True(t, rational.Equal(evaluated, val))

	d := g.Divisor()
	x := new(big.Rat).SetFrac(g.Expression().Coefficient(0), d)
	y := new(big.Rat).SetFrac(g.Expression().Coefficient(1), d)
	assert.Equal(t, big.NewRat(2, 1), x)
	assert.Equal(t, big.NewRat(6, 1), y)
}

// TestMinimizeScenario continues E4: minimizing the same objective over the
// same feasible region returns 0, attained at the origin.
func TestMinimizeScenario(t *testing.T) {
	t.Parallel()

	p := simplex.NewProblem(2)
	require.NoError(t, p.AddConstraints([]*polyconstraint.Constraint{
		leConst(0, -1, 0),
		leConst(1, -1, 0),
		pairLE(0, 1, 1, 2, 14),
		pairLE(0, 3, 1, -1, 0),
		pairLE(0, 1, 1, -1, 2),
	}))
	require.NoError(t, p.SetObjectiveFunction(mustVar(t, 0).Add(mustVar(t, 1))))
	require.NoError(t, p.SetOptimizationMode(simplex.Minimize))

	status, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, simplex.Optimized, status)

	val, err := p.OptimalValue()
	require.NoError(t, err)
	assert.True(t, rational.Equal(val, rational.Zero()))
}

// TestUnsatisfiable exercises a directly contradictory system: x>=1 and
// x<=0 together admit no point.
func TestUnsatisfiable(t *testing.T) {
	t.Parallel()

	p := simplex.NewProblem(1)
	require.NoError(t, p.AddConstraints([]*polyconstraint.Constraint{
		leConst(0, -1, -1), // x >= 1
		leConst(0, 1, 0),   // x <= 0
	}))
	sat, err := p.IsSatisfiable()
	require.NoError(t, err)
	assert.False(t, sat)

	_, err = p.FeasiblePoint()
	assert.ErrorIs(t, err, simplex.ErrUnsatisfiable)
}

// TestUnbounded exercises an objective with no bounding constraint in its
// increasing direction: maximize x subject only to x>=0.
func TestUnbounded(t *testing.T) {
	t.Parallel()

	p := simplex.NewProblem(1)
	require.NoError(t, p.AddConstraint(leConst(0, -1, 0))) // x >= 0
	require.NoError(t, p.SetObjectiveFunction(mustVar(t, 0)))
	require.NoError(t, p.SetOptimizationMode(simplex.Maximize))

	status, err := p.Solve()
	require.NoError(t, err)
	assert.Equal(t, simplex.Unbounded, status)

	_, err = p.OptimizingPoint()
	assert.ErrorIs(t, err, simplex.ErrUnbounded)
}

// TestEqualityConstraint exercises a system pinned by an equality: x+y=5,
// x>=0, y>=0, maximize x. The artificial-variable machinery must still
// drive the equality row to feasibility.
func TestEqualityConstraint(t *testing.T) {
	t.Parallel()

	sum, _ := linexpr.NewVariable(0)
	sum = sum.Add(mustVar(t, 1))
	sum.SetInhomogeneous(big.NewInt(-5))
	eqConstraint := polyconstraint.NewConstraint(sum, polyconstraint.EQ) // x+y-5 == 0

	p := simplex.NewProblem(2)
	require.NoError(t, p.AddConstraints([]*polyconstraint.Constraint{
		leConst(0, -1, 0),
		leConst(1, -1, 0),
		eqConstraint,
	}))
	require.NoError(t, p.SetObjectiveFunction(mustVar(t, 0)))
	require.NoError(t, p.SetOptimizationMode(simplex.Maximize))

	status, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, simplex.Optimized, status)

	val, err := p.OptimalValue()
	require.NoError(t, err)
	assert.True(t, rational.Equal(val, rational.FromInt64(5)))
}

// TestBlandOnlyAgrees checks that forcing Bland's rule instead of
// steepest-edge pricing reaches the same optimum on the E4 scenario.
func TestBlandOnlyAgrees(t *testing.T) {
	t.Parallel()

	p := simplex.NewProblem(2, simplex.WithBlandOnly())
	require.NoError(t, p.AddConstraints([]*polyconstraint.Constraint{
		leConst(0, -1, 0),
		leConst(1, -1, 0),
		pairLE(0, 1, 1, 2, 14),
		pairLE(0, 3, 1, -1, 0),
		pairLE(0, 1, 1, -1, 2),
	}))
	require.NoError(t, p.SetObjectiveFunction(mustVar(t, 0).Add(mustVar(t, 1))))
	require.NoError(t, p.SetOptimizationMode(simplex.Maximize))

	status, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, simplex.Optimized, status)

	val, err := p.OptimalValue()
	require.NoError(t, err)
	assert.True(t, rational.Equal(val, rational.FromInt64(8)))
}

// TestAbandonedSolve checks that a cancellation flag firing on the very
// first poll surfaces ErrAbandoned instead of a status.
func TestAbandonedSolve(t *testing.T) {
	t.Parallel()

	p := simplex.NewProblem(1, simplex.WithAbandonFlag(func() bool { return true }))
	require.NoError(t, p.AddConstraint(leConst(0, -1, 0)))
	require.NoError(t, p.SetObjectiveFunction(mustVar(t, 0)))

	_, err := p.Solve()
	assert.ErrorIs(t, err, simplex.ErrAbandoned)
}
