package termination_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
	"github.com/katalvlaran/polycore/termination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decrementingLoop builds scenario E5's transition relation {x = x'+1,
// x>=0} over a single program variable (combined space: x at index 0, x'
// at index 1).
func decrementingLoop() []*polyconstraint.Constraint {
	x, _ := linexpr.NewVariable(0)
	xPrime, _ := linexpr.NewVariable(1)
	eq := x.Add(xPrime.Scale(big.NewInt(-1)))
	eq.SetInhomogeneous(big.NewInt(-1)) // x - x' - 1 == 0
	eqConstraint := polyconstraint.NewConstraint(eq, polyconstraint.EQ)

	xNonNeg, _ := linexpr.NewVariable(0) // x >= 0
	geConstraint := polyconstraint.NewConstraint(xNonNeg, polyconstraint.GE)

	return []*polyconstraint.Constraint{eqConstraint, geConstraint}
}

// TestTerminationMSDecrementingLoop exercises scenario E5:
// termination_test_MS on {x = x'+1, x>=0} must return true, and the
// synthesized ranking function must be mu(x) = x.
func TestTerminationMSDecrementingLoop(t *testing.T) {
	t.Parallel()

	loop := termination.NewLoop(1, decrementingLoop())

	ok, err := termination.TerminationTestMS(loop)
	require.NoError(t, err)
	assert.True(t, ok)

	mu, found, err := termination.OneAffineRankingFunctionMS(loop)
	require.NoError(t, err)
	require.True(t, found)

	atThree, err := termination.Evaluate(mu, 1, []rational.Ext{rational.FromInt64(3)})
	require.NoError(t, err)
	assert.True(t, rational.Equal(atThree, rational.FromInt64(3)))

	atZero, err := termination.Evaluate(mu, 1, []rational.Ext{rational.FromInt64(0)})
	require.NoError(t, err)
	assert.True(t, rational.Equal(atZero, rational.Zero()))
}

// TestRankingFunctionSoundness checks testable property 13: for the
// witnessed transition (x=3, x'=2), mu(x)-mu(x') >= 1 and mu(x) >= 0.
func TestRankingFunctionSoundness(t *testing.T) {
	t.Parallel()

	loop := termination.NewLoop(1, decrementingLoop())
	mu, found, err := termination.OneAffineRankingFunctionMS(loop)
	require.NoError(t, err)
	require.True(t, found)

	muX, err := termination.Evaluate(mu, 1, []rational.Ext{rational.FromInt64(3)})
	require.NoError(t, err)
	muXPrime, err := termination.Evaluate(mu, 1, []rational.Ext{rational.FromInt64(2)})
	require.NoError(t, err)

	decrease, _ := rational.Sub(muX, muXPrime, rational.DirIgnore)
	assert.False(t, rational.Less(decrease, rational.FromInt64(1)))
	assert.False(t, rational.Less(muX, rational.Zero()))
}

// TestTerminationPRAgreesWithMS checks the PR encoding reaches the same
// verdict as MS on the same loop, given explicitly as (before, after).
func TestTerminationPRAgreesWithMS(t *testing.T) {
	t.Parallel()

	xNonNeg, _ := linexpr.NewVariable(0)
	before := []*polyconstraint.Constraint{polyconstraint.NewConstraint(xNonNeg, polyconstraint.GE)}
	after := decrementingLoop()

	ok, err := termination.TerminationTestPR(1, before, after)
	require.NoError(t, err)
	assert.True(t, ok)

	mu, found, err := termination.OneAffineRankingFunctionPR(1, before, after)
	require.NoError(t, err)
	require.True(t, found)

	atOne, err := termination.Evaluate(mu, 1, []rational.Ext{rational.FromInt64(1)})
	require.NoError(t, err)
	assert.True(t, rational.Equal(atOne, rational.FromInt64(1)))
}

// TestTerminationMSNonTerminatingLoop checks a loop with no decreasing
// measure ({x = x' (no change), x>=0}) is correctly reported as not
// provably terminating by this encoding: no affine mu can satisfy
// mu(x)-mu(x') >= 1 when x never actually changes.
func TestTerminationMSNonTerminatingLoop(t *testing.T) {
	t.Parallel()

	x, _ := linexpr.NewVariable(0)
	xPrime, _ := linexpr.NewVariable(1)
	eq := x.Add(xPrime.Scale(big.NewInt(-1))) // x - x' == 0
	eqConstraint := polyconstraint.NewConstraint(eq, polyconstraint.EQ)
	xNonNeg, _ := linexpr.NewVariable(0)
	geConstraint := polyconstraint.NewConstraint(xNonNeg, polyconstraint.GE)

	loop := termination.NewLoop(1, []*polyconstraint.Constraint{eqConstraint, geConstraint})
	ok, err := termination.TerminationTestMS(loop)
	require.NoError(t, err)
	assert.False(t, ok)
}
