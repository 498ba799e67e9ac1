package polyconstraint_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leConstraint builds the constraint LE = -lhs + rhs with relation GE,
// representing lhs <= rhs.
func leConstraint(t *testing.T, coeffs map[int]int64, rhs int64) *polyconstraint.Constraint {
	t.Helper()
	e := linexpr.NewExpr()
	for v, c := range coeffs {
		require.NoError(t, e.SetCoefficient(v, big.NewInt(-c)))
	}
	e.SetInhomogeneous(big.NewInt(rhs))
	return polyconstraint.NewConstraint(e, polyconstraint.GE)
}

func TestExtractOctagonal_XPlusY(t *testing.T) {
	t.Parallel()

	c := leConstraint(t, map[int]int64{0: 1, 1: 1}, 2) // x + y <= 2
	od, err := polyconstraint.ExtractOctagonal(c)
	require.NoError(t, err)
	assert.Equal(t, 1, od.Row) // -x literal
	assert.Equal(t, 2, od.Col) // +y literal
	assert.Equal(t, "2", od.Term.String())
}

func TestExtractOctagonal_XMinusY(t *testing.T) {
	t.Parallel()

	c := leConstraint(t, map[int]int64{0: 1, 1: -1}, 1) // x - y <= 1
	od, err := polyconstraint.ExtractOctagonal(c)
	require.NoError(t, err)
	assert.Equal(t, 1, od.Row)
	assert.Equal(t, 3, od.Col)
}

func TestExtractOctagonal_UnaryNegX(t *testing.T) {
	t.Parallel()

	c := leConstraint(t, map[int]int64{0: -1}, 0) // -x <= 0
	od, err := polyconstraint.ExtractOctagonal(c)
	require.NoError(t, err)
	assert.Equal(t, 0, od.Row)
	assert.Equal(t, 1, od.Col)
	assert.Equal(t, "0", od.Term.String())
}

func TestExtractBoundedDifference_Rejects3Var(t *testing.T) {
	t.Parallel()

	c := leConstraint(t, map[int]int64{0: 1, 1: 1, 2: 1}, 0)
	_, err := polyconstraint.ExtractBoundedDifference(c)
	require.ErrorIs(t, err, polyconstraint.ErrNotBoundedDifference)
}

func TestExtractBoundedDifference_XMinusY(t *testing.T) {
	t.Parallel()

	c := leConstraint(t, map[int]int64{0: 1, 1: -1}, 5) // x - y <= 5
	bd, err := polyconstraint.ExtractBoundedDifference(c)
	require.NoError(t, err)
	assert.Equal(t, 0, bd.I)
	assert.Equal(t, 1, bd.J)
	assert.Equal(t, "5", bd.Term.String())
}

func TestCoherent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, polyconstraint.Coherent(0))
	assert.Equal(t, 0, polyconstraint.Coherent(1))
	assert.Equal(t, 3, polyconstraint.Coherent(2))
}
