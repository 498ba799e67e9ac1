package linexpr_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceDimension(t *testing.T) {
	t.Parallel()

	e := linexpr.NewConstant(5)
	assert.Equal(t, 0, e.SpaceDimension())

	require.NoError(t, e.SetCoefficient(2, big.NewInt(3)))
	assert.Equal(t, 3, e.SpaceDimension())

	require.NoError(t, e.SetCoefficient(2, big.NewInt(0)))
	assert.Equal(t, 0, e.SpaceDimension())
}

func TestAddAndScale(t *testing.T) {
	t.Parallel()

	x0, err := linexpr.NewVariable(0)
	require.NoError(t, err)
	x1, err := linexpr.NewVariable(1)
	require.NoError(t, err)

	sum := x0.Add(x1).Add(linexpr.NewConstant(4))
	terms := sum.Terms()
	require.Len(t, terms, 2)
	assert.Equal(t, 0, terms[0].Var)
	assert.Equal(t, 1, terms[1].Var)
	assert.Equal(t, "4", sum.Inhomogeneous().String())

	scaled := sum.Scale(big.NewInt(3))
	assert.Equal(t, "12", scaled.Inhomogeneous().String())
}

func TestGCDNormalize(t *testing.T) {
	t.Parallel()

	e := linexpr.NewExpr()
	require.NoError(t, e.SetCoefficient(0, big.NewInt(6)))
	require.NoError(t, e.SetCoefficient(1, big.NewInt(9)))
	e.SetInhomogeneous(big.NewInt(-3))

	n := e.GCDNormalize()
	assert.Equal(t, "2", n.Coefficient(0).String())
	assert.Equal(t, "3", n.Coefficient(1).String())
	assert.Equal(t, "-1", n.Inhomogeneous().String())
}

func TestNegAndClone(t *testing.T) {
	t.Parallel()

	x0, _ := linexpr.NewVariable(0)
	neg := x0.Neg()
	assert.Equal(t, "-1", neg.Coefficient(0).String())

	clone := x0.Clone()
	require.NoError(t, clone.SetCoefficient(0, big.NewInt(99)))
	assert.Equal(t, "1", x0.Coefficient(0).String(), "clone must not alias the original")
}
