package rational_test

import (
	"testing"

	"github.com/katalvlaran/polycore/rational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFinite(t *testing.T) {
	t.Parallel()

	a, _ := rational.FromFrac(1, 2)
	b, _ := rational.FromFrac(1, 3)
	sum, rel := rational.Add(a, b, rational.DirUp)
	assert.Equal(t, rational.VEQ, rel)
	assert.Equal(t, "5/6", sum.String())
}

func TestAddInfinities(t *testing.T) {
	t.Parallel()

	sum, rel := rational.Add(rational.PlusInfinity(), rational.FromInt64(5), rational.DirUp)
	assert.Equal(t, rational.VEQPlusInf, rel)
	assert.True(t, sum.IsPlusInfinity())

	nanSum, rel2 := rational.Add(rational.PlusInfinity(), rational.MinusInfinity(), rational.DirUp)
	assert.Equal(t, rational.VLGE, rel2)
	assert.True(t, nanSum.IsNaN())
}

func TestDivByZero(t *testing.T) {
	t.Parallel()

	_, _, err := rational.Div(rational.FromInt64(1), rational.Zero(), rational.DirUp)
	require.ErrorIs(t, err, rational.ErrZeroDenominator)
}

func TestCmpTotalOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, rational.VLT, rational.Cmp(rational.FromInt64(1), rational.PlusInfinity()))
	assert.Equal(t, rational.VGT, rational.Cmp(rational.FromInt64(1), rational.MinusInfinity()))
	assert.Equal(t, rational.VEQ, rational.Cmp(rational.PlusInfinity(), rational.PlusInfinity()))
}

func TestMul2Exp(t *testing.T) {
	t.Parallel()

	x := rational.FromInt64(3)
	up, _ := rational.Mul2Exp(x, 2, rational.DirUp)
	assert.Equal(t, "12", up.String())

	down, _ := rational.Div2Exp(x, 1, rational.DirUp)
	assert.Equal(t, "3/2", down.String())
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"+inf", "-inf", "nan", "0", "3", "-7", "5/6"} {
		e, err := rational.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, e.String())
	}
}

func TestSqrtSound(t *testing.T) {
	t.Parallel()

	x := rational.FromInt64(2)
	root, _, err := rational.Sqrt(x, rational.DirUp)
	require.NoError(t, err)
	sq, _ := rational.Mul(root, root, rational.DirUp)
	assert.True(t, rational.Cmp(sq, x) != rational.VLT, "sqrt(2) upper bound must satisfy root^2 >= 2")
}
