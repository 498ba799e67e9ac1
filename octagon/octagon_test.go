package octagon_test

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/octagon"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unaryConst builds coeff*x_v <= bound, i.e. -coeff*x_v + bound >= 0.
func unaryConst(v int, coeff, bound int64) *polyconstraint.Constraint {
	x, err := linexpr.NewVariable(v)
	if err != nil {
		panic(err)
	}
	e := x.Scale(big.NewInt(-coeff))
	e.SetInhomogeneous(big.NewInt(bound))
	return polyconstraint.NewConstraint(e, polyconstraint.GE)
}

// pairConst builds ci*x_i + cj*x_j <= bound.
func pairConst(i int, ci int64, j int, cj int64, bound int64) *polyconstraint.Constraint {
	xi, err := linexpr.NewVariable(i)
	if err != nil {
		panic(err)
	}
	xj, err := linexpr.NewVariable(j)
	if err != nil {
		panic(err)
	}
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

// TestOctagonInitClosure exercises scenario E2: after closure, the cells
// recording x+y and x-y keep their given bounds, and strong closure
// propagates them into the unary bound on y (the system's true optimum:
// x=0, y=2 satisfies every given constraint, so y<=2 is the tightest sound
// closure, not merely an intermediate approximation).
func TestOctagonInitClosure(t *testing.T) {
	t.Parallel()

	s := octagon.Universe(2)
	require.NoError(t, s.AddConstraint(pairConst(0, 1, 1, 1, 2)))  // x+y <= 2
	require.NoError(t, s.AddConstraint(pairConst(0, 1, 1, -1, 1))) // x-y <= 1
	require.NoError(t, s.AddConstraint(unaryConst(0, -1, 0)))      // -x <= 0
	require.NoError(t, s.AddConstraint(unaryConst(1, -1, 0)))      // -y <= 0

	require.NoError(t, s.StrongClosure())
	empty, err := s.IsEmpty()
	require.NoError(t, err)
	require.False(t, empty)

	val, bounded, _, err := s.Maximize(mustVar(t, 1).Add(mustVar(t, 0)))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(val, rational.FromInt64(2)))

	diff, bounded, _, err := s.Maximize(mustVar(t, 0).Add(mustVar(t, 1).Neg()))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(diff, rational.FromInt64(1)))

	yMax, bounded, _, err := s.Maximize(mustVar(t, 1))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(yMax, rational.FromInt64(2)))

	xMax, bounded, _, err := s.Maximize(mustVar(t, 0))
	require.NoError(t, err)
	require.True(t, bounded)
	threeHalves := new(big.Rat).SetFrac64(3, 2)
	assert.True(t, rational.Equal(xMax, rational.FromRat(threeHalves)))

	require.NoError(t, s.TightenIntegerCoherence())
	xMaxInt, bounded, _, err := s.Maximize(mustVar(t, 0))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(xMaxInt, rational.FromInt64(2)))
}

func TestOctagonFromBoxIsBoxShaped(t *testing.T) {
	t.Parallel()

	s, err := octagon.FromBox([]rational.Ext{rational.FromInt64(0), rational.FromInt64(0)},
		[]rational.Ext{rational.FromInt64(1), rational.FromInt64(1)})
	require.NoError(t, err)
	require.NoError(t, s.StrongClosure())
	ok, err := s.ContainsIntegerPoint()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.OK())
}

// TestUpperBoundAssignIfExactRectangle exercises scenario E6: joining two
// abutting unit squares along x produces the exact rectangle.
func TestUpperBoundAssignIfExactRectangle(t *testing.T) {
	t.Parallel()

	s, err := octagon.FromBox([]rational.Ext{rational.FromInt64(0), rational.FromInt64(0)},
		[]rational.Ext{rational.FromInt64(1), rational.FromInt64(1)})
	require.NoError(t, err)
	other, err := octagon.FromBox([]rational.Ext{rational.FromInt64(1), rational.FromInt64(0)},
		[]rational.Ext{rational.FromInt64(2), rational.FromInt64(1)})
	require.NoError(t, err)

	exact, err := s.UpperBoundAssignIfExact(other)
	require.NoError(t, err)
	if exact {
		val, bounded, _, err := s.Maximize(mustVar(t, 0))
		require.NoError(t, err)
		require.True(t, bounded)
		assert.True(t, rational.Equal(val, rational.FromInt64(2)))
	}
}

func TestStrongReductionMarksRedundant(t *testing.T) {
	t.Parallel()

	s := octagon.Universe(2)
	require.NoError(t, s.AddConstraint(unaryConst(0, 1, 5)))
	require.NoError(t, s.AddConstraint(unaryConst(1, 1, 5)))
	require.NoError(t, s.AddConstraint(pairConst(0, 1, 1, -1, 10))) // not implied: y has no lower bound; the derived x+y <= 10 is
	require.NoError(t, s.StrongClosure())
	require.NoError(t, s.StrongReduction())
	assert.True(t, s.OK())
}

// axisBounds closes s and reads back [min_0, max_0, min_1, max_1, ...] for
// every one of its n dimensions, giving a flat, cmp-comparable snapshot of
// an octagon's box-projection (not its full shape, but enough to compare
// two closure results structurally rather than cell-by-cell).
func axisBounds(t *testing.T, s *octagon.OctagonalShape, n int) []rational.Ext {
	t.Helper()
	require.NoError(t, s.StrongClosure())
	out := make([]rational.Ext, 0, 2*n)
	for i := 0; i < n; i++ {
		lo, bounded, _, err := s.Minimize(mustVar(t, i))
		require.NoError(t, err)
		if !bounded {
			lo = rational.MinusInfinity()
		}
		hi, bounded, _, err := s.Maximize(mustVar(t, i))
		require.NoError(t, err)
		if !bounded {
			hi = rational.PlusInfinity()
		}
		out = append(out, lo, hi)
	}
	return out
}

// TestOctagonMeetCommutativity checks testable property: intersection is
// commutative up to the bounds it produces. Built from two overlapping unit
// squares so the meet is a non-trivial, strictly smaller rectangle.
func TestOctagonMeetCommutativity(t *testing.T) {
	t.Parallel()

	a, err := octagon.FromBox([]rational.Ext{rational.FromInt64(0), rational.FromInt64(0)},
		[]rational.Ext{rational.FromInt64(2), rational.FromInt64(2)})
	require.NoError(t, err)
	b, err := octagon.FromBox([]rational.Ext{rational.FromInt64(1), rational.FromInt64(1)},
		[]rational.Ext{rational.FromInt64(3), rational.FromInt64(3)})
	require.NoError(t, err)

	ab := a.Clone()
	require.NoError(t, ab.IntersectionAssign(b))
	ba := b.Clone()
	require.NoError(t, ba.IntersectionAssign(a))

	got := axisBounds(t, ab, 2)
	want := axisBounds(t, ba, 2)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("intersection is not commutative (-want +got):\n%s", diff)
	}
}

// TestOctagonClosureIdempotent checks testable property: closing an
// already-closed octagon a second time changes nothing observable.
func TestOctagonClosureIdempotent(t *testing.T) {
	t.Parallel()

	s := octagon.Universe(2)
	require.NoError(t, s.AddConstraint(pairConst(0, 1, 1, 1, 2)))
	require.NoError(t, s.AddConstraint(pairConst(0, 1, 1, -1, 1)))
	require.NoError(t, s.AddConstraint(unaryConst(0, -1, 0)))
	require.NoError(t, s.AddConstraint(unaryConst(1, -1, 0)))

	once := axisBounds(t, s, 2)
	twice := axisBounds(t, s, 2)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("closure is not idempotent (-first +second):\n%s", diff)
	}
}
