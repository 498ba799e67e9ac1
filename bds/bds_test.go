package bds_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/polycore/bds"
	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leConst builds the constraint coeff*x_v <= bound, i.e. -coeff*x_v + bound >= 0.
func leConst(v int, coeff, bound int64) *polyconstraint.Constraint {
	x, _ := linexpr.NewVariable(v)
	e := x.Scale(big.NewInt(-coeff))
	e.SetInhomogeneous(big.NewInt(bound))
	return polyconstraint.NewConstraint(e, polyconstraint.GE)
}

// sumConst builds coeff*x_i + coeff*x_j <= bound, a same-sign two-variable
// constraint that is never a bounded difference (spec §4.2).
func sumConst(i, j int, coeff, bound int64) *polyconstraint.Constraint {
	xi, _ := linexpr.NewVariable(i)
	xj, _ := linexpr.NewVariable(j)
	e := xi.Scale(big.NewInt(-coeff)).Add(xj.Scale(big.NewInt(-coeff)))
	e.SetInhomogeneous(big.NewInt(bound))
	return polyconstraint.NewConstraint(e, polyconstraint.GE)
}

// unequalMagConst builds ci*x_i + cj*x_j <= bound with |ci| != |cj|, which
// is never representable as a single bounded difference or octagonal cell.
func unequalMagConst(i int, ci int64, j int, cj, bound int64) *polyconstraint.Constraint {
	xi, _ := linexpr.NewVariable(i)
	xj, _ := linexpr.NewVariable(j)
	e := xi.Scale(big.NewInt(-ci)).Add(xj.Scale(big.NewInt(-cj)))
	e.SetInhomogeneous(big.NewInt(bound))
	return polyconstraint.NewConstraint(e, polyconstraint.GE)
}

// TestUnitCube exercises scenario E1 from the specification: a BDS over
// {x,y,z} given a mix of bounded-difference and non-BD constraints must
// refuse the non-BD ones (AddConstraint returns an error) and settle on the
// unit cube.
func TestUnitCube(t *testing.T) {
	t.Parallel()

	cs := []*polyconstraint.Constraint{
		leConst(0, -1, 0), // x >= 0
		leConst(0, 1, 1),  // x <= 1
		leConst(1, -1, 0), // y >= 0
		leConst(1, 1, 1),  // y <= 1
		leConst(2, -1, 0), // z >= 0
		leConst(2, 1, 1),  // z <= 1
	}
	shape := bds.Universe(3)
	for _, c := range cs {
		require.NoError(t, shape.AddConstraint(c))
	}

	// These three are not bounded differences; AddConstraint must refuse them.
	nonBD := []*polyconstraint.Constraint{
		sumConst(0, 1, 1, 0),            // x+y <= 0
		unequalMagConst(0, -2, 2, 1, 0), // 2x - z >= 0  <=>  -2x+z <= 0
		unequalMagConst(2, 3, 1, -1, 1), // 3z - y <= 1
	}
	for _, c := range nonBD {
		err := shape.AddConstraint(c)
		assert.Error(t, err)
	}

	assert.False(t, shape.IsUniverse())
	ok, err := shape.ContainsIntegerPoint()
	require.NoError(t, err)
	assert.True(t, ok)

	obj := mustVar(t, 0).Add(mustVar(t, 1)).Add(mustVar(t, 2))
	val, bounded, isMax, err := shape.Minimize(obj)
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, isMax)
	assert.True(t, rational.Equal(val, rational.Zero()))
}

func mustVar(t *testing.T, v int) *linexpr.LinExpr {
	t.Helper()
	e, err := linexpr.NewVariable(v)
	require.NoError(t, err)
	return e
}

// TestCC76Extrapolation exercises scenario E3: widening {x<=3} with {x<=4}
// against stop points {-2,-1,0,1,2} loses the bound entirely, while
// widening {x<=1} with {x<=2} lands exactly on a stop point.
func TestCC76Extrapolation(t *testing.T) {
	t.Parallel()

	stops := []rational.Ext{
		rational.FromInt64(-2), rational.FromInt64(-1), rational.FromInt64(0),
		rational.FromInt64(1), rational.FromInt64(2),
	}

	older, err := bds.FromConstraints(1, []*polyconstraint.Constraint{leConst(0, 1, 3)})
	require.NoError(t, err)
	newer, err := bds.FromConstraints(1, []*polyconstraint.Constraint{leConst(0, 1, 4)})
	require.NoError(t, err)
	require.NoError(t, older.CC76ExtrapolationAssign(newer, stops))
	bounded, err := older.BoundsFromAbove(mustVar(t, 0))
	require.NoError(t, err)
	assert.False(t, bounded)

	older2, err := bds.FromConstraints(1, []*polyconstraint.Constraint{leConst(0, 1, 1)})
	require.NoError(t, err)
	newer2, err := bds.FromConstraints(1, []*polyconstraint.Constraint{leConst(0, 1, 2)})
	require.NoError(t, err)
	require.NoError(t, older2.CC76ExtrapolationAssign(newer2, stops))
	val, bounded2, _, err := older2.Maximize(mustVar(t, 0))
	require.NoError(t, err)
	require.True(t, bounded2)
	assert.True(t, rational.Equal(val, rational.FromInt64(2)))
}

func TestIntersectionAndUpperBound(t *testing.T) {
	t.Parallel()

	a, err := bds.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(1)})
	require.NoError(t, err)
	b, err := bds.FromBox([]rational.Ext{rational.FromInt64(2)}, []rational.Ext{rational.FromInt64(3)})
	require.NoError(t, err)

	require.NoError(t, a.UpperBoundAssign(b))
	val, bounded, _, err := a.Maximize(mustVar(t, 0))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(val, rational.FromInt64(3)))

	c, err := bds.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(1)})
	require.NoError(t, err)
	d, err := bds.FromBox([]rational.Ext{rational.FromInt64(2)}, []rational.Ext{rational.FromInt64(3)})
	require.NoError(t, err)
	require.NoError(t, c.IntersectionAssign(d))
	empty, err := c.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)
}

// axisBounds closes s and reads back [min_0, max_0, min_1, max_1, ...] for
// its n dimensions, a flat cmp-comparable snapshot of its box projection.
func axisBounds(t *testing.T, s *bds.BDShape, n int) []rational.Ext {
	t.Helper()
	require.NoError(t, s.ShortestPathClosure())
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

// TestMeetCommutativity checks testable property: intersection is
// commutative up to the bounds it produces.
func TestMeetCommutativity(t *testing.T) {
	t.Parallel()

	a, err := bds.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(3)})
	require.NoError(t, err)
	b, err := bds.FromBox([]rational.Ext{rational.FromInt64(1)}, []rational.Ext{rational.FromInt64(5)})
	require.NoError(t, err)

	ab := a.Clone()
	require.NoError(t, ab.IntersectionAssign(b))
	ba := b.Clone()
	require.NoError(t, ba.IntersectionAssign(a))

	got := axisBounds(t, ab, 1)
	want := axisBounds(t, ba, 1)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("intersection is not commutative (-want +got):\n%s", diff)
	}
}

// TestMeetAssociativity checks testable property: (a meet b) meet c equals
// a meet (b meet c) up to the bounds produced.
func TestMeetAssociativity(t *testing.T) {
	t.Parallel()

	a, err := bds.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(10)})
	require.NoError(t, err)
	b, err := bds.FromBox([]rational.Ext{rational.FromInt64(2)}, []rational.Ext{rational.FromInt64(8)})
	require.NoError(t, err)
	c, err := bds.FromBox([]rational.Ext{rational.FromInt64(4)}, []rational.Ext{rational.FromInt64(6)})
	require.NoError(t, err)

	left := a.Clone()
	require.NoError(t, left.IntersectionAssign(b))
	require.NoError(t, left.IntersectionAssign(c))

	bc := b.Clone()
	require.NoError(t, bc.IntersectionAssign(c))
	right := a.Clone()
	require.NoError(t, right.IntersectionAssign(bc))

	got := axisBounds(t, left, 1)
	want := axisBounds(t, right, 1)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("intersection is not associative (-want +got):\n%s", diff)
	}
}

func TestDumpLoadRoundTrip(t *testing.T) {
	t.Parallel()

	shape, err := bds.FromBox([]rational.Ext{rational.FromInt64(0), rational.FromInt64(-1)},
		[]rational.Ext{rational.FromInt64(5), rational.FromInt64(1)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, shape.Dump(&buf))
	loaded, err := bds.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, shape.SpaceDimension(), loaded.SpaceDimension())

	val, bounded, _, err := loaded.Maximize(mustVar(t, 0))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(val, rational.FromInt64(5)))
}
