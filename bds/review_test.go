package bds_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/polycore/bds"
	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContainsAndDisjoint exercises spec §6's contains/strictly_contains/
// is_disjoint_from: [0,3] contains [1,2] strictly, and is disjoint from
// [5,6].
func TestContainsAndDisjoint(t *testing.T) {
	t.Parallel()

	outer, err := bds.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(3)})
	require.NoError(t, err)
	inner, err := bds.FromBox([]rational.Ext{rational.FromInt64(1)}, []rational.Ext{rational.FromInt64(2)})
	require.NoError(t, err)
	far, err := bds.FromBox([]rational.Ext{rational.FromInt64(5)}, []rational.Ext{rational.FromInt64(6)})
	require.NoError(t, err)

	ok, err := outer.Contains(inner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = outer.StrictlyContains(inner)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = inner.StrictlyContains(outer)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = outer.IsDisjointFrom(far)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = outer.IsDisjointFrom(inner)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestRelationWithConstraint exercises spec §6's relation_with(constraint)
// over the box [0,2]: x<=5 is included, x>=1 strictly intersects, and
// x>=10 is disjoint.
func TestRelationWithConstraint(t *testing.T) {
	t.Parallel()

	box, err := bds.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(2)})
	require.NoError(t, err)

	rel, err := box.RelationWithConstraint(leConst(0, 1, 5)) // x <= 5
	require.NoError(t, err)
	assert.True(t, rel.Implies(polyconstraint.ConIsIncluded))
	assert.False(t, rel.Implies(polyconstraint.ConSaturates))

	rel, err = box.RelationWithConstraint(leConst(0, -1, -1)) // x >= 1
	require.NoError(t, err)
	assert.True(t, rel.Implies(polyconstraint.ConStrictlyIntersects))

	rel, err = box.RelationWithConstraint(leConst(0, -1, -10)) // x >= 10
	require.NoError(t, err)
	assert.True(t, rel.Implies(polyconstraint.ConIsDisjoint))
}

// TestRelationWithGenerator exercises spec §6's relation_with(generator)
// over the box [0,2]: the point 1 is subsumed, the point 5 is not, and a
// ray is not subsumed (a bounded box's recession cone is just the origin).
func TestRelationWithGenerator(t *testing.T) {
	t.Parallel()

	box, err := bds.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(2)})
	require.NoError(t, err)

	pIn, err := polyconstraint.NewPoint(mustVar(t, 0).Scale(big.NewInt(1)), big.NewInt(1))
	require.NoError(t, err)
	rel, err := box.RelationWithGenerator(pIn)
	require.NoError(t, err)
	assert.Equal(t, polyconstraint.GenSubsumes, rel)

	pOut, err := polyconstraint.NewPoint(mustVar(t, 0).Scale(big.NewInt(5)), big.NewInt(1))
	require.NoError(t, err)
	rel, err = box.RelationWithGenerator(pOut)
	require.NoError(t, err)
	assert.Equal(t, polyconstraint.GenNothing, rel)

	ray := polyconstraint.NewRay(mustVar(t, 0))
	rel, err = box.RelationWithGenerator(ray)
	require.NoError(t, err)
	assert.Equal(t, polyconstraint.GenNothing, rel)
}

// TestBoundedAffineImageAndPreimage exercises spec §6's bounded_affine_image
// and bounded_affine_preimage on a two-variable shape.
func TestBoundedAffineImageAndPreimage(t *testing.T) {
	t.Parallel()

	s, err := bds.FromBox(
		[]rational.Ext{rational.FromInt64(0), rational.FromInt64(0)},
		[]rational.Ext{rational.FromInt64(10), rational.FromInt64(10)},
	)
	require.NoError(t, err)

	lb := linexpr.NewConstant(2)
	ub := linexpr.NewConstant(4)
	require.NoError(t, s.BoundedAffineImage(0, lb, ub, big.NewInt(1)))
	lo, bounded, _, err := s.Minimize(mustVar(t, 0))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(lo, rational.FromInt64(2)))
	hi, bounded, _, err := s.Maximize(mustVar(t, 0))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(hi, rational.FromInt64(4)))

	// Preimage: x in [0,10], y pinned to 3; seeding x <- y via preimage
	// with lb=y should tighten x down to 3 (y's own value).
	s2, err := bds.FromBox(
		[]rational.Ext{rational.FromInt64(0), rational.FromInt64(3)},
		[]rational.Ext{rational.FromInt64(10), rational.FromInt64(3)},
	)
	require.NoError(t, err)
	lb2 := mustVar(t, 1)
	require.NoError(t, s2.BoundedAffinePreimage(0, lb2, nil, big.NewInt(1)))
	lo, bounded, _, err = s2.Minimize(mustVar(t, 0))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(lo, rational.FromInt64(3)))
}

// TestGeneralizedAffineExprForms exercises spec §6's expression-form
// generalized_affine_image/preimage: 2*x == y + 1 constrains x to (y+1)/2.
func TestGeneralizedAffineExprForms(t *testing.T) {
	t.Parallel()

	s, err := bds.FromBox(
		[]rational.Ext{rational.FromInt64(0), rational.FromInt64(5)},
		[]rational.Ext{rational.FromInt64(10), rational.FromInt64(5)},
	)
	require.NoError(t, err)

	lhs := mustVar(t, 0).Scale(big.NewInt(2))
	rhs := mustVar(t, 1).Add(linexpr.NewConstant(1))
	require.NoError(t, s.GeneralizedAffineImageExpr(lhs, polyconstraint.EQ, rhs))

	val, bounded, _, err := s.Maximize(mustVar(t, 0))
	require.NoError(t, err)
	require.True(t, bounded)
	want, err := rational.FromFrac(6, 2)
	require.NoError(t, err)
	assert.True(t, rational.Equal(val, want))

	// GeneralizedAffinePreimage, variable-form, v-not-in-e branch: v (idx 0)
	// is bounded by v - z <= 2 (idx 2), and the preimage of the relational
	// assignment v == y (idx 1, which never mentions v) must eliminate v by
	// substituting y for it in that bound, deriving y - z <= 2 on the
	// surviving variables while leaving v itself unconstrained.
	s2, err := bds.FromBox(
		[]rational.Ext{rational.FromInt64(0), rational.FromInt64(0), rational.FromInt64(0)},
		[]rational.Ext{rational.FromInt64(10), rational.FromInt64(10), rational.FromInt64(10)},
	)
	require.NoError(t, err)
	vMinusZ := mustVar(t, 0).Scale(big.NewInt(-1)).Add(mustVar(t, 2)).Add(linexpr.NewConstant(2))
	require.NoError(t, s2.RefineWithConstraint(polyconstraint.NewConstraint(vMinusZ, polyconstraint.GE))) // v - z <= 2

	lhs2 := mustVar(t, 0)
	rhs2 := mustVar(t, 1)
	require.NoError(t, s2.GeneralizedAffinePreimageExpr(lhs2, polyconstraint.EQ, rhs2))

	diff := mustVar(t, 1).Add(mustVar(t, 2).Scale(big.NewInt(-1))) // y - z
	hi, bounded, _, err := s2.Maximize(diff)
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(hi, rational.FromInt64(2)))

	vBoundedAbove, err := s2.BoundsFromAbove(mustVar(t, 0))
	require.NoError(t, err)
	assert.False(t, vBoundedAbove, "v must become free: its old bound was eliminated via substitution")
}

// TestCH78Widening reproduces original_source/BD_Shape.defs.hh's worked
// example: widening {x<=0, y>=0, x-y<=0} against {x<=-1, y>=0} keeps only
// y>=0 (the one cell CH78's two operands agree on exactly), unlike CC76,
// which keeps every cell that next holds steady or tightens.
func TestCH78Widening(t *testing.T) {
	t.Parallel()

	older, err := bds.FromConstraints(2, []*polyconstraint.Constraint{
		leConst(0, 1, 0),  // x <= 0
		leConst(1, -1, 0), // y >= 0
	})
	require.NoError(t, err)
	xy := mustVar(t, 0).Add(mustVar(t, 1).Scale(big.NewInt(-1)))
	require.NoError(t, older.RefineWithConstraint(polyconstraint.NewConstraint(xy.Neg(), polyconstraint.GE))) // x - y <= 0

	newer, err := bds.FromConstraints(2, []*polyconstraint.Constraint{
		leConst(0, 1, -1), // x <= -1
		leConst(1, -1, 0), // y >= 0
	})
	require.NoError(t, err)

	require.NoError(t, older.CH78WideningAssign(newer))

	yLo, bounded, _, err := older.Minimize(mustVar(t, 1))
	require.NoError(t, err)
	require.True(t, bounded)
	assert.True(t, rational.Equal(yLo, rational.FromInt64(0)))

	xBoundedAbove, err := older.BoundsFromAbove(mustVar(t, 0))
	require.NoError(t, err)
	assert.False(t, xBoundedAbove, "x<=0 must be dropped: next tightened it to x<=-1")
}
