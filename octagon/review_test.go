package octagon_test

import (
	"math/big"
	"testing"

	"github.com/katalvlaran/polycore/linexpr"
	"github.com/katalvlaran/polycore/octagon"
	"github.com/katalvlaran/polycore/polyconstraint"
	"github.com/katalvlaran/polycore/rational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOctagonContainsAndDisjoint exercises spec §6's contains/
// strictly_contains/is_disjoint_from on OctagonalShape.
func TestOctagonContainsAndDisjoint(t *testing.T) {
	t.Parallel()

	outer, err := octagon.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(3)})
	require.NoError(t, err)
	inner, err := octagon.FromBox([]rational.Ext{rational.FromInt64(1)}, []rational.Ext{rational.FromInt64(2)})
	require.NoError(t, err)
	far, err := octagon.FromBox([]rational.Ext{rational.FromInt64(5)}, []rational.Ext{rational.FromInt64(6)})
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
}

// TestOctagonRelationWithConstraint exercises spec §6's
// relation_with(constraint) over the box [0,2].
func TestOctagonRelationWithConstraint(t *testing.T) {
	t.Parallel()

	box, err := octagon.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(2)})
	require.NoError(t, err)

	rel, err := box.RelationWithConstraint(unaryConst(0, 1, 5)) // x <= 5
	require.NoError(t, err)
	assert.True(t, rel.Implies(polyconstraint.ConIsIncluded))

	rel, err = box.RelationWithConstraint(unaryConst(0, -1, -1)) // x >= 1
	require.NoError(t, err)
	assert.True(t, rel.Implies(polyconstraint.ConStrictlyIntersects))

	rel, err = box.RelationWithConstraint(unaryConst(0, -1, -10)) // x >= 10
	require.NoError(t, err)
	assert.True(t, rel.Implies(polyconstraint.ConIsDisjoint))
}

// TestOctagonRelationWithGenerator exercises spec §6's
// relation_with(generator) over the box [0,2].
func TestOctagonRelationWithGenerator(t *testing.T) {
	t.Parallel()

	box, err := octagon.FromBox([]rational.Ext{rational.FromInt64(0)}, []rational.Ext{rational.FromInt64(2)})
	require.NoError(t, err)

	pIn, err := polyconstraint.NewPoint(mustVar(t, 0), big.NewInt(1))
	require.NoError(t, err)
	rel, err := box.RelationWithGenerator(pIn)
	require.NoError(t, err)
	assert.Equal(t, polyconstraint.GenSubsumes, rel)

	pOut, err := polyconstraint.NewPoint(mustVar(t, 0).Scale(big.NewInt(5)), big.NewInt(1))
	require.NoError(t, err)
	rel, err = box.RelationWithGenerator(pOut)
	require.NoError(t, err)
	assert.Equal(t, polyconstraint.GenNothing, rel)
}

// TestOctagonBoundedAffineImageAndPreimage exercises spec §6's
// bounded_affine_image and bounded_affine_preimage.
func TestOctagonBoundedAffineImageAndPreimage(t *testing.T) {
	t.Parallel()

	s, err := octagon.FromBox(
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

	s2, err := octagon.FromBox(
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

// TestOctagonGeneralizedAffineExprForms exercises spec §6's expression-form
// generalized_affine_image/preimage on OctagonalShape, mirroring the bds
// package's coverage of the same operations.
func TestOctagonGeneralizedAffineExprForms(t *testing.T) {
	t.Parallel()

	s, err := octagon.FromBox(
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
	// is bounded by v - z <= 2 (idx 2); eliminating v via the relational
	// assignment v == y (idx 1) must substitute y for v in that bound,
	// deriving y - z <= 2 while leaving v itself unconstrained.
	s2, err := octagon.FromBox(
		[]rational.Ext{rational.FromInt64(0), rational.FromInt64(0), rational.FromInt64(0)},
		[]rational.Ext{rational.FromInt64(10), rational.FromInt64(10), rational.FromInt64(10)},
	)
	require.NoError(t, err)
	require.NoError(t, s2.AddConstraint(pairConst(0, 1, 2, -1, 2))) // v - z <= 2

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
