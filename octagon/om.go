// SPDX-License-Identifier: MIT
package octagon

import "github.com/katalvlaran/polycore/rational"

// om is the 2n x 2n octagonal matrix: row/column 2k represents +x_k,
// row/column 2k+1 represents -x_k, and m[i][j] upper-bounds v_j - v_i
// (spec §3). Unlike the DBM, the matrix is logically "pseudo-triangular"
// (only entries with row >= col are independent; the rest follow from
// coherence), but storage here is a plain dense n2 x n2 slice for
// simplicity and uniformity with dbm's flat row-major layout
// (lvlath/matrix/dense.go).
type om struct {
	spaceDim int // n
	order    int // 2n
	data     []rational.Ext
}

// newOM allocates a 2n x 2n matrix with every off-diagonal entry +Inf.
func newOM(n int) *om {
	order := 2 * n
	o := &om{spaceDim: n, order: order, data: make([]rational.Ext, order*order)}
	for i := range o.data {
		o.data[i] = rational.PlusInfinity()
	}
	return o
}

func (o *om) at(i, j int) rational.Ext { return o.data[i*o.order+j] }

// set stores v at (i,j) and, since the full dense matrix holds both halves
// of the logically pseudo-triangular representation, mirrors it to
// (coh(j),coh(i)) — the same entry under coherence (spec §3: "m[i][j] =
// m[coh(j)][coh(i)]"), so the matrix never drifts out of that invariant
// between constraint insertion and closure.
func (o *om) set(i, j int, v rational.Ext) {
	o.data[i*o.order+j] = v
	mi, mj := coh(j), coh(i)
	o.data[mi*o.order+mj] = v
}

func (o *om) clone() *om {
	c := &om{spaceDim: o.spaceDim, order: o.order, data: make([]rational.Ext, len(o.data))}
	copy(c.data, o.data)
	return c
}

// coh returns the complementary literal index: coh(2k)=2k+1, coh(2k+1)=2k
// (spec §3: coh(k) = k XOR 1).
func coh(k int) int { return k ^ 1 }

func (o *om) forEachOffDiagonal(f func(i, j int)) {
	for i := 0; i < o.order; i++ {
		for j := 0; j < o.order; j++ {
			if i != j {
				f(i, j)
			}
		}
	}
}

func (o *om) hasNegativeDiagonal() bool {
	for i := 0; i < o.order; i++ {
		if rational.Less(o.at(i, i), rational.Zero()) {
			return true
		}
	}
	return false
}
