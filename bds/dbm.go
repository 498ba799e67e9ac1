// SPDX-License-Identifier: MIT
// Package bds implements the Difference-Bound Matrix (DBM) and the
// BD_Shape abstract domain built on it (spec §3 DBM, §4.3 shortest-path
// closure). Storage is adapted from the teacher's flat row-major Dense
// (lvlath/matrix/dense.go): a single []rational.Ext slice addressed as
// row*order+col, trading the teacher's float64 cells for exact
// rational.Ext ones since the core contract is specified over exact
// rationals (spec §1 Non-goals).
package bds

import "github.com/katalvlaran/polycore/rational"

// dbm is the (n+1)x(n+1) array of N where m[i][j] upper-bounds x_j - x_i
// and variable 0 is the fictitious zero (spec §3). Diagonal entries are
// logically zero and physically stored as +Inf (spec §3: "Diagonal entries
// hold +∞ by convention").
type dbm struct {
	order int // n+1
	data  []rational.Ext
}

// newDBM allocates an (n+1)x(n+1) matrix with every entry +Inf (the
// representation of the universe polyhedron before any constraint is
// added).
func newDBM(spaceDim int) *dbm {
	order := spaceDim + 1
	d := &dbm{order: order, data: make([]rational.Ext, order*order)}
	for i := range d.data {
		d.data[i] = rational.PlusInfinity()
	}
	for i := 0; i < order; i++ {
		d.data[i*order+i] = rational.PlusInfinity() // diagonal stays +Inf (logical 0)
	}
	return d
}

// spaceDim returns n (order-1).
func (d *dbm) spaceDim() int { return d.order - 1 }

// at returns m[i][j].
func (d *dbm) at(i, j int) rational.Ext { return d.data[i*d.order+j] }

// set assigns m[i][j] = v.
func (d *dbm) set(i, j int, v rational.Ext) { d.data[i*d.order+j] = v }

// clone returns an independent deep copy.
func (d *dbm) clone() *dbm {
	c := &dbm{order: d.order, data: make([]rational.Ext, len(d.data))}
	copy(c.data, d.data)
	return c
}

// forEachOffDiagonal invokes f(i, j) for every cell outside the diagonal,
// in deterministic row-major order; used by closure, reduction, widening.
func (d *dbm) forEachOffDiagonal(f func(i, j int)) {
	for i := 0; i < d.order; i++ {
		for j := 0; j < d.order; j++ {
			if i != j {
				f(i, j)
			}
		}
	}
}

// hasNegativeDiagonal reports whether any diagonal entry is strictly
// negative, the shortest-path-closure emptiness witness (spec §4.3). The
// diagonal is logically 0 and physically +Inf in a well-formed matrix, so
// this only fires transiently during closure before the diagonal is
// restored.
func (d *dbm) hasNegativeDiagonal() bool {
	for i := 0; i < d.order; i++ {
		if rational.Less(d.at(i, i), rational.Zero()) {
			return true
		}
	}
	return false
}
