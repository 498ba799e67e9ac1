// Package polycore implements the core numerical engine of a
// weakly-relational abstract-domain library: Bounded-Difference Shapes,
// Octagonal Shapes, an exact-rational LP simplex solver, and a linear
// ranking-function termination analyzer.
//
// Everything is built over exact, unbounded-precision rational arithmetic
// (package rational) and a sparse linear-expression layer (package
// linexpr); package polyconstraint tags expressions with their relation
// (equality / inequality) or their role as a generator (point, ray, line).
//
// The two shape domains, bds and octagon, each maintain a closure-invariant
// difference matrix and expose the standard abstract-domain operations:
// construction, refinement, meet/join, widening/narrowing, affine transfer
// functions, and ASCII persistence. Package simplex provides the exact LP
// solver that package termination builds on; the shape domains answer their
// queries from the matrix alone. Package hull specifies, but does not
// implement, the external double-description convex-polyhedron interface
// that bds H79 widening and the termination ranking-function enumeration
// accept as a caller-supplied collaborator.
package polycore
