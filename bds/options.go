// SPDX-License-Identifier: MIT
// Package bds: functional configuration for the cooperative cancellation
// and weight-watch budget hooks described in spec §5. Mirrors the teacher's
// functional-options shape (lvlath/dijkstra.Option, lvlath/matrix.Option):
// an options struct with unexported fields, With... constructors, a
// Default... builder.
package bds

// Options configures cancellation and budget behavior for a single BDShape.
// The zero value disables both hooks (no cancellation, no budget).
type Options struct {
	abandon func() bool
	onBudgetExhausted func()
	budget int
}

// Option is a functional option for Options.
type Option func(*Options)

// DefaultOptions returns Options with cancellation and budget disabled.
func DefaultOptions() Options {
	return Options{}
}

// WithAbandonFlag installs a cooperative cancellation predicate: closure
// and widening hot loops poll it and return ErrAbandoned as soon as it
// reports true (spec §5: "a cooperative 'abandon expensive computations'
// flag is read by closure / LP-solving hot loops").
func WithAbandonFlag(abandon func() bool) Option {
	return func(o *Options) { o.abandon = abandon }
}

// WithWeightWatch installs a step budget: every costly step (one Floyd–
// Warshall pivot of ShortestPathClosure) decrements the budget, and
// onExhausted is invoked exactly once when it crosses zero (spec §5:
// "weight-watch counter ... invokes a user-supplied callback when it
// crosses zero, allowing budget-based deadlines"). steps <= 0 disables the
// watch.
func WithWeightWatch(steps int, onExhausted func()) Option {
	return func(o *Options) {
		o.budget = steps
		o.onBudgetExhausted = onExhausted
	}
}

// shouldAbandon reports whether the caller's cancellation flag is set.
func (o *Options) shouldAbandon() bool {
	return o.abandon != nil && o.abandon()
}

// tick decrements the weight-watch budget by one step, invoking the
// callback exactly once when the budget crosses zero.
func (o *Options) tick() {
	if o.onBudgetExhausted == nil || o.budget <= 0 {
		return
	}
	o.budget--
	if o.budget == 0 {
		o.onBudgetExhausted()
	}
}
