// SPDX-License-Identifier: MIT
// Package simplex: functional configuration, mirroring bds.Options /
// octagon.Options (themselves grounded on lvlath/dijkstra.Option /
// lvlath/matrix.Option): unexported options struct, With... constructors.
package simplex

// Options configures a single LPProblem's cancellation, budget, pricing
// strategy, and tableau size limit.
type Options struct {
	abandon           func() bool
	onBudgetExhausted func()
	budget            int
	forceBland        bool
	maxColumns        int
}

// Option is a functional option for Options.
type Option func(*Options)

// defaultMaxColumns bounds tableau growth before ErrLengthExceeded fires
// (spec §4.8); generous enough that no realistic shape-engine query trips
// it, matching the "maximum supported size" language without hard-coding a
// suspiciously small number.
const defaultMaxColumns = 1 << 16

// DefaultOptions returns Options with cancellation and budget disabled,
// steepest-edge pricing enabled, and the default column limit.
func DefaultOptions() Options {
	return Options{maxColumns: defaultMaxColumns}
}

// WithAbandonFlag installs a cooperative cancellation predicate polled once
// per pivot (spec §5).
func WithAbandonFlag(abandon func() bool) Option {
	return func(o *Options) { o.abandon = abandon }
}

// WithWeightWatch installs a step budget decremented once per pivot,
// invoking onExhausted exactly once when it crosses zero (spec §5). steps
// <= 0 disables the watch.
func WithWeightWatch(steps int, onExhausted func()) Option {
	return func(o *Options) {
		o.budget = steps
		o.onBudgetExhausted = onExhausted
	}
}

// WithBlandOnly disables steepest-edge pricing and always selects the
// first column with a negative reduced cost, the "plain first improving
// column" fallback spec §4.8 names explicitly.
func WithBlandOnly() Option {
	return func(o *Options) { o.forceBland = true }
}

// WithMaxColumns overrides the tableau's maximum column count.
func WithMaxColumns(n int) Option {
	return func(o *Options) { o.maxColumns = n }
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, f := range opts {
		f(&o)
	}
	return o
}

func (o *Options) shouldAbandon() bool {
	return o.abandon != nil && o.abandon()
}

func (o *Options) tick() {
	if o.onBudgetExhausted == nil || o.budget <= 0 {
		return
	}
	o.budget--
	if o.budget == 0 {
		o.onBudgetExhausted()
	}
}
