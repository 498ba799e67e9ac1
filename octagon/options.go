// SPDX-License-Identifier: MIT
package octagon

// Options configures cancellation and budget behavior for a single
// OctagonalShape, identical in shape to bds.Options (lvlath/matrix.Option
// functional-options convention, spec §5).
type Options struct {
	abandon           func() bool
	onBudgetExhausted func()
	budget            int
}

// Option is a functional option for Options.
type Option func(*Options)

// DefaultOptions returns Options with cancellation and budget disabled.
func DefaultOptions() Options {
	return Options{}
}

// WithAbandonFlag installs a cooperative cancellation predicate.
func WithAbandonFlag(abandon func() bool) Option {
	return func(o *Options) { o.abandon = abandon }
}

// WithWeightWatch installs a step budget; onExhausted fires once when the
// budget crosses zero.
func WithWeightWatch(steps int, onExhausted func()) Option {
	return func(o *Options) {
		o.budget = steps
		o.onBudgetExhausted = onExhausted
	}
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
