package lll

import "log/slog"

// Options configures the precision-escalation wrapper the way gonum's
// optimize.Settings configures a Method (SPEC_FULL.md §2.1): functional
// options over a small struct, defaults filled in by NewOptions.
type Options struct {
	Logger          *slog.Logger
	MaxLinearTries  int
	MaxPrecisionBit uint
}

// Option configures an Options value.
type Option func(*Options)

// WithLogger overrides the wrapper's logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMaxIter sets how many linear-growth precision tries (each adding
// dBits) are attempted before switching to doubling (spec.md §4.3;
// default 20).
func WithMaxIter(n int) Option {
	return func(o *Options) { o.MaxLinearTries = n }
}

// WithPrecisionSchedule caps the precision (in bits) the wrapper will
// escalate to before giving up instead of looping forever (spec.md
// §4.3's "stop when precision would overflow the word type" translated
// to a concrete, finite ceiling for a managed-memory runtime).
func WithPrecisionSchedule(maxBits uint) Option {
	return func(o *Options) { o.MaxPrecisionBit = maxBits }
}

// NewOptions builds an Options value from the given functional options,
// defaulting to slog.Default(), 20 linear tries, and a 1<<20-bit
// precision ceiling.
func NewOptions(opts ...Option) Options {
	o := Options{
		Logger:          slog.Default(),
		MaxLinearTries:  20,
		MaxPrecisionBit: 1 << 20,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
