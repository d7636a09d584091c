package unhalo

import "log/slog"

// DefaultThreshold is the brightness cutoff used when no threshold is given.
const DefaultThreshold = 240

// Option configures a Filter during creation.
//
// Example:
//
//	// Default threshold (240)
//	f := unhalo.NewFilter()
//
//	// Stricter cutoff, clamped to the valid channel range
//	f := unhalo.NewFilter(unhalo.WithThreshold(250), unhalo.WithClampThreshold())
type Option func(*options)

// options holds optional configuration for Filter creation.
type options struct {
	threshold int
	clamp     bool
	logger    *slog.Logger
}

// defaultOptions returns the default filter options.
func defaultOptions() options {
	return options{
		threshold: DefaultThreshold,
		logger:    nil, // Falls back to the package logger
	}
}

// WithThreshold sets the brightness threshold.
//
// Values outside [0, 255] are accepted as given unless WithClampThreshold is
// also used: a threshold above 255 makes the hard-white and average-white
// rules unreachable, and a threshold of zero or below matches every pixel.
func WithThreshold(t int) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithClampThreshold clamps the threshold to [0, 255].
func WithClampThreshold() Option {
	return func(o *options) {
		o.clamp = true
	}
}

// WithLogger sets a logger for this filter only.
// Without it the filter logs through the package logger (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
