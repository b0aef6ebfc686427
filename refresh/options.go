package refresh

import (
	"log/slog"

	"github.com/sig-0/countryfacts/reconcile"
)

type Option func(r *Refresher)

// WithLogger specifies the logger for the refresher
func WithLogger(l *slog.Logger) Option {
	return func(r *Refresher) {
		r.logger = l
	}
}

// WithClock specifies the refresh timestamp source.
// Defaults to time.Now
func WithClock(c Clock) Option {
	return func(r *Refresher) {
		r.clock = c
	}
}

// WithGDPPolicy specifies the GDP derivation policy.
// Defaults to reconcile.EstimateGDP
func WithGDPPolicy(p reconcile.GDPPolicy) Option {
	return func(r *Refresher) {
		r.policy = p
	}
}
