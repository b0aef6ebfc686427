// Package refresh runs the full batch reconciliation pipeline:
// fetch both datasets, join them, and upsert the result.
package refresh

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/countryfacts/reconcile"
	"github.com/sig-0/countryfacts/source"
	"github.com/sig-0/countryfacts/storage"
	"github.com/sig-0/countryfacts/storage/types"
)

// Clock returns the current time for a refresh batch
type Clock func() time.Time

// Refresher is the refresh pipeline over the two source
// gateways and the shared store
type Refresher struct {
	countries source.CountrySource
	rates     source.RateSource
	store     storage.Storage

	policy reconcile.GDPPolicy
	clock  Clock
	logger *slog.Logger
}

// New creates a new Refresher instance
func New(
	countries source.CountrySource,
	rates source.RateSource,
	store storage.Storage,
	opts ...Option,
) *Refresher {
	r := &Refresher{
		countries: countries,
		rates:     rates,
		store:     store,
		policy:    reconcile.EstimateGDP,
		clock:     time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	// Apply the options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Refresh fetches both datasets concurrently, reconciles them and
// upserts the result as a single batch. If either fetch fails, the
// refresh fails atomically with no partial writes
func (r *Refresher) Refresh(ctx context.Context) (*types.RefreshOutcome, error) {
	var (
		rawCountries []source.RawCountry
		rates        map[string]float64
	)

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error

		rawCountries, err = r.countries.FetchCountries(gCtx)

		return err
	})

	group.Go(func() error {
		var err error

		rates, err = r.rates.FetchRates(gCtx)

		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	now := r.clock().UTC()

	records := reconcile.Reconcile(rawCountries, rates, now, r.policy)

	outcome, err := r.store.UpsertCountries(ctx, records, now)
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"countries refreshed",
		"added", outcome.Added,
		"updated", outcome.Updated,
		"refreshed_at", outcome.RefreshedAt.String(),
	)

	return outcome, nil
}
