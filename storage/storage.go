package storage

import (
	"context"
	"time"

	"github.com/sig-0/countryfacts/storage/types"
)

// Storage is an abstraction over reconciled country data
type Storage interface {
	// UpsertCountries persists the given batch by name, all-or-nothing.
	// Every touched record is stamped with the given refresh time
	UpsertCountries(context.Context, []*types.Country, time.Time) (*types.RefreshOutcome, error)

	// GetCountry fetches a single record by its exact name
	GetCountry(context.Context, string) (*types.Country, error)

	// DeleteCountry removes a single record by its exact name
	DeleteCountry(context.Context, string) error

	// ListCountries runs a filtered, sorted, paginated snapshot query
	ListCountries(context.Context, *types.ListQuery) (*types.Page[*types.Country], error)

	// Stats aggregates the stored records
	Stats(context.Context) (*types.Stats, error)

	// TopCountriesByGDP lists the top-n records by estimated GDP,
	// skipping records without an estimate
	TopCountriesByGDP(context.Context, int) ([]*types.Country, error)
}
