// Package source defines the gateways to the two external datasets.
// Raw payloads are normalized at this boundary, so the reconciler
// never handles ad-hoc upstream shapes.
package source

import "context"

const (
	// NameCountries tags errors from the country catalog dataset
	NameCountries = "countries"

	// NameExchange tags errors from the exchange rate dataset
	NameExchange = "exchange"
)

// RawCountry is a normalized country catalog entry.
// Optional upstream fields stay explicit as pointers
type RawCountry struct {
	Capital      *string
	Region       *string
	CurrencyCode *string
	FlagURL      *string
	Name         string
	Population   int64
}

// CountrySource fetches the external country catalog
type CountrySource interface {
	// Name returns the human-readable name of the source
	Name() string

	// FetchCountries fetches and normalizes the full country catalog
	FetchCountries(context.Context) ([]RawCountry, error)
}

// RateSource fetches the external exchange rate table
type RateSource interface {
	// Name returns the human-readable name of the source
	Name() string

	// FetchRates fetches the USD-based exchange rate table,
	// keyed by currency code
	FetchRates(context.Context) (map[string]float64, error)
}
