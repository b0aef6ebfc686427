package types

import (
	"time"

	"github.com/sig-0/countryfacts/apperrors"
)

// Country is a single reconciled country record.
// The name is the natural key (case-sensitive, unique)
type Country struct {
	Capital         *string   `json:"capital"`
	Region          *string   `json:"region"`
	CurrencyCode    *string   `json:"currency_code"`
	ExchangeRate    *float64  `json:"exchange_rate"`
	EstimatedGDP    *float64  `json:"estimated_gdp"`
	FlagURL         *string   `json:"flag_url"`
	Name            string    `json:"name"`
	Population      int64     `json:"population"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

// RefreshOutcome wraps the result of a single batch upsert.
// It is returned once per refresh call and never persisted
type RefreshOutcome struct {
	RefreshedAt time.Time `json:"last_refreshed_at"`
	Added       int       `json:"countries_added"`
	Updated     int       `json:"countries_updated"`
}

// Sort is a fixed ordering token for country listings
type Sort string

const (
	SortGDPAsc         Sort = "gdp_asc"
	SortGDPDesc        Sort = "gdp_desc"
	SortPopulationAsc  Sort = "population_asc"
	SortPopulationDesc Sort = "population_desc"
	SortNameAsc        Sort = "name_asc"
	SortNameDesc       Sort = "name_desc"
)

func (s Sort) String() string {
	return string(s)
}

// ParseSort parses the raw sort token.
// An empty token defaults to name_asc, so the resulting
// order stays deterministic for pagination
func ParseSort(raw string) (Sort, error) {
	if raw == "" {
		return SortNameAsc, nil
	}

	s := Sort(raw)

	switch s {
	case SortGDPAsc, SortGDPDesc,
		SortPopulationAsc, SortPopulationDesc,
		SortNameAsc, SortNameDesc:
		return s, nil
	default:
		return "", apperrors.NewValidation("sort", "unknown sort token")
	}
}

// ListQuery captures the filter / sort / pagination parameters
// for a country listing. Nil filter fields match everything,
// a nil limit means "all remaining records"
type ListQuery struct {
	Region   *string `json:"region"`
	Currency *string `json:"currency"`
	Limit    *int64  `json:"limit"`
	Sort     Sort    `json:"sort"`
	Skip     int64   `json:"skip"`
}

// Validate checks the pagination bounds
func (q *ListQuery) Validate() error {
	if q.Skip < 0 {
		return apperrors.NewValidation("skip", "must be non-negative")
	}

	if q.Limit != nil && *q.Limit < 0 {
		return apperrors.NewValidation("limit", "must be non-negative")
	}

	return nil
}

// Page wraps the results for pagination.
// Total is the filtered record count, before skip / limit
type Page[T any] struct {
	Results []T   `json:"results"`
	Total   int64 `json:"total"`
}

// Stats is the read-only aggregate over the stored records,
// consumed by the status endpoint and the summary renderer
type Stats struct {
	LastRefreshedAt *time.Time       `json:"last_refreshed_at"`
	Regions         map[string]int64 `json:"regions"`
	TotalCountries  int64            `json:"total_countries"`
}
