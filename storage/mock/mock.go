package mock

import (
	"context"
	"time"

	"github.com/sig-0/countryfacts/storage/types"
)

type (
	UpsertCountriesDelegate   func(context.Context, []*types.Country, time.Time) (*types.RefreshOutcome, error)
	GetCountryDelegate        func(context.Context, string) (*types.Country, error)
	DeleteCountryDelegate     func(context.Context, string) error
	ListCountriesDelegate     func(context.Context, *types.ListQuery) (*types.Page[*types.Country], error)
	StatsDelegate             func(context.Context) (*types.Stats, error)
	TopCountriesByGDPDelegate func(context.Context, int) ([]*types.Country, error)
)

type Storage struct {
	UpsertCountriesFn   UpsertCountriesDelegate
	GetCountryFn        GetCountryDelegate
	DeleteCountryFn     DeleteCountryDelegate
	ListCountriesFn     ListCountriesDelegate
	StatsFn             StatsDelegate
	TopCountriesByGDPFn TopCountriesByGDPDelegate
}

func (m *Storage) UpsertCountries(
	ctx context.Context,
	records []*types.Country,
	now time.Time,
) (*types.RefreshOutcome, error) {
	if m.UpsertCountriesFn != nil {
		return m.UpsertCountriesFn(ctx, records, now)
	}

	return &types.RefreshOutcome{}, nil
}

func (m *Storage) GetCountry(ctx context.Context, name string) (*types.Country, error) {
	if m.GetCountryFn != nil {
		return m.GetCountryFn(ctx, name)
	}

	return nil, nil
}

func (m *Storage) DeleteCountry(ctx context.Context, name string) error {
	if m.DeleteCountryFn != nil {
		return m.DeleteCountryFn(ctx, name)
	}

	return nil
}

func (m *Storage) ListCountries(
	ctx context.Context,
	query *types.ListQuery,
) (*types.Page[*types.Country], error) {
	if m.ListCountriesFn != nil {
		return m.ListCountriesFn(ctx, query)
	}

	return nil, nil
}

func (m *Storage) Stats(ctx context.Context) (*types.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}

	return nil, nil
}

func (m *Storage) TopCountriesByGDP(ctx context.Context, n int) ([]*types.Country, error) {
	if m.TopCountriesByGDPFn != nil {
		return m.TopCountriesByGDPFn(ctx, n)
	}

	return nil, nil
}
