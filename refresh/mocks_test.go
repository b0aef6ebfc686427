package refresh

import (
	"context"

	"github.com/sig-0/countryfacts/source"
)

type (
	fetchCountriesDelegate func(context.Context) ([]source.RawCountry, error)
	fetchRatesDelegate     func(context.Context) (map[string]float64, error)
)

type mockCountrySource struct {
	fetchCountriesFn fetchCountriesDelegate
}

func (m *mockCountrySource) Name() string {
	return "mock-countries"
}

func (m *mockCountrySource) FetchCountries(ctx context.Context) ([]source.RawCountry, error) {
	if m.fetchCountriesFn != nil {
		return m.fetchCountriesFn(ctx)
	}

	return nil, nil
}

type mockRateSource struct {
	fetchRatesFn fetchRatesDelegate
}

func (m *mockRateSource) Name() string {
	return "mock-rates"
}

func (m *mockRateSource) FetchRates(ctx context.Context) (map[string]float64, error) {
	if m.fetchRatesFn != nil {
		return m.fetchRatesFn(ctx)
	}

	return nil, nil
}
