// Package restcountries fetches the country catalog from restcountries.com
package restcountries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sig-0/countryfacts/apperrors"
	"github.com/sig-0/countryfacts/source"
)

const DefaultURL = "https://restcountries.com/v2/all" +
	"?fields=name,capital,region,population,flag,currencies"

// countryPayload is the raw restcountries.com v2 entry
type countryPayload struct {
	Name       string            `json:"name"`
	Capital    string            `json:"capital"`
	Region     string            `json:"region"`
	Flag       string            `json:"flag"`
	Currencies []currencyPayload `json:"currencies"`
	Population int64             `json:"population"`
}

type currencyPayload struct {
	Code string `json:"code"`
}

// Source is the restcountries.com catalog gateway
type Source struct {
	client *http.Client
	url    string
}

// New creates a new instance of the restcountries gateway
func New(url string, timeout time.Duration) *Source {
	return &Source{
		client: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

func (s *Source) Name() string {
	return "restcountries.com"
}

func (s *Source) FetchCountries(ctx context.Context) ([]source.RawCountry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(
			source.NameCountries,
			fmt.Errorf("unable to create GET request: %w", err),
		)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(
			source.NameCountries,
			fmt.Errorf("unable to execute GET request: %w", err),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewSourceUnavailable(
			source.NameCountries,
			fmt.Errorf("invalid status code received: %d", resp.StatusCode),
		)
	}

	var payload []countryPayload

	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewSourceUnavailable(
			source.NameCountries,
			fmt.Errorf("unable to decode response: %w", err),
		)
	}

	out := make([]source.RawCountry, 0, len(payload))

	for _, entry := range payload {
		if entry.Name == "" {
			continue // unusable without the key
		}

		out = append(out, normalizeCountry(entry))
	}

	return out, nil
}

// normalizeCountry flattens the raw payload into the fixed
// intermediate shape. The first listed currency code wins,
// a missing population defaults to 0
func normalizeCountry(entry countryPayload) source.RawCountry {
	raw := source.RawCountry{
		Name:       entry.Name,
		Capital:    optional(entry.Capital),
		Region:     optional(entry.Region),
		FlagURL:    optional(entry.Flag),
		Population: entry.Population,
	}

	if raw.Population < 0 {
		raw.Population = 0
	}

	for _, currency := range entry.Currencies {
		if currency.Code != "" {
			code := currency.Code
			raw.CurrencyCode = &code

			break
		}
	}

	return raw
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
