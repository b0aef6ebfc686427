// Package openerapi fetches USD-based exchange rates from open.er-api.com
package openerapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sig-0/countryfacts/apperrors"
	"github.com/sig-0/countryfacts/source"
)

const DefaultURL = "https://open.er-api.com/v6/latest/USD"

var errMissingRates = errors.New("payload is missing rates")

// ratesPayload is the raw open.er-api.com response
type ratesPayload struct {
	Rates map[string]float64 `json:"rates"`
}

// Source is the open.er-api.com exchange rate gateway
type Source struct {
	client *http.Client
	url    string
}

// New creates a new instance of the exchange rate gateway
func New(url string, timeout time.Duration) *Source {
	return &Source{
		client: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

func (s *Source) Name() string {
	return "open.er-api.com"
}

func (s *Source) FetchRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(
			source.NameExchange,
			fmt.Errorf("unable to create GET request: %w", err),
		)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(
			source.NameExchange,
			fmt.Errorf("unable to execute GET request: %w", err),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewSourceUnavailable(
			source.NameExchange,
			fmt.Errorf("invalid status code received: %d", resp.StatusCode),
		)
	}

	var payload ratesPayload

	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewSourceUnavailable(
			source.NameExchange,
			fmt.Errorf("unable to decode response: %w", err),
		)
	}

	if len(payload.Rates) == 0 {
		return nil, apperrors.NewSourceUnavailable(source.NameExchange, errMissingRates)
	}

	return payload.Rates, nil
}
