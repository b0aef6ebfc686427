// Package reconcile joins the country catalog with the exchange rate
// table into enriched country records. It is a pure function of its
// inputs plus the injected clock, with no persistence side effects.
package reconcile

import (
	"time"

	"github.com/sig-0/countryfacts/source"
	"github.com/sig-0/countryfacts/storage/types"
)

// GDPMultiplier is the fixed currency-strength proxy factor
// used by the default GDP policy
const GDPMultiplier = 1500

// GDPPolicy derives an economic estimate from a population
// and a USD-based exchange rate
type GDPPolicy func(population int64, rate float64) float64

// EstimateGDP is the default GDP policy:
//
//	estimated_gdp = population * GDPMultiplier / rate
//
// The estimate grows with population and with currency strength
// (a lower rate means a stronger currency against the base)
func EstimateGDP(population int64, rate float64) float64 {
	return float64(population) * GDPMultiplier / rate
}

// Reconcile joins the normalized country catalog with the exchange rate
// table, keyed by currency code. Records whose code is absent or has no
// known rate carry no GDP estimate. Duplicate names within the catalog
// resolve last-occurrence-wins, keeping the first-seen position
func Reconcile(
	countries []source.RawCountry,
	rates map[string]float64,
	now time.Time,
	policy GDPPolicy,
) []*types.Country {
	if policy == nil {
		policy = EstimateGDP
	}

	var (
		out       = make([]*types.Country, 0, len(countries))
		positions = make(map[string]int, len(countries))
	)

	for _, raw := range countries {
		record := &types.Country{
			Name:            raw.Name,
			Capital:         raw.Capital,
			Region:          raw.Region,
			CurrencyCode:    raw.CurrencyCode,
			FlagURL:         raw.FlagURL,
			Population:      raw.Population,
			LastRefreshedAt: now.UTC(),
		}

		if record.Population < 0 {
			record.Population = 0
		}

		if raw.CurrencyCode != nil {
			if rate, ok := rates[*raw.CurrencyCode]; ok && rate > 0 {
				gdp := policy(record.Population, rate)

				record.ExchangeRate = &rate
				record.EstimatedGDP = &gdp
			}
		}

		if pos, seen := positions[record.Name]; seen {
			out[pos] = record // last occurrence wins

			continue
		}

		positions[record.Name] = len(out)
		out = append(out, record)
	}

	return out
}
