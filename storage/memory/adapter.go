package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sig-0/countryfacts/apperrors"
	"github.com/sig-0/countryfacts/storage/types"
)

type Storage struct {
	data map[string]types.Country // keyed by exact name

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[string]types.Country),
	}
}

func (s *Storage) UpsertCountries(
	_ context.Context,
	records []*types.Country,
	now time.Time,
) (*types.RefreshOutcome, error) {
	outcome := &types.RefreshOutcome{
		RefreshedAt: now.UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		elem := *record
		elem.LastRefreshedAt = now.UTC()

		if _, exists := s.data[elem.Name]; exists {
			outcome.Updated++
		} else {
			outcome.Added++
		}

		s.data[elem.Name] = elem
	}

	return outcome, nil
}

func (s *Storage) GetCountry(_ context.Context, name string) (*types.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elem, ok := s.data[name]
	if !ok {
		return nil, apperrors.NewNotFound(name)
	}

	cp := elem

	return &cp, nil
}

func (s *Storage) DeleteCountry(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[name]; !ok {
		return apperrors.NewNotFound(name)
	}

	delete(s.data, name)

	return nil
}

func (s *Storage) ListCountries(
	_ context.Context,
	query *types.ListQuery,
) (*types.Page[*types.Country], error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()

	out := make([]*types.Country, 0, len(s.data))

	for _, v := range s.data {
		if query.Region != nil && !equalFold(v.Region, *query.Region) {
			continue
		}

		if query.Currency != nil && !equalFold(v.CurrencyCode, *query.Currency) {
			continue
		}

		cp := v
		out = append(out, &cp)
	}

	s.mu.RUnlock()

	sortCountries(out, query.Sort)

	total := int64(len(out))

	// Drop the head
	if query.Skip >= total {
		return &types.Page[*types.Country]{
			Results: nil,
			Total:   total,
		}, nil
	}

	out = out[query.Skip:]

	// Cap the tail
	if query.Limit != nil && *query.Limit < int64(len(out)) {
		out = out[:*query.Limit]
	}

	return &types.Page[*types.Country]{
		Results: out,
		Total:   total,
	}, nil
}

func (s *Storage) Stats(_ context.Context) (*types.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &types.Stats{
		TotalCountries: int64(len(s.data)),
		Regions:        make(map[string]int64),
	}

	for _, v := range s.data {
		if v.Region != nil && *v.Region != "" {
			stats.Regions[*v.Region]++
		}

		if stats.LastRefreshedAt == nil || v.LastRefreshedAt.After(*stats.LastRefreshedAt) {
			ts := v.LastRefreshedAt
			stats.LastRefreshedAt = &ts
		}
	}

	return stats, nil
}

func (s *Storage) TopCountriesByGDP(_ context.Context, n int) ([]*types.Country, error) {
	s.mu.RLock()

	out := make([]*types.Country, 0, len(s.data))

	for _, v := range s.data {
		if v.EstimatedGDP == nil {
			continue
		}

		cp := v
		out = append(out, &cp)
	}

	s.mu.RUnlock()

	sortCountries(out, types.SortGDPDesc)

	if n >= 0 && n < len(out) {
		out = out[:n]
	}

	return out, nil
}

// sortCountries orders the records into a deterministic total order:
// missing GDP estimates trail all present values regardless of direction,
// and ties within identical sort keys break by name ascending
func sortCountries(items []*types.Country, s types.Sort) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]

		switch s {
		case types.SortGDPAsc, types.SortGDPDesc:
			if less, decided := compareGDP(a, b, s == types.SortGDPDesc); decided {
				return less
			}
		case types.SortPopulationAsc:
			if a.Population != b.Population {
				return a.Population < b.Population
			}
		case types.SortPopulationDesc:
			if a.Population != b.Population {
				return a.Population > b.Population
			}
		case types.SortNameDesc:
			return a.Name > b.Name
		case types.SortNameAsc:
		}

		return a.Name < b.Name
	})
}

// compareGDP orders GDP estimates nulls-last. The second return
// value reports whether the pair was decided by the estimate
func compareGDP(a, b *types.Country, desc bool) (bool, bool) {
	switch {
	case a.EstimatedGDP == nil && b.EstimatedGDP == nil:
		return false, false
	case a.EstimatedGDP == nil:
		return false, true
	case b.EstimatedGDP == nil:
		return true, true
	case *a.EstimatedGDP == *b.EstimatedGDP:
		return false, false
	case desc:
		return *a.EstimatedGDP > *b.EstimatedGDP, true
	default:
		return *a.EstimatedGDP < *b.EstimatedGDP, true
	}
}

// equalFold matches an optional field against a filter value,
// case-insensitively. Absent fields never match
func equalFold(field *string, filter string) bool {
	return field != nil && strings.EqualFold(*field, filter)
}
