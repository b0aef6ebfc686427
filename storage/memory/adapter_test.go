package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/countryfacts/apperrors"
	"github.com/sig-0/countryfacts/storage/types"
)

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func int64Ptr(i int64) *int64 {
	return &i
}

func testCountry(name string, region, currency string, gdp *float64, population int64) *types.Country {
	c := &types.Country{
		Name:         name,
		Population:   population,
		EstimatedGDP: gdp,
	}

	if region != "" {
		c.Region = strPtr(region)
	}

	if currency != "" {
		c.CurrencyCode = strPtr(currency)
	}

	return c
}

func TestStorage_UpsertCountries(t *testing.T) {
	t.Parallel()

	t.Run("fresh batch is added", func(t *testing.T) {
		t.Parallel()

		var (
			s   = NewStorage()
			now = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

			records = []*types.Country{
				testCountry("Nigeria", "Africa", "NGN", floatPtr(100), 10),
				testCountry("Ghana", "Africa", "GHS", floatPtr(50), 5),
			}
		)

		outcome, err := s.UpsertCountries(context.Background(), records, now)
		require.NoError(t, err)

		assert.Equal(t, 2, outcome.Added)
		assert.Equal(t, 0, outcome.Updated)
		assert.Equal(t, now, outcome.RefreshedAt)
	})

	t.Run("repeated batch is updated", func(t *testing.T) {
		t.Parallel()

		var (
			s = NewStorage()

			first  = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
			second = first.Add(time.Hour)

			records = []*types.Country{
				testCountry("Nigeria", "Africa", "NGN", floatPtr(100), 10),
				testCountry("Ghana", "Africa", "GHS", floatPtr(50), 5),
			}
		)

		_, err := s.UpsertCountries(context.Background(), records, first)
		require.NoError(t, err)

		outcome, err := s.UpsertCountries(context.Background(), records, second)
		require.NoError(t, err)

		// Identical source data adds nothing on the second pass
		assert.Equal(t, 0, outcome.Added)
		assert.Equal(t, 2, outcome.Updated)

		// Only the refresh timestamp moved
		fetched, err := s.GetCountry(context.Background(), "Nigeria")
		require.NoError(t, err)

		assert.Equal(t, second, fetched.LastRefreshedAt)
		assert.Equal(t, int64(10), fetched.Population)
	})

	t.Run("name matching is case-sensitive", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		_, err := s.UpsertCountries(
			context.Background(),
			[]*types.Country{testCountry("Nigeria", "", "", nil, 1)},
			time.Now(),
		)
		require.NoError(t, err)

		outcome, err := s.UpsertCountries(
			context.Background(),
			[]*types.Country{testCountry("NIGERIA", "", "", nil, 1)},
			time.Now(),
		)
		require.NoError(t, err)

		assert.Equal(t, 1, outcome.Added)
		assert.Equal(t, 0, outcome.Updated)
	})
}

func TestStorage_GetDelete(t *testing.T) {
	t.Parallel()

	t.Run("get missing country", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		_, err := s.GetCountry(context.Background(), "Nigeria")

		var notFoundErr *apperrors.NotFoundError

		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "Nigeria", notFoundErr.Name)
	})

	t.Run("delete existing country", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		_, err := s.UpsertCountries(
			context.Background(),
			[]*types.Country{testCountry("Nigeria", "", "", nil, 1)},
			time.Now(),
		)
		require.NoError(t, err)

		require.NoError(t, s.DeleteCountry(context.Background(), "Nigeria"))

		_, err = s.GetCountry(context.Background(), "Nigeria")

		var notFoundErr *apperrors.NotFoundError

		assert.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("delete missing country", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		var notFoundErr *apperrors.NotFoundError

		assert.ErrorAs(t, s.DeleteCountry(context.Background(), "Nigeria"), &notFoundErr)
	})
}

func TestStorage_ListCountries(t *testing.T) {
	t.Parallel()

	// seedStorage loads a fixed 5-country dataset
	seedStorage := func(t *testing.T) *Storage {
		t.Helper()

		s := NewStorage()

		records := []*types.Country{
			testCountry("Argentina", "Americas", "ARS", floatPtr(300), 45),
			testCountry("Brazil", "Americas", "BRL", floatPtr(300), 210),
			testCountry("Chad", "Africa", "XAF", nil, 16),
			testCountry("Denmark", "Europe", "DKK", floatPtr(100), 6),
			testCountry("Eritrea", "Africa", "ERN", nil, 3),
		}

		_, err := s.UpsertCountries(context.Background(), records, time.Now())
		require.NoError(t, err)

		return s
	}

	names := func(page *types.Page[*types.Country]) []string {
		out := make([]string, 0, len(page.Results))
		for _, c := range page.Results {
			out = append(out, c.Name)
		}

		return out
	}

	t.Run("gdp desc, nulls last, name tiebreak", func(t *testing.T) {
		t.Parallel()

		s := seedStorage(t)

		page, err := s.ListCountries(context.Background(), &types.ListQuery{
			Sort: types.SortGDPDesc,
		})
		require.NoError(t, err)

		// Equal GDP ties break by name ascending,
		// records without an estimate trail
		assert.Equal(
			t,
			[]string{"Argentina", "Brazil", "Denmark", "Chad", "Eritrea"},
			names(page),
		)
		assert.Equal(t, int64(5), page.Total)
	})

	t.Run("gdp asc keeps nulls last", func(t *testing.T) {
		t.Parallel()

		s := seedStorage(t)

		page, err := s.ListCountries(context.Background(), &types.ListQuery{
			Sort: types.SortGDPAsc,
		})
		require.NoError(t, err)

		assert.Equal(
			t,
			[]string{"Denmark", "Argentina", "Brazil", "Chad", "Eritrea"},
			names(page),
		)
	})

	t.Run("population desc", func(t *testing.T) {
		t.Parallel()

		s := seedStorage(t)

		page, err := s.ListCountries(context.Background(), &types.ListQuery{
			Sort: types.SortPopulationDesc,
		})
		require.NoError(t, err)

		assert.Equal(
			t,
			[]string{"Brazil", "Argentina", "Chad", "Denmark", "Eritrea"},
			names(page),
		)
	})

	t.Run("pagination window", func(t *testing.T) {
		t.Parallel()

		s := seedStorage(t)

		page, err := s.ListCountries(context.Background(), &types.ListQuery{
			Sort:  types.SortNameAsc,
			Skip:  2,
			Limit: int64Ptr(2),
		})
		require.NoError(t, err)

		// Positions 3-4 of the sorted sequence
		assert.Equal(t, []string{"Chad", "Denmark"}, names(page))
		assert.Equal(t, int64(5), page.Total)
	})

	t.Run("skip beyond sequence length", func(t *testing.T) {
		t.Parallel()

		s := seedStorage(t)

		page, err := s.ListCountries(context.Background(), &types.ListQuery{
			Sort:  types.SortNameAsc,
			Skip:  10,
			Limit: int64Ptr(2),
		})
		require.NoError(t, err)

		assert.Empty(t, page.Results)
		assert.Equal(t, int64(5), page.Total)
	})

	t.Run("zero limit", func(t *testing.T) {
		t.Parallel()

		s := seedStorage(t)

		page, err := s.ListCountries(context.Background(), &types.ListQuery{
			Sort:  types.SortNameAsc,
			Limit: int64Ptr(0),
		})
		require.NoError(t, err)

		assert.Empty(t, page.Results)
		assert.Equal(t, int64(5), page.Total)
	})

	t.Run("filter composition", func(t *testing.T) {
		t.Parallel()

		s := seedStorage(t)

		page, err := s.ListCountries(context.Background(), &types.ListQuery{
			Sort:     types.SortNameAsc,
			Region:   strPtr("africa"),
			Currency: strPtr("xaf"),
		})
		require.NoError(t, err)

		// Both predicates hold, case-insensitively
		assert.Equal(t, []string{"Chad"}, names(page))
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("unmatched filter combination", func(t *testing.T) {
		t.Parallel()

		s := seedStorage(t)

		page, err := s.ListCountries(context.Background(), &types.ListQuery{
			Sort:     types.SortNameAsc,
			Region:   strPtr("Europe"),
			Currency: strPtr("XAF"),
		})
		require.NoError(t, err)

		assert.Empty(t, page.Results)
		assert.Equal(t, int64(0), page.Total)
	})

	t.Run("negative skip rejected", func(t *testing.T) {
		t.Parallel()

		s := seedStorage(t)

		_, err := s.ListCountries(context.Background(), &types.ListQuery{
			Sort: types.SortNameAsc,
			Skip: -1,
		})

		var validationErr *apperrors.ValidationError

		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "skip", validationErr.Field)
	})
}

func TestStorage_Stats(t *testing.T) {
	t.Parallel()

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		stats, err := s.Stats(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(0), stats.TotalCountries)
		assert.Nil(t, stats.LastRefreshedAt)
		assert.Empty(t, stats.Regions)
	})

	t.Run("populated store", func(t *testing.T) {
		t.Parallel()

		var (
			s   = NewStorage()
			now = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

			records = []*types.Country{
				testCountry("Argentina", "Americas", "ARS", nil, 45),
				testCountry("Brazil", "Americas", "BRL", nil, 210),
				testCountry("Chad", "Africa", "XAF", nil, 16),
			}
		)

		_, err := s.UpsertCountries(context.Background(), records, now)
		require.NoError(t, err)

		stats, err := s.Stats(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(3), stats.TotalCountries)

		require.NotNil(t, stats.LastRefreshedAt)
		assert.Equal(t, now, *stats.LastRefreshedAt)

		assert.Equal(t, int64(2), stats.Regions["Americas"])
		assert.Equal(t, int64(1), stats.Regions["Africa"])
	})
}

func TestStorage_TopCountriesByGDP(t *testing.T) {
	t.Parallel()

	var (
		s = NewStorage()

		records = []*types.Country{
			testCountry("Argentina", "", "", floatPtr(300), 45),
			testCountry("Brazil", "", "", floatPtr(500), 210),
			testCountry("Chad", "", "", nil, 16),
			testCountry("Denmark", "", "", floatPtr(100), 6),
		}
	)

	_, err := s.UpsertCountries(context.Background(), records, time.Now())
	require.NoError(t, err)

	top, err := s.TopCountriesByGDP(context.Background(), 2)
	require.NoError(t, err)

	// Records without an estimate never rank
	require.Len(t, top, 2)
	assert.Equal(t, "Brazil", top[0].Name)
	assert.Equal(t, "Argentina", top[1].Name)
}
