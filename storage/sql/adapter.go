package sql

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sig-0/countryfacts/apperrors"
	"github.com/sig-0/countryfacts/storage/types"
)

// refreshLockID keys the advisory transaction lock that serializes
// concurrent refresh batches against the same database
const refreshLockID = int64(7084958232)

const countryColumns = `name, capital, region, population, currency_code,
exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

type Storage struct {
	pool *pgxpool.Pool
}

func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{
		pool: pool,
	}
}

func (s *Storage) UpsertCountries(
	ctx context.Context,
	records []*types.Country,
	now time.Time,
) (*types.RefreshOutcome, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Serialize concurrent refresh batches, so the reported
	// counts stay accurate for this call alone
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, refreshLockID); err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	outcome := &types.RefreshOutcome{
		RefreshedAt: now.UTC(),
	}

	for _, record := range records {
		var inserted bool

		err = tx.QueryRow(
			ctx,
			`INSERT INTO countries (`+countryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (name) DO UPDATE SET
				capital = EXCLUDED.capital,
				region = EXCLUDED.region,
				population = EXCLUDED.population,
				currency_code = EXCLUDED.currency_code,
				exchange_rate = EXCLUDED.exchange_rate,
				estimated_gdp = EXCLUDED.estimated_gdp,
				flag_url = EXCLUDED.flag_url,
				last_refreshed_at = EXCLUDED.last_refreshed_at
			RETURNING (xmax = 0)`,
			record.Name,
			textOrNil(record.Capital),
			textOrNil(record.Region),
			record.Population,
			textOrNil(record.CurrencyCode),
			floatToNumeric(record.ExchangeRate),
			floatToNumeric(record.EstimatedGDP),
			textOrNil(record.FlagURL),
			timeToTimestampz(now),
		).Scan(&inserted)
		if err != nil {
			return nil, apperrors.NewPersistence(err)
		}

		if inserted {
			outcome.Added++
		} else {
			outcome.Updated++
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, apperrors.NewPersistence(err)
	}

	return outcome, nil
}

func (s *Storage) GetCountry(ctx context.Context, name string) (*types.Country, error) {
	row := s.pool.QueryRow(
		ctx,
		`SELECT `+countryColumns+` FROM countries WHERE name = $1`,
		name,
	)

	record, err := scanCountry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(name)
		}

		return nil, fmt.Errorf("unable to fetch country: %w", err)
	}

	return record, nil
}

func (s *Storage) DeleteCountry(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM countries WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("unable to delete country: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound(name)
	}

	return nil
}

func (s *Storage) ListCountries(
	ctx context.Context,
	query *types.ListQuery,
) (*types.Page[*types.Country], error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		conditions []string
		args       []any
	)

	if query.Region != nil {
		args = append(args, *query.Region)
		conditions = append(conditions, fmt.Sprintf("lower(region) = lower($%d)", len(args)))
	}

	if query.Currency != nil {
		args = append(args, *query.Currency)
		conditions = append(conditions, fmt.Sprintf("lower(currency_code) = lower($%d)", len(args)))
	}

	q := `SELECT ` + countryColumns + `, count(*) OVER() AS total FROM countries`

	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}

	q += " ORDER BY " + orderClause(query.Sort)

	args = append(args, query.Skip)
	q += fmt.Sprintf(" OFFSET $%d", len(args))

	if query.Limit != nil {
		args = append(args, *query.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch countries: %w", err)
	}
	defer rows.Close()

	page := &types.Page[*types.Country]{}

	for rows.Next() {
		record, total, err := scanCountryWithTotal(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan country: %w", err)
		}

		page.Results = append(page.Results, record)
		page.Total = total
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch countries: %w", err)
	}

	// An out-of-range skip returns no rows, so the window
	// total is lost. Recover it with a plain count
	if page.Results == nil {
		countQuery := `SELECT count(*) FROM countries`
		if len(conditions) > 0 {
			countQuery += " WHERE " + strings.Join(conditions, " AND ")
		}

		countArgs := args[:len(args)-1] // drop the offset
		if query.Limit != nil {
			countArgs = args[:len(args)-2]
		}

		if err = s.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&page.Total); err != nil {
			return nil, fmt.Errorf("unable to count countries: %w", err)
		}
	}

	return page, nil
}

func (s *Storage) Stats(ctx context.Context) (*types.Stats, error) {
	stats := &types.Stats{
		Regions: make(map[string]int64),
	}

	var lastRefresh pgtype.Timestamptz

	err := s.pool.QueryRow(
		ctx,
		`SELECT count(*), max(last_refreshed_at) FROM countries`,
	).Scan(&stats.TotalCountries, &lastRefresh)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch stats: %w", err)
	}

	if lastRefresh.Valid {
		ts := lastRefresh.Time
		stats.LastRefreshedAt = &ts
	}

	rows, err := s.pool.Query(
		ctx,
		`SELECT region, count(*) FROM countries
		WHERE region IS NOT NULL AND region <> ''
		GROUP BY region`,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch region stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			region string
			count  int64
		)

		if err = rows.Scan(&region, &count); err != nil {
			return nil, fmt.Errorf("unable to scan region stats: %w", err)
		}

		stats.Regions[region] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch region stats: %w", err)
	}

	return stats, nil
}

func (s *Storage) TopCountriesByGDP(ctx context.Context, n int) ([]*types.Country, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT `+countryColumns+` FROM countries
		WHERE estimated_gdp IS NOT NULL
		ORDER BY estimated_gdp DESC, name ASC
		LIMIT $1`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch top countries: %w", err)
	}
	defer rows.Close()

	var out []*types.Country

	for rows.Next() {
		record, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan country: %w", err)
		}

		out = append(out, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to fetch top countries: %w", err)
	}

	return out, nil
}

// orderClause maps the sort token to a deterministic ORDER BY body.
// GDP estimates order nulls-last, and name breaks all ties
func orderClause(s types.Sort) string {
	switch s {
	case types.SortGDPAsc:
		return "estimated_gdp ASC NULLS LAST, name ASC"
	case types.SortGDPDesc:
		return "estimated_gdp DESC NULLS LAST, name ASC"
	case types.SortPopulationAsc:
		return "population ASC, name ASC"
	case types.SortPopulationDesc:
		return "population DESC, name ASC"
	case types.SortNameDesc:
		return "name DESC"
	case types.SortNameAsc:
		fallthrough
	default:
		return "name ASC"
	}
}

func scanCountry(row pgx.Row) (*types.Country, error) {
	var (
		record types.Country

		capital, region, code, flag pgtype.Text
		rate, gdp                   pgtype.Numeric
		refreshedAt                 pgtype.Timestamptz
	)

	err := row.Scan(
		&record.Name,
		&capital,
		&region,
		&record.Population,
		&code,
		&rate,
		&gdp,
		&flag,
		&refreshedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Capital = textToPtr(capital)
	record.Region = textToPtr(region)
	record.CurrencyCode = textToPtr(code)
	record.FlagURL = textToPtr(flag)
	record.ExchangeRate = numericToFloat(rate)
	record.EstimatedGDP = numericToFloat(gdp)
	record.LastRefreshedAt = timestampzToTime(refreshedAt)

	return &record, nil
}

func scanCountryWithTotal(row pgx.Row) (*types.Country, int64, error) {
	var (
		record types.Country
		total  int64

		capital, region, code, flag pgtype.Text
		rate, gdp                   pgtype.Numeric
		refreshedAt                 pgtype.Timestamptz
	)

	err := row.Scan(
		&record.Name,
		&capital,
		&region,
		&record.Population,
		&code,
		&rate,
		&gdp,
		&flag,
		&refreshedAt,
		&total,
	)
	if err != nil {
		return nil, 0, err
	}

	record.Capital = textToPtr(capital)
	record.Region = textToPtr(region)
	record.CurrencyCode = textToPtr(code)
	record.FlagURL = textToPtr(flag)
	record.ExchangeRate = numericToFloat(rate)
	record.EstimatedGDP = numericToFloat(gdp)
	record.LastRefreshedAt = timestampzToTime(refreshedAt)

	return &record, total, nil
}

// textOrNil converts the optional field to postgres text
func textOrNil(value *string) pgtype.Text {
	if value == nil {
		return pgtype.Text{}
	}

	return pgtype.Text{
		String: *value,
		Valid:  true,
	}
}

// textToPtr converts the postgres text value to an optional field
func textToPtr(value pgtype.Text) *string {
	if !value.Valid {
		return nil
	}

	s := value.String

	return &s
}

// floatToNumeric converts the optional float value to postgres numeric
func floatToNumeric(value *float64) pgtype.Numeric {
	if value == nil {
		return pgtype.Numeric{}
	}

	// round to 4dp and store as integer with exponent -4
	i := int64(math.Round(*value * 1e4))

	return pgtype.Numeric{
		Int:   big.NewInt(i),
		Exp:   -4,
		Valid: true,
	}
}

// numericToFloat converts the postgres value to an optional float
func numericToFloat(value pgtype.Numeric) *float64 {
	if !value.Valid || value.Int == nil {
		return nil
	}

	f, _ := new(big.Rat).SetInt(value.Int).Float64()

	if value.Exp > 0 {
		f *= math.Pow10(int(value.Exp))
	} else if value.Exp < 0 {
		f /= math.Pow10(int(-value.Exp))
	}

	return &f
}

// timeToTimestampz converts the time value to postgres timestamp
func timeToTimestampz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t.UTC(),
		Valid: true,
	}
}

// timestampzToTime converts the postgres timestamp value to time
func timestampzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}

	return ts.Time
}
