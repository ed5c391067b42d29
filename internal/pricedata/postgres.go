package pricedata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/eventstudy/internal/contracts"
)

// Querier is the subset of pgxpool.Pool used by the repository
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

// PriceRepository implements contracts.PriceRepository on data.daily_prices
// ⭐ SSOT: 가격 데이터 저장소는 여기서만
type PriceRepository struct {
	db Querier
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db Querier) *PriceRepository {
	return &PriceRepository{db: db}
}

// GetClosesByCode retrieves the full close history for a code, oldest first
func (r *PriceRepository) GetClosesByCode(ctx context.Context, code string) ([]contracts.PriceBar, error) {
	query := `
		SELECT trade_date, close_price
		FROM data.daily_prices
		WHERE stock_code = $1
		ORDER BY trade_date ASC
	`
	return r.queryBars(ctx, query, code)
}

// GetClosesByCodeAndDateRange retrieves closes for a code within a date range
func (r *PriceRepository) GetClosesByCodeAndDateRange(ctx context.Context, code string, from, to time.Time) ([]contracts.PriceBar, error) {
	query := `
		SELECT trade_date, close_price
		FROM data.daily_prices
		WHERE stock_code = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`
	return r.queryBars(ctx, query, code, from, to)
}

func (r *PriceRepository) queryBars(ctx context.Context, query string, args ...any) ([]contracts.PriceBar, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily prices: %w", err)
	}
	defer rows.Close()

	var bars []contracts.PriceBar
	for rows.Next() {
		var (
			date    time.Time
			closePx float64
		)
		if err := rows.Scan(&date, &closePx); err != nil {
			return nil, fmt.Errorf("scan daily price: %w", err)
		}
		bars = append(bars, contracts.PriceBar{Date: contracts.NormalizeDate(date), Close: closePx})
	}
	return bars, rows.Err()
}

// PostgresSource loads an asset's closes from the price repository
type PostgresSource struct {
	repo contracts.PriceRepository
	code string
	from time.Time
	to   time.Time
}

// openEnd is the upper bound used when only from is set
var openEnd = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// NewPostgresSource creates a source reading code from repo
func NewPostgresSource(repo contracts.PriceRepository, code string) *PostgresSource {
	return &PostgresSource{repo: repo, code: code}
}

// WithRange restricts the query to [from, to]; zero bounds are open
func (s *PostgresSource) WithRange(from, to time.Time) *PostgresSource {
	s.from = from
	s.to = to
	return s
}

// Load reads the history for the configured code, whole or within the range
func (s *PostgresSource) Load(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	var (
		bars []contracts.PriceBar
		err  error
	)
	if s.from.IsZero() && s.to.IsZero() {
		bars, err = s.repo.GetClosesByCode(ctx, s.code)
	} else {
		to := s.to
		if to.IsZero() {
			to = openEnd
		}
		bars, err = s.repo.GetClosesByCodeAndDateRange(ctx, s.code, s.from, to)
	}
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("load %s (%s): %w", symbol, s.code, err)
	}
	if len(bars) == 0 {
		return contracts.PriceSeries{}, contracts.NewDataFormatError(symbol, "Close", fmt.Sprintf("no rows for code %s", s.code))
	}
	return contracts.PriceSeries{Symbol: symbol, Bars: bars}, nil
}
