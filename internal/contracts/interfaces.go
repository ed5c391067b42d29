package contracts

import (
	"context"
	"time"
)

// PriceSource loads the daily close history of one asset
// ⭐ SSOT: 가격 데이터 로딩 인터페이스 (CSV / PostgreSQL / Naver)
type PriceSource interface {
	Load(ctx context.Context, symbol string) (PriceSeries, error)
}

// PriceSourceFunc adapts a function to PriceSource
type PriceSourceFunc func(ctx context.Context, symbol string) (PriceSeries, error)

// Load calls f(ctx, symbol)
func (f PriceSourceFunc) Load(ctx context.Context, symbol string) (PriceSeries, error) {
	return f(ctx, symbol)
}

// PriceRepository reads stored daily closes
type PriceRepository interface {
	GetClosesByCode(ctx context.Context, code string) ([]PriceBar, error)
	GetClosesByCodeAndDateRange(ctx context.Context, code string, from, to time.Time) ([]PriceBar, error)
}
