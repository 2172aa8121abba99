package domain

import (
	"context"
	"errors"
)

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

// Summary is the storefront overview: revenue/profit rollups from persisted
// order items plus inventory health counters.
type Summary struct {
	TodayRevenue  float64 `json:"today_revenue"`
	TodayProfit   float64 `json:"today_profit"`
	TodayOrders   int64   `json:"today_orders"`
	PeriodRevenue float64 `json:"period_revenue"`
	PeriodProfit  float64 `json:"period_profit"`
	PeriodOrders  int64   `json:"period_orders"`
	PeriodDays    int     `json:"period_days"`

	LowStockCount     int64 `json:"low_stock_count"`
	ExpiringSoonCount int64 `json:"expiring_soon_count"`

	TopSellers []TopSeller `json:"top_sellers"`
}

type TopSeller struct {
	MedicineID string  `json:"medicine_id"`
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

var ErrInvalidStore = errors.New("invalid_store")
