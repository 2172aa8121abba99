package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medipos/internal/dashboard/domain"
	orderdomain "github.com/smallbiznis/medipos/internal/order/domain"
	"github.com/smallbiznis/medipos/internal/pricing"
	"github.com/smallbiznis/medipos/internal/storecontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PeriodDays is the rolling window for the period rollup.
const PeriodDays = 30

const topSellerLimit = 5

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("dashboard.service"),
	}
}

type revenueRow struct {
	Revenue float64
	Profit  float64
	Orders  int64
}

func (s *Service) Summary(ctx context.Context) (*domain.Summary, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}
	storeIDValue := storeID.Int64()

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	periodStart := now.AddDate(0, 0, -PeriodDays)

	today, err := s.revenueSince(ctx, storeIDValue, dayStart)
	if err != nil {
		return nil, err
	}
	period, err := s.revenueSince(ctx, storeIDValue, periodStart)
	if err != nil {
		return nil, err
	}

	summary := &domain.Summary{
		TodayRevenue:  pricing.Round2(today.Revenue),
		TodayProfit:   pricing.Round2(today.Profit),
		TodayOrders:   today.Orders,
		PeriodRevenue: pricing.Round2(period.Revenue),
		PeriodProfit:  pricing.Round2(period.Profit),
		PeriodOrders:  period.Orders,
		PeriodDays:    PeriodDays,
	}

	err = s.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM medicines WHERE store_id = ? AND quantity <= reorder_level`, storeIDValue).
		Scan(&summary.LowStockCount).Error
	if err != nil {
		return nil, err
	}

	expiryCutoff := now.AddDate(0, 0, PeriodDays)
	err = s.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM medicines
		     WHERE store_id = ? AND expiry_date IS NOT NULL AND expiry_date <= ?`,
			storeIDValue, expiryCutoff).
		Scan(&summary.ExpiringSoonCount).Error
	if err != nil {
		return nil, err
	}

	topSellers, err := s.topSellers(ctx, storeIDValue, periodStart)
	if err != nil {
		return nil, err
	}
	summary.TopSellers = topSellers

	// Profit is managerial; the counter role gets zeroes, same as orders.
	if storecontext.IsCounter(ctx) {
		summary.TodayProfit = 0
		summary.PeriodProfit = 0
	}

	return summary, nil
}

func (s *Service) revenueSince(ctx context.Context, storeID int64, since time.Time) (revenueRow, error) {
	var row revenueRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(grand_total), 0) AS revenue,
		        COALESCE(SUM(profit), 0) AS profit,
		        COUNT(*) AS orders
		 FROM orders
		 WHERE store_id = ? AND status = ? AND created_at >= ?`,
		storeID,
		orderdomain.StatusCompleted,
		since,
	).Scan(&row).Error
	return row, err
}

func (s *Service) topSellers(ctx context.Context, storeID int64, since time.Time) ([]domain.TopSeller, error) {
	var rows []struct {
		MedicineID int64
		Name       string
		Quantity   int64
		Revenue    float64
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT oi.medicine_id, oi.name,
		        SUM(oi.quantity) AS quantity,
		        SUM(oi.line_total) AS revenue
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE oi.store_id = ? AND o.status = ? AND o.created_at >= ?
		 GROUP BY oi.medicine_id, oi.name
		 ORDER BY quantity DESC
		 LIMIT ?`,
		storeID,
		orderdomain.StatusCompleted,
		since,
		topSellerLimit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sellers := make([]domain.TopSeller, 0, len(rows))
	for _, row := range rows {
		sellers = append(sellers, domain.TopSeller{
			MedicineID: snowflake.ID(row.MedicineID).String(),
			Name:       row.Name,
			Quantity:   row.Quantity,
			Revenue:    pricing.Round2(row.Revenue),
		})
	}
	return sellers, nil
}
