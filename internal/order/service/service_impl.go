package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	meddomain "github.com/smallbiznis/medipos/internal/medicine/domain"
	"github.com/smallbiznis/medipos/internal/order/domain"
	"github.com/smallbiznis/medipos/internal/pricing"
	"github.com/smallbiznis/medipos/internal/storecontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Medicines meddomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	medicines meddomain.Repository
	genID     *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("order.service"),
		repo:      p.Repo,
		medicines: p.Medicines,
		genID:     p.GenID,
	}
}

type parsedLine struct {
	medicineID      int64
	quantity        int
	discountPercent float64
}

// Submit prices the cart from current medicine records and persists the
// order header, its items and the stock decrements in one transaction. A
// shortage on any line rolls back the whole submission, so no partial order
// or half-decremented inventory can survive a failure.
func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = domain.ModeComplete
	}
	if mode != domain.ModeComplete && mode != domain.ModePending {
		return nil, domain.ErrInvalidMode
	}

	payment := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	switch payment {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentUPI:
	default:
		return nil, domain.ErrInvalidPayment
	}

	if len(req.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if req.DiscountAmount < 0 {
		return nil, domain.ErrInvalidDiscount
	}

	parsed := make([]parsedLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		if line.DiscountPercent < 0 || line.DiscountPercent > 100 {
			return nil, domain.ErrInvalidDiscount
		}
		medicineID, err := snowflake.ParseString(strings.TrimSpace(line.MedicineID))
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		parsed = append(parsed, parsedLine{
			medicineID:      medicineID.Int64(),
			quantity:        line.Quantity,
			discountPercent: line.DiscountPercent,
		})
	}

	var customerID *int64
	if req.CustomerID != nil && strings.TrimSpace(*req.CustomerID) != "" {
		parsedID, err := snowflake.ParseString(strings.TrimSpace(*req.CustomerID))
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		value := parsedID.Int64()
		customerID = &value
	}

	storeIDValue := storeID.Int64()
	order := &domain.Order{
		ID:            s.genID.Generate().Int64(),
		StoreID:       storeIDValue,
		CustomerID:    customerID,
		CustomerName:  trimPtr(req.CustomerName),
		CustomerPhone: trimPtr(req.CustomerPhone),
		CustomerEmail: trimPtr(req.CustomerEmail),
		PaymentMethod: payment,
		CreatedAt:     time.Now().UTC(),
	}
	if mode == domain.ModeComplete {
		order.Status = domain.StatusCompleted
		order.PaymentStatus = domain.PaymentStatusPaid
	} else {
		order.Status = domain.StatusPending
		order.PaymentStatus = domain.PaymentStatusDue
	}
	if userID, ok := storecontext.UserIDFromContext(ctx); ok {
		order.CreatedByID = userID.Int64()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Load each distinct medicine once; duplicate cart lines share the
		// snapshot and are reconciled on their cumulative quantity.
		medicines := make(map[int64]*meddomain.Medicine)
		cumulative := make(map[int64]int)
		distinct := make([]int64, 0, len(parsed))
		for _, line := range parsed {
			if _, seen := medicines[line.medicineID]; !seen {
				m, err := s.medicines.FindByID(ctx, tx, storeIDValue, line.medicineID)
				if err != nil {
					return err
				}
				if m == nil {
					return domain.ErrMedicineNotFound
				}
				medicines[line.medicineID] = m
				distinct = append(distinct, line.medicineID)
			}
			cumulative[line.medicineID] += line.quantity
		}

		var shortages []domain.Shortage
		for _, id := range distinct {
			rows, err := s.medicines.DecrementStock(ctx, tx, storeIDValue, id, cumulative[id])
			if err != nil {
				return err
			}
			if rows == 0 {
				m := medicines[id]
				shortages = append(shortages, domain.Shortage{
					MedicineID: snowflake.ID(id).String(),
					Name:       m.Name,
					Requested:  cumulative[id],
					Available:  m.Quantity,
				})
			}
		}
		if len(shortages) > 0 {
			return &domain.StockError{Shortages: shortages}
		}

		lines := make([]pricing.Line, 0, len(parsed))
		items := make([]domain.OrderItem, 0, len(parsed))
		for _, line := range parsed {
			m := medicines[line.medicineID]
			cost := pricing.EffectiveCostPrice(m.CostPrice, m.SellingPrice)
			pl := pricing.Line{
				UnitPrice:       m.SellingPrice,
				CostPrice:       cost,
				Quantity:        line.quantity,
				DiscountPercent: line.discountPercent,
				GSTPerUnit:      m.GSTPerUnit,
			}
			lines = append(lines, pl)

			lineTotals := pricing.Calculate([]pricing.Line{pl}, 0)
			items = append(items, domain.OrderItem{
				ID:              s.genID.Generate().Int64(),
				OrderID:         order.ID,
				StoreID:         storeIDValue,
				MedicineID:      m.ID,
				Name:            m.Name,
				Manufacturer:    m.Manufacturer,
				BatchNumber:     m.BatchNumber,
				Quantity:        line.quantity,
				UnitPrice:       m.SellingPrice,
				CostPrice:       cost,
				DiscountPercent: line.discountPercent,
				GSTPerUnit:      m.GSTPerUnit,
				LineTotal:       pricing.LineTotal(pl),
				Profit:          lineTotals.Profit,
				CreatedAt:       order.CreatedAt,
			})
		}

		totals := pricing.Calculate(lines, req.DiscountAmount)
		order.Subtotal = totals.Subtotal
		order.DiscountAmount = totals.GlobalDiscount
		order.GrandTotal = totals.GrandTotal
		order.Profit = totals.Profit
		order.ItemCount = totals.ItemCount
		order.Items = items

		if err := s.repo.CreateOrder(ctx, tx, order); err != nil {
			return err
		}
		return s.repo.CreateItems(ctx, tx, items)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order submitted",
		zap.Int64("order_id", order.ID),
		zap.String("status", order.Status),
		zap.Float64("grand_total", order.GrandTotal),
		zap.Int("item_count", order.ItemCount),
	)

	resp := s.toResponse(order, order.Items, !storecontext.IsCounter(ctx))
	return &resp, nil
}

// Validate checks one prospective cart line against current stock. The
// cumulative quantity (existing cart + increment) is what must fit.
func (s *Service) Validate(ctx context.Context, req domain.ValidateRequest) (*domain.ValidateResponse, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}
	if req.Quantity < 1 || req.ExistingQuantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	medicineID, err := snowflake.ParseString(strings.TrimSpace(req.MedicineID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	m, err := s.medicines.FindByID(ctx, s.db, storeID.Int64(), medicineID.Int64())
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrMedicineNotFound
	}

	requested := req.ExistingQuantity + req.Quantity
	if requested > m.Quantity {
		return &domain.ValidateResponse{
			OK:         false,
			MaxAllowed: m.Quantity,
			Message:    fmt.Sprintf("%s: requested %d, available %d", m.Name, requested, m.Quantity),
		}, nil
	}
	return &domain.ValidateResponse{OK: true, MaxAllowed: m.Quantity}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	orders, err := s.repo.List(ctx, s.db, storeID.Int64(), domain.ListRequest{
		Status: strings.ToLower(strings.TrimSpace(req.Status)),
		From:   req.From,
		To:     req.To,
	})
	if err != nil {
		return nil, err
	}

	includeProfit := !storecontext.IsCounter(ctx)
	resp := make([]domain.Response, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, s.toResponse(&o, nil, includeProfit))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	o, err := s.repo.FindByID(ctx, s.db, storeID.Int64(), orderID.Int64())
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.FindItems(ctx, s.db, o.ID)
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(o, items, !storecontext.IsCounter(ctx))
	return &resp, nil
}

// toResponse converts an order for the caller. Profit is a managerial
// figure: it is zeroed here, before serialization, when the caller holds
// the counter role.
func (s *Service) toResponse(o *domain.Order, items []domain.OrderItem, includeProfit bool) domain.Response {
	resp := domain.Response{
		ID:             snowflake.ID(o.ID).String(),
		StoreID:        snowflake.ID(o.StoreID).String(),
		CustomerName:   o.CustomerName,
		CustomerPhone:  o.CustomerPhone,
		CustomerEmail:  o.CustomerEmail,
		Status:         o.Status,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		GrandTotal:     o.GrandTotal,
		ItemCount:      o.ItemCount,
		CreatedAt:      o.CreatedAt,
	}
	if o.CustomerID != nil {
		id := snowflake.ID(*o.CustomerID).String()
		resp.CustomerID = &id
	}
	if includeProfit {
		resp.Profit = o.Profit
	}

	for _, item := range items {
		itemResp := domain.ItemResponse{
			ID:              snowflake.ID(item.ID).String(),
			MedicineID:      snowflake.ID(item.MedicineID).String(),
			Name:            item.Name,
			Manufacturer:    item.Manufacturer,
			BatchNumber:     item.BatchNumber,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			GSTPerUnit:      item.GSTPerUnit,
			LineTotal:       item.LineTotal,
		}
		if includeProfit {
			itemResp.Profit = item.Profit
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
