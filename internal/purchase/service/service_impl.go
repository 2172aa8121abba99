package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	meddomain "github.com/smallbiznis/medipos/internal/medicine/domain"
	"github.com/smallbiznis/medipos/internal/pricing"
	"github.com/smallbiznis/medipos/internal/purchase/domain"
	"github.com/smallbiznis/medipos/internal/storecontext"
	supplierdomain "github.com/smallbiznis/medipos/internal/supplier/domain"
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
	Suppliers supplierdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	medicines meddomain.Repository
	suppliers supplierdomain.Repository
	genID     *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("purchase.service"),
		repo:      p.Repo,
		medicines: p.Medicines,
		suppliers: p.Suppliers,
		genID:     p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}
	storeIDValue := storeID.Int64()

	supplierID, err := snowflake.ParseString(strings.TrimSpace(req.SupplierID))
	if err != nil {
		return nil, domain.ErrInvalidSupplier
	}
	sup, err := s.suppliers.FindByID(ctx, s.db, storeIDValue, supplierID.Int64())
	if err != nil {
		return nil, err
	}
	if sup == nil || !sup.Active {
		return nil, domain.ErrInvalidSupplier
	}

	if len(req.Lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	now := time.Now().UTC()
	po := &domain.PurchaseOrder{
		ID:         s.genID.Generate().Int64(),
		StoreID:    storeIDValue,
		SupplierID: supplierID.Int64(),
		Status:     domain.StatusOrdered,
		Notes:      trimPtr(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var total float64
	items := make([]domain.PurchaseOrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		if line.UnitCost < 0 {
			return nil, domain.ErrInvalidCost
		}
		medicineID, err := snowflake.ParseString(strings.TrimSpace(line.MedicineID))
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		m, err := s.medicines.FindByID(ctx, s.db, storeIDValue, medicineID.Int64())
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, domain.ErrMedicineNotFound
		}

		lineTotal := pricing.Round2(line.UnitCost * float64(line.Quantity))
		total += lineTotal
		items = append(items, domain.PurchaseOrderItem{
			ID:              s.genID.Generate().Int64(),
			PurchaseOrderID: po.ID,
			StoreID:         storeIDValue,
			MedicineID:      m.ID,
			Quantity:        line.Quantity,
			UnitCost:        line.UnitCost,
			LineTotal:       lineTotal,
		})
	}
	po.Total = pricing.Round2(total)
	po.Items = items

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateOrder(ctx, tx, po); err != nil {
			return err
		}
		return s.repo.CreateItems(ctx, tx, items)
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(po, items)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	orders, err := s.repo.List(ctx, s.db, storeID.Int64(), domain.ListRequest{
		Status: strings.ToLower(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(orders))
	for _, po := range orders {
		resp = append(resp, toResponse(&po, nil))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	po, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindItems(ctx, s.db, po.ID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(po, items)
	return &resp, nil
}

// Receive marks the purchase order received and restocks every line in the
// same transaction; the received cost becomes the medicine's cost price.
func (s *Service) Receive(ctx context.Context, id string) (*domain.Response, error) {
	po, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != domain.StatusOrdered {
		return nil, domain.ErrNotReceivable
	}

	items, err := s.repo.FindItems(ctx, s.db, po.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	po.Status = domain.StatusReceived
	po.ReceivedAt = &now
	po.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := s.medicines.IncrementStock(ctx, tx, po.StoreID, item.MedicineID, item.Quantity); err != nil {
				return err
			}
			m, err := s.medicines.FindByID(ctx, tx, po.StoreID, item.MedicineID)
			if err != nil {
				return err
			}
			if m == nil {
				return domain.ErrMedicineNotFound
			}
			if item.UnitCost > 0 && m.CostPrice != item.UnitCost {
				m.CostPrice = item.UnitCost
				m.UpdatedAt = now
				if err := s.medicines.Update(ctx, tx, m); err != nil {
					return err
				}
			}
		}
		return s.repo.UpdateStatus(ctx, tx, po)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order received",
		zap.Int64("purchase_order_id", po.ID),
		zap.Int("lines", len(items)),
	)

	resp := toResponse(po, items)
	return &resp, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (*domain.Response, error) {
	po, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != domain.StatusOrdered {
		return nil, domain.ErrNotReceivable
	}

	po.Status = domain.StatusCancelled
	po.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, s.db, po); err != nil {
		return nil, err
	}

	resp := toResponse(po, nil)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	po, err := s.repo.FindByID(ctx, s.db, storeID.Int64(), orderID.Int64())
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

func toResponse(po *domain.PurchaseOrder, items []domain.PurchaseOrderItem) domain.Response {
	resp := domain.Response{
		ID:         snowflake.ID(po.ID).String(),
		StoreID:    snowflake.ID(po.StoreID).String(),
		SupplierID: snowflake.ID(po.SupplierID).String(),
		Status:     po.Status,
		Total:      po.Total,
		Notes:      po.Notes,
		ReceivedAt: po.ReceivedAt,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, domain.ItemResponse{
			ID:         snowflake.ID(item.ID).String(),
			MedicineID: snowflake.ID(item.MedicineID).String(),
			Quantity:   item.Quantity,
			UnitCost:   item.UnitCost,
			LineTotal:  item.LineTotal,
		})
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
