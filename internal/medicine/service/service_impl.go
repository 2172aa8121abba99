package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medipos/internal/medicine/domain"
	"github.com/smallbiznis/medipos/internal/storecontext"
	"github.com/smallbiznis/medipos/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("medicine.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	batch := strings.TrimSpace(req.BatchNumber)
	if batch == "" {
		return nil, domain.ErrInvalidBatch
	}
	if req.SellingPrice < 0 || req.CostPrice < 0 || req.GSTPerUnit < 0 {
		return nil, domain.ErrInvalidPrice
	}
	if req.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	reorderLevel := 10
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		reorderLevel = *req.ReorderLevel
	}

	var genericPtr *string
	if generic := strings.TrimSpace(ptrToString(req.GenericName)); generic != "" {
		genericPtr = &generic
	}

	now := time.Now().UTC()
	m := &domain.Medicine{
		ID:           s.genID.Generate().Int64(),
		StoreID:      storeID.Int64(),
		Name:         name,
		GenericName:  genericPtr,
		Manufacturer: strings.TrimSpace(req.Manufacturer),
		BatchNumber:  batch,
		ExpiryDate:   req.ExpiryDate,
		Quantity:     req.Quantity,
		ReorderLevel: reorderLevel,
		SellingPrice: req.SellingPrice,
		CostPrice:    req.CostPrice,
		GSTPerUnit:   req.GSTPerUnit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Metadata != nil {
		m.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, m); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateBatch
		}
		return nil, err
	}

	resp := s.toResponse(m)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	filter := domain.ListRequest{
		Search:       strings.TrimSpace(req.Search),
		LowStock:     req.LowStock,
		ExpiringDays: req.ExpiringDays,
		SortBy:       strings.TrimSpace(req.SortBy),
		OrderBy:      strings.ToLower(strings.TrimSpace(req.OrderBy)),
	}

	items, err := s.repo.List(ctx, s.db, storeID.Int64(), filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.GenericName != nil {
		generic := strings.TrimSpace(*req.GenericName)
		if generic == "" {
			item.GenericName = nil
		} else {
			item.GenericName = &generic
		}
	}
	if req.Manufacturer != nil {
		item.Manufacturer = strings.TrimSpace(*req.Manufacturer)
	}
	if req.ExpiryDate != nil {
		item.ExpiryDate = req.ExpiryDate
	}
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		item.ReorderLevel = *req.ReorderLevel
	}
	if req.SellingPrice != nil {
		if *req.SellingPrice < 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.SellingPrice = *req.SellingPrice
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.CostPrice = *req.CostPrice
	}
	if req.GSTPerUnit != nil {
		if *req.GSTPerUnit < 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.GSTPerUnit = *req.GSTPerUnit
	}
	if req.Metadata != nil {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Restock(ctx context.Context, id string, quantity int) (*domain.Response, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementStock(ctx, s.db, item.StoreID, item.ID, quantity); err != nil {
		return nil, err
	}
	s.log.Info("stock replenished",
		zap.Int64("medicine_id", item.ID),
		zap.Int("quantity", quantity),
	)

	item.Quantity += quantity
	item.UpdatedAt = time.Now().UTC()
	resp := s.toResponse(item)
	return &resp, nil
}

// Adjust overwrites the on-hand quantity after a physical stocktake.
func (s *Service) Adjust(ctx context.Context, id string, quantity int) (*domain.Response, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetStock(ctx, s.db, item.StoreID, item.ID, quantity); err != nil {
		return nil, err
	}
	s.log.Info("stock adjusted",
		zap.Int64("medicine_id", item.ID),
		zap.Int("previous", item.Quantity),
		zap.Int("quantity", quantity),
	)

	item.Quantity = quantity
	item.UpdatedAt = time.Now().UTC()
	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Medicine, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	medicineID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, storeID.Int64(), medicineID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) toResponse(m *domain.Medicine) domain.Response {
	resp := domain.Response{
		ID:           snowflake.ID(m.ID).String(),
		StoreID:      snowflake.ID(m.StoreID).String(),
		Name:         m.Name,
		GenericName:  m.GenericName,
		Manufacturer: m.Manufacturer,
		BatchNumber:  m.BatchNumber,
		ExpiryDate:   m.ExpiryDate,
		Quantity:     m.Quantity,
		ReorderLevel: m.ReorderLevel,
		SellingPrice: m.SellingPrice,
		CostPrice:    m.CostPrice,
		GSTPerUnit:   m.GSTPerUnit,
		LowStock:     m.LowStock(),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if len(m.Metadata) > 0 {
		resp.Metadata = map[string]any(m.Metadata)
	}
	return resp
}

func ptrToString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
