package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medipos/internal/customer/domain"
	"github.com/smallbiznis/medipos/internal/storecontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:   p.Log.Named("customer.service"),
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

	now := time.Now().UTC()
	c := &domain.Customer{
		ID:        s.genID.Generate().Int64(),
		StoreID:   storeID.Int64(),
		Name:      name,
		Phone:     trimPtr(req.Phone),
		Email:     trimPtr(req.Email),
		Address:   trimPtr(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, s.db, c); err != nil {
		return nil, err
	}

	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	items, err := s.repo.List(ctx, s.db, storeID.Int64(), domain.ListRequest{
		Search: strings.TrimSpace(req.Search),
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(item)
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
	if req.Phone != nil {
		item.Phone = trimPtr(req.Phone)
	}
	if req.Email != nil {
		item.Email = trimPtr(req.Email)
	}
	if req.Address != nil {
		item.Address = trimPtr(req.Address)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Customer, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, storeID.Int64(), customerID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func toResponse(c *domain.Customer) domain.Response {
	return domain.Response{
		ID:        snowflake.ID(c.ID).String(),
		StoreID:   snowflake.ID(c.StoreID).String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
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
