package domain

import (
	"context"
	"errors"
	"time"
)

type Customer struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	StoreID   int64     `json:"store_id" gorm:"column:store_id;not null;index"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:text"`
	Email     *string   `json:"email,omitempty" gorm:"type:text"`
	Address   *string   `json:"address,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Customer) TableName() string { return "customers" }

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
}

type ListRequest struct {
	Search string
}

type CreateRequest struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type UpdateRequest struct {
	ID      string  `json:"-"`
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type Response struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidStore = errors.New("invalid_store")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
