package domain

import (
	"context"
	"errors"
	"time"
)

// Purchase order lifecycle.
const (
	StatusOrdered   = "ordered"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

type PurchaseOrder struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	StoreID    int64      `json:"store_id" gorm:"column:store_id;not null;index"`
	SupplierID int64      `json:"supplier_id" gorm:"not null;index"`
	Status     string     `json:"status" gorm:"type:text;not null"`
	Total      float64    `json:"total" gorm:"not null;default:0"`
	Notes      *string    `json:"notes,omitempty" gorm:"type:text"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Items []PurchaseOrderItem `json:"items,omitempty" gorm:"-"`
}

func (PurchaseOrder) TableName() string { return "purchase_orders" }

type PurchaseOrderItem struct {
	ID              int64   `json:"id" gorm:"primaryKey"`
	PurchaseOrderID int64   `json:"purchase_order_id" gorm:"not null;index"`
	StoreID         int64   `json:"store_id" gorm:"column:store_id;not null"`
	MedicineID      int64   `json:"medicine_id" gorm:"not null"`
	Quantity        int     `json:"quantity" gorm:"not null"`
	UnitCost        float64 `json:"unit_cost" gorm:"not null"`
	LineTotal       float64 `json:"line_total" gorm:"not null"`
}

func (PurchaseOrderItem) TableName() string { return "purchase_order_items" }

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Receive(ctx context.Context, id string) (*Response, error)
	Cancel(ctx context.Context, id string) (*Response, error)
}

type LineRequest struct {
	MedicineID string  `json:"medicine_id"`
	Quantity   int     `json:"quantity"`
	UnitCost   float64 `json:"unit_cost"`
}

type CreateRequest struct {
	SupplierID string        `json:"supplier_id"`
	Notes      *string       `json:"notes"`
	Lines      []LineRequest `json:"lines"`
}

type ListRequest struct {
	Status string
}

type ItemResponse struct {
	ID         string  `json:"id"`
	MedicineID string  `json:"medicine_id"`
	Quantity   int     `json:"quantity"`
	UnitCost   float64 `json:"unit_cost"`
	LineTotal  float64 `json:"line_total"`
}

type Response struct {
	ID         string         `json:"id"`
	StoreID    string         `json:"store_id"`
	SupplierID string         `json:"supplier_id"`
	Status     string         `json:"status"`
	Total      float64        `json:"total"`
	Notes      *string        `json:"notes,omitempty"`
	ReceivedAt *time.Time     `json:"received_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Items      []ItemResponse `json:"items,omitempty"`
}

var (
	ErrInvalidStore     = errors.New("invalid_store")
	ErrInvalidSupplier  = errors.New("invalid_supplier")
	ErrEmptyOrder       = errors.New("empty_purchase_order")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidCost      = errors.New("invalid_cost")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrMedicineNotFound = errors.New("medicine_not_found")
	ErrNotReceivable    = errors.New("not_receivable")
)
