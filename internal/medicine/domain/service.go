package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Restock(ctx context.Context, id string, quantity int) (*Response, error)
	Adjust(ctx context.Context, id string, quantity int) (*Response, error)
}

type ListRequest struct {
	Search        string
	LowStock      bool
	ExpiringDays  int
	SortBy        string
	OrderBy       string
}

type CreateRequest struct {
	Name         string         `json:"name"`
	GenericName  *string        `json:"generic_name"`
	Manufacturer string         `json:"manufacturer"`
	BatchNumber  string         `json:"batch_number"`
	ExpiryDate   *time.Time     `json:"expiry_date"`
	Quantity     int            `json:"quantity"`
	ReorderLevel *int           `json:"reorder_level"`
	SellingPrice float64        `json:"selling_price"`
	CostPrice    float64        `json:"cost_price"`
	GSTPerUnit   float64        `json:"gst_per_unit"`
	Metadata     map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID           string         `json:"-"`
	Name         *string        `json:"name"`
	GenericName  *string        `json:"generic_name"`
	Manufacturer *string        `json:"manufacturer"`
	ExpiryDate   *time.Time     `json:"expiry_date"`
	ReorderLevel *int           `json:"reorder_level"`
	SellingPrice *float64       `json:"selling_price"`
	CostPrice    *float64       `json:"cost_price"`
	GSTPerUnit   *float64       `json:"gst_per_unit"`
	Metadata     map[string]any `json:"metadata"`
}

type Response struct {
	ID           string         `json:"id"`
	StoreID      string         `json:"store_id"`
	Name         string         `json:"name"`
	GenericName  *string        `json:"generic_name,omitempty"`
	Manufacturer string         `json:"manufacturer"`
	BatchNumber  string         `json:"batch_number"`
	ExpiryDate   *time.Time     `json:"expiry_date,omitempty"`
	Quantity     int            `json:"quantity"`
	ReorderLevel int            `json:"reorder_level"`
	SellingPrice float64        `json:"selling_price"`
	CostPrice    float64        `json:"cost_price"`
	GSTPerUnit   float64        `json:"gst_per_unit"`
	LowStock     bool           `json:"low_stock"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

var (
	ErrInvalidStore    = errors.New("invalid_store")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidBatch    = errors.New("invalid_batch_number")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrDuplicateBatch  = errors.New("duplicate_batch_number")
)
