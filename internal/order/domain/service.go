package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Response, error)
	Validate(ctx context.Context, req ValidateRequest) (*ValidateResponse, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
}

// ValidateRequest checks one cart line against current stock before it is
// added. ExistingQuantity is what the cart already holds for the medicine,
// so the check is cumulative rather than per increment.
type ValidateRequest struct {
	MedicineID       string `json:"medicine_id"`
	Quantity         int    `json:"quantity"`
	ExistingQuantity int    `json:"existing_quantity"`
}

type ValidateResponse struct {
	OK         bool   `json:"ok"`
	MaxAllowed int    `json:"max_allowed"`
	Message    string `json:"message,omitempty"`
}

type LineRequest struct {
	MedicineID      string  `json:"medicine_id"`
	Quantity        int     `json:"quantity"`
	DiscountPercent float64 `json:"discount_percent"`
}

type SubmitRequest struct {
	Lines          []LineRequest `json:"lines"`
	CustomerID     *string       `json:"customer_id"`
	CustomerName   *string       `json:"customer_name"`
	CustomerPhone  *string       `json:"customer_phone"`
	CustomerEmail  *string       `json:"customer_email"`
	PaymentMethod  string        `json:"payment_method"`
	DiscountAmount float64       `json:"discount_amount"`
	Mode           string        `json:"mode"`
}

type ListRequest struct {
	Status string
	From   *time.Time
	To     *time.Time
}

type ItemResponse struct {
	ID              string  `json:"id"`
	MedicineID      string  `json:"medicine_id"`
	Name            string  `json:"name"`
	Manufacturer    string  `json:"manufacturer,omitempty"`
	BatchNumber     string  `json:"batch_number,omitempty"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	GSTPerUnit      float64 `json:"gst_per_unit"`
	LineTotal       float64 `json:"line_total"`
	Profit          float64 `json:"profit,omitempty"`
}

type Response struct {
	ID             string         `json:"id"`
	StoreID        string         `json:"store_id"`
	CustomerID     *string        `json:"customer_id,omitempty"`
	CustomerName   *string        `json:"customer_name,omitempty"`
	CustomerPhone  *string        `json:"customer_phone,omitempty"`
	CustomerEmail  *string        `json:"customer_email,omitempty"`
	Status         string         `json:"status"`
	PaymentMethod  string         `json:"payment_method"`
	PaymentStatus  string         `json:"payment_status"`
	Subtotal       float64        `json:"subtotal"`
	DiscountAmount float64        `json:"discount_amount"`
	GrandTotal     float64        `json:"grand_total"`
	Profit         float64        `json:"profit"`
	ItemCount      int            `json:"item_count"`
	CreatedAt      time.Time      `json:"created_at"`
	Items          []ItemResponse `json:"items,omitempty"`
}

var (
	ErrInvalidStore     = errors.New("invalid_store")
	ErrEmptyCart        = errors.New("empty_cart")
	ErrInvalidPayment   = errors.New("invalid_payment_method")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidDiscount  = errors.New("invalid_discount")
	ErrInvalidMode      = errors.New("invalid_mode")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrMedicineNotFound = errors.New("medicine_not_found")
)

// Shortage is one cart line whose requested quantity exceeds current stock.
type Shortage struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	Requested  int    `json:"requested"`
	Available  int    `json:"available"`
}

// StockError aggregates every shortage in a submission, not just the first;
// the whole submission is rejected and nothing is persisted.
type StockError struct {
	Shortages []Shortage
}

func (e *StockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requested %d, available %d", s.Name, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
