package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Order statuses. Orders are immutable once created; cancelled exists only
// for records imported from the legacy system.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Payment methods accepted at the counter.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentUPI  = "upi"
)

// Payment statuses.
const (
	PaymentStatusPaid = "paid"
	PaymentStatusDue  = "due"
)

// Submission modes.
const (
	ModeComplete = "complete"
	ModePending  = "pending"
)

type Order struct {
	ID             int64             `json:"id" gorm:"primaryKey"`
	StoreID        int64             `json:"store_id" gorm:"column:store_id;not null;index"`
	CustomerID     *int64            `json:"customer_id,omitempty"`
	CustomerName   *string           `json:"customer_name,omitempty" gorm:"type:text"`
	CustomerPhone  *string           `json:"customer_phone,omitempty" gorm:"type:text"`
	CustomerEmail  *string           `json:"customer_email,omitempty" gorm:"type:text"`
	Status         string            `json:"status" gorm:"type:text;not null"`
	PaymentMethod  string            `json:"payment_method" gorm:"type:text;not null"`
	PaymentStatus  string            `json:"payment_status" gorm:"type:text;not null"`
	Subtotal       float64           `json:"subtotal" gorm:"not null;default:0"`
	DiscountAmount float64           `json:"discount_amount" gorm:"not null;default:0"`
	GrandTotal     float64           `json:"grand_total" gorm:"not null;default:0"`
	Profit         float64           `json:"profit" gorm:"not null;default:0"`
	ItemCount      int               `json:"item_count" gorm:"not null;default:0"`
	CreatedByID    int64             `json:"created_by_id" gorm:"not null;default:0"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Items []OrderItem `json:"items,omitempty" gorm:"-"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots the medicine's pricing at time of sale, so later price
// changes never rewrite history.
type OrderItem struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	OrderID         int64     `json:"order_id" gorm:"not null;index"`
	StoreID         int64     `json:"store_id" gorm:"column:store_id;not null"`
	MedicineID      int64     `json:"medicine_id" gorm:"not null"`
	Name            string    `json:"name" gorm:"type:text;not null"`
	Manufacturer    string    `json:"manufacturer" gorm:"type:text;not null;default:''"`
	BatchNumber     string    `json:"batch_number" gorm:"type:text;not null;default:''"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	UnitPrice       float64   `json:"unit_price" gorm:"not null"`
	CostPrice       float64   `json:"cost_price" gorm:"not null"`
	DiscountPercent float64   `json:"discount_percent" gorm:"not null;default:0"`
	GSTPerUnit      float64   `json:"gst_per_unit" gorm:"column:gst_per_unit;not null;default:0"`
	LineTotal       float64   `json:"line_total" gorm:"not null"`
	Profit          float64   `json:"profit" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OrderItem) TableName() string { return "order_items" }
