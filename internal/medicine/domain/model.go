package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Medicine struct {
	ID           int64             `json:"id" gorm:"primaryKey"`
	StoreID      int64             `json:"store_id" gorm:"column:store_id;not null;uniqueIndex:ux_medicines_store_batch,priority:1"`
	Name         string            `json:"name" gorm:"type:text;not null"`
	GenericName  *string           `json:"generic_name,omitempty" gorm:"type:text"`
	Manufacturer string            `json:"manufacturer" gorm:"type:text;not null;default:''"`
	BatchNumber  string            `json:"batch_number" gorm:"type:text;not null;uniqueIndex:ux_medicines_store_batch,priority:2"`
	ExpiryDate   *time.Time        `json:"expiry_date,omitempty"`
	Quantity     int               `json:"quantity" gorm:"not null;default:0"`
	ReorderLevel int               `json:"reorder_level" gorm:"not null;default:10"`
	SellingPrice float64           `json:"selling_price" gorm:"not null;default:0"`
	CostPrice    float64           `json:"cost_price" gorm:"not null;default:0"`
	GSTPerUnit   float64           `json:"gst_per_unit" gorm:"column:gst_per_unit;not null;default:0"`
	Metadata     datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Medicine) TableName() string { return "medicines" }

// LowStock reports whether the medicine is at or below its reorder level.
func (m Medicine) LowStock() bool {
	return m.Quantity <= m.ReorderLevel
}
