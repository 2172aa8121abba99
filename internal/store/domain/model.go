package domain

import "time"

// Store is a single pharmacy location. Every other record carries a
// store_id so a later multi-store deployment does not need a schema change.
type Store struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Address   *string   `json:"address,omitempty" gorm:"type:text"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Store) TableName() string { return "stores" }
