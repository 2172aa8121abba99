package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, supplier *Supplier) error
	FindByID(ctx context.Context, db *gorm.DB, storeID, id int64) (*Supplier, error)
	List(ctx context.Context, db *gorm.DB, storeID int64, filter ListRequest) ([]Supplier, error)
	Update(ctx context.Context, db *gorm.DB, supplier *Supplier) error
}
