package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, storeID, id int64) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, storeID int64, filter ListRequest) ([]Customer, error)
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
}
