package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, medicine *Medicine) error
	FindByID(ctx context.Context, db *gorm.DB, storeID, id int64) (*Medicine, error)
	List(ctx context.Context, db *gorm.DB, storeID int64, filter ListRequest) ([]Medicine, error)
	Update(ctx context.Context, db *gorm.DB, medicine *Medicine) error

	// DecrementStock atomically subtracts quantity, refusing to go negative.
	// Returns the number of rows updated: 0 means insufficient stock.
	DecrementStock(ctx context.Context, db *gorm.DB, storeID, id int64, quantity int) (int64, error)
	IncrementStock(ctx context.Context, db *gorm.DB, storeID, id int64, quantity int) error

	// SetStock overwrites the on-hand quantity, for stocktake corrections.
	SetStock(ctx context.Context, db *gorm.DB, storeID, id int64, quantity int) error
}
