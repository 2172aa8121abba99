package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateOrder(ctx context.Context, db *gorm.DB, order *Order) error
	CreateItems(ctx context.Context, db *gorm.DB, items []OrderItem) error
	FindByID(ctx context.Context, db *gorm.DB, storeID, id int64) (*Order, error)
	FindItems(ctx context.Context, db *gorm.DB, orderID int64) ([]OrderItem, error)
	List(ctx context.Context, db *gorm.DB, storeID int64, filter ListRequest) ([]Order, error)
}
