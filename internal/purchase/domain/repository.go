package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateOrder(ctx context.Context, db *gorm.DB, order *PurchaseOrder) error
	CreateItems(ctx context.Context, db *gorm.DB, items []PurchaseOrderItem) error
	FindByID(ctx context.Context, db *gorm.DB, storeID, id int64) (*PurchaseOrder, error)
	FindItems(ctx context.Context, db *gorm.DB, orderID int64) ([]PurchaseOrderItem, error)
	List(ctx context.Context, db *gorm.DB, storeID int64, filter ListRequest) ([]PurchaseOrder, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, order *PurchaseOrder) error
}
