package repository

import (
	"context"

	"github.com/smallbiznis/medipos/internal/purchase/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateOrder(ctx context.Context, db *gorm.DB, order *domain.PurchaseOrder) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) CreateItems(ctx context.Context, db *gorm.DB, items []domain.PurchaseOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, storeID, id int64) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Take(&po).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &po, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, orderID int64) ([]domain.PurchaseOrderItem, error) {
	var items []domain.PurchaseOrderItem
	err := db.WithContext(ctx).
		Where("purchase_order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, storeID int64, filter domain.ListRequest) ([]domain.PurchaseOrder, error) {
	var items []domain.PurchaseOrder
	stmt := db.WithContext(ctx).
		Model(&domain.PurchaseOrder{}).
		Where("store_id = ?", storeID)

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	if err := stmt.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, order *domain.PurchaseOrder) error {
	if order == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE purchase_orders
		 SET status = ?, received_at = ?, updated_at = ?
		 WHERE store_id = ? AND id = ?`,
		order.Status,
		order.ReceivedAt,
		order.UpdatedAt,
		order.StoreID,
		order.ID,
	).Error
}
