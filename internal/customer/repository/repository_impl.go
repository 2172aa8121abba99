package repository

import (
	"context"

	"github.com/smallbiznis/medipos/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, storeID, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Take(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, storeID int64, filter domain.ListRequest) ([]domain.Customer, error) {
	var items []domain.Customer
	stmt := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("store_id = ?", storeID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}

	if err := stmt.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	if customer == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET name = ?, phone = ?, email = ?, address = ?, updated_at = ?
		 WHERE store_id = ? AND id = ?`,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Address,
		customer.UpdatedAt,
		customer.StoreID,
		customer.ID,
	).Error
}
