package repository

import (
	"context"

	"github.com/smallbiznis/medipos/internal/supplier/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, supplier *domain.Supplier) error {
	return db.WithContext(ctx).Create(supplier).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, storeID, id int64) (*domain.Supplier, error) {
	var s domain.Supplier
	err := db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Take(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, storeID int64, filter domain.ListRequest) ([]domain.Supplier, error) {
	var items []domain.Supplier
	stmt := db.WithContext(ctx).
		Model(&domain.Supplier{}).
		Where("store_id = ?", storeID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR contact LIKE ?", pattern, pattern)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}

	if err := stmt.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, supplier *domain.Supplier) error {
	if supplier == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE suppliers
		 SET name = ?, contact = ?, phone = ?, email = ?, address = ?, active = ?, updated_at = ?
		 WHERE store_id = ? AND id = ?`,
		supplier.Name,
		supplier.Contact,
		supplier.Phone,
		supplier.Email,
		supplier.Address,
		supplier.Active,
		supplier.UpdatedAt,
		supplier.StoreID,
		supplier.ID,
	).Error
}
