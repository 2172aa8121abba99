package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/medipos/internal/medicine/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, medicine *domain.Medicine) error {
	return db.WithContext(ctx).Create(medicine).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, storeID, id int64) (*domain.Medicine, error) {
	var m domain.Medicine
	err := db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		Take(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, storeID int64, filter domain.ListRequest) ([]domain.Medicine, error) {
	var items []domain.Medicine
	stmt := db.WithContext(ctx).
		Model(&domain.Medicine{}).
		Where("store_id = ?", storeID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR generic_name LIKE ? OR manufacturer LIKE ?", pattern, pattern, pattern)
	}
	if filter.LowStock {
		stmt = stmt.Where("quantity <= reorder_level")
	}
	if filter.ExpiringDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, filter.ExpiringDays)
		stmt = stmt.Where("expiry_date IS NOT NULL AND expiry_date <= ?", cutoff)
	}

	sortBy := filter.SortBy
	if !allowedSortColumns[sortBy] {
		sortBy = "name"
	}
	order := "ASC"
	if filter.OrderBy == "desc" {
		order = "DESC"
	}
	stmt = stmt.Order(sortBy + " " + order)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

var allowedSortColumns = map[string]bool{
	"name":        true,
	"quantity":    true,
	"expiry_date": true,
	"created_at":  true,
	"updated_at":  true,
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, medicine *domain.Medicine) error {
	if medicine == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE medicines
		 SET name = ?, generic_name = ?, manufacturer = ?, expiry_date = ?,
		     reorder_level = ?, selling_price = ?, cost_price = ?, gst_per_unit = ?,
		     metadata = ?, updated_at = ?
		 WHERE store_id = ? AND id = ?`,
		medicine.Name,
		medicine.GenericName,
		medicine.Manufacturer,
		medicine.ExpiryDate,
		medicine.ReorderLevel,
		medicine.SellingPrice,
		medicine.CostPrice,
		medicine.GSTPerUnit,
		medicine.Metadata,
		medicine.UpdatedAt,
		medicine.StoreID,
		medicine.ID,
	).Error
}

// DecrementStock is the oversell guard: the quantity check and the write are
// one statement, so two concurrent checkouts cannot both pass a stale read.
func (r *repo) DecrementStock(ctx context.Context, db *gorm.DB, storeID, id int64, quantity int) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE medicines
		 SET quantity = quantity - ?, updated_at = ?
		 WHERE store_id = ? AND id = ? AND quantity >= ?`,
		quantity,
		time.Now().UTC(),
		storeID,
		id,
		quantity,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) SetStock(ctx context.Context, db *gorm.DB, storeID, id int64, quantity int) error {
	return db.WithContext(ctx).Exec(
		`UPDATE medicines
		 SET quantity = ?, updated_at = ?
		 WHERE store_id = ? AND id = ?`,
		quantity,
		time.Now().UTC(),
		storeID,
		id,
	).Error
}

func (r *repo) IncrementStock(ctx context.Context, db *gorm.DB, storeID, id int64, quantity int) error {
	return db.WithContext(ctx).Exec(
		`UPDATE medicines
		 SET quantity = quantity + ?, updated_at = ?
		 WHERE store_id = ? AND id = ?`,
		quantity,
		time.Now().UTC(),
		storeID,
		id,
	).Error
}
