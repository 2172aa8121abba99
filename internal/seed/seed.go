package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/medipos/internal/auth/domain"
	"github.com/smallbiznis/medipos/internal/auth/password"
	storedomain "github.com/smallbiznis/medipos/internal/store/domain"
	"github.com/smallbiznis/medipos/internal/storecontext"
	"gorm.io/gorm"
)

const (
	defaultStoreName     = "Main"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "MediPOS Admin"
)

// EnsureDefaultStore seeds the default store for startup bootstrap.
func EnsureDefaultStore(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureDefaultStoreTx(ctx, tx, node.Generate().Int64())
		return err
	})
}

// EnsureDefaultStoreWithID seeds the default store under a fixed ID so
// pre-provisioned deployments keep stable references.
func EnsureDefaultStoreWithID(db *gorm.DB, id int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if id == 0 {
		return errors.New("seed store id is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureDefaultStoreTx(ctx, tx, id)
		return err
	})
}

// EnsureDefaultStoreAndAdmin seeds the default store plus an admin user so a
// fresh install can log in immediately.
func EnsureDefaultStoreAndAdmin(db *gorm.DB, adminEmail, adminPassword string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(adminEmail))
	if email == "" {
		return errors.New("seed admin email is required")
	}
	if adminPassword == "" {
		adminPassword = defaultAdminPassword
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store, err := ensureDefaultStoreTx(ctx, tx, node.Generate().Int64())
		if err != nil {
			return err
		}

		var user authdomain.User
		err = tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(adminPassword)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		user = authdomain.User{
			ID:           node.Generate().Int64(),
			StoreID:      store.ID,
			Email:        email,
			Name:         defaultAdminDisplay,
			Role:         storecontext.RoleAdmin,
			PasswordHash: hashed,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}

func ensureDefaultStoreTx(ctx context.Context, tx *gorm.DB, id int64) (storedomain.Store, error) {
	var store storedomain.Store
	err := tx.WithContext(ctx).Order("id").First(&store).Error
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return store, err
	}
	now := time.Now().UTC()
	store = storedomain.Store{
		ID:        id,
		Name:      defaultStoreName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&store).Error; err != nil {
		return store, err
	}
	return store, nil
}
