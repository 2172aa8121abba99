package migration

import (
	authdomain "github.com/smallbiznis/medipos/internal/auth/domain"
	"github.com/smallbiznis/medipos/internal/config"
	customerdomain "github.com/smallbiznis/medipos/internal/customer/domain"
	medicinedomain "github.com/smallbiznis/medipos/internal/medicine/domain"
	orderdomain "github.com/smallbiznis/medipos/internal/order/domain"
	purchasedomain "github.com/smallbiznis/medipos/internal/purchase/domain"
	"github.com/smallbiznis/medipos/internal/seed"
	storedomain "github.com/smallbiznis/medipos/internal/store/domain"
	supplierdomain "github.com/smallbiznis/medipos/internal/supplier/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are dev conveniences, schema comes from the models.
			if err := conn.AutoMigrate(
				&storedomain.Store{},
				&authdomain.User{},
				&authdomain.Session{},
				&medicinedomain.Medicine{},
				&customerdomain.Customer{},
				&supplierdomain.Supplier{},
				&orderdomain.Order{},
				&orderdomain.OrderItem{},
				&purchasedomain.PurchaseOrder{},
				&purchasedomain.PurchaseOrderItem{},
			); err != nil {
				return err
			}
		}

		if cfg.DefaultStoreID != 0 {
			if err := seed.EnsureDefaultStoreWithID(conn, cfg.DefaultStoreID); err != nil {
				return err
			}
		}
		return seed.EnsureDefaultStoreAndAdmin(conn, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
	}),
)
