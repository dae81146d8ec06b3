package migration

import (
	"github.com/craftedcv/craftedcv/internal/config"
	couponsdomain "github.com/craftedcv/craftedcv/internal/coupon/domain"
	creditsdomain "github.com/craftedcv/craftedcv/internal/credits/domain"
	plandomain "github.com/craftedcv/craftedcv/internal/plan/domain"
	resumedomain "github.com/craftedcv/craftedcv/internal/resume/domain"
	subscriptiondomain "github.com/craftedcv/craftedcv/internal/subscription/domain"
	userdomain "github.com/craftedcv/craftedcv/internal/user/domain"
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
			return RunMigrations(sqlDB)
		}

		// sqlite has no migrate driver wired; derive the schema from the models.
		return conn.AutoMigrate(
			&userdomain.User{},
			&creditsdomain.PaymentLogEntry{},
			&couponsdomain.Coupon{},
			&plandomain.Plan{},
			&subscriptiondomain.Subscription{},
			&resumedomain.Template{},
			&resumedomain.Schema{},
			&resumedomain.Resume{},
		)
	}),
)
