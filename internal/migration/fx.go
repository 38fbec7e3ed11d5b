package migration

import (
	authdomain "github.com/introaqua/waterworks/internal/auth/domain"
	billdomain "github.com/introaqua/waterworks/internal/bill/domain"
	"github.com/introaqua/waterworks/internal/config"
	newsdomain "github.com/introaqua/waterworks/internal/news/domain"
	paymentdomain "github.com/introaqua/waterworks/internal/payment/domain"
	pricingdomain "github.com/introaqua/waterworks/internal/pricing/domain"
	reportdomain "github.com/introaqua/waterworks/internal/report/domain"
	"github.com/introaqua/waterworks/internal/seed"
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
			// MySQL and SQLite deployments sync the schema from the
			// models instead of the Postgres migration files.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&billdomain.Bill{},
				&reportdomain.Report{},
				&newsdomain.Article{},
				&pricingdomain.Tier{},
				&paymentdomain.Order{},
			); err != nil {
				return err
			}
		}

		if cfg.Bootstrap.EnsureAdminUser {
			if err := seed.EnsureAdminUser(conn, cfg.Bootstrap); err != nil {
				return err
			}
		}
		if cfg.Bootstrap.SeedDefaultPricing {
			if err := seed.EnsureDefaultPricing(conn); err != nil {
				return err
			}
		}
		return nil
	}),
)
