package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/introaqua/waterworks/internal/auth/domain"
	"github.com/introaqua/waterworks/internal/auth/password"
	"github.com/introaqua/waterworks/internal/config"
	pricingdomain "github.com/introaqua/waterworks/internal/pricing/domain"
	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
	defaultAdminName     = "Administrator"
	defaultAdminPhone    = "0123456789"
)

// EnsureAdminUser creates the bootstrap admin account when no users
// exist yet.
func EnsureAdminUser(db *gorm.DB, cfg config.BootstrapConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" {
		email = "admin@introaqua.local"
	}
	adminPassword := cfg.AdminPassword
	if adminPassword == "" {
		adminPassword = defaultAdminPassword
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&authdomain.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(adminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		admin := authdomain.User{
			ID:           node.Generate(),
			Username:     defaultAdminUsername,
			Email:        email,
			PasswordHash: hashed,
			FullName:     defaultAdminName,
			Phone:        defaultAdminPhone,
			Role:         authdomain.RoleAdmin,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&admin).Error
	})
}

// EnsureDefaultPricing seeds the public price list on an empty table.
func EnsureDefaultPricing(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&pricingdomain.Tier{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, tier := range defaultTiers {
			tier.ID = node.Generate()
			tier.IsActive = true
			tier.CreatedAt = now
			tier.UpdatedAt = now
			if err := tx.Create(&tier).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var defaultTiers = []pricingdomain.Tier{
	{
		Code:        "family",
		Name:        "Gói Gia đình",
		Badge:       "Phổ biến",
		Description: "Thích hợp cho hộ gia đình 3-5 người sử dụng hằng ngày.",
		Price:       65000,
		Unit:        "mỗi bình 20L",
		Includes: []string{
			"Giao trong 2 giờ tại nội thành",
			"Cho mượn tối đa 4 vỏ miễn phí",
			"Nhắc lịch đổi bình định kỳ qua SMS",
		},
	},
	{
		Code:        "office",
		Name:        "Gói Văn phòng",
		Badge:       "Tiết kiệm",
		Description: "Giao định kỳ cho doanh nghiệp nhỏ và văn phòng co-working.",
		Price:       58000,
		Unit:        "mỗi bình 20L",
		Includes: []string{
			"Tối thiểu 8 bình/tuần",
			"Miễn phí thiết lập kệ và van rót",
			"Báo cáo tiêu thụ & công nợ hàng tháng",
		},
	},
	{
		Code:        "dealer",
		Name:        "Gói Đại lý",
		Badge:       "Sỉ",
		Description: "Dành cho đại lý phân phối, chung cư và căng-tin trường học.",
		Price:       52000,
		Unit:        "mỗi bình 20L",
		Includes: []string{
			"Đơn tối thiểu 30 bình/lần",
			"Ưu tiên giao sáng sớm & cuối ngày",
			"Hỗ trợ vật phẩm POS và biển hiệu",
		},
	},
}
