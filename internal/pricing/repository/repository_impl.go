package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/pricing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tier *domain.Tier) error {
	return db.WithContext(ctx).Create(tier).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tier *domain.Tier) error {
	return db.WithContext(ctx).Save(tier).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tier, error) {
	var tier domain.Tier
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&tier).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.Tier, error) {
	stmt := db.WithContext(ctx).Model(&domain.Tier{})
	if activeOnly {
		stmt = stmt.Where("is_active = ?", true)
	}

	var tiers []domain.Tier
	err := stmt.Order("price asc").Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Tier{}).Count(&count).Error
	return count, err
}
