package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, userID snowflake.ID, orderCode string) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Where("order_code = ? AND user_id = ?", orderCode, userID).
		First(&order).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
