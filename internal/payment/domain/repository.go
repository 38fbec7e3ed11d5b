package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByCode(ctx context.Context, db *gorm.DB, userID snowflake.ID, orderCode string) (*Order, error)
}
