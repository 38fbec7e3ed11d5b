package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tier *Tier) error
	Update(ctx context.Context, db *gorm.DB, tier *Tier) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tier, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]Tier, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
