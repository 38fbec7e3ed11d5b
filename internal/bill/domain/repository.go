package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"gorm.io/gorm"
)

// ListFilter narrows bill listings. Zero values mean "no constraint".
type ListFilter struct {
	CustomerCode string
	Status       Status
	Year         int
	Search       string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	Update(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	FindLatestByCustomer(ctx context.Context, db *gorm.DB, customerCode string) (*Bill, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Bill, int64, error)
	Stats(ctx context.Context, db *gorm.DB, monthStart, monthEnd time.Time) (Stats, error)
}
