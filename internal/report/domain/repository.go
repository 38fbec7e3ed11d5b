package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"gorm.io/gorm"
)

// ListFilter narrows report listings. Zero values mean "no constraint".
type ListFilter struct {
	CustomerCode string
	Status       Status
	Type         Type
	Priority     Priority
	Search       string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, report *Report) error
	Update(ctx context.Context, db *gorm.DB, report *Report) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Report, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Report, int64, error)
	Stats(ctx context.Context, db *gorm.DB, now time.Time) (ReportStats, error)
}
