package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"gorm.io/gorm"
)

// ListFilter narrows article listings. Zero values mean "no constraint".
type ListFilter struct {
	Category Category
	Featured bool
	Search   string
	Status   Status

	// PublishedAsOf, when non-zero, keeps only articles effectively
	// published at that instant and excludes content bodies.
	PublishedAsOf time.Time
}

type Counter string

const (
	CounterView  Counter = "view_count"
	CounterLike  Counter = "like_count"
	CounterShare Counter = "share_count"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, article *Article) error
	Update(ctx context.Context, db *gorm.DB, article *Article) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Article, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Article, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Article, int64, error)

	// Increment atomically bumps a counter and returns the new value.
	Increment(ctx context.Context, db *gorm.DB, id snowflake.ID, counter Counter) (int64, error)
}
