package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/pkg/db/pagination"
)

type CreateArticleRequest struct {
	Title          string
	Slug           string
	Summary        string
	Content        string
	AuthorID       snowflake.ID
	Category       Category
	Tags           []string
	FeaturedImage  *Image
	Images         []Image
	Attachments    []Attachment
	Status         Status
	IsFeatured     bool
	IsPinned       bool
	ExpiresAt      *time.Time
	TargetAudience TargetAudience
	Priority       Priority
}

type ListArticlesRequest struct {
	Page     pagination.Pagination
	Category string
	Featured bool
	Search   string

	// PublishedOnly restricts the listing to effectively-published
	// articles and drops content bodies from the result.
	PublishedOnly bool

	// Status filters the admin listing. Ignored when PublishedOnly.
	Status string
}

type ListArticlesResponse struct {
	Articles []Article           `json:"news"`
	PageInfo pagination.PageInfo `json:"pagination"`
}

type UpdateArticleRequest struct {
	ID      string
	Changes Changes
}

type Service interface {
	Create(context.Context, CreateArticleRequest) (Article, error)
	List(context.Context, ListArticlesRequest) (ListArticlesResponse, error)

	// GetBySlug returns an effectively-published article and counts
	// the view.
	GetBySlug(ctx context.Context, slug string) (Article, error)

	GetByID(ctx context.Context, id string) (Article, error)
	Update(context.Context, UpdateArticleRequest) (Article, error)
	Delete(ctx context.Context, id string) error

	// Like increments the like counter and returns the new value.
	Like(ctx context.Context, id string) (int64, error)

	// Share increments the share counter and returns the new value.
	Share(ctx context.Context, id string) (int64, error)
}

var (
	ErrInvalidTitle    = errors.New("invalid_title")
	ErrInvalidSummary  = errors.New("invalid_summary")
	ErrInvalidContent  = errors.New("invalid_content")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidAudience = errors.New("invalid_audience")
	ErrInvalidPriority = errors.New("invalid_priority")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrSlugConflict    = errors.New("slug_conflict")
)
