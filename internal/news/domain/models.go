package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Category string

const (
	CategoryAnnouncement  Category = "announcement"
	CategoryMaintenance   Category = "maintenance"
	CategoryServiceUpdate Category = "service_update"
	CategoryCommunity     Category = "community"
	CategoryTips          Category = "tips"
	CategoryEmergency     Category = "emergency"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAnnouncement, CategoryMaintenance, CategoryServiceUpdate,
		CategoryCommunity, CategoryTips, CategoryEmergency:
		return true
	}
	return false
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type TargetAudience string

const (
	AudienceAll       TargetAudience = "all"
	AudienceCustomers TargetAudience = "customers"
	AudienceStaff     TargetAudience = "staff"
	AudiencePublic    TargetAudience = "public"
)

func (a TargetAudience) Valid() bool {
	switch a {
	case AudienceAll, AudienceCustomers, AudienceStaff, AudiencePublic:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

type Article struct {
	ID      snowflake.ID `json:"id,string" gorm:"primaryKey"`
	Title   string       `json:"title" gorm:"size:200"`
	Slug    string       `json:"slug" gorm:"size:250;uniqueIndex"`
	Summary string       `json:"summary" gorm:"size:500"`
	Content string       `json:"content"`

	AuthorID snowflake.ID `json:"author_id,string" gorm:"index"`
	Category Category     `json:"category" gorm:"size:20;index"`

	Tags          []string          `json:"tags" gorm:"serializer:json"`
	FeaturedImage *Image            `json:"featured_image,omitempty" gorm:"serializer:json"`
	Images        []Image           `json:"images,omitempty" gorm:"serializer:json"`
	Attachments   []Attachment      `json:"attachments,omitempty" gorm:"serializer:json"`
	SEO           datatypes.JSONMap `json:"seo,omitempty"`

	Status     Status `json:"status" gorm:"size:10;index"`
	IsFeatured bool   `json:"is_featured"`
	IsPinned   bool   `json:"is_pinned"`

	PublishedAt *time.Time `json:"published_at"`
	ExpiresAt   *time.Time `json:"expires_at"`

	ViewCount  int64 `json:"view_count"`
	LikeCount  int64 `json:"like_count"`
	ShareCount int64 `json:"share_count"`

	TargetAudience TargetAudience `json:"target_audience" gorm:"size:10"`
	Priority       Priority       `json:"priority" gorm:"size:10"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Article) TableName() string {
	return "news"
}

func (a Article) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

// EffectivelyPublished reports whether the article is visible to the
// public at the given instant: published, past its publication time,
// and not expired.
func (a Article) EffectivelyPublished(now time.Time) bool {
	if a.Status != StatusPublished || a.PublishedAt == nil {
		return false
	}
	if a.PublishedAt.After(now) {
		return false
	}
	return !a.IsExpired(now)
}
