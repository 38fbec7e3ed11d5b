package domain

import (
	"time"

	"github.com/gosimple/slug"
)

// Slugify derives a URL slug from an article title.
func Slugify(title string) string {
	return slug.Make(title)
}

// PrepareForCreate fills derived fields on a new article. A slug is
// generated from the title only when none was supplied; articles
// created directly in the published state get their publication time
// stamped here.
func PrepareForCreate(a *Article, now time.Time) error {
	if !a.Category.Valid() {
		return ErrInvalidCategory
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if !a.Status.Valid() {
		return ErrInvalidStatus
	}
	if a.TargetAudience == "" {
		a.TargetAudience = AudienceAll
	}
	if !a.TargetAudience.Valid() {
		return ErrInvalidAudience
	}
	if a.Priority == "" {
		a.Priority = PriorityNormal
	}
	if !a.Priority.Valid() {
		return ErrInvalidPriority
	}
	if a.Slug == "" && a.Title != "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Status == StatusPublished && a.PublishedAt == nil {
		a.PublishedAt = &now
	}
	return nil
}

// Changes carries the updatable article fields. Nil pointers leave the
// stored value untouched.
type Changes struct {
	Title          *string
	Summary        *string
	Content        *string
	Category       *Category
	Tags           []string
	FeaturedImage  *Image
	Images         []Image
	Attachments    []Attachment
	Status         *Status
	IsFeatured     *bool
	IsPinned       *bool
	ExpiresAt      *time.Time
	TargetAudience *TargetAudience
	Priority       *Priority
}

// PrepareForUpdate applies changes to an article. The slug is sticky:
// retitling never rewrites an existing slug. PublishedAt is stamped the
// first time the article becomes published and never moved afterwards.
func PrepareForUpdate(a *Article, ch Changes, now time.Time) error {
	if ch.Title != nil {
		a.Title = *ch.Title
		if a.Slug == "" && a.Title != "" {
			a.Slug = Slugify(a.Title)
		}
	}
	if ch.Summary != nil {
		a.Summary = *ch.Summary
	}
	if ch.Content != nil {
		a.Content = *ch.Content
	}
	if ch.Category != nil {
		if !ch.Category.Valid() {
			return ErrInvalidCategory
		}
		a.Category = *ch.Category
	}
	if ch.Tags != nil {
		a.Tags = ch.Tags
	}
	if ch.FeaturedImage != nil {
		a.FeaturedImage = ch.FeaturedImage
	}
	if ch.Images != nil {
		a.Images = ch.Images
	}
	if ch.Attachments != nil {
		a.Attachments = ch.Attachments
	}
	if ch.IsFeatured != nil {
		a.IsFeatured = *ch.IsFeatured
	}
	if ch.IsPinned != nil {
		a.IsPinned = *ch.IsPinned
	}
	if ch.ExpiresAt != nil {
		a.ExpiresAt = ch.ExpiresAt
	}
	if ch.TargetAudience != nil {
		if !ch.TargetAudience.Valid() {
			return ErrInvalidAudience
		}
		a.TargetAudience = *ch.TargetAudience
	}
	if ch.Priority != nil {
		if !ch.Priority.Valid() {
			return ErrInvalidPriority
		}
		a.Priority = *ch.Priority
	}
	if ch.Status != nil {
		if !ch.Status.Valid() {
			return ErrInvalidStatus
		}
		a.Status = *ch.Status
		if a.Status == StatusPublished && a.PublishedAt == nil {
			a.PublishedAt = &now
		}
	}
	return nil
}
