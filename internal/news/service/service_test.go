package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/introaqua/waterworks/internal/news/domain"
	"github.com/introaqua/waterworks/internal/news/repository"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Article{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func validCreateRequest() domain.CreateArticleRequest {
	return domain.CreateArticleRequest{
		Title:    "Scheduled Maintenance Downtown",
		Summary:  "Water supply interrupted Saturday morning",
		Content:  "Crews will replace a main valve between 6am and noon.",
		Category: domain.CategoryMaintenance,
	}
}

func TestCreate_DerivesSlug(t *testing.T) {
	svc := newTestService(t)

	article, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "scheduled-maintenance-downtown", article.Slug)
	assert.Equal(t, domain.StatusDraft, article.Status)
	assert.Nil(t, article.PublishedAt)
}

func TestCreate_SlugConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validCreateRequest())
	assert.ErrorIs(t, err, domain.ErrSlugConflict)
}

func TestGetBySlug_OnlyPublished(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	published := domain.StatusPublished
	_, err = svc.Update(ctx, domain.UpdateArticleRequest{
		ID:      draft.ID.String(),
		Changes: domain.Changes{Status: &published},
	})
	require.NoError(t, err)

	got, err := svc.GetBySlug(ctx, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)

	// Each fetch counts another view.
	got, err = svc.GetBySlug(ctx, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)
}

func TestGetBySlug_ExpiredIsHidden(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.Status = domain.StatusPublished
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	req.ExpiresAt = &yesterday

	article, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, article.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLikeAndShare(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	article, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	likes, err := svc.Like(ctx, article.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	likes, err = svc.Like(ctx, article.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes)

	shares, err := svc.Share(ctx, article.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), shares)

	_, err = svc.Like(ctx, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestList_PublishedOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	req := validCreateRequest()
	req.Title = "Emergency Repair Completed"
	req.Status = domain.StatusPublished
	req.Category = domain.CategoryEmergency
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListArticlesRequest{
		Page:          pagination.Pagination{Page: 1, Limit: 10},
		PublishedOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "emergency-repair-completed", resp.Articles[0].Slug)
	assert.Empty(t, resp.Articles[0].Content)

	all, err := svc.List(ctx, domain.ListArticlesRequest{
		Page: pagination.Pagination{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Len(t, all.Articles, 2)
}

func TestList_OrderingPinnedFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	plain := validCreateRequest()
	plain.Title = "Plain published article"
	plain.Status = domain.StatusPublished
	_, err := svc.Create(ctx, plain)
	require.NoError(t, err)

	pinned := validCreateRequest()
	pinned.Title = "Pinned announcement here"
	pinned.Status = domain.StatusPublished
	pinned.IsPinned = true
	_, err = svc.Create(ctx, pinned)
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListArticlesRequest{
		Page:          pagination.Pagination{Page: 1, Limit: 10},
		PublishedOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Articles, 2)
	assert.Equal(t, "pinned-announcement-here", resp.Articles[0].Slug)
}
