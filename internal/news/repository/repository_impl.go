package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/news/domain"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, article *domain.Article) error {
	return db.WithContext(ctx).Create(article).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, article *domain.Article) error {
	return db.WithContext(ctx).Save(article).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	tx := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Article{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Article, error) {
	var article domain.Article
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&article).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Article, error) {
	var article domain.Article
	err := db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&article).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Article, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Article{})
	if !filter.PublishedAsOf.IsZero() {
		now := filter.PublishedAsOf
		stmt = stmt.
			Where("status = ?", domain.StatusPublished).
			Where("published_at <= ?", now).
			Where("expires_at IS NULL OR expires_at > ?", now).
			Omit("content")
	} else if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.Featured {
		stmt = stmt.Where("is_featured = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("title LIKE ? OR summary LIKE ? OR content LIKE ?", like, like, like)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []domain.Article
	err := page.Apply(stmt).
		Order("is_pinned desc, is_featured desc, published_at desc, id desc").
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *repo) Increment(ctx context.Context, db *gorm.DB, id snowflake.ID, counter domain.Counter) (int64, error) {
	column := string(counter)
	tx := db.WithContext(ctx).
		Model(&domain.Article{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, domain.ErrNotFound
	}

	var value int64
	err := db.WithContext(ctx).
		Model(&domain.Article{}).
		Where("id = ?", id).
		Pluck(column, &value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
