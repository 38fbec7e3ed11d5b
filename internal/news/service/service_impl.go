package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/news/domain"
	pkgdb "github.com/introaqua/waterworks/pkg/db"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("news.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateArticleRequest) (domain.Article, error) {
	title := strings.TrimSpace(req.Title)
	if n := utf8.RuneCountInString(title); n < 5 || n > 200 {
		return domain.Article{}, domain.ErrInvalidTitle
	}
	summary := strings.TrimSpace(req.Summary)
	if n := utf8.RuneCountInString(summary); n < 10 || n > 500 {
		return domain.Article{}, domain.ErrInvalidSummary
	}
	if strings.TrimSpace(req.Content) == "" {
		return domain.Article{}, domain.ErrInvalidContent
	}

	now := time.Now().UTC()
	article := domain.Article{
		ID:             s.genID.Generate(),
		Title:          title,
		Slug:           strings.TrimSpace(req.Slug),
		Summary:        summary,
		Content:        req.Content,
		AuthorID:       req.AuthorID,
		Category:       req.Category,
		Tags:           req.Tags,
		FeaturedImage:  req.FeaturedImage,
		Images:         req.Images,
		Attachments:    req.Attachments,
		Status:         req.Status,
		IsFeatured:     req.IsFeatured,
		IsPinned:       req.IsPinned,
		ExpiresAt:      req.ExpiresAt,
		TargetAudience: req.TargetAudience,
		Priority:       req.Priority,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := domain.PrepareForCreate(&article, now); err != nil {
		return domain.Article{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &article); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Article{}, domain.ErrSlugConflict
		}
		return domain.Article{}, err
	}
	return article, nil
}

func (s *Service) List(ctx context.Context, req domain.ListArticlesRequest) (domain.ListArticlesResponse, error) {
	category := domain.Category(strings.TrimSpace(req.Category))
	if category != "" && !category.Valid() {
		return domain.ListArticlesResponse{}, domain.ErrInvalidCategory
	}

	filter := domain.ListFilter{
		Category: category,
		Featured: req.Featured,
		Search:   strings.TrimSpace(req.Search),
	}
	if req.PublishedOnly {
		filter.PublishedAsOf = time.Now().UTC()
	} else if req.Status != "" {
		status := domain.Status(strings.TrimSpace(req.Status))
		if !status.Valid() {
			return domain.ListArticlesResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	page := req.Page.Normalize()
	articles, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListArticlesResponse{}, err
	}

	return domain.ListArticlesResponse{
		Articles: articles,
		PageInfo: pagination.BuildPageInfo(page, total),
	}, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (domain.Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Article{}, domain.ErrNotFound
	}

	article, err := s.repo.FindBySlug(ctx, s.db, slug)
	if err != nil {
		return domain.Article{}, err
	}
	if article == nil || !article.EffectivelyPublished(time.Now().UTC()) {
		return domain.Article{}, domain.ErrNotFound
	}

	views, err := s.repo.Increment(ctx, s.db, article.ID, domain.CounterView)
	if err != nil {
		return domain.Article{}, err
	}
	article.ViewCount = views

	return *article, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Article, error) {
	parsed, err := s.parseID(id)
	if err != nil {
		return domain.Article{}, err
	}

	article, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Article{}, err
	}
	if article == nil {
		return domain.Article{}, domain.ErrNotFound
	}
	return *article, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateArticleRequest) (domain.Article, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Article{}, err
	}

	article, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Article{}, err
	}
	if article == nil {
		return domain.Article{}, domain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := domain.PrepareForUpdate(article, req.Changes, now); err != nil {
		return domain.Article{}, err
	}
	article.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, article); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Article{}, domain.ErrSlugConflict
		}
		return domain.Article{}, err
	}
	return *article, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	parsed, err := s.parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, parsed)
}

func (s *Service) Like(ctx context.Context, id string) (int64, error) {
	parsed, err := s.parseID(id)
	if err != nil {
		return 0, err
	}
	return s.repo.Increment(ctx, s.db, parsed, domain.CounterLike)
}

func (s *Service) Share(ctx context.Context, id string) (int64, error) {
	parsed, err := s.parseID(id)
	if err != nil {
		return 0, err
	}
	return s.repo.Increment(ctx, s.db, parsed, domain.CounterShare)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
