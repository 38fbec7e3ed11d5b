package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/pricing/domain"
	pkgdb "github.com/introaqua/waterworks/pkg/db"
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
		log:   p.Log.Named("pricing.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) PublicList(ctx context.Context) ([]domain.Tier, error) {
	return s.repo.List(ctx, s.db, true)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Tier, error) {
	return s.repo.List(ctx, s.db, false)
}

func (s *Service) Create(ctx context.Context, req domain.CreateTierRequest) (domain.Tier, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" || len(code) > 30 {
		return domain.Tier{}, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Tier{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Tier{}, domain.ErrInvalidPrice
	}

	now := time.Now().UTC()
	tier := domain.Tier{
		ID:          s.genID.Generate(),
		Code:        code,
		Name:        name,
		Badge:       strings.TrimSpace(req.Badge),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Unit:        strings.TrimSpace(req.Unit),
		Includes:    req.Includes,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		tier.IsActive = *req.IsActive
	}

	if err := s.repo.Insert(ctx, s.db, &tier); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.Tier{}, domain.ErrCodeConflict
		}
		return domain.Tier{}, err
	}
	return tier, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTierRequest) (domain.Tier, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Tier{}, domain.ErrInvalidID
	}

	tier, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Tier{}, err
	}
	if tier == nil {
		return domain.Tier{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Tier{}, domain.ErrInvalidName
		}
		tier.Name = name
	}
	if req.Badge != nil {
		tier.Badge = strings.TrimSpace(*req.Badge)
	}
	if req.Description != nil {
		tier.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return domain.Tier{}, domain.ErrInvalidPrice
		}
		tier.Price = *req.Price
	}
	if req.Unit != nil {
		tier.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.Includes != nil {
		tier.Includes = req.Includes
	}
	if req.IsActive != nil {
		tier.IsActive = *req.IsActive
	}
	tier.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, tier); err != nil {
		return domain.Tier{}, err
	}
	return *tier, nil
}
