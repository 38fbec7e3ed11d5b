package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/bill/domain"
	pkgdb "github.com/introaqua/waterworks/pkg/db"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// numberAttempts bounds the regenerate-and-retry loop on a bill number
// collision before the conflict is surfaced to the caller.
const numberAttempts = 3

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
		log:   p.Log.Named("bill.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBillRequest) (domain.Bill, error) {
	customerCode := strings.TrimSpace(req.CustomerCode)
	if customerCode == "" {
		return domain.Bill{}, domain.ErrInvalidCustomer
	}
	if req.PeriodFrom.IsZero() || req.PeriodTo.IsZero() || req.PeriodTo.Before(req.PeriodFrom) {
		return domain.Bill{}, domain.ErrInvalidPeriod
	}
	if req.DueDate.IsZero() {
		return domain.Bill{}, domain.ErrInvalidDueDate
	}

	now := time.Now().UTC()
	bill := domain.Bill{
		ID:           s.genID.Generate(),
		CustomerCode: customerCode,
		PeriodFrom:   req.PeriodFrom,
		PeriodTo:     req.PeriodTo,
		WaterUsage: domain.WaterUsage{
			PreviousReading: req.WaterUsage.PreviousReading,
			CurrentReading:  req.WaterUsage.CurrentReading,
		},
		DueDate:   req.DueDate,
		MeterInfo: req.MeterInfo,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedBy: req.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.CustomerInfo != nil {
		bill.CustomerInfo = *req.CustomerInfo
	}
	if req.Rates != nil {
		bill.Rates = *req.Rates
	}

	for attempt := 0; attempt < numberAttempts; attempt++ {
		bill.BillNumber = ""
		if err := domain.PrepareForCreate(&bill, now, rand.IntN(10000)); err != nil {
			return domain.Bill{}, err
		}

		err := s.repo.Insert(ctx, s.db, &bill)
		if err == nil {
			return bill, nil
		}
		if !pkgdb.IsDuplicateKeyErr(err) {
			return domain.Bill{}, err
		}
		s.log.Warn("bill number collision, regenerating",
			zap.String("bill_number", bill.BillNumber),
			zap.Int("attempt", attempt+1),
		)
	}

	return domain.Bill{}, domain.ErrNumberConflict
}

func (s *Service) List(ctx context.Context, req domain.ListBillsRequest) (domain.ListBillsResponse, error) {
	status := domain.Status(strings.TrimSpace(req.Status))
	if status != "" && !status.Valid() {
		return domain.ListBillsResponse{}, domain.ErrInvalidStatus
	}

	page := req.Page.Normalize()
	bills, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		CustomerCode: strings.TrimSpace(req.CustomerCode),
		Status:       status,
		Year:         req.Year,
		Search:       strings.TrimSpace(req.Search),
	}, page)
	if err != nil {
		return domain.ListBillsResponse{}, err
	}

	return domain.ListBillsResponse{
		Bills:    bills,
		PageInfo: pagination.BuildPageInfo(page, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetBillRequest) (domain.Bill, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Bill{}, err
	}

	bill, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrNotFound
	}
	return *bill, nil
}

func (s *Service) LatestByCustomer(ctx context.Context, customerCode string) (*domain.Bill, error) {
	customerCode = strings.TrimSpace(customerCode)
	if customerCode == "" {
		return nil, domain.ErrInvalidCustomer
	}
	return s.repo.FindLatestByCustomer(ctx, s.db, customerCode)
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateBillStatusRequest) (domain.Bill, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Bill{}, err
	}

	bill, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := domain.ApplyStatus(bill, req.Status, req.PaymentInfo, now); err != nil {
		return domain.Bill{}, err
	}
	bill.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, bill); err != nil {
		return domain.Bill{}, err
	}
	return *bill, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateBillRequest) (domain.Bill, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Bill{}, err
	}

	bill, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrNotFound
	}

	if err := domain.PrepareForUpdate(bill, req.Changes); err != nil {
		return domain.Bill{}, err
	}
	bill.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, bill); err != nil {
		return domain.Bill{}, err
	}
	return *bill, nil
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.repo.Stats(ctx, s.db, monthStart, monthStart.AddDate(0, 1, 0))
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
