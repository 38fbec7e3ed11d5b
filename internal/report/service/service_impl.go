package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/introaqua/waterworks/internal/auth/domain"
	"github.com/introaqua/waterworks/internal/report/domain"
	pkgdb "github.com/introaqua/waterworks/pkg/db"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// numberAttempts bounds the regenerate-and-retry loop on a report number
// collision before the conflict is surfaced to the caller.
const numberAttempts = 3

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Users authdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	users authdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("report.service"),
		genID: p.GenID,
		repo:  p.Repo,
		users: p.Users,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateReportRequest) (domain.Report, error) {
	title := strings.TrimSpace(req.Title)
	if n := utf8.RuneCountInString(title); n < 5 || n > 200 {
		return domain.Report{}, domain.ErrInvalidTitle
	}
	description := strings.TrimSpace(req.Description)
	if n := utf8.RuneCountInString(description); n < 10 || n > 2000 {
		return domain.Report{}, domain.ErrInvalidDescription
	}
	if strings.TrimSpace(req.Location.Address) == "" {
		return domain.Report{}, domain.ErrInvalidLocation
	}

	now := time.Now().UTC()
	report := domain.Report{
		ID:           s.genID.Generate(),
		CustomerCode: strings.TrimSpace(req.CustomerCode),
		CustomerInfo: req.CustomerInfo,
		ReportType:   req.ReportType,
		Priority:     req.Priority,
		Title:        title,
		Description:  description,
		Location:     req.Location,
		Attachments:  req.Attachments,
		IsPublic:     req.IsPublic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for attempt := 0; attempt < numberAttempts; attempt++ {
		report.ReportNumber = ""
		if err := domain.PrepareForCreate(&report, now, rand.IntN(10000)); err != nil {
			return domain.Report{}, err
		}

		err := s.repo.Insert(ctx, s.db, &report)
		if err == nil {
			return report, nil
		}
		if !pkgdb.IsDuplicateKeyErr(err) {
			return domain.Report{}, err
		}
		s.log.Warn("report number collision, regenerating",
			zap.String("report_number", report.ReportNumber),
			zap.Int("attempt", attempt+1),
		)
	}

	return domain.Report{}, domain.ErrNumberConflict
}

func (s *Service) List(ctx context.Context, req domain.ListReportsRequest) (domain.ListReportsResponse, error) {
	status := domain.Status(strings.TrimSpace(req.Status))
	if status != "" && !status.Valid() {
		return domain.ListReportsResponse{}, domain.ErrInvalidStatus
	}
	reportType := domain.Type(strings.TrimSpace(req.Type))
	if reportType != "" && !reportType.Valid() {
		return domain.ListReportsResponse{}, domain.ErrInvalidType
	}
	priority := domain.Priority(strings.TrimSpace(req.Priority))
	if priority != "" && !priority.Valid() {
		return domain.ListReportsResponse{}, domain.ErrInvalidPriority
	}

	page := req.Page.Normalize()
	reports, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		CustomerCode: strings.TrimSpace(req.CustomerCode),
		Status:       status,
		Type:         reportType,
		Priority:     priority,
		Search:       strings.TrimSpace(req.Search),
	}, page)
	if err != nil {
		return domain.ListReportsResponse{}, err
	}

	return domain.ListReportsResponse{
		Reports:  reports,
		PageInfo: pagination.BuildPageInfo(page, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetReportRequest) (domain.Report, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Report{}, err
	}

	report, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Report{}, err
	}
	if report == nil {
		return domain.Report{}, domain.ErrNotFound
	}
	if req.CustomerCode != "" && report.CustomerCode != req.CustomerCode {
		return domain.Report{}, domain.ErrForbidden
	}
	return *report, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateReportStatusRequest) (domain.Report, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Report{}, err
	}

	report, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Report{}, err
	}
	if report == nil {
		return domain.Report{}, domain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := domain.ApplyStatus(report, req.Status, now); err != nil {
		return domain.Report{}, err
	}
	if note := strings.TrimSpace(req.Note); note != "" {
		domain.AppendNote(report, note, req.UpdatedBy, now)
	}
	report.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, report); err != nil {
		return domain.Report{}, err
	}
	return *report, nil
}

func (s *Service) Assign(ctx context.Context, req domain.AssignReportRequest) (domain.Report, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Report{}, err
	}
	assigneeID, err := s.parseID(req.AssignedTo)
	if err != nil {
		return domain.Report{}, err
	}

	assignee, err := s.users.FindByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return domain.Report{}, domain.ErrInvalidAssignee
		}
		return domain.Report{}, err
	}
	if !assignee.Role.CanHandleReports() {
		return domain.Report{}, domain.ErrInvalidAssignee
	}

	report, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Report{}, err
	}
	if report == nil {
		return domain.Report{}, domain.ErrNotFound
	}

	report.AssignedTo = assigneeID
	report.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, report); err != nil {
		return domain.Report{}, err
	}
	return *report, nil
}

func (s *Service) Resolve(ctx context.Context, req domain.ResolveReportRequest) (domain.Report, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Report{}, err
	}

	report, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Report{}, err
	}
	if report == nil {
		return domain.Report{}, domain.ErrNotFound
	}

	now := time.Now().UTC()
	err = domain.ApplyResolution(report, domain.Resolution{
		Description: strings.TrimSpace(req.Description),
		Actions:     req.Actions,
		Materials:   req.Materials,
		Cost:        req.Cost,
		ResolvedBy:  req.ResolvedBy,
	}, now)
	if err != nil {
		return domain.Report{}, err
	}
	report.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, report); err != nil {
		return domain.Report{}, err
	}
	return *report, nil
}

func (s *Service) Stats(ctx context.Context, now time.Time) (domain.ReportStats, error) {
	return s.repo.Stats(ctx, s.db, now)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
