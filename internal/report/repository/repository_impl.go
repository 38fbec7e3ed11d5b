package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/report/domain"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, report *domain.Report) error {
	return db.WithContext(ctx).Create(report).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, report *domain.Report) error {
	return db.WithContext(ctx).Save(report).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Report, error) {
	var report domain.Report
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&report).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Report, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Report{})
	if filter.CustomerCode != "" {
		stmt = stmt.Where("customer_code = ?", filter.CustomerCode)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		stmt = stmt.Where("report_type = ?", filter.Type)
	}
	if filter.Priority != "" {
		stmt = stmt.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("title LIKE ? OR description LIKE ? OR report_number LIKE ?", like, like, like)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []domain.Report
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, now time.Time) (domain.ReportStats, error) {
	var stats domain.ReportStats

	count := func(where string, args ...any) (int64, error) {
		var n int64
		stmt := db.WithContext(ctx).Model(&domain.Report{})
		if where != "" {
			stmt = stmt.Where(where, args...)
		}
		err := stmt.Count(&n).Error
		return n, err
	}

	var err error
	if stats.TotalReports, err = count(""); err != nil {
		return stats, err
	}
	if stats.PendingReports, err = count("status = ?", domain.StatusSubmitted); err != nil {
		return stats, err
	}
	if stats.InProgressReports, err = count("status = ?", domain.StatusInProgress); err != nil {
		return stats, err
	}
	if stats.ResolvedReports, err = count("status = ?", domain.StatusResolved); err != nil {
		return stats, err
	}
	stats.OverdueReports, err = count(
		"status IN ? AND estimated_resolution IS NOT NULL AND estimated_resolution < ?",
		[]domain.Status{domain.StatusSubmitted, domain.StatusUnderReview, domain.StatusInProgress},
		now,
	)
	if err != nil {
		return stats, err
	}

	return stats, nil
}
