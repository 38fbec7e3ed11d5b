package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/bill/domain"
	"github.com/introaqua/waterworks/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Save(bill).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&bill).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repo) FindLatestByCustomer(ctx context.Context, db *gorm.DB, customerCode string) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Where("customer_code = ?", customerCode).
		Order("created_at desc, id desc").
		First(&bill).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Bill, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Bill{})
	if filter.CustomerCode != "" {
		stmt = stmt.Where("customer_code = ?", filter.CustomerCode)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Year != 0 {
		from := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		stmt = stmt.Where("period_from >= ? AND period_from < ?", from, from.AddDate(1, 0, 0))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("bill_number LIKE ? OR customer_code LIKE ?", like, like)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bills []domain.Bill
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&bills).Error
	if err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, monthStart, monthEnd time.Time) (domain.Stats, error) {
	var stats domain.Stats

	count := func(where string, args ...any) (int64, error) {
		var n int64
		stmt := db.WithContext(ctx).Model(&domain.Bill{})
		if where != "" {
			stmt = stmt.Where(where, args...)
		}
		err := stmt.Count(&n).Error
		return n, err
	}

	var err error
	if stats.TotalBills, err = count(""); err != nil {
		return stats, err
	}
	if stats.PendingBills, err = count("status = ?", domain.StatusPending); err != nil {
		return stats, err
	}
	if stats.PaidBills, err = count("status = ?", domain.StatusPaid); err != nil {
		return stats, err
	}
	if stats.OverdueBills, err = count("status = ?", domain.StatusOverdue); err != nil {
		return stats, err
	}
	if stats.CurrentMonthBills, err = count("created_at >= ? AND created_at < ?", monthStart, monthEnd); err != nil {
		return stats, err
	}

	// Amounts live in a JSON column; revenue is summed from paid rows in Go
	// to stay portable across the supported dialects.
	var paid []domain.Bill
	err = db.WithContext(ctx).
		Where("status = ? AND created_at >= ? AND created_at < ?", domain.StatusPaid, monthStart, monthEnd).
		Find(&paid).Error
	if err != nil {
		return stats, fmt.Errorf("sum paid bills: %w", err)
	}
	for i := range paid {
		stats.CurrentMonthRevenue += paid[i].Amounts.Total
	}

	return stats, nil
}
