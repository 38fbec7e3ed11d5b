package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/pkg/db/pagination"
)

type CreateBillRequest struct {
	CustomerCode string
	CustomerInfo *CustomerInfo
	PeriodFrom   time.Time
	PeriodTo     time.Time
	WaterUsage   WaterUsage
	Rates        *Rates
	DueDate      time.Time
	MeterInfo    map[string]any
	Notes        string
	CreatedBy    snowflake.ID
}

type ListBillsRequest struct {
	Page         pagination.Pagination
	CustomerCode string
	Status       string
	Year         int
	Search       string
}

type ListBillsResponse struct {
	Bills    []Bill              `json:"bills"`
	PageInfo pagination.PageInfo `json:"pagination"`
}

type GetBillRequest struct {
	ID string
}

type UpdateBillStatusRequest struct {
	ID          string
	Status      Status
	PaymentInfo *PaymentInfo
}

type UpdateBillRequest struct {
	ID      string
	Changes Changes
}

// Stats is the admin billing summary.
type Stats struct {
	TotalBills          int64   `json:"total_bills"`
	PendingBills        int64   `json:"pending_bills"`
	PaidBills           int64   `json:"paid_bills"`
	OverdueBills        int64   `json:"overdue_bills"`
	CurrentMonthBills   int64   `json:"current_month_bills"`
	CurrentMonthRevenue float64 `json:"current_month_revenue"`
}

type Service interface {
	Create(context.Context, CreateBillRequest) (Bill, error)
	List(context.Context, ListBillsRequest) (ListBillsResponse, error)
	GetByID(context.Context, GetBillRequest) (Bill, error)
	LatestByCustomer(ctx context.Context, customerCode string) (*Bill, error)
	UpdateStatus(context.Context, UpdateBillStatusRequest) (Bill, error)
	Update(context.Context, UpdateBillRequest) (Bill, error)
	Stats(context.Context) (Stats, error)
}

var (
	ErrInvalidCustomer    = errors.New("invalid_customer")
	ErrInvalidPeriod      = errors.New("invalid_period")
	ErrInvalidDueDate     = errors.New("invalid_due_date")
	ErrReadingsOutOfOrder = errors.New("invalid_readings")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrStatusTransition   = errors.New("bill_status_transition")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrNumberConflict     = errors.New("bill_number_conflict")
)
