package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/pkg/db/pagination"
)

type CreateReportRequest struct {
	CustomerCode string
	CustomerInfo CustomerInfo
	ReportType   Type
	Priority     Priority
	Title        string
	Description  string
	Location     Location
	Attachments  []Attachment
	IsPublic     bool
}

type ListReportsRequest struct {
	Page     pagination.Pagination
	Status   string
	Type     string
	Priority string
	Search   string

	// CustomerCode scopes the list to one customer's reports.
	// Empty means unscoped (staff view).
	CustomerCode string
}

type ListReportsResponse struct {
	Reports  []Report            `json:"reports"`
	PageInfo pagination.PageInfo `json:"pagination"`
}

type GetReportRequest struct {
	ID string

	// CustomerCode, when set, restricts access to the owning customer.
	CustomerCode string
}

type UpdateReportStatusRequest struct {
	ID        string
	Status    Status
	Note      string
	UpdatedBy snowflake.ID
}

type AssignReportRequest struct {
	ID         string
	AssignedTo string
}

type ResolveReportRequest struct {
	ID          string
	Description string
	Actions     []string
	Materials   []string
	Cost        float64
	ResolvedBy  snowflake.ID
}

type ReportStats struct {
	TotalReports      int64 `json:"total_reports"`
	PendingReports    int64 `json:"pending_reports"`
	InProgressReports int64 `json:"in_progress_reports"`
	ResolvedReports   int64 `json:"resolved_reports"`
	OverdueReports    int64 `json:"overdue_reports"`
}

type Service interface {
	Create(context.Context, CreateReportRequest) (Report, error)
	List(context.Context, ListReportsRequest) (ListReportsResponse, error)
	GetByID(context.Context, GetReportRequest) (Report, error)
	UpdateStatus(context.Context, UpdateReportStatusRequest) (Report, error)
	Assign(context.Context, AssignReportRequest) (Report, error)
	Resolve(context.Context, ResolveReportRequest) (Report, error)
	Stats(ctx context.Context, now time.Time) (ReportStats, error)
}

var (
	ErrInvalidType        = errors.New("invalid_report_type")
	ErrInvalidPriority    = errors.New("invalid_priority")
	ErrInvalidTitle       = errors.New("invalid_title")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidLocation    = errors.New("invalid_location")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidResolution  = errors.New("invalid_resolution")
	ErrStatusTransition   = errors.New("report_status_transition")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidAssignee    = errors.New("invalid_assignee")
	ErrNumberConflict     = errors.New("report_number_conflict")
)
