package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Type classifies what the customer is reporting.
type Type string

const (
	TypeWaterLeak    Type = "water_leak"
	TypeWaterQuality Type = "water_quality"
	TypeNoWater      Type = "no_water"
	TypeLowPressure  Type = "low_pressure"
	TypeMeterIssue   Type = "meter_issue"
	TypeBillingIssue Type = "billing_issue"
	TypeOther        Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeWaterLeak, TypeWaterQuality, TypeNoWater, TypeLowPressure,
		TypeMeterIssue, TypeBillingIssue, TypeOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusInProgress  Status = "in_progress"
	StatusResolved    Status = "resolved"
	StatusClosed      Status = "closed"
	StatusRejected    Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusInProgress,
		StatusResolved, StatusClosed, StatusRejected:
		return true
	}
	return false
}

// CustomerInfo is a point-in-time snapshot of the reporting customer.
type CustomerInfo struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
}

type Location struct {
	Address   string  `json:"address"`
	District  string  `json:"district,omitempty"`
	Ward      string  `json:"ward,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

// InternalNote is one entry in the append-only staff log.
type InternalNote struct {
	Note    string       `json:"note"`
	AddedBy snowflake.ID `json:"added_by"`
	AddedAt time.Time    `json:"added_at"`
}

type Resolution struct {
	Description string       `json:"description"`
	Actions     []string     `json:"actions"`
	Materials   []string     `json:"materials,omitempty"`
	Cost        float64      `json:"cost,omitempty"`
	ResolvedBy  snowflake.ID `json:"resolved_by"`
	ResolvedAt  time.Time    `json:"resolved_at"`
}

type Report struct {
	ID           snowflake.ID `json:"id,string" gorm:"primaryKey"`
	ReportNumber string       `json:"report_number" gorm:"size:20;uniqueIndex"`
	CustomerCode string       `json:"customer_code" gorm:"size:20;index"`
	CustomerInfo CustomerInfo `json:"customer_info" gorm:"serializer:json"`

	ReportType  Type     `json:"report_type" gorm:"size:20;index"`
	Priority    Priority `json:"priority" gorm:"size:10;index"`
	Title       string   `json:"title" gorm:"size:200"`
	Description string   `json:"description"`
	Location    Location `json:"location" gorm:"serializer:json"`

	Attachments []Attachment `json:"attachments" gorm:"serializer:json"`

	Status     Status       `json:"status" gorm:"size:20;index"`
	AssignedTo snowflake.ID `json:"assigned_to,string"`

	EstimatedResolution *time.Time  `json:"estimated_resolution"`
	ActualResolution    *time.Time  `json:"actual_resolution"`
	Resolution          *Resolution `json:"resolution,omitempty" gorm:"serializer:json"`

	InternalNotes []InternalNote    `json:"internal_notes,omitempty" gorm:"serializer:json"`
	IsPublic      bool              `json:"is_public"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}

// IsOverdue reports whether the report has blown past its estimated
// resolution without reaching a settled state. Never persisted.
func (r Report) IsOverdue(now time.Time) bool {
	if r.Status == StatusResolved || r.Status == StatusClosed {
		return false
	}
	return r.EstimatedResolution != nil && now.After(*r.EstimatedResolution)
}
