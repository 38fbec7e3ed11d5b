package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the billing lifecycle state of a bill.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	default:
		return false
	}
}

// CustomerInfo is the customer snapshot frozen onto the bill at creation.
type CustomerInfo struct {
	FullName string         `json:"full_name"`
	Phone    string         `json:"phone"`
	Email    string         `json:"email"`
	Address  map[string]any `json:"address,omitempty"`
}

// WaterUsage carries the meter readings for the billing period.
// Consumption is derived and must never be set by callers.
type WaterUsage struct {
	PreviousReading float64 `json:"previous_reading"`
	CurrentReading  float64 `json:"current_reading"`
	Consumption     float64 `json:"consumption"`
}

// Rates is the rate schedule applied to a bill.
type Rates struct {
	BaseRate         float64 `json:"base_rate"`
	ConsumptionRate  float64 `json:"consumption_rate"`
	ServiceFee       float64 `json:"service_fee"`
	EnvironmentalFee float64 `json:"environmental_fee"`
}

// Amounts holds every derived money figure on the bill.
type Amounts struct {
	BaseAmount          float64 `json:"base_amount"`
	ConsumptionAmount   float64 `json:"consumption_amount"`
	ServiceAmount       float64 `json:"service_amount"`
	EnvironmentalAmount float64 `json:"environmental_amount"`
	Subtotal            float64 `json:"subtotal"`
	Tax                 float64 `json:"tax"`
	Total               float64 `json:"total"`
}

// PaymentInfo records how and when a bill was settled.
type PaymentInfo struct {
	Method        string     `json:"method,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

type Bill struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	BillNumber   string            `gorm:"column:bill_number;type:text;not null;uniqueIndex" json:"bill_number"`
	CustomerCode string            `gorm:"column:customer_code;type:text;not null;index" json:"customer_code"`
	CustomerInfo CustomerInfo      `gorm:"column:customer_info;serializer:json" json:"customer_info"`
	PeriodFrom   time.Time         `gorm:"column:period_from;not null" json:"period_from"`
	PeriodTo     time.Time         `gorm:"column:period_to;not null" json:"period_to"`
	WaterUsage   WaterUsage        `gorm:"column:water_usage;serializer:json" json:"water_usage"`
	Rates        Rates             `gorm:"column:rates;serializer:json" json:"rates"`
	Amounts      Amounts           `gorm:"column:amounts;serializer:json" json:"amounts"`
	DueDate      time.Time         `gorm:"column:due_date;not null" json:"due_date"`
	Status       Status            `gorm:"column:status;type:text;not null;default:pending" json:"status"`
	PaymentInfo  PaymentInfo       `gorm:"column:payment_info;serializer:json" json:"payment_info"`
	MeterInfo    datatypes.JSONMap `gorm:"column:meter_info;type:jsonb" json:"meter_info,omitempty"`
	Notes        string            `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedBy    snowflake.ID      `gorm:"column:created_by;index" json:"created_by,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Bill) TableName() string { return "bills" }

// IsOverdue reports whether an unpaid bill is past its due date.
// It is computed on read, never stored.
func (b *Bill) IsOverdue(now time.Time) bool {
	return b.Status == StatusPending && now.After(b.DueDate)
}
