package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Shipping struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	Ward        string `json:"ward,omitempty"`
	District    string `json:"district,omitempty"`
	City        string `json:"city,omitempty"`
	Note        string `json:"note,omitempty"`
}

type Order struct {
	ID        snowflake.ID `json:"id,string" gorm:"primaryKey"`
	OrderCode string       `json:"order_code" gorm:"size:40;uniqueIndex"`
	UserID    snowflake.ID `json:"user_id,string" gorm:"index"`
	Items     []Item       `json:"items" gorm:"serializer:json"`
	Total     float64      `json:"total"`
	Shipping  Shipping     `json:"shipping" gorm:"serializer:json"`
	Status    Status       `json:"status" gorm:"size:10;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "payment_orders"
}
