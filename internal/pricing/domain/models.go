package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tier is one entry in the public price list.
type Tier struct {
	ID          snowflake.ID `json:"id,string" gorm:"primaryKey"`
	Code        string       `json:"code" gorm:"size:30;uniqueIndex"`
	Name        string       `json:"name" gorm:"size:100"`
	Badge       string       `json:"badge,omitempty" gorm:"size:50"`
	Description string       `json:"description" gorm:"size:255"`
	Price       float64      `json:"price"`
	Unit        string       `json:"unit" gorm:"size:100"`
	Includes    []string     `json:"includes" gorm:"serializer:json"`
	IsActive    bool         `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tier) TableName() string {
	return "pricing_tiers"
}
