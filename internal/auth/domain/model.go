// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// CanHandleReports reports whether the role may be assigned service
// issues and work them.
func (r Role) CanHandleReports() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User represents a system user account.
type User struct {
	ID           snowflake.ID      `json:"id,string" gorm:"primaryKey"`
	Username     string            `json:"username" gorm:"size:30;not null;uniqueIndex"`
	Email        string            `json:"email" gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string            `json:"-" gorm:"type:text;not null"`
	FullName     string            `json:"full_name" gorm:"size:100;not null"`
	Phone        string            `json:"phone" gorm:"size:15;not null"`
	Address      datatypes.JSONMap `json:"address"`
	Role         Role              `json:"role" gorm:"size:10;not null;default:customer"`
	IsActive     bool              `json:"is_active" gorm:"not null;default:true"`
	Avatar       string            `json:"avatar,omitempty" gorm:"size:255"`

	// CustomerCode identifies customer accounts on bills and reports.
	// Staff and admin accounts store NULL so they never collide on the
	// unique index.
	CustomerCode *string `json:"customer_code,omitempty" gorm:"size:20;uniqueIndex"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// CustomerCodeValue returns the customer code, or the empty string for
// accounts that have none.
func (u *User) CustomerCodeValue() string {
	if u.CustomerCode == nil {
		return ""
	}
	return *u.CustomerCode
}

// Session represents a persisted login session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null"`
}

func (Session) TableName() string { return "sessions" }
