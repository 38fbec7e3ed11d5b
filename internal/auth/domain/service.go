package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Address  map[string]any
}

type LoginRequest struct {
	Username  string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	User      *User
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}

type ChangePasswordRequest struct {
	UserID          snowflake.ID
	CurrentPassword string
	NewPassword     string
}

type Service interface {
	Register(context.Context, RegisterRequest) (*User, error)
	Login(context.Context, LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error

	// Authenticate validates a raw session token and returns the
	// session's user.
	Authenticate(ctx context.Context, rawToken string) (*User, *Session, error)

	UserByID(ctx context.Context, id snowflake.ID) (*User, error)
	ChangePassword(context.Context, ChangePasswordRequest) error

	// CustomerLookup resolves a customer by code or phone number.
	CustomerLookup(ctx context.Context, code, phone string) (*User, error)
}
