package domain

import (
	"context"
	"errors"
)

type CreateTierRequest struct {
	Code        string
	Name        string
	Badge       string
	Description string
	Price       float64
	Unit        string
	Includes    []string
	IsActive    *bool
}

// UpdateTierRequest carries the updatable tier fields. Nil pointers
// leave the stored value untouched.
type UpdateTierRequest struct {
	ID          string
	Name        *string
	Badge       *string
	Description *string
	Price       *float64
	Unit        *string
	Includes    []string
	IsActive    *bool
}

type Service interface {
	// PublicList returns active tiers ordered by ascending price.
	PublicList(ctx context.Context) ([]Tier, error)

	ListAll(ctx context.Context) ([]Tier, error)
	Create(context.Context, CreateTierRequest) (Tier, error)
	Update(context.Context, UpdateTierRequest) (Tier, error)
}

var (
	ErrInvalidCode  = errors.New("invalid_code")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
	ErrCodeConflict = errors.New("tier_code_conflict")
)
