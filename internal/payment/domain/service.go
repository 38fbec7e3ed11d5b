package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateQRRequest struct {
	UserID   snowflake.ID
	Items    []Item
	Total    float64
	Shipping Shipping
}

// CreateQRResult is the stub gateway handoff: a hosted payment URL and
// a QR image rendering it.
type CreateQRResult struct {
	OrderCode  string  `json:"order_id"`
	Amount     float64 `json:"amount"`
	PaymentURL string  `json:"payment_url"`
	QRCode     string  `json:"qr_code"`
}

type CheckStatusResult struct {
	OrderCode string `json:"order_id"`
	Status    Status `json:"status"`
}

type Service interface {
	CreateQR(context.Context, CreateQRRequest) (CreateQRResult, error)
	CheckStatus(ctx context.Context, userID snowflake.ID, orderCode string) (CheckStatusResult, error)
}

var (
	ErrInvalidItems    = errors.New("invalid_items")
	ErrInvalidTotal    = errors.New("invalid_total")
	ErrInvalidShipping = errors.New("invalid_shipping")
	ErrOrderNotFound   = errors.New("order_not_found")
)
