package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/introaqua/waterworks/internal/config"
	"github.com/introaqua/waterworks/internal/payment/domain"
	"github.com/introaqua/waterworks/internal/payment/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Cfg: config.Config{
			PaymentBaseURL: "https://payment.introaqua.vn/pay",
			QRServiceURL:   "https://api.qrserver.com/v1/create-qr-code/",
		},
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func validCreateQRRequest() domain.CreateQRRequest {
	return domain.CreateQRRequest{
		UserID: 42,
		Items:  []domain.Item{{Name: "20L bottle", Quantity: 2, Price: 65000}},
		Total:  130000,
		Shipping: domain.Shipping{
			FullName:    "Nguyen Van A",
			Phone:       "0901234567",
			AddressLine: "12 Tran Hung Dao",
		},
	}
}

func TestCreateQR(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.CreateQR(context.Background(), validCreateQRRequest())
	require.NoError(t, err)

	assert.Regexp(t, `^ORDER-\d+-[A-Z0-9]{8}$`, result.OrderCode)
	assert.Equal(t, float64(130000), result.Amount)
	assert.Contains(t, result.PaymentURL, "https://payment.introaqua.vn/pay?orderId="+result.OrderCode)
	assert.Contains(t, result.QRCode, "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=")
}

func TestCreateQR_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := validCreateQRRequest()
	req.Items = nil
	_, err := svc.CreateQR(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidItems)

	req = validCreateQRRequest()
	req.Total = 0
	_, err = svc.CreateQR(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidTotal)

	req = validCreateQRRequest()
	req.Shipping.Phone = ""
	_, err = svc.CreateQR(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidShipping)
}

func TestCheckStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.CreateQR(ctx, validCreateQRRequest())
	require.NoError(t, err)

	status, err := svc.CheckStatus(ctx, 42, result.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, status.Status)

	// Orders are scoped per user.
	_, err = svc.CheckStatus(ctx, 7, result.OrderCode)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = svc.CheckStatus(ctx, 42, "ORDER-0-MISSING0")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
