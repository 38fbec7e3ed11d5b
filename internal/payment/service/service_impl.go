package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/introaqua/waterworks/internal/config"
	"github.com/introaqua/waterworks/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const orderCodeSuffixLen = 8

const orderCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type Params struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	cfg   config.Config
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		cfg:   p.Cfg,
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateQR(ctx context.Context, req domain.CreateQRRequest) (domain.CreateQRResult, error) {
	if len(req.Items) == 0 {
		return domain.CreateQRResult{}, domain.ErrInvalidItems
	}
	if req.Total <= 0 {
		return domain.CreateQRResult{}, domain.ErrInvalidTotal
	}
	if strings.TrimSpace(req.Shipping.FullName) == "" ||
		strings.TrimSpace(req.Shipping.Phone) == "" ||
		strings.TrimSpace(req.Shipping.AddressLine) == "" {
		return domain.CreateQRResult{}, domain.ErrInvalidShipping
	}

	now := time.Now().UTC()
	orderCode := newOrderCode(now)

	order := domain.Order{
		ID:        s.genID.Generate(),
		OrderCode: orderCode,
		UserID:    req.UserID,
		Items:     req.Items,
		Total:     req.Total,
		Shipping:  req.Shipping,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &order); err != nil {
		return domain.CreateQRResult{}, err
	}

	paymentURL := fmt.Sprintf("%s?orderId=%s&amount=%v&userId=%s",
		s.cfg.PaymentBaseURL, orderCode, req.Total, req.UserID.String())
	qrCode := fmt.Sprintf("%s?size=300x300&data=%s",
		s.cfg.QRServiceURL, url.QueryEscape(paymentURL))

	s.log.Info("payment order created",
		zap.String("order_code", orderCode),
		zap.Float64("total", req.Total),
	)

	return domain.CreateQRResult{
		OrderCode:  orderCode,
		Amount:     req.Total,
		PaymentURL: paymentURL,
		QRCode:     qrCode,
	}, nil
}

func (s *Service) CheckStatus(ctx context.Context, userID snowflake.ID, orderCode string) (domain.CheckStatusResult, error) {
	orderCode = strings.TrimSpace(orderCode)
	if orderCode == "" {
		return domain.CheckStatusResult{}, domain.ErrOrderNotFound
	}

	order, err := s.repo.FindByCode(ctx, s.db, userID, orderCode)
	if err != nil {
		return domain.CheckStatusResult{}, err
	}
	if order == nil {
		return domain.CheckStatusResult{}, domain.ErrOrderNotFound
	}

	return domain.CheckStatusResult{
		OrderCode: order.OrderCode,
		Status:    order.Status,
	}, nil
}

// newOrderCode builds ORDER-<unix ms>-<8 random alphanumerics>.
func newOrderCode(now time.Time) string {
	var b strings.Builder
	for i := 0; i < orderCodeSuffixLen; i++ {
		b.WriteByte(orderCodeAlphabet[rand.IntN(len(orderCodeAlphabet))])
	}
	return fmt.Sprintf("ORDER-%d-%s", now.UnixMilli(), b.String())
}
