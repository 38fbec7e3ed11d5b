package payment

import (
	"github.com/introaqua/waterworks/internal/payment/repository"
	"github.com/introaqua/waterworks/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
