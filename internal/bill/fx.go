package bill

import (
	"github.com/introaqua/waterworks/internal/bill/repository"
	"github.com/introaqua/waterworks/internal/bill/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
