package pricing

import (
	"github.com/introaqua/waterworks/internal/pricing/repository"
	"github.com/introaqua/waterworks/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
