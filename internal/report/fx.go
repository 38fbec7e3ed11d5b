package report

import (
	"github.com/introaqua/waterworks/internal/report/repository"
	"github.com/introaqua/waterworks/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
