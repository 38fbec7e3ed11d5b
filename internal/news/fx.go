package news

import (
	"github.com/introaqua/waterworks/internal/news/repository"
	"github.com/introaqua/waterworks/internal/news/service"
	"go.uber.org/fx"
)

var Module = fx.Module("news.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
