package auth

import (
	"github.com/introaqua/waterworks/internal/auth/repository"
	"github.com/introaqua/waterworks/internal/auth/service"
	"github.com/introaqua/waterworks/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	session.Module,
)
