package auth

import (
	"github.com/smallbiznis/teampulse/internal/auth/repository"
	"github.com/smallbiznis/teampulse/internal/auth/service"
	"github.com/smallbiznis/teampulse/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.ProvideSessionRepository),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
)
