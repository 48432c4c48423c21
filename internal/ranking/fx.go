package ranking

import (
	"github.com/smallbiznis/teampulse/internal/ranking/repository"
	"github.com/smallbiznis/teampulse/internal/ranking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ranking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
