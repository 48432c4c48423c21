package question

import (
	"github.com/smallbiznis/teampulse/internal/question/repository"
	"github.com/smallbiznis/teampulse/internal/question/service"
	"go.uber.org/fx"
)

var Module = fx.Module("question.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
