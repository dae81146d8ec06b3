package plan

import (
	"github.com/craftedcv/craftedcv/internal/plan/repository"
	"github.com/craftedcv/craftedcv/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
