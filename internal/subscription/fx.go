package subscription

import (
	"github.com/craftedcv/craftedcv/internal/subscription/repository"
	"github.com/craftedcv/craftedcv/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
