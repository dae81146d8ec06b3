package credits

import (
	"github.com/craftedcv/craftedcv/internal/credits/repository"
	"github.com/craftedcv/craftedcv/internal/credits/service"
	"go.uber.org/fx"
)

var Module = fx.Module("credits.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
