package coupon

import (
	"github.com/craftedcv/craftedcv/internal/coupon/repository"
	"github.com/craftedcv/craftedcv/internal/coupon/service"
	"go.uber.org/fx"
)

var Module = fx.Module("coupon.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
