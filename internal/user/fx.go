package user

import (
	"github.com/craftedcv/craftedcv/internal/user/repository"
	"github.com/craftedcv/craftedcv/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
