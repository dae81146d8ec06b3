package payment

import (
	"github.com/craftedcv/craftedcv/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(service.New),
	fx.Provide(service.NewWebhook),
)
