package razorpay

import (
	"github.com/craftedcv/craftedcv/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("gateway.razorpay",
	fx.Provide(provideClient),
)

func provideClient(cfg config.Config, log *zap.Logger) Gateway {
	return NewClient(Config{
		KeyID:         cfg.RazorpayKeyID,
		KeySecret:     cfg.RazorpayKeySecret,
		WebhookSecret: cfg.RazorpayWebhookSecret,
		BaseURL:       cfg.RazorpayBaseURL,
	}, log)
}
