package auth

import (
	"time"

	"github.com/craftedcv/craftedcv/internal/auth/oauth"
	"github.com/craftedcv/craftedcv/internal/auth/service"
	"github.com/craftedcv/craftedcv/internal/auth/token"
	"github.com/craftedcv/craftedcv/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(provideIssuer),
	fx.Provide(provideGoogleClient),
	fx.Provide(service.New),
)

func provideIssuer(cfg config.Config) (*token.Issuer, error) {
	return token.NewIssuer(cfg.AuthJWTSecret, time.Duration(cfg.AuthTokenTTLMin)*time.Minute)
}

func provideGoogleClient(cfg config.Config) *oauth.GoogleClient {
	return oauth.NewGoogleClient(oauth.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleRedirectURI,
	})
}
