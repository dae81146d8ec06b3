package domain

import (
	"context"
	"errors"
	"time"

	userdomain "github.com/craftedcv/craftedcv/internal/user/domain"
)

type LoginRequest struct {
	Email    string
	Password string
}

type GoogleLoginRequest struct {
	Code string
}

type LoginResult struct {
	User        userdomain.User
	AccessToken string
	ExpiresAt   time.Time
}

type Service interface {
	Register(ctx context.Context, req userdomain.RegisterRequest) (LoginResult, error)
	Login(ctx context.Context, req LoginRequest) (LoginResult, error)
	// GoogleLogin exchanges the OAuth authorization code and signs the user in,
	// creating the account on first login.
	GoogleLogin(ctx context.Context, req GoogleLoginRequest) (LoginResult, error)
	// GoogleRedirectURL builds the consent-screen URL with the given state.
	GoogleRedirectURL(state string) (string, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidCode        = errors.New("invalid_oauth_code")
	ErrProviderDisabled   = errors.New("oauth_provider_disabled")
)
