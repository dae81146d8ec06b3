package service

import (
	"context"
	"errors"

	authdomain "github.com/craftedcv/craftedcv/internal/auth/domain"
	"github.com/craftedcv/craftedcv/internal/auth/oauth"
	"github.com/craftedcv/craftedcv/internal/auth/password"
	"github.com/craftedcv/craftedcv/internal/auth/token"
	userdomain "github.com/craftedcv/craftedcv/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Users   userdomain.Service
	Issuer  *token.Issuer
	GoogleC *oauth.GoogleClient
}

type Service struct {
	log    *zap.Logger
	users  userdomain.Service
	issuer *token.Issuer
	google *oauth.GoogleClient
}

func New(p Params) authdomain.Service {
	return &Service{
		log:    p.Log.Named("auth.service"),
		users:  p.Users,
		issuer: p.Issuer,
		google: p.GoogleC,
	}
}

func (s *Service) Register(ctx context.Context, req userdomain.RegisterRequest) (authdomain.LoginResult, error) {
	user, err := s.users.Register(ctx, req)
	if err != nil {
		return authdomain.LoginResult{}, err
	}
	return s.issueFor(user)
}

func (s *Service) Login(ctx context.Context, req authdomain.LoginRequest) (authdomain.LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userdomain.ErrNotFound) || errors.Is(err, userdomain.ErrInvalidEmail) {
			return authdomain.LoginResult{}, authdomain.ErrInvalidCredentials
		}
		return authdomain.LoginResult{}, err
	}

	if user.PasswordHash == "" || !password.Verify(req.Password, user.PasswordHash) {
		return authdomain.LoginResult{}, authdomain.ErrInvalidCredentials
	}

	return s.issueFor(user)
}

func (s *Service) GoogleLogin(ctx context.Context, req authdomain.GoogleLoginRequest) (authdomain.LoginResult, error) {
	if s.google == nil || !s.google.Enabled() {
		return authdomain.LoginResult{}, authdomain.ErrProviderDisabled
	}

	identity, err := s.google.Exchange(ctx, req.Code)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidRequest) {
			return authdomain.LoginResult{}, authdomain.ErrInvalidCode
		}
		return authdomain.LoginResult{}, err
	}

	user, err := s.users.UpsertGoogle(ctx, userdomain.GoogleIdentity{
		GoogleID:  identity.ExternalID,
		Email:     identity.Email,
		FirstName: identity.GivenName,
		LastName:  identity.FamilyName,
	})
	if err != nil {
		return authdomain.LoginResult{}, err
	}

	s.log.Info("google login", zap.String("user_id", user.ID.String()))
	return s.issueFor(user)
}

func (s *Service) GoogleRedirectURL(state string) (string, error) {
	if s.google == nil || !s.google.Enabled() {
		return "", authdomain.ErrProviderDisabled
	}
	return s.google.RedirectURL(state)
}

func (s *Service) issueFor(user userdomain.User) (authdomain.LoginResult, error) {
	signed, expiresAt, err := s.issuer.Issue(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return authdomain.LoginResult{}, err
	}
	return authdomain.LoginResult{
		User:        user,
		AccessToken: signed,
		ExpiresAt:   expiresAt,
	}, nil
}
