package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type UpdateProfileRequest struct {
	UserID    snowflake.ID
	FirstName string
	LastName  string
	Email     string
}

// GoogleIdentity is the profile returned by the OAuth exchange.
type GoogleIdentity struct {
	GoogleID  string
	Email     string
	FirstName string
	LastName  string
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (User, error)
	// UpsertGoogle links the identity to an existing account or creates one.
	UpsertGoogle(ctx context.Context, identity GoogleIdentity) (User, error)
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidPassword = errors.New("invalid_password")
	ErrInvalidID       = errors.New("invalid_id")
	ErrEmailTaken      = errors.New("email_taken")
	ErrNotFound        = errors.New("not_found")
)
