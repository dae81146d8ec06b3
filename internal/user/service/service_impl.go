package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/auth/password"
	"github.com/craftedcv/craftedcv/internal/config"
	"github.com/craftedcv/craftedcv/internal/user/domain"
	"github.com/craftedcv/craftedcv/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		cfg:   p.Cfg,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.User{}, domain.ErrInvalidName
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.User{}, domain.ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return domain.User{}, domain.ErrInvalidPassword
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		AuthProvider: domain.AuthProviderLocal,
		Role:         domain.RoleMember,
		Credits:      s.cfg.SignupCreditGrant,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("auth_provider", user.AuthProvider),
	)

	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.User, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.User{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.User{}, err
	}
	if item == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return domain.User{}, domain.ErrInvalidEmail
	}

	item, err := s.repo.FindByEmail(ctx, s.db, normalized)
	if err != nil {
		return domain.User{}, err
	}
	if item == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (domain.User, error) {
	if req.UserID == 0 {
		return domain.User{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, req.UserID)
	if err != nil {
		return domain.User{}, err
	}
	if item == nil {
		return domain.User{}, domain.ErrNotFound
	}

	if name := strings.TrimSpace(req.FirstName); name != "" {
		item.FirstName = name
	}
	if name := strings.TrimSpace(req.LastName); name != "" {
		item.LastName = name
	}
	if strings.TrimSpace(req.Email) != "" {
		email, err := normalizeEmail(req.Email)
		if err != nil {
			return domain.User{}, domain.ErrInvalidEmail
		}
		item.Email = email
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProfile(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, err
	}
	return *item, nil
}

func (s *Service) UpsertGoogle(ctx context.Context, identity domain.GoogleIdentity) (domain.User, error) {
	googleID := strings.TrimSpace(identity.GoogleID)
	if googleID == "" {
		return domain.User{}, domain.ErrInvalidID
	}
	email, err := normalizeEmail(identity.Email)
	if err != nil {
		return domain.User{}, domain.ErrInvalidEmail
	}

	existing, err := s.repo.FindByGoogleID(ctx, s.db, googleID)
	if err != nil {
		return domain.User{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	// Link a local account that signed up with the same address.
	byEmail, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.User{}, err
	}
	if byEmail != nil {
		byEmail.GoogleID = &googleID
		byEmail.AuthProvider = domain.AuthProviderGoogle
		byEmail.UpdatedAt = time.Now().UTC()
		if err := s.repo.UpdateProfile(ctx, s.db, byEmail); err != nil {
			return domain.User{}, err
		}
		return *byEmail, nil
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		FirstName:    strings.TrimSpace(identity.FirstName),
		LastName:     strings.TrimSpace(identity.LastName),
		Email:        email,
		AuthProvider: domain.AuthProviderGoogle,
		GoogleID:     &googleID,
		Role:         domain.RoleMember,
		Credits:      s.cfg.SignupCreditGrant,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		return domain.User{}, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("auth_provider", user.AuthProvider),
	)

	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}
