package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/user/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO users (id, first_name, last_name, email, password_hash, auth_provider, google_id, role, credits, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.AuthProvider,
		user.GoogleID,
		user.Role,
		user.Credits,
		user.CreatedAt,
		user.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, email, password_hash, auth_provider, google_id, role, credits, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, email, password_hash, auth_provider, google_id, role, credits, created_at, updated_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) FindByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, email, password_hash, auth_provider, google_id, role, credits, created_at, updated_at
		 FROM users WHERE google_id = ?`,
		googleID,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) UpdateProfile(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Exec(
		`UPDATE users
		 SET first_name = ?, last_name = ?, email = ?, auth_provider = ?, google_id = ?, updated_at = ?
		 WHERE id = ?`,
		user.FirstName,
		user.LastName,
		user.Email,
		user.AuthProvider,
		user.GoogleID,
		user.UpdatedAt,
		user.ID,
	).Error
}
