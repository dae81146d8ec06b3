package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	FirstName    string          `gorm:"not null" json:"first_name"`
	LastName     string          `gorm:"not null" json:"last_name"`
	Email        string          `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string          `gorm:"column:password_hash" json:"-"`
	AuthProvider string          `gorm:"not null;default:local" json:"auth_provider"`
	GoogleID     *string         `gorm:"column:google_id" json:"-"`
	Role         string          `gorm:"not null;default:member" json:"role"`
	Credits      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"credits"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }
