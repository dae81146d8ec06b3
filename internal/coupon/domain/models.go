package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Coupon codes are case-insensitive and stored upper-cased. MaxUses is
// informational; the evaluation policy does not gate on it.
type Coupon struct {
	ID                  snowflake.ID               `gorm:"primaryKey" json:"id"`
	Code                string                     `gorm:"uniqueIndex;not null" json:"code"`
	DiscountPercent     *decimal.Decimal           `gorm:"type:numeric(5,2)" json:"discount_percent,omitempty"`
	DiscountAmount      *decimal.Decimal           `gorm:"type:numeric(12,2)" json:"discount_amount,omitempty"`
	MaxUses             *int                       `json:"max_uses,omitempty"`
	UsesCount           int                        `gorm:"not null;default:0" json:"uses_count"`
	ExpiresAt           *time.Time                 `json:"expires_at,omitempty"`
	IsActive            bool                       `gorm:"not null;default:true" json:"is_active"`
	ApplicableToPlans   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"applicable_to_plans"`
	ApplicableToDomains datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"applicable_to_domains"`
	CreatedAt           time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Coupon) TableName() string { return "coupons" }
