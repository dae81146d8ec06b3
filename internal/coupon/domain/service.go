package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Code                string           `json:"code"`
	DiscountPercent     *decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount      *decimal.Decimal `json:"discount_amount,omitempty"`
	MaxUses             *int             `json:"max_uses,omitempty"`
	ExpiresAt           *time.Time       `json:"expires_at,omitempty"`
	ApplicableToPlans   []string         `json:"applicable_to_plans,omitempty"`
	ApplicableToDomains []string         `json:"applicable_to_domains,omitempty"`
}

type UpdateRequest struct {
	ID                  string           `json:"-"`
	DiscountPercent     *decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount      *decimal.Decimal `json:"discount_amount,omitempty"`
	MaxUses             *int             `json:"max_uses,omitempty"`
	ExpiresAt           *time.Time       `json:"expires_at,omitempty"`
	IsActive            *bool            `json:"is_active,omitempty"`
	ApplicableToPlans   []string         `json:"applicable_to_plans,omitempty"`
	ApplicableToDomains []string         `json:"applicable_to_domains,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Coupon, error)
	List(ctx context.Context, skip, limit int) ([]Coupon, error)
	GetByID(ctx context.Context, id string) (Coupon, error)
	Update(ctx context.Context, req UpdateRequest) (Coupon, error)
	Delete(ctx context.Context, id string) error

	// EvaluateCode prices a coupon code against an amount without recording
	// usage. A rejected code returns the original amount plus a reason.
	EvaluateCode(ctx context.Context, code string, amount decimal.Decimal, planID, userDomain string) (Evaluation, error)
	// RecordUsage increments uses_count; call it once per paid order that
	// carried the coupon, never at preview time.
	RecordUsage(ctx context.Context, code string) error
}

var (
	ErrInvalidCode     = errors.New("invalid_code")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidDiscount = errors.New("invalid_discount")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrCodeTaken       = errors.New("code_taken")
	ErrNotFound        = errors.New("coupon_not_found")
)
