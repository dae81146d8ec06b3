package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	PlanName        string          `json:"plan_name"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Period          string          `json:"period"`
	Interval        int             `json:"interval"`
	CreditsPerCycle decimal.Decimal `json:"credits_per_cycle"`
	Description     string          `json:"description,omitempty"`
}

type UpdateRequest struct {
	ID              string           `json:"-"`
	PlanName        *string          `json:"plan_name,omitempty"`
	CreditsPerCycle *decimal.Decimal `json:"credits_per_cycle,omitempty"`
	Description     *string          `json:"description,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

// Service creates the plan on the gateway first and mirrors it locally;
// gateway-side pricing fields are immutable after creation.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Plan, error)
	List(ctx context.Context, activeOnly bool, skip, limit int) ([]Plan, error)
	GetByID(ctx context.Context, id string) (Plan, error)
	GetByGatewayPlanID(ctx context.Context, gatewayPlanID string) (Plan, error)
	Update(ctx context.Context, req UpdateRequest) (Plan, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidRequest = errors.New("invalid_plan_request")
	ErrNotFound       = errors.New("plan_not_found")
)

var validPeriods = map[string]struct{}{
	"daily":   {},
	"weekly":  {},
	"monthly": {},
	"yearly":  {},
}

func ValidPeriod(period string) bool {
	_, ok := validPeriods[period]
	return ok
}
