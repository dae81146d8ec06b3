package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	UserID     snowflake.ID
	PlanID     string
	TotalCount int
}

// CreateResult carries the gateway checkout link alongside the local record.
type CreateResult struct {
	Subscription Subscription `json:"subscription"`
	ShortURL     string       `json:"short_url,omitempty"`
}

type SyncStatusRequest struct {
	GatewaySubscriptionID string
	Status                string
	PeriodStart           *time.Time
	PeriodEnd             *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (CreateResult, error)
	GetByID(ctx context.Context, id string) (Subscription, error)
	GetByGatewayID(ctx context.Context, gatewaySubscriptionID string) (Subscription, error)
	ListByUser(ctx context.Context, userID snowflake.ID, skip, limit int) ([]Subscription, error)
	// SyncStatus mirrors a gateway lifecycle change onto the local record.
	SyncStatus(ctx context.Context, req SyncStatusRequest) (Subscription, error)
	Cancel(ctx context.Context, id string, userID snowflake.ID) (Subscription, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidRequest = errors.New("invalid_subscription_request")
	ErrNotFound       = errors.New("subscription_not_found")
	ErrForbidden      = errors.New("subscription_forbidden")
)
