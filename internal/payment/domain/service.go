package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	coupondomain "github.com/craftedcv/craftedcv/internal/coupon/domain"
	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	UserID       snowflake.ID
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	CreditsToAdd decimal.Decimal `json:"credits_to_add"`
	Receipt      string          `json:"receipt,omitempty"`
	CouponCode   string          `json:"coupon_code,omitempty"`
	PlanID       string          `json:"plan_id,omitempty"`
	UserDomain   string          `json:"user_domain,omitempty"`
}

// CreateOrderResult is what the checkout frontend needs to open the gateway
// widget. Amount is in minor units as returned by the gateway.
type CreateOrderResult struct {
	Key         string                   `json:"key"`
	OrderID     string                   `json:"order_id"`
	Amount      int64                    `json:"amount"`
	Currency    string                   `json:"currency"`
	Description string                   `json:"description"`
	Coupon      *coupondomain.Evaluation `json:"coupon,omitempty"`
}

type VerifyRequest struct {
	UserID            snowflake.ID
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type VerifyResult struct {
	NewBalance decimal.Decimal `json:"new_credits"`
	Applied    bool            `json:"applied"`
}

// Service handles the client-confirmed payment path.
type Service interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResult, error)
	VerifyPayment(ctx context.Context, req VerifyRequest) (VerifyResult, error)
}

// WebhookService handles the gateway-delivered path. Both paths converge on
// the credits reconciler, which closes the race between them.
type WebhookService interface {
	HandleRazorpay(ctx context.Context, payload []byte, signature string) error
}

var (
	ErrInvalidRequest   = errors.New("invalid_payment_request")
	ErrMissingSignature = errors.New("missing_signature")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
)
