package razorpay

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Amounts cross the wire in minor units (paise); decimals are converted at
// this boundary only.
type Order struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

type Plan struct {
	ID       string `json:"id"`
	Period   string `json:"period"`
	Interval int    `json:"interval"`
}

type Subscription struct {
	ID           string `json:"id"`
	PlanID       string `json:"plan_id"`
	Status       string `json:"status"`
	ShortURL     string `json:"short_url"`
	LatestCharge string `json:"latest_charge"`
	ChargeAmount int64  `json:"charge_amount"`
	Currency     string `json:"currency"`
	CurrentStart int64  `json:"current_start"`
	CurrentEnd   int64  `json:"current_end"`
}

type Invoice struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	ShortURL string `json:"short_url"`
}

type CreateOrderRequest struct {
	Amount     decimal.Decimal
	Currency   string
	Credits    decimal.Decimal
	Receipt    string
	UserID     string
	CouponCode string
}

type CreatePlanRequest struct {
	Name        string
	Amount      decimal.Decimal
	Currency    string
	Period      string
	Interval    int
	Description string
}

type CreateSubscriptionRequest struct {
	PlanID     string
	TotalCount int
}

// Gateway is the provider surface the payment services depend on; *Client is
// the production implementation.
type Gateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error)
	FetchOrder(ctx context.Context, orderID string) (Order, error)
	CreatePlan(ctx context.Context, req CreatePlanRequest) (Plan, error)
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (Subscription, error)
	FetchSubscription(ctx context.Context, subscriptionID string) (Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (Subscription, error)
	CreateInvoice(ctx context.Context, subscriptionID string, amount decimal.Decimal, description string) (Invoice, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(payload []byte, signature string) bool
}

var (
	ErrInvalidConfig  = errors.New("gateway_config_invalid")
	ErrRequestFailed  = errors.New("gateway_request_failed")
	ErrInvalidPayload = errors.New("gateway_response_invalid")
)
