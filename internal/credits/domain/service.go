package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ApplyRequest struct {
	UserID        snowflake.ID
	Credits       decimal.Decimal
	TransactionID string
	AmountPaid    decimal.Decimal
	Currency      string
}

type ApplyResult struct {
	NewBalance decimal.Decimal
	// Applied is false when the transaction id was already recorded and the
	// call was a no-op replay.
	Applied bool
}

type DeductRequest struct {
	UserID  snowflake.ID
	Credits decimal.Decimal
	Reason  string
}

// Service reconciles external payment events against the credits balance.
// Each distinct transaction id affects the balance exactly once, no matter
// how many times the event is delivered or from which ingress path.
type Service interface {
	Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error)
	Deduct(ctx context.Context, req DeductRequest) (decimal.Decimal, error)
	Balance(ctx context.Context, userID snowflake.ID) (decimal.Decimal, error)
	ListLogs(ctx context.Context, userID snowflake.ID, skip, limit int) ([]PaymentLogEntry, error)
}

var (
	ErrInvalidCredits       = errors.New("invalid_credits")
	ErrInvalidTransactionID = errors.New("invalid_transaction_id")
	ErrInvalidUser          = errors.New("invalid_user")
	ErrUserNotFound         = errors.New("user_not_found")
	ErrInsufficientCredits  = errors.New("insufficient_credits")
)
