package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PaymentLogEntry is the immutable audit record behind the credits balance.
// TransactionID is the idempotency key: at most one entry exists per id.
// Deductions have no external transaction and leave it null.
type PaymentLogEntry struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID    `gorm:"not null;index" json:"user_id"`
	TransactionID *string         `gorm:"uniqueIndex" json:"transaction_id,omitempty"`
	CreditsDelta  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"credits_delta"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount_paid"`
	Currency      string          `gorm:"not null;default:''" json:"currency"`
	Status        string          `gorm:"not null" json:"status"`
	Reason        string          `gorm:"not null;default:''" json:"reason,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PaymentLogEntry) TableName() string { return "payment_logs" }

const (
	StatusSucceeded = "succeeded"
	StatusDeducted  = "deducted"
)
