package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertLogIfAbsent inserts the entry unless one already exists for its
	// transaction id. Returns false when the id was already recorded.
	InsertLogIfAbsent(ctx context.Context, db *gorm.DB, entry *PaymentLogEntry) (bool, error)
	InsertLog(ctx context.Context, db *gorm.DB, entry *PaymentLogEntry) error
	FindLogByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*PaymentLogEntry, error)
	ListLogsByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, skip, limit int) ([]PaymentLogEntry, error)

	// AddToBalance applies an atomic increment to the user's balance and
	// reports how many rows were touched.
	AddToBalance(ctx context.Context, db *gorm.DB, userID snowflake.ID, delta decimal.Decimal) (int64, error)
	// DeductFromBalance applies an atomic guarded decrement; zero rows means
	// the user is missing or the balance is short.
	DeductFromBalance(ctx context.Context, db *gorm.DB, userID snowflake.ID, amount decimal.Decimal) (int64, error)
	Balance(ctx context.Context, db *gorm.DB, userID snowflake.ID) (decimal.Decimal, bool, error)
}
