package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/credits/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertLogIfAbsent(ctx context.Context, db *gorm.DB, entry *domain.PaymentLogEntry) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO payment_logs (id, user_id, transaction_id, credits_delta, amount_paid, currency, status, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		entry.ID,
		entry.UserID,
		entry.TransactionID,
		entry.CreditsDelta,
		entry.AmountPaid,
		entry.Currency,
		entry.Status,
		entry.Reason,
		entry.CreatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, entry *domain.PaymentLogEntry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_logs (id, user_id, transaction_id, credits_delta, amount_paid, currency, status, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.TransactionID,
		entry.CreditsDelta,
		entry.AmountPaid,
		entry.Currency,
		entry.Status,
		entry.Reason,
		entry.CreatedAt,
	).Error
}

func (r *repo) FindLogByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*domain.PaymentLogEntry, error) {
	var entry domain.PaymentLogEntry
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, transaction_id, credits_delta, amount_paid, currency, status, reason, created_at
		 FROM payment_logs WHERE transaction_id = ?`,
		transactionID,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) ListLogsByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, skip, limit int) ([]domain.PaymentLogEntry, error) {
	var entries []domain.PaymentLogEntry
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, transaction_id, credits_delta, amount_paid, currency, status, reason, created_at
		 FROM payment_logs WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID,
		limit,
		skip,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) AddToBalance(ctx context.Context, db *gorm.DB, userID snowflake.ID, delta decimal.Decimal) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE users SET credits = credits + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		delta,
		userID,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) DeductFromBalance(ctx context.Context, db *gorm.DB, userID snowflake.ID, amount decimal.Decimal) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE users SET credits = credits - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND credits >= ?`,
		amount,
		userID,
		amount,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) Balance(ctx context.Context, db *gorm.DB, userID snowflake.ID) (decimal.Decimal, bool, error) {
	var row struct {
		ID      snowflake.ID
		Credits decimal.Decimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT id, credits FROM users WHERE id = ?`,
		userID,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, false, err
	}
	if row.ID == 0 {
		return decimal.Zero, false, nil
	}
	return row.Credits, true, nil
}
