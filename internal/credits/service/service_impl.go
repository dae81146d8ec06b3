package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/credits/domain"
	"github.com/craftedcv/craftedcv/internal/observability/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Metrics *metrics.HTTPMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	metrics *metrics.HTTPMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("credits.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// Apply credits a user for an external payment transaction. The log entry is
// written first and carries the uniqueness guarantee; the balance increment
// only happens when the entry is new, so replays of the same transaction id
// return the current balance without touching it. A crash between the two
// writes rolls both back, leaving the transaction id free for redelivery.
func (s *Service) Apply(ctx context.Context, req domain.ApplyRequest) (domain.ApplyResult, error) {
	if req.UserID == 0 {
		return domain.ApplyResult{}, domain.ErrInvalidUser
	}
	if !req.Credits.IsPositive() {
		return domain.ApplyResult{}, domain.ErrInvalidCredits
	}
	transactionID := strings.TrimSpace(req.TransactionID)
	if transactionID == "" {
		return domain.ApplyResult{}, domain.ErrInvalidTransactionID
	}

	entry := domain.PaymentLogEntry{
		ID:            s.genID.Generate(),
		UserID:        req.UserID,
		TransactionID: &transactionID,
		CreditsDelta:  req.Credits,
		AmountPaid:    req.AmountPaid,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		Status:        domain.StatusSucceeded,
		CreatedAt:     time.Now().UTC(),
	}

	var result domain.ApplyResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := s.repo.InsertLogIfAbsent(ctx, tx, &entry)
		if err != nil {
			return err
		}
		if inserted {
			rows, err := s.repo.AddToBalance(ctx, tx, req.UserID, req.Credits)
			if err != nil {
				return err
			}
			if rows == 0 {
				return domain.ErrUserNotFound
			}
			result.Applied = true
		}

		balance, found, err := s.repo.Balance(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrUserNotFound
		}
		result.NewBalance = balance
		return nil
	})
	if err != nil {
		s.metrics.RecordCreditApplication("error")
		return domain.ApplyResult{}, err
	}

	if result.Applied {
		s.metrics.RecordCreditApplication("applied")
		s.log.Info("credits applied",
			zap.String("user_id", req.UserID.String()),
			zap.String("transaction_id", transactionID),
			zap.String("credits", req.Credits.String()),
		)
	} else {
		s.metrics.RecordCreditApplication("duplicate")
		s.log.Info("duplicate transaction ignored",
			zap.String("user_id", req.UserID.String()),
			zap.String("transaction_id", transactionID),
		)
	}
	return result, nil
}

// Deduct spends credits against the balance with an atomic guard. There is
// no idempotency key: every call is a distinct spend.
func (s *Service) Deduct(ctx context.Context, req domain.DeductRequest) (decimal.Decimal, error) {
	if req.UserID == 0 {
		return decimal.Zero, domain.ErrInvalidUser
	}
	if !req.Credits.IsPositive() {
		return decimal.Zero, domain.ErrInvalidCredits
	}

	var balance decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.repo.DeductFromBalance(ctx, tx, req.UserID, req.Credits)
		if err != nil {
			return err
		}
		if rows == 0 {
			_, found, err := s.repo.Balance(ctx, tx, req.UserID)
			if err != nil {
				return err
			}
			if !found {
				return domain.ErrUserNotFound
			}
			return domain.ErrInsufficientCredits
		}

		entry := domain.PaymentLogEntry{
			ID:           s.genID.Generate(),
			UserID:       req.UserID,
			CreditsDelta: req.Credits.Neg(),
			AmountPaid:   decimal.Zero,
			Status:       domain.StatusDeducted,
			Reason:       strings.TrimSpace(req.Reason),
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.repo.InsertLog(ctx, tx, &entry); err != nil {
			return err
		}

		current, found, err := s.repo.Balance(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrUserNotFound
		}
		balance = current
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.log.Info("credits deducted",
		zap.String("user_id", req.UserID.String()),
		zap.String("credits", req.Credits.String()),
		zap.String("reason", req.Reason),
	)
	return balance, nil
}

func (s *Service) Balance(ctx context.Context, userID snowflake.ID) (decimal.Decimal, error) {
	if userID == 0 {
		return decimal.Zero, domain.ErrInvalidUser
	}
	balance, found, err := s.repo.Balance(ctx, s.db, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, domain.ErrUserNotFound
	}
	return balance, nil
}

func (s *Service) ListLogs(ctx context.Context, userID snowflake.ID, skip, limit int) ([]domain.PaymentLogEntry, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListLogsByUser(ctx, s.db, userID, skip, limit)
}
