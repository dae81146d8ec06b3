package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	creditsdomain "github.com/craftedcv/craftedcv/internal/credits/domain"
	"github.com/craftedcv/craftedcv/internal/credits/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestApplyIdempotent(t *testing.T) {
	node := mustNode(t)
	userID := node.Generate()
	service, db := setupCreditsService(t, node, userID, decimal.NewFromInt(100))
	ctx := context.Background()

	req := creditsdomain.ApplyRequest{
		UserID:        userID,
		Credits:       decimal.NewFromInt(50),
		TransactionID: "pay_abc123",
		AmountPaid:    decimal.NewFromFloat(99.0),
		Currency:      "INR",
	}

	first, err := service.Apply(ctx, req)
	if err != nil {
		t.Fatalf("apply first: %v", err)
	}
	if !first.Applied {
		t.Fatalf("expected first apply to credit the balance")
	}
	if !first.NewBalance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance 150, got %s", first.NewBalance.String())
	}

	second, err := service.Apply(ctx, req)
	if err != nil {
		t.Fatalf("apply second: %v", err)
	}
	if second.Applied {
		t.Fatalf("expected replay to be a no-op")
	}
	if !second.NewBalance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance unchanged at 150, got %s", second.NewBalance.String())
	}

	if count := countPaymentLogs(t, db); count != 1 {
		t.Fatalf("expected 1 payment log, got %d", count)
	}
}

func TestApplyConcurrentSameTransaction(t *testing.T) {
	node := mustNode(t)
	userID := node.Generate()
	service, db := setupCreditsService(t, node, userID, decimal.NewFromInt(100))
	ctx := context.Background()

	req := creditsdomain.ApplyRequest{
		UserID:        userID,
		Credits:       decimal.NewFromInt(50),
		TransactionID: "pay_concurrent",
		AmountPaid:    decimal.NewFromFloat(99.0),
		Currency:      "INR",
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Apply(ctx, req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("apply concurrent: %v", err)
		}
	}

	balance, err := service.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance 150 after concurrent replays, got %s", balance.String())
	}
	if count := countPaymentLogs(t, db); count != 1 {
		t.Fatalf("expected 1 payment log after concurrent replays, got %d", count)
	}
}

func TestApplyDistinctTransactionsAccumulate(t *testing.T) {
	node := mustNode(t)
	userID := node.Generate()
	service, db := setupCreditsService(t, node, userID, decimal.NewFromInt(100))
	ctx := context.Background()

	for i, credits := range []int64{50, 30} {
		_, err := service.Apply(ctx, creditsdomain.ApplyRequest{
			UserID:        userID,
			Credits:       decimal.NewFromInt(credits),
			TransactionID: fmt.Sprintf("pay_%d", i),
			AmountPaid:    decimal.NewFromInt(credits),
			Currency:      "INR",
		})
		if err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	balance, err := service.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected balance 180, got %s", balance.String())
	}
	if count := countPaymentLogs(t, db); count != 2 {
		t.Fatalf("expected 2 payment logs, got %d", count)
	}
}

func TestApplyUnknownUserRollsBackLog(t *testing.T) {
	node := mustNode(t)
	userID := node.Generate()
	service, db := setupCreditsService(t, node, userID, decimal.NewFromInt(100))
	ctx := context.Background()

	_, err := service.Apply(ctx, creditsdomain.ApplyRequest{
		UserID:        node.Generate(),
		Credits:       decimal.NewFromInt(50),
		TransactionID: "pay_ghost",
		AmountPaid:    decimal.NewFromInt(50),
		Currency:      "INR",
	})
	if !errors.Is(err, creditsdomain.ErrUserNotFound) {
		t.Fatalf("expected user_not_found, got %v", err)
	}

	// The log write must roll back so a later redelivery of the same
	// transaction id can still succeed.
	if count := countPaymentLogs(t, db); count != 0 {
		t.Fatalf("expected no payment logs after rollback, got %d", count)
	}
}

func TestApplyValidation(t *testing.T) {
	node := mustNode(t)
	userID := node.Generate()
	service, _ := setupCreditsService(t, node, userID, decimal.NewFromInt(100))
	ctx := context.Background()

	_, err := service.Apply(ctx, creditsdomain.ApplyRequest{
		UserID:        userID,
		Credits:       decimal.Zero,
		TransactionID: "pay_zero",
	})
	if !errors.Is(err, creditsdomain.ErrInvalidCredits) {
		t.Fatalf("expected invalid_credits, got %v", err)
	}

	_, err = service.Apply(ctx, creditsdomain.ApplyRequest{
		UserID:        userID,
		Credits:       decimal.NewFromInt(10),
		TransactionID: "   ",
	})
	if !errors.Is(err, creditsdomain.ErrInvalidTransactionID) {
		t.Fatalf("expected invalid_transaction_id, got %v", err)
	}
}

func TestDeductGuardsBalance(t *testing.T) {
	node := mustNode(t)
	userID := node.Generate()
	service, db := setupCreditsService(t, node, userID, decimal.NewFromInt(10))
	ctx := context.Background()

	_, err := service.Deduct(ctx, creditsdomain.DeductRequest{
		UserID:  userID,
		Credits: decimal.NewFromInt(25),
		Reason:  "resume_render",
	})
	if !errors.Is(err, creditsdomain.ErrInsufficientCredits) {
		t.Fatalf("expected insufficient_credits, got %v", err)
	}

	balance, err := service.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected balance untouched at 10, got %s", balance.String())
	}
	if count := countPaymentLogs(t, db); count != 0 {
		t.Fatalf("expected no deduction log on failure, got %d", count)
	}
}

func TestDeductRecordsNegativeDelta(t *testing.T) {
	node := mustNode(t)
	userID := node.Generate()
	service, db := setupCreditsService(t, node, userID, decimal.NewFromInt(150))
	ctx := context.Background()

	balance, err := service.Deduct(ctx, creditsdomain.DeductRequest{
		UserID:  userID,
		Credits: decimal.NewFromInt(5),
		Reason:  "resume_render",
	})
	if err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(145)) {
		t.Fatalf("expected balance 145, got %s", balance.String())
	}

	var row struct {
		CreditsDelta  decimal.Decimal
		Status        string
		Reason        string
		TransactionID *string
	}
	if err := db.Raw(
		`SELECT credits_delta, status, reason, transaction_id FROM payment_logs WHERE user_id = ?`,
		userID,
	).Scan(&row).Error; err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !row.CreditsDelta.Equal(decimal.NewFromInt(-5)) {
		t.Fatalf("expected delta -5, got %s", row.CreditsDelta.String())
	}
	if row.Status != creditsdomain.StatusDeducted {
		t.Fatalf("expected status deducted, got %s", row.Status)
	}
	if row.Reason != "resume_render" {
		t.Fatalf("expected reason resume_render, got %s", row.Reason)
	}
	if row.TransactionID != nil {
		t.Fatalf("expected deduction log without transaction id")
	}
}

func TestDeductionsDoNotCollideOnNullTransactionID(t *testing.T) {
	node := mustNode(t)
	userID := node.Generate()
	service, db := setupCreditsService(t, node, userID, decimal.NewFromInt(100))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := service.Deduct(ctx, creditsdomain.DeductRequest{
			UserID:  userID,
			Credits: decimal.NewFromInt(5),
			Reason:  "resume_render",
		}); err != nil {
			t.Fatalf("deduct %d: %v", i, err)
		}
	}

	if count := countPaymentLogs(t, db); count != 3 {
		t.Fatalf("expected 3 deduction logs, got %d", count)
	}
}

func setupCreditsService(
	t *testing.T,
	node *snowflake.Node,
	userID snowflake.ID,
	openingBalance decimal.Decimal,
) (creditsdomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error
	prepareCreditsSchema(t, db)
	seedUser(t, db, userID, openingBalance)

	service := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	return service, db
}

func prepareCreditsSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec(`CREATE TABLE users (
		id BIGINT PRIMARY KEY,
		credits NUMERIC(12,2) NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		t.Fatalf("create users: %v", err)
	}
	if err := db.Exec(`CREATE TABLE payment_logs (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		transaction_id TEXT,
		credits_delta NUMERIC(12,2) NOT NULL,
		amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create payment_logs: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX ux_payment_logs_transaction_id
		ON payment_logs (transaction_id)
		WHERE transaction_id IS NOT NULL`).Error; err != nil {
		t.Fatalf("create transaction index: %v", err)
	}
}

func seedUser(t *testing.T, db *gorm.DB, userID snowflake.ID, credits decimal.Decimal) {
	t.Helper()
	if err := db.Exec(
		`INSERT INTO users (id, credits) VALUES (?, ?)`,
		userID,
		credits,
	).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func countPaymentLogs(t *testing.T, db *gorm.DB) int {
	t.Helper()
	var count int
	if err := db.Raw(`SELECT COUNT(1) FROM payment_logs`).Scan(&count).Error; err != nil {
		t.Fatalf("count payment logs: %v", err)
	}
	return count
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}
