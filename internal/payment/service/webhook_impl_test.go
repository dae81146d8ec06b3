package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	coupondomain "github.com/craftedcv/craftedcv/internal/coupon/domain"
	couponrepo "github.com/craftedcv/craftedcv/internal/coupon/repository"
	couponservice "github.com/craftedcv/craftedcv/internal/coupon/service"
	creditsdomain "github.com/craftedcv/craftedcv/internal/credits/domain"
	creditsrepo "github.com/craftedcv/craftedcv/internal/credits/repository"
	creditsservice "github.com/craftedcv/craftedcv/internal/credits/service"
	"github.com/craftedcv/craftedcv/internal/gateway/razorpay"
	"github.com/craftedcv/craftedcv/internal/payment/domain"
	planrepo "github.com/craftedcv/craftedcv/internal/plan/repository"
	planservice "github.com/craftedcv/craftedcv/internal/plan/service"
	subscriptiondomain "github.com/craftedcv/craftedcv/internal/subscription/domain"
	subscriptionrepo "github.com/craftedcv/craftedcv/internal/subscription/repository"
	subscriptionservice "github.com/craftedcv/craftedcv/internal/subscription/service"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type gatewayStub struct {
	orders       map[string]razorpay.Order
	webhookValid string
}

func (g *gatewayStub) CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (razorpay.Order, error) {
	return razorpay.Order{}, errors.New("not implemented")
}

func (g *gatewayStub) FetchOrder(ctx context.Context, orderID string) (razorpay.Order, error) {
	order, ok := g.orders[orderID]
	if !ok {
		return razorpay.Order{}, razorpay.ErrRequestFailed
	}
	return order, nil
}

func (g *gatewayStub) CreatePlan(ctx context.Context, req razorpay.CreatePlanRequest) (razorpay.Plan, error) {
	return razorpay.Plan{}, errors.New("not implemented")
}

func (g *gatewayStub) CreateSubscription(ctx context.Context, req razorpay.CreateSubscriptionRequest) (razorpay.Subscription, error) {
	return razorpay.Subscription{}, errors.New("not implemented")
}

func (g *gatewayStub) FetchSubscription(ctx context.Context, subscriptionID string) (razorpay.Subscription, error) {
	return razorpay.Subscription{}, errors.New("not implemented")
}

func (g *gatewayStub) CancelSubscription(ctx context.Context, subscriptionID string) (razorpay.Subscription, error) {
	return razorpay.Subscription{}, nil
}

func (g *gatewayStub) CreateInvoice(ctx context.Context, subscriptionID string, amount decimal.Decimal, description string) (razorpay.Invoice, error) {
	return razorpay.Invoice{}, errors.New("not implemented")
}

func (g *gatewayStub) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return signature == g.webhookValid
}

func (g *gatewayStub) VerifyWebhookSignature(payload []byte, signature string) bool {
	return signature == g.webhookValid
}

func TestWebhookPaymentCapturedCreditsOnce(t *testing.T) {
	env := setupWebhookEnv(t)
	ctx := context.Background()

	env.gateway.orders["order_123"] = razorpay.Order{
		ID:       "order_123",
		Amount:   9900,
		Currency: "INR",
		Notes: map[string]string{
			"credits": "50",
			"user_id": env.userID.String(),
		},
	}

	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_789","order_id":"order_123","amount":9900,"currency":"INR"}}}}`)

	if err := env.webhook.HandleRazorpay(ctx, payload, "valid"); err != nil {
		t.Fatalf("handle webhook: %v", err)
	}

	balance, err := env.credits.Balance(ctx, env.userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected balance 200 (150 + 50), got %s", balance.String())
	}

	var amountPaid decimal.Decimal
	if err := env.db.Raw(
		`SELECT amount_paid FROM payment_logs WHERE transaction_id = ?`, "pay_789",
	).Scan(&amountPaid).Error; err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !amountPaid.Equal(decimal.NewFromFloat(99.0)) {
		t.Fatalf("expected amount_paid 99.0, got %s", amountPaid.String())
	}

	// Redelivery of the identical payload must be a no-op.
	if err := env.webhook.HandleRazorpay(ctx, payload, "valid"); err != nil {
		t.Fatalf("handle redelivery: %v", err)
	}
	balance, err = env.credits.Balance(ctx, env.userID)
	if err != nil {
		t.Fatalf("balance after redelivery: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected balance unchanged at 200, got %s", balance.String())
	}
	var count int
	if err := env.db.Raw(`SELECT COUNT(1) FROM payment_logs`).Scan(&count).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 payment log, got %d", count)
	}
}

func TestWebhookRecordsCouponUsageOnConsummation(t *testing.T) {
	env := setupWebhookEnv(t)
	ctx := context.Background()

	percent := decimal.NewFromInt(10)
	coupon, err := env.coupons.Create(ctx, coupondomain.CreateRequest{
		Code:            "launch",
		DiscountPercent: &percent,
	})
	if err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	env.gateway.orders["order_coupon"] = razorpay.Order{
		ID:       "order_coupon",
		Amount:   8910,
		Currency: "INR",
		Notes: map[string]string{
			"credits":     "50",
			"user_id":     env.userID.String(),
			"coupon_code": "LAUNCH",
		},
	}

	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_coupon","order_id":"order_coupon","amount":8910,"currency":"INR"}}}}`)

	// First delivery applies credits and records usage; redelivery does neither.
	for i := 0; i < 2; i++ {
		if err := env.webhook.HandleRazorpay(ctx, payload, "valid"); err != nil {
			t.Fatalf("handle webhook %d: %v", i, err)
		}
	}

	stored, err := env.coupons.GetByID(ctx, coupon.ID.String())
	if err != nil {
		t.Fatalf("get coupon: %v", err)
	}
	if stored.UsesCount != 1 {
		t.Fatalf("expected uses_count 1, got %d", stored.UsesCount)
	}
}

func TestWebhookSubscriptionChargeCreditsAndSyncsStatus(t *testing.T) {
	env := setupWebhookEnv(t)
	ctx := context.Background()

	planID := env.node.Generate()
	seedPlan(t, env.db, planID, "plan_gw_1", decimal.NewFromInt(100))
	subID := env.node.Generate()
	seedSubscription(t, env.db, subID, env.userID, planID, "sub_gw_1", subscriptiondomain.StatusCreated)

	payload := []byte(`{"event":"subscription.charged","payload":{"subscription":{"entity":{"id":"sub_gw_1","plan_id":"plan_gw_1","status":"active","charge_amount":49900,"currency":"INR","latest_charge":"pay_cycle_1","current_start":1700000000,"current_end":1702592000}}}}`)

	if err := env.webhook.HandleRazorpay(ctx, payload, "valid"); err != nil {
		t.Fatalf("handle webhook: %v", err)
	}

	balance, err := env.credits.Balance(ctx, env.userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected balance 250 (150 + 100 per cycle), got %s", balance.String())
	}

	sub, err := env.subscriptions.GetByGatewayID(ctx, "sub_gw_1")
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if sub.Status != subscriptiondomain.StatusActive {
		t.Fatalf("expected status active, got %s", sub.Status)
	}

	// The charge id is the idempotency key; redelivery adds nothing.
	if err := env.webhook.HandleRazorpay(ctx, payload, "valid"); err != nil {
		t.Fatalf("handle redelivery: %v", err)
	}
	balance, _ = env.credits.Balance(ctx, env.userID)
	if !balance.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected balance unchanged at 250, got %s", balance.String())
	}
}

func TestWebhookRejectsBadSignatures(t *testing.T) {
	env := setupWebhookEnv(t)
	ctx := context.Background()
	payload := []byte(`{"event":"payment.captured"}`)

	if err := env.webhook.HandleRazorpay(ctx, payload, ""); !errors.Is(err, domain.ErrMissingSignature) {
		t.Fatalf("expected missing_signature, got %v", err)
	}
	if err := env.webhook.HandleRazorpay(ctx, payload, "forged"); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected invalid_signature, got %v", err)
	}
}

func TestWebhookAcceptsUnknownEvents(t *testing.T) {
	env := setupWebhookEnv(t)

	payload := []byte(`{"event":"invoice.paid","payload":{}}`)
	if err := env.webhook.HandleRazorpay(context.Background(), payload, "valid"); err != nil {
		t.Fatalf("expected unknown event to be accepted, got %v", err)
	}

	balance, _ := env.credits.Balance(context.Background(), env.userID)
	if !balance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance untouched at 150, got %s", balance.String())
	}
}

type webhookEnv struct {
	db            *gorm.DB
	node          *snowflake.Node
	userID        snowflake.ID
	gateway       *gatewayStub
	webhook       domain.WebhookService
	credits       creditsdomain.Service
	coupons       coupondomain.Service
	subscriptions subscriptiondomain.Service
}

func setupWebhookEnv(t *testing.T) *webhookEnv {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

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
	prepareWebhookSchema(t, db)

	userID := node.Generate()
	if err := db.Exec(
		`INSERT INTO users (id, credits) VALUES (?, ?)`,
		userID,
		decimal.NewFromInt(150),
	).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	log := zap.NewNop()
	gateway := &gatewayStub{orders: map[string]razorpay.Order{}, webhookValid: "valid"}

	credits := creditsservice.New(creditsservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  creditsrepo.Provide(),
	})
	coupons := couponservice.New(couponservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  couponrepo.Provide(),
	})
	plans := planservice.New(planservice.Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Repo:    planrepo.Provide(),
		Gateway: gateway,
	})
	subscriptions := subscriptionservice.New(subscriptionservice.Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Repo:    subscriptionrepo.Provide(),
		Plans:   plans,
		Gateway: gateway,
	})

	webhook := NewWebhook(WebhookParams{
		Log:           log,
		Gateway:       gateway,
		Credits:       credits,
		Coupons:       coupons,
		Plans:         plans,
		Subscriptions: subscriptions,
	})

	return &webhookEnv{
		db:            db,
		node:          node,
		userID:        userID,
		gateway:       gateway,
		webhook:       webhook,
		credits:       credits,
		coupons:       coupons,
		subscriptions: subscriptions,
	}
}

func prepareWebhookSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	statements := []string{
		`CREATE TABLE users (
			id BIGINT PRIMARY KEY,
			credits NUMERIC(12,2) NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE payment_logs (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			transaction_id TEXT,
			credits_delta NUMERIC(12,2) NOT NULL,
			amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_payment_logs_transaction_id
			ON payment_logs (transaction_id)
			WHERE transaction_id IS NOT NULL`,
		`CREATE TABLE coupons (
			id BIGINT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			discount_percent NUMERIC(5,2),
			discount_amount NUMERIC(12,2),
			max_uses INTEGER,
			uses_count INTEGER NOT NULL DEFAULT 0,
			expires_at DATETIME,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			applicable_to_plans JSON NOT NULL DEFAULT '[]',
			applicable_to_domains JSON NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE plans (
			id BIGINT PRIMARY KEY,
			plan_name TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			currency TEXT NOT NULL,
			period TEXT NOT NULL,
			interval INTEGER NOT NULL DEFAULT 1,
			credits_per_cycle NUMERIC(12,2) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			gateway_plan_id TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE subscriptions (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			plan_id BIGINT NOT NULL,
			gateway_subscription_id TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'created',
			current_period_start DATETIME,
			current_period_end DATETIME,
			cancel_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("prepare schema: %v", err)
		}
	}
}

func seedPlan(t *testing.T, db *gorm.DB, id snowflake.ID, gatewayPlanID string, creditsPerCycle decimal.Decimal) {
	t.Helper()
	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO plans (id, plan_name, amount, currency, period, interval, credits_per_cycle, description, gateway_plan_id, is_active, created_at, updated_at)
		 VALUES (?, 'Pro', 499, 'INR', 'monthly', 1, ?, '', ?, TRUE, ?, ?)`,
		id,
		creditsPerCycle,
		gatewayPlanID,
		now,
		now,
	).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}
}

func seedSubscription(t *testing.T, db *gorm.DB, id, userID, planID snowflake.ID, gatewaySubID, status string) {
	t.Helper()
	now := time.Now().UTC()
	if err := db.Exec(
		`INSERT INTO subscriptions (id, user_id, plan_id, gateway_subscription_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		userID,
		planID,
		gatewaySubID,
		status,
		now,
		now,
	).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
}
