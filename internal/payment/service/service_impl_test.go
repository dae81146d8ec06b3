package service

import (
	"context"
	"errors"
	"testing"

	"github.com/craftedcv/craftedcv/internal/config"
	"github.com/craftedcv/craftedcv/internal/gateway/razorpay"
	"github.com/craftedcv/craftedcv/internal/payment/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newPaymentService(env *webhookEnv) domain.Service {
	return New(Params{
		Log:     zap.NewNop(),
		Cfg:     config.Config{RazorpayKeyID: "key_test"},
		Gateway: env.gateway,
		Credits: env.credits,
		Coupons: env.coupons,
	})
}

func TestVerifyPaymentCreditsBalance(t *testing.T) {
	env := setupWebhookEnv(t)
	payments := newPaymentService(env)
	ctx := context.Background()

	env.gateway.orders["order_v1"] = razorpay.Order{
		ID:       "order_v1",
		Amount:   9900,
		Currency: "INR",
		Notes: map[string]string{
			"credits": "50",
			"user_id": env.userID.String(),
		},
	}

	result, err := payments.VerifyPayment(ctx, domain.VerifyRequest{
		UserID:            env.userID,
		RazorpayPaymentID: "pay_v1",
		RazorpayOrderID:   "order_v1",
		RazorpaySignature: "valid",
	})
	if err != nil {
		t.Fatalf("verify payment: %v", err)
	}
	if !result.Applied {
		t.Fatalf("expected credits to be applied")
	}
	if !result.NewBalance.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected balance 200, got %s", result.NewBalance.String())
	}
}

func TestVerifyPaymentRejectsForgedSignature(t *testing.T) {
	env := setupWebhookEnv(t)
	payments := newPaymentService(env)

	_, err := payments.VerifyPayment(context.Background(), domain.VerifyRequest{
		UserID:            env.userID,
		RazorpayPaymentID: "pay_v2",
		RazorpayOrderID:   "order_v2",
		RazorpaySignature: "forged",
	})
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected invalid_signature, got %v", err)
	}

	balance, _ := env.credits.Balance(context.Background(), env.userID)
	if !balance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance untouched at 150, got %s", balance.String())
	}
}

// The client-confirmed path and the webhook path share one idempotency key,
// so whichever lands second is a no-op.
func TestVerifyThenWebhookAppliesOnce(t *testing.T) {
	env := setupWebhookEnv(t)
	payments := newPaymentService(env)
	ctx := context.Background()

	env.gateway.orders["order_race"] = razorpay.Order{
		ID:       "order_race",
		Amount:   9900,
		Currency: "INR",
		Notes: map[string]string{
			"credits": "50",
			"user_id": env.userID.String(),
		},
	}

	if _, err := payments.VerifyPayment(ctx, domain.VerifyRequest{
		UserID:            env.userID,
		RazorpayPaymentID: "pay_race",
		RazorpayOrderID:   "order_race",
		RazorpaySignature: "valid",
	}); err != nil {
		t.Fatalf("verify payment: %v", err)
	}

	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_race","order_id":"order_race","amount":9900,"currency":"INR"}}}}`)
	if err := env.webhook.HandleRazorpay(ctx, payload, "valid"); err != nil {
		t.Fatalf("handle webhook: %v", err)
	}

	balance, err := env.credits.Balance(ctx, env.userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected balance 200 after both paths, got %s", balance.String())
	}
}
