package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	creditsdomain "github.com/craftedcv/craftedcv/internal/credits/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/gateway/razorpay"
	"github.com/craftedcv/craftedcv/internal/observability/metrics"
	"github.com/craftedcv/craftedcv/internal/payment/domain"
	coupondomain "github.com/craftedcv/craftedcv/internal/coupon/domain"
	plandomain "github.com/craftedcv/craftedcv/internal/plan/domain"
	subscriptiondomain "github.com/craftedcv/craftedcv/internal/subscription/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type WebhookParams struct {
	fx.In

	Log           *zap.Logger
	Gateway       razorpay.Gateway
	Credits       creditsdomain.Service
	Coupons       coupondomain.Service
	Plans         plandomain.Service
	Subscriptions subscriptiondomain.Service
	Metrics       *metrics.HTTPMetrics `optional:"true"`
}

type WebhookService struct {
	log           *zap.Logger
	gateway       razorpay.Gateway
	credits       creditsdomain.Service
	coupons       coupondomain.Service
	plans         plandomain.Service
	subscriptions subscriptiondomain.Service
	metrics       *metrics.HTTPMetrics
}

func NewWebhook(p WebhookParams) domain.WebhookService {
	return &WebhookService{
		log:           p.Log.Named("payment.webhook"),
		gateway:       p.Gateway,
		credits:       p.Credits,
		coupons:       p.Coupons,
		plans:         p.Plans,
		subscriptions: p.Subscriptions,
		metrics:       p.Metrics,
	}
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
		Subscription struct {
			Entity subscriptionEntity `json:"entity"`
		} `json:"subscription"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type subscriptionEntity struct {
	ID           string `json:"id"`
	PlanID       string `json:"plan_id"`
	Status       string `json:"status"`
	ChargeAmount int64  `json:"charge_amount"`
	Currency     string `json:"currency"`
	LatestCharge string `json:"latest_charge"`
	CurrentStart int64  `json:"current_start"`
	CurrentEnd   int64  `json:"current_end"`
}

// HandleRazorpay authenticates and dispatches a webhook delivery. Events the
// service does not act on are still accepted so the gateway stops retrying;
// only authenticity failures are errors.
func (s *WebhookService) HandleRazorpay(ctx context.Context, payload []byte, signature string) error {
	if strings.TrimSpace(signature) == "" {
		s.metrics.RecordWebhookEvent("unknown", "missing_signature")
		return domain.ErrMissingSignature
	}
	if !s.gateway.VerifyWebhookSignature(payload, signature) {
		s.metrics.RecordWebhookEvent("unknown", "invalid_signature")
		return domain.ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.metrics.RecordWebhookEvent("unknown", "invalid_payload")
		return domain.ErrInvalidPayload
	}

	switch event.Event {
	case "payment.captured":
		s.handlePaymentCaptured(ctx, event.Payload.Payment.Entity)
	case "subscription.activated", "subscription.charged":
		s.handleSubscriptionCharge(ctx, event.Payload.Subscription.Entity)
	default:
		s.metrics.RecordWebhookEvent(event.Event, "ignored")
		s.log.Info("unhandled webhook event", zap.String("event", event.Event))
	}
	return nil
}

// handlePaymentCaptured credits a one-time order. Failures here are logged,
// not returned: the delivery was authentic, and the gateway's own retries
// plus the reconciler's idempotency make a later attempt safe.
func (s *WebhookService) handlePaymentCaptured(ctx context.Context, payment paymentEntity) {
	if payment.OrderID == "" {
		s.metrics.RecordWebhookEvent("payment.captured", "skipped")
		return
	}

	order, err := s.gateway.FetchOrder(ctx, payment.OrderID)
	if err != nil {
		s.metrics.RecordWebhookEvent("payment.captured", "order_fetch_failed")
		s.log.Warn("cannot fetch order for captured payment",
			zap.String("order_id", payment.OrderID),
			zap.Error(err),
		)
		return
	}

	credits, err := decimal.NewFromString(order.Notes["credits"])
	userID, userErr := snowflake.ParseString(order.Notes["user_id"])
	if err != nil || !credits.IsPositive() || userErr != nil || userID == 0 {
		s.metrics.RecordWebhookEvent("payment.captured", "invalid_notes")
		s.log.Warn("order notes missing credits or user id",
			zap.String("order_id", payment.OrderID),
		)
		return
	}

	result, err := s.credits.Apply(ctx, creditsdomain.ApplyRequest{
		UserID:        userID,
		Credits:       credits,
		TransactionID: payment.ID,
		AmountPaid:    razorpay.FromMinorUnits(payment.Amount),
		Currency:      payment.Currency,
	})
	if err != nil {
		s.metrics.RecordWebhookEvent("payment.captured", "apply_failed")
		s.log.Error("credit application failed",
			zap.String("transaction_id", payment.ID),
			zap.Error(err),
		)
		return
	}

	if result.Applied {
		if code := order.Notes["coupon_code"]; code != "" {
			if err := s.coupons.RecordUsage(ctx, code); err != nil {
				s.log.Warn("coupon usage not recorded",
					zap.String("code", code),
					zap.Error(err),
				)
			}
		}
		s.metrics.RecordWebhookEvent("payment.captured", "applied")
	} else {
		s.metrics.RecordWebhookEvent("payment.captured", "duplicate")
	}
}

// handleSubscriptionCharge credits a recurring cycle keyed by the charge's
// own transaction id and mirrors the gateway status onto the local record.
func (s *WebhookService) handleSubscriptionCharge(ctx context.Context, entity subscriptionEntity) {
	sub, err := s.subscriptions.GetByGatewayID(ctx, entity.ID)
	if err != nil {
		s.metrics.RecordWebhookEvent("subscription.charged", "unknown_subscription")
		s.log.Warn("subscription not found for charge",
			zap.String("gateway_subscription_id", entity.ID),
			zap.Error(err),
		)
		return
	}

	plan, err := s.plans.GetByGatewayPlanID(ctx, entity.PlanID)
	if err != nil {
		s.metrics.RecordWebhookEvent("subscription.charged", "unknown_plan")
		s.log.Warn("plan not found for charge",
			zap.String("gateway_plan_id", entity.PlanID),
			zap.Error(err),
		)
		return
	}

	if plan.CreditsPerCycle.IsPositive() {
		transactionID := entity.LatestCharge
		if transactionID == "" {
			transactionID = entity.ID
		}
		currency := entity.Currency
		if currency == "" {
			currency = "INR"
		}

		result, err := s.credits.Apply(ctx, creditsdomain.ApplyRequest{
			UserID:        sub.UserID,
			Credits:       plan.CreditsPerCycle,
			TransactionID: transactionID,
			AmountPaid:    razorpay.FromMinorUnits(entity.ChargeAmount),
			Currency:      currency,
		})
		if err != nil {
			s.metrics.RecordWebhookEvent("subscription.charged", "apply_failed")
			s.log.Error("subscription credit application failed",
				zap.String("transaction_id", transactionID),
				zap.Error(err),
			)
			return
		}
		if result.Applied {
			s.metrics.RecordWebhookEvent("subscription.charged", "applied")
		} else {
			s.metrics.RecordWebhookEvent("subscription.charged", "duplicate")
		}
	}

	if _, err := s.subscriptions.SyncStatus(ctx, subscriptiondomain.SyncStatusRequest{
		GatewaySubscriptionID: entity.ID,
		Status:                entity.Status,
		PeriodStart:           unixTime(entity.CurrentStart),
		PeriodEnd:             unixTime(entity.CurrentEnd),
	}); err != nil {
		s.log.Warn("subscription status not synced",
			zap.String("gateway_subscription_id", entity.ID),
			zap.Error(err),
		)
	}
}

func unixTime(epoch int64) *time.Time {
	if epoch <= 0 {
		return nil
	}
	t := time.Unix(epoch, 0).UTC()
	return &t
}
