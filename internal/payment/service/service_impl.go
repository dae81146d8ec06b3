package service

import (
	"context"
	"fmt"
	"strings"

	coupondomain "github.com/craftedcv/craftedcv/internal/coupon/domain"
	creditsdomain "github.com/craftedcv/craftedcv/internal/credits/domain"
	"github.com/craftedcv/craftedcv/internal/config"
	"github.com/craftedcv/craftedcv/internal/gateway/razorpay"
	"github.com/craftedcv/craftedcv/internal/payment/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	Gateway razorpay.Gateway
	Credits creditsdomain.Service
	Coupons coupondomain.Service
}

type Service struct {
	log     *zap.Logger
	cfg     config.Config
	gateway razorpay.Gateway
	credits creditsdomain.Service
	coupons coupondomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("payment.service"),
		cfg:     p.Cfg,
		gateway: p.Gateway,
		credits: p.Credits,
		coupons: p.Coupons,
	}
}

// CreateOrder prices the order (coupon evaluation is preview-only here; usage
// is recorded when the payment consummates) and opens it on the gateway with
// the credit grant carried in the order notes.
func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.CreateOrderResult, error) {
	if req.UserID == 0 || !req.Amount.IsPositive() || !req.CreditsToAdd.IsPositive() {
		return domain.CreateOrderResult{}, domain.ErrInvalidRequest
	}

	amount := req.Amount
	var evaluation *coupondomain.Evaluation
	couponCode := ""
	if strings.TrimSpace(req.CouponCode) != "" {
		result, err := s.coupons.EvaluateCode(ctx, req.CouponCode, amount, req.PlanID, req.UserDomain)
		if err != nil {
			return domain.CreateOrderResult{}, err
		}
		evaluation = &result
		amount = result.Amount
		if result.CouponID != nil {
			couponCode = strings.ToUpper(strings.TrimSpace(req.CouponCode))
		}
	}
	if !amount.IsPositive() {
		return domain.CreateOrderResult{}, domain.ErrInvalidRequest
	}

	order, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:     amount,
		Currency:   req.Currency,
		Credits:    req.CreditsToAdd,
		Receipt:    req.Receipt,
		UserID:     req.UserID.String(),
		CouponCode: couponCode,
	})
	if err != nil {
		return domain.CreateOrderResult{}, err
	}

	s.log.Info("payment order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", req.UserID.String()),
		zap.String("credits", req.CreditsToAdd.String()),
	)

	return domain.CreateOrderResult{
		Key:         s.cfg.RazorpayKeyID,
		OrderID:     order.ID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Description: fmt.Sprintf("%s Credits", req.CreditsToAdd.String()),
		Coupon:      evaluation,
	}, nil
}

// VerifyPayment is the client-confirmed path: checks the checkout signature,
// reads the credit grant from the order notes and hands the payment id to the
// reconciler. A webhook for the same payment id becomes a no-op, and vice
// versa.
func (s *Service) VerifyPayment(ctx context.Context, req domain.VerifyRequest) (domain.VerifyResult, error) {
	paymentID := strings.TrimSpace(req.RazorpayPaymentID)
	orderID := strings.TrimSpace(req.RazorpayOrderID)
	if req.UserID == 0 || paymentID == "" || orderID == "" {
		return domain.VerifyResult{}, domain.ErrInvalidRequest
	}

	if !s.gateway.VerifyPaymentSignature(orderID, paymentID, req.RazorpaySignature) {
		return domain.VerifyResult{}, domain.ErrInvalidSignature
	}

	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		return domain.VerifyResult{}, err
	}

	credits, err := decimal.NewFromString(order.Notes["credits"])
	if err != nil || !credits.IsPositive() {
		return domain.VerifyResult{}, domain.ErrInvalidPayload
	}

	applied, err := s.credits.Apply(ctx, creditsdomain.ApplyRequest{
		UserID:        req.UserID,
		Credits:       credits,
		TransactionID: paymentID,
		AmountPaid:    razorpay.FromMinorUnits(order.Amount),
		Currency:      order.Currency,
	})
	if err != nil {
		return domain.VerifyResult{}, err
	}

	if applied.Applied {
		if code := order.Notes["coupon_code"]; code != "" {
			if err := s.coupons.RecordUsage(ctx, code); err != nil {
				s.log.Warn("coupon usage not recorded",
					zap.String("code", code),
					zap.Error(err),
				)
			}
		}
	}

	return domain.VerifyResult{NewBalance: applied.NewBalance, Applied: applied.Applied}, nil
}
