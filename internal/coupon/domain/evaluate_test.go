package domain

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateFullPercentNeverNegative(t *testing.T) {
	percent := decimal.NewFromInt(100)
	coupon := &Coupon{ID: snowflake.ID(1), Code: "FREE", IsActive: true, DiscountPercent: &percent}

	result := Evaluate(coupon, decimal.NewFromInt(500), "plan_a", "", time.Now().UTC())

	assert.Empty(t, result.Reason)
	assert.True(t, result.Amount.Equal(decimal.Zero), "expected amount 0, got %s", result.Amount.String())
	if assert.NotNil(t, result.CouponID) {
		assert.Equal(t, coupon.ID, *result.CouponID)
	}
}

func TestEvaluateFlatDiscountClampsAtZero(t *testing.T) {
	flat := decimal.NewFromInt(700)
	coupon := &Coupon{ID: snowflake.ID(2), Code: "BIG", IsActive: true, DiscountAmount: &flat}

	result := Evaluate(coupon, decimal.NewFromInt(500), "", "", time.Now().UTC())

	assert.True(t, result.Amount.Equal(decimal.Zero), "expected amount clamped to 0, got %s", result.Amount.String())
}

func TestEvaluatePercentWinsOverFlat(t *testing.T) {
	percent := decimal.NewFromInt(10)
	flat := decimal.NewFromInt(400)
	coupon := &Coupon{ID: snowflake.ID(3), Code: "BOTH", IsActive: true, DiscountPercent: &percent, DiscountAmount: &flat}

	result := Evaluate(coupon, decimal.NewFromInt(500), "", "", time.Now().UTC())

	assert.True(t, result.Amount.Equal(decimal.NewFromInt(450)),
		"expected percent discount to apply (450), got %s", result.Amount.String())
}

func TestEvaluateRejections(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	percent := decimal.NewFromInt(10)

	cases := []struct {
		name   string
		coupon *Coupon
		planID string
		domain string
		reason string
	}{
		{
			name:   "missing coupon",
			coupon: nil,
			reason: ReasonInvalidCoupon,
		},
		{
			name:   "inactive",
			coupon: &Coupon{ID: snowflake.ID(4), IsActive: false, DiscountPercent: &percent},
			reason: ReasonInvalidCoupon,
		},
		{
			name:   "expired",
			coupon: &Coupon{ID: snowflake.ID(5), IsActive: true, ExpiresAt: &past, DiscountPercent: &percent},
			reason: ReasonExpired,
		},
		{
			name:   "wrong plan",
			coupon: &Coupon{ID: snowflake.ID(6), IsActive: true, DiscountPercent: &percent, ApplicableToPlans: []string{"plan_a"}},
			planID: "plan_b",
			reason: ReasonNotApplicablePlan,
		},
		{
			name:   "wrong domain",
			coupon: &Coupon{ID: snowflake.ID(7), IsActive: true, DiscountPercent: &percent, ApplicableToDomains: []string{"acme.com"}},
			domain: "other.com",
			reason: ReasonNotApplicableDomain,
		},
	}

	amount := decimal.NewFromInt(500)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Evaluate(tc.coupon, amount, tc.planID, tc.domain, now)

			assert.Equal(t, tc.reason, result.Reason)
			assert.True(t, result.Amount.Equal(amount), "rejection must return the original amount")
			assert.Nil(t, result.CouponID, "rejection must not carry a coupon id")
		})
	}
}

func TestEvaluateNoDiscountFieldsIsFreePass(t *testing.T) {
	coupon := &Coupon{ID: snowflake.ID(8), Code: "NOOP", IsActive: true}

	result := Evaluate(coupon, decimal.NewFromInt(500), "", "", time.Now().UTC())

	assert.Empty(t, result.Reason)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(500)), "expected amount unchanged, got %s", result.Amount.String())
}
