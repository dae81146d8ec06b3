package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	ReasonInvalidCoupon       = "invalid coupon"
	ReasonExpired             = "expired"
	ReasonNotApplicablePlan   = "not applicable to plan"
	ReasonNotApplicableDomain = "not applicable to domain"
)

// Evaluation is the pricing outcome of a coupon check. A rejected coupon is
// not an error: Amount carries the original value and Reason says why.
type Evaluation struct {
	Amount   decimal.Decimal `json:"amount"`
	CouponID *snowflake.ID   `json:"coupon_id,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// Evaluate computes the discounted amount for a coupon. Pure: it never
// mutates the coupon or records usage. Checks run in order and short-circuit
// on the first failure, returning the amount unmodified.
func Evaluate(coupon *Coupon, amount decimal.Decimal, planID, userDomain string, now time.Time) Evaluation {
	rejected := func(reason string) Evaluation {
		return Evaluation{Amount: amount, Reason: reason}
	}

	if coupon == nil || !coupon.IsActive {
		return rejected(ReasonInvalidCoupon)
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now) {
		return rejected(ReasonExpired)
	}
	if len(coupon.ApplicableToPlans) > 0 && !contains(coupon.ApplicableToPlans, planID) {
		return rejected(ReasonNotApplicablePlan)
	}
	if len(coupon.ApplicableToDomains) > 0 && !contains(coupon.ApplicableToDomains, userDomain) {
		return rejected(ReasonNotApplicableDomain)
	}

	// Percent wins over a flat amount when both are set.
	var discount decimal.Decimal
	switch {
	case coupon.DiscountPercent != nil && !coupon.DiscountPercent.IsZero():
		discount = amount.Mul(*coupon.DiscountPercent).Div(decimal.NewFromInt(100))
	case coupon.DiscountAmount != nil && !coupon.DiscountAmount.IsZero():
		discount = *coupon.DiscountAmount
	}

	discounted := amount.Sub(discount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}

	id := coupon.ID
	return Evaluation{Amount: discounted, CouponID: &id}
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
