package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Plan mirrors a recurring billing template on the payment gateway and adds
// the local credit grant applied on every successful charge.
type Plan struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	PlanName        string          `gorm:"not null" json:"plan_name"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency        string          `gorm:"not null" json:"currency"`
	Period          string          `gorm:"not null" json:"period"`
	Interval        int             `gorm:"not null;default:1" json:"interval"`
	CreditsPerCycle decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"credits_per_cycle"`
	Description     string          `gorm:"not null;default:''" json:"description,omitempty"`
	GatewayPlanID   string          `gorm:"index;not null" json:"gateway_plan_id"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Plan) TableName() string { return "plans" }
