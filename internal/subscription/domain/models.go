package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Subscription links a user to a gateway subscription and mirrors the
// gateway's lifecycle status locally. Status transitions arrive via webhook
// events; the local value is a cache, the gateway is authoritative.
type Subscription struct {
	ID                    snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID                snowflake.ID `gorm:"not null;index" json:"user_id"`
	PlanID                snowflake.ID `gorm:"not null" json:"plan_id"`
	GatewaySubscriptionID string       `gorm:"uniqueIndex;not null" json:"gateway_subscription_id"`
	Status                string       `gorm:"not null;default:'created'" json:"status"`
	CurrentPeriodStart    *time.Time   `json:"current_period_start,omitempty"`
	CurrentPeriodEnd      *time.Time   `json:"current_period_end,omitempty"`
	CancelAt              *time.Time   `json:"cancel_at,omitempty"`
	CreatedAt             time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

const (
	StatusCreated   = "created"
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCancelled = "cancelled"
)
