package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	FindByGatewayID(ctx context.Context, db *gorm.DB, gatewaySubscriptionID string) (*Subscription, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, skip, limit int) ([]Subscription, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string, periodStart, periodEnd *time.Time) (int64, error)
}
