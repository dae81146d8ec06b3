package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, plan *Plan) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Plan, error)
	FindByGatewayPlanID(ctx context.Context, db *gorm.DB, gatewayPlanID string) (*Plan, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool, skip, limit int) ([]Plan, error)
	Update(ctx context.Context, db *gorm.DB, plan *Plan) error
}
