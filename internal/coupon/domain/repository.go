package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, coupon *Coupon) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Coupon, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Coupon, error)
	List(ctx context.Context, db *gorm.DB, skip, limit int) ([]Coupon, error)
	Update(ctx context.Context, db *gorm.DB, coupon *Coupon) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	// IncrementUsage bumps uses_count atomically and reports rows touched.
	IncrementUsage(ctx context.Context, db *gorm.DB, code string) (int64, error)
}
