package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/coupon/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const couponColumns = `id, code, discount_percent, discount_amount, max_uses, uses_count,
	expires_at, is_active, applicable_to_plans, applicable_to_domains, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, coupon *domain.Coupon) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO coupons (id, code, discount_percent, discount_amount, max_uses, uses_count, expires_at, is_active, applicable_to_plans, applicable_to_domains, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		coupon.ID,
		coupon.Code,
		coupon.DiscountPercent,
		coupon.DiscountAmount,
		coupon.MaxUses,
		coupon.UsesCount,
		coupon.ExpiresAt,
		coupon.IsActive,
		coupon.ApplicableToPlans,
		coupon.ApplicableToDomains,
		coupon.CreatedAt,
		coupon.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := db.WithContext(ctx).Raw(
		`SELECT `+couponColumns+` FROM coupons WHERE id = ?`,
		id,
	).Scan(&coupon).Error
	if err != nil {
		return nil, err
	}
	if coupon.ID == 0 {
		return nil, nil
	}
	return &coupon, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := db.WithContext(ctx).Raw(
		`SELECT `+couponColumns+` FROM coupons WHERE code = ?`,
		code,
	).Scan(&coupon).Error
	if err != nil {
		return nil, err
	}
	if coupon.ID == 0 {
		return nil, nil
	}
	return &coupon, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, skip, limit int) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	err := db.WithContext(ctx).Raw(
		`SELECT `+couponColumns+` FROM coupons
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		limit,
		skip,
	).Scan(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, coupon *domain.Coupon) error {
	return db.WithContext(ctx).Exec(
		`UPDATE coupons
		 SET discount_percent = ?, discount_amount = ?, max_uses = ?, expires_at = ?, is_active = ?,
		     applicable_to_plans = ?, applicable_to_domains = ?, updated_at = ?
		 WHERE id = ?`,
		coupon.DiscountPercent,
		coupon.DiscountAmount,
		coupon.MaxUses,
		coupon.ExpiresAt,
		coupon.IsActive,
		coupon.ApplicableToPlans,
		coupon.ApplicableToDomains,
		coupon.UpdatedAt,
		coupon.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM coupons WHERE id = ?`, id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) IncrementUsage(ctx context.Context, db *gorm.DB, code string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE coupons SET uses_count = uses_count + 1, updated_at = CURRENT_TIMESTAMP WHERE code = ?`,
		code,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
