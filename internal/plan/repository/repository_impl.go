package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const planColumns = `id, plan_name, amount, currency, period, interval, credits_per_cycle,
	description, gateway_plan_id, is_active, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO plans (id, plan_name, amount, currency, period, interval, credits_per_cycle, description, gateway_plan_id, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID,
		plan.PlanName,
		plan.Amount,
		plan.Currency,
		plan.Period,
		plan.Interval,
		plan.CreditsPerCycle,
		plan.Description,
		plan.GatewayPlanID,
		plan.IsActive,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT `+planColumns+` FROM plans WHERE id = ?`,
		id,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) FindByGatewayPlanID(ctx context.Context, db *gorm.DB, gatewayPlanID string) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT `+planColumns+` FROM plans WHERE gateway_plan_id = ?`,
		gatewayPlanID,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool, skip, limit int) ([]domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	if activeOnly {
		query += ` WHERE is_active = ?`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	args := make([]any, 0, 3)
	if activeOnly {
		args = append(args, true)
	}
	args = append(args, limit, skip)

	var plans []domain.Plan
	err := db.WithContext(ctx).Raw(query, args...).Scan(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Exec(
		`UPDATE plans
		 SET plan_name = ?, credits_per_cycle = ?, description = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		plan.PlanName,
		plan.CreditsPerCycle,
		plan.Description,
		plan.IsActive,
		plan.UpdatedAt,
		plan.ID,
	).Error
}
