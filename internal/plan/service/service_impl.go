package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/gateway/razorpay"
	"github.com/craftedcv/craftedcv/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Gateway razorpay.Gateway
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	gateway razorpay.Gateway
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("plan.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		gateway: p.Gateway,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Plan, error) {
	name := strings.TrimSpace(req.PlanName)
	period := strings.ToLower(strings.TrimSpace(req.Period))
	if name == "" || !domain.ValidPeriod(period) {
		return domain.Plan{}, domain.ErrInvalidRequest
	}
	if !req.Amount.IsPositive() || !req.CreditsPerCycle.IsPositive() {
		return domain.Plan{}, domain.ErrInvalidRequest
	}
	interval := req.Interval
	if interval <= 0 {
		interval = 1
	}

	gatewayPlan, err := s.gateway.CreatePlan(ctx, razorpay.CreatePlanRequest{
		Name:        name,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Period:      period,
		Interval:    interval,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return domain.Plan{}, err
	}

	now := time.Now().UTC()
	plan := domain.Plan{
		ID:              s.genID.Generate(),
		PlanName:        name,
		Amount:          req.Amount,
		Currency:        strings.ToUpper(strings.TrimSpace(req.Currency)),
		Period:          period,
		Interval:        interval,
		CreditsPerCycle: req.CreditsPerCycle,
		Description:     strings.TrimSpace(req.Description),
		GatewayPlanID:   gatewayPlan.ID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &plan); err != nil {
		return domain.Plan{}, err
	}

	s.log.Info("plan created",
		zap.String("plan_id", plan.ID.String()),
		zap.String("gateway_plan_id", plan.GatewayPlanID),
	)
	return plan, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool, skip, limit int) ([]domain.Plan, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, s.db, activeOnly, skip, limit)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Plan{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Plan{}, err
	}
	if item == nil {
		return domain.Plan{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByGatewayPlanID(ctx context.Context, gatewayPlanID string) (domain.Plan, error) {
	trimmed := strings.TrimSpace(gatewayPlanID)
	if trimmed == "" {
		return domain.Plan{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByGatewayPlanID(ctx, s.db, trimmed)
	if err != nil {
		return domain.Plan{}, err
	}
	if item == nil {
		return domain.Plan{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Plan, error) {
	item, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Plan{}, err
	}

	if req.PlanName != nil {
		if name := strings.TrimSpace(*req.PlanName); name != "" {
			item.PlanName = name
		}
	}
	if req.CreditsPerCycle != nil {
		if !req.CreditsPerCycle.IsPositive() {
			return domain.Plan{}, domain.ErrInvalidRequest
		}
		item.CreditsPerCycle = *req.CreditsPerCycle
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &item); err != nil {
		return domain.Plan{}, err
	}
	return item, nil
}
