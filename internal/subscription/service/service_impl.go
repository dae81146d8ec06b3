package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/gateway/razorpay"
	plandomain "github.com/craftedcv/craftedcv/internal/plan/domain"
	"github.com/craftedcv/craftedcv/internal/subscription/domain"
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
	Plans   plandomain.Service
	Gateway razorpay.Gateway
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	plans   plandomain.Service
	gateway razorpay.Gateway
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("subscription.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		plans:   p.Plans,
		gateway: p.Gateway,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.CreateResult, error) {
	if req.UserID == 0 {
		return domain.CreateResult{}, domain.ErrInvalidRequest
	}

	plan, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return domain.CreateResult{}, err
	}
	if !plan.IsActive {
		return domain.CreateResult{}, domain.ErrInvalidRequest
	}

	totalCount := req.TotalCount
	if totalCount <= 0 {
		totalCount = 12
	}

	gatewaySub, err := s.gateway.CreateSubscription(ctx, razorpay.CreateSubscriptionRequest{
		PlanID:     plan.GatewayPlanID,
		TotalCount: totalCount,
	})
	if err != nil {
		return domain.CreateResult{}, err
	}

	now := time.Now().UTC()
	sub := domain.Subscription{
		ID:                    s.genID.Generate(),
		UserID:                req.UserID,
		PlanID:                plan.ID,
		GatewaySubscriptionID: gatewaySub.ID,
		Status:                gatewaySub.Status,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if sub.Status == "" {
		sub.Status = domain.StatusCreated
	}

	if err := s.repo.Insert(ctx, s.db, &sub); err != nil {
		return domain.CreateResult{}, err
	}

	s.log.Info("subscription created",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("gateway_subscription_id", sub.GatewaySubscriptionID),
		zap.String("user_id", sub.UserID.String()),
	)
	return domain.CreateResult{Subscription: sub, ShortURL: gatewaySub.ShortURL}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Subscription, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Subscription{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Subscription{}, err
	}
	if item == nil {
		return domain.Subscription{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByGatewayID(ctx context.Context, gatewaySubscriptionID string) (domain.Subscription, error) {
	trimmed := strings.TrimSpace(gatewaySubscriptionID)
	if trimmed == "" {
		return domain.Subscription{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByGatewayID(ctx, s.db, trimmed)
	if err != nil {
		return domain.Subscription{}, err
	}
	if item == nil {
		return domain.Subscription{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListByUser(ctx context.Context, userID snowflake.ID, skip, limit int) ([]domain.Subscription, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, s.db, userID, skip, limit)
}

func (s *Service) SyncStatus(ctx context.Context, req domain.SyncStatusRequest) (domain.Subscription, error) {
	item, err := s.GetByGatewayID(ctx, req.GatewaySubscriptionID)
	if err != nil {
		return domain.Subscription{}, err
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		return domain.Subscription{}, domain.ErrInvalidRequest
	}

	rows, err := s.repo.UpdateStatus(ctx, s.db, item.ID, status, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return domain.Subscription{}, err
	}
	if rows == 0 {
		return domain.Subscription{}, domain.ErrNotFound
	}

	s.log.Info("subscription status synced",
		zap.String("subscription_id", item.ID.String()),
		zap.String("status", status),
	)

	item.Status = status
	if req.PeriodStart != nil {
		item.CurrentPeriodStart = req.PeriodStart
	}
	if req.PeriodEnd != nil {
		item.CurrentPeriodEnd = req.PeriodEnd
	}
	return item, nil
}

func (s *Service) Cancel(ctx context.Context, id string, userID snowflake.ID) (domain.Subscription, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	if userID != 0 && item.UserID != userID {
		return domain.Subscription{}, domain.ErrForbidden
	}

	if _, err := s.gateway.CancelSubscription(ctx, item.GatewaySubscriptionID); err != nil {
		return domain.Subscription{}, err
	}

	rows, err := s.repo.UpdateStatus(ctx, s.db, item.ID, domain.StatusCancelled, nil, nil)
	if err != nil {
		return domain.Subscription{}, err
	}
	if rows == 0 {
		return domain.Subscription{}, domain.ErrNotFound
	}

	s.log.Info("subscription cancelled",
		zap.String("subscription_id", item.ID.String()),
		zap.String("user_id", item.UserID.String()),
	)

	item.Status = domain.StatusCancelled
	return item, nil
}
