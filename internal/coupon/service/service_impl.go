package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/coupon/domain"
	"github.com/craftedcv/craftedcv/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("coupon.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Coupon, error) {
	code, err := normalizeCode(req.Code)
	if err != nil {
		return domain.Coupon{}, err
	}
	if err := validateDiscount(req.DiscountPercent, req.DiscountAmount); err != nil {
		return domain.Coupon{}, err
	}

	now := time.Now().UTC()
	coupon := domain.Coupon{
		ID:                  s.genID.Generate(),
		Code:                code,
		DiscountPercent:     req.DiscountPercent,
		DiscountAmount:      req.DiscountAmount,
		MaxUses:             req.MaxUses,
		ExpiresAt:           req.ExpiresAt,
		IsActive:            true,
		ApplicableToPlans:   datatypes.NewJSONSlice(normalizeList(req.ApplicableToPlans)),
		ApplicableToDomains: datatypes.NewJSONSlice(normalizeList(req.ApplicableToDomains)),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, s.db, &coupon); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Coupon{}, domain.ErrCodeTaken
		}
		return domain.Coupon{}, err
	}

	s.log.Info("coupon created", zap.String("code", coupon.Code))
	return coupon, nil
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]domain.Coupon, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, s.db, skip, limit)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Coupon, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Coupon{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Coupon{}, err
	}
	if item == nil {
		return domain.Coupon{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Coupon, error) {
	item, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Coupon{}, err
	}

	if req.DiscountPercent != nil || req.DiscountAmount != nil {
		percent := item.DiscountPercent
		amount := item.DiscountAmount
		if req.DiscountPercent != nil {
			percent = req.DiscountPercent
		}
		if req.DiscountAmount != nil {
			amount = req.DiscountAmount
		}
		if err := validateDiscount(percent, amount); err != nil {
			return domain.Coupon{}, err
		}
		item.DiscountPercent = percent
		item.DiscountAmount = amount
	}
	if req.MaxUses != nil {
		item.MaxUses = req.MaxUses
	}
	if req.ExpiresAt != nil {
		item.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if req.ApplicableToPlans != nil {
		item.ApplicableToPlans = datatypes.NewJSONSlice(normalizeList(req.ApplicableToPlans))
	}
	if req.ApplicableToDomains != nil {
		item.ApplicableToDomains = datatypes.NewJSONSlice(normalizeList(req.ApplicableToDomains))
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &item); err != nil {
		return domain.Coupon{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.ErrInvalidID
	}

	rows, err := s.repo.Delete(ctx, s.db, parsed)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) EvaluateCode(ctx context.Context, code string, amount decimal.Decimal, planID, userDomain string) (domain.Evaluation, error) {
	if amount.IsNegative() {
		return domain.Evaluation{}, domain.ErrInvalidAmount
	}

	normalized, err := normalizeCode(code)
	if err != nil {
		return domain.Evaluation{Amount: amount, Reason: domain.ReasonInvalidCoupon}, nil
	}

	coupon, err := s.repo.FindByCode(ctx, s.db, normalized)
	if err != nil {
		return domain.Evaluation{}, err
	}

	evaluation := domain.Evaluate(coupon, amount, planID, userDomain, time.Now().UTC())
	if evaluation.Reason != "" {
		s.log.Info("coupon rejected",
			zap.String("code", normalized),
			zap.String("reason", evaluation.Reason),
		)
	}
	return evaluation, nil
}

func (s *Service) RecordUsage(ctx context.Context, code string) error {
	normalized, err := normalizeCode(code)
	if err != nil {
		return domain.ErrInvalidCode
	}

	rows, err := s.repo.IncrementUsage(ctx, s.db, normalized)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.log.Info("coupon usage recorded", zap.String("code", normalized))
	return nil
}

func normalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", domain.ErrInvalidCode
	}
	return code, nil
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validateDiscount(percent, amount *decimal.Decimal) error {
	if percent != nil {
		if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
			return domain.ErrInvalidDiscount
		}
	}
	if amount != nil && amount.IsNegative() {
		return domain.ErrInvalidDiscount
	}
	return nil
}
