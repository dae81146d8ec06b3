package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/config"
	creditsdomain "github.com/craftedcv/craftedcv/internal/credits/domain"
	"github.com/craftedcv/craftedcv/internal/resume/domain"
	"github.com/craftedcv/craftedcv/internal/resume/pdf"
	"github.com/craftedcv/craftedcv/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	GenID    *snowflake.Node
	Repo     domain.Repository
	Credits  creditsdomain.Service
	Renderer *pdf.Renderer
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      config.Config
	genID    *snowflake.Node
	repo     domain.Repository
	credits  creditsdomain.Service
	renderer *pdf.Renderer
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("resume.service"),
		cfg:      p.Cfg,
		genID:    p.GenID,
		repo:     p.Repo,
		credits:  p.Credits,
		renderer: p.Renderer,
	}
}

func (s *Service) CreateTemplate(ctx context.Context, req domain.CreateTemplateRequest) (domain.Template, error) {
	templateID := strings.TrimSpace(req.TemplateID)
	name := strings.TrimSpace(req.Name)
	if templateID == "" || name == "" {
		return domain.Template{}, domain.ErrInvalidRequest
	}

	margins := domain.DefaultMargins()
	if req.Margins != nil {
		margins = *req.Margins
	}
	sectionOrder := req.SectionOrder
	if len(sectionOrder) == 0 {
		sectionOrder = domain.DefaultSectionOrder()
	}
	atsOptimized := true
	if req.ATSOptimized != nil {
		atsOptimized = *req.ATSOptimized
	}

	now := time.Now().UTC()
	template := domain.Template{
		ID:              s.genID.Generate(),
		TemplateID:      templateID,
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		Layout:          defaultString(req.Layout, "1-column"),
		PageSize:        defaultString(req.PageSize, "A4"),
		Margins:         datatypes.NewJSONType(margins),
		PrimaryColor:    defaultString(req.PrimaryColor, "#2c3e50"),
		SecondaryColor:  defaultString(req.SecondaryColor, "#7f8c8d"),
		HeaderAlignment: defaultString(req.HeaderAlignment, "left"),
		ATSOptimized:    atsOptimized,
		SectionOrder:    datatypes.NewJSONSlice(sectionOrder),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.InsertTemplate(ctx, s.db, &template); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Template{}, domain.ErrTemplateTaken
		}
		return domain.Template{}, err
	}

	s.log.Info("resume template created", zap.String("template_id", template.TemplateID))
	return template, nil
}

func (s *Service) ListTemplates(ctx context.Context, skip, limit int) ([]domain.Template, error) {
	skip, limit = clampPage(skip, limit)
	return s.repo.ListTemplates(ctx, s.db, skip, limit)
}

func (s *Service) GetTemplate(ctx context.Context, templateID string) (domain.Template, error) {
	trimmed := strings.TrimSpace(templateID)
	if trimmed == "" {
		return domain.Template{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindTemplate(ctx, s.db, trimmed)
	if err != nil {
		return domain.Template{}, err
	}
	if item == nil {
		return domain.Template{}, domain.ErrTemplateMissing
	}
	return *item, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, req domain.UpdateTemplateRequest) (domain.Template, error) {
	item, err := s.GetTemplate(ctx, req.TemplateID)
	if err != nil {
		return domain.Template{}, err
	}

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			item.Name = name
		}
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.PrimaryColor != nil {
		item.PrimaryColor = strings.TrimSpace(*req.PrimaryColor)
	}
	if req.SecondaryColor != nil {
		item.SecondaryColor = strings.TrimSpace(*req.SecondaryColor)
	}
	if len(req.SectionOrder) > 0 {
		item.SectionOrder = datatypes.NewJSONSlice(req.SectionOrder)
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateTemplate(ctx, s.db, &item); err != nil {
		return domain.Template{}, err
	}
	return item, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, templateID string) error {
	trimmed := strings.TrimSpace(templateID)
	if trimmed == "" {
		return domain.ErrInvalidID
	}

	rows, err := s.repo.DeleteTemplate(ctx, s.db, trimmed)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTemplateMissing
	}
	return nil
}

func (s *Service) CreateSchema(ctx context.Context, req domain.CreateSchemaRequest) (domain.Schema, error) {
	schemaID := strings.TrimSpace(req.SchemaID)
	name := strings.TrimSpace(req.Name)
	if schemaID == "" || name == "" {
		return domain.Schema{}, domain.ErrInvalidRequest
	}

	now := time.Now().UTC()
	schema := domain.Schema{
		ID:        s.genID.Generate(),
		SchemaID:  schemaID,
		Name:      name,
		Fields:    datatypes.JSONMap(req.Fields),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertSchema(ctx, s.db, &schema); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Schema{}, domain.ErrSchemaTaken
		}
		return domain.Schema{}, err
	}

	s.log.Info("resume schema created", zap.String("schema_id", schema.SchemaID))
	return schema, nil
}

func (s *Service) ListSchemas(ctx context.Context, skip, limit int) ([]domain.Schema, error) {
	skip, limit = clampPage(skip, limit)
	return s.repo.ListSchemas(ctx, s.db, skip, limit)
}

func (s *Service) GetSchema(ctx context.Context, schemaID string) (domain.Schema, error) {
	trimmed := strings.TrimSpace(schemaID)
	if trimmed == "" {
		return domain.Schema{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindSchema(ctx, s.db, trimmed)
	if err != nil {
		return domain.Schema{}, err
	}
	if item == nil {
		return domain.Schema{}, domain.ErrSchemaMissing
	}
	return *item, nil
}

func (s *Service) DeleteSchema(ctx context.Context, schemaID string) error {
	trimmed := strings.TrimSpace(schemaID)
	if trimmed == "" {
		return domain.ErrInvalidID
	}

	rows, err := s.repo.DeleteSchema(ctx, s.db, trimmed)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrSchemaMissing
	}
	return nil
}

func (s *Service) CreateResume(ctx context.Context, req domain.CreateResumeRequest) (domain.Resume, error) {
	if req.UserID == 0 {
		return domain.Resume{}, domain.ErrInvalidRequest
	}
	if _, err := s.GetTemplate(ctx, req.TemplateID); err != nil {
		return domain.Resume{}, err
	}
	if _, err := s.GetSchema(ctx, req.SchemaID); err != nil {
		return domain.Resume{}, err
	}

	now := time.Now().UTC()
	resume := domain.Resume{
		ID:         s.genID.Generate(),
		UserID:     req.UserID,
		TemplateID: strings.TrimSpace(req.TemplateID),
		SchemaID:   strings.TrimSpace(req.SchemaID),
		Content:    datatypes.JSONMap(req.Content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.InsertResume(ctx, s.db, &resume); err != nil {
		return domain.Resume{}, err
	}

	s.log.Info("resume created",
		zap.String("resume_id", resume.ID.String()),
		zap.String("user_id", resume.UserID.String()),
	)
	return resume, nil
}

func (s *Service) ListResumes(ctx context.Context, userID snowflake.ID, skip, limit int) ([]domain.Resume, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidRequest
	}
	skip, limit = clampPage(skip, limit)
	return s.repo.ListResumes(ctx, s.db, userID, skip, limit)
}

func (s *Service) GetResume(ctx context.Context, userID snowflake.ID, id string) (domain.Resume, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 || userID == 0 {
		return domain.Resume{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindResume(ctx, s.db, userID, parsed)
	if err != nil {
		return domain.Resume{}, err
	}
	if item == nil {
		return domain.Resume{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) UpdateResume(ctx context.Context, req domain.UpdateResumeRequest) (domain.Resume, error) {
	item, err := s.GetResume(ctx, req.UserID, req.ID)
	if err != nil {
		return domain.Resume{}, err
	}

	item.Content = datatypes.JSONMap(req.Content)
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateResume(ctx, s.db, &item); err != nil {
		return domain.Resume{}, err
	}
	return item, nil
}

func (s *Service) DeleteResume(ctx context.Context, userID snowflake.ID, id string) error {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 || userID == 0 {
		return domain.ErrInvalidID
	}

	rows, err := s.repo.DeleteResume(ctx, s.db, userID, parsed)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Render charges the render cost before generating; a failed generation
// would be a bug worth paying attention to, but the charge is not refunded
// automatically since the PDF path is deterministic.
func (s *Service) Render(ctx context.Context, userID snowflake.ID, id string) (domain.RenderResult, error) {
	resume, err := s.GetResume(ctx, userID, id)
	if err != nil {
		return domain.RenderResult{}, err
	}
	template, err := s.GetTemplate(ctx, resume.TemplateID)
	if err != nil {
		return domain.RenderResult{}, err
	}

	balance, err := s.credits.Deduct(ctx, creditsdomain.DeductRequest{
		UserID:  userID,
		Credits: s.cfg.ResumeRenderCost,
		Reason:  "resume_render",
	})
	if err != nil {
		return domain.RenderResult{}, err
	}

	document, filename, err := s.renderer.Render(template, resume)
	if err != nil {
		return domain.RenderResult{}, err
	}

	s.log.Info("resume rendered",
		zap.String("resume_id", resume.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return domain.RenderResult{
		PDF:        document,
		Filename:   filename,
		NewBalance: balance.String(),
	}, nil
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return skip, limit
}
