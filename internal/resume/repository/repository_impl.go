package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftedcv/craftedcv/internal/resume/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const templateColumns = `id, template_id, name, description, layout, page_size, margins,
	primary_color, secondary_color, header_alignment, ats_optimized, section_order, created_at, updated_at`

func (r *repo) InsertTemplate(ctx context.Context, db *gorm.DB, template *domain.Template) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resume_templates (id, template_id, name, description, layout, page_size, margins, primary_color, secondary_color, header_alignment, ats_optimized, section_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		template.ID,
		template.TemplateID,
		template.Name,
		template.Description,
		template.Layout,
		template.PageSize,
		template.Margins,
		template.PrimaryColor,
		template.SecondaryColor,
		template.HeaderAlignment,
		template.ATSOptimized,
		template.SectionOrder,
		template.CreatedAt,
		template.UpdatedAt,
	).Error
}

func (r *repo) FindTemplate(ctx context.Context, db *gorm.DB, templateID string) (*domain.Template, error) {
	var template domain.Template
	err := db.WithContext(ctx).Raw(
		`SELECT `+templateColumns+` FROM resume_templates WHERE template_id = ?`,
		templateID,
	).Scan(&template).Error
	if err != nil {
		return nil, err
	}
	if template.ID == 0 {
		return nil, nil
	}
	return &template, nil
}

func (r *repo) ListTemplates(ctx context.Context, db *gorm.DB, skip, limit int) ([]domain.Template, error) {
	var templates []domain.Template
	err := db.WithContext(ctx).Raw(
		`SELECT `+templateColumns+` FROM resume_templates
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		limit,
		skip,
	).Scan(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *repo) UpdateTemplate(ctx context.Context, db *gorm.DB, template *domain.Template) error {
	return db.WithContext(ctx).Exec(
		`UPDATE resume_templates
		 SET name = ?, description = ?, primary_color = ?, secondary_color = ?, section_order = ?, updated_at = ?
		 WHERE template_id = ?`,
		template.Name,
		template.Description,
		template.PrimaryColor,
		template.SecondaryColor,
		template.SectionOrder,
		template.UpdatedAt,
		template.TemplateID,
	).Error
}

func (r *repo) DeleteTemplate(ctx context.Context, db *gorm.DB, templateID string) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM resume_templates WHERE template_id = ?`, templateID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) InsertSchema(ctx context.Context, db *gorm.DB, schema *domain.Schema) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resume_schemas (id, schema_id, name, fields, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		schema.ID,
		schema.SchemaID,
		schema.Name,
		schema.Fields,
		schema.CreatedAt,
		schema.UpdatedAt,
	).Error
}

func (r *repo) FindSchema(ctx context.Context, db *gorm.DB, schemaID string) (*domain.Schema, error) {
	var schema domain.Schema
	err := db.WithContext(ctx).Raw(
		`SELECT id, schema_id, name, fields, created_at, updated_at
		 FROM resume_schemas WHERE schema_id = ?`,
		schemaID,
	).Scan(&schema).Error
	if err != nil {
		return nil, err
	}
	if schema.ID == 0 {
		return nil, nil
	}
	return &schema, nil
}

func (r *repo) ListSchemas(ctx context.Context, db *gorm.DB, skip, limit int) ([]domain.Schema, error) {
	var schemas []domain.Schema
	err := db.WithContext(ctx).Raw(
		`SELECT id, schema_id, name, fields, created_at, updated_at
		 FROM resume_schemas
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		limit,
		skip,
	).Scan(&schemas).Error
	if err != nil {
		return nil, err
	}
	return schemas, nil
}

func (r *repo) UpdateSchema(ctx context.Context, db *gorm.DB, schema *domain.Schema) error {
	return db.WithContext(ctx).Exec(
		`UPDATE resume_schemas SET name = ?, fields = ?, updated_at = ? WHERE schema_id = ?`,
		schema.Name,
		schema.Fields,
		schema.UpdatedAt,
		schema.SchemaID,
	).Error
}

func (r *repo) DeleteSchema(ctx context.Context, db *gorm.DB, schemaID string) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM resume_schemas WHERE schema_id = ?`, schemaID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) InsertResume(ctx context.Context, db *gorm.DB, resume *domain.Resume) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resumes (id, user_id, template_id, schema_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		resume.ID,
		resume.UserID,
		resume.TemplateID,
		resume.SchemaID,
		resume.Content,
		resume.CreatedAt,
		resume.UpdatedAt,
	).Error
}

func (r *repo) FindResume(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.Resume, error) {
	var resume domain.Resume
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, template_id, schema_id, content, created_at, updated_at
		 FROM resumes WHERE id = ? AND user_id = ?`,
		id,
		userID,
	).Scan(&resume).Error
	if err != nil {
		return nil, err
	}
	if resume.ID == 0 {
		return nil, nil
	}
	return &resume, nil
}

func (r *repo) ListResumes(ctx context.Context, db *gorm.DB, userID snowflake.ID, skip, limit int) ([]domain.Resume, error) {
	var resumes []domain.Resume
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, template_id, schema_id, content, created_at, updated_at
		 FROM resumes WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID,
		limit,
		skip,
	).Scan(&resumes).Error
	if err != nil {
		return nil, err
	}
	return resumes, nil
}

func (r *repo) UpdateResume(ctx context.Context, db *gorm.DB, resume *domain.Resume) error {
	return db.WithContext(ctx).Exec(
		`UPDATE resumes SET content = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		resume.Content,
		resume.UpdatedAt,
		resume.ID,
		resume.UserID,
	).Error
}

func (r *repo) DeleteResume(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM resumes WHERE id = ? AND user_id = ?`, id, userID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
