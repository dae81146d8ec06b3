package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertTemplate(ctx context.Context, db *gorm.DB, template *Template) error
	FindTemplate(ctx context.Context, db *gorm.DB, templateID string) (*Template, error)
	ListTemplates(ctx context.Context, db *gorm.DB, skip, limit int) ([]Template, error)
	UpdateTemplate(ctx context.Context, db *gorm.DB, template *Template) error
	DeleteTemplate(ctx context.Context, db *gorm.DB, templateID string) (int64, error)

	InsertSchema(ctx context.Context, db *gorm.DB, schema *Schema) error
	FindSchema(ctx context.Context, db *gorm.DB, schemaID string) (*Schema, error)
	ListSchemas(ctx context.Context, db *gorm.DB, skip, limit int) ([]Schema, error)
	UpdateSchema(ctx context.Context, db *gorm.DB, schema *Schema) error
	DeleteSchema(ctx context.Context, db *gorm.DB, schemaID string) (int64, error)

	InsertResume(ctx context.Context, db *gorm.DB, resume *Resume) error
	FindResume(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*Resume, error)
	ListResumes(ctx context.Context, db *gorm.DB, userID snowflake.ID, skip, limit int) ([]Resume, error)
	UpdateResume(ctx context.Context, db *gorm.DB, resume *Resume) error
	DeleteResume(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (int64, error)
}
