package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateTemplateRequest struct {
	TemplateID      string   `json:"template_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Layout          string   `json:"layout,omitempty"`
	PageSize        string   `json:"page_size,omitempty"`
	Margins         *Margins `json:"margins,omitempty"`
	PrimaryColor    string   `json:"primary_color,omitempty"`
	SecondaryColor  string   `json:"secondary_color,omitempty"`
	HeaderAlignment string   `json:"header_alignment,omitempty"`
	ATSOptimized    *bool    `json:"ats_optimized,omitempty"`
	SectionOrder    []string `json:"section_order,omitempty"`
}

type UpdateTemplateRequest struct {
	TemplateID     string   `json:"-"`
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	PrimaryColor   *string  `json:"primary_color,omitempty"`
	SecondaryColor *string  `json:"secondary_color,omitempty"`
	SectionOrder   []string `json:"section_order,omitempty"`
}

type CreateSchemaRequest struct {
	SchemaID string         `json:"schema_id"`
	Name     string         `json:"name"`
	Fields   map[string]any `json:"fields,omitempty"`
}

type CreateResumeRequest struct {
	UserID     snowflake.ID
	TemplateID string         `json:"template_id"`
	SchemaID   string         `json:"schema_id"`
	Content    map[string]any `json:"content"`
}

type UpdateResumeRequest struct {
	UserID  snowflake.ID
	ID      string
	Content map[string]any `json:"content"`
}

// RenderResult carries the generated document plus the balance left after
// the render charge.
type RenderResult struct {
	PDF        []byte
	Filename   string
	NewBalance string
}

type Service interface {
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (Template, error)
	ListTemplates(ctx context.Context, skip, limit int) ([]Template, error)
	GetTemplate(ctx context.Context, templateID string) (Template, error)
	UpdateTemplate(ctx context.Context, req UpdateTemplateRequest) (Template, error)
	DeleteTemplate(ctx context.Context, templateID string) error

	CreateSchema(ctx context.Context, req CreateSchemaRequest) (Schema, error)
	ListSchemas(ctx context.Context, skip, limit int) ([]Schema, error)
	GetSchema(ctx context.Context, schemaID string) (Schema, error)
	DeleteSchema(ctx context.Context, schemaID string) error

	CreateResume(ctx context.Context, req CreateResumeRequest) (Resume, error)
	ListResumes(ctx context.Context, userID snowflake.ID, skip, limit int) ([]Resume, error)
	GetResume(ctx context.Context, userID snowflake.ID, id string) (Resume, error)
	UpdateResume(ctx context.Context, req UpdateResumeRequest) (Resume, error)
	DeleteResume(ctx context.Context, userID snowflake.ID, id string) error
	// Render produces the PDF and charges the render cost against the
	// user's credit balance.
	Render(ctx context.Context, userID snowflake.ID, id string) (RenderResult, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidRequest  = errors.New("invalid_resume_request")
	ErrTemplateTaken   = errors.New("template_id_taken")
	ErrSchemaTaken     = errors.New("schema_id_taken")
	ErrNotFound        = errors.New("resume_not_found")
	ErrTemplateMissing = errors.New("template_not_found")
	ErrSchemaMissing   = errors.New("schema_not_found")
)
