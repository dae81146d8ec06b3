package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

func DefaultMargins() Margins {
	return Margins{Top: 0.5, Bottom: 0.5, Left: 0.75, Right: 0.75}
}

// Template is an admin-curated visual layout. TemplateID is the public
// handle used by resumes; the snowflake id stays internal.
type Template struct {
	ID              snowflake.ID                  `gorm:"primaryKey" json:"id"`
	TemplateID      string                        `gorm:"uniqueIndex;not null" json:"template_id"`
	Name            string                        `gorm:"not null" json:"name"`
	Description     string                        `gorm:"not null;default:''" json:"description,omitempty"`
	Layout          string                        `gorm:"not null;default:'1-column'" json:"layout"`
	PageSize        string                        `gorm:"not null;default:'A4'" json:"page_size"`
	Margins         datatypes.JSONType[Margins]   `gorm:"type:jsonb" json:"margins"`
	PrimaryColor    string                        `gorm:"not null;default:'#2c3e50'" json:"primary_color"`
	SecondaryColor  string                        `gorm:"not null;default:'#7f8c8d'" json:"secondary_color"`
	HeaderAlignment string                        `gorm:"not null;default:'left'" json:"header_alignment"`
	ATSOptimized    bool                          `gorm:"column:ats_optimized;not null;default:true" json:"ats_optimized"`
	SectionOrder    datatypes.JSONSlice[string]   `gorm:"type:jsonb" json:"section_order"`
	CreatedAt       time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Template) TableName() string { return "resume_templates" }

// Schema describes the content fields a resume may carry.
type Schema struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	SchemaID  string            `gorm:"uniqueIndex;not null" json:"schema_id"`
	Name      string            `gorm:"not null" json:"name"`
	Fields    datatypes.JSONMap `gorm:"type:jsonb" json:"fields"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Schema) TableName() string { return "resume_schemas" }

type Resume struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID     snowflake.ID      `gorm:"not null;index" json:"user_id"`
	TemplateID string            `gorm:"not null" json:"template_id"`
	SchemaID   string            `gorm:"not null" json:"schema_id"`
	Content    datatypes.JSONMap `gorm:"type:jsonb" json:"content"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Resume) TableName() string { return "resumes" }

func DefaultSectionOrder() []string {
	return []string{"personal_info", "experience", "education", "skills"}
}
