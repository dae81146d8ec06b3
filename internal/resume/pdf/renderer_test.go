package pdf

import (
	"bytes"
	"testing"

	"github.com/craftedcv/craftedcv/internal/resume/domain"
	"gorm.io/datatypes"
)

func TestRenderProducesPDF(t *testing.T) {
	renderer := NewRenderer()

	template := domain.Template{
		TemplateID:   "modern",
		Name:         "Modern",
		SectionOrder: datatypes.NewJSONSlice([]string{"personal_info", "experience", "education", "skills"}),
	}
	resume := domain.Resume{
		TemplateID: "modern",
		SchemaID:   "standard",
		Content: datatypes.JSONMap{
			"personal_info": map[string]any{
				"full_name": "Ada Lovelace",
				"email":     "ada@example.com",
				"phone":     "+44 1234 567890",
			},
			"experience": []any{
				map[string]any{
					"title":       "Analyst",
					"company":     "Analytical Engines Ltd",
					"start_date":  "1842",
					"end_date":    "1843",
					"description": "Wrote the first published algorithm.",
				},
			},
			"education": []any{
				map[string]any{
					"degree":      "Mathematics",
					"institution": "Private tutelage",
					"year":        "1841",
				},
			},
			"skills": []any{"Mathematics", "Translation", "Annotation"},
		},
	}

	doc, filename, err := renderer.Render(template, resume)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(doc) == 0 {
		t.Fatalf("expected non-empty document")
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Fatalf("expected PDF magic bytes, got %q", doc[:4])
	}
	if filename != "Ada_Lovelace_Resume.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestRenderSkipsMissingSections(t *testing.T) {
	renderer := NewRenderer()

	template := domain.Template{
		TemplateID:   "sparse",
		SectionOrder: datatypes.NewJSONSlice([]string{"personal_info", "projects", "skills"}),
	}
	resume := domain.Resume{
		Content: datatypes.JSONMap{
			"personal_info": map[string]any{"full_name": "Grace Hopper"},
		},
	}

	doc, _, err := renderer.Render(template, resume)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(doc) == 0 {
		t.Fatalf("expected non-empty document")
	}
}
