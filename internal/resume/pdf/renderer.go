package pdf

import (
	"fmt"
	"strings"

	"github.com/craftedcv/craftedcv/internal/resume/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Renderer lays a resume's content onto a template's section order.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(template domain.Template, resume domain.Resume) ([]byte, string, error) {
	content := map[string]any(resume.Content)
	personal, _ := content["personal_info"].(map[string]any)
	fullName := stringAt(personal, "full_name", "name")
	if fullName == "" {
		fullName = "Resume"
	}

	cfg := config.NewBuilder().Build()
	m := maroto.New(cfg)

	headerAlign := align.Left
	if template.HeaderAlignment == "center" {
		headerAlign = align.Center
	}

	m.AddRow(14,
		text.NewCol(12, fullName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: headerAlign,
		}),
	)

	contact := joinNonEmpty(" | ",
		stringAt(personal, "email"),
		stringAt(personal, "phone"),
		stringAt(personal, "location"),
	)
	if contact != "" {
		m.AddRow(8,
			text.NewCol(12, contact, props.Text{Size: 9, Align: headerAlign}),
		)
	}

	order := []string(template.SectionOrder)
	if len(order) == 0 {
		order = domain.DefaultSectionOrder()
	}

	for _, section := range order {
		if section == "personal_info" {
			continue
		}
		value, ok := content[section]
		if !ok {
			continue
		}

		m.AddRow(10,
			text.NewCol(12, sectionTitle(section), props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Top:   3,
			}),
		)

		switch section {
		case "experience":
			r.addExperience(m, value)
		case "education":
			r.addEducation(m, value)
		case "skills":
			r.addSkills(m, value)
		default:
			r.addGeneric(m, value)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, "", err
	}

	filename := strings.ReplaceAll(fullName, " ", "_") + "_Resume.pdf"
	return doc.GetBytes(), filename, nil
}

func (r *Renderer) addExperience(m core.Maroto, value any) {
	for _, item := range asList(value) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title := joinNonEmpty(" — ",
			stringAt(entry, "title", "position", "role"),
			stringAt(entry, "company", "organization"),
		)
		period := joinNonEmpty(" – ",
			stringAt(entry, "start_date", "from"),
			stringAt(entry, "end_date", "to"),
		)

		m.AddRow(8,
			text.NewCol(8, title, props.Text{Size: 10, Style: fontstyle.Bold}),
			text.NewCol(4, period, props.Text{Size: 9, Align: align.Right}),
		)
		if description := stringAt(entry, "description", "summary"); description != "" {
			m.AddRow(10,
				text.NewCol(12, description, props.Text{Size: 9}),
			)
		}
	}
}

func (r *Renderer) addEducation(m core.Maroto, value any) {
	for _, item := range asList(value) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		line := joinNonEmpty(", ",
			stringAt(entry, "degree", "qualification"),
			stringAt(entry, "institution", "school"),
		)
		year := stringAt(entry, "year", "end_date")

		m.AddRow(8,
			text.NewCol(9, line, props.Text{Size: 10}),
			text.NewCol(3, year, props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func (r *Renderer) addSkills(m core.Maroto, value any) {
	var skills []string
	for _, item := range asList(value) {
		if skill := fmt.Sprintf("%v", item); skill != "" {
			skills = append(skills, skill)
		}
	}
	if len(skills) == 0 {
		return
	}
	m.AddRow(8,
		text.NewCol(12, strings.Join(skills, " • "), props.Text{Size: 9}),
	)
}

func (r *Renderer) addGeneric(m core.Maroto, value any) {
	switch typed := value.(type) {
	case string:
		m.AddRow(10, text.NewCol(12, typed, props.Text{Size: 9}))
	case map[string]any:
		for key, entry := range typed {
			m.AddRow(8,
				col.New(3).Add(text.New(sectionTitle(key), props.Text{Size: 9, Style: fontstyle.Bold})),
				col.New(9).Add(text.New(fmt.Sprintf("%v", entry), props.Text{Size: 9})),
			)
		}
	default:
		for _, item := range asList(value) {
			m.AddRow(8, text.NewCol(12, fmt.Sprintf("%v", item), props.Text{Size: 9}))
		}
	}
}

func asList(value any) []any {
	list, _ := value.([]any)
	return list
}

func stringAt(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if raw, ok := entry[key]; ok {
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, sep)
}

func sectionTitle(section string) string {
	words := strings.FieldsFunc(section, func(r rune) bool { return r == '_' || r == '-' })
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
