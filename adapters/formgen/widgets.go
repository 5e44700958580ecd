package docformgen

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-docgen/docgen"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field defines a form field for formgen-style UIs.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
	Value    any      `json:"value,omitempty"`
	Hint     string   `json:"hint,omitempty"`
}

// Form defines a generate request form for one template.
type Form struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Action      string  `json:"action"`
	Method      string  `json:"method"`
	SubmitLabel string  `json:"submit_label"`
	Fields      []Field `json:"fields"`
}

// Theme captures optional theme tokens for UI styling.
type Theme struct {
	Name   string            `json:"name"`
	Tokens map[string]string `json:"tokens"`
}

// UI bundles a template form with its theme.
type UI struct {
	Form  Form  `json:"form"`
	Theme Theme `json:"theme"`
}

// TemplateUI returns the formgen contract for generating spec.
func TemplateUI(basePath string, spec docgen.TemplateSpec) UI {
	return UI{
		Form:  GenerateForm(basePath, spec),
		Theme: DefaultTheme(),
	}
}

// GenerateForm builds a form whose submission is a generate request for
// spec. Data fields are named data.<field>; list fields take JSON arrays.
func GenerateForm(basePath string, spec docgen.TemplateSpec) Form {
	basePath = strings.TrimRight(basePath, "/")

	fields := []Field{
		{Name: "template_name", Label: "Template", Type: "hidden", Required: true, Value: spec.ID},
		{Name: "output_format", Label: "Format", Type: "select", Options: formatOptions(), Value: string(docgen.FormatPDF)},
		{Name: "upload_to_minio", Label: "Upload to object storage", Type: "checkbox"},
	}

	lists := make(map[string]docgen.ListField, len(spec.ListFields))
	for _, list := range spec.ListFields {
		lists[list.Field] = list
	}
	for _, name := range spec.RequiredFields {
		fields = append(fields, dataField(spec, name, true, lists))
	}
	for _, name := range spec.OptionalFields {
		fields = append(fields, dataField(spec, name, false, lists))
	}

	title := spec.Name
	if title == "" {
		title = spec.ID
	}
	return Form{
		ID:          "generate-" + spec.ID,
		Title:       title,
		Description: spec.Description,
		Action:      basePath + "/generate",
		Method:      "POST",
		SubmitLabel: "Gerar documento",
		Fields:      fields,
	}
}

func dataField(spec docgen.TemplateSpec, name string, required bool, lists map[string]docgen.ListField) Field {
	field := Field{
		Name:     "data." + name,
		Label:    label(name),
		Type:     "text",
		Required: required,
	}
	if value, ok := spec.Defaults[name]; ok {
		field.Value = value
	}
	if list, ok := lists[name]; ok {
		field.Type = "json"
		if len(list.Required) > 0 {
			field.Hint = fmt.Sprintf("JSON array; each entry needs %s", strings.Join(list.Required, ", "))
		} else {
			field.Hint = "JSON array"
		}
		return field
	}
	if example, ok := spec.ExampleData[name]; ok {
		switch example.(type) {
		case []any, map[string]any:
			field.Type = "json"
		case int, int64, uint64, float64:
			field.Type = "number"
		}
	}
	return field
}

func formatOptions() []string {
	return []string{string(docgen.FormatPDF), string(docgen.FormatPNG), string(docgen.FormatJPEG)}
}

// label turns snake_case field names into a readable label.
func label(name string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.Join(strings.Fields(strings.ReplaceAll(name, "_", " ")), " "))
}

// DefaultTheme provides a small theme token set for document widgets.
func DefaultTheme() Theme {
	return Theme{
		Name: "go-docgen",
		Tokens: map[string]string{
			"primary": "#2c3e50",
			"surface": "#ffffff",
			"text":    "#1f2937",
			"muted":   "#6b7280",
			"accent":  "#0b6e4f",
			"danger":  "#b91c1c",
			"border":  "#e5e7eb",
		},
	}
}
