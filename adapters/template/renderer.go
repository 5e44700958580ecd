package doctemplate

import (
	"context"
	"io"
	"time"

	"github.com/goliatone/go-docgen/docgen"
)

// GenericTemplate is the layout used for templates without their own.
const GenericTemplate = "generic"

// TemplateExecutor executes a named template with data.
type TemplateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// TemplateLookup is implemented by executors that can report which layouts
// they hold.
type TemplateLookup interface {
	HasTemplate(name string) bool
}

// TemplateMeta describes the document being laid out.
type TemplateMeta struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Generated   string    `json:"generated"`
}

// TemplateData is the context passed to layouts. Sections holds the catalog
// product groups derived from Data.
type TemplateData struct {
	Meta     TemplateMeta            `json:"meta"`
	Data     docgen.Data             `json:"data"`
	Sections []docgen.CatalogSection `json:"sections,omitempty"`
	Issuer   []string                `json:"issuer,omitempty"`
}

// Renderer renders templates as HTML documents. Issuer is printed on
// invoices; an issuer without a name falls back to docgen.DefaultIssuer.
type Renderer struct {
	Enabled   bool
	Templates TemplateExecutor
	Issuer    docgen.Issuer
	Now       func() time.Time
}

// RenderHTML writes the HTML layout for spec filled with data.
func (r Renderer) RenderHTML(ctx context.Context, w io.Writer, spec docgen.TemplateSpec, data docgen.Data) error {
	if !r.Enabled {
		return docgen.NewError(docgen.KindNotImpl, "template renderer is disabled", nil)
	}
	if r.Templates == nil {
		return docgen.NewError(docgen.KindValidation, "template renderer requires templates", nil)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	payload := TemplateData{
		Meta: TemplateMeta{
			ID:          spec.ID,
			Name:        spec.Name,
			Description: spec.Description,
			GeneratedAt: now,
			Generated:   now.Format(docgen.DateLayout + " 15:04"),
		},
		Data: data,
	}
	if payload.Meta.Name == "" {
		payload.Meta.Name = spec.ID
	}
	if payload.Data == nil {
		payload.Data = docgen.Data{}
	}
	payload.Sections = docgen.CatalogSections(payload.Data)
	issuer := r.Issuer
	if issuer.Name == "" {
		issuer = docgen.DefaultIssuer
	}
	payload.Issuer = issuer.Lines()

	return r.Templates.ExecuteTemplate(w, r.layoutFor(spec.ID), payload)
}

func (r Renderer) layoutFor(id string) string {
	lookup, ok := r.Templates.(TemplateLookup)
	if !ok || lookup.HasTemplate(id) {
		return id
	}
	return GenericTemplate
}
