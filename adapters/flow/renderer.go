package docflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-docgen/docgen"
)

// Builder appends the content for one template to doc.
type Builder func(doc *Document, data docgen.Data)

// Renderer renders templates as flow documents.
type Renderer struct {
	Issuer   docgen.Issuer
	Builders map[string]Builder
	Now      func() time.Time
	// Uncompressed writes plain content streams so the text stays readable.
	Uncompressed bool
}

// New returns a Renderer with the builders for the bundled templates.
func New(issuer docgen.Issuer) *Renderer {
	if issuer.Name == "" {
		issuer = docgen.DefaultIssuer
	}
	r := &Renderer{Issuer: issuer}
	r.Builders = map[string]Builder{
		"fatura":            r.buildFatura,
		"certificado":       buildCertificado,
		"catalogo_produtos": buildCatalogo,
		"fique_de_olho":     buildFiqueDeOlho,
	}
	return r
}

// Render builds the document for spec and returns the PDF bytes.
func (r *Renderer) Render(ctx context.Context, spec docgen.TemplateSpec, data docgen.Data) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	build, ok := r.Builders[spec.ID]
	if !ok {
		build = func(doc *Document, data docgen.Data) { buildGeneric(doc, spec, data) }
	}

	orientation := "P"
	if spec.Landscape() {
		orientation = "L"
	}
	doc := newDocument(orientation, r.footer(spec))
	if r.Uncompressed {
		doc.pdf.SetCompression(false)
	}
	build(doc, data)
	return doc.Bytes()
}

// Probe builds a one-line document.
func (r *Renderer) Probe(ctx context.Context) error {
	doc := newDocument("P", "")
	doc.Paragraph("Test")
	out, err := doc.Bytes()
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		return errors.New("gofpdf produced non-pdf output")
	}
	return nil
}

func (r *Renderer) footer(spec docgen.TemplateSpec) string {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	name := spec.Name
	if name == "" {
		name = spec.ID
	}
	return fmt.Sprintf("%s - gerado em %s", name, now.Format(docgen.DateLayout+" 15:04"))
}
