package doctemplate

import (
	"embed"
	"fmt"
	"html"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/goliatone/go-docgen/docgen"
)

//go:embed layouts/*.html
var layoutFS embed.FS

// Pongo2Executor executes compiled pongo2 layouts by name.
type Pongo2Executor struct {
	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

var _ TemplateExecutor = (*Pongo2Executor)(nil)

// NewPongo2Executor compiles the embedded layouts.
func NewPongo2Executor() (*Pongo2Executor, error) {
	if err := RegisterFilters(); err != nil {
		return nil, err
	}
	exec := &Pongo2Executor{templates: make(map[string]*pongo2.Template)}

	entries, err := fs.ReadDir(layoutFS, "layouts")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".html" {
			continue
		}
		raw, err := layoutFS.ReadFile(path.Join("layouts", entry.Name()))
		if err != nil {
			return nil, err
		}
		if err := exec.Add(strings.TrimSuffix(entry.Name(), ".html"), string(raw)); err != nil {
			return nil, err
		}
	}
	return exec, nil
}

// Add compiles source and registers it under name, replacing any layout
// with the same name.
func (e *Pongo2Executor) Add(name, source string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return docgen.NewError(docgen.KindValidation, "layout name is required", nil)
	}
	tpl, err := pongo2.FromString(source)
	if err != nil {
		return docgen.NewError(docgen.KindValidation, fmt.Sprintf("compile layout %q", name), err)
	}
	e.mu.Lock()
	e.templates[name] = tpl
	e.mu.Unlock()
	return nil
}

// HasTemplate reports whether a layout named name is compiled.
func (e *Pongo2Executor) HasTemplate(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.templates[name]
	return ok
}

// ExecuteTemplate renders the named layout into w.
func (e *Pongo2Executor) ExecuteTemplate(w io.Writer, name string, data any) error {
	e.mu.RLock()
	tpl, ok := e.templates[name]
	e.mu.RUnlock()
	if !ok {
		return docgen.NewError(docgen.KindNotFound, fmt.Sprintf("layout %q not found", name), nil)
	}
	if err := tpl.ExecuteWriter(toContext(data), w); err != nil {
		return docgen.NewError(docgen.KindInternal, fmt.Sprintf("execute layout %q", name), err)
	}
	return nil
}

func toContext(data any) pongo2.Context {
	switch v := data.(type) {
	case TemplateData:
		return pongo2.Context{
			"meta": map[string]any{
				"id":           v.Meta.ID,
				"name":         v.Meta.Name,
				"description":  v.Meta.Description,
				"generated_at": v.Meta.GeneratedAt,
				"generated":    v.Meta.Generated,
			},
			"data":    map[string]any(v.Data),
			"secoes":  sectionContext(v.Sections),
			"emissor": v.Issuer,
		}
	case map[string]any:
		return pongo2.Context{"data": v}
	default:
		return pongo2.Context{"data": v}
	}
}

func sectionContext(sections []docgen.CatalogSection) []map[string]any {
	out := make([]map[string]any, 0, len(sections))
	for _, section := range sections {
		out = append(out, map[string]any{"nome": section.Name, "produtos": section.Products})
	}
	return out
}

var registerFilters sync.Once

// RegisterFilters registers the document filters with pongo2:
//
//	brl            formats a number as R$ 1.234,56
//	wrap:N         wraps text at N characters, one <br> per line
//	truncate_text:N  shortens text to N characters ending with "..."
func RegisterFilters() error {
	var err error
	registerFilters.Do(func() {
		filters := map[string]pongo2.FilterFunction{
			"brl":           filterBRL,
			"wrap":          filterWrap,
			"truncate_text": filterTruncate,
		}
		for name, fn := range filters {
			if pongo2.FilterExists(name) {
				continue
			}
			if regErr := pongo2.RegisterFilter(name, fn); regErr != nil {
				err = regErr
				return
			}
		}
	})
	return err
}

func filterBRL(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if formatted, ok := docgen.FormatAmount(in.Interface()); ok {
		return pongo2.AsValue(formatted), nil
	}
	return pongo2.AsValue(in.String()), nil
}

func filterWrap(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	width := docgen.DefaultWrapWidth
	if param != nil && param.Integer() > 0 {
		width = param.Integer()
	}
	lines := docgen.WrapText(in.String(), width)
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return pongo2.AsSafeValue(strings.Join(lines, "<br>")), nil
}

func filterTruncate(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	limit := 0
	if param != nil {
		limit = param.Integer()
	}
	return pongo2.AsValue(docgen.Truncate(in.String(), limit)), nil
}
