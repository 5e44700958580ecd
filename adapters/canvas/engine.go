package doccanvas

import (
	"context"
	"fmt"
	"image"
	"sort"
	"time"

	"github.com/goliatone/go-docgen/docgen"
)

// ImageFetcher loads remote images such as product thumbnails.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// Config configures an Engine.
type Config struct {
	Width   int
	Height  int
	Fonts   FontConfig
	Fetcher ImageFetcher
	Issuer  docgen.Issuer
	Logger  docgen.Logger
	Now     func() time.Time
}

type routine func(p *page, data docgen.Data)

// Engine draws templates that have a canvas routine.
type Engine struct {
	width    int
	height   int
	fonts    fontSource
	fetcher  ImageFetcher
	issuer   docgen.Issuer
	logger   docgen.Logger
	now      func() time.Time
	routines map[string]routine
}

var _ docgen.CanvasBackend = (*Engine)(nil)

// New creates an Engine with routines for the bundled templates.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = docgen.NopLogger{}
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	issuer := cfg.Issuer
	if issuer.Name == "" {
		issuer = docgen.DefaultIssuer
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	e := &Engine{
		width:   width,
		height:  height,
		fonts:   loadFontSource(cfg.Fonts, logger),
		fetcher: cfg.Fetcher,
		issuer:  issuer,
		logger:  logger,
		now:     now,
	}
	e.routines = map[string]routine{
		"fatura":            e.drawFatura,
		"certificado":       e.drawCertificado,
		"catalogo_produtos": e.drawCatalogo,
		"fique_de_olho":     e.drawFiqueDeOlho,
	}
	return e
}

// Supports reports whether template has a canvas routine.
func (e *Engine) Supports(template string) bool {
	_, ok := e.routines[template]
	return ok
}

// Templates lists the templates with a canvas routine.
func (e *Engine) Templates() []string {
	names := make([]string, 0, len(e.routines))
	for name := range e.routines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Draw renders template onto a fresh canvas.
func (e *Engine) Draw(ctx context.Context, template string, data docgen.Data) (image.Image, error) {
	drawing, err := e.DrawDocument(ctx, template, data)
	if err != nil {
		return nil, err
	}
	return drawing.Image, nil
}

// DrawDocument renders template and returns the raster with the final cursor
// and layout statistics. A routine that panics is reported as an error.
func (e *Engine) DrawDocument(ctx context.Context, template string, data docgen.Data) (drawing Drawing, err error) {
	draw, ok := e.routines[template]
	if !ok {
		return Drawing{}, docgen.NewError(docgen.KindNotFound, fmt.Sprintf("no canvas routine for template %q", template), nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	p := e.newPage(ctx)
	defer p.fonts.close()
	defer func() {
		if r := recover(); r != nil {
			err = docgen.NewError(docgen.KindInternal, fmt.Sprintf("canvas routine %q panicked: %v", template, r), nil)
			drawing = Drawing{}
		}
	}()

	if data == nil {
		data = docgen.Data{}
	}
	draw(p, data)
	return Drawing{Image: p.canvas.Image(), Cursor: p.cursor, Stats: p.stats, Texts: p.canvas.Texts()}, nil
}

func (e *Engine) newPage(ctx context.Context) *page {
	return &page{
		ctx:     ctx,
		canvas:  NewCanvas(e.width, e.height, colorWhite),
		fonts:   e.fonts.faces(),
		cursor:  Cursor{Y: Margin},
		fetcher: e.fetcher,
		logger:  e.logger,
	}
}

func (e *Engine) year(data docgen.Data) string {
	if year := docgen.Lookup(data, "ano_atual"); year != "" {
		return year
	}
	return fmt.Sprintf("%d", e.now().Year())
}
