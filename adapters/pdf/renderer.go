package docpdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-docgen/docgen"
)

// DefaultMaxHTMLBytes guards in-memory HTML buffering before PDF conversion.
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

var pageRule = regexp.MustCompile(`(?i)@page\b`)

const probeHTML = `<!DOCTYPE html><html><head><meta charset="utf-8"></head><body><p>probe</p></body></html>`

// HTMLRenderer lays a template out as an HTML document.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, w io.Writer, spec docgen.TemplateSpec, data docgen.Data) error
}

// RenderRequest contains HTML input and print options for PDF engines.
type RenderRequest struct {
	HTML    []byte
	Options Options
}

// Engine renders HTML content into PDF bytes.
type Engine interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, req RenderRequest) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf engine func is nil")
	}
	return f(ctx, req)
}

// Renderer converts templates into PDF output via HTML.
type Renderer struct {
	Enabled      bool
	HTML         HTMLRenderer
	Engine       Engine
	Options      Options
	MaxHTMLBytes int64
}

// Render lays out the template as HTML and prints it to PDF.
func (r Renderer) Render(ctx context.Context, spec docgen.TemplateSpec, data docgen.Data) ([]byte, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	buffer := newLimitedBuffer(r.MaxHTMLBytes)
	if err := r.HTML.RenderHTML(ctx, buffer, spec, data); err != nil {
		return nil, err
	}
	return r.Engine.Render(ctx, RenderRequest{
		HTML:    buffer.Bytes(),
		Options: r.PageOptions(spec, buffer.Bytes()),
	})
}

// PageOptions returns the print options for one document. The template's
// orientation applies unless Options sets one, and a layout that declares
// an @page rule keeps its own page size.
func (r Renderer) PageOptions(spec docgen.TemplateSpec, html []byte) Options {
	opts := mergeOptions(DefaultOptions(), r.Options)
	if opts.Landscape == nil && spec.Landscape() {
		opts.Landscape = boolPtr(true)
	}
	if opts.PreferCSSPageSize == nil && pageRule.Match(html) {
		opts.PreferCSSPageSize = boolPtr(true)
	}
	return opts
}

// Probe prints a minimal document and checks the engine answers with a PDF.
func (r Renderer) Probe(ctx context.Context) error {
	if err := r.check(); err != nil {
		return err
	}
	pdf, err := r.Engine.Render(ctx, RenderRequest{
		HTML:    []byte(probeHTML),
		Options: mergeOptions(DefaultOptions(), r.Options),
	})
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return docgen.NewError(docgen.KindUpstream, "pdf engine returned non-pdf output", nil)
	}
	return nil
}

func (r Renderer) check() error {
	if !r.Enabled {
		return docgen.NewError(docgen.KindNotImpl, "html pdf renderer is disabled", nil)
	}
	if r.HTML == nil {
		return docgen.NewError(docgen.KindValidation, "html pdf renderer requires html renderer", nil)
	}
	if r.Engine == nil {
		return docgen.NewError(docgen.KindValidation, "html pdf renderer requires engine", nil)
	}
	return nil
}

// WKHTMLTOPDFEngine invokes wkhtmltopdf for HTML-to-PDF conversion.
type WKHTMLTOPDFEngine struct {
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration
}

// Render executes wkhtmltopdf using stdin/stdout for HTML/PDF.
func (e WKHTMLTOPDFEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	cmdPath := strings.TrimSpace(e.Command)
	if cmdPath == "" {
		cmdPath = "wkhtmltopdf"
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cmdCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := append([]string{"--quiet", "--encoding", "utf-8"}, wkhtmltopdfArgs(req.Options)...)
	args = append(args, e.Args...)
	args = append(args, "-", "-")
	cmd := exec.CommandContext(cmdCtx, cmdPath, args...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stdin = bytes.NewReader(req.HTML)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "wkhtmltopdf failed"
		}
		return nil, docgen.NewError(docgen.KindUpstream, message, err)
	}
	return stdout.Bytes(), nil
}

func wkhtmltopdfArgs(opts Options) []string {
	var args []string
	if opts.PageSize != "" {
		args = append(args, "--page-size", opts.PageSize)
	}
	if opts.Landscape != nil && *opts.Landscape {
		args = append(args, "--orientation", "Landscape")
	}
	margins := []struct {
		flag  string
		value string
	}{
		{"--margin-top", opts.MarginTop},
		{"--margin-bottom", opts.MarginBottom},
		{"--margin-left", opts.MarginLeft},
		{"--margin-right", opts.MarginRight},
	}
	for _, m := range margins {
		if m.value != "" {
			args = append(args, m.flag, strings.ReplaceAll(m.value, " ", ""))
		}
	}
	if opts.ExternalAssetsPolicy == ExternalAssetsBlock {
		args = append(args, "--disable-external-links", "--disable-local-file-access")
	}
	return args
}

type limitedBuffer struct {
	buf     bytes.Buffer
	maxSize int64
}

func newLimitedBuffer(maxSize int64) *limitedBuffer {
	if maxSize <= 0 {
		maxSize = DefaultMaxHTMLBytes
	}
	return &limitedBuffer{maxSize: maxSize}
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.maxSize > 0 && int64(b.buf.Len()+len(p)) > b.maxSize {
		return 0, docgen.NewError(docgen.KindValidation, "html pdf renderer max html bytes exceeded", nil)
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
