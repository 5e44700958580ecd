package docpdf

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	doctemplate "github.com/goliatone/go-docgen/adapters/template"
	"github.com/goliatone/go-docgen/docgen"
)

// layoutOptions renders the bundled layout for id and returns the print
// options the renderer hands to the engine.
func layoutOptions(t *testing.T, id string) (Options, []byte) {
	t.Helper()
	reg, err := docgen.NewBuiltinRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	spec, err := reg.Spec(id)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	executor, err := doctemplate.NewPongo2Executor()
	if err != nil {
		t.Fatalf("executor: %v", err)
	}

	var got RenderRequest
	renderer := Renderer{
		Enabled: true,
		HTML:    doctemplate.Renderer{Enabled: true, Templates: executor},
		Engine: pdfEngine(func(req RenderRequest) error {
			got = req
			return nil
		}),
	}
	if _, err := renderer.Render(context.Background(), spec, docgen.Normalizer{}.Normalize(spec, spec.ExampleData)); err != nil {
		t.Fatalf("render %s: %v", id, err)
	}
	return got.Options, got.HTML
}

func TestPrintParams_CertificadoPrintsLandscape(t *testing.T) {
	opts, html := layoutOptions(t, "certificado")
	if !bytes.Contains(html, []byte("A4 landscape")) {
		t.Fatalf("expected the certificado layout to declare a landscape page")
	}
	if opts.Landscape == nil || !*opts.Landscape {
		t.Fatalf("expected landscape from the template orientation, got %+v", opts)
	}
	if opts.PreferCSSPageSize == nil || !*opts.PreferCSSPageSize {
		t.Fatalf("expected the layout @page rule to be honored")
	}

	params, err := opts.printParams()
	if err != nil {
		t.Fatalf("print params: %v", err)
	}
	if params.PaperWidth <= params.PaperHeight {
		t.Fatalf("expected landscape paper, got %.2fx%.2f", params.PaperWidth, params.PaperHeight)
	}
	if !params.PreferCSSPageSize {
		t.Fatalf("expected css page size preferred")
	}
}

func TestPrintParams_FaturaPrintsPortraitA4(t *testing.T) {
	opts, _ := layoutOptions(t, "fatura")
	if opts.Landscape != nil {
		t.Fatalf("expected no orientation override, got %v", *opts.Landscape)
	}
	params, err := opts.printParams()
	if err != nil {
		t.Fatalf("print params: %v", err)
	}
	if params.PaperWidth != 8.27 || params.PaperHeight != 11.69 {
		t.Fatalf("expected A4 portrait, got %.2fx%.2f", params.PaperWidth, params.PaperHeight)
	}
	if math.Abs(params.MarginTop-2/2.54) > 1e-9 {
		t.Fatalf("expected 2cm top margin, got %f in", params.MarginTop)
	}
}

func TestPageOptions_ConfiguredOrientationWins(t *testing.T) {
	renderer := Renderer{Options: Options{Landscape: boolPtr(false), PreferCSSPageSize: boolPtr(false)}}
	opts := renderer.PageOptions(docgen.TemplateSpec{ID: "certificado", Orientation: docgen.OrientationLandscape}, []byte("<style>@page { size: A4 landscape }</style>"))
	if *opts.Landscape || *opts.PreferCSSPageSize {
		t.Fatalf("expected configured options to win, got %+v", opts)
	}
}

func TestPrintParams_LandscapeWithoutPageSize(t *testing.T) {
	params, err := Options{Landscape: boolPtr(true)}.printParams()
	if err != nil {
		t.Fatalf("print params: %v", err)
	}
	if !params.Landscape || !params.PreferCSSPageSize || params.PaperWidth != 0 {
		t.Fatalf("expected chromium to follow the layout, got %+v", params)
	}
}

func TestPrintParams_Rejects(t *testing.T) {
	for name, opts := range map[string]Options{
		"page size": {PageSize: "B9"},
		"scale":     {Scale: 3},
		"margin":    {PageSize: "A4", MarginLeft: "2em"},
	} {
		if _, err := opts.printParams(); docgen.KindFromError(err) != docgen.KindValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestInchesOf(t *testing.T) {
	for input, want := range map[string]float64{
		"1.5cm":  1.5 / 2.54,
		"20mm":   20 / 25.4,
		"36pt":   0.5,
		"48px":   0.5,
		" 2 ":    2,
		"0.75in": 0.75,
	} {
		got, err := inchesOf(input)
		if err != nil {
			t.Fatalf("inchesOf(%q): %v", input, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("inchesOf(%q) = %f, want %f", input, got, want)
		}
	}
	if _, err := inchesOf("cm"); err == nil {
		t.Fatalf("expected error for a unit without amount")
	}
}

func TestWithBaseURL(t *testing.T) {
	base := "https://cdn.example.com/catalogo/"
	cases := map[string]string{
		`<html><head><meta charset="utf-8"></head><body><header>x</header></body></html>`: `<head><base href="https://cdn.example.com/catalogo/"><meta`,
		`<html lang="pt-BR"><body><header>x</header></body></html>`:                         `<html lang="pt-BR"><head><base href="https://cdn.example.com/catalogo/"></head><body>`,
		`<p>x</p>`: `<base href="https://cdn.example.com/catalogo/"><p>x</p>`,
	}
	for doc, want := range cases {
		if got := string(withBaseURL([]byte(doc), base)); !strings.Contains(got, want) {
			t.Fatalf("withBaseURL(%q) = %q, want it to contain %q", doc, got, want)
		}
	}

	own := []byte(`<html><head><base href="/x/"></head></html>`)
	if got := withBaseURL(own, base); !bytes.Equal(got, own) {
		t.Fatalf("expected an existing base element kept, got %q", got)
	}
}

func TestBrowserFlags(t *testing.T) {
	if got := len(browserFlags([]string{"--no-sandbox", " ", "--", "--window-size=800,600", "disable-gpu"})); got != 3 {
		t.Fatalf("expected 3 flags, got %d", got)
	}
}

func chromePath(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("chromium tests skipped in short mode")
	}
	if path := os.Getenv("CHROME_BIN"); path != "" {
		return path
	}
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no chromium binary; set CHROME_BIN to run")
	return ""
}

func testEngine(t *testing.T) *ChromiumEngine {
	engine := &ChromiumEngine{
		BrowserPath: chromePath(t),
		Headless:    true,
		Timeout:     15 * time.Second,
		Args:        []string{"--no-sandbox", "--disable-dev-shm-usage"},
	}
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func TestChromiumEngine_PrintsCertificado(t *testing.T) {
	engine := testEngine(t)
	opts, html := layoutOptions(t, "certificado")

	pdf, err := engine.Render(context.Background(), RenderRequest{HTML: html, Options: opts})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected pdf output")
	}
}

func TestChromiumEngine_BlocksProductImages(t *testing.T) {
	engine := testEngine(t)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	executor, err := doctemplate.NewPongo2Executor()
	if err != nil {
		t.Fatalf("executor: %v", err)
	}
	var html bytes.Buffer
	spec := docgen.TemplateSpec{ID: "catalogo_produtos", Name: "Catálogo"}
	data := docgen.Data{"produtos": []any{map[string]any{"codigo_produto": "P1", "url_imagem_placeholder": server.URL + "/p1.png"}}}
	if err := (doctemplate.Renderer{Enabled: true, Templates: executor}).RenderHTML(context.Background(), &html, spec, data); err != nil {
		t.Fatalf("html: %v", err)
	}

	_, err = engine.Render(context.Background(), RenderRequest{
		HTML:    html.Bytes(),
		Options: Options{PageSize: "A4", ExternalAssetsPolicy: ExternalAssetsBlock},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if n := hits.Load(); n != 0 {
		t.Fatalf("expected product images blocked, got %d request(s)", n)
	}
}

func TestChromiumEngine_CanceledContext(t *testing.T) {
	engine := testEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Render(ctx, RenderRequest{HTML: []byte("<html><body>x</body></html>")})
	if docgen.KindFromError(err) != docgen.KindCanceled {
		t.Fatalf("expected canceled, got %v", err)
	}
}
