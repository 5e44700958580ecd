package dochttp

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-docgen/adapters/docapi"
	docflow "github.com/goliatone/go-docgen/adapters/flow"
	storefs "github.com/goliatone/go-docgen/adapters/store/fs"
	"github.com/goliatone/go-docgen/docgen"
)

func fixedNow() time.Time {
	return time.Date(2024, 12, 15, 10, 30, 0, 0, time.UTC)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc, err := docgen.NewService(docgen.ServiceConfig{
		Flow:  docflow.New(docgen.DefaultIssuer),
		Store: storefs.NewStore(t.TempDir()),
		Now:   fixedNow,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	mux := http.NewServeMux()
	NewHandler(Config{Service: svc, BasePath: "/api"}).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postGenerate(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/generate", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestHandler_GenerateAndDownloadPDF(t *testing.T) {
	server := newTestServer(t)

	resp := postGenerate(t, server, `{
		"template_name": "fatura",
		"data": {"cliente": "João", "itens": [{"descricao": "Consultoria", "valor": 1000}, {"descricao": "Suporte", "valor": 500}]},
		"output_format": "pdf"
	}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}
	var payload docapi.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tier != docgen.TierFlow || payload.Filename != "fatura_20241215_103000.pdf" {
		t.Fatalf("unexpected result %+v", payload.GenerateResult)
	}
	if payload.DownloadURL != "/api/download/fatura_20241215_103000.pdf" {
		t.Fatalf("unexpected download url %q", payload.DownloadURL)
	}

	download, err := http.Get(server.URL + payload.DownloadURL)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer download.Body.Close()
	data, _ := io.ReadAll(download.Body)
	if download.StatusCode != http.StatusOK || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected pdf download, got %d", download.StatusCode)
	}
	if ct := download.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestHandler_GeneratePlaceholderPNG(t *testing.T) {
	server := newTestServer(t)

	resp := postGenerate(t, server, `{"template_name": "certificado", "data": {"participante": "Ana", "curso": "Go"}, "output_format": "png"}`)
	defer resp.Body.Close()
	var payload docapi.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tier != docgen.TierPlaceholder || !payload.Success {
		t.Fatalf("expected placeholder tier, got %+v", payload.GenerateResult)
	}

	download, err := http.Get(server.URL + payload.DownloadURL)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer download.Body.Close()
	img, err := png.Decode(download.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Fatalf("unexpected placeholder size %v", img.Bounds())
	}
}

func TestHandler_ValidationError(t *testing.T) {
	server := newTestServer(t)

	resp := postGenerate(t, server, `{"template_name": "fatura", "data": {"itens": []}}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var payload docapi.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "validation" {
		t.Fatalf("unexpected code %q", payload.Error.Code)
	}
	if len(payload.Error.Fields) != 2 || payload.Error.Fields[0] != "cliente" || payload.Error.Fields[1] != "itens" {
		t.Fatalf("unexpected fields %v", payload.Error.Fields)
	}
}

func TestHandler_UnknownTemplateAndMissingDownload(t *testing.T) {
	server := newTestServer(t)

	resp := postGenerate(t, server, `{"template_name": "relatorio", "data": {}}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	download, err := http.Get(server.URL + "/api/download/nada.pdf")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	download.Body.Close()
	if download.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", download.StatusCode)
	}
}

func TestHandler_TemplatesAndCapabilities(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	var templates docapi.TemplatesResponse
	err = json.NewDecoder(resp.Body).Decode(&templates)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if templates.Total != 4 {
		t.Fatalf("expected 4 templates, got %d", templates.Total)
	}

	resp, err = http.Get(server.URL + "/api/capabilities")
	if err != nil {
		t.Fatalf("capabilities: %v", err)
	}
	var caps docgen.Capabilities
	err = json.NewDecoder(resp.Body).Decode(&caps)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if caps.HTMLToPDF || !caps.FlowDocumentPDF || caps.PDFToRaster {
		t.Fatalf("unexpected capabilities %+v", caps)
	}
}

func TestHandler_Nil(t *testing.T) {
	var h *Handler
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandler_GenerateWithoutBody(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/generate", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestExchange_WriteJSONKeepsAccents(t *testing.T) {
	rec := httptest.NewRecorder()
	x := exchange{w: rec}
	if err := x.WriteJSON(http.StatusOK, map[string]string{"nome": "Catálogo <Produtos> & Cia"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Catálogo <Produtos> & Cia") {
		t.Fatalf("expected unescaped payload, got %s", body)
	}
}

func TestExchange_WriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := (exchange{w: rec}).WriteJSON(http.StatusOK, map[string]any{"valor": func() {}}); err == nil {
		t.Fatalf("expected encode error")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandler_RejectsOutOfRangeAmount(t *testing.T) {
	server := newTestServer(t)

	started := time.Now()
	resp := postGenerate(t, server, `{"template_name": "fatura", "data": {"cliente": "Ana", "itens": [{"descricao": "A", "valor": 1e30000000}]}}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("expected the amount rejected before formatting, took %s", elapsed)
	}
	var payload docapi.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Error.Fields) != 1 || payload.Error.Fields[0] != "itens[1].valor" {
		t.Fatalf("unexpected fields %v", payload.Error.Fields)
	}
}
