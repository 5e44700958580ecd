package docapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	docformgen "github.com/goliatone/go-docgen/adapters/formgen"
	"github.com/goliatone/go-docgen/docgen"
	errorslib "github.com/goliatone/go-errors"
)

const (
	// DefaultMaxBodyBytes caps a generate request body.
	DefaultMaxBodyBytes int64 = 4 * 1024 * 1024
	// DefaultMaxBufferBytes is the download buffer limit when the transport
	// cannot stream.
	DefaultMaxBufferBytes int64 = 32 * 1024 * 1024
	// DefaultIdempotencyTTL keeps replayable results as long as the files.
	DefaultIdempotencyTTL = docgen.DefaultRetention

	serviceName = "docgen"
)

// Config configures the shared controller.
type Config struct {
	Service          docgen.Service
	BasePath         string
	IdempotencyStore IdempotencyStore
	IdempotencyTTL   time.Duration
	MaxBodyBytes     int64
	MaxBufferBytes   int64
	Logger           docgen.Logger
	Now              func() time.Time
}

// Controller exposes the document endpoints for multiple transports.
type Controller struct {
	service          docgen.Service
	basePath         string
	idempotencyStore IdempotencyStore
	idempotencyTTL   time.Duration
	maxBodyBytes     int64
	maxBufferBytes   int64
	logger           docgen.Logger
	now              func() time.Time
}

// NewController creates the shared controller.
func NewController(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = docgen.NopLogger{}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	maxBuffer := cfg.MaxBufferBytes
	if maxBuffer <= 0 {
		maxBuffer = DefaultMaxBufferBytes
	}
	ttl := cfg.IdempotencyTTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		service:          cfg.Service,
		basePath:         strings.TrimRight(cfg.BasePath, "/"),
		idempotencyStore: cfg.IdempotencyStore,
		idempotencyTTL:   ttl,
		maxBodyBytes:     maxBody,
		maxBufferBytes:   maxBuffer,
		logger:           logger,
		now:              now,
	}
}

// BasePath returns the prefix every route is mounted under. Empty means
// the root.
func (c *Controller) BasePath() string {
	if c == nil {
		return ""
	}
	return c.basePath
}

// Serve routes a request to its endpoint.
func (c *Controller) Serve(req Request, res Response) {
	if res == nil {
		return
	}
	if c == nil || c.service == nil {
		WriteError(res, docgen.NewError(docgen.KindInternal, "handler is not configured", nil))
		return
	}
	if req == nil {
		WriteError(res, docgen.NewError(docgen.KindInternal, "request is nil", nil))
		return
	}
	reqPath := req.Path()
	if c.basePath != "" {
		if reqPath != c.basePath && !strings.HasPrefix(reqPath, c.basePath+"/") {
			writeNotFound(res)
			return
		}
		reqPath = strings.TrimPrefix(reqPath, c.basePath)
	}
	parts := []string{}
	if trimmed := strings.Trim(reqPath, "/"); trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}

	switch req.Method() {
	case http.MethodGet, http.MethodHead:
		switch {
		case len(parts) == 0:
			c.handleHealth(req, res)
		case len(parts) == 1 && parts[0] == "templates":
			c.handleTemplates(res)
		case len(parts) == 2 && parts[0] == "templates":
			c.handleTemplate(res, parts[1])
		case len(parts) == 3 && parts[0] == "templates" && parts[2] == "form":
			c.handleTemplateForm(res, parts[1])
		case len(parts) == 1 && parts[0] == "capabilities":
			c.handleCapabilities(req, res)
		case len(parts) == 2 && parts[0] == "download":
			c.handleDownload(req, res, parts[1])
		default:
			writeNotFound(res)
		}
	case http.MethodPost:
		if len(parts) != 1 || parts[0] != "generate" {
			writeNotFound(res)
			return
		}
		c.handleGenerate(req, res)
	default:
		res.SetHeader("Allow", "GET,POST")
		res.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (c *Controller) handleHealth(req Request, res Response) {
	writeJSON(res, http.StatusOK, HealthResponse{
		Status:       "ok",
		Service:      serviceName,
		Time:         c.now(),
		Capabilities: c.service.Capabilities(req.Context()),
	})
}

func (c *Controller) handleTemplates(res Response) {
	templates := c.service.Templates()
	writeJSON(res, http.StatusOK, TemplatesResponse{Templates: templates, Total: len(templates)})
}

func (c *Controller) handleTemplate(res Response, name string) {
	spec, err := c.service.Template(name)
	if err != nil {
		WriteError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, spec)
}

func (c *Controller) handleTemplateForm(res Response, name string) {
	spec, err := c.service.Template(name)
	if err != nil {
		WriteError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, docformgen.TemplateUI(c.basePath, spec))
}

func (c *Controller) handleCapabilities(req Request, res Response) {
	writeJSON(res, http.StatusOK, c.service.Capabilities(req.Context()))
}

func (c *Controller) handleGenerate(req Request, res Response) {
	decoded, err := DecodeGenerate(req, c.maxBodyBytes)
	if err != nil {
		WriteError(res, err)
		return
	}

	var idemKey string
	if key := strings.TrimSpace(req.Header("Idempotency-Key")); key != "" && c.idempotencyStore != nil {
		idemKey = buildIdempotencyKey(key, decoded)
		if result, ok, err := c.idempotencyStore.Get(req.Context(), idemKey); err != nil {
			c.logger.Errorf("idempotency lookup failed: %v", err)
		} else if ok {
			res.SetHeader("Idempotent-Replay", "true")
			writeJSON(res, http.StatusOK, c.generateResponse(result))
			return
		}
	}

	result, err := c.service.Generate(req.Context(), decoded)
	if err != nil {
		WriteError(res, err)
		return
	}
	if idemKey != "" {
		if err := c.idempotencyStore.Set(req.Context(), idemKey, result, c.idempotencyTTL); err != nil {
			c.logger.Errorf("idempotency store failed: %v", err)
		}
	}
	writeJSON(res, http.StatusOK, c.generateResponse(result))
}

func (c *Controller) handleDownload(req Request, res Response, filename string) {
	reader, meta, err := c.service.Open(req.Context(), filename)
	if err != nil {
		WriteError(res, err)
		return
	}
	defer reader.Close()

	contentType := meta.ContentType
	if contentType == "" {
		contentType = docgen.NormalizeFormat(meta.Format).ContentType()
	}
	name := meta.Filename
	if name == "" {
		name = filename
	}
	res.SetHeader("Content-Type", contentType)
	res.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	res.SetHeader("X-Content-Type-Options", "nosniff")
	if meta.Size > 0 {
		res.SetHeader("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	if req.Method() == http.MethodHead {
		res.WriteHeader(http.StatusOK)
		return
	}

	if w, ok := res.Writer(); ok {
		res.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, reader); err != nil {
			c.logger.Errorf("download %s interrupted: %v", filename, err)
		}
		return
	}

	data, err := io.ReadAll(io.LimitReader(reader, c.maxBufferBytes+1))
	if err != nil {
		WriteError(res, docgen.NewError(docgen.KindInternal, "read document", err))
		return
	}
	if int64(len(data)) > c.maxBufferBytes {
		WriteError(res, docgen.NewError(docgen.KindInternal, "document exceeds download buffer", nil))
		return
	}
	res.WriteHeader(http.StatusOK)
	_, _ = res.Write(data)
}

func (c *Controller) generateResponse(result docgen.GenerateResult) GenerateResponse {
	return GenerateResponse{GenerateResult: result, DownloadURL: c.basePath + "/download/" + result.Filename}
}

func writeNotFound(res Response) {
	res.SetHeader("Content-Type", "text/plain; charset=utf-8")
	res.SetHeader("X-Content-Type-Options", "nosniff")
	res.WriteHeader(http.StatusNotFound)
	_, _ = res.Write([]byte("404 page not found\n"))
}

// WriteError writes err as a JSON error body with the status its kind maps
// to.
func WriteError(res Response, err error) {
	if err == nil {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	ge := docgen.AsGoError(err)
	writeJSON(res, statusForError(ge), ErrorResponse{
		Error: ErrorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
			Fields:  docgen.FieldsFromError(err),
		},
	})
}

func writeJSON(res Response, status int, payload any) {
	_ = res.WriteJSON(status, payload)
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	if err.TextCode == "not_implemented" {
		return http.StatusNotImplemented
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		if err.TextCode == "canceled" {
			return http.StatusConflict
		}
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
