package command

import (
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-docgen/docgen"
	"github.com/goliatone/go-errors"
)

// GenerateDocumentHandler runs document generation.
type GenerateDocumentHandler struct {
	Service docgen.Service
}

func NewGenerateDocumentHandler(svc docgen.Service) *GenerateDocumentHandler {
	return &GenerateDocumentHandler{Service: svc}
}

func (h *GenerateDocumentHandler) Execute(ctx context.Context, msg GenerateDocument) error {
	if h == nil || h.Service == nil {
		return errors.New("document service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	result, err := h.Service.Generate(ctx, msg.Request)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	if res := gcmd.ResultFromContext[docgen.GenerateResult](ctx); res != nil {
		res.Store(result)
	}
	return nil
}

// CleanupDocumentsHandler removes expired documents. It doubles as the
// periodic cleanup job.
type CleanupDocumentsHandler struct {
	Service docgen.Service
	Config  gcmd.HandlerConfig
}

func NewCleanupDocumentsHandler(svc docgen.Service) *CleanupDocumentsHandler {
	return &CleanupDocumentsHandler{
		Service: svc,
		Config:  gcmd.HandlerConfig{Expression: "@every 1h"},
	}
}

func (h *CleanupDocumentsHandler) Execute(ctx context.Context, msg CleanupDocuments) error {
	if h == nil || h.Service == nil {
		return errors.New("document service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	count, err := h.Service.Cleanup(ctx, msg.MaxAge)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = count
	}
	if res := gcmd.ResultFromContext[int](ctx); res != nil {
		res.Store(count)
	}
	return nil
}

func (h *CleanupDocumentsHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), CleanupDocuments{})
	}
}

func (h *CleanupDocumentsHandler) CronOptions() gcmd.HandlerConfig {
	return h.Config
}

// CLIHandler exposes cleanup via CLI.
func (h *CleanupDocumentsHandler) CLIHandler() any {
	return &cleanupCLI{handler: h}
}

// CLIOptions describes cleanup CLI metadata.
func (h *CleanupDocumentsHandler) CLIOptions() gcmd.CLIConfig {
	return gcmd.CLIConfig{
		Path:        []string{"documents-cleanup"},
		Description: "Remove expired generated documents",
		Group:       "documents",
	}
}

type cleanupCLI struct {
	handler *CleanupDocumentsHandler
	MaxAge  string `kong:"name='max-age',help='Remove documents older than this duration'"`
}

func (c *cleanupCLI) Run() error {
	if c == nil || c.handler == nil {
		return errors.New("cleanup handler is required", errors.CategoryInternal).
			WithTextCode("CLEANUP_HANDLER_REQUIRED")
	}
	maxAge, err := parseMaxAge(c.MaxAge)
	if err != nil {
		return err
	}
	return c.handler.Execute(context.Background(), CleanupDocuments{MaxAge: maxAge})
}
