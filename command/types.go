package command

import (
	"strings"
	"time"

	"github.com/goliatone/go-docgen/docgen"
	"github.com/goliatone/go-errors"
)

// GenerateDocument renders a document and keeps it for download.
type GenerateDocument struct {
	Request docgen.GenerateRequest
	Result  *docgen.GenerateResult
}

func (GenerateDocument) Type() string { return "docgen:generate" }

func (msg GenerateDocument) Validate() error {
	if strings.TrimSpace(msg.Request.Template) == "" {
		return errors.New("template name is required", errors.CategoryValidation).
			WithTextCode("TEMPLATE_REQUIRED")
	}
	if msg.Request.Format != "" {
		if _, err := docgen.ParseFormat(string(msg.Request.Format)); err != nil {
			return errors.New("unsupported output format", errors.CategoryValidation).
				WithTextCode("FORMAT_INVALID")
		}
	}
	return nil
}

// CleanupDocuments removes generated documents older than MaxAge. A zero
// MaxAge uses the service retention.
type CleanupDocuments struct {
	MaxAge time.Duration
	Result *int
}

func (CleanupDocuments) Type() string { return "docgen:cleanup" }

func (msg CleanupDocuments) Validate() error {
	if msg.MaxAge < 0 {
		return errors.New("max age must not be negative", errors.CategoryValidation).
			WithTextCode("MAX_AGE_INVALID")
	}
	return nil
}
