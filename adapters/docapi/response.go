package docapi

import (
	"io"
	"time"

	"github.com/goliatone/go-docgen/docgen"
)

// Response provides a minimal response interface for transport adapters.
type Response interface {
	SetHeader(name, value string)
	WriteHeader(status int)
	Write(data []byte) (int, error)
	WriteJSON(status int, payload any) error
	Writer() (io.Writer, bool)
}

// HealthResponse is returned by GET /.
type HealthResponse struct {
	Status       string              `json:"status"`
	Service      string              `json:"service"`
	Time         time.Time           `json:"time"`
	Capabilities docgen.Capabilities `json:"capabilities"`
}

// TemplatesResponse lists the catalog.
type TemplatesResponse struct {
	Templates []docgen.TemplateSpec `json:"templates"`
	Total     int                   `json:"total"`
}

// GenerateResponse is a generated document plus where to download it.
type GenerateResponse struct {
	docgen.GenerateResult
	DownloadURL string `json:"download_url"`
}

// ErrorResponse describes JSON error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains error details. Fields names the request fields that
// failed validation.
type ErrorBody struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}
