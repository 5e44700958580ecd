package docapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/goliatone/go-docgen/docgen"
)

// Request provides minimal request access for transport adapters.
type Request interface {
	Context() context.Context
	Method() string
	Path() string
	Header(name string) string
	Query(name string) string
	Body() io.ReadCloser
}

// GeneratePayload is the body of POST /generate.
type GeneratePayload struct {
	TemplateName  string         `json:"template_name"`
	Data          map[string]any `json:"data"`
	OutputFormat  docgen.Format  `json:"output_format,omitempty"`
	UploadToMinio bool           `json:"upload_to_minio,omitempty"`
}

// DecodeGenerate parses a generate request body. Numbers are kept as
// json.Number so currency values reach the formatter without float
// rounding.
func DecodeGenerate(req Request, maxBytes int64) (docgen.GenerateRequest, error) {
	if req == nil {
		return docgen.GenerateRequest{}, docgen.NewError(docgen.KindInternal, "request is nil", nil)
	}
	body := req.Body()
	if body == nil {
		return docgen.GenerateRequest{}, docgen.NewError(docgen.KindValidation, "request body is required", nil)
	}
	defer body.Close()

	var reader io.Reader = body
	if maxBytes > 0 {
		reader = io.LimitReader(body, maxBytes+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return docgen.GenerateRequest{}, docgen.NewError(docgen.KindValidation, "read request body", err)
	}
	if maxBytes > 0 && int64(len(raw)) > maxBytes {
		return docgen.GenerateRequest{}, docgen.NewError(docgen.KindValidation, "request body too large", nil)
	}

	var payload GeneratePayload
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return docgen.GenerateRequest{}, docgen.NewError(docgen.KindValidation, "request body is required", err)
		}
		return docgen.GenerateRequest{}, docgen.NewError(docgen.KindValidation, "invalid request payload", err)
	}

	name := strings.TrimSpace(payload.TemplateName)
	if name == "" {
		return docgen.GenerateRequest{}, docgen.NewValidationError("template_name is required", "template_name")
	}
	return docgen.GenerateRequest{
		Template: name,
		Data:     docgen.Data(payload.Data),
		Format:   payload.OutputFormat,
		Upload:   payload.UploadToMinio,
	}, nil
}
