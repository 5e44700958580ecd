package dochttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/goliatone/go-docgen/adapters/docapi"
)

var (
	_ docapi.Request  = exchange{}
	_ docapi.Response = exchange{}
)

// exchange adapts one net/http round trip to both sides of the controller.
type exchange struct {
	w http.ResponseWriter
	r *http.Request
}

func (x exchange) Context() context.Context {
	if x.r == nil {
		return context.Background()
	}
	return x.r.Context()
}

func (x exchange) Method() string {
	if x.r == nil {
		return ""
	}
	return x.r.Method
}

func (x exchange) Path() string {
	if x.r == nil || x.r.URL == nil {
		return ""
	}
	return x.r.URL.Path
}

func (x exchange) Header(name string) string {
	if x.r == nil {
		return ""
	}
	return x.r.Header.Get(name)
}

func (x exchange) Query(name string) string {
	if x.r == nil || x.r.URL == nil {
		return ""
	}
	return x.r.URL.Query().Get(name)
}

// Body never returns nil so a bodyless POST /generate reaches the decoder
// and is reported as a missing body.
func (x exchange) Body() io.ReadCloser {
	if x.r == nil || x.r.Body == nil {
		return http.NoBody
	}
	return x.r.Body
}

func (x exchange) SetHeader(name, value string) {
	x.w.Header().Set(name, value)
}

func (x exchange) WriteHeader(status int) {
	x.w.WriteHeader(status)
}

func (x exchange) Write(data []byte) (int, error) {
	return x.w.Write(data)
}

// WriteJSON encodes before writing the status line, so an unencodable
// payload turns into a 500 instead of a truncated body.
func (x exchange) WriteJSON(status int, payload any) error {
	var body bytes.Buffer
	encoder := json.NewEncoder(&body)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		http.Error(x.w, "encode response", http.StatusInternalServerError)
		return err
	}
	x.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	x.w.WriteHeader(status)
	_, err := x.w.Write(body.Bytes())
	return err
}

// Writer lets downloads stream from artifact storage.
func (x exchange) Writer() (io.Writer, bool) {
	return x.w, true
}
