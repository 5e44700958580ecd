package docrouter

import (
	"context"
	"io"
	"strings"

	"github.com/goliatone/go-docgen/adapters/docapi"
	"github.com/goliatone/go-router"
)

var (
	_ docapi.Request  = exchange{}
	_ docapi.Response = exchange{}
)

// exchange adapts one go-router context to both sides of the controller.
type exchange struct {
	ctx router.Context
}

func (x exchange) Context() context.Context {
	if x.ctx == nil {
		return context.Background()
	}
	return x.ctx.Context()
}

func (x exchange) Method() string {
	if x.ctx == nil {
		return ""
	}
	return x.ctx.Method()
}

func (x exchange) Path() string {
	if x.ctx == nil {
		return ""
	}
	return x.ctx.Path()
}

func (x exchange) Header(name string) string {
	if x.ctx == nil {
		return ""
	}
	return x.ctx.Header(name)
}

func (x exchange) Query(name string) string {
	if x.ctx == nil {
		return ""
	}
	return x.ctx.Query(name)
}

// Body copies the buffered request body; fiber reuses its buffer after the
// handler returns.
func (x exchange) Body() io.ReadCloser {
	if x.ctx == nil {
		return nil
	}
	return io.NopCloser(strings.NewReader(string(x.ctx.Body())))
}

func (x exchange) SetHeader(name, value string) {
	if x.ctx != nil {
		x.ctx.SetHeader(name, value)
	}
}

func (x exchange) WriteHeader(status int) {
	if x.ctx != nil {
		x.ctx.Status(status)
	}
}

func (x exchange) Write(data []byte) (int, error) {
	if x.ctx == nil {
		return 0, nil
	}
	if err := x.ctx.Send(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (x exchange) WriteJSON(status int, payload any) error {
	if x.ctx == nil {
		return nil
	}
	return x.ctx.JSON(status, payload)
}

// Writer streams straight to the response when the adapter exposes the
// underlying net/http writer. Fiber does not, so downloads are buffered.
func (x exchange) Writer() (io.Writer, bool) {
	if x.ctx == nil {
		return nil, false
	}
	httpCtx, ok := router.AsHTTPContext(x.ctx)
	if !ok || httpCtx.Response() == nil {
		return nil, false
	}
	return httpCtx.Response(), true
}
