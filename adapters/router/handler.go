// Package docrouter registers the document endpoints on a go-router router,
// which is how the server mounts them on fiber.
package docrouter

import (
	"github.com/goliatone/go-docgen/adapters/docapi"
	"github.com/goliatone/go-docgen/docgen"
	"github.com/goliatone/go-router"
)

// Config configures the go-router adapter.
type Config = docapi.Config

// Handler exposes the document routes for go-router.
type Handler struct {
	controller *docapi.Controller
}

// NewHandler creates a go-router handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: docapi.NewController(cfg)}
}

// RegisterRoutes registers routes on a compatible go-router router.
func (h *Handler) RegisterRoutes(r any) {
	registrar, ok := r.(routeRegistrar)
	if !ok {
		return
	}
	base := h.basePath()
	root := base
	if root == "" {
		root = "/"
	}

	registrar.Get(root, h.Handle)
	registrar.Get(base+"/templates", h.Handle)
	registrar.Get(base+"/templates/:name", h.Handle)
	registrar.Get(base+"/templates/:name/form", h.Handle)
	registrar.Get(base+"/capabilities", h.Handle)
	registrar.Post(base+"/generate", h.Handle)
	registrar.Get(base+"/download/:filename", h.Handle)
}

// Handle runs the shared controller.
func (h *Handler) Handle(c router.Context) error {
	if c == nil {
		return nil
	}
	if h == nil || h.controller == nil {
		docapi.WriteError(exchange{ctx: c}, docgen.NewError(docgen.KindInternal, "handler is nil", nil))
		return nil
	}
	h.controller.Serve(exchange{ctx: c}, exchange{ctx: c})
	return nil
}

func (h *Handler) basePath() string {
	if h == nil || h.controller == nil {
		return ""
	}
	return h.controller.BasePath()
}

type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}
