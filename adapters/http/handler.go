// Package dochttp serves the document endpoints on net/http.
package dochttp

import (
	"net/http"

	"github.com/goliatone/go-docgen/adapters/docapi"
	"github.com/goliatone/go-docgen/docgen"
)

// Config configures the HTTP adapter.
type Config = docapi.Config

// Handler exposes the document endpoints as an http.Handler.
type Handler struct {
	controller *docapi.Controller
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: docapi.NewController(cfg)}
}

// RegisterRoutes registers the handler on a compatible mux.
func (h *Handler) RegisterRoutes(router any) {
	base := h.basePath()
	switch r := router.(type) {
	case interface{ Handle(string, http.Handler) }:
		r.Handle(base+"/", h)
	case interface {
		HandleFunc(string, func(http.ResponseWriter, *http.Request))
	}:
		r.HandleFunc(base+"/", h.ServeHTTP)
	}
}

// ServeHTTP routes document endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	x := exchange{w: w, r: r}
	if h == nil || h.controller == nil {
		docapi.WriteError(x, docgen.NewError(docgen.KindInternal, "handler is nil", nil))
		return
	}
	h.controller.Serve(x, x)
}

func (h *Handler) basePath() string {
	if h == nil || h.controller == nil {
		return ""
	}
	return h.controller.BasePath()
}
