package query

import (
	"context"

	"github.com/goliatone/go-docgen/docgen"
	"github.com/goliatone/go-errors"
)

// ListTemplatesHandler returns the template catalog.
type ListTemplatesHandler struct {
	Service docgen.Service
}

func NewListTemplatesHandler(svc docgen.Service) *ListTemplatesHandler {
	return &ListTemplatesHandler{Service: svc}
}

func (h *ListTemplatesHandler) Query(ctx context.Context, msg ListTemplates) ([]docgen.TemplateSpec, error) {
	_ = ctx
	_ = msg
	if h == nil || h.Service == nil {
		return nil, serviceRequired()
	}
	return h.Service.Templates(), nil
}

// TemplateDetailHandler returns a single template descriptor.
type TemplateDetailHandler struct {
	Service docgen.Service
}

func NewTemplateDetailHandler(svc docgen.Service) *TemplateDetailHandler {
	return &TemplateDetailHandler{Service: svc}
}

func (h *TemplateDetailHandler) Query(ctx context.Context, msg TemplateDetail) (docgen.TemplateSpec, error) {
	_ = ctx
	if h == nil || h.Service == nil {
		return docgen.TemplateSpec{}, serviceRequired()
	}
	return h.Service.Template(msg.Name)
}

// BackendCapabilitiesHandler returns the probed capabilities.
type BackendCapabilitiesHandler struct {
	Service docgen.Service
}

func NewBackendCapabilitiesHandler(svc docgen.Service) *BackendCapabilitiesHandler {
	return &BackendCapabilitiesHandler{Service: svc}
}

func (h *BackendCapabilitiesHandler) Query(ctx context.Context, msg BackendCapabilities) (docgen.Capabilities, error) {
	_ = msg
	if h == nil || h.Service == nil {
		return docgen.Capabilities{}, serviceRequired()
	}
	return h.Service.Capabilities(ctx), nil
}

func serviceRequired() error {
	return errors.New("document service is required", errors.CategoryInternal).
		WithTextCode("SERVICE_REQUIRED")
}
