package query

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ListTemplates requests the template catalog.
type ListTemplates struct{}

func (ListTemplates) Type() string { return "docgen:templates" }

func (ListTemplates) Validate() error { return nil }

// TemplateDetail requests one template descriptor.
type TemplateDetail struct {
	Name string
}

func (TemplateDetail) Type() string { return "docgen:template" }

func (msg TemplateDetail) Validate() error {
	if strings.TrimSpace(msg.Name) == "" {
		return errors.New("template name is required", errors.CategoryValidation).
			WithTextCode("TEMPLATE_REQUIRED")
	}
	return nil
}

// BackendCapabilities requests the probed rendering capabilities.
type BackendCapabilities struct{}

func (BackendCapabilities) Type() string { return "docgen:capabilities" }

func (BackendCapabilities) Validate() error { return nil }
