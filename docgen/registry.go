package docgen

import (
	"fmt"
	"strings"
	"sync"
)

// TemplateRegistry stores template specs. It is populated at startup and
// read concurrently afterwards.
type TemplateRegistry struct {
	mu    sync.RWMutex
	specs map[string]TemplateSpec
	order []string
}

// NewTemplateRegistry creates an empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{specs: make(map[string]TemplateSpec)}
}

// Register adds a template spec.
func (r *TemplateRegistry) Register(spec TemplateSpec) error {
	spec.ID = strings.TrimSpace(spec.ID)
	if spec.ID == "" {
		return NewError(KindValidation, "template id is required", nil)
	}
	if spec.Name == "" {
		spec.Name = spec.ID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[spec.ID]; exists {
		return NewError(KindValidation, fmt.Sprintf("template %q already registered", spec.ID), nil)
	}
	r.specs[spec.ID] = cloneSpec(spec)
	r.order = append(r.order, spec.ID)
	return nil
}

// Exists reports whether a template is registered.
func (r *TemplateRegistry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.specs[name]
	return ok
}

// Spec returns the spec for a template.
func (r *TemplateRegistry) Spec(name string) (TemplateSpec, error) {
	r.mu.RLock()
	spec, ok := r.specs[name]
	r.mu.RUnlock()
	if !ok {
		return TemplateSpec{}, NewError(KindNotFound, fmt.Sprintf("template %q not found", name), nil)
	}
	return cloneSpec(spec), nil
}

// List returns all specs in registration order.
func (r *TemplateRegistry) List() []TemplateSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TemplateSpec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneSpec(r.specs[id]))
	}
	return out
}

func cloneSpec(spec TemplateSpec) TemplateSpec {
	spec.RequiredFields = append([]string(nil), spec.RequiredFields...)
	spec.OptionalFields = append([]string(nil), spec.OptionalFields...)
	if len(spec.ListFields) > 0 {
		lists := make([]ListField, len(spec.ListFields))
		for i, lf := range spec.ListFields {
			lists[i] = ListField{Field: lf.Field, Required: append([]string(nil), lf.Required...)}
		}
		spec.ListFields = lists
	}
	if spec.Defaults != nil {
		spec.Defaults = cloneMap(spec.Defaults)
	}
	if spec.ExampleData != nil {
		spec.ExampleData = cloneMap(spec.ExampleData)
	}
	return spec
}
