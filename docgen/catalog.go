package docgen

import (
	_ "embed"

	"github.com/goccy/go-yaml"
)

//go:embed catalog.yaml
var builtinCatalog []byte

type catalogFile struct {
	Templates []TemplateSpec `yaml:"templates"`
}

// ParseCatalog decodes a YAML template catalog.
func ParseCatalog(data []byte) ([]TemplateSpec, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, NewError(KindValidation, "invalid template catalog", err)
	}
	for i := range file.Templates {
		file.Templates[i].Defaults = normalizeYAML(file.Templates[i].Defaults)
		file.Templates[i].ExampleData = normalizeYAML(file.Templates[i].ExampleData)
	}
	return file.Templates, nil
}

// BuiltinTemplates returns the templates shipped with the module.
func BuiltinTemplates() []TemplateSpec {
	specs, err := ParseCatalog(builtinCatalog)
	if err != nil {
		panic(err)
	}
	return specs
}

// NewBuiltinRegistry returns a registry holding the built-in templates.
func NewBuiltinRegistry() (*TemplateRegistry, error) {
	reg := NewTemplateRegistry()
	for _, spec := range BuiltinTemplates() {
		if err := reg.Register(spec); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// normalizeYAML rewrites decoded YAML values into the shapes produced by
// encoding/json so renderers see one representation.
func normalizeYAML(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out, _ := normalizeYAMLValue(in).(map[string]any)
	return out
}

func normalizeYAMLValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeYAMLValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[StringValue(key)] = normalizeYAMLValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeYAMLValue(item)
		}
		return out
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return v
	}
}
