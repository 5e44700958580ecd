package docformgen

import (
	"testing"

	"github.com/goliatone/go-docgen/docgen"
)

func TestGenerateForm_Fatura(t *testing.T) {
	registry, err := docgen.NewBuiltinRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	spec, err := registry.Spec("fatura")
	if err != nil {
		t.Fatalf("spec: %v", err)
	}

	form := GenerateForm("/api/", spec)
	if form.Action != "/api/generate" || form.Method != "POST" {
		t.Fatalf("unexpected action %s %s", form.Method, form.Action)
	}
	if form.Fields[0].Value != "fatura" {
		t.Fatalf("expected template_name to carry the template id, got %v", form.Fields[0].Value)
	}

	byName := map[string]Field{}
	for _, field := range form.Fields {
		byName[field.Name] = field
	}
	cliente, ok := byName["data.cliente"]
	if !ok || !cliente.Required || cliente.Label != "Cliente" {
		t.Fatalf("unexpected cliente field %+v", cliente)
	}
	itens, ok := byName["data.itens"]
	if !ok || itens.Type != "json" || itens.Hint == "" {
		t.Fatalf("expected itens to be a json list field, got %+v", itens)
	}
	format := byName["output_format"]
	if len(format.Options) != 3 || format.Options[0] != "pdf" {
		t.Fatalf("unexpected format options %v", format.Options)
	}
}

func TestLabel(t *testing.T) {
	if got := label("numero_fatura"); got != "Numero Fatura" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := label("índice_geral"); got != "Índice Geral" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestTemplateUI_Theme(t *testing.T) {
	ui := TemplateUI("", docgen.TemplateSpec{ID: "x"})
	if ui.Form.Title != "x" || ui.Theme.Tokens["primary"] == "" {
		t.Fatalf("unexpected ui %+v", ui)
	}
	if ui.Form.Action != "/generate" {
		t.Fatalf("unexpected action %q", ui.Form.Action)
	}
}
