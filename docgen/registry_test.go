package docgen

import "testing"

func TestBuiltinRegistry(t *testing.T) {
	reg, err := NewBuiltinRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	want := []string{"fatura", "certificado", "catalogo_produtos", "fique_de_olho"}
	specs := reg.List()
	if len(specs) != len(want) {
		t.Fatalf("expected %d templates, got %d", len(want), len(specs))
	}
	for i, id := range want {
		if specs[i].ID != id {
			t.Fatalf("expected %s at %d, got %s", id, i, specs[i].ID)
		}
		if !reg.Exists(id) {
			t.Fatalf("expected %s to exist", id)
		}
	}
	fatura, _ := reg.Spec("fatura")
	if len(fatura.ListFields) != 1 || fatura.ListFields[0].Field != "itens" {
		t.Fatalf("expected itens list constraint, got %+v", fatura.ListFields)
	}
}

func TestRegistry_UnknownTemplate(t *testing.T) {
	reg := NewTemplateRegistry()
	_, err := reg.Spec("nope")
	if KindFromError(err) != KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	reg := NewTemplateRegistry()
	if err := reg.Register(TemplateSpec{ID: "a"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(TemplateSpec{ID: "a"}); KindFromError(err) != KindValidation {
		t.Fatalf("expected duplicate to be rejected, got %v", err)
	}
}

func TestRegistry_SpecsAreCopies(t *testing.T) {
	reg, _ := NewBuiltinRegistry()
	spec, _ := reg.Spec("fatura")
	spec.RequiredFields[0] = "mutated"
	spec.ExampleData["cliente"] = "mutated"

	again, _ := reg.Spec("fatura")
	if again.RequiredFields[0] != "cliente" {
		t.Fatalf("registry spec was mutated through a copy")
	}
	if again.ExampleData["cliente"] != "João Silva" {
		t.Fatalf("registry example data was mutated through a copy")
	}
}

func TestBuiltinRegistry_Orientation(t *testing.T) {
	reg, err := NewBuiltinRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	for _, spec := range reg.List() {
		if got, want := spec.Landscape(), spec.ID == "certificado"; got != want {
			t.Fatalf("%s: expected landscape %v, got %v", spec.ID, want, got)
		}
	}
}
