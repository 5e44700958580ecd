package command

import (
	"context"
	"testing"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-docgen/docgen"
	"github.com/goliatone/go-docgen/query"
)

func TestCommandQueryWiring(t *testing.T) {
	store := docgen.NewMemoryStore()
	svc, err := docgen.NewService(docgen.ServiceConfig{Store: store})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	reg := gcmd.NewRegistry()
	subs, err := RegisterHandlers(reg, svc)
	if err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	spec, err := dispatcher.Query[query.TemplateDetail, docgen.TemplateSpec](
		context.Background(),
		query.TemplateDetail{Name: "fatura"},
	)
	if err != nil {
		t.Fatalf("query template: %v", err)
	}

	result, err := dispatcher.DispatchWithResult[GenerateDocument, docgen.GenerateResult](
		context.Background(),
		GenerateDocument{Request: docgen.GenerateRequest{
			Template: spec.ID,
			Data:     spec.ExampleData,
			Format:   docgen.FormatPNG,
		}},
	)
	if err != nil {
		t.Fatalf("dispatch generate: %v", err)
	}
	if !result.Success || result.Tier != docgen.TierPlaceholder {
		t.Fatalf("expected placeholder png without backends, got %+v", result)
	}

	rc, _, err := svc.Open(context.Background(), result.Filename)
	if err != nil {
		t.Fatalf("open generated document: %v", err)
	}
	rc.Close()

	removed, err := dispatcher.DispatchWithResult[CleanupDocuments, int](
		context.Background(),
		CleanupDocuments{},
	)
	if err != nil {
		t.Fatalf("dispatch cleanup: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected fresh document to survive cleanup, removed %d", removed)
	}
}

func TestRegisterHandlers_RequiresService(t *testing.T) {
	if _, err := RegisterHandlers(nil, nil); err == nil {
		t.Fatalf("expected error")
	}
}
