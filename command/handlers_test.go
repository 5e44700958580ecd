package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-docgen/docgen"
)

type stubService struct {
	docgen.Service
	generated []docgen.GenerateRequest
	result    docgen.GenerateResult
	err       error
	maxAge    time.Duration
	removed   int
}

func (s *stubService) Generate(ctx context.Context, req docgen.GenerateRequest) (docgen.GenerateResult, error) {
	s.generated = append(s.generated, req)
	if s.err != nil {
		return docgen.GenerateResult{}, s.err
	}
	return s.result, nil
}

func (s *stubService) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	s.maxAge = maxAge
	return s.removed, s.err
}

func (s *stubService) Templates() []docgen.TemplateSpec {
	return []docgen.TemplateSpec{
		{ID: "fatura", ExampleData: docgen.Data{"cliente": "Ana"}},
		{ID: "vazio"},
	}
}

func TestGenerateDocumentValidate(t *testing.T) {
	if err := (GenerateDocument{}).Validate(); err == nil {
		t.Fatalf("expected template error")
	}
	msg := GenerateDocument{Request: docgen.GenerateRequest{Template: "fatura", Format: "docx"}}
	if err := msg.Validate(); err == nil {
		t.Fatalf("expected format error")
	}
	msg.Request.Format = "jpg"
	if err := msg.Validate(); err != nil {
		t.Fatalf("expected jpg to be accepted: %v", err)
	}
}

func TestGenerateDocumentHandler_StoresResult(t *testing.T) {
	svc := &stubService{result: docgen.GenerateResult{Success: true, Filename: "fatura.pdf"}}
	handler := NewGenerateDocumentHandler(svc)

	var result docgen.GenerateResult
	err := handler.Execute(context.Background(), GenerateDocument{
		Request: docgen.GenerateRequest{Template: "fatura"},
		Result:  &result,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Filename != "fatura.pdf" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(svc.generated) != 1 || svc.generated[0].Template != "fatura" {
		t.Fatalf("unexpected requests %+v", svc.generated)
	}
}

func TestGenerateDocumentHandler_RequiresService(t *testing.T) {
	handler := NewGenerateDocumentHandler(nil)
	if err := handler.Execute(context.Background(), GenerateDocument{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCleanupDocumentsHandler(t *testing.T) {
	svc := &stubService{removed: 3}
	handler := NewCleanupDocumentsHandler(svc)

	var removed int
	if err := handler.Execute(context.Background(), CleanupDocuments{MaxAge: time.Hour, Result: &removed}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if removed != 3 || svc.maxAge != time.Hour {
		t.Fatalf("unexpected cleanup removed=%d maxAge=%s", removed, svc.maxAge)
	}

	if err := handler.CronHandler()(); err != nil {
		t.Fatalf("cron: %v", err)
	}
	if svc.maxAge != 0 {
		t.Fatalf("expected cron to use default retention, got %s", svc.maxAge)
	}
	if handler.CronOptions().Expression == "" {
		t.Fatalf("expected cron expression")
	}
}

func TestCleanupCLI_ParsesMaxAge(t *testing.T) {
	svc := &stubService{}
	handler := NewCleanupDocumentsHandler(svc)
	cli := handler.CLIHandler().(*cleanupCLI)

	cli.MaxAge = "90m"
	if err := cli.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if svc.maxAge != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", svc.maxAge)
	}

	cli.MaxAge = "soon"
	if err := cli.Run(); err == nil {
		t.Fatalf("expected invalid max age")
	}
}

func TestCleanupDocumentsHandler_PropagatesError(t *testing.T) {
	svc := &stubService{err: errors.New("disk gone")}
	handler := NewCleanupDocumentsHandler(svc)
	if err := handler.Execute(context.Background(), CleanupDocuments{}); err == nil {
		t.Fatalf("expected error")
	}
}
