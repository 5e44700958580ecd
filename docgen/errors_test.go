package docgen

import (
	"context"
	"fmt"
	"testing"

	errorslib "github.com/goliatone/go-errors"
)

func TestAsGoErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		category errorslib.Category
		code     string
	}{
		{NewError(KindValidation, "bad input", nil), errorslib.CategoryValidation, "validation"},
		{NewError(KindNotFound, "missing", nil), errorslib.CategoryNotFound, "not_found"},
		{NewError(KindUnavailable, "no backend", nil), errorslib.CategoryInternal, "rendering_unavailable"},
		{context.DeadlineExceeded, errorslib.CategoryOperation, "timeout"},
		{context.Canceled, errorslib.CategoryOperation, "canceled"},
		{NewError(KindInternal, "boom", nil), errorslib.CategoryInternal, "internal"},
		{fmt.Errorf("plain"), errorslib.CategoryInternal, "internal"},
	}

	for _, tc := range cases {
		mapped := AsGoError(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapping for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("expected category %s, got %s", tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.code {
			t.Fatalf("expected text code %s, got %s", tc.code, mapped.TextCode)
		}
	}
}

func TestKindFromError_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewValidationError("missing", "cliente"))
	if KindFromError(err) != KindValidation {
		t.Fatalf("expected validation kind, got %q", KindFromError(err))
	}
	fields := FieldsFromError(err)
	if len(fields) != 1 || fields[0] != "cliente" {
		t.Fatalf("expected cliente field, got %v", fields)
	}
	if KindFromError(nil) != "" {
		t.Fatalf("expected empty kind for nil error")
	}
}
