package stores3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-docgen/docgen"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

type fakeS3 struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func newTestStore(t *testing.T, endpoint string) *Store {
	t.Helper()
	store, err := New(context.Background(), Config{
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "documentos",
		PathStyle: true,
	}, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestNew_RequiresBucketAndCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{AccessKey: "a", SecretKey: "b"}, nil)
	if docgen.KindFromError(err) != docgen.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = New(context.Background(), Config{Bucket: "docs"}, nil)
	if fields := docgen.FieldsFromError(err); len(fields) != 2 {
		t.Fatalf("expected credential fields, got %v", fields)
	}
}

func TestEndpointURL(t *testing.T) {
	cases := map[string]struct {
		endpoint string
		ssl      bool
		want     string
	}{
		"default":  {"", false, "http://localhost:9000"},
		"ssl":      {"minio.local:9000", true, "https://minio.local:9000"},
		"explicit": {"http://minio:9000/", true, "http://minio:9000"},
	}
	for name, tc := range cases {
		if got := endpointURL(tc.endpoint, tc.ssl); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", name, tc.want, got)
		}
	}
}

func TestStore_URLIsPresigned(t *testing.T) {
	store := newTestStore(t, "http://localhost:9000")
	url, err := store.URL(context.Background(), "documents/fatura.pdf")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:9000/documentos/documents/fatura.pdf?") {
		t.Fatalf("unexpected url %q", url)
	}
	if !strings.Contains(url, "X-Amz-Signature=") || !strings.Contains(url, "X-Amz-Expires=604800") {
		t.Fatalf("expected presign query, got %q", url)
	}
}

func TestStore_Put(t *testing.T) {
	fake := &fakeS3{}
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t, server.URL)
	url, err := store.Put(context.Background(), "/documents/fatura.pdf", []byte("%PDF-1.4"), "application/pdf")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.Contains(url, "/documentos/documents/fatura.pdf") {
		t.Fatalf("unexpected url %q", url)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.requests) != 1 || fake.requests[0].method != http.MethodPut {
		t.Fatalf("expected one PUT, got %+v", fake.requests)
	}
	if fake.requests[0].path != "/documentos/documents/fatura.pdf" {
		t.Fatalf("unexpected path %q", fake.requests[0].path)
	}
}

func TestStore_PutRequiresKey(t *testing.T) {
	store := newTestStore(t, "http://localhost:9000")
	if _, err := store.Put(context.Background(), "/", nil, ""); docgen.KindFromError(err) != docgen.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStore_EnsureBucketExists(t *testing.T) {
	fake := &fakeS3{}
	server := httptest.NewServer(fake)
	defer server.Close()

	if err := newTestStore(t, server.URL).EnsureBucket(context.Background()); err != nil {
		t.Fatalf("ensure bucket: %v", err)
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.requests) != 1 || fake.requests[0].method != http.MethodHead {
		t.Fatalf("expected a single HEAD, got %+v", fake.requests)
	}
}
