package docfetch

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/goliatone/go-docgen/docgen"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(12, 8, color.Black), imaging.PNG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

// local returns a fetcher allowed to reach httptest servers on loopback.
func local() *HTTPFetcher {
	f := New()
	f.AllowPrivate = true
	return f
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	payload := pngBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	img, err := local().Fetch(context.Background(), server.URL+"/p.png")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 12, 8) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestHTTPFetcher_Status(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := local().Fetch(context.Background(), server.URL)
	if docgen.KindFromError(err) != docgen.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestHTTPFetcher_NotAnImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	_, err := local().Fetch(context.Background(), server.URL)
	if docgen.KindFromError(err) != docgen.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	fetcher := &HTTPFetcher{Timeout: 50 * time.Millisecond, AllowPrivate: true}
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if docgen.KindFromError(err) != docgen.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestHTTPFetcher_RejectsNonHTTP(t *testing.T) {
	_, err := New().Fetch(context.Background(), "file:///etc/passwd")
	if docgen.KindFromError(err) != docgen.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHTTPFetcher_RefusesLoopbackByDefault(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(pngBytes(t))
	}))
	defer server.Close()

	_, err := New().Fetch(context.Background(), server.URL+"/p.png")
	if !errors.Is(err, ErrBlockedAddress) {
		t.Fatalf("expected blocked address, got %v", err)
	}
	if docgen.KindFromError(err) != docgen.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no request to reach the server")
	}
}

func TestHTTPFetcher_RefusesIPv6Loopback(t *testing.T) {
	_, err := New().Fetch(context.Background(), "http://[::1]:9/metadata")
	if !errors.Is(err, ErrBlockedAddress) {
		t.Fatalf("expected blocked address, got %v", err)
	}
}

func TestPublicAddr(t *testing.T) {
	cases := map[string]bool{
		"8.8.8.8":         true,
		"2001:4860::8888": true,
		"127.0.0.1":       false,
		"10.0.0.7":        false,
		"172.16.4.1":      false,
		"192.168.1.1":     false,
		"169.254.169.254": false,
		"0.0.0.0":         false,
		"::1":             false,
		"fe80::1":         false,
		"fd00::1":         false,
	}
	for raw, want := range cases {
		if got := publicAddr(netip.MustParseAddr(raw)); got != want {
			t.Fatalf("publicAddr(%s) = %v, want %v", raw, got, want)
		}
	}
}

// hugePNG is a valid PNG whose header claims width x height pixels.
func hugePNG(t *testing.T, width, height uint32) []byte {
	t.Helper()
	raw := pngBytes(t)
	binary.BigEndian.PutUint32(raw[16:20], width)
	binary.BigEndian.PutUint32(raw[20:24], height)
	binary.BigEndian.PutUint32(raw[29:33], crc32.ChecksumIEEE(raw[12:29]))
	return raw
}

func TestHTTPFetcher_RejectsOversizedDimensions(t *testing.T) {
	payload := hugePNG(t, 100_000, 100_000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	start := time.Now()
	_, err := local().Fetch(context.Background(), server.URL)
	if docgen.KindFromError(err) != docgen.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("expected the header check to fail fast, took %s", elapsed)
	}
}

func TestHTTPFetcher_PixelBudget(t *testing.T) {
	payload := pngBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	fetcher := local()
	fetcher.MaxPixels = 95
	if _, err := fetcher.Fetch(context.Background(), server.URL); docgen.KindFromError(err) != docgen.KindUpstream {
		t.Fatalf("expected 12x8 image over a 95 pixel budget to fail, got %v", err)
	}
	fetcher = local()
	fetcher.MaxPixels = 96
	if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("expected 12x8 image within budget, got %v", err)
	}
}

func TestHTTPFetcher_RejectsOversizedBody(t *testing.T) {
	payload := pngBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	fetcher := local()
	fetcher.MaxBytes = int64(len(payload) - 1)
	if _, err := fetcher.Fetch(context.Background(), server.URL); docgen.KindFromError(err) != docgen.KindUpstream {
		t.Fatalf("expected oversized body to fail, got %v", err)
	}
}
