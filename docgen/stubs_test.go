package docgen

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
)

type stubPDFBackend struct {
	out      []byte
	err      error
	probeErr error
	panics   bool
	probes   atomic.Int32
	renders  atomic.Int32
}

func (s *stubPDFBackend) Render(ctx context.Context, spec TemplateSpec, data Data) ([]byte, error) {
	s.renders.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func (s *stubPDFBackend) Probe(ctx context.Context) error {
	s.probes.Add(1)
	if s.panics {
		panic("probe exploded")
	}
	return s.probeErr
}

type stubCanvas struct {
	supported map[string]bool
	img       image.Image
	err       error
}

func (s *stubCanvas) Supports(template string) bool {
	return s.supported[template]
}

func (s *stubCanvas) Draw(ctx context.Context, template string, data Data) (image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.img, nil
}

type stubRasterizer struct {
	img      image.Image
	err      error
	probeErr error
	got      []byte
}

func (s *stubRasterizer) Rasterize(ctx context.Context, pdf []byte) (image.Image, error) {
	s.got = pdf
	if s.err != nil {
		return nil, s.err
	}
	return s.img, nil
}

func (s *stubRasterizer) Probe(ctx context.Context) error {
	return s.probeErr
}

type stubObjects struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (s *stubObjects) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.mu.Unlock()
	return "http://objects.local/" + key, nil
}

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Infof(string, ...any)  {}
func (l *recordingLogger) Errorf(format string, args ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, format)
	l.mu.Unlock()
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

var errBackend = errors.New("backend failed")

var stubPDF = []byte("%PDF-1.4 stub")
