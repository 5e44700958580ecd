package docgen

import (
	"context"
	"image"
	"io"
	"time"
)

// Format is the rendered document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// Tier identifies the rendering strategy that produced a document.
type Tier string

const (
	TierHTML        Tier = "html"
	TierFlow        Tier = "flow"
	TierCanvas      Tier = "canvas"
	TierRasterized  Tier = "rasterized"
	TierPlaceholder Tier = "placeholder"
)

// Orientation is the page orientation a template is laid out for.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Data is the caller supplied payload for a template.
type Data = map[string]any

// TemplateSpec describes a registered template.
type TemplateSpec struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description" yaml:"description"`
	RequiredFields []string       `json:"required_fields" yaml:"required_fields"`
	OptionalFields []string       `json:"optional_fields" yaml:"optional_fields"`
	ListFields     []ListField    `json:"list_fields,omitempty" yaml:"list_fields"`
	Orientation    Orientation    `json:"orientation,omitempty" yaml:"orientation"`
	Defaults       map[string]any `json:"defaults,omitempty" yaml:"defaults"`
	ExampleData    map[string]any `json:"example_data,omitempty" yaml:"example_data"`
}

// Landscape reports whether the template prints on landscape pages.
func (s TemplateSpec) Landscape() bool {
	return s.Orientation == OrientationLandscape
}

// ListField constrains the entries of a list valued field.
type ListField struct {
	Field    string   `json:"field" yaml:"field"`
	Required []string `json:"required" yaml:"required"`
}

// RenderRequest captures a render request.
type RenderRequest struct {
	Template string
	Data     Data
	Format   Format
}

// Attempt records a tier that failed before a result was produced.
type Attempt struct {
	Tier  Tier   `json:"tier"`
	Error string `json:"error"`
}

// RenderResult holds a rendered document.
type RenderResult struct {
	Bytes       []byte
	Format      Format
	ContentType string
	Size        int64
	Template    string
	Filename    string
	Tier        Tier
	Attempts    []Attempt
}

// Product is an intermediate rendering output: PDF bytes or a raster image.
type Product struct {
	PDF   []byte
	Image image.Image
}

// Capabilities records which rendering tiers are usable in this process.
type Capabilities struct {
	HTMLToPDF       bool      `json:"html_to_pdf"`
	FlowDocumentPDF bool      `json:"flow_document_pdf"`
	PDFToRaster     bool      `json:"pdf_to_raster"`
	ProbedAt        time.Time `json:"probed_at"`
}

// PDFBackend renders normalized template data into PDF bytes.
type PDFBackend interface {
	Render(ctx context.Context, spec TemplateSpec, data Data) ([]byte, error)
	Probe(ctx context.Context) error
}

// CanvasBackend draws template data directly onto a raster canvas.
type CanvasBackend interface {
	Supports(template string) bool
	Draw(ctx context.Context, template string, data Data) (image.Image, error)
}

// Rasterizer converts the first page of a PDF into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte) (image.Image, error)
	Probe(ctx context.Context) error
}

// PlaceholderFunc builds the image returned when no raster tier succeeds.
type PlaceholderFunc func(template, reason string) image.Image

// ObjectStorage uploads rendered documents and returns a retrievable URL.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ArtifactMeta describes a stored document.
type ArtifactMeta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Filename    string    `json:"filename"`
	Template    string    `json:"template,omitempty"`
	Format      Format    `json:"format,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArtifactRef references a stored document.
type ArtifactRef struct {
	Key  string
	Meta ArtifactMeta
}

// ArtifactStore keeps rendered documents around for download.
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error)
	Delete(ctx context.Context, key string) error
	Sweep(ctx context.Context, before time.Time) (int, error)
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards log output.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
