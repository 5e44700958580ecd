package docgen

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// DefaultRetention is how long generated documents are kept for download.
const DefaultRetention = 24 * time.Hour

// DefaultObjectPrefix prefixes uploaded object keys.
const DefaultObjectPrefix = "documents/"

// Service generates documents from templates.
type Service interface {
	Render(ctx context.Context, req RenderRequest) (RenderResult, error)
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
	Capabilities(ctx context.Context) Capabilities
	Templates() []TemplateSpec
	Template(name string) (TemplateSpec, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, ArtifactMeta, error)
	Cleanup(ctx context.Context, maxAge time.Duration) (int, error)
}

// GenerateRequest renders a document, keeps it for download and optionally
// uploads it to object storage.
type GenerateRequest struct {
	Template string
	Data     Data
	Format   Format
	Upload   bool
}

// GenerateResult reports a generated document.
type GenerateResult struct {
	Success      bool      `json:"success"`
	TemplateName string    `json:"template_name"`
	OutputFormat Format    `json:"output_format"`
	GeneratedAt  time.Time `json:"generated_at"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	Tier         Tier      `json:"tier"`
	Attempts     []Attempt `json:"attempts,omitempty"`
	Uploaded     bool      `json:"uploaded_to_minio"`
	URL          string    `json:"minio_url,omitempty"`
	UploadError  string    `json:"upload_error,omitempty"`
}

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Registry     *TemplateRegistry
	Normalizer   Normalizer
	HTML         PDFBackend
	Flow         PDFBackend
	Canvas       CanvasBackend
	Raster       Rasterizer
	Placeholder  PlaceholderFunc
	ProbeTimeout time.Duration
	Pool         *Pool
	Store        ArtifactStore
	Objects      ObjectStorage
	ObjectPrefix string
	Filenames    FilenameBuilder
	Retention    time.Duration
	Logger       Logger
	Now          func() time.Time
}

type service struct {
	registry     *TemplateRegistry
	normalizer   Normalizer
	prober       *Prober
	html         PDFBackend
	flow         PDFBackend
	canvas       CanvasBackend
	raster       Rasterizer
	placeholder  PlaceholderFunc
	pool         *Pool
	store        ArtifactStore
	objects      ObjectStorage
	objectPrefix string
	filenames    FilenameBuilder
	retention    time.Duration
	logger       Logger
	now          func() time.Time
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) (Service, error) {
	registry := cfg.Registry
	if registry == nil {
		var err error
		registry, err = NewBuiltinRegistry()
		if err != nil {
			return nil, err
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	normalizer := cfg.Normalizer
	if normalizer.Now == nil {
		normalizer.Now = nowFn
	}
	filenames := cfg.Filenames
	if filenames.Now == nil {
		filenames.Now = nowFn
	}
	pool := cfg.Pool
	if pool == nil {
		pool = NewPool(DefaultPoolSize)
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	prefix := cfg.ObjectPrefix
	if prefix == "" {
		prefix = DefaultObjectPrefix
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	return &service{
		registry:   registry,
		normalizer: normalizer,
		prober: &Prober{
			HTML:    cfg.HTML,
			Flow:    cfg.Flow,
			Raster:  cfg.Raster,
			Timeout: cfg.ProbeTimeout,
			Logger:  logger,
			Now:     nowFn,
		},
		html:         cfg.HTML,
		flow:         cfg.Flow,
		canvas:       cfg.Canvas,
		raster:       cfg.Raster,
		placeholder:  cfg.Placeholder,
		pool:         pool,
		store:        store,
		objects:      cfg.Objects,
		objectPrefix: prefix,
		filenames:    filenames,
		retention:    retention,
		logger:       logger,
		now:          nowFn,
	}, nil
}

func (s *service) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	spec, err := s.registry.Spec(req.Template)
	if err != nil {
		return RenderResult{}, err
	}
	format, err := ParseFormat(string(req.Format))
	if err != nil {
		return RenderResult{}, err
	}
	if err := Validate(spec, req.Data); err != nil {
		return RenderResult{}, err
	}
	data := s.normalizer.Normalize(spec, req.Data)

	dispatcher := Dispatcher{
		Capabilities: s.prober.Capabilities(ctx),
		HTML:         s.html,
		Flow:         s.flow,
		Canvas:       s.canvas,
		Raster:       s.raster,
		Placeholder:  s.placeholder,
		Logger:       s.logger,
	}

	var result RenderResult
	err = s.pool.Do(ctx, func(ctx context.Context) error {
		var renderErr error
		result, renderErr = dispatcher.Render(ctx, spec, data, format)
		return renderErr
	})
	if err != nil {
		return result, err
	}

	filename, err := s.filenames.Build(spec.ID, format)
	if err != nil {
		return result, err
	}
	result.Filename = filename
	s.logger.Debugf("rendered %s as %s via %s tier (%d bytes)", spec.ID, format, result.Tier, result.Size)
	return result, nil
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rendered, err := s.Render(ctx, RenderRequest{Template: req.Template, Data: req.Data, Format: req.Format})
	if err != nil {
		return GenerateResult{}, err
	}

	result := GenerateResult{
		Success:      true,
		TemplateName: rendered.Template,
		OutputFormat: rendered.Format,
		GeneratedAt:  s.now(),
		Filename:     rendered.Filename,
		ContentType:  rendered.ContentType,
		Size:         rendered.Size,
		Tier:         rendered.Tier,
		Attempts:     rendered.Attempts,
	}

	if _, err := s.store.Put(ctx, rendered.Filename, bytes.NewReader(rendered.Bytes), ArtifactMeta{
		ContentType: rendered.ContentType,
		Filename:    rendered.Filename,
		Template:    rendered.Template,
		Format:      rendered.Format,
		CreatedAt:   result.GeneratedAt,
	}); err != nil {
		return GenerateResult{}, NewError(KindInternal, "store generated document", err)
	}

	if req.Upload {
		s.upload(ctx, rendered, &result)
	}
	return result, nil
}

// upload never fails the generation; problems are reported on the result.
func (s *service) upload(ctx context.Context, rendered RenderResult, result *GenerateResult) {
	if s.objects == nil {
		result.UploadError = "object storage is not configured"
		return
	}
	key := path.Join(strings.TrimSuffix(s.objectPrefix, "/"), rendered.Filename)
	url, err := s.objects.Put(ctx, key, rendered.Bytes, rendered.ContentType)
	if err != nil {
		s.logger.Errorf("upload %s failed: %v", key, err)
		result.UploadError = err.Error()
		return
	}
	result.Uploaded = true
	result.URL = url
}

func (s *service) Capabilities(ctx context.Context) Capabilities {
	return s.prober.Capabilities(ctx)
}

func (s *service) Templates() []TemplateSpec {
	return s.registry.List()
}

func (s *service) Template(name string) (TemplateSpec, error) {
	return s.registry.Spec(name)
}

func (s *service) Open(ctx context.Context, filename string) (io.ReadCloser, ArtifactMeta, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.HasPrefix(filename, ".") {
		return nil, ArtifactMeta{}, NewError(KindValidation, "invalid filename", nil)
	}
	return s.store.Open(ctx, filename)
}

func (s *service) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = s.retention
	}
	removed, err := s.store.Sweep(ctx, s.now().Add(-maxAge))
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		s.logger.Infof("removed %d expired documents", removed)
	}
	return removed, nil
}
