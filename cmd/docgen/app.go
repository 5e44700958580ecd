package main

import (
	"context"
	"fmt"
	"os"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-docgen/adapters/canvas"
	"github.com/goliatone/go-docgen/adapters/docapi"
	"github.com/goliatone/go-docgen/adapters/fetch"
	"github.com/goliatone/go-docgen/adapters/flow"
	"github.com/goliatone/go-docgen/adapters/pdf"
	"github.com/goliatone/go-docgen/adapters/raster"
	"github.com/goliatone/go-docgen/adapters/store/fs"
	"github.com/goliatone/go-docgen/adapters/store/s3"
	"github.com/goliatone/go-docgen/adapters/template"
	"github.com/goliatone/go-docgen/cmd/docgen/config"
	doccmd "github.com/goliatone/go-docgen/command"
	"github.com/goliatone/go-docgen/docgen"
	"go.uber.org/zap"
)

// App holds the process dependencies.
type App struct {
	Config        config.Config
	Logger        *zap.SugaredLogger
	Service       docgen.Service
	Registry      *gcmd.Registry
	Batch         *doccmd.BatchCommand
	closers       []func() error
	subscriptions []dispatcher.Subscription
	idempotency   *docapi.MemoryIdempotencyStore
}

// NewApp constructs the document service and its backends.
func NewApp(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*App, error) {
	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	app := &App{Config: cfg, Logger: logger}

	issuer := docgen.Issuer{
		Name:    cfg.Render.IssuerName,
		TaxID:   cfg.Render.IssuerTaxID,
		Address: cfg.Render.IssuerAddress,
	}
	if issuer.Name == "" {
		issuer = docgen.DefaultIssuer
	}

	html, err := app.htmlBackend(cfg, issuer)
	if err != nil {
		return nil, err
	}

	fetcher := docfetch.New()
	fetcher.Timeout = cfg.Render.FetchTimeout
	fetcher.MaxPixels = cfg.Render.FetchMaxPixels
	fetcher.AllowPrivate = cfg.Render.FetchAllowPrivate

	var raster docgen.Rasterizer
	if cfg.Raster.Enabled {
		raster = docraster.PDFToPPM{
			Command: cfg.Raster.PDFToPPMPath,
			DPI:     cfg.Raster.DPI,
			Timeout: cfg.Raster.Timeout,
		}
	}

	canvas := doccanvas.New(doccanvas.Config{
		Fonts:   doccanvas.FontConfig{Regular: cfg.Render.FontRegular, Bold: cfg.Render.FontBold},
		Fetcher: fetcher,
		Issuer:  issuer,
		Logger:  logger,
	})

	serviceCfg := docgen.ServiceConfig{
		HTML:         html,
		Flow:         docflow.New(issuer),
		Canvas:       canvas,
		Raster:       raster,
		Placeholder:  canvas.Placeholder,
		ProbeTimeout: cfg.Render.ProbeTimeout,
		Pool:         docgen.NewPool(cfg.Render.PoolSize),
		Store:        storefs.NewStore(cfg.Storage.Dir),
		Filenames:    docgen.FilenameBuilder{Unique: cfg.Render.UniqueFilenames},
		Retention:    cfg.Storage.Retention,
		Logger:       logger,
	}

	if cfg.S3.Enabled {
		objects, err := stores3.New(ctx, stores3.Config{
			Endpoint:   cfg.S3.Endpoint,
			Region:     cfg.S3.Region,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
			Bucket:     cfg.S3.Bucket,
			UseSSL:     cfg.S3.UseSSL,
			PathStyle:  cfg.S3.PathStyle,
			PresignTTL: cfg.S3.PresignTTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		// Uploads report their own failures, so an unreachable bucket at
		// startup is not fatal.
		if err := objects.EnsureBucket(ctx); err != nil {
			logger.Errorf("object storage bucket check failed: %v", err)
		}
		serviceCfg.Objects = objects
	}

	svc, err := docgen.NewService(serviceCfg)
	if err != nil {
		return nil, err
	}
	app.Service = svc

	app.Registry = gcmd.NewRegistry()
	subs, err := doccmd.RegisterHandlers(app.Registry, svc)
	app.subscriptions = subs
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Batch = doccmd.NewBatchCommand(svc, doccmd.ExampleLoader(svc, docgen.FormatPDF, docgen.FormatPNG),
		doccmd.WithBatchLogger(logger))

	return app, nil
}

func (a *App) htmlBackend(cfg config.Config, issuer docgen.Issuer) (docgen.PDFBackend, error) {
	if !cfg.PDF.Enabled {
		return nil, nil
	}
	executor, err := doctemplate.NewPongo2Executor()
	if err != nil {
		return nil, fmt.Errorf("failed to compile layouts: %w", err)
	}

	var engine docpdf.Engine
	switch cfg.PDF.Engine {
	case "wkhtmltopdf":
		engine = docpdf.WKHTMLTOPDFEngine{
			Command: cfg.PDF.WKHTMLTOPDFPath,
			Timeout: cfg.PDF.Timeout,
		}
	default:
		chromium := &docpdf.ChromiumEngine{
			BrowserPath: cfg.PDF.ChromiumPath,
			Headless:    cfg.PDF.Headless,
			Timeout:     cfg.PDF.Timeout,
			Args:        cfg.PDF.Args,
		}
		a.closers = append(a.closers, chromium.Close)
		engine = chromium
	}

	options := docpdf.DefaultOptions()
	if cfg.PDF.PageSize != "" {
		options.PageSize = cfg.PDF.PageSize
	}
	return docpdf.Renderer{
		Enabled:      true,
		HTML:         doctemplate.Renderer{Enabled: true, Templates: executor, Issuer: issuer},
		Engine:       engine,
		Options:      options,
		MaxHTMLBytes: 8 << 20,
	}, nil
}

// APIConfig returns the transport configuration for the document routes.
func (a *App) APIConfig() docapi.Config {
	if a.idempotency == nil {
		a.idempotency = docapi.NewMemoryIdempotencyStore()
	}
	return docapi.Config{
		Service:          a.Service,
		BasePath:         a.Config.Server.BasePath,
		MaxBodyBytes:     a.Config.Server.MaxBodyBytes,
		Logger:           a.Logger,
		IdempotencyStore: a.idempotency,
		IdempotencyTTL:   a.Config.Storage.Retention,
	}
}

// RunCleanup dispatches periodic cleanup until ctx is done.
func (a *App) RunCleanup(ctx context.Context) {
	interval := a.Config.Storage.CleanupInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := dispatcher.DispatchWithResult[doccmd.CleanupDocuments, int](ctx, doccmd.CleanupDocuments{})
			if err != nil {
				a.Logger.Errorf("cleanup failed: %v", err)
				continue
			}
			a.Logger.Debugf("cleanup removed %d documents", removed)
		}
	}
}

// Close releases backends and handler subscriptions.
func (a *App) Close() {
	for _, sub := range a.subscriptions {
		sub.Unsubscribe()
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.Logger.Errorf("close: %v", err)
		}
	}
}
