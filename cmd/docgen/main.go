package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	docrouter "github.com/goliatone/go-docgen/adapters/router"
	"github.com/goliatone/go-docgen/cmd/docgen/config"
	"github.com/goliatone/go-router"
	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docgen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("docgen", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to a docgen.yaml config file")
	port := flags.StringP("port", "p", "", "listen port (overrides config)")
	batchFile := flags.String("batch", "", "generate the documents listed in a JSON file and exit")
	examples := flags.Bool("examples", false, "generate every template's example document and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	base, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = base.Sync() }()
	logger := base.Sugar()

	_, _ = maxprocs.Set(maxprocs.Logger(logger.Debugf))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	if *batchFile != "" || *examples {
		report, err := app.Batch.Run(ctx, *batchFile)
		if err != nil {
			return err
		}
		for _, result := range report.Generated {
			logger.Infow("generated document",
				"template", result.TemplateName,
				"file", result.Filename,
				"tier", result.Tier,
				"size", result.Size,
			)
		}
		if report.Failed > 0 {
			return fmt.Errorf("%d documents failed", report.Failed)
		}
		return nil
	}

	caps := app.Service.Capabilities(ctx)
	logger.Infow("rendering backends probed",
		"html_to_pdf", caps.HTMLToPDF,
		"flow_document_pdf", caps.FlowDocumentPDF,
		"pdf_to_raster", caps.PDFToRaster,
	)

	srv := router.NewFiberAdapter(fiberAppInitializer(cfg))
	docrouter.NewHandler(app.APIConfig()).RegisterRoutes(srv.Router())

	go app.RunCleanup(ctx)

	addr := cfg.Server.Addr()
	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("starting server on http://%s%s", addr, cfg.Server.BasePath)
		serveErr <- srv.Serve(addr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown error", zap.Error(err))
	}
	return nil
}

func fiberAppInitializer(cfg config.Config) func(*fiber.App) *fiber.App {
	return func(*fiber.App) *fiber.App {
		fiberApp := fiber.New(fiber.Config{
			AppName:   "docgen",
			BodyLimit: int(cfg.Server.MaxBodyBytes) + 1024,
		})

		fiberApp.Use(recover.New())
		fiberApp.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		}))
		fiberApp.Use(cors.New(cors.Config{
			AllowOrigins: "*",
			AllowMethods: "GET,POST,HEAD,OPTIONS",
			AllowHeaders: "Content-Type,Idempotency-Key",
		}))

		return fiberApp
	}
}
