// Package config loads the docgen server configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Render  RenderConfig
	PDF     PDFConfig
	Raster  RasterConfig
	Storage StorageConfig
	S3      S3Config
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Host            string
	Port            string
	BasePath        string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RenderConfig holds pipeline settings.
type RenderConfig struct {
	PoolSize          int
	ProbeTimeout      time.Duration
	UniqueFilenames   bool
	FontRegular       string
	FontBold          string
	FetchTimeout      time.Duration
	FetchMaxPixels    int64
	FetchAllowPrivate bool // permit images from loopback, private and link-local hosts
	IssuerName        string
	IssuerTaxID       string
	IssuerAddress     string
}

// PDFConfig holds the HTML-to-PDF engine settings.
type PDFConfig struct {
	Enabled         bool
	Engine          string // chromium, wkhtmltopdf
	ChromiumPath    string
	Headless        bool
	Args            []string
	WKHTMLTOPDFPath string
	Timeout         time.Duration
	PageSize        string
}

// RasterConfig holds the PDF rasterizer settings.
type RasterConfig struct {
	Enabled      bool
	PDFToPPMPath string
	DPI          int
	Timeout      time.Duration
}

// StorageConfig holds local document storage settings.
type StorageConfig struct {
	Dir             string
	Retention       time.Duration
	CleanupInterval time.Duration
}

// S3Config holds object storage settings.
type S3Config struct {
	Enabled    bool
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PathStyle  bool
	PresignTTL time.Duration
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8000",
			BasePath:        "/api",
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		Render: RenderConfig{
			PoolSize:        4,
			ProbeTimeout:    15 * time.Second,
			UniqueFilenames: true,
			FetchTimeout:    10 * time.Second,
			FetchMaxPixels:  40_000_000,
		},
		PDF: PDFConfig{
			Enabled:  true,
			Engine:   "chromium",
			Headless: true,
			Timeout:  30 * time.Second,
			PageSize: "A4",
		},
		Raster: RasterConfig{
			Enabled:      true,
			PDFToPPMPath: "pdftoppm",
			DPI:          150,
			Timeout:      30 * time.Second,
		},
		Storage: StorageConfig{
			Dir:             "./generated",
			Retention:       24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		S3: S3Config{
			Region:     "us-east-1",
			Bucket:     "documentos",
			PathStyle:  true,
			PresignTTL: 7 * 24 * time.Hour,
		},
	}
}

// Load reads configuration from defaults, an optional config file and
// DOCGEN_ environment variables, in increasing precedence. An empty path
// searches for docgen.yaml in the working directory.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("docgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/docgen")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("DOCGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindAliases(v)

	cfg := Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetString("server.port"),
			BasePath:        v.GetString("server.base_path"),
			MaxBodyBytes:    v.GetInt64("server.max_body_bytes"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Render: RenderConfig{
			PoolSize:          v.GetInt("render.pool_size"),
			ProbeTimeout:      v.GetDuration("render.probe_timeout"),
			UniqueFilenames:   v.GetBool("render.unique_filenames"),
			FontRegular:       v.GetString("render.font_regular"),
			FontBold:          v.GetString("render.font_bold"),
			FetchTimeout:      v.GetDuration("render.fetch_timeout"),
			FetchAllowPrivate: v.GetBool("render.fetch_allow_private"),
			FetchMaxPixels:    v.GetInt64("render.fetch_max_pixels"),
			IssuerName:        v.GetString("render.issuer_name"),
			IssuerTaxID:       v.GetString("render.issuer_tax_id"),
			IssuerAddress:     v.GetString("render.issuer_address"),
		},
		PDF: PDFConfig{
			Enabled:         v.GetBool("pdf.enabled"),
			Engine:          strings.ToLower(v.GetString("pdf.engine")),
			ChromiumPath:    v.GetString("pdf.chromium_path"),
			Headless:        v.GetBool("pdf.headless"),
			Args:            v.GetStringSlice("pdf.args"),
			WKHTMLTOPDFPath: v.GetString("pdf.wkhtmltopdf_path"),
			Timeout:         v.GetDuration("pdf.timeout"),
			PageSize:        v.GetString("pdf.page_size"),
		},
		Raster: RasterConfig{
			Enabled:      v.GetBool("raster.enabled"),
			PDFToPPMPath: v.GetString("raster.pdftoppm_path"),
			DPI:          v.GetInt("raster.dpi"),
			Timeout:      v.GetDuration("raster.timeout"),
		},
		Storage: StorageConfig{
			Dir:             v.GetString("storage.dir"),
			Retention:       v.GetDuration("storage.retention"),
			CleanupInterval: v.GetDuration("storage.cleanup_interval"),
		},
		S3: S3Config{
			Enabled:    v.GetBool("s3.enabled"),
			Endpoint:   v.GetString("s3.endpoint"),
			Region:     v.GetString("s3.region"),
			AccessKey:  v.GetString("s3.access_key"),
			SecretKey:  v.GetString("s3.secret_key"),
			Bucket:     v.GetString("s3.bucket"),
			UseSSL:     v.GetBool("s3.use_ssl"),
			PathStyle:  v.GetBool("s3.path_style"),
			PresignTTL: v.GetDuration("s3.presign_ttl"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	switch c.PDF.Engine {
	case "chromium", "wkhtmltopdf":
	default:
		return fmt.Errorf("pdf.engine %q is not supported", c.PDF.Engine)
	}
	if c.Render.PoolSize <= 0 {
		return errors.New("render.pool_size must be positive")
	}
	if c.S3.Enabled && (c.S3.AccessKey == "" || c.S3.SecretKey == "") {
		return errors.New("s3.access_key and s3.secret_key are required when s3 is enabled")
	}
	return nil
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.base_path", d.Server.BasePath)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)

	v.SetDefault("render.pool_size", d.Render.PoolSize)
	v.SetDefault("render.probe_timeout", d.Render.ProbeTimeout)
	v.SetDefault("render.unique_filenames", d.Render.UniqueFilenames)
	v.SetDefault("render.font_regular", d.Render.FontRegular)
	v.SetDefault("render.font_bold", d.Render.FontBold)
	v.SetDefault("render.fetch_timeout", d.Render.FetchTimeout)
	v.SetDefault("render.fetch_allow_private", d.Render.FetchAllowPrivate)
	v.SetDefault("render.fetch_max_pixels", d.Render.FetchMaxPixels)
	v.SetDefault("render.issuer_name", d.Render.IssuerName)
	v.SetDefault("render.issuer_tax_id", d.Render.IssuerTaxID)
	v.SetDefault("render.issuer_address", d.Render.IssuerAddress)

	v.SetDefault("pdf.enabled", d.PDF.Enabled)
	v.SetDefault("pdf.engine", d.PDF.Engine)
	v.SetDefault("pdf.chromium_path", d.PDF.ChromiumPath)
	v.SetDefault("pdf.headless", d.PDF.Headless)
	v.SetDefault("pdf.args", d.PDF.Args)
	v.SetDefault("pdf.wkhtmltopdf_path", d.PDF.WKHTMLTOPDFPath)
	v.SetDefault("pdf.timeout", d.PDF.Timeout)
	v.SetDefault("pdf.page_size", d.PDF.PageSize)

	v.SetDefault("raster.enabled", d.Raster.Enabled)
	v.SetDefault("raster.pdftoppm_path", d.Raster.PDFToPPMPath)
	v.SetDefault("raster.dpi", d.Raster.DPI)
	v.SetDefault("raster.timeout", d.Raster.Timeout)

	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.retention", d.Storage.Retention)
	v.SetDefault("storage.cleanup_interval", d.Storage.CleanupInterval)

	v.SetDefault("s3.enabled", d.S3.Enabled)
	v.SetDefault("s3.endpoint", d.S3.Endpoint)
	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.access_key", d.S3.AccessKey)
	v.SetDefault("s3.secret_key", d.S3.SecretKey)
	v.SetDefault("s3.bucket", d.S3.Bucket)
	v.SetDefault("s3.use_ssl", d.S3.UseSSL)
	v.SetDefault("s3.path_style", d.S3.PathStyle)
	v.SetDefault("s3.presign_ttl", d.S3.PresignTTL)
}

// bindAliases accepts the MINIO_* variables used by existing deployments.
func bindAliases(v *viper.Viper) {
	_ = v.BindEnv("s3.endpoint", "DOCGEN_S3_ENDPOINT", "MINIO_ENDPOINT")
	_ = v.BindEnv("s3.access_key", "DOCGEN_S3_ACCESS_KEY", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("s3.secret_key", "DOCGEN_S3_SECRET_KEY", "MINIO_SECRET_KEY")
	_ = v.BindEnv("s3.bucket", "DOCGEN_S3_BUCKET", "MINIO_BUCKET")
	_ = v.BindEnv("s3.use_ssl", "DOCGEN_S3_USE_SSL", "MINIO_SECURE")
}
