package command

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-docgen/docgen"
	"github.com/goliatone/go-errors"
)

// BatchRequest is one entry of a batch file.
type BatchRequest struct {
	TemplateName  string         `json:"template_name"`
	Data          map[string]any `json:"data"`
	OutputFormat  docgen.Format  `json:"output_format,omitempty"`
	UploadToMinio bool           `json:"upload_to_minio,omitempty"`
}

func (r BatchRequest) generateRequest() docgen.GenerateRequest {
	return docgen.GenerateRequest{
		Template: r.TemplateName,
		Data:     docgen.Data(r.Data),
		Format:   r.OutputFormat,
		Upload:   r.UploadToMinio,
	}
}

// BatchLoader loads batch requests from a source.
type BatchLoader func(ctx context.Context) ([]BatchRequest, error)

// BatchGenerator renders documents.
type BatchGenerator interface {
	Generate(ctx context.Context, req docgen.GenerateRequest) (docgen.GenerateResult, error)
}

// BatchReport summarises one batch run.
type BatchReport struct {
	Generated []docgen.GenerateResult
	Failed    int
}

// BatchCommand wires CLI and cron execution for batch generation.
type BatchCommand struct {
	generator  BatchGenerator
	loader     BatchLoader
	logger     docgen.Logger
	cliConfig  gcmd.CLIConfig
	cronConfig gcmd.HandlerConfig
	limits     BatchLimits
	sleep      func(time.Duration)
}

// BatchOption customizes batch commands.
type BatchOption func(*BatchCommand)

// BatchLimits bounds batch throughput. StopOnError aborts on the first
// failure instead of counting it.
type BatchLimits struct {
	MaxRequests int
	MinInterval time.Duration
	StopOnError bool
}

// WithBatchCLIConfig overrides CLI configuration.
func WithBatchCLIConfig(cfg gcmd.CLIConfig) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.cliConfig = cfg
	}
}

// WithBatchCronConfig overrides cron configuration.
func WithBatchCronConfig(cfg gcmd.HandlerConfig) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.cronConfig = cfg
	}
}

// WithBatchLimits overrides batch execution limits.
func WithBatchLimits(limits BatchLimits) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.limits = limits
	}
}

// WithBatchLogger reports per-document failures.
func WithBatchLogger(logger docgen.Logger) BatchOption {
	return func(cmd *BatchCommand) {
		if logger != nil {
			cmd.logger = logger
		}
	}
}

// NewBatchCommand creates a batch generation CLI/cron command.
func NewBatchCommand(generator BatchGenerator, loader BatchLoader, opts ...BatchOption) *BatchCommand {
	cmd := &BatchCommand{
		generator: generator,
		loader:    loader,
		logger:    docgen.NopLogger{},
		cliConfig: gcmd.CLIConfig{
			Path:        []string{"documents-batch"},
			Description: "Generate documents from a JSON batch file",
			Group:       "documents",
		},
		cronConfig: gcmd.HandlerConfig{Expression: "0 6 * * *"},
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cmd)
		}
	}
	return cmd
}

// CronHandler runs the batch from the configured loader.
func (c *BatchCommand) CronHandler() func() error {
	return func() error {
		_, err := c.Run(context.Background(), "")
		return err
	}
}

// CronOptions returns cron configuration.
func (c *BatchCommand) CronOptions() gcmd.HandlerConfig {
	if c == nil {
		return gcmd.HandlerConfig{}
	}
	return c.cronConfig
}

// CLIHandler exposes the CLI handler.
func (c *BatchCommand) CLIHandler() any {
	return &batchCLI{cmd: c}
}

// CLIOptions returns CLI configuration.
func (c *BatchCommand) CLIOptions() gcmd.CLIConfig {
	if c == nil {
		return gcmd.CLIConfig{}
	}
	return c.cliConfig
}

// Run generates every request, reading them from the file at from when it
// is set and from the loader otherwise.
func (c *BatchCommand) Run(ctx context.Context, from string) (BatchReport, error) {
	if c == nil {
		return BatchReport{}, errors.New("batch command is nil", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	if c.generator == nil {
		return BatchReport{}, errors.New("batch generator is required", errors.CategoryValidation).
			WithTextCode("GENERATOR_REQUIRED")
	}

	requests, err := c.loadRequests(ctx, from)
	if err != nil {
		return BatchReport{}, err
	}

	var report BatchReport
	for i, item := range requests {
		if c.limits.MaxRequests > 0 && i >= c.limits.MaxRequests {
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := c.generator.Generate(ctx, item.generateRequest())
		if err != nil {
			if c.limits.StopOnError {
				return report, err
			}
			c.logger.Errorf("batch entry %d (%s) failed: %v", i+1, item.TemplateName, err)
			report.Failed++
		} else {
			report.Generated = append(report.Generated, result)
		}
		if c.limits.MinInterval > 0 && c.sleep != nil {
			c.sleep(c.limits.MinInterval)
		}
	}
	return report, nil
}

func (c *BatchCommand) loadRequests(ctx context.Context, from string) ([]BatchRequest, error) {
	if strings.TrimSpace(from) != "" {
		return loadBatchRequestsFromFile(from)
	}
	if c.loader == nil {
		return nil, errors.New("batch loader not configured", errors.CategoryValidation).
			WithTextCode("LOADER_REQUIRED")
	}
	return c.loader(ctx)
}

type batchCLI struct {
	cmd  *BatchCommand
	From string `kong:"name='from',help='Path to a JSON array of generate requests'"`
}

func (c *batchCLI) Run() error {
	if c == nil || c.cmd == nil {
		return errors.New("batch command is required", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	_, err := c.cmd.Run(context.Background(), c.From)
	return err
}

func loadBatchRequestsFromFile(path string) ([]BatchRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "read batch file failed").
			WithTextCode("BATCH_FILE_READ")
	}

	var requests []BatchRequest
	if err := json.Unmarshal(content, &requests); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "batch file invalid JSON").
			WithTextCode("BATCH_FILE_INVALID")
	}
	return requests, nil
}

// ExampleBatch builds one request per template and format from the
// catalog's example data. Templates without example data are skipped.
func ExampleBatch(templates []docgen.TemplateSpec, formats ...docgen.Format) []BatchRequest {
	if len(formats) == 0 {
		formats = []docgen.Format{docgen.FormatPDF}
	}
	requests := make([]BatchRequest, 0, len(templates)*len(formats))
	for _, spec := range templates {
		if len(spec.ExampleData) == 0 {
			continue
		}
		for _, format := range formats {
			requests = append(requests, BatchRequest{
				TemplateName: spec.ID,
				Data:         spec.ExampleData,
				OutputFormat: format,
			})
		}
	}
	return requests
}

// ExampleLoader loads ExampleBatch for the service's catalog.
func ExampleLoader(svc docgen.Service, formats ...docgen.Format) BatchLoader {
	return func(ctx context.Context) ([]BatchRequest, error) {
		_ = ctx
		if svc == nil {
			return nil, errors.New("document service is required", errors.CategoryInternal).
				WithTextCode("SERVICE_REQUIRED")
		}
		return ExampleBatch(svc.Templates(), formats...), nil
	}
}

func parseMaxAge(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, errors.New("invalid max age", errors.CategoryValidation).
			WithTextCode("MAX_AGE_INVALID")
	}
	return d, nil
}
