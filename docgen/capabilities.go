package docgen

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultProbeTimeout bounds each backend smoke render.
const DefaultProbeTimeout = 20 * time.Second

// Prober determines once per process which rendering tiers work by running a
// smoke render against each candidate backend.
type Prober struct {
	HTML    PDFBackend
	Flow    PDFBackend
	Raster  Rasterizer
	Timeout time.Duration
	Logger  Logger
	Now     func() time.Time

	once sync.Once
	caps Capabilities
}

// Capabilities returns the probe result, running the probe on first use.
// Probing never fails: a backend that errors, panics or is absent is simply
// reported as unavailable.
func (p *Prober) Capabilities(ctx context.Context) Capabilities {
	if p == nil {
		return Capabilities{}
	}
	p.once.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		p.caps = p.probe(context.WithoutCancel(ctx))
	})
	return p.caps
}

func (p *Prober) probe(ctx context.Context) Capabilities {
	caps := Capabilities{ProbedAt: p.now()}
	if p.HTML != nil {
		caps.HTMLToPDF = p.run(ctx, "html-to-pdf", p.HTML.Probe)
	}
	if p.Flow != nil {
		caps.FlowDocumentPDF = p.run(ctx, "flow-document", p.Flow.Probe)
	}
	if p.Raster != nil {
		caps.PDFToRaster = p.run(ctx, "pdf-to-raster", p.Raster.Probe)
	}
	p.logger().Infof("rendering capabilities: html_to_pdf=%t flow_document_pdf=%t pdf_to_raster=%t",
		caps.HTMLToPDF, caps.FlowDocumentPDF, caps.PDFToRaster)
	return caps
}

func (p *Prober) run(ctx context.Context, name string, probe func(context.Context) error) (ok bool) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			p.logger().Errorf("%s probe panicked: %v", name, r)
			ok = false
		}
	}()

	if err := probe(probeCtx); err != nil {
		p.logger().Infof("%s backend unavailable: %v", name, err)
		return false
	}
	p.logger().Debugf("%s backend available", name)
	return true
}

func (p *Prober) logger() Logger {
	if p.Logger == nil {
		return NopLogger{}
	}
	return p.Logger
}

func (p *Prober) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// String summarizes the capabilities for logs.
func (c Capabilities) String() string {
	return fmt.Sprintf("html_to_pdf=%t flow_document_pdf=%t pdf_to_raster=%t", c.HTMLToPDF, c.FlowDocumentPDF, c.PDFToRaster)
}
