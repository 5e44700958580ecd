package docgen

import (
	"context"
	"errors"
	"fmt"
)

// Dispatcher picks a rendering tier for each request based on the probed
// capabilities and falls through to the next tier when one fails.
//
// PDF: html layout, then flow document, else KindUnavailable.
// PNG/JPEG: direct canvas when the template has a drawing routine, then a
// rasterized PDF, then a placeholder image. Raster requests never fail
// because of a missing backend.
type Dispatcher struct {
	Capabilities Capabilities
	HTML         PDFBackend
	Flow         PDFBackend
	Canvas       CanvasBackend
	Raster       Rasterizer
	Placeholder  PlaceholderFunc
	Logger       Logger
}

// Render produces the document bytes for spec and already normalized data.
func (d Dispatcher) Render(ctx context.Context, spec TemplateSpec, data Data, format Format) (RenderResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	format = NormalizeFormat(format)
	result := RenderResult{Format: format, Template: spec.ID, ContentType: format.ContentType()}

	var (
		product Product
		err     error
	)
	switch format {
	case FormatPDF:
		product.PDF, result.Tier, result.Attempts, err = d.renderPDF(ctx, spec, data, nil)
		if err != nil {
			return result, err
		}
	case FormatPNG, FormatJPEG:
		product, result.Tier, result.Attempts = d.renderRaster(ctx, spec, data)
	default:
		return result, NewValidationError(fmt.Sprintf("unsupported output format %q", format), "output_format")
	}

	out, err := Materialize(product, format)
	if err != nil {
		return result, err
	}
	result.Bytes = out
	result.Size = int64(len(out))
	return result, nil
}

func (d Dispatcher) renderPDF(ctx context.Context, spec TemplateSpec, data Data, attempts []Attempt) ([]byte, Tier, []Attempt, error) {
	var lastErr error
	if d.Capabilities.HTMLToPDF && d.HTML != nil {
		pdf, err := d.HTML.Render(ctx, spec, data)
		if err = checkOutput(pdf, err); err == nil {
			return pdf, TierHTML, attempts, nil
		}
		attempts = d.demote(attempts, TierHTML, spec.ID, err)
		lastErr = err
	}
	if d.Capabilities.FlowDocumentPDF && d.Flow != nil {
		pdf, err := d.Flow.Render(ctx, spec, data)
		if err = checkOutput(pdf, err); err == nil {
			return pdf, TierFlow, attempts, nil
		}
		attempts = d.demote(attempts, TierFlow, spec.ID, err)
		lastErr = err
	}
	return nil, "", attempts, NewError(KindUnavailable, fmt.Sprintf("no pdf rendering backend available for template %q", spec.ID), lastErr)
}

func (d Dispatcher) renderRaster(ctx context.Context, spec TemplateSpec, data Data) (Product, Tier, []Attempt) {
	var attempts []Attempt
	if d.Canvas != nil && d.Canvas.Supports(spec.ID) {
		img, err := d.Canvas.Draw(ctx, spec.ID, data)
		if err == nil && img == nil {
			err = errors.New("canvas produced no image")
		}
		if err == nil {
			return Product{Image: img}, TierCanvas, attempts
		}
		attempts = d.demote(attempts, TierCanvas, spec.ID, err)
	}

	if d.Capabilities.PDFToRaster && d.Raster != nil {
		pdf, _, pdfAttempts, err := d.renderPDF(ctx, spec, data, attempts)
		attempts = pdfAttempts
		if err == nil {
			img, rasterErr := d.Raster.Rasterize(ctx, pdf)
			if rasterErr == nil && img == nil {
				rasterErr = errors.New("rasterizer produced no image")
			}
			if rasterErr == nil {
				return Product{Image: img}, TierRasterized, attempts
			}
			attempts = d.demote(attempts, TierRasterized, spec.ID, rasterErr)
		}
	}

	reason := "no raster rendering backend available"
	if len(attempts) > 0 {
		reason = attempts[len(attempts)-1].Error
	}
	d.logger().Errorf("template %q: serving placeholder image: %s", spec.ID, reason)
	placeholder := d.Placeholder
	if placeholder == nil {
		placeholder = DefaultPlaceholder
	}
	return Product{Image: placeholder(spec.ID, reason)}, TierPlaceholder, attempts
}

func (d Dispatcher) demote(attempts []Attempt, tier Tier, template string, err error) []Attempt {
	d.logger().Errorf("template %q: %s tier failed, trying next: %v", template, tier, err)
	return append(attempts, Attempt{Tier: tier, Error: err.Error()})
}

func (d Dispatcher) logger() Logger {
	if d.Logger == nil {
		return NopLogger{}
	}
	return d.Logger
}

func checkOutput(out []byte, err error) error {
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return errors.New("backend produced empty output")
	}
	return nil
}
