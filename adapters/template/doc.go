// Package doctemplate lays document templates out as HTML.
//
// Renderer is disabled by default; set Renderer.Enabled and supply Templates
// (a TemplateExecutor). The bundled Pongo2Executor compiles the embedded
// Django-style layouts in layouts/ and registers the brl, wrap and
// truncate_text filters. Templates see the normalized payload as data and
// the template description as meta. Templates without a layout of their own
// fall back to the generic layout, which lists every payload field.
//
// The output is meant for an HTML-to-PDF engine; see adapters/pdf.
package doctemplate
