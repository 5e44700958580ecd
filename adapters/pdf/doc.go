// Package docpdf renders templates to PDF through an HTML layout engine.
//
// An injected HTMLRenderer lays the template out as HTML, and a pluggable
// Engine (wkhtmltopdf or headless Chromium) prints it. Renderer implements
// docgen.PDFBackend and backs the html tier of the dispatcher.
package docpdf
