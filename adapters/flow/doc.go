// Package docflow builds PDF documents programmatically with gofpdf.
//
// It backs the flow tier: no HTML engine is involved, each template has a
// builder that appends titles, paragraphs and tables to an A4 document.
// Templates without a builder get a generic field listing.
package docflow
