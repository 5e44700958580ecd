// Package doccanvas draws documents directly onto a raster canvas.
//
// It is the layout engine of last resort: no HTML or PDF engine is involved.
// Every template has a routine that places text, rectangles, ellipses, lines
// and thumbnails at explicit pixel coordinates on a 1000x1500 white canvas,
// tracking its vertical position with a Cursor that only moves down.
//
// Shared layout helpers cover centred text, character-count word wrapping,
// tables with alternating row backgrounds, repeating product grids and
// overflow markers for lists that do not fit above the footer.
package doccanvas
