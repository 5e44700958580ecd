// Package docraster converts the first page of a PDF into an image with
// poppler's pdftoppm.
package docraster
