package docgen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// JPEGQuality is the encoder quality for JPEG output.
const JPEGQuality = 95

// Placeholder geometry.
const (
	PlaceholderWidth  = 800
	PlaceholderHeight = 600
)

// PlaceholderTitle heads every placeholder image.
const PlaceholderTitle = "Documento indisponível"

// Materialize encodes a rendering product as bytes of the requested format.
// PDF bytes pass through unchanged; images are encoded as PNG, or flattened
// onto white and encoded as JPEG.
func Materialize(product Product, format Format) ([]byte, error) {
	switch NormalizeFormat(format) {
	case FormatPDF:
		if len(product.PDF) == 0 {
			return nil, NewError(KindValidation, "pdf output requires a pdf product", nil)
		}
		return product.PDF, nil
	case FormatPNG:
		if product.Image == nil {
			return nil, NewError(KindValidation, "png output requires an image product", nil)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, product.Image, imaging.PNG); err != nil {
			return nil, NewError(KindInternal, "encode png", err)
		}
		return buf.Bytes(), nil
	case FormatJPEG:
		if product.Image == nil {
			return nil, NewError(KindValidation, "jpeg output requires an image product", nil)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, FlattenOnWhite(product.Image), imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
			return nil, NewError(KindInternal, "encode jpeg", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, NewError(KindValidation, fmt.Sprintf("unsupported output format %q", format), nil)
	}
}

// FlattenOnWhite composites img over an opaque white background.
func FlattenOnWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

// DefaultPlaceholder draws an 800x600 image naming the template and the
// reason with the built-in 7x13 bitmap font.
func DefaultPlaceholder(template, reason string) image.Image {
	img := imaging.New(PlaceholderWidth, PlaceholderHeight, color.White)
	frame := color.Gray{Y: 200}
	for _, edge := range []image.Rectangle{
		image.Rect(20, 20, PlaceholderWidth-20, 23),
		image.Rect(20, PlaceholderHeight-23, PlaceholderWidth-20, PlaceholderHeight-20),
		image.Rect(20, 20, 23, PlaceholderHeight-20),
		image.Rect(PlaceholderWidth-23, 20, PlaceholderWidth-20, PlaceholderHeight-20),
	} {
		xdraw.Draw(img, edge, image.NewUniform(frame), image.Point{}, xdraw.Src)
	}

	lines := []string{PlaceholderTitle}
	if template != "" {
		lines = append(lines, "Template: "+template)
	}
	lines = append(lines, WrapText(reason, 90)...)

	d := font.Drawer{Dst: img, Src: image.NewUniform(color.Gray{Y: 60}), Face: basicfont.Face7x13}
	y := 220
	for _, line := range lines {
		if y > PlaceholderHeight-40 {
			break
		}
		d.Dot = fixed.P((PlaceholderWidth-d.MeasureString(line).Ceil())/2, y)
		d.DrawString(line)
		y += 22
	}
	return img
}
