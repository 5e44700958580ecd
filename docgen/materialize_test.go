package docgen

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestMaterialize_PDFPassthrough(t *testing.T) {
	pdf := []byte("%PDF-1.4 test")
	out, err := Materialize(Product{PDF: pdf}, FormatPDF)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if !bytes.Equal(out, pdf) {
		t.Fatalf("expected pdf bytes unchanged")
	}
}

func TestMaterialize_PNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	out, err := Materialize(Product{Image: img}, FormatPNG)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 4 || decoded.Bounds().Dy() != 3 {
		t.Fatalf("unexpected bounds %v", decoded.Bounds())
	}
}

func TestMaterialize_JPEGFlattensTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	out, err := Materialize(Product{Image: img}, FormatJPEG)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	decoded, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	r, g, b, _ := decoded.At(4, 4).RGBA()
	if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
		t.Fatalf("expected transparent pixels to become white, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestMaterialize_MismatchedProduct(t *testing.T) {
	if _, err := Materialize(Product{PDF: []byte("%PDF")}, FormatPNG); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := Materialize(Product{Image: image.NewGray(image.Rect(0, 0, 1, 1))}, FormatPDF); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFlattenOnWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	flat := FlattenOnWhite(img)
	if got := flat.NRGBAAt(0, 0); got.R != 255 || got.G != 0 || got.A != 255 {
		t.Fatalf("expected opaque red, got %+v", got)
	}
	if got := flat.NRGBAAt(1, 1); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("expected white, got %+v", got)
	}
}

func TestDefaultPlaceholder_DrawsLabel(t *testing.T) {
	img, ok := DefaultPlaceholder("fatura", "no raster rendering backend available").(*image.NRGBA)
	if !ok {
		t.Fatalf("expected an NRGBA image")
	}
	if img.Bounds() != image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}

	inked := 0
	for y := 200; y < 280; y++ {
		for x := 100; x < PlaceholderWidth-100; x++ {
			if c := img.NRGBAAt(x, y); c.R < 200 {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Fatalf("expected label text on the placeholder")
	}

	other := DefaultPlaceholder("certificado", "no raster rendering backend available").(*image.NRGBA)
	if bytes.Equal(img.Pix, other.Pix) {
		t.Fatalf("expected the template name to change the image")
	}
}
