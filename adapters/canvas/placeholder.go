package doccanvas

import (
	"image"
	"image/color"

	"github.com/goliatone/go-docgen/docgen"
)

var colorPlaceholderBox = color.RGBA{R: 250, G: 250, B: 250, A: 255}

// Placeholder draws a labelled image naming the template and the reason no
// real rendering was possible. It satisfies docgen.PlaceholderFunc.
func (e *Engine) Placeholder(template, reason string) image.Image {
	return e.placeholder(template, reason).Image()
}

func (e *Engine) placeholder(template, reason string) *Canvas {
	fonts := e.fonts.faces()
	defer fonts.close()

	c := NewCanvas(docgen.PlaceholderWidth, docgen.PlaceholderHeight, colorWhite)
	c.Rect(image.Rect(20, 20, docgen.PlaceholderWidth-20, docgen.PlaceholderHeight-20), nil, colorRule, 3)

	box := image.Rect(340, 70, 460, 170)
	c.Rect(box, colorPlaceholderBox, colorMuted, 2)
	c.Line(box.Min, box.Max.Sub(image.Pt(1, 1)), colorMuted, 2)
	c.Line(image.Pt(box.Min.X, box.Max.Y-1), image.Pt(box.Max.X-1, box.Min.Y), colorMuted, 2)

	c.TextCentered(200, docgen.PlaceholderTitle, fonts.Header, colorText)
	if template != "" {
		c.TextCentered(250, "Template: "+template, fonts.Normal, colorMuted)
	}
	y := 300
	step := LineHeight(fonts.Small) + 4
	for _, line := range docgen.WrapText(reason, 60) {
		if y+step > docgen.PlaceholderHeight-40 {
			break
		}
		c.TextCentered(y, line, fonts.Small, colorMuted)
		y += step
	}
	return c
}
