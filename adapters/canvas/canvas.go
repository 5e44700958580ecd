package doccanvas

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Default canvas geometry, an A4-proportioned page.
const (
	DefaultWidth  = 1000
	DefaultHeight = 1500
)

// Canvas is an RGBA raster with the drawing primitives used by the layout
// routines. A nil color skips that part of a primitive. Every string drawn
// is recorded in order.
type Canvas struct {
	img   *image.RGBA
	texts []string
}

// NewCanvas creates a width x height canvas filled with background.
func NewCanvas(width, height int, background color.Color) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if background != nil {
		xdraw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)
	}
	return &Canvas{img: img}
}

// Image returns the underlying raster.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Texts returns the strings drawn so far.
func (c *Canvas) Texts() []string {
	return append([]string(nil), c.texts...)
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.img.Bounds().Dx()
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.img.Bounds().Dy()
}

// Measure returns the advance width of s in face.
func Measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// LineHeight returns the line height of face.
func LineHeight(face font.Face) int {
	h := face.Metrics().Height.Ceil()
	if h <= 0 {
		h = 13
	}
	return h
}

// Text draws s with its top-left corner at (x, y).
func (c *Canvas) Text(x, y int, s string, face font.Face, col color.Color) {
	if s == "" || col == nil {
		return
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
	c.texts = append(c.texts, s)
}

// TextCentered draws s horizontally centred on the canvas at y.
func (c *Canvas) TextCentered(y int, s string, face font.Face, col color.Color) {
	c.TextCenteredIn(0, c.Width(), y, s, face, col)
}

// TextCenteredIn draws s centred between left and right.
func (c *Canvas) TextCenteredIn(left, right, y int, s string, face font.Face, col color.Color) {
	x := left + (right-left-Measure(face, s))/2
	c.Text(x, y, s, face, col)
}

// TextRight draws s so that it ends at right.
func (c *Canvas) TextRight(right, y int, s string, face font.Face, col color.Color) {
	c.Text(right-Measure(face, s), y, s, face, col)
}

// Rect fills r and strokes its outline with the given width.
func (c *Canvas) Rect(r image.Rectangle, fill, outline color.Color, stroke int) {
	r = r.Canon()
	if fill != nil {
		xdraw.Draw(c.img, r, image.NewUniform(fill), image.Point{}, xdraw.Over)
	}
	if outline == nil || stroke <= 0 {
		return
	}
	src := image.NewUniform(outline)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+stroke),
		image.Rect(r.Min.X, r.Max.Y-stroke, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+stroke, r.Max.Y),
		image.Rect(r.Max.X-stroke, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, edge := range edges {
		xdraw.Draw(c.img, edge.Intersect(r), src, image.Point{}, xdraw.Over)
	}
}

// Ellipse fills and outlines the ellipse with the given centre and radii.
func (c *Canvas) Ellipse(center image.Point, rx, ry int, fill, outline color.Color) {
	if rx <= 0 || ry <= 0 {
		return
	}
	if fill != nil {
		src := image.NewUniform(fill)
		for dy := -ry; dy <= ry; dy++ {
			span := int(math.Round(float64(rx) * math.Sqrt(1-float64(dy*dy)/float64(ry*ry))))
			row := image.Rect(center.X-span, center.Y+dy, center.X+span+1, center.Y+dy+1)
			xdraw.Draw(c.img, row, src, image.Point{}, xdraw.Over)
		}
	}
	if outline != nil {
		steps := 4 * (rx + ry)
		for i := 0; i < steps; i++ {
			theta := 2 * math.Pi * float64(i) / float64(steps)
			x := center.X + int(math.Round(float64(rx)*math.Cos(theta)))
			y := center.Y + int(math.Round(float64(ry)*math.Sin(theta)))
			c.img.Set(x, y, outline)
		}
	}
}

// Line draws a straight line of the given thickness.
func (c *Canvas) Line(from, to image.Point, col color.Color, thickness int) {
	if col == nil {
		return
	}
	if thickness <= 0 {
		thickness = 1
	}
	src := image.NewUniform(col)
	dx, dy := to.X-from.X, to.Y-from.Y
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		steps = 1
	}
	half := thickness / 2
	for i := 0; i <= steps; i++ {
		x := from.X + dx*i/steps
		y := from.Y + dy*i/steps
		dot := image.Rect(x-half, y-half, x-half+thickness, y-half+thickness)
		xdraw.Draw(c.img, dot, src, image.Point{}, xdraw.Over)
	}
}

// DrawImage fits img inside r, preserving its aspect ratio, and centres it.
func (c *Canvas) DrawImage(img image.Image, r image.Rectangle) {
	if img == nil || r.Empty() {
		return
	}
	fitted := imaging.Fit(img, r.Dx(), r.Dy(), imaging.Lanczos)
	b := fitted.Bounds()
	offset := image.Pt(r.Min.X+(r.Dx()-b.Dx())/2, r.Min.Y+(r.Dy()-b.Dy())/2)
	xdraw.Draw(c.img, b.Sub(b.Min).Add(offset), fitted, b.Min, xdraw.Over)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
