package doccanvas

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/goliatone/go-docgen/docgen"
	"github.com/shopspring/decimal"
	"golang.org/x/image/font"
)

// Layout constants shared by the routines.
const (
	Margin        = 50
	FooterBand    = 90
	SectionGap    = 20
	TableHeaderH  = 40
	TableRowH     = 34
	overflowLineH = 30
)

var (
	colorText    = color.RGBA{R: 33, G: 33, B: 33, A: 255}
	colorMuted   = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	colorRule    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colorRowEven = color.RGBA{R: 245, G: 245, B: 235, A: 255}
	colorRowOdd  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorWhite   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Stats summarises what a drawing placed on the canvas.
type Stats struct {
	Lines    int             `json:"lines"`
	Rows     int             `json:"rows"`
	Cells    int             `json:"cells"`
	Overflow int             `json:"overflow"`
	Total    decimal.Decimal `json:"total"`
}

// Drawing is the result of one routine.
type Drawing struct {
	Image  *image.RGBA
	Cursor Cursor
	Stats  Stats
	// Texts lists the strings drawn, in drawing order.
	Texts []string
}

// Column places one table column. X is the column's left edge as a fraction
// of the canvas width. Right aligned columns end at X instead.
type Column struct {
	Title string
	X     float64
	Right bool
	Limit int
}

// page is the state owned by one drawing.
type page struct {
	ctx     context.Context
	canvas  *Canvas
	fonts   FontSet
	cursor  Cursor
	stats   Stats
	fetcher ImageFetcher
	logger  docgen.Logger
}

func (p *page) width() int {
	return p.canvas.Width()
}

// footerTop is the first row reserved for the footer band.
func (p *page) footerTop() int {
	return p.canvas.Height() - FooterBand
}

func (p *page) fits(h int) bool {
	return p.cursor.Y+h <= p.footerTop()
}

// heading draws a single line at the left margin.
func (p *page) heading(text string, face font.Face, col color.Color) {
	if text == "" {
		return
	}
	p.canvas.Text(Margin, p.cursor.Y, text, face, col)
	p.stats.Lines++
	p.cursor.Advance(LineHeight(face) + 8)
}

// centered draws a single centred line.
func (p *page) centered(text string, face font.Face, col color.Color) {
	if text == "" {
		return
	}
	p.canvas.TextCentered(p.cursor.Y, text, face, col)
	p.stats.Lines++
	p.cursor.Advance(LineHeight(face) + 8)
}

// paragraph wraps text at wrap characters and draws the lines at x. Lines
// that would cross the footer band are dropped. It returns the number of
// lines drawn.
func (p *page) paragraph(text string, face font.Face, col color.Color, x, wrap int) int {
	return p.lines(docgen.WrapText(text, wrap), face, col, func(line string) {
		p.canvas.Text(x, p.cursor.Y, line, face, col)
	})
}

// centeredParagraph wraps text and centres every line.
func (p *page) centeredParagraph(text string, face font.Face, col color.Color, wrap int) int {
	return p.lines(docgen.WrapText(text, wrap), face, col, func(line string) {
		p.canvas.TextCentered(p.cursor.Y, line, face, col)
	})
}

func (p *page) lines(lines []string, face font.Face, col color.Color, draw func(string)) int {
	lh := LineHeight(face) + 4
	drawn := 0
	for _, line := range lines {
		if !p.fits(lh) {
			break
		}
		draw(line)
		drawn++
	}
	p.stats.Lines += drawn
	p.cursor.Advance(drawn * lh)
	return drawn
}

// keyValue draws "label: value" when value is present.
func (p *page) keyValue(label, value string, wrap int) {
	if value == "" {
		return
	}
	p.paragraph(label+": "+value, p.fonts.Normal, colorText, Margin, wrap)
}

// rule draws a horizontal separator across the margins.
func (p *page) rule() {
	p.canvas.Line(image.Pt(Margin, p.cursor.Y), image.Pt(p.width()-Margin, p.cursor.Y), colorRule, 2)
	p.cursor.Advance(SectionGap)
}

// band fills a full-width rectangle of height h at the cursor.
func (p *page) band(h int, fill color.Color) image.Rectangle {
	r := image.Rect(Margin, p.cursor.Y, p.width()-Margin, p.cursor.Y+h)
	p.canvas.Rect(r, fill, nil, 0)
	return r
}

// table draws a header band and one row per entry with alternating
// backgrounds. Rows that do not fit above the footer are replaced by an
// overflow line. It returns the number of rows drawn.
func (p *page) table(columns []Column, rows [][]string, header color.Color) int {
	if len(rows) == 0 {
		return 0
	}
	if !p.fits(TableHeaderH + TableRowH) {
		p.overflow(len(rows))
		return 0
	}

	bandRect := p.band(TableHeaderH, header)
	textY := bandRect.Min.Y + (TableHeaderH-LineHeight(p.fonts.Bold))/2
	for _, col := range columns {
		p.columnText(col, textY, col.Title, p.fonts.Bold, colorWhite)
	}
	p.cursor.Advance(TableHeaderH)

	for i, row := range rows {
		remaining := len(rows) - i
		reserve := 0
		if remaining > 1 {
			reserve = overflowLineH
		}
		if !p.fits(TableRowH + reserve) {
			p.overflow(remaining)
			return i
		}
		fill := colorRowOdd
		if i%2 == 0 {
			fill = colorRowEven
		}
		rowRect := p.band(TableRowH, fill)
		rowTextY := rowRect.Min.Y + (TableRowH-LineHeight(p.fonts.Normal))/2
		for c, col := range columns {
			if c >= len(row) {
				break
			}
			text := row[c]
			if col.Limit > 0 {
				text = docgen.Truncate(text, col.Limit)
			}
			p.columnText(col, rowTextY, text, p.fonts.Normal, colorText)
		}
		p.stats.Rows++
		p.cursor.Advance(TableRowH)
	}
	return len(rows)
}

func (p *page) columnText(col Column, y int, text string, face font.Face, c color.Color) {
	x := int(col.X * float64(p.width()))
	if col.Right {
		p.canvas.TextRight(x, y, text, face, c)
		return
	}
	p.canvas.Text(x, y, text, face, c)
}

// grid lays items out in columns cells per row, advancing the cursor one
// cell height per row. When a row does not fit above the footer the rest of
// the items, plus hidden entries from later sections, are summarised with an
// overflow line. It returns the number of cells drawn.
func (p *page) grid(count, columns, cellH, hidden int, draw func(i int, cell image.Rectangle)) int {
	if count == 0 {
		return 0
	}
	if columns <= 0 {
		columns = 2
	}
	const gap = 16
	cellW := (p.width() - 2*Margin - (columns-1)*gap) / columns

	drawn := 0
	for start := 0; start < count; start += columns {
		remaining := count - start
		reserve := 0
		if remaining > columns || hidden > 0 {
			reserve = overflowLineH
		}
		if !p.fits(cellH + reserve) {
			p.overflow(remaining + hidden)
			return drawn
		}
		for col := 0; col < columns && start+col < count; col++ {
			x := Margin + col*(cellW+gap)
			cell := image.Rect(x, p.cursor.Y, x+cellW, p.cursor.Y+cellH)
			draw(start+col, cell)
			p.stats.Cells++
			drawn++
		}
		p.cursor.Advance(cellH + gap)
	}
	return drawn
}

// overflow draws the "+N ..." marker for n undrawn entries.
func (p *page) overflow(n int) {
	if n <= 0 {
		return
	}
	p.stats.Overflow += n
	p.canvas.Text(Margin, p.cursor.Y, fmt.Sprintf("+%d ...", n), p.fonts.Normal, colorMuted)
	p.cursor.Advance(overflowLineH)
}

// footer draws a centred line inside the footer band. The cursor moves to
// the bottom of the canvas.
func (p *page) footer(text string) {
	top := p.footerTop()
	p.canvas.Line(image.Pt(Margin, top+20), image.Pt(p.width()-Margin, top+20), colorRule, 1)
	if text != "" {
		p.canvas.TextCentered(top+40, text, p.fonts.Small, colorMuted)
		p.stats.Lines++
	}
	p.cursor.MoveTo(p.canvas.Height())
}
