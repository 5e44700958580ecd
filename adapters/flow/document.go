package docflow

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-docgen/docgen"
	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Helvetica"
	marginMM   = 20.0
)

// Column describes one table column. Width is a fraction of the usable
// page width.
type Column struct {
	Title string
	Width float64
	Align string
}

// Document wraps a gofpdf document with the few flowables the builders need.
// Text goes through a cp1252 translator so accented Portuguese prints with
// the core fonts.
type Document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDocument(orientation, footer string) *Document {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.AliasNbPages("")
	doc := &Document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if footer != "" {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont(fontFamily, "I", 8)
			pdf.SetTextColor(128, 128, 128)
			pdf.CellFormat(0, 10, doc.tr(fmt.Sprintf("%s - página %d/{nb}", footer, pdf.PageNo())), "", 0, "C", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		})
	}
	pdf.AddPage()
	return doc
}

// Title writes a large centred heading.
func (d *Document) Title(text string) {
	d.pdf.SetFont(fontFamily, "B", 22)
	d.pdf.MultiCell(0, 11, d.tr(text), "", "C", false)
	d.pdf.Ln(3)
}

// Heading writes a bold line at size points.
func (d *Document) Heading(text string, size float64) {
	d.pdf.SetFont(fontFamily, "B", size)
	d.pdf.MultiCell(0, size*0.55, d.tr(text), "", "L", false)
	d.pdf.Ln(1)
}

// Centered writes a line centred on the page.
func (d *Document) Centered(text string, style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
	d.pdf.MultiCell(0, size*0.55, d.tr(text), "", "C", false)
}

// Paragraph writes body text, wrapping at the right margin.
func (d *Document) Paragraph(text string) {
	d.pdf.SetFont(fontFamily, "", 11)
	d.pdf.MultiCell(0, 6, d.tr(text), "", "L", false)
}

// Muted writes small grey text.
func (d *Document) Muted(text string) {
	d.pdf.SetFont(fontFamily, "", 9)
	d.pdf.SetTextColor(110, 110, 110)
	d.pdf.MultiCell(0, 5, d.tr(text), "", "L", false)
	d.pdf.SetTextColor(0, 0, 0)
}

// Space adds vertical space in millimetres.
func (d *Document) Space(mm float64) {
	d.pdf.Ln(mm)
}

// Rule draws a horizontal line across the usable width.
func (d *Document) Rule() {
	width, _ := d.pdf.GetPageSize()
	y := d.pdf.GetY()
	d.pdf.SetDrawColor(180, 180, 180)
	d.pdf.Line(marginMM, y, width-marginMM, y)
	d.pdf.Ln(3)
}

// Table writes a header row followed by rows with alternating backgrounds.
// Cell text longer than its column is truncated.
func (d *Document) Table(columns []Column, rows [][]string) {
	usable := d.usableWidth()
	d.pdf.SetFont(fontFamily, "B", 11)
	d.pdf.SetFillColor(90, 90, 90)
	d.pdf.SetTextColor(255, 255, 255)
	for _, col := range columns {
		d.pdf.CellFormat(usable*col.Width, 8, d.tr(col.Title), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.SetTextColor(0, 0, 0)
	for i, row := range rows {
		if i%2 == 0 {
			d.pdf.SetFillColor(245, 245, 220)
		} else {
			d.pdf.SetFillColor(255, 255, 255)
		}
		for c, col := range columns {
			text := ""
			if c < len(row) {
				text = row[c]
			}
			width := usable * col.Width
			text = docgen.Truncate(text, int(width/2))
			align := col.Align
			if align == "" {
				align = "L"
			}
			d.pdf.CellFormat(width, 7, d.tr(text), "1", 0, align, true, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

// Bytes finishes the document.
func (d *Document) Bytes() ([]byte, error) {
	if d.pdf.Err() {
		return nil, docgen.NewError(docgen.KindInternal, "build flow document", d.pdf.Error())
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, docgen.NewError(docgen.KindInternal, "write flow document", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) usableWidth() float64 {
	width, _ := d.pdf.GetPageSize()
	return width - 2*marginMM
}
