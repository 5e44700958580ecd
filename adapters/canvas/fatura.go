package doccanvas

import (
	"image"
	"image/color"
	"strconv"

	"github.com/goliatone/go-docgen/docgen"
)

var colorInvoice = color.RGBA{R: 31, G: 78, B: 121, A: 255}

// clientWrap fits the header face inside the margins.
const clientWrap = 55

var invoiceColumns = []Column{
	{Title: "#", X: 0.07, Limit: 4},
	{Title: "Descrição", X: 0.13, Limit: 48},
	{Title: "Valor", X: 0.93, Right: true},
}

func (e *Engine) drawFatura(p *page, data docgen.Data) {
	p.canvas.Rect(image.Rect(0, 0, p.width(), 140), colorInvoice, nil, 0)
	p.canvas.TextCentered(35, "FATURA", p.fonts.Title, colorWhite)
	p.stats.Lines++
	if numero := docgen.Lookup(data, "numero_fatura"); numero != "" {
		p.canvas.TextCentered(92, "Nº "+numero, p.fonts.Normal, colorWhite)
		p.stats.Lines++
	}
	p.cursor.MoveTo(170)

	for i, line := range e.issuer.Lines() {
		if i == 0 {
			p.heading(line, p.fonts.Header, colorInvoice)
			continue
		}
		p.paragraph(line, p.fonts.Small, colorMuted, Margin, 80)
	}
	p.cursor.Advance(10)
	p.rule()

	p.paragraph("Cliente: "+docgen.Lookup(data, "cliente"), p.fonts.Header, colorText, Margin, clientWrap)
	p.cursor.Advance(4)
	if descricao := docgen.Lookup(data, "descricao"); descricao != "" {
		p.paragraph("Descrição: "+descricao, p.fonts.Normal, colorText, Margin, docgen.DefaultWrapWidth)
	}
	p.cursor.Advance(SectionGap)

	items := docgen.ObjectList(data, "itens")
	if len(items) > 0 {
		rows := make([][]string, 0, len(items))
		for i, item := range items {
			rows = append(rows, []string{strconv.Itoa(i + 1), docgen.StringValue(item["descricao"]), displayAmount(item, "valor")})
		}
		p.table(invoiceColumns, rows, colorInvoice)

		p.stats.Total = docgen.RunningTotal(items)
		p.cursor.Advance(12)
		if p.fits(LineHeight(p.fonts.Header)) {
			p.canvas.TextRight(p.width()-Margin-20, p.cursor.Y, "Total: "+docgen.FormatDecimal(p.stats.Total), p.fonts.Header, colorInvoice)
			p.stats.Lines++
			p.cursor.Advance(LineHeight(p.fonts.Header) + 8)
		}
		p.cursor.Advance(SectionGap)
	}

	p.keyValue("Data", docgen.Lookup(data, "data_atual"), docgen.DefaultWrapWidth)
	p.footer("Documento gerado em " + docgen.Lookup(data, "data_atual"))
}

// displayAmount prefers the normalized {key}_formatado field and otherwise
// shows the raw value as provided.
func displayAmount(obj map[string]any, key string) string {
	if formatted := docgen.StringValue(obj[key+"_formatado"]); formatted != "" {
		return formatted
	}
	if formatted, ok := docgen.FormatAmount(obj[key]); ok {
		return formatted
	}
	return docgen.StringValue(obj[key])
}
