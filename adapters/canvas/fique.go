package doccanvas

import (
	"image"
	"image/color"
	"strings"

	"github.com/goliatone/go-docgen/docgen"
)

const (
	defaultAlertTitle = "Fique de Olho!"
	defaultWeekday    = "Segunda-feira"
	newsIndent        = 76
)

var colorAlert = color.RGBA{R: 245, G: 183, B: 0, A: 255}

func (e *Engine) drawFiqueDeOlho(p *page, data docgen.Data) {
	title := docgen.Lookup(data, "titulo")
	if title == "" {
		title = defaultAlertTitle
	}
	day := docgen.Lookup(data, "dia_semana")
	if day == "" {
		day = defaultWeekday
	}
	subtitle := day
	if date := docgen.Lookup(data, "data_atual"); date != "" {
		subtitle += " - " + date
	}

	w := p.width()
	p.canvas.Rect(image.Rect(0, 0, w, 190), colorAlert, nil, 0)
	p.canvas.Ellipse(image.Pt(w-130, 95), 62, 36, colorWhite, colorText)
	p.canvas.Ellipse(image.Pt(w-130, 95), 20, 20, colorText, nil)
	p.canvas.Text(Margin, 45, title, p.fonts.Title, colorText)
	p.canvas.Text(Margin, 108, subtitle, p.fonts.Large, colorText)
	p.stats.Lines += 2
	p.cursor.MoveTo(230)

	news := docgen.ObjectList(data, "lista_noticias")
	lh := LineHeight(p.fonts.Large) + 4
	for i, item := range news {
		text := strings.TrimSpace(docgen.StringValue(item["texto"]))
		flag := docgen.StringValue(item["flag"])
		if text == "" && flag == "" {
			continue
		}
		lines := docgen.WrapText(text, docgen.DefaultWrapWidth)
		need := max(len(lines)*lh, 32) + 24
		if i < len(news)-1 {
			need += overflowLineH
		}
		if !p.fits(need) {
			p.overflow(len(news) - i)
			break
		}

		top := p.cursor.Y
		if flag != "" {
			badge := image.Rect(Margin, top, Margin+56, top+30)
			p.canvas.Rect(badge, colorAlert, nil, 0)
			p.canvas.TextCenteredIn(badge.Min.X, badge.Max.X, top+(30-LineHeight(p.fonts.Bold))/2, docgen.Truncate(flag, 4), p.fonts.Bold, colorText)
		} else {
			p.canvas.Ellipse(image.Pt(Margin+28, top+15), 8, 8, colorAlert, nil)
		}
		for _, line := range lines {
			p.canvas.Text(Margin+newsIndent, p.cursor.Y, line, p.fonts.Large, colorText)
			p.cursor.Advance(lh)
		}
		p.cursor.MoveTo(top + 32)
		p.stats.Lines += len(lines)
		p.stats.Rows++

		p.cursor.Advance(12)
		p.canvas.Line(image.Pt(Margin, p.cursor.Y), image.Pt(w-Margin, p.cursor.Y), colorRule, 1)
		p.cursor.Advance(12)
	}

	p.footer(title + " - " + e.year(data))
}
