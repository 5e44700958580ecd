package doccanvas

import (
	"fmt"
	"image"
	"image/color"

	"github.com/goliatone/go-docgen/docgen"
)

var colorGold = color.RGBA{R: 138, G: 109, B: 29, A: 255}

func (e *Engine) drawCertificado(p *page, data docgen.Data) {
	w, h := p.width(), p.canvas.Height()
	p.canvas.Rect(image.Rect(25, 25, w-25, h-25), nil, colorGold, 8)
	p.canvas.Rect(image.Rect(45, 45, w-45, h-45), nil, colorGold, 2)

	p.cursor.MoveTo(220)
	p.centered("CERTIFICADO", p.fonts.Title, colorGold)
	p.centered("de Conclusão", p.fonts.Header, colorMuted)
	p.cursor.Advance(80)

	p.centered("Certificamos que", p.fonts.Large, colorText)
	p.cursor.Advance(20)
	p.centeredParagraph(docgen.Lookup(data, "participante"), p.fonts.Title, colorText, docgen.DefaultWrapWidth)
	p.cursor.Advance(20)
	p.centered("concluiu com êxito o curso", p.fonts.Large, colorText)
	p.cursor.Advance(10)
	p.centeredParagraph(docgen.Lookup(data, "curso"), p.fonts.Header, colorGold, docgen.DefaultWrapWidth)
	p.cursor.Advance(60)

	if carga := docgen.Lookup(data, "carga_horaria"); carga != "" {
		p.centered("Carga Horária: "+carga, p.fonts.Normal, colorText)
	}
	date := docgen.Lookup(data, "data_conclusao")
	if date == "" {
		date = docgen.Lookup(data, "data_atual")
	}
	if date != "" {
		p.centered("Data: "+date, p.fonts.Normal, colorText)
	}
	if endereco := docgen.Lookup(data, "endereco"); endereco != "" {
		p.centeredParagraph("Local: "+endereco, p.fonts.Normal, colorMuted, 60)
	}
	lat, lon := docgen.Lookup(data, "latitude"), docgen.Lookup(data, "longitude")
	if lat != "" && lon != "" {
		p.centered(fmt.Sprintf("Coordenadas: %s, %s", lat, lon), p.fonts.Small, colorMuted)
	}

	p.cursor.MoveTo(h - 430)
	center := w / 2
	p.canvas.Line(image.Pt(center-180, p.cursor.Y), image.Pt(center+180, p.cursor.Y), colorText, 2)
	p.cursor.Advance(10)
	if instrutor := docgen.Lookup(data, "instrutor"); instrutor != "" {
		p.centered(instrutor, p.fonts.Bold, colorText)
		p.centered("Instrutor", p.fonts.Small, colorMuted)
	}

	p.cursor.MoveTo(h - 320)
	seal := image.Pt(center, p.cursor.Y+70)
	p.canvas.Ellipse(seal, 70, 70, colorGold, colorText)
	p.canvas.Ellipse(seal, 56, 56, nil, colorWhite)
	year := e.year(data)
	p.canvas.TextCenteredIn(center-70, center+70, seal.Y-LineHeight(p.fonts.Bold)/2, year, p.fonts.Bold, colorWhite)
	p.cursor.Advance(140)
}
