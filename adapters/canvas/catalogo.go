package doccanvas

import (
	"image"
	"image/color"

	"github.com/goliatone/go-docgen/docgen"
)

const (
	catalogCellH    = 170
	catalogColumns  = 2
	sectionHeaderH  = 44
	thumbnailSize   = 120
	productNameMax  = 30
	productBlurbMax = 38
)

var (
	colorCatalog     = color.RGBA{R: 11, G: 110, B: 79, A: 255}
	colorPlaceholder = color.RGBA{R: 236, G: 236, B: 236, A: 255}
)

func (e *Engine) drawCatalogo(p *page, data docgen.Data) {
	p.centered("Catálogo de Produtos", p.fonts.Title, colorCatalog)
	if date := docgen.CatalogDate(data); date != "" {
		p.centered("Atualizado em: "+date, p.fonts.Normal, colorMuted)
	}
	p.rule()

	sections := docgen.CatalogSections(data)
	hidden := 0
	for _, section := range sections {
		hidden += len(section.Products)
	}

	for _, section := range sections {
		hidden -= len(section.Products)
		if !p.fits(sectionHeaderH + catalogCellH) {
			p.overflow(len(section.Products) + hidden)
			break
		}
		band := p.band(sectionHeaderH, colorCatalog)
		p.canvas.Text(band.Min.X+14, band.Min.Y+(sectionHeaderH-LineHeight(p.fonts.Header))/2, section.Name, p.fonts.Header, colorWhite)
		p.stats.Lines++
		p.cursor.Advance(sectionHeaderH + 12)

		products := section.Products
		drawn := p.grid(len(products), catalogColumns, catalogCellH, hidden, func(i int, cell image.Rectangle) {
			e.drawProduct(p, products[i], cell)
		})
		if drawn < len(products) {
			break
		}
		p.cursor.Advance(SectionGap)
	}

	p.footer("© " + e.year(data) + " - Catálogo de Produtos")
}

func (e *Engine) drawProduct(p *page, product map[string]any, cell image.Rectangle) {
	p.canvas.Rect(cell, nil, colorRule, 2)

	thumb := image.Rect(cell.Min.X+10, cell.Min.Y+10, cell.Min.X+10+thumbnailSize, cell.Min.Y+10+thumbnailSize)
	if img := p.thumbnail(product); img != nil {
		p.canvas.DrawImage(img, thumb)
	} else {
		drawMissingImage(p.canvas, thumb, p.fonts)
	}

	x := thumb.Max.X + 12
	right := cell.Max.X - 10
	y := cell.Min.Y + 10

	p.canvas.Text(x, y, "Código: "+docgen.Lookup(product, "codigo_produto"), p.fonts.Small, colorMuted)
	if categoria := docgen.Lookup(product, "categoria"); categoria != "" {
		p.canvas.TextRight(right, y, docgen.Truncate(categoria, 14), p.fonts.Small, colorCatalog)
	}
	y += 22
	p.canvas.Text(x, y, docgen.Truncate(docgen.Lookup(product, "nome_produto"), productNameMax), p.fonts.Bold, colorText)
	y += 26
	if blurb := docgen.Lookup(product, "descricao_curta"); blurb != "" {
		p.canvas.Text(x, y, docgen.Truncate(blurb, productBlurbMax), p.fonts.Small, colorText)
	}
	y += 30
	p.canvas.Text(x, y, productPrice(product), p.fonts.Header, colorCatalog)
	y += 36
	if unidade := docgen.Lookup(product, "unidade"); unidade != "" {
		p.canvas.Text(x, y, "Unidade: "+unidade, p.fonts.Small, colorMuted)
	}
}

// thumbnail fetches the product image. Any failure yields nil so the cell
// falls back to the missing-image graphic.
func (p *page) thumbnail(product map[string]any) image.Image {
	url := docgen.ProductImageURL(product)
	if url == "" || p.fetcher == nil {
		return nil
	}
	img, err := p.fetcher.Fetch(p.ctx, url)
	if err != nil {
		p.logger.Debugf("thumbnail %s unavailable: %v", url, err)
		return nil
	}
	return img
}

func drawMissingImage(c *Canvas, r image.Rectangle, fonts FontSet) {
	c.Rect(r, colorPlaceholder, colorRule, 2)
	c.Line(r.Min, r.Max.Sub(image.Pt(1, 1)), colorRule, 1)
	c.Line(image.Pt(r.Min.X, r.Max.Y-1), image.Pt(r.Max.X-1, r.Min.Y), colorRule, 1)
	c.TextCenteredIn(r.Min.X, r.Max.X, r.Min.Y+(r.Dy()-LineHeight(fonts.Small))/2, "sem imagem", fonts.Small, colorMuted)
}

func productPrice(product map[string]any) string {
	if price := docgen.Lookup(product, "preco_formatado"); price != "" {
		return price
	}
	return displayAmount(product, "preco_sugerido_reais")
}
