package docflow

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-docgen/docgen"
)

func (r *Renderer) buildFatura(doc *Document, data docgen.Data) {
	doc.Title("FATURA")
	if numero := docgen.Lookup(data, "numero_fatura"); numero != "" {
		doc.Centered("Nº "+numero, "", 11)
	}
	doc.Space(4)

	for i, line := range r.Issuer.Lines() {
		if i == 0 {
			doc.Heading(line, 14)
			continue
		}
		doc.Paragraph(line)
	}
	doc.Space(4)

	doc.Heading("Cliente: "+docgen.Lookup(data, "cliente"), 13)
	if descricao := docgen.Lookup(data, "descricao"); descricao != "" {
		doc.Paragraph("Descrição: " + descricao)
	}
	doc.Space(4)

	items := docgen.ObjectList(data, "itens")
	if len(items) > 0 {
		rows := make([][]string, 0, len(items))
		for i, item := range items {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				docgen.StringValue(item["descricao"]),
				itemValue(item),
			})
		}
		doc.Table([]Column{
			{Title: "#", Width: 0.1, Align: "C"},
			{Title: "Descrição", Width: 0.6},
			{Title: "Valor", Width: 0.3, Align: "R"},
		}, rows)
		doc.Space(4)

		total := docgen.Lookup(data, "total_formatado")
		if total == "" {
			total = docgen.FormatDecimal(docgen.RunningTotal(items))
		}
		doc.Heading("Total: "+total, 14)
	}

	doc.Space(4)
	doc.Paragraph("Data: " + docgen.Lookup(data, "data_atual"))
}

func itemValue(item map[string]any) string {
	if formatted := docgen.StringValue(item["valor_formatado"]); formatted != "" {
		return formatted
	}
	if formatted, ok := docgen.FormatAmount(item["valor"]); ok {
		return formatted
	}
	return docgen.StringValue(item["valor"])
}

func buildCertificado(doc *Document, data docgen.Data) {
	doc.Space(12)
	doc.Title("CERTIFICADO")
	doc.Centered("de Conclusão", "", 15)
	doc.Space(12)

	doc.Centered("Certificamos que", "", 12)
	doc.Space(5)
	doc.Centered(docgen.Lookup(data, "participante"), "B", 22)
	doc.Space(5)
	doc.Centered("concluiu com êxito o curso", "", 12)
	doc.Space(3)
	doc.Centered(docgen.Lookup(data, "curso"), "I", 16)
	doc.Space(10)

	if instrutor := docgen.Lookup(data, "instrutor"); instrutor != "" {
		doc.Centered("Instrutor: "+instrutor, "", 11)
	}
	if carga := docgen.Lookup(data, "carga_horaria"); carga != "" {
		doc.Centered("Carga Horária: "+carga, "", 11)
	}
	date := docgen.Lookup(data, "data_conclusao")
	if date == "" {
		date = docgen.Lookup(data, "data_atual")
	}
	doc.Space(4)
	doc.Centered("Data: "+date, "", 11)

	if endereco := docgen.Lookup(data, "endereco"); endereco != "" {
		doc.Space(4)
		doc.Centered("Local: "+endereco, "", 11)
	}
}

func buildCatalogo(doc *Document, data docgen.Data) {
	doc.Title("CATÁLOGO DE PRODUTOS")
	if date := docgen.CatalogDate(data); date != "" {
		doc.Centered("Atualizado em: "+date, "", 10)
	}
	doc.Space(6)

	columns := []Column{
		{Title: "Código", Width: 0.15},
		{Title: "Produto", Width: 0.55},
		{Title: "Un.", Width: 0.1, Align: "C"},
		{Title: "Preço", Width: 0.2, Align: "R"},
	}

	for _, section := range docgen.CatalogSections(data) {
		doc.Heading(section.Name, 13)
		doc.Table(columns, productRows(section.Products))
		doc.Space(6)
	}

	doc.Space(4)
	doc.Rule()
	doc.Muted(fmt.Sprintf("© %s - Catálogo de Produtos", docgen.Lookup(data, "ano_atual")))
}

func productRows(products []map[string]any) [][]string {
	rows := make([][]string, 0, len(products))
	for _, product := range products {
		price := docgen.StringValue(product["preco_formatado"])
		if price == "" {
			price, _ = docgen.FormatAmount(product["preco_sugerido_reais"])
		}
		rows = append(rows, []string{
			docgen.StringValue(product["codigo_produto"]),
			docgen.StringValue(product["nome_produto"]),
			docgen.StringValue(product["unidade"]),
			price,
		})
	}
	return rows
}

func buildFiqueDeOlho(doc *Document, data docgen.Data) {
	title := docgen.Lookup(data, "titulo")
	if title == "" {
		title = "Fique de Olho!"
	}
	day := docgen.Lookup(data, "dia_semana")
	if day == "" {
		day = "Segunda-feira"
	}
	doc.Title(title)
	doc.Centered(strings.TrimSpace(day+" - "+docgen.Lookup(data, "data_atual")), "", 12)
	doc.Space(6)

	for _, item := range docgen.ObjectList(data, "lista_noticias") {
		text := strings.TrimSpace(docgen.StringValue(item["texto"]))
		flag := docgen.StringValue(item["flag"])
		if text == "" && flag == "" {
			continue
		}
		if flag != "" {
			text = "[" + flag + "] " + text
		}
		doc.Paragraph("• " + text)
		doc.Space(2)
	}
}

func buildGeneric(doc *Document, spec docgen.TemplateSpec, data docgen.Data) {
	name := spec.Name
	if name == "" {
		name = spec.ID
	}
	doc.Title(name)
	if spec.Description != "" {
		doc.Muted(spec.Description)
	}
	doc.Space(4)

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		doc.Paragraph(fmt.Sprintf("%s: %s", key, docgen.StringValue(data[key])))
	}
}
