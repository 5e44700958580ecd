package docgen

// ProductsHeading titles the section built from top-level produtos.
const ProductsHeading = "Produtos"

// CatalogSection is a titled group of catalog products.
type CatalogSection struct {
	Name     string
	Products []map[string]any
}

// CatalogSections returns the product groups every catalog layout draws:
// one per manufacturer in catalogo_fabricantes followed by the top-level
// produtos list. Groups without products are omitted.
func CatalogSections(data Data) []CatalogSection {
	var sections []CatalogSection
	for _, maker := range ObjectList(data, "catalogo_fabricantes") {
		products := ObjectList(maker, "produtos")
		if len(products) == 0 {
			continue
		}
		sections = append(sections, CatalogSection{Name: Lookup(maker, "nome_fabricante"), Products: products})
	}
	if products := ObjectList(data, "produtos"); len(products) > 0 {
		sections = append(sections, CatalogSection{Name: ProductsHeading, Products: products})
	}
	return sections
}

// ProductImageURL returns the image reference of a catalog product.
func ProductImageURL(product map[string]any) string {
	if url := Lookup(product, "url_imagem_placeholder"); url != "" {
		return url
	}
	return Lookup(product, "imagem_url")
}

// CatalogDate is the date printed under a catalog title.
func CatalogDate(data Data) string {
	if date := Lookup(data, "data_geracao"); date != "" {
		return date
	}
	return Lookup(data, "data_atual")
}
