package docgen

import (
	"time"
)

// DateLayout is the display layout for dates (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// Normalizer enriches validated data with derived display fields.
type Normalizer struct {
	Now func() time.Time
}

// Normalize returns a deep copy of data with template defaults and derived
// fields applied. The input map is never modified and applying Normalize to
// its own output yields an equal result.
func (n Normalizer) Normalize(spec TemplateSpec, data Data) Data {
	out := cloneMap(data)
	if out == nil {
		out = make(Data)
	}
	now := n.now()

	for key, value := range spec.Defaults {
		if _, ok := out[key]; !ok {
			out[key] = cloneValue(value)
		}
	}

	if _, ok := out["data_atual"]; !ok {
		out["data_atual"] = now.Format(DateLayout)
	}
	if _, ok := out["ano_atual"]; !ok {
		out["ano_atual"] = now.Year()
	}

	if formatted, ok := FormatAmount(out["valor"]); ok {
		out["valor_formatado"] = formatted
	}

	if items := ObjectList(out, "itens"); items != nil {
		for _, item := range items {
			if formatted, ok := FormatAmount(item["valor"]); ok {
				item["valor_formatado"] = formatted
			}
		}
		out["total_formatado"] = FormatDecimal(RunningTotal(items))
	}

	for _, maker := range ObjectList(out, "catalogo_fabricantes") {
		formatProducts(ObjectList(maker, "produtos"))
	}
	formatProducts(ObjectList(out, "produtos"))

	return out
}

func formatProducts(products []map[string]any) {
	for _, product := range products {
		if formatted, ok := FormatAmount(product["preco_sugerido_reais"]); ok {
			product["preco_formatado"] = formatted
		}
	}
}

func (n Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneMap(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
