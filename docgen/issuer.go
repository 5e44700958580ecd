package docgen

// Issuer identifies the organisation printed on invoices.
type Issuer struct {
	Name    string `json:"name" yaml:"name"`
	TaxID   string `json:"tax_id" yaml:"tax_id"`
	Address string `json:"address" yaml:"address"`
}

// DefaultIssuer is printed when no issuer is configured.
var DefaultIssuer = Issuer{
	Name:    "Sua Empresa",
	TaxID:   "CNPJ: 00.000.000/0001-00",
	Address: "Endereço: Rua Exemplo, 123 - São Paulo/SP",
}

// Lines returns the non-empty issuer lines in print order.
func (i Issuer) Lines() []string {
	lines := make([]string, 0, 3)
	for _, line := range []string{i.Name, i.TaxID, i.Address} {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
