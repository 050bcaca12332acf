package sale

// Document documento que puede acompañar la venta.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// DocumentPolicy catálogo de documentos y cuáles son obligatorios según la configuración.
type DocumentPolicy struct {
	Catalog   []Document
	Always    []string // obligatorios en toda venta
	Financed  []string // adicionales en venta financiada
	Guarantor []string // adicionales cuando hay fiador
}

// DefaultDocumentPolicy política de documentos del concesionario.
func DefaultDocumentPolicy() DocumentPolicy {
	return DocumentPolicy{
		Catalog: []Document{
			{ID: "contrato_compraventa", Title: "Contrato de compraventa"},
			{ID: "factura_venta", Title: "Factura de venta"},
			{ID: "acta_entrega", Title: "Acta de entrega"},
			{ID: "pagare", Title: "Pagaré"},
			{ID: "carta_instrucciones", Title: "Carta de instrucciones del pagaré"},
			{ID: "plan_pagos", Title: "Plan de pagos"},
			{ID: "autorizacion_centrales", Title: "Autorización de consulta en centrales de riesgo"},
			{ID: "pagare_fiador", Title: "Pagaré firmado por el fiador"},
			{ID: "autorizacion_centrales_fiador", Title: "Autorización de consulta del fiador"},
		},
		Always:    []string{"contrato_compraventa", "acta_entrega"},
		Financed:  []string{"pagare", "carta_instrucciones", "plan_pagos", "autorizacion_centrales"},
		Guarantor: []string{"pagare_fiador", "autorizacion_centrales_fiador"},
	}
}

// Known indica si el documento existe en el catálogo.
func (p DocumentPolicy) Known(id string) bool {
	for _, d := range p.Catalog {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Required documentos obligatorios para la configuración, sin repetidos y en orden estable.
func (p DocumentPolicy) Required(c Configuration) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(ids []string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	add(p.Always)
	if c.PaymentType == PaymentFinanced {
		add(p.Financed)
	}
	if c.NeedsGuarantor {
		add(p.Guarantor)
	}
	return out
}

// Missing obligatorios que no están seleccionados.
func (p DocumentPolicy) Missing(c Configuration) []string {
	selected := make(map[string]bool, len(c.SelectedDocumentIDs))
	for _, id := range c.SelectedDocumentIDs {
		selected[id] = true
	}
	var missing []string
	for _, id := range p.Required(c) {
		if !selected[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
