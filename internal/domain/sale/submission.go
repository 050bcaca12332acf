package sale

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain/financing"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
)

// Submission solicitud de creación de venta que se entrega al almacén externo.
type Submission struct {
	CustomerID          string                  `json:"customerId"`
	SaleType            PaymentType             `json:"saleType"`
	LineItems           []SubmissionLine        `json:"lineItems"`
	Payment             SubmissionPayment       `json:"payment"`
	SelectedDocumentIDs []string                `json:"selectedDocumentIds"`
	Notes               string                  `json:"notes"`
	Guarantor           Guarantor               `json:"-"`
	Schedule            []financing.Installment `json:"schedule,omitempty"`
}

// SubmissionLine línea de la solicitud.
type SubmissionLine struct {
	SourceKind  pricing.SourceKind `json:"sourceKind"`
	ReferenceID string             `json:"referenceId"`
	Color       string             `json:"color,omitempty"`
	ChassisID   string             `json:"chassisId,omitempty"` // registro de chasis identificado
	Chassis     string             `json:"chassis,omitempty"`   // número de chasis (VIN)
	Quantity    int                `json:"quantity"`
	UnitPrice   decimal.Decimal    `json:"unitPrice"`
}

// SubmissionPayment pago de la solicitud. Los campos de crédito solo van en ventas financiadas.
type SubmissionPayment struct {
	TotalAmount       decimal.Decimal     `json:"totalAmount"`
	DownPayment       decimal.Decimal     `json:"downPayment"`
	InstallmentCount  *int                `json:"installmentCount,omitempty"`
	InterestRate      *decimal.Decimal    `json:"interestRate,omitempty"`
	PeriodicPayment   *decimal.Decimal    `json:"periodicPayment,omitempty"`
	TotalWithInterest *decimal.Decimal    `json:"totalWithInterest,omitempty"`
	Frequency         financing.Frequency `json:"frequency,omitempty"`
}

// MarshalJSON agrega el fiador (si lo hay) con su discriminador.
func (s Submission) MarshalJSON() ([]byte, error) {
	type plain Submission
	out := struct {
		plain
		Guarantor json.RawMessage `json:"guarantor,omitempty"`
	}{plain: plain(s)}
	if s.Guarantor != nil {
		g, err := MarshalGuarantor(s.Guarantor)
		if err != nil {
			return nil, err
		}
		out.Guarantor = g
	}
	return json.Marshal(out)
}

func buildSubmission(c Configuration) Submission {
	items := c.Composition.Items()
	lines := make([]SubmissionLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, SubmissionLine{
			SourceKind:  it.SourceKind,
			ReferenceID: it.ReferenceID,
			Color:       it.Color,
			ChassisID:   it.Chassis.RecordID,
			Chassis:     it.Chassis.Identifier,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	docs := append([]string{}, c.SelectedDocumentIDs...)
	sub := Submission{
		CustomerID:          c.CustomerID,
		SaleType:            c.PaymentType,
		LineItems:           lines,
		SelectedDocumentIDs: docs,
		Notes:               c.Notes,
	}
	if c.NeedsGuarantor {
		sub.Guarantor = c.Guarantor
	}

	total := c.Composition.Total()
	if c.PaymentType != PaymentFinanced {
		sub.Payment = SubmissionPayment{TotalAmount: total, DownPayment: total}
		return sub
	}

	terms := c.Financing.Terms(total)
	count := terms.InstallmentCount
	rate := terms.InterestRate
	periodic := c.Schedule.PeriodicPayment
	withInterest := terms.DownPayment.Add(c.Schedule.TotalPaid())
	sub.Payment = SubmissionPayment{
		TotalAmount:       total,
		DownPayment:       terms.DownPayment,
		InstallmentCount:  &count,
		InterestRate:      &rate,
		PeriodicPayment:   &periodic,
		TotalWithInterest: &withInterest,
		Frequency:         terms.Frequency,
	}
	sub.Schedule = append([]financing.Installment(nil), c.Schedule.Installments...)
	return sub
}
