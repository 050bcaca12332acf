package sale

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/financing"
)

// PaymentType forma de pago.
type PaymentType string

const (
	PaymentCash     PaymentType = "cash"
	PaymentFinanced PaymentType = "financed"
)

// Valid indica si la forma de pago es conocida.
func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentFinanced
}

// FinancingInput condiciones ingresadas por el asesor; el total sale siempre de la composición.
type FinancingInput struct {
	DownPayment      decimal.Decimal     `json:"down_payment"`
	InterestRate     decimal.Decimal     `json:"interest_rate"`
	InstallmentCount int                 `json:"installment_count"`
	Frequency        financing.Frequency `json:"frequency"`
	StartDate        time.Time           `json:"start_date"`
}

// Terms condiciones completas para el total dado.
func (f FinancingInput) Terms(total decimal.Decimal) financing.Terms {
	return financing.Terms{
		TotalAmount:      total,
		DownPayment:      f.DownPayment.Round(2),
		InterestRate:     f.InterestRate,
		InstallmentCount: f.InstallmentCount,
		Frequency:        f.Frequency,
		StartDate:        f.StartDate,
	}
}

// Configuration estado completo de una venta en construcción. Es un valor inmutable: los eventos
// producen configuraciones nuevas (ver Apply) y los campos derivados solo los escribe Recompute.
type Configuration struct {
	CompanyID           string          `json:"company_id"`
	CustomerID          string          `json:"customer_id,omitempty"`
	NeedsGuarantor      bool            `json:"needs_guarantor"`
	Guarantor           Guarantor       `json:"-"`
	PaymentType         PaymentType     `json:"payment_type,omitempty"`
	Composition         Composition     `json:"items"`
	Financing           *FinancingInput `json:"financing,omitempty"`
	SelectedDocumentIDs []string        `json:"selected_document_ids"`
	Notes               string          `json:"notes,omitempty"`
	DraftID             string          `json:"draft_id,omitempty"`
	CurrentStep         int             `json:"current_step"`
	Revision            int64           `json:"revision"`

	// Derivados.
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Schedule        *financing.Schedule `json:"schedule,omitempty"`
	FinancingIssues []domain.FieldError `json:"financing_issues,omitempty"`
}

// New configuración vacía para la empresa.
func New(companyID string) Configuration {
	return Configuration{CompanyID: companyID, TotalAmount: decimal.Zero}
}

// IsFinanced indica venta a crédito.
func (c Configuration) IsFinanced() bool { return c.PaymentType == PaymentFinanced }

// HasSchedule indica si hay un plan de pagos calculado con cuotas.
func (c Configuration) HasSchedule() bool { return c.Schedule != nil && !c.Schedule.Empty() }

// CanSaveDraft un borrador solo se guarda cuando la venta ya tiene cliente.
func (c Configuration) CanSaveDraft() bool { return c.CustomerID != "" }

type configurationJSON Configuration

// MarshalJSON incluye el fiador con su discriminador.
func (c Configuration) MarshalJSON() ([]byte, error) {
	g, err := MarshalGuarantor(c.Guarantor)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		configurationJSON
		Guarantor json.RawMessage `json:"guarantor"`
	}{configurationJSON(c), g})
}

// UnmarshalJSON lee la forma producida por MarshalJSON.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var aux struct {
		configurationJSON
		Guarantor json.RawMessage `json:"guarantor"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Configuration(aux.configurationJSON)
	c.Guarantor = nil
	if len(aux.Guarantor) > 0 {
		g, err := UnmarshalGuarantor(aux.Guarantor)
		if err != nil {
			return err
		}
		c.Guarantor = g
	}
	return nil
}

// MarshalSnapshot serializa la configuración para guardarla como borrador.
func MarshalSnapshot(c Configuration) ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalSnapshot restaura un borrador. Los campos derivados se deben recalcular con Recompute.
func UnmarshalSnapshot(data []byte) (Configuration, error) {
	var c Configuration
	if err := json.Unmarshal(data, &c); err != nil {
		return Configuration{}, fmt.Errorf("%w: borrador ilegible: %v", domain.ErrInvalidInput, err)
	}
	return c, nil
}
